// Package geom holds the plane geometry shared by the scene builder:
// points, rectangles, affine matrices and SVG path segments.
package geom

import (
	"math"
	"strconv"
)

// Point is a position in user units.
type Point struct {
	X float64
	Y float64
}

// Pt is shorthand for Point{x, y}.
func Pt(x, y float64) Point { return Point{X: x, Y: y} }

func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Polar returns the point at angle ang (radians) on the ellipse with radii
// rx, ry centred on p.
func (p Point) Polar(rx, ry, ang float64) Point {
	return Point{p.X + rx*math.Cos(ang), p.Y + ry*math.Sin(ang)}
}

// String formats the point as "x,y", the pair syntax used in path data.
func (p Point) String() string {
	return Num(p.X) + "," + Num(p.Y)
}

// Num formats a coordinate for attribute output. Values are rounded to ten
// decimal places so trigonometric noise such as sin(pi) prints as 0.
func Num(v float64) string {
	r := math.Round(v*1e10) / 1e10
	if r == 0 {
		return "0"
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}
