package geom

import "math"

// Rect represents an axis-aligned bounding box.
type Rect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// RectFromPoints returns the rect spanned by two opposite corners.
func RectFromPoints(a, b Point) Rect {
	return Rect{
		X:      math.Min(a.X, b.X),
		Y:      math.Min(a.Y, b.Y),
		Width:  math.Abs(b.X - a.X),
		Height: math.Abs(b.Y - a.Y),
	}
}

// Contains checks if a point is inside the rect.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.X+r.Width && p.Y >= r.Y && p.Y <= r.Y+r.Height
}

// IsEmpty checks if the rect has zero or negative area.
func (r Rect) IsEmpty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Center returns the center point of the rect.
func (r Rect) Center() Point {
	return Point{r.X + r.Width/2, r.Y + r.Height/2}
}

// Union returns the smallest rect containing both rects. Degenerate rects
// (lines and points) still contribute their extent.
func (r Rect) Union(other Rect) Rect {
	var b Bounds
	b.AddRect(r)
	b.AddRect(other)
	return b.Rect()
}

// Bounds accumulates points into a bounding box. The zero value is empty.
type Bounds struct {
	minX, minY, maxX, maxY float64
	set                    bool
}

// Add extends the box to include p.
func (b *Bounds) Add(p Point) {
	if !b.set {
		b.minX, b.maxX = p.X, p.X
		b.minY, b.maxY = p.Y, p.Y
		b.set = true
		return
	}
	b.minX = math.Min(b.minX, p.X)
	b.maxX = math.Max(b.maxX, p.X)
	b.minY = math.Min(b.minY, p.Y)
	b.maxY = math.Max(b.maxY, p.Y)
}

// AddRect extends the box to include all four corners of r.
func (b *Bounds) AddRect(r Rect) {
	b.Add(Point{r.X, r.Y})
	b.Add(Point{r.X + r.Width, r.Y + r.Height})
}

// Empty reports whether no point has been added.
func (b *Bounds) Empty() bool { return !b.set }

// Rect returns the accumulated box, or the zero Rect when empty.
func (b *Bounds) Rect() Rect {
	if !b.set {
		return Rect{}
	}
	return Rect{
		X:      b.minX,
		Y:      b.minY,
		Width:  b.maxX - b.minX,
		Height: b.maxY - b.minY,
	}
}
