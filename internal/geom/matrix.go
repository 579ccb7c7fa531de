package geom

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Matrix2D represents a 2D affine transformation matrix.
// Layout: [a, b, c, d, e, f] representing:
// | a  c  e |
// | b  d  f |
// | 0  0  1 |
type Matrix2D [6]float64

var ErrBadTransform = errors.New("malformed transform")

// Identity returns the identity matrix.
func Identity() Matrix2D {
	return Matrix2D{1, 0, 0, 1, 0, 0}
}

// Translate returns a translation matrix.
func Translate(tx, ty float64) Matrix2D {
	return Matrix2D{1, 0, 0, 1, tx, ty}
}

// Scale returns a scale matrix.
func Scale(sx, sy float64) Matrix2D {
	return Matrix2D{sx, 0, 0, sy, 0, 0}
}

// Rotate returns a rotation matrix (angle in radians).
func Rotate(radians float64) Matrix2D {
	cos := math.Cos(radians)
	sin := math.Sin(radians)
	return Matrix2D{cos, sin, -sin, cos, 0, 0}
}

// RotateDegrees returns a rotation matrix (angle in degrees).
func RotateDegrees(degrees float64) Matrix2D {
	return Rotate(degrees * math.Pi / 180.0)
}

// SkewX returns a horizontal skew matrix (angle in degrees).
func SkewX(degrees float64) Matrix2D {
	return Matrix2D{1, 0, math.Tan(degrees * math.Pi / 180.0), 1, 0, 0}
}

// SkewY returns a vertical skew matrix (angle in degrees).
func SkewY(degrees float64) Matrix2D {
	return Matrix2D{1, math.Tan(degrees * math.Pi / 180.0), 0, 1, 0, 0}
}

// Multiply multiplies this matrix by another: result = m * other
// This applies 'other' first, then 'm'.
func (m Matrix2D) Multiply(other Matrix2D) Matrix2D {
	return Matrix2D{
		m[0]*other[0] + m[2]*other[1],
		m[1]*other[0] + m[3]*other[1],
		m[0]*other[2] + m[2]*other[3],
		m[1]*other[2] + m[3]*other[3],
		m[0]*other[4] + m[2]*other[5] + m[4],
		m[1]*other[4] + m[3]*other[5] + m[5],
	}
}

// TransformPoint applies the matrix to a point.
func (m Matrix2D) TransformPoint(p Point) Point {
	return Point{m[0]*p.X + m[2]*p.Y + m[4], m[1]*p.X + m[3]*p.Y + m[5]}
}

// TransformRect transforms a rectangle and returns its axis-aligned bounding box.
func (m Matrix2D) TransformRect(r Rect) Rect {
	var b Bounds
	b.Add(m.TransformPoint(Point{r.X, r.Y}))
	b.Add(m.TransformPoint(Point{r.X + r.Width, r.Y}))
	b.Add(m.TransformPoint(Point{r.X + r.Width, r.Y + r.Height}))
	b.Add(m.TransformPoint(Point{r.X, r.Y + r.Height}))
	return b.Rect()
}

// Determinant returns the determinant of the matrix.
func (m Matrix2D) Determinant() float64 {
	return m[0]*m[3] - m[1]*m[2]
}

// Invert returns the inverse of the matrix, or Identity if not invertible.
func (m Matrix2D) Invert() Matrix2D {
	det := m.Determinant()
	if det == 0 {
		return Identity()
	}

	invDet := 1.0 / det
	return Matrix2D{
		m[3] * invDet,
		-m[1] * invDet,
		-m[2] * invDet,
		m[0] * invDet,
		(m[2]*m[5] - m[3]*m[4]) * invDet,
		(m[1]*m[4] - m[0]*m[5]) * invDet,
	}
}

// IsIdentity checks if this is the identity matrix (within epsilon).
func (m Matrix2D) IsIdentity() bool {
	const eps = 1e-10
	return math.Abs(m[0]-1) < eps &&
		math.Abs(m[1]) < eps &&
		math.Abs(m[2]) < eps &&
		math.Abs(m[3]-1) < eps &&
		math.Abs(m[4]) < eps &&
		math.Abs(m[5]) < eps
}

// ParseTransform parses an SVG transform attribute such as
// "translate(10,20) rotate(45)". The functions compose left to right, so
// the rightmost one is applied to points first. An empty string yields the
// identity.
func ParseTransform(s string) (Matrix2D, error) {
	m := Identity()
	sc := newScanner(s)
	for !sc.done() {
		start := sc.pos
		for sc.pos < len(sc.b) && sc.b[sc.pos] != '(' && !isSpace(sc.b[sc.pos]) {
			sc.pos++
		}
		name := strings.TrimSpace(string(sc.b[start:sc.pos]))
		sc.skipSpace()
		if sc.peek() != '(' {
			return Identity(), fmt.Errorf("parse transform %q: %w", s, ErrBadTransform)
		}
		sc.pos++
		args := sc.numbers(6)
		sc.skipSpace()
		if sc.peek() != ')' {
			return Identity(), fmt.Errorf("parse transform %q: %w", s, ErrBadTransform)
		}
		sc.pos++
		sc.skipSep()

		t, err := transformFunc(name, args)
		if err != nil {
			return Identity(), fmt.Errorf("parse transform %q: %w", s, err)
		}
		m = m.Multiply(t)
	}
	return m, nil
}

func transformFunc(name string, a []float64) (Matrix2D, error) {
	switch {
	case name == "matrix" && len(a) == 6:
		return Matrix2D{a[0], a[1], a[2], a[3], a[4], a[5]}, nil
	case name == "translate" && len(a) == 1:
		return Translate(a[0], 0), nil
	case name == "translate" && len(a) == 2:
		return Translate(a[0], a[1]), nil
	case name == "scale" && len(a) == 1:
		return Scale(a[0], a[0]), nil
	case name == "scale" && len(a) == 2:
		return Scale(a[0], a[1]), nil
	case name == "rotate" && len(a) == 1:
		return RotateDegrees(a[0]), nil
	case name == "rotate" && len(a) == 3:
		return Translate(a[1], a[2]).Multiply(RotateDegrees(a[0])).Multiply(Translate(-a[1], -a[2])), nil
	case name == "skewX" && len(a) == 1:
		return SkewX(a[0]), nil
	case name == "skewY" && len(a) == 1:
		return SkewY(a[0]), nil
	}
	return Identity(), fmt.Errorf("%s with %d arguments: %w", name, len(a), ErrBadTransform)
}
