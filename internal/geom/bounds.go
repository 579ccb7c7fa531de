package geom

import "math"

// Bounds returns the exact axis-aligned bounding box of the path, including
// curve and arc extrema rather than just control points.
func (p Path) Bounds() Rect {
	var b Bounds
	var cur, subStart Point
	for _, seg := range p {
		switch s := seg.(type) {
		case MoveTo:
			b.Add(s.To)
			subStart = s.To
		case LineTo:
			b.Add(s.To)
		case QuadTo:
			b.Add(s.To)
			for _, t := range quadExtrema(cur, s.Ctrl, s.To) {
				b.Add(quadAt(cur, s.Ctrl, s.To, t))
			}
		case CubicTo:
			b.Add(s.To)
			for _, t := range cubicExtrema(cur, s.Ctrl1, s.Ctrl2, s.To) {
				b.Add(cubicAt(cur, s.Ctrl1, s.Ctrl2, s.To, t))
			}
		case ArcTo:
			b.Add(s.To)
			for _, q := range arcExtrema(cur, s) {
				b.Add(q)
			}
		case Close:
			cur = subStart
			continue
		}
		cur = seg.End(cur)
	}
	return b.Rect()
}

func quadAt(p0, p1, p2 Point, t float64) Point {
	mt := 1 - t
	return Point{
		mt*mt*p0.X + 2*mt*t*p1.X + t*t*p2.X,
		mt*mt*p0.Y + 2*mt*t*p1.Y + t*t*p2.Y,
	}
}

func cubicAt(p0, p1, p2, p3 Point, t float64) Point {
	mt := 1 - t
	a, b, c, d := mt*mt*mt, 3*mt*mt*t, 3*mt*t*t, t*t*t
	return Point{
		a*p0.X + b*p1.X + c*p2.X + d*p3.X,
		a*p0.Y + b*p1.Y + c*p2.Y + d*p3.Y,
	}
}

func quadExtrema(p0, p1, p2 Point) []float64 {
	var ts []float64
	for _, v := range [][3]float64{{p0.X, p1.X, p2.X}, {p0.Y, p1.Y, p2.Y}} {
		den := v[0] - 2*v[1] + v[2]
		if den == 0 {
			continue
		}
		if t := (v[0] - v[1]) / den; t > 0 && t < 1 {
			ts = append(ts, t)
		}
	}
	return ts
}

// cubicExtrema solves B'(t) = 0 per axis; B'(t)/3 = a t^2 + b t + c.
func cubicExtrema(p0, p1, p2, p3 Point) []float64 {
	var ts []float64
	for _, v := range [][4]float64{{p0.X, p1.X, p2.X, p3.X}, {p0.Y, p1.Y, p2.Y, p3.Y}} {
		a := -v[0] + 3*v[1] - 3*v[2] + v[3]
		b := 2 * (v[0] - 2*v[1] + v[2])
		c := v[1] - v[0]
		for _, t := range solveQuadratic(a, b, c) {
			if t > 0 && t < 1 {
				ts = append(ts, t)
			}
		}
	}
	return ts
}

func solveQuadratic(a, b, c float64) []float64 {
	const eps = 1e-12
	if math.Abs(a) < eps {
		if math.Abs(b) < eps {
			return nil
		}
		return []float64{-c / b}
	}
	disc := b*b - 4*a*c
	if disc < 0 {
		return nil
	}
	sq := math.Sqrt(disc)
	return []float64{(-b + sq) / (2 * a), (-b - sq) / (2 * a)}
}

// arcExtrema returns the points where the arc from start reaches an axis
// extreme of its ellipse. It converts the endpoint form to the centre form
// (SVG 1.1 appendix F.6.5) and tests the four axis-aligned tangent angles.
func arcExtrema(start Point, a ArcTo) []Point {
	rx, ry := math.Abs(a.RX), math.Abs(a.RY)
	if rx == 0 || ry == 0 || start == a.To {
		return nil
	}
	phi := a.Rotation * math.Pi / 180
	cosPhi, sinPhi := math.Cos(phi), math.Sin(phi)

	dx, dy := (start.X-a.To.X)/2, (start.Y-a.To.Y)/2
	x1 := cosPhi*dx + sinPhi*dy
	y1 := -sinPhi*dx + cosPhi*dy

	if lambda := x1*x1/(rx*rx) + y1*y1/(ry*ry); lambda > 1 {
		s := math.Sqrt(lambda)
		rx, ry = rx*s, ry*s
	}

	num := rx*rx*ry*ry - rx*rx*y1*y1 - ry*ry*x1*x1
	den := rx*rx*y1*y1 + ry*ry*x1*x1
	coef := 0.0
	if den != 0 && num > 0 {
		coef = math.Sqrt(num / den)
	}
	if a.LargeArc == a.Sweep {
		coef = -coef
	}
	cx1 := coef * rx * y1 / ry
	cy1 := -coef * ry * x1 / rx

	cx := cosPhi*cx1 - sinPhi*cy1 + (start.X+a.To.X)/2
	cy := sinPhi*cx1 + cosPhi*cy1 + (start.Y+a.To.Y)/2

	theta1 := math.Atan2((y1-cy1)/ry, (x1-cx1)/rx)
	theta2 := math.Atan2((-y1-cy1)/ry, (-x1-cx1)/rx)
	delta := theta2 - theta1
	if a.Sweep && delta < 0 {
		delta += 2 * math.Pi
	} else if !a.Sweep && delta > 0 {
		delta -= 2 * math.Pi
	}

	at := func(theta float64) Point {
		ex, ey := rx*math.Cos(theta), ry*math.Sin(theta)
		return Point{cx + cosPhi*ex - sinPhi*ey, cy + sinPhi*ex + cosPhi*ey}
	}

	// Parameter angles where dx/dtheta = 0 and dy/dtheta = 0.
	tx := math.Atan2(-ry*sinPhi, rx*cosPhi)
	ty := math.Atan2(ry*cosPhi, rx*sinPhi)
	var pts []Point
	for _, base := range []float64{tx, tx + math.Pi, ty, ty + math.Pi} {
		if angleWithin(base, theta1, delta) {
			pts = append(pts, at(base))
		}
	}
	return pts
}

// angleWithin reports whether theta lies on the swept interval starting at
// start and extending by delta (which may be negative).
func angleWithin(theta, start, delta float64) bool {
	d := math.Mod(theta-start, 2*math.Pi)
	if delta >= 0 {
		if d < 0 {
			d += 2 * math.Pi
		}
		return d <= delta
	}
	if d > 0 {
		d -= 2 * math.Pi
	}
	return d >= delta
}
