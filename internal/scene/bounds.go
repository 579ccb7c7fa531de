package scene

import (
	"strings"

	"github.com/inamate/svgscript/internal/geom"
	"github.com/inamate/svgscript/internal/svgdom"
)

// maxUseDepth bounds how many clone references are followed.
const maxUseDepth = 8

// elementBounds returns el's bounding box after its own transform, that is,
// in the coordinate system of its parent. Unparseable geometry contributes
// nothing.
func (s *Session) elementBounds(el *svgdom.Element) geom.Rect {
	var b geom.Bounds
	s.addBounds(&b, el, geom.Identity(), 0)
	return b.Rect()
}

func (s *Session) addBounds(b *geom.Bounds, el *svgdom.Element, parent geom.Matrix2D, depth int) {
	m := parent
	if t, ok := el.Lookup("transform"); ok {
		if local, err := geom.ParseTransform(t); err == nil {
			m = parent.Multiply(local)
		}
	}
	num := func(name string) float64 {
		v, _ := geom.ParseNumber(el.Get(name))
		return v
	}
	addRect := func(r geom.Rect) {
		b.Add(m.TransformPoint(geom.Pt(r.X, r.Y)))
		b.Add(m.TransformPoint(geom.Pt(r.X+r.Width, r.Y)))
		b.Add(m.TransformPoint(geom.Pt(r.X+r.Width, r.Y+r.Height)))
		b.Add(m.TransformPoint(geom.Pt(r.X, r.Y+r.Height)))
	}

	switch el.Tag {
	case "circle":
		r := num("r")
		addRect(geom.Rect{X: num("cx") - r, Y: num("cy") - r, Width: 2 * r, Height: 2 * r})
	case "ellipse":
		rx, ry := num("rx"), num("ry")
		addRect(geom.Rect{X: num("cx") - rx, Y: num("cy") - ry, Width: 2 * rx, Height: 2 * ry})
	case "rect", "image":
		addRect(geom.Rect{X: num("x"), Y: num("y"), Width: num("width"), Height: num("height")})
	case "line":
		b.Add(m.TransformPoint(geom.Pt(num("x1"), num("y1"))))
		b.Add(m.TransformPoint(geom.Pt(num("x2"), num("y2"))))
	case "polyline", "polygon":
		pts, err := geom.ParsePoints(el.Get("points"))
		if err != nil {
			return
		}
		for _, p := range pts {
			b.Add(m.TransformPoint(p))
		}
	case "path":
		p, err := geom.ParsePath(el.Get("d"))
		if err != nil || len(p) == 0 {
			return
		}
		addRect(p.Bounds())
	case "text", "tspan":
		// Glyph metrics are unknown here, so text contributes its anchor points.
		if _, ok := el.Lookup("x"); ok {
			b.Add(m.TransformPoint(geom.Pt(num("x"), num("y"))))
		}
		for _, c := range el.Children {
			s.addBounds(b, c, m, depth)
		}
	case "use":
		if depth >= maxUseDepth {
			return
		}
		ref := strings.TrimPrefix(el.Get("xlink:href"), "#")
		if target := s.lookup(ref); target != nil {
			s.addBounds(b, target, m.Multiply(geom.Translate(num("x"), num("y"))), depth+1)
		}
	default:
		for _, c := range el.Children {
			s.addBounds(b, c, m, depth)
		}
	}
}
