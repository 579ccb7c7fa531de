package scene

import (
	"fmt"
	"math"
	"strings"

	"github.com/inamate/svgscript/internal/geom"
	"github.com/inamate/svgscript/internal/svgdom"
)

var (
	shapeStyle = Props{Set("stroke", "black"), Set("fill", "none")}
	lineStyle  = Props{Set("stroke", "black")}
)

// finish decorates el and registers it as a top-level object.
func (s *Session) finish(el *svgdom.Element, shape Props, o callOptions) *Object {
	obj := s.decorate(el, shape, o)
	s.register(obj)
	return obj
}

// decorate applies the transform and style layers to el and assigns an id.
func (s *Session) decorate(el *svgdom.Element, shape Props, o callOptions) *Object {
	if t, ok := ComposeTransform(o.transform, s.defaultTransform); ok {
		el.Set("transform", t)
	}
	if o.connAvoid {
		el.Set("inkscape:connector-avoid", "true")
	}
	if st := ResolveStyle(shape, s.DefaultStyle(), o.style); st != "" {
		el.Set("style", st)
	}
	el.SetID(s.ids.Next())
	return &Object{el: el, session: s}
}

func num(v float64) string { return geom.Num(v) }

func (s *Session) Circle(center geom.Point, r float64, opts ...Option) *Object {
	el := svgdom.New("circle", "cx", num(center.X), "cy", num(center.Y), "r", num(r))
	return s.finish(el, shapeStyle, newCallOptions(opts))
}

func (s *Session) Ellipse(center geom.Point, rx, ry float64, opts ...Option) *Object {
	el := svgdom.New("ellipse", "cx", num(center.X), "cy", num(center.Y), "rx", num(rx), "ry", num(ry))
	return s.finish(el, shapeStyle, newCallOptions(opts))
}

// Rect draws the rectangle spanned by two opposite corners.
func (s *Session) Rect(pt1, pt2 geom.Point, opts ...Option) *Object {
	o := newCallOptions(opts)
	r := geom.RectFromPoints(pt1, pt2)
	el := svgdom.New("rect", "x", num(r.X), "y", num(r.Y), "width", num(r.Width), "height", num(r.Height))
	if o.corners != nil {
		el.Set("rx", num(o.corners[0]))
		el.Set("ry", num(o.corners[1]))
	}
	return s.finish(el, shapeStyle, o)
}

// Line has a stroke but no fill default.
func (s *Session) Line(pt1, pt2 geom.Point, opts ...Option) *Object {
	el := svgdom.New("line", "x1", num(pt1.X), "y1", num(pt1.Y), "x2", num(pt2.X), "y2", num(pt2.Y))
	return s.finish(el, lineStyle, newCallOptions(opts))
}

func (s *Session) Polyline(pts []geom.Point, opts ...Option) (*Object, error) {
	if len(pts) < 2 {
		return nil, s.report("polyline", fmt.Errorf("a polyline needs at least two points, got %d: %w", len(pts), ErrTooFewPoints))
	}
	el := svgdom.New("polyline", "points", geom.FormatPoints(pts))
	return s.finish(el, shapeStyle, newCallOptions(opts)), nil
}

func (s *Session) Polygon(pts []geom.Point, opts ...Option) (*Object, error) {
	if len(pts) < 3 {
		return nil, s.report("polygon", fmt.Errorf("a polygon needs at least three points, got %d: %w", len(pts), ErrTooFewPoints))
	}
	el := svgdom.New("polygon", "points", geom.FormatPoints(pts))
	return s.finish(el, shapeStyle, newCallOptions(opts)), nil
}

// MaxSides bounds the corner count of stars and regular polygons.
const MaxSides = 1024

// starElement builds an editor star: sodipodi parameters plus straight-edged
// path data through the outer (r1, arg1) and, unless flat, inner (r2, arg2)
// vertices. Rounding and randomization are recorded for the editor only.
func starElement(sides int, center geom.Point, r1, r2, arg1, arg2 float64, flat bool, o callOptions) *svgdom.Element {
	el := svgdom.New("path",
		"sodipodi:type", "star",
		"sodipodi:sides", fmt.Sprint(sides),
		"sodipodi:cx", num(center.X),
		"sodipodi:cy", num(center.Y),
		"sodipodi:r1", num(r1),
		"sodipodi:r2", num(r2),
		"sodipodi:arg1", num(arg1),
		"sodipodi:arg2", num(arg2),
		"inkscape:flatsided", fmt.Sprint(flat),
		"inkscape:rounded", num(o.rounded),
		"inkscape:randomized", num(o.randomized),
	)
	step := 2 * math.Pi / float64(sides)
	path := make(geom.Path, 0, 2*sides+1)
	for i := 0; i < sides; i++ {
		outer := center.Polar(r1, r1, arg1+step*float64(i))
		if i == 0 {
			path = append(path, geom.MoveTo{To: outer})
		} else {
			path = append(path, geom.LineTo{To: outer})
		}
		if !flat {
			path = append(path, geom.LineTo{To: center.Polar(r2, r2, arg2+step*float64(i))})
		}
	}
	path = append(path, geom.Close{})
	el.Set("d", path.String())
	return el
}

// RegularPolygon draws a regular polygon with its first vertex at angle
// (default -pi/2, pointing up).
func (s *Session) RegularPolygon(sides int, center geom.Point, r float64, opts ...Option) (*Object, error) {
	if sides < 3 {
		return nil, s.report("regular polygon", fmt.Errorf("a regular polygon needs at least three sides, got %d: %w", sides, ErrTooFewSides))
	}
	if sides > MaxSides {
		return nil, s.report("regular polygon", fmt.Errorf("at most %d sides, got %d: %w", MaxSides, sides, ErrTooManySides))
	}
	o := newCallOptions(opts)
	angle := o.polygonAngle()
	el := starElement(sides, center, r, r/2, angle, angle+math.Pi/float64(sides), true, o)
	return s.finish(el, shapeStyle, o), nil
}

// Star draws a star with outer radius r1 and inner radius r2. Without
// WithAngles it points up when r1 >= r2 and down otherwise.
func (s *Session) Star(sides int, center geom.Point, r1, r2 float64, opts ...Option) (*Object, error) {
	if sides < 3 {
		return nil, s.report("star", fmt.Errorf("a star needs at least three points, got %d: %w", sides, ErrTooFewSides))
	}
	if sides > MaxSides {
		return nil, s.report("star", fmt.Errorf("at most %d points, got %d: %w", MaxSides, sides, ErrTooManySides))
	}
	o := newCallOptions(opts)
	var arg1, arg2 float64
	switch {
	case o.angles != nil:
		arg1, arg2 = o.angles[0], o.angles[1]
	case r1 >= r2:
		arg1, arg2 = -math.Pi/2, math.Pi/float64(sides)-math.Pi/2
	default:
		arg1, arg2 = math.Pi/2, math.Pi/float64(sides)+math.Pi/2
	}
	el := starElement(sides, center, r1, r2, arg1, arg2, false, o)
	return s.finish(el, shapeStyle, o), nil
}

// Arc draws part of an ellipse with explicit path data and the editor's arc
// parameters. The arc type is checked before anything is built.
func (s *Session) Arc(center geom.Point, rx, ry, ang1, ang2 float64, t ArcType, opts ...Option) (*Object, error) {
	path, err := SynthesizeArc(center, rx, ry, ang1, ang2, t)
	if err != nil {
		return nil, s.report("arc", fmt.Errorf("%q: %w", t, err))
	}
	el := svgdom.New("path",
		"sodipodi:type", "arc",
		"sodipodi:cx", num(center.X),
		"sodipodi:cy", num(center.Y),
		"sodipodi:rx", num(rx),
		"sodipodi:ry", num(ry),
		"sodipodi:start", num(normalizeAngle(ang1)),
		"sodipodi:end", num(normalizeAngle(ang2)),
		"sodipodi:arc-type", string(t),
	)
	if t == ArcOpen {
		el.Set("sodipodi:open", "true")
	}
	el.Set("d", path.String())
	return s.finish(el, shapeStyle, newCallOptions(opts)), nil
}

// Path draws arbitrary path data; the elements are joined with spaces.
func (s *Session) Path(elems []string, opts ...Option) (*Object, error) {
	if len(elems) == 0 {
		return nil, s.report("path", ErrEmptyPath)
	}
	el := svgdom.New("path", "d", strings.Join(elems, " "))
	return s.finish(el, shapeStyle, newCallOptions(opts)), nil
}

// Text typesets msg at base, or along the outline of the OnPath object.
func (s *Session) Text(msg string, base geom.Point, opts ...Option) (*Object, error) {
	o := newCallOptions(opts)
	el := svgdom.New("text", "x", num(base.X), "y", num(base.Y), "xml:space", "preserve")
	if o.onPath != nil {
		if isNil(o.onPath) {
			return nil, s.report("text", fmt.Errorf("text path: %w", ErrNotObject))
		}
		tp := svgdom.New("textPath", "xlink:href", "#"+o.onPath.ID())
		tp.Text = msg
		el.Append(tp)
	} else {
		el.Text = msg
	}
	return s.finish(el, nil, o), nil
}

// MoreText appends a styled span to the text object created last. It returns
// that text object.
func (s *Session) MoreText(msg string, opts ...Option) (*Object, error) {
	n := s.registry.Len()
	if n == 0 {
		return nil, s.report("more text", ErrNoTextTarget)
	}
	last := s.registry.ValueByIndex(n - 1).object()
	if last.el.Tag != "text" {
		return nil, s.report("more text", ErrNoTextTarget)
	}
	o := newCallOptions(opts)
	span := svgdom.New("tspan")
	if st := ResolveStyle(nil, s.DefaultStyle(), o.style); st != "" {
		span.Set("style", st)
	}
	if o.at != nil {
		span.Set("x", num(o.at.X))
		span.Set("y", num(o.at.Y))
	}
	span.Text = msg
	target := last.el
	if len(target.Children) == 1 && target.Children[0].Tag == "textPath" {
		target = target.Children[0]
	}
	target.Append(span)
	return last, nil
}

// Clone draws a linked copy of h.
func (s *Session) Clone(h Handle, opts ...Option) (*Object, error) {
	if isNil(h) {
		return nil, s.report("clone", ErrNotObject)
	}
	ref := "#" + h.ID()
	el := svgdom.New("use", "href", ref, "xlink:href", ref)
	return s.finish(el, nil, newCallOptions(opts)), nil
}

// Group creates a group and moves members into it in order. Members that
// cannot be added are reported and skipped.
func (s *Session) Group(members []Handle, opts ...Option) *Group {
	g := &Group{Object: s.decorate(svgdom.New("g"), nil, newCallOptions(opts))}
	s.register(g)
	for _, m := range members {
		_ = g.Add(m)
	}
	return g
}

// Wrap adopts an element built elsewhere.
func (s *Session) Wrap(el *svgdom.Element, opts ...Option) (*Object, error) {
	if el == nil {
		return nil, s.report("wrap", ErrNotObject)
	}
	return s.finish(el, nil, newCallOptions(opts)), nil
}
