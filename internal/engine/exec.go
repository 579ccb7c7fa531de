package engine

import (
	"errors"
	"fmt"
	"strings"

	"github.com/inamate/svgscript/internal/document"
	"github.com/inamate/svgscript/internal/geom"
	"github.com/inamate/svgscript/internal/scene"
	"github.com/inamate/svgscript/internal/svgdom"
)

func (r *run) exec(c document.Call) error {
	if c.Name != "" {
		if _, taken := r.names[c.Name]; taken {
			return fmt.Errorf("%q: %w", c.Name, ErrNameTaken)
		}
	}
	opts, err := r.options(c)
	if err != nil {
		return err
	}
	s := r.session

	switch c.Op {
	case document.OpDefaultStyle:
		st, err := r.style(c.Style, c.Unset)
		if err != nil {
			return err
		}
		s.SetDefaultStyle(st...)
		return nil

	case document.OpDefaultTransform:
		s.SetDefaultTransform(c.Transform)
		return nil

	case document.OpCircle:
		center, err := need(c.Center, "center")
		if err != nil {
			return err
		}
		r.bind(c.Name, s.Circle(center, c.R, opts...))

	case document.OpEllipse:
		center, err := need(c.Center, "center")
		if err != nil {
			return err
		}
		r.bind(c.Name, s.Ellipse(center, c.RX, c.RY, opts...))

	case document.OpRect:
		pt1, pt2, err := corners(c)
		if err != nil {
			return err
		}
		if c.RX != 0 || c.RY != 0 {
			opts = append(opts, scene.WithCorners(c.RX, c.RY))
		}
		r.bind(c.Name, s.Rect(pt1, pt2, opts...))

	case document.OpLine:
		pt1, pt2, err := corners(c)
		if err != nil {
			return err
		}
		r.bind(c.Name, s.Line(pt1, pt2, opts...))

	case document.OpPolyline:
		return r.bindObject(c.Name)(s.Polyline(points(c.Points), opts...))

	case document.OpPolygon:
		return r.bindObject(c.Name)(s.Polygon(points(c.Points), opts...))

	case document.OpRegularPolygon:
		center, err := need(c.Center, "center")
		if err != nil {
			return err
		}
		if c.Angle != nil {
			opts = append(opts, scene.WithAngle(*c.Angle))
		}
		opts = append(opts, scene.WithRounded(c.Round), scene.WithRandomized(c.Random))
		return r.bindObject(c.Name)(s.RegularPolygon(c.Sides, center, c.R, opts...))

	case document.OpStar:
		center, err := need(c.Center, "center")
		if err != nil {
			return err
		}
		switch len(c.Angles) {
		case 0:
		case 2:
			opts = append(opts, scene.WithAngles(c.Angles[0], c.Angles[1]))
		default:
			return fmt.Errorf("angles needs two values, got %d", len(c.Angles))
		}
		opts = append(opts, scene.WithRounded(c.Round), scene.WithRandomized(c.Random))
		return r.bindObject(c.Name)(s.Star(c.Sides, center, c.R1, c.R2, opts...))

	case document.OpArc:
		center, err := need(c.Center, "center")
		if err != nil {
			return err
		}
		t := scene.ArcOpen
		if c.ArcType != "" {
			t = scene.ArcType(c.ArcType)
		}
		return r.bindObject(c.Name)(s.Arc(center, c.RX, c.RY, c.Ang1, c.Ang2, t, opts...))

	case document.OpPath:
		return r.bindObject(c.Name)(s.Path(c.D, opts...))

	case document.OpConnector:
		from, err := r.handle(c.From)
		if err != nil {
			return err
		}
		to, err := r.handle(c.To)
		if err != nil {
			return err
		}
		if c.ConnectorType != "" {
			opts = append(opts, scene.WithConnectorType(c.ConnectorType))
		}
		if c.Curvature != nil {
			opts = append(opts, scene.WithCurvature(*c.Curvature))
		}
		return r.bindObject(c.Name)(s.Connector(from, to, opts...))

	case document.OpText:
		base := geom.Point{}
		if c.Base != nil {
			base = toPoint(*c.Base)
		}
		if c.OnPath != "" {
			h, err := r.handle(c.OnPath)
			if err != nil {
				return err
			}
			opts = append(opts, scene.OnPath(h))
		}
		return r.bindObject(c.Name)(s.Text(c.Text, base, opts...))

	case document.OpMoreText:
		if c.Base != nil {
			opts = append(opts, scene.At(toPoint(*c.Base)))
		}
		// Continued text extends an existing object; a name is not rebound.
		_, err := s.MoreText(c.Text, opts...)
		return err

	case document.OpImage:
		if c.Source == "" {
			return fmt.Errorf("source: %w", ErrMissingField)
		}
		ul := geom.Point{}
		if c.Pt1 != nil {
			ul = toPoint(*c.Pt1)
		}
		if c.Link {
			opts = append(opts, scene.Linked())
		}
		return r.bindObject(c.Name)(s.Image(c.Source, ul, opts...))

	case document.OpClone:
		h, err := r.handle(c.Source)
		if err != nil {
			return err
		}
		return r.bindObject(c.Name)(s.Clone(h, opts...))

	case document.OpGroup:
		members, err := r.handles(c.Members)
		if err != nil {
			return err
		}
		g := s.Group(nil, opts...)
		r.bind(c.Name, g)
		var errs []error
		for _, m := range members {
			errs = append(errs, g.Add(m))
		}
		return errors.Join(errs...)

	case document.OpAdd:
		g, err := lookup[*scene.Group](r, c.Group)
		if err != nil {
			return err
		}
		members, err := r.handles(c.Members)
		if err != nil {
			return err
		}
		var errs []error
		for _, m := range members {
			errs = append(errs, g.Add(m))
		}
		return errors.Join(errs...)

	case document.OpElement:
		if c.Tag == "" {
			return fmt.Errorf("tag: %w", ErrMissingField)
		}
		el := svgdom.New(c.Tag)
		for _, a := range c.Attributes {
			if a.Value != nil {
				el.Set(a.Key, *a.Value)
			}
		}
		el.Text = c.Text
		return r.bindObject(c.Name)(s.Wrap(el, opts...))

	case document.OpFilter:
		return r.filter(c)

	case document.OpLinearGradient:
		return r.gradient(c)

	default:
		return fmt.Errorf("%q: %w", c.Op, ErrUnknownOp)
	}
	return nil
}

// bindObject returns a function that binds a creation call's result to name
// and passes its error on. Failed calls return a nil object, which is not bound.
func (r *run) bindObject(name string) func(*scene.Object, error) error {
	return func(obj *scene.Object, err error) error {
		if err != nil {
			return err
		}
		r.bind(name, obj)
		return nil
	}
}

func (r *run) options(c document.Call) ([]scene.Option, error) {
	var opts []scene.Option
	switch c.Op {
	case document.OpDefaultStyle, document.OpDefaultTransform, document.OpFilter, document.OpLinearGradient:
		return nil, nil
	}
	if c.Transform != "" {
		opts = append(opts, scene.WithTransform(c.Transform))
	}
	if c.ConnAvoid {
		opts = append(opts, scene.WithConnAvoid())
	}
	st, err := r.style(c.Style, c.Unset)
	if err != nil {
		return nil, err
	}
	if len(st) > 0 {
		opts = append(opts, scene.WithStyle(st...))
	}
	return opts, nil
}

// style converts script properties. Values of the form @name become a
// reference to the named object, filter or gradient.
func (r *run) style(props document.Props, unset []string) (scene.Props, error) {
	out := make(scene.Props, 0, len(props)+len(unset))
	for _, p := range props {
		if p.Value == nil {
			out = append(out, scene.Unset(p.Key))
			continue
		}
		v := *p.Value
		if name, ok := strings.CutPrefix(v, "@"); ok {
			ref, err := lookup[fmt.Stringer](r, name)
			if err != nil {
				return nil, fmt.Errorf("style %s: %w", p.Key, err)
			}
			out = append(out, scene.Set(p.Key, ref))
			continue
		}
		out = append(out, scene.Set(p.Key, v))
	}
	for _, k := range unset {
		out = append(out, scene.Unset(k))
	}
	return out, nil
}

func (r *run) handle(name string) (scene.Handle, error) {
	return lookup[scene.Handle](r, name)
}

func (r *run) handles(names []string) ([]scene.Handle, error) {
	out := make([]scene.Handle, 0, len(names))
	var errs []error
	for _, n := range names {
		h, err := r.handle(n)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		out = append(out, h)
	}
	return out, errors.Join(errs...)
}

func lookup[T any](r *run, name string) (T, error) {
	var zero T
	if name == "" {
		return zero, fmt.Errorf("name: %w", ErrMissingField)
	}
	v, ok := r.names[name]
	if !ok {
		return zero, fmt.Errorf("%q: %w", name, ErrUnknownName)
	}
	t, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("%q is a %T: %w", name, v, ErrWrongKind)
	}
	return t, nil
}

func toPoint(p document.Point) geom.Point { return geom.Pt(p[0], p[1]) }

func need(p *document.Point, field string) (geom.Point, error) {
	if p == nil {
		return geom.Point{}, fmt.Errorf("%s: %w", field, ErrMissingField)
	}
	return toPoint(*p), nil
}

func corners(c document.Call) (geom.Point, geom.Point, error) {
	pt1, err := need(c.Pt1, "pt1")
	if err != nil {
		return geom.Point{}, geom.Point{}, err
	}
	pt2, err := need(c.Pt2, "pt2")
	if err != nil {
		return geom.Point{}, geom.Point{}, err
	}
	return pt1, pt2, nil
}

func points(ps []document.Point) []geom.Point {
	out := make([]geom.Point, len(ps))
	for i, p := range ps {
		out[i] = toPoint(p)
	}
	return out
}
