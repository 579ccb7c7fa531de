package engine

import (
	"errors"
	"fmt"

	"github.com/inamate/svgscript/internal/document"
	"github.com/inamate/svgscript/internal/scene"
)

// filter builds a filter and its primitives. Primitive names are local to
// the filter; a src that names no earlier primitive is used as a literal
// input such as SourceGraphic. A failed primitive does not stop the rest.
func (r *run) filter(c document.Call) error {
	st, err := r.style(c.Style, c.Unset)
	if err != nil {
		return err
	}
	opts := []scene.FilterOption{
		scene.FilterName(c.Label),
		scene.FilterUnits(c.FilterUnits),
		scene.PrimitiveUnits(c.PrimitiveUnits),
		scene.FilterStyle(st...),
	}
	if c.Pt1 != nil {
		opts = append(opts, scene.FilterFrom(toPoint(*c.Pt1)))
	}
	if c.Pt2 != nil {
		opts = append(opts, scene.FilterTo(toPoint(*c.Pt2)))
	}
	f := r.session.Filter(opts...)
	r.bind(c.Name, f)

	local := map[string]*scene.FilterPrimitive{}
	input := func(src string) scene.Input {
		if p, ok := local[src]; ok {
			return p
		}
		return scene.Literal(src)
	}

	var errs []error
	for i, p := range c.Primitives {
		if p.Kind == "" {
			errs = append(errs, fmt.Errorf("primitive %d: kind: %w", i, ErrMissingField))
			continue
		}
		var args []scene.Arg
		if p.Src1 != "" {
			args = append(args, scene.Src1(input(p.Src1)))
		}
		if p.Src2 != "" {
			args = append(args, scene.Src2(input(p.Src2)))
		}
		for _, kv := range p.Params {
			if kv.Value != nil {
				args = append(args, scene.Param(kv.Key, *kv.Value))
			}
		}
		if p.Result != "" {
			args = append(args, scene.Param("result", p.Result))
		}
		prim, err := f.Add(p.Kind, args...)
		if err != nil {
			errs = append(errs, fmt.Errorf("primitive %d: %w", i, err))
			continue
		}
		if p.Name != "" {
			local[p.Name] = prim
		}
	}
	return errors.Join(errs...)
}

func (r *run) gradient(c document.Call) error {
	st, err := r.style(c.Style, c.Unset)
	if err != nil {
		return err
	}
	opts := []scene.GradientOption{
		scene.GradientRepeat(scene.Repeat(c.Repeat)),
		scene.GradientUnits(c.GradientUnits),
		scene.GradientTransform(c.GradientTransform),
		scene.GradientStyle(st...),
	}
	if c.Pt1 != nil {
		opts = append(opts, scene.GradientFrom(toPoint(*c.Pt1)))
	}
	if c.Pt2 != nil {
		opts = append(opts, scene.GradientTo(toPoint(*c.Pt2)))
	}
	if c.Template != "" {
		t, err := lookup[*scene.LinearGradient](r, c.Template)
		if err != nil {
			return err
		}
		opts = append(opts, scene.GradientTemplate(t))
	}

	g := r.session.LinearGradient(opts...)
	r.bind(c.Name, g)
	for _, stop := range c.Stops {
		sst, err := r.style(stop.Style, nil)
		if err != nil {
			return fmt.Errorf("stop %v: %w", stop.Offset, err)
		}
		g.AddStop(stop.Offset, sst...)
	}
	return nil
}
