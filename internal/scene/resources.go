package scene

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/inamate/svgscript/internal/geom"
	"github.com/inamate/svgscript/internal/svgdom"
)

// Filter is a filter effect held in the shared defs container.
type Filter struct {
	el      *svgdom.Element
	session *Session
	results map[string]bool
}

func (f *Filter) ID() string               { return f.el.ID() }
func (f *Filter) Element() *svgdom.Element { return f.el }
func (f *Filter) String() string           { return "url(#" + f.el.ID() + ")" }

// FilterOption configures a new filter effect.
type FilterOption func(*filterOptions)

type filterOptions struct {
	name           string
	from, to       *geom.Point
	filterUnits    string
	primitiveUnits string
	style          Props
}

// FilterName sets the label shown in the editor.
func FilterName(name string) FilterOption {
	return func(o *filterOptions) { o.name = name }
}

// FilterRegion sets both corners of the filter region.
func FilterRegion(pt1, pt2 geom.Point) FilterOption {
	return func(o *filterOptions) { o.from, o.to = &pt1, &pt2 }
}

// FilterFrom sets the region's first corner; the other defaults to (1,1).
func FilterFrom(pt geom.Point) FilterOption {
	return func(o *filterOptions) { o.from = &pt }
}

// FilterTo sets the region's second corner; the other defaults to (0,0).
func FilterTo(pt geom.Point) FilterOption {
	return func(o *filterOptions) { o.to = &pt }
}

func FilterUnits(u string) FilterOption {
	return func(o *filterOptions) { o.filterUnits = u }
}

func PrimitiveUnits(u string) FilterOption {
	return func(o *filterOptions) { o.primitiveUnits = u }
}

func FilterStyle(props ...Prop) FilterOption {
	return func(o *filterOptions) { o.style = append(o.style, props...) }
}

// Filter creates an empty filter effect in the defs container.
func (s *Session) Filter(opts ...FilterOption) *Filter {
	var o filterOptions
	for _, opt := range opts {
		opt(&o)
	}
	el := svgdom.New("filter")
	el.SetID(s.ids.Next())
	if o.name != "" {
		el.Set("inkscape:label", o.name)
	}
	if o.from != nil || o.to != nil {
		p1, p2 := geom.Pt(0, 0), geom.Pt(1, 1)
		if o.from != nil {
			p1 = *o.from
		}
		if o.to != nil {
			p2 = *o.to
		}
		el.Set("x", num(p1.X))
		el.Set("y", num(p1.Y))
		el.Set("width", num(p2.X-p1.X))
		el.Set("height", num(p2.Y-p1.Y))
	}
	if o.filterUnits != "" {
		el.Set("filterUnits", o.filterUnits)
	}
	if o.primitiveUnits != "" {
		el.Set("primitiveUnits", o.primitiveUnits)
	}
	if st := plainStyle(o.style); st != "" {
		el.Set("style", st)
	}
	s.defs.Append(el)
	return &Filter{el: el, session: s, results: map[string]bool{}}
}

// Input is a filter primitive input: a Literal such as "SourceGraphic" or
// another primitive, which resolves to that primitive's result name.
type Input interface {
	inputName() string
}

// Literal is a named input used verbatim.
type Literal string

func (l Literal) inputName() string { return string(l) }

// FilterPrimitive is one stage of a filter effect.
type FilterPrimitive struct {
	el     *svgdom.Element
	filter *Filter
}

func (p *FilterPrimitive) inputName() string        { return p.Result() }
func (p *FilterPrimitive) Result() string           { return p.el.Get("result") }
func (p *FilterPrimitive) Element() *svgdom.Element { return p.el }
func (p *FilterPrimitive) ID() string               { return p.el.ID() }
func (p *FilterPrimitive) String() string           { return "url(#" + p.el.ID() + ")" }

// Arg is a named filter primitive attribute.
type Arg struct {
	name  string
	value string
	input Input
}

// Src1 sets the primitive's first input ("in").
func Src1(in Input) Arg { return Arg{name: "in", input: in} }

// Src2 sets the primitive's second input ("in2").
func Src2(in Input) Arg { return Arg{name: "in2", input: in} }

// Param sets any other attribute. Strings pass through unchanged, slices
// and arrays become space-separated lists, anything else is formatted as a
// single value. The names src1 and src2 are aliases for Src1 and Src2.
func Param(name string, v any) Arg {
	name = normalizeKey(name)
	switch name {
	case "src1", "src2":
		target := map[string]string{"src1": "in", "src2": "in2"}[name]
		switch x := v.(type) {
		case Input:
			return Arg{name: target, input: x}
		case string:
			return Arg{name: target, input: Literal(x)}
		}
		return Arg{name: target, value: paramValue(v)}
	}
	return Arg{name: name, value: paramValue(v)}
}

func paramValue(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		parts := make([]string, rv.Len())
		for i := range parts {
			parts[i] = formatValue(rv.Index(i).Interface())
		}
		return strings.Join(parts, " ")
	}
	return formatValue(v)
}

// Add appends a primitive of the given kind ("GaussianBlur" becomes
// feGaussianBlur). Each primitive gets a fresh result name unless args set
// a non-empty one; a result already used in this filter is an input error.
func (f *Filter) Add(kind string, args ...Arg) (*FilterPrimitive, error) {
	s := f.session
	result := ""
	for _, a := range args {
		if a.name == "result" {
			result = a.value
		}
	}
	if result != "" && f.results[result] {
		return nil, s.report("filter primitive", fmt.Errorf("%q: %w", result, ErrDuplicateResult))
	}
	for _, a := range args {
		if (a.name == "in" || a.name == "in2") && a.input != nil {
			if p, ok := a.input.(*FilterPrimitive); ok && p == nil {
				return nil, s.report("filter primitive", fmt.Errorf("%s: %w", a.name, ErrNotObject))
			}
		}
	}

	el := svgdom.New("fe"+kind, "result", s.ids.Next())
	for _, a := range args {
		if a.name == "result" && a.value == "" {
			continue
		}
		if a.input != nil {
			el.Set(a.name, a.input.inputName())
		} else {
			el.Set(a.name, a.value)
		}
	}
	el.SetID(s.ids.Next())
	f.results[el.Get("result")] = true
	f.el.Append(el)
	return &FilterPrimitive{el: el, filter: f}, nil
}

// Repeat names how a gradient continues past its end points.
type Repeat string

const (
	RepeatNone      Repeat = "none"
	RepeatReflected Repeat = "reflected"
	RepeatDirect    Repeat = "direct"
)

var spreadMethods = map[Repeat]string{
	RepeatNone:      "pad",
	RepeatReflected: "reflect",
	RepeatDirect:    "repeat",
}

// SpreadMethod maps a repeat name to the spreadMethod vocabulary. Unknown
// names pass through unchanged.
func (r Repeat) SpreadMethod() string {
	if m, ok := spreadMethods[r]; ok {
		return m
	}
	return string(r)
}

// LinearGradient is a gradient held in the shared defs container.
type LinearGradient struct {
	el *svgdom.Element
}

func (g *LinearGradient) ID() string               { return g.el.ID() }
func (g *LinearGradient) Element() *svgdom.Element { return g.el }
func (g *LinearGradient) String() string           { return "url(#" + g.el.ID() + ")" }

// GradientOption configures a new linear gradient.
type GradientOption func(*gradientOptions)

type gradientOptions struct {
	from, to  *geom.Point
	repeat    Repeat
	units     string
	template  *LinearGradient
	transform string
	style     Props
}

func GradientFrom(pt geom.Point) GradientOption {
	return func(o *gradientOptions) { o.from = &pt }
}

func GradientTo(pt geom.Point) GradientOption {
	return func(o *gradientOptions) { o.to = &pt }
}

func GradientRepeat(r Repeat) GradientOption {
	return func(o *gradientOptions) { o.repeat = r }
}

func GradientUnits(u string) GradientOption {
	return func(o *gradientOptions) { o.units = u }
}

// GradientTemplate inherits stops and attributes from another gradient.
func GradientTemplate(t *LinearGradient) GradientOption {
	return func(o *gradientOptions) { o.template = t }
}

func GradientTransform(t string) GradientOption {
	return func(o *gradientOptions) { o.transform = t }
}

func GradientStyle(props ...Prop) GradientOption {
	return func(o *gradientOptions) { o.style = append(o.style, props...) }
}

// LinearGradient creates a gradient in the defs container.
func (s *Session) LinearGradient(opts ...GradientOption) *LinearGradient {
	var o gradientOptions
	for _, opt := range opts {
		opt(&o)
	}
	el := svgdom.New("linearGradient")
	el.SetID(s.ids.Next())
	if o.from != nil {
		el.Set("x1", num(o.from.X))
		el.Set("y1", num(o.from.Y))
	}
	if o.to != nil {
		el.Set("x2", num(o.to.X))
		el.Set("y2", num(o.to.Y))
	}
	if o.repeat != "" {
		el.Set("spreadMethod", o.repeat.SpreadMethod())
	}
	if o.units != "" {
		el.Set("gradientUnits", o.units)
	}
	if o.template != nil {
		ref := "#" + o.template.ID()
		el.Set("href", ref)
		el.Set("xlink:href", ref)
	}
	if o.transform != "" {
		el.Set("gradientTransform", o.transform)
	}
	if st := plainStyle(o.style); st != "" {
		el.Set("style", st)
	}
	s.defs.Append(el)
	return &LinearGradient{el: el}
}

// AddStop appends a colour stop at offset (0 to 1).
func (g *LinearGradient) AddStop(offset float64, style ...Prop) {
	stop := svgdom.New("stop", "offset", num(offset))
	if st := plainStyle(style); st != "" {
		stop.Set("style", st)
	}
	g.el.Append(stop)
}

// Stops returns the number of stops added so far.
func (g *LinearGradient) Stops() int { return len(g.el.Children) }
