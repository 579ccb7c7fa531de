package scene

import (
	"github.com/inamate/svgscript/internal/geom"
	"github.com/inamate/svgscript/internal/svgdom"
)

// Handle is anything the drawing owns: a plain object or a group.
// Its String form is url(#id), so handles can be used as style values.
type Handle interface {
	ID() string
	Element() *svgdom.Element
	String() string
	BoundingBox() geom.Rect
	object() *Object
}

// Object wraps one native element.
type Object struct {
	el      *svgdom.Element
	session *Session
}

func (o *Object) ID() string               { return o.el.ID() }
func (o *Object) Element() *svgdom.Element { return o.el }
func (o *Object) String() string           { return "url(#" + o.el.ID() + ")" }
func (o *Object) object() *Object          { return o }

// BoundingBox returns the object's extent in its parent's coordinates.
func (o *Object) BoundingBox() geom.Rect {
	return o.session.elementBounds(o.el)
}

// Group is an object holding an ordered list of children.
type Group struct {
	*Object
	children []Handle
}

// Children returns the group's members in insertion order.
func (g *Group) Children() []Handle { return g.children }

func (g *Group) Len() int { return len(g.children) }

// Add moves a top-level object into the group. It fails without side effects
// when h is nil, is not currently in the session's top-level registry, or is
// the group itself or one of its enclosing groups.
func (g *Group) Add(h Handle) error {
	if err := g.add(h); err != nil {
		return g.session.report("group add", err)
	}
	return nil
}

func (g *Group) add(h Handle) error {
	if isNil(h) {
		return ErrNotObject
	}
	reg, ok := g.session.registry.ValueByKeyTry(h.ID())
	if !ok || reg.object() != h.object() {
		return ErrNotTopLevel
	}
	for anc := g.el; anc != nil; anc = anc.Parent() {
		if anc == h.Element() {
			return ErrGroupCycle
		}
	}
	g.session.registry.DeleteKey(h.ID())
	g.children = append(g.children, h)
	g.el.Append(h.Element())
	return nil
}

// isNil catches both a nil interface and a typed nil pointer, which is what a
// failed creation call returns.
func isNil(h Handle) bool {
	if h == nil {
		return true
	}
	switch v := h.(type) {
	case *Object:
		return v == nil
	case *Group:
		return v == nil || v.Object == nil
	}
	return false
}
