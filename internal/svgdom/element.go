// Package svgdom is a small mutable SVG element tree: ordered attributes,
// character data and child elements, serialized with encoding/xml.
package svgdom

import (
	"encoding/xml"

	"cogentcore.org/core/base/ordmap"
)

// Element is one native SVG element. Attribute names are stored verbatim,
// prefixes included ("xlink:href", "inkscape:label").
type Element struct {
	Tag      string
	Text     string
	Children []*Element

	attrs  *ordmap.Map[string, string]
	parent *Element
}

// Attr is a name/value pair in document order.
type Attr struct {
	Name  string
	Value string
}

// New creates an element. attrs are name/value pairs; a trailing odd name is ignored.
func New(tag string, attrs ...string) *Element {
	e := &Element{Tag: tag, attrs: ordmap.New[string, string]()}
	for i := 0; i+1 < len(attrs); i += 2 {
		e.Set(attrs[i], attrs[i+1])
	}
	return e
}

// Set assigns an attribute. An existing attribute keeps its position.
func (e *Element) Set(name, value string) *Element {
	e.attrs.Add(name, value)
	return e
}

// Get returns the attribute value or "" when unset.
func (e *Element) Get(name string) string {
	v, _ := e.attrs.ValueByKeyTry(name)
	return v
}

// Lookup returns the attribute value and whether it is set.
func (e *Element) Lookup(name string) (string, bool) {
	return e.attrs.ValueByKeyTry(name)
}

// Unset removes an attribute, reporting whether it was present.
func (e *Element) Unset(name string) bool {
	return e.attrs.DeleteKey(name)
}

// Attrs returns the attributes in insertion order.
func (e *Element) Attrs() []Attr {
	out := make([]Attr, 0, e.attrs.Len())
	for _, kv := range e.attrs.Order {
		out = append(out, Attr{Name: kv.Key, Value: kv.Value})
	}
	return out
}

func (e *Element) ID() string       { return e.Get("id") }
func (e *Element) SetID(id string)  { e.Set("id", id) }
func (e *Element) Parent() *Element { return e.parent }

// Append moves child under e, detaching it from any previous parent.
func (e *Element) Append(child *Element) {
	if child.parent != nil {
		child.parent.Remove(child)
	}
	child.parent = e
	e.Children = append(e.Children, child)
}

// Remove detaches child from e, reporting whether it was a child.
func (e *Element) Remove(child *Element) bool {
	for i, c := range e.Children {
		if c == child {
			e.Children = append(e.Children[:i], e.Children[i+1:]...)
			child.parent = nil
			return true
		}
	}
	return false
}

// Find returns the first element in e's subtree, e included, with the given id.
func (e *Element) Find(id string) *Element {
	if e.ID() == id {
		return e
	}
	for _, c := range e.Children {
		if f := c.Find(id); f != nil {
			return f
		}
	}
	return nil
}

// MarshalXML writes the element, its character data, then its children.
func (e *Element) MarshalXML(enc *xml.Encoder, _ xml.StartElement) error {
	start := xml.StartElement{Name: xml.Name{Local: e.Tag}}
	for _, kv := range e.attrs.Order {
		start.Attr = append(start.Attr, xml.Attr{Name: xml.Name{Local: kv.Key}, Value: kv.Value})
	}
	if err := enc.EncodeToken(start); err != nil {
		return err
	}
	if e.Text != "" {
		if err := enc.EncodeToken(xml.CharData(e.Text)); err != nil {
			return err
		}
	}
	for _, c := range e.Children {
		if err := enc.Encode(c); err != nil {
			return err
		}
	}
	return enc.EncodeToken(start.End())
}

// Markup returns the element serialized without indentation.
func (e *Element) Markup() (string, error) {
	b, err := xml.Marshal(e)
	return string(b), err
}
