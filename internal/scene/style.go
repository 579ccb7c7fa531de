package scene

import (
	"fmt"
	"strings"

	"cogentcore.org/core/base/ordmap"

	"github.com/inamate/svgscript/internal/geom"
)

// Prop is one style property. A nil Value removes the property from the
// resolved style instead of emitting it.
type Prop struct {
	Key   string
	Value *string
}

// Props is an ordered list of style properties; later entries win.
type Props []Prop

// Set builds a property. Handles format as url(#id) and floats use the
// same number formatting as geometry attributes.
func Set(key string, v any) Prop {
	s := formatValue(v)
	return Prop{Key: key, Value: &s}
}

// Unset builds a property that deletes key.
func Unset(key string) Prop {
	return Prop{Key: key}
}

func formatValue(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case fmt.Stringer:
		return x.String()
	case float64:
		return geom.Num(x)
	case float32:
		return geom.Num(float64(x))
	}
	return fmt.Sprint(v)
}

// normalizeKey turns Go-friendly names such as stroke_width into the
// hyphenated property names of the output format.
func normalizeKey(k string) string {
	return strings.ReplaceAll(k, "_", "-")
}

// ResolveStyle merges the shape-type defaults, the session-wide defaults and
// the per-call style, highest precedence last. A key keeps the position of
// its first appearance; nil values delete it. The result is k:v pairs joined
// by ';', or "" when nothing remains.
func ResolveStyle(shape, defaults, call Props) string {
	acc := ordmap.New[string, *string]()
	for _, layer := range []Props{shape, defaults, call} {
		for _, p := range layer {
			acc.Add(normalizeKey(p.Key), p.Value)
		}
	}
	return joinStyle(acc)
}

func joinStyle(m *ordmap.Map[string, *string]) string {
	parts := make([]string, 0, m.Len())
	for _, kv := range m.Order {
		if kv.Value != nil {
			parts = append(parts, kv.Key+":"+*kv.Value)
		}
	}
	return strings.Join(parts, ";")
}

// plainStyle formats a resource style, which has no default layers.
func plainStyle(props Props) string {
	return ResolveStyle(nil, nil, props)
}

// ComposeTransform combines a per-call transform with the session default.
// The local transform comes first. ok is false when neither is set, in which
// case no transform attribute should be written.
func ComposeTransform(local, sessionDefault string) (string, bool) {
	var ts []string
	for _, t := range []string{local, sessionDefault} {
		if t != "" {
			ts = append(ts, t)
		}
	}
	if len(ts) == 0 {
		return "", false
	}
	return strings.Join(ts, " "), true
}
