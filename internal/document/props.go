package document

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

var ErrNotAnObject = errors.New("expected a JSON object of scalar values")

// Prop is a named value. A nil Value deletes the key from inherited style.
type Prop struct {
	Key   string
	Value *string
}

// Props is an ordered property list that keeps the key order of its JSON
// object. Numbers and booleans are kept in their textual form.
type Props []Prop

func (p Props) Get(key string) (string, bool) {
	for i := len(p) - 1; i >= 0; i-- {
		if p[i].Key == key {
			if p[i].Value == nil {
				return "", false
			}
			return *p[i].Value, true
		}
	}
	return "", false
}

func (p *Props) UnmarshalJSON(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*p = nil
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return ErrNotAnObject
	}

	out := Props{}
	for dec.More() {
		kt, err := dec.Token()
		if err != nil {
			return err
		}
		key := kt.(string)

		vt, err := dec.Token()
		if err != nil {
			return err
		}
		var s string
		switch v := vt.(type) {
		case nil:
			out = append(out, Prop{Key: key})
			continue
		case string:
			s = v
		case json.Number:
			s = v.String()
		case bool:
			s = strconv.FormatBool(v)
		default:
			return fmt.Errorf("%w: key %q", ErrNotAnObject, key)
		}
		out = append(out, Prop{Key: key, Value: &s})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*p = out
	return nil
}

func (p Props) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, prop := range p {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(prop.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		if prop.Value == nil {
			buf.WriteString("null")
			continue
		}
		v, err := json.Marshal(*prop.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// P builds a property with a value.
func P(key, value string) Prop {
	return Prop{Key: key, Value: &value}
}
