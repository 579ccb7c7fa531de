package document

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Format is a script encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
)

var (
	ErrUnknownFormat = errors.New("unknown script format")
	ErrEmptyScript   = errors.New("script has no calls")
)

// FormatFromContentType maps a request Content-Type to a format. Anything
// that is not TOML is treated as JSON.
func FormatFromContentType(ct string) Format {
	mt, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return FormatJSON
	}
	switch mt {
	case "application/toml", "text/toml", "application/x-toml":
		return FormatTOML
	}
	return FormatJSON
}

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".toml":
		return FormatTOML, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownFormat, path)
}

// Decode reads a script. JSON objects keep their key order. TOML tables
// have no stable order, so their keys are taken sorted; use the unset list
// instead of null to delete inherited style.
func Decode(data []byte, f Format) (*Script, error) {
	switch f {
	case FormatJSON:
		return decodeJSON(data)
	case FormatTOML:
		var raw map[string]any
		if err := toml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("decode toml: %w", err)
		}
		b, err := json.Marshal(raw)
		if err != nil {
			return nil, fmt.Errorf("decode toml: %w", err)
		}
		return decodeJSON(b)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, f)
}

// Read decodes a script of at most limit bytes from r.
func Read(r io.Reader, f Format, limit int64) (*Script, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("script larger than %d bytes", limit)
	}
	return Decode(data, f)
}

func decodeJSON(data []byte) (*Script, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	var s Script
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("decode script: %w", err)
	}
	if len(s.Calls) == 0 {
		return nil, ErrEmptyScript
	}
	return &s, nil
}

// Encode writes s in the given format.
func Encode(w io.Writer, s *Script, f Format) error {
	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(s)
	case FormatTOML:
		// Round trip through JSON so Props keep their custom encoding.
		b, err := json.Marshal(s)
		if err != nil {
			return err
		}
		var raw map[string]any
		if err := json.Unmarshal(b, &raw); err != nil {
			return err
		}
		return toml.NewEncoder(w).Encode(raw)
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, f)
}
