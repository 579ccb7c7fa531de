package typeid

import (
	"fmt"
	"strings"

	"go.jetify.com/typeid/v2"
)

const (
	PrefixRun     = "run"
	PrefixDrawing = "drw"
	PrefixAsset   = "asset"
	PrefixRender  = "rnd"
)

func New(prefix string) string {
	id := typeid.MustGenerate(prefix)
	return id.String()
}

func NewDrawingID() string { return New(PrefixDrawing) }
func NewAssetID() string   { return New(PrefixAsset) }
func NewRenderID() string  { return New(PrefixRender) }

// NewRunPrefix returns a short random token distinguishing the object ids
// of one generation run from those of another. It is taken from the tail of
// a fresh run typeid, where the random bits of the underlying UUIDv7 live.
func NewRunPrefix() string {
	id := New(PrefixRun)
	suffix := strings.TrimPrefix(id, PrefixRun+"_")
	if len(suffix) > 8 {
		suffix = suffix[len(suffix)-8:]
	}
	return PrefixRun + suffix
}

func Validate(id, expectedPrefix string) error {
	parsed, err := typeid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid typeid %q: %w", id, err)
	}
	if parsed.Prefix() != expectedPrefix {
		return fmt.Errorf("expected prefix %q but got %q in id %q", expectedPrefix, parsed.Prefix(), id)
	}
	return nil
}
