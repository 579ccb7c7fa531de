package scene

import (
	"context"
	"fmt"
	"strconv"

	"github.com/inamate/svgscript/internal/geom"
	"github.com/inamate/svgscript/internal/svgdom"
)

// EmbeddedImage is raster data ready to inline as a data URI.
type EmbeddedImage struct {
	URI    string
	Width  int
	Height int
}

// ImageLoader resolves an image name to embeddable data.
type ImageLoader interface {
	Embed(ctx context.Context, name string) (EmbeddedImage, error)
}

// Image places a raster image with its upper-left corner at ul. By default
// the image is embedded through the session's ImageLoader; Linked refers to
// it by name instead.
func (s *Session) Image(name string, ul geom.Point, opts ...Option) (*Object, error) {
	o := newCallOptions(opts)
	el := svgdom.New("image", "x", num(ul.X), "y", num(ul.Y))
	if o.linked {
		el.Set("xlink:href", name)
		return s.finish(el, nil, o), nil
	}
	if s.images == nil {
		return nil, s.report("image", ErrNoImageLoader)
	}
	img, err := s.images.Embed(s.ctx, name)
	if err != nil {
		return nil, s.report("image", fmt.Errorf("embed %q: %w", name, err))
	}
	if img.Width > 0 && img.Height > 0 {
		el.Set("width", strconv.Itoa(img.Width))
		el.Set("height", strconv.Itoa(img.Height))
	}
	el.Set("xlink:href", img.URI)
	return s.finish(el, nil, o), nil
}
