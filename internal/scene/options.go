package scene

import (
	"math"

	"github.com/inamate/svgscript/internal/geom"
)

// Option adjusts a creation call. Options that do not apply to a call are
// ignored.
type Option func(*callOptions)

type callOptions struct {
	transform string
	connAvoid bool
	style     Props

	corners    *[2]float64
	angle      *float64
	angles     *[2]float64
	rounded    float64
	randomized float64

	connType string
	curve    float64

	onPath Handle
	at     *geom.Point
	linked bool
}

func newCallOptions(opts []Option) callOptions {
	o := callOptions{connType: "polyline"}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithTransform sets the object's own transform.
func WithTransform(t string) Option {
	return func(o *callOptions) { o.transform = t }
}

// WithConnAvoid makes connectors route around the object.
func WithConnAvoid() Option {
	return func(o *callOptions) { o.connAvoid = true }
}

// WithStyle adds per-call style properties.
func WithStyle(props ...Prop) Option {
	return func(o *callOptions) { o.style = append(o.style, props...) }
}

// WithCorners rounds a rectangle's corners.
func WithCorners(rx, ry float64) Option {
	return func(o *callOptions) { o.corners = &[2]float64{rx, ry} }
}

// WithAngle sets the angle of a regular polygon's first vertex.
func WithAngle(radians float64) Option {
	return func(o *callOptions) { o.angle = &radians }
}

// WithAngles sets the angles of a star's first outer and inner vertices.
func WithAngles(outer, inner float64) Option {
	return func(o *callOptions) { o.angles = &[2]float64{outer, inner} }
}

// WithRounded records the editor's corner rounding for stars and polygons.
func WithRounded(r float64) Option {
	return func(o *callOptions) { o.rounded = r }
}

// WithRandomized records the editor's vertex jitter for stars and polygons.
func WithRandomized(r float64) Option {
	return func(o *callOptions) { o.randomized = r }
}

// WithConnectorType sets the routing style recorded on a connector.
func WithConnectorType(t string) Option {
	return func(o *callOptions) { o.connType = t }
}

// WithCurvature sets the curvature recorded on a connector. Zero is straight.
func WithCurvature(c float64) Option {
	return func(o *callOptions) { o.curve = c }
}

// OnPath places text along the given object's outline.
func OnPath(h Handle) Option {
	return func(o *callOptions) { o.onPath = h }
}

// At positions continued text.
func At(p geom.Point) Option {
	return func(o *callOptions) { o.at = &p }
}

// Linked references an image by name instead of embedding it.
func Linked() Option {
	return func(o *callOptions) { o.linked = true }
}

func (o callOptions) polygonAngle() float64 {
	if o.angle != nil {
		return *o.angle
	}
	return -math.Pi / 2
}
