package scene

import (
	"github.com/inamate/svgscript/internal/geom"
	"github.com/inamate/svgscript/internal/svgdom"
)

// Connector draws a straight path between the bounding-box centres of two
// objects and records both endpoints so an editor can re-route it when
// either end moves.
func (s *Session) Connector(from, to Handle, opts ...Option) (*Object, error) {
	if isNil(from) || isNil(to) {
		return nil, s.report("connector", ErrNotObject)
	}
	o := newCallOptions(opts)
	d := geom.Path{
		geom.MoveTo{To: from.BoundingBox().Center()},
		geom.LineTo{To: to.BoundingBox().Center()},
	}
	el := svgdom.New("path",
		"d", d.String(),
		"inkscape:connector-type", o.connType,
		"inkscape:connector-curvature", num(o.curve),
		"inkscape:connection-start", "#"+from.ID(),
		"inkscape:connection-end", "#"+to.ID(),
	)
	return s.finish(el, shapeStyle, o), nil
}
