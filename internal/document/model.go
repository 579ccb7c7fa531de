package document

// Script is a declarative drawing: a page description and an ordered list
// of creation calls. Calls run in order against one fresh session.
type Script struct {
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
	Unit   string  `json:"unit,omitempty"`
	Title  string  `json:"title,omitempty"`
	Calls  []Call  `json:"calls"`
}

// Point is an [x, y] pair.
type Point [2]float64

type Op string

const (
	OpDefaultStyle     Op = "default_style"
	OpDefaultTransform Op = "default_transform"

	OpCircle         Op = "circle"
	OpEllipse        Op = "ellipse"
	OpRect           Op = "rect"
	OpLine           Op = "line"
	OpPolyline       Op = "polyline"
	OpPolygon        Op = "polygon"
	OpRegularPolygon Op = "regular_polygon"
	OpStar           Op = "star"
	OpArc            Op = "arc"
	OpPath           Op = "path"
	OpConnector      Op = "connector"
	OpText           Op = "text"
	OpMoreText       Op = "more_text"
	OpImage          Op = "image"
	OpClone          Op = "clone"
	OpGroup          Op = "group"
	OpAdd            Op = "add"
	OpElement        Op = "element"

	OpFilter         Op = "filter"
	OpLinearGradient Op = "linear_gradient"
)

// Ops lists every operation a script may use, in documentation order.
var Ops = []Op{
	OpDefaultStyle, OpDefaultTransform,
	OpCircle, OpEllipse, OpRect, OpLine, OpPolyline, OpPolygon,
	OpRegularPolygon, OpStar, OpArc, OpPath, OpConnector,
	OpText, OpMoreText, OpImage, OpClone, OpGroup, OpAdd, OpElement,
	OpFilter, OpLinearGradient,
}

func (o Op) Known() bool {
	for _, k := range Ops {
		if o == k {
			return true
		}
	}
	return false
}

// Call is one creation call. Only the fields relevant to Op are read; the
// rest stay at their zero value. Fields holding names (From, To, Members,
// Group, OnPath, Source, Template) refer to earlier calls' Name.
type Call struct {
	Op   Op     `json:"op"`
	Name string `json:"name,omitempty"`

	Center *Point    `json:"center,omitempty"`
	R      float64   `json:"r,omitempty"`
	RX     float64   `json:"rx,omitempty"`
	RY     float64   `json:"ry,omitempty"`
	Pt1    *Point    `json:"pt1,omitempty"`
	Pt2    *Point    `json:"pt2,omitempty"`
	Points []Point   `json:"points,omitempty"`
	Sides  int       `json:"sides,omitempty"`
	R1     float64   `json:"r1,omitempty"`
	R2     float64   `json:"r2,omitempty"`
	Angle  *float64  `json:"angle,omitempty"`
	Angles []float64 `json:"angles,omitempty"`
	Round  float64   `json:"round,omitempty"`
	Random float64   `json:"random,omitempty"`

	Ang1    float64 `json:"ang1,omitempty"`
	Ang2    float64 `json:"ang2,omitempty"`
	ArcType string  `json:"arc_type,omitempty"`

	D []string `json:"d,omitempty"`

	From          string   `json:"from,omitempty"`
	To            string   `json:"to,omitempty"`
	ConnectorType string   `json:"connector_type,omitempty"`
	Curvature     *float64 `json:"curvature,omitempty"`

	Text   string `json:"text,omitempty"`
	Base   *Point `json:"base,omitempty"`
	OnPath string `json:"on_path,omitempty"`

	Source string `json:"source,omitempty"`
	Link   bool   `json:"link,omitempty"`

	Members []string `json:"members,omitempty"`
	Group   string   `json:"group,omitempty"`

	Tag        string `json:"tag,omitempty"`
	Attributes Props  `json:"attributes,omitempty"`

	Label          string      `json:"label,omitempty"`
	FilterUnits    string      `json:"filter_units,omitempty"`
	PrimitiveUnits string      `json:"primitive_units,omitempty"`
	Primitives     []Primitive `json:"primitives,omitempty"`

	Repeat            string `json:"repeat,omitempty"`
	GradientUnits     string `json:"gradient_units,omitempty"`
	Template          string `json:"template,omitempty"`
	GradientTransform string `json:"gradient_transform,omitempty"`
	Stops             []Stop `json:"stops,omitempty"`

	Style     Props    `json:"style,omitempty"`
	Unset     []string `json:"unset,omitempty"`
	Transform string   `json:"transform,omitempty"`
	ConnAvoid bool     `json:"conn_avoid,omitempty"`
}

// Primitive is one filter stage inside a filter call. Src1 and Src2 name
// either an earlier primitive of the same filter or a literal input such as
// SourceGraphic.
type Primitive struct {
	Kind   string `json:"kind"`
	Name   string `json:"name,omitempty"`
	Src1   string `json:"src1,omitempty"`
	Src2   string `json:"src2,omitempty"`
	Result string `json:"result,omitempty"`
	Params Props  `json:"params,omitempty"`
}

// Stop is one gradient colour stop.
type Stop struct {
	Offset float64 `json:"offset"`
	Style  Props   `json:"style,omitempty"`
}
