package document

func pt(x, y float64) *Point { return &Point{x, y} }

func f64(v float64) *float64 { return &v }

// Sample returns a small drawing that exercises most calls: shared
// defaults, basic shapes, a star, an arc, a connector, text on a path, a
// gradient and a drop-shadow filter.
func Sample() *Script {
	return &Script{
		Width:  210,
		Height: 297,
		Unit:   "mm",
		Title:  "Sample drawing",
		Calls: []Call{
			{Op: OpDefaultStyle, Style: Props{P("stroke-width", "0.5")}},
			{
				Op: OpLinearGradient, Name: "sky",
				Pt1: pt(0, 0), Pt2: pt(0, 1), Repeat: "none",
				Stops: []Stop{
					{Offset: 0, Style: Props{P("stop-color", "#8ecae6")}},
					{Offset: 1, Style: Props{P("stop-color", "#219ebc")}},
				},
			},
			{
				Op: OpFilter, Name: "shadow", Label: "Drop shadow",
				Pt1: pt(-0.2, -0.2), Pt2: pt(1.4, 1.4),
				Primitives: []Primitive{
					{Kind: "GaussianBlur", Name: "blur", Src1: "SourceAlpha", Params: Props{P("stdDeviation", "1.5")}},
					{Kind: "Offset", Name: "offset", Src1: "blur", Params: Props{P("dx", "1"), P("dy", "1")}},
					{Kind: "Blend", Src1: "SourceGraphic", Src2: "offset", Params: Props{P("mode", "normal")}},
				},
			},
			{Op: OpRect, Name: "background", Pt1: pt(0, 0), Pt2: pt(210, 297), Style: Props{P("fill", "@sky"), P("stroke", "none")}},
			{Op: OpCircle, Name: "sun", Center: pt(160, 60), R: 25, Style: Props{P("fill", "#ffb703"), P("filter", "@shadow")}},
			{Op: OpStar, Name: "spark", Sides: 5, Center: pt(50, 60), R1: 15, R2: 6, Style: Props{P("fill", "#fb8500")}},
			{Op: OpArc, Name: "hill", Center: pt(105, 297), RX: 120, RY: 60, Ang1: 3.14159265358979, Ang2: 0, ArcType: "chord", Style: Props{P("fill", "#2a9d8f")}},
			{Op: OpConnector, Name: "ray", From: "spark", To: "sun", ConnectorType: "orthogonal", Curvature: f64(0), Style: Props{P("stroke-dasharray", "2,1")}},
			{Op: OpPath, Name: "baseline", D: []string{"M 30,200", "C 70,170 140,230 180,200"}, Unset: []string{"stroke"}},
			{Op: OpText, Name: "caption", Text: "Hello from a script", Base: pt(0, 0), OnPath: "baseline", Style: Props{P("font-size", "8"), P("font-family", "serif")}},
			{Op: OpMoreText, Text: " and more text", Style: Props{P("font-weight", "bold")}},
			{Op: OpGroup, Name: "sky-objects", Members: []string{"sun", "spark", "ray"}, Transform: "translate(0,10)"},
			{Op: OpClone, Name: "sun-echo", Source: "sun", Transform: "translate(-120,150) scale(0.5)"},
		},
	}
}
