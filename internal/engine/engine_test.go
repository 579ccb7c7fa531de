package engine

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inamate/svgscript/internal/document"
	"github.com/inamate/svgscript/internal/scene"
)

type fakeImages map[string]scene.EmbeddedImage

func (f fakeImages) Embed(_ context.Context, name string) (scene.EmbeddedImage, error) {
	img, ok := f[name]
	if !ok {
		return scene.EmbeddedImage{}, errors.New("no such image")
	}
	return img, nil
}

func newTestEngine(opts ...Option) *Engine {
	return New(Page{Width: 100, Height: 100, Unit: "mm"}, append([]Option{WithRunPrefix("t")}, opts...)...)
}

func render(t *testing.T, e *Engine, src string) *Result {
	t.Helper()
	s, err := document.Decode([]byte(src), document.FormatJSON)
	require.NoError(t, err)
	res, err := e.Render(context.Background(), s)
	require.NoError(t, err)
	return res
}

func TestRenderSample(t *testing.T) {
	e := newTestEngine()
	res, err := e.Render(context.Background(), document.Sample())
	require.NoError(t, err)
	assert.Empty(t, res.Problems)
	assert.Equal(t, 6, res.Objects)

	svg := string(res.SVG)
	assert.True(t, strings.HasPrefix(svg, "<?xml"))
	assert.Contains(t, svg, `width="210.000mm"`)
	assert.Contains(t, svg, "<title>Sample drawing</title>")
	assert.Contains(t, svg, "fill:url(#t-1)")
	assert.Contains(t, svg, "filter:url(#t-2)")
	assert.Contains(t, svg, `in="t-3"`)
	assert.Contains(t, svg, `in2="t-5"`)
	assert.Contains(t, svg, `sodipodi:type="star"`)
	assert.Contains(t, svg, "<textPath")
	assert.Contains(t, svg, `<tspan style="stroke-width:0.5;font-weight:bold">`)
}

func TestRenderUsesPageDefaults(t *testing.T) {
	res := render(t, newTestEngine(), `{"calls": [{"op": "circle", "center": [1, 1], "r": 1}]}`)
	assert.Contains(t, string(res.SVG), `width="100.000mm"`)
	assert.Equal(t, 1, res.Objects)
}

func TestProblemsDoNotStopTheRun(t *testing.T) {
	res := render(t, newTestEngine(), `{"calls": [
		{"op": "polygon", "name": "bad", "points": [[0, 0]]},
		{"op": "circle", "name": "c", "center": [5, 5], "r": 2},
		{"op": "spiral"},
		{"op": "clone", "source": "bad"},
		{"op": "circle", "name": "c", "center": [1, 1], "r": 1},
		{"op": "ellipse", "rx": 1, "ry": 2},
		{"op": "rect", "pt1": [0, 0], "pt2": [1, 1], "style": {"fill": "@nowhere"}},
		{"op": "add", "group": "c", "members": ["c"]},
		{"op": "star", "center": [0, 0], "sides": 5, "r1": 1, "r2": 2, "angles": [1]},
		{"op": "line", "name": "l", "pt1": [0, 0], "pt2": [9, 9]}
	]}`)

	require.Len(t, res.Problems, 8)
	want := []struct {
		call int
		err  error
	}{
		{0, scene.ErrTooFewPoints},
		{2, ErrUnknownOp},
		{3, ErrUnknownName},
		{4, ErrNameTaken},
		{5, ErrMissingField},
		{6, ErrUnknownName},
		{7, ErrWrongKind},
	}
	for i, w := range want {
		assert.Equal(t, w.call, res.Problems[i].Call)
		assert.ErrorIs(t, res.Problems[i], w.err, res.Problems[i].Message)
	}
	assert.Equal(t, 8, res.Problems[7].Call)
	assert.Equal(t, "polygon", res.Problems[0].Op)
	assert.Equal(t, "bad", res.Problems[0].Name)
	assert.Equal(t, 2, res.Objects)
}

func TestReferencesAndGroups(t *testing.T) {
	res := render(t, newTestEngine(), `{"calls": [
		{"op": "default_style", "style": {"stroke_width": 2}, "unset": ["stroke"]},
		{"op": "default_transform", "transform": "rotate(5)"},
		{"op": "rect", "name": "a", "pt1": [0, 0], "pt2": [10, 10]},
		{"op": "circle", "name": "b", "center": [30, 5], "r": 5, "conn_avoid": true},
		{"op": "rect", "name": "clip", "pt1": [0, 0], "pt2": [4, 4]},
		{"op": "connector", "name": "link", "from": "a", "to": "b", "curvature": 0.25, "style": {"clip-path": "@clip"}},
		{"op": "group", "name": "g", "members": ["a", "b"], "transform": "scale(2)"},
		{"op": "add", "group": "g", "members": ["link", "a"]}
	]}`)

	require.Len(t, res.Problems, 1)
	assert.Equal(t, 7, res.Problems[0].Call)
	assert.ErrorIs(t, res.Problems[0], scene.ErrNotTopLevel)

	svg := string(res.SVG)
	assert.Contains(t, svg, `style="fill:none;stroke-width:2;clip-path:url(#t-3)"`)
	assert.Contains(t, svg, `inkscape:connector-curvature="0.25"`)
	assert.Contains(t, svg, `inkscape:connector-avoid="true"`)
	assert.Contains(t, svg, `transform="scale(2) rotate(5)"`)
	// clip and g remain at top level.
	assert.Equal(t, 2, res.Objects)
}

func TestFilterAndGradientCalls(t *testing.T) {
	res := render(t, newTestEngine(), `{"calls": [
		{"op": "linear_gradient", "name": "base", "pt1": [0, 0], "pt2": [1, 0], "repeat": "direct",
		 "stops": [{"offset": 0, "style": {"stop-color": "red"}}, {"offset": 1, "style": {"stop-color": "blue"}}]},
		{"op": "linear_gradient", "name": "tilted", "template": "base", "gradient_transform": "rotate(45)"},
		{"op": "linear_gradient", "template": "nothing"},
		{"op": "filter", "name": "f", "label": "glow", "primitives": [
			{"kind": "GaussianBlur", "name": "b", "src1": "SourceGraphic", "params": {"stdDeviation": 4}, "result": "blurred"},
			{"kind": "Merge", "src1": "b", "result": "blurred"},
			{"src1": "b"},
			{"kind": "Blend", "src1": "SourceGraphic", "src2": "b"}
		]},
		{"op": "circle", "center": [0, 0], "r": 1, "style": {"fill": "@tilted", "filter": "@f"}}
	]}`)

	require.Len(t, res.Problems, 2)
	assert.ErrorIs(t, res.Problems[0], ErrUnknownName)
	assert.ErrorIs(t, res.Problems[1], scene.ErrDuplicateResult)
	assert.ErrorIs(t, res.Problems[1], ErrMissingField)

	svg := string(res.SVG)
	assert.Contains(t, svg, `spreadMethod="repeat"`)
	assert.Contains(t, svg, `xlink:href="#t-1"`)
	assert.Contains(t, svg, `gradientTransform="rotate(45)"`)
	assert.Contains(t, svg, `inkscape:label="glow"`)
	assert.Contains(t, svg, `in2="blurred"`)
	assert.Contains(t, svg, "fill:url(#t-2)")
	assert.Contains(t, svg, "filter:url(#t-3)")
}

func TestImagesAndElements(t *testing.T) {
	e := newTestEngine(WithImages(fakeImages{
		"logo.png": {URI: "data:image/png;base64,AAAA", Width: 16, Height: 8},
	}))
	res := render(t, e, `{"calls": [
		{"op": "image", "name": "logo", "source": "logo.png", "pt1": [5, 5]},
		{"op": "image", "source": "remote.png", "link": true},
		{"op": "image", "source": "missing.png"},
		{"op": "element", "tag": "rect", "attributes": {"x": 1, "y": 2, "width": 3, "height": 4}, "style": {"fill": "green"}},
		{"op": "element"}
	]}`)
	require.Len(t, res.Problems, 2)
	assert.Equal(t, 2, res.Problems[0].Call)
	assert.Equal(t, 4, res.Problems[1].Call)

	svg := string(res.SVG)
	assert.Contains(t, svg, `width="16" height="8" xlink:href="data:image/png;base64,AAAA"`)
	assert.Contains(t, svg, `xlink:href="remote.png"`)
	assert.Contains(t, svg, `<rect x="1" y="2" width="3" height="4" style="fill:green"`)

	noImages := render(t, newTestEngine(), `{"calls": [{"op": "image", "source": "logo.png"}]}`)
	require.Len(t, noImages.Problems, 1)
	assert.ErrorIs(t, noImages.Problems[0], scene.ErrNoImageLoader)
}

func TestGroupCycleIsAProblem(t *testing.T) {
	res := render(t, newTestEngine(), `{"calls": [
		{"op": "circle", "name": "c", "center": [1, 1], "r": 1},
		{"op": "group", "name": "inner", "members": ["c"]},
		{"op": "group", "name": "outer", "members": ["inner"]},
		{"op": "add", "group": "inner", "members": ["outer"]},
		{"op": "add", "group": "outer", "members": ["outer"]}
	]}`)

	require.Len(t, res.Problems, 2)
	for i, p := range res.Problems {
		assert.Equal(t, 3+i, p.Call)
		assert.ErrorIs(t, p, scene.ErrGroupCycle)
	}
	assert.Equal(t, 1, res.Objects)
	assert.Contains(t, string(res.SVG), `<g id="t-3"><g id="t-2"><circle`)
}

func TestTooManySidesIsAProblem(t *testing.T) {
	res := render(t, newTestEngine(), `{"calls": [
		{"op": "star", "name": "s", "center": [0, 0], "sides": 100000000, "r1": 1, "r2": 2},
		{"op": "regular_polygon", "center": [0, 0], "sides": 4611686018427387904, "r": 1},
		{"op": "circle", "center": [1, 1], "r": 1}
	]}`)

	require.Len(t, res.Problems, 2)
	for _, p := range res.Problems {
		assert.ErrorIs(t, p, scene.ErrTooManySides)
	}
	assert.Equal(t, 1, res.Objects)
}

type panickingImages struct{}

func (panickingImages) Embed(context.Context, string) (scene.EmbeddedImage, error) {
	panic("loader exploded")
}

func TestPanicAbortsTheRun(t *testing.T) {
	e := newTestEngine(WithImages(panickingImages{}))
	s, err := document.Decode([]byte(`{"calls": [
		{"op": "circle", "center": [1, 1], "r": 1},
		{"op": "image", "source": "logo.png"}
	]}`), document.FormatJSON)
	require.NoError(t, err)

	res, err := e.Render(context.Background(), s)
	assert.Nil(t, res)
	assert.ErrorIs(t, err, ErrAborted)
	assert.Contains(t, err.Error(), "loader exploded")

	// The engine stays usable.
	ok := render(t, e, `{"calls": [{"op": "circle", "center": [1, 1], "r": 1}]}`)
	assert.Equal(t, 1, ok.Objects)
}

func TestMoreTextCall(t *testing.T) {
	res := render(t, newTestEngine(), `{"calls": [
		{"op": "more_text", "text": "orphan"},
		{"op": "text", "name": "t", "text": "Hi", "base": [1, 2]},
		{"op": "more_text", "text": " there", "base": [1, 8], "style": {"fill": "red"}}
	]}`)
	require.Len(t, res.Problems, 1)
	assert.ErrorIs(t, res.Problems[0], scene.ErrNoTextTarget)
	assert.Contains(t, string(res.SVG), `Hi<tspan style="fill:red" x="1" y="8"> there</tspan></text>`)
}

func TestRenderStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newTestEngine().Render(ctx, document.Sample())
	assert.ErrorIs(t, err, context.Canceled)
}
