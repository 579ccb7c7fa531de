package geom

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNum(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{math.Sin(math.Pi), "0"},
		{-math.Sin(math.Pi), "0"},
		{1, "1"},
		{-2.5, "-2.5"},
		{100, "100"},
		{math.Cos(math.Pi / 3), "0.5"},
		{1.0 / 3, "0.3333333333"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Num(tt.in), "Num(%v)", tt.in)
	}
}

func TestRectUnionKeepsDegenerate(t *testing.T) {
	line := Rect{X: 0, Y: 5, Width: 10, Height: 0}
	pt := Rect{X: 3, Y: -2}
	u := line.Union(pt)
	assert.Equal(t, Rect{X: 0, Y: -2, Width: 10, Height: 7}, u)
	assert.Equal(t, Pt(5, 1.5), u.Center())
}

func TestParseTransform(t *testing.T) {
	tests := []struct {
		name string
		in   string
		pt   Point
		want Point
	}{
		{"empty", "", Pt(3, 4), Pt(3, 4)},
		{"translate", "translate(10,20)", Pt(1, 1), Pt(11, 21)},
		{"translate x only", "translate(5)", Pt(1, 1), Pt(6, 1)},
		{"uniform scale", "scale(2)", Pt(1, 3), Pt(2, 6)},
		{"rightmost first", "translate(10 0) scale(2)", Pt(1, 1), Pt(12, 2)},
		{"rotate about point", "rotate(90 1 1)", Pt(2, 1), Pt(1, 2)},
		{"matrix", "matrix(1 0 0 1 -3 4)", Pt(0, 0), Pt(-3, 4)},
		{"comma separated list", "scale(2),translate(1,1)", Pt(0, 0), Pt(2, 2)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := ParseTransform(tt.in)
			require.NoError(t, err)
			got := m.TransformPoint(tt.pt)
			assert.InDelta(t, tt.want.X, got.X, 1e-9)
			assert.InDelta(t, tt.want.Y, got.Y, 1e-9)
		})
	}
}

func TestParseTransformErrors(t *testing.T) {
	for _, in := range []string{"rotate", "scale(1,2,3)", "translate(1,2", "bogus(1)"} {
		_, err := ParseTransform(in)
		assert.ErrorIs(t, err, ErrBadTransform, in)
	}
}

func TestParsePathAbsoluteForms(t *testing.T) {
	p, err := ParsePath("m10,10 h5 v5 l-5,0 z M0 0 L1 1 2 2")
	require.NoError(t, err)
	assert.Equal(t, Path{
		MoveTo{Pt(10, 10)},
		LineTo{Pt(15, 10)},
		LineTo{Pt(15, 15)},
		LineTo{Pt(10, 15)},
		Close{},
		MoveTo{Pt(0, 0)},
		LineTo{Pt(1, 1)},
		LineTo{Pt(2, 2)},
	}, p)
}

func TestParsePathImplicitLineAfterMove(t *testing.T) {
	p, err := ParsePath("m1,1 2,0 0,2")
	require.NoError(t, err)
	assert.Equal(t, Path{MoveTo{Pt(1, 1)}, LineTo{Pt(3, 1)}, LineTo{Pt(3, 3)}}, p)
}

func TestParsePathArcAndSmooth(t *testing.T) {
	p, err := ParsePath("M0,0 A5,5 0 0 1 10,0 C10,5 20,5 20,0 S30,-5 30,0")
	require.NoError(t, err)
	require.Len(t, p, 4)
	assert.Equal(t, ArcTo{RX: 5, RY: 5, Sweep: true, To: Pt(10, 0)}, p[1])
	assert.Equal(t, CubicTo{Ctrl1: Pt(20, -5), Ctrl2: Pt(30, -5), To: Pt(30, 0)}, p[3])
}

func TestParsePathPackedArcFlags(t *testing.T) {
	p, err := ParsePath("M0 0a1 1 0 014 0")
	require.NoError(t, err)
	assert.Equal(t, ArcTo{RX: 1, RY: 1, Sweep: true, To: Pt(4, 0)}, p[1])
}

func TestParsePathErrors(t *testing.T) {
	for _, d := range []string{"10 10", "M1", "M0 0 Z 5 5", "M0 0 X1 1"} {
		_, err := ParsePath(d)
		assert.ErrorIs(t, err, ErrBadPath, d)
	}
}

func TestPathStringRoundTrip(t *testing.T) {
	p := Path{
		MoveTo{Pt(1, 0)},
		ArcTo{RX: 1, RY: 1, Sweep: true, To: Pt(0, 1)},
		LineTo{Pt(0, 0)},
		Close{},
	}
	assert.Equal(t, "M 1,0 A 1,1 0 0 1 0,1 L 0,0 Z", p.String())
	back, err := ParsePath(p.String())
	require.NoError(t, err)
	assert.Equal(t, p, back)
}

func TestPathBoundsArc(t *testing.T) {
	// Upper half of the unit circle, drawn clockwise in SVG's y-down space.
	p := Path{
		MoveTo{Pt(1, 0)},
		ArcTo{RX: 1, RY: 1, Sweep: true, To: Pt(0, 1)},
		ArcTo{RX: 1, RY: 1, Sweep: true, To: Pt(-1, 0)},
	}
	b := p.Bounds()
	assert.InDelta(t, -1, b.X, 1e-9)
	assert.InDelta(t, 0, b.Y, 1e-9)
	assert.InDelta(t, 2, b.Width, 1e-9)
	assert.InDelta(t, 1, b.Height, 1e-9)
}

func TestPathBoundsCubicExtrema(t *testing.T) {
	p := Path{MoveTo{Pt(0, 0)}, CubicTo{Pt(0, 10), Pt(10, 10), Pt(10, 0)}}
	b := p.Bounds()
	assert.InDelta(t, 7.5, b.Height, 1e-9)
	assert.InDelta(t, 10, b.Width, 1e-9)
}

func TestMatrixTransformRect(t *testing.T) {
	r := RotateDegrees(90).TransformRect(Rect{X: 0, Y: 0, Width: 2, Height: 1})
	assert.InDelta(t, -1, r.X, 1e-9)
	assert.InDelta(t, 1, r.Width, 1e-9)
	assert.InDelta(t, 2, r.Height, 1e-9)
	assert.True(t, Translate(3, 4).Multiply(Translate(-3, -4)).IsIdentity())
	assert.True(t, Scale(2, 4).Multiply(Scale(2, 4).Invert()).IsIdentity())
}
