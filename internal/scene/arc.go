package scene

import (
	"math"

	"github.com/inamate/svgscript/internal/geom"
)

// ArcType selects how an arc's path is closed.
type ArcType string

const (
	ArcOpen  ArcType = "arc"   // open curve
	ArcSlice ArcType = "slice" // pie slice through the centre
	ArcChord ArcType = "chord" // closed by a straight chord
)

func (t ArcType) Valid() bool {
	switch t {
	case ArcOpen, ArcSlice, ArcChord:
		return true
	}
	return false
}

// normalizeAngle maps a into [0, 2pi).
func normalizeAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	if a >= 2*math.Pi {
		a = 0
	}
	return a
}

// SynthesizeArc builds explicit path data for the part of the ellipse with
// radii rx, ry around center running from ang1 to ang2 in the positive
// direction. Equal angles draw the full ellipse. The sweep is cut into
// pieces of at most a quarter turn so each elliptical-arc segment stays
// well conditioned.
func SynthesizeArc(center geom.Point, rx, ry, ang1, ang2 float64, t ArcType) (geom.Path, error) {
	if !t.Valid() {
		return nil, ErrInvalidArcType
	}
	ang1 = normalizeAngle(ang1)
	ang2 = normalizeAngle(ang2)
	sweep := normalizeAngle(ang2 - ang1)
	if sweep == 0 {
		sweep = 2 * math.Pi
	}

	// The epsilon keeps a quarter turn that picked up rounding error in
	// normalization from being split in two.
	n := max(1, int(math.Ceil(sweep/(math.Pi/2)-1e-9)))
	path := make(geom.Path, 0, n+3)
	path = append(path, geom.MoveTo{To: center.Polar(rx, ry, ang1)})
	for i := 1; i <= n; i++ {
		a := ang1 + sweep*float64(i)/float64(n)
		path = append(path, geom.ArcTo{RX: rx, RY: ry, Sweep: true, To: center.Polar(rx, ry, a)})
	}

	switch t {
	case ArcSlice:
		path = append(path, geom.LineTo{To: center}, geom.Close{})
	case ArcChord:
		path = append(path, geom.Close{})
	}
	return path, nil
}
