package geom

import (
	"errors"
	"fmt"
	"strings"
)

var ErrBadPath = errors.New("malformed path data")

// Segment is one absolute path command.
type Segment interface {
	// End is the current point after the segment is drawn.
	End(start Point) Point
	String() string
}

type MoveTo struct{ To Point }

type LineTo struct{ To Point }

type QuadTo struct{ Ctrl, To Point }

type CubicTo struct{ Ctrl1, Ctrl2, To Point }

// ArcTo is an elliptical arc in endpoint parameterization.
type ArcTo struct {
	RX, RY   float64
	Rotation float64 // degrees
	LargeArc bool
	Sweep    bool
	To       Point
}

// Close returns to the start of the current subpath.
type Close struct{}

func (s MoveTo) End(Point) Point  { return s.To }
func (s LineTo) End(Point) Point  { return s.To }
func (s QuadTo) End(Point) Point  { return s.To }
func (s CubicTo) End(Point) Point { return s.To }
func (s ArcTo) End(Point) Point   { return s.To }

// End of a Close is resolved by Path walkers, which track the subpath start.
func (Close) End(start Point) Point { return start }

func (s MoveTo) String() string { return "M " + s.To.String() }
func (s LineTo) String() string { return "L " + s.To.String() }
func (s QuadTo) String() string { return "Q " + s.Ctrl.String() + " " + s.To.String() }
func (s CubicTo) String() string {
	return "C " + s.Ctrl1.String() + " " + s.Ctrl2.String() + " " + s.To.String()
}
func (s ArcTo) String() string {
	return fmt.Sprintf("A %s,%s %s %d %d %s",
		Num(s.RX), Num(s.RY), Num(s.Rotation), flagInt(s.LargeArc), flagInt(s.Sweep), s.To)
}
func (Close) String() string { return "Z" }

func flagInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Path is a sequence of absolute segments.
type Path []Segment

// String renders the path as SVG path data.
func (p Path) String() string {
	parts := make([]string, len(p))
	for i, s := range p {
		parts[i] = s.String()
	}
	return strings.Join(parts, " ")
}

// ParsePath parses SVG path data into absolute segments. Relative commands
// are resolved, H and V become LineTo, and the smooth S and T forms become
// CubicTo and QuadTo with reflected control points.
func ParsePath(d string) (Path, error) {
	var (
		path     Path
		cur      Point
		subStart Point
		lastCtrl Point
		lastCmd  byte
		cmd      byte
	)
	sc := newScanner(d)

	for !sc.done() {
		c := sc.peek()
		if isCommand(c) {
			cmd = c
			sc.pos++
		} else if cmd == 0 {
			return nil, fmt.Errorf("parse path at %d: %w", sc.pos, ErrBadPath)
		}

		rel := cmd >= 'a' && cmd <= 'z'
		abs := func(p Point) Point {
			if rel {
				return cur.Add(p)
			}
			return p
		}

		var seg Segment
		upper := cmd &^ 0x20
		switch upper {
		case 'Z':
			seg = Close{}
		case 'M', 'L', 'T':
			v := sc.numbers(2)
			if len(v) != 2 {
				return nil, fmt.Errorf("parse path %c: %w", cmd, ErrBadPath)
			}
			to := abs(Pt(v[0], v[1]))
			switch upper {
			case 'M':
				seg = MoveTo{To: to}
				subStart = to
			case 'L':
				seg = LineTo{To: to}
			case 'T':
				ctrl := cur
				if lastCmd == 'Q' || lastCmd == 'T' {
					ctrl = reflect(lastCtrl, cur)
				}
				seg = QuadTo{Ctrl: ctrl, To: to}
				lastCtrl = ctrl
			}
		case 'H', 'V':
			v := sc.numbers(1)
			if len(v) != 1 {
				return nil, fmt.Errorf("parse path %c: %w", cmd, ErrBadPath)
			}
			to := cur
			if upper == 'H' {
				to.X = v[0]
				if rel {
					to.X += cur.X
				}
			} else {
				to.Y = v[0]
				if rel {
					to.Y += cur.Y
				}
			}
			seg = LineTo{To: to}
		case 'Q':
			v := sc.numbers(4)
			if len(v) != 4 {
				return nil, fmt.Errorf("parse path %c: %w", cmd, ErrBadPath)
			}
			q := QuadTo{Ctrl: abs(Pt(v[0], v[1])), To: abs(Pt(v[2], v[3]))}
			lastCtrl = q.Ctrl
			seg = q
		case 'C', 'S':
			n := 6
			if upper == 'S' {
				n = 4
			}
			v := sc.numbers(n)
			if len(v) != n {
				return nil, fmt.Errorf("parse path %c: %w", cmd, ErrBadPath)
			}
			var cu CubicTo
			if upper == 'C' {
				cu = CubicTo{Ctrl1: abs(Pt(v[0], v[1])), Ctrl2: abs(Pt(v[2], v[3])), To: abs(Pt(v[4], v[5]))}
			} else {
				c1 := cur
				if lastCmd == 'C' || lastCmd == 'S' {
					c1 = reflect(lastCtrl, cur)
				}
				cu = CubicTo{Ctrl1: c1, Ctrl2: abs(Pt(v[0], v[1])), To: abs(Pt(v[2], v[3]))}
			}
			lastCtrl = cu.Ctrl2
			seg = cu
		case 'A':
			v := sc.numbers(3)
			large, ok1 := sc.flag()
			sweep, ok2 := sc.flag()
			xy := sc.numbers(2)
			if len(v) != 3 || !ok1 || !ok2 || len(xy) != 2 {
				return nil, fmt.Errorf("parse path %c: %w", cmd, ErrBadPath)
			}
			seg = ArcTo{RX: v[0], RY: v[1], Rotation: v[2], LargeArc: large, Sweep: sweep, To: abs(Pt(xy[0], xy[1]))}
		default:
			return nil, fmt.Errorf("parse path command %q: %w", cmd, ErrBadPath)
		}

		path = append(path, seg)
		if _, ok := seg.(Close); ok {
			cur = subStart
		} else {
			cur = seg.End(cur)
		}
		lastCmd = upper

		// Extra coordinate pairs after a moveto are implicit linetos.
		switch upper {
		case 'Z':
			cmd = 0
		case 'M':
			if rel {
				cmd = 'l'
			} else {
				cmd = 'L'
			}
		}
	}
	return path, nil
}

func isCommand(c byte) bool {
	return strings.IndexByte("MmLlHhVvCcSsQqTtAaZz", c) >= 0
}

func reflect(ctrl, about Point) Point {
	return Point{2*about.X - ctrl.X, 2*about.Y - ctrl.Y}
}
