package geom

import (
	"fmt"
	"strings"

	"github.com/tdewolff/parse/v2/strconv"
)

// scanner walks attribute text such as path data or transform lists.
type scanner struct {
	b   []byte
	pos int
}

func newScanner(s string) *scanner {
	return &scanner{b: []byte(s)}
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}

func isNumberStart(c byte) bool {
	return c >= '0' && c <= '9' || c == '-' || c == '+' || c == '.'
}

// skipSep skips whitespace and at most one comma.
func (s *scanner) skipSep() {
	s.skipSpace()
	if s.pos < len(s.b) && s.b[s.pos] == ',' {
		s.pos++
		s.skipSpace()
	}
}

func (s *scanner) skipSpace() {
	for s.pos < len(s.b) && isSpace(s.b[s.pos]) {
		s.pos++
	}
}

func (s *scanner) done() bool {
	s.skipSpace()
	return s.pos >= len(s.b)
}

func (s *scanner) peek() byte {
	if s.pos >= len(s.b) {
		return 0
	}
	return s.b[s.pos]
}

// hasNumber reports whether a number follows the optional separator.
func (s *scanner) hasNumber() bool {
	s.skipSep()
	return s.pos < len(s.b) && isNumberStart(s.b[s.pos])
}

func (s *scanner) number() (float64, bool) {
	s.skipSep()
	f, n := strconv.ParseFloat(s.b[s.pos:])
	if n == 0 {
		return 0, false
	}
	s.pos += n
	return f, true
}

// flag reads an arc flag, which may be packed against the next token.
func (s *scanner) flag() (bool, bool) {
	s.skipSep()
	switch s.peek() {
	case '0':
		s.pos++
		return false, true
	case '1':
		s.pos++
		return true, true
	}
	return false, false
}

// numbers reads up to max numbers, stopping at the first non-number.
func (s *scanner) numbers(max int) []float64 {
	var out []float64
	for len(out) < max && s.hasNumber() {
		f, ok := s.number()
		if !ok {
			break
		}
		out = append(out, f)
	}
	return out
}

// ParseNumber reads the leading number of an attribute value, ignoring any
// unit suffix such as "px" or "%".
func ParseNumber(s string) (float64, bool) {
	return newScanner(s).number()
}

// ParsePoints parses a points attribute ("x1,y1 x2,y2 ...").
func ParsePoints(s string) ([]Point, error) {
	sc := newScanner(s)
	var pts []Point
	for !sc.done() {
		v := sc.numbers(2)
		if len(v) != 2 {
			return nil, fmt.Errorf("parse points %q: %w", s, ErrBadPath)
		}
		pts = append(pts, Point{v[0], v[1]})
	}
	return pts, nil
}

// FormatPoints renders points in the points attribute syntax.
func FormatPoints(pts []Point) string {
	parts := make([]string, len(pts))
	for i, p := range pts {
		parts[i] = p.String()
	}
	return strings.Join(parts, " ")
}
