package svgdom

import (
	"encoding/xml"
	"fmt"
	"io"

	svg "github.com/ajstarks/svgo/float"
)

const (
	nsInkscape = `xmlns:inkscape="http://www.inkscape.org/namespaces/inkscape"`
	nsSodipodi = `xmlns:sodipodi="http://sodipodi.sourceforge.net/DTD/sodipodi-0.dtd"`
)

// Page describes the outer svg element.
type Page struct {
	Width  float64
	Height float64
	Unit   string // "" for user units
	Title  string
}

// errWriter remembers the first write error; svgo does not report them.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) Write(p []byte) (int, error) {
	if ew.err != nil {
		return 0, ew.err
	}
	n, err := ew.w.Write(p)
	ew.err = err
	return n, err
}

// Write emits a complete SVG document: the envelope, a defs block holding
// defs, then body in order. The viewBox matches the page size so one user
// unit equals one page unit.
func Write(w io.Writer, page Page, defs, body []*Element) error {
	ew := &errWriter{w: w}
	canvas := svg.New(ew)
	canvas.Decimals = 3

	viewBox := fmt.Sprintf(`viewBox="0 0 %g %g"`, page.Width, page.Height)
	canvas.Startunit(page.Width, page.Height, page.Unit, viewBox, nsInkscape, nsSodipodi)
	if page.Title != "" {
		canvas.Title(page.Title)
	}

	// Top-level elements go one per line. No indentation inside them, since
	// whitespace is significant in text with xml:space="preserve".
	enc := xml.NewEncoder(ew)
	encode := func(els []*Element) error {
		for _, el := range els {
			if err := enc.Encode(el); err != nil {
				return fmt.Errorf("encode %s: %w", el.Tag, err)
			}
			if err := enc.Flush(); err != nil {
				return err
			}
			if _, err := io.WriteString(ew, "\n"); err != nil {
				return err
			}
		}
		return nil
	}

	canvas.Def()
	if err := encode(defs); err != nil {
		return err
	}
	canvas.DefEnd()
	if err := encode(body); err != nil {
		return err
	}
	canvas.End()
	return ew.err
}
