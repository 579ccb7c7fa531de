package svgdom

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestElementAttributeOrder(t *testing.T) {
	e := New("circle", "cx", "1", "cy", "2")
	e.Set("r", "3")
	e.Set("cx", "10")
	assert.Equal(t, []Attr{{"cx", "10"}, {"cy", "2"}, {"r", "3"}}, e.Attrs())

	assert.True(t, e.Unset("cy"))
	assert.False(t, e.Unset("cy"))
	_, ok := e.Lookup("cy")
	assert.False(t, ok)
	assert.Equal(t, "", e.Get("missing"))
}

func TestElementMarkup(t *testing.T) {
	text := New("text", "xml:space", "preserve")
	text.Text = "a < b"
	span := New("tspan", "style", "fill:red")
	span.Text = " & more"
	text.Append(span)

	got, err := text.Markup()
	require.NoError(t, err)
	assert.Equal(t, `<text xml:space="preserve">a &lt; b<tspan style="fill:red"> &amp; more</tspan></text>`, got)
}

func TestAppendMovesChild(t *testing.T) {
	a, b := New("g"), New("g")
	c := New("rect", "id", "r1")
	a.Append(c)
	b.Append(c)
	assert.Empty(t, a.Children)
	assert.Equal(t, []*Element{c}, b.Children)
	assert.Same(t, b, c.Parent())
	assert.Same(t, c, b.Find("r1"))
	assert.Nil(t, a.Find("r1"))
}

func TestWriteDocument(t *testing.T) {
	var buf bytes.Buffer
	defs := []*Element{New("filter", "id", "f1")}
	body := []*Element{New("circle", "id", "c1", "r", "5")}

	err := Write(&buf, Page{Width: 210, Height: 297, Unit: "mm", Title: "demo"}, defs, body)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, `width="210.000mm" height="297.000mm"`)
	assert.Contains(t, out, `viewBox="0 0 210 297"`)
	assert.Contains(t, out, nsInkscape)
	assert.Contains(t, out, nsSodipodi)
	assert.Contains(t, out, "<title>demo</title>")

	defsAt := strings.Index(out, "<defs>")
	filterAt := strings.Index(out, `<filter id="f1"></filter>`)
	defsEnd := strings.Index(out, "</defs>")
	circleAt := strings.Index(out, `<circle id="c1" r="5"></circle>`)
	require.True(t, defsAt >= 0 && filterAt > defsAt && defsEnd > filterAt && circleAt > defsEnd, out)
	assert.True(t, strings.HasSuffix(out, "</svg>\n"))
}

func TestWriteDocumentNestsChildren(t *testing.T) {
	g := New("g", "id", "g1")
	g.Append(New("circle", "id", "c1", "r", "5"))
	text := New("text", "id", "x1")
	text.Text = "hi"
	span := New("tspan")
	span.Text = "there"
	text.Append(span)
	g.Append(text)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, Page{Width: 10, Height: 10}, nil, []*Element{g}))
	assert.Contains(t, buf.String(),
		`<g id="g1"><circle id="c1" r="5"></circle><text id="x1">hi<tspan>there</tspan></text></g>`)
}

type failWriter struct{}

func (failWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestWriteDocumentReportsWriteError(t *testing.T) {
	err := Write(failWriter{}, Page{Width: 1, Height: 1}, nil, nil)
	assert.EqualError(t, err, "disk full")
}
