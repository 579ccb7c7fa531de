package scene

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"cogentcore.org/core/base/ordmap"

	"github.com/inamate/svgscript/internal/svgdom"
	"github.com/inamate/svgscript/internal/typeid"
)

// Session is one generation run. It owns the id counter, the session-wide
// default style and transform, the top-level registry and the shared defs
// container. A Session is not safe for concurrent use.
type Session struct {
	ids    *Allocator
	width  float64
	height float64
	unit   string
	title  string

	defaultStyle     *ordmap.Map[string, *string]
	defaultTransform string

	registry *ordmap.Map[string, Handle]
	defs     *svgdom.Element
	images   ImageLoader
	ctx      context.Context

	logger   *slog.Logger
	problems []error
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithLogger sets the logger that receives reported input errors.
func WithLogger(l *slog.Logger) SessionOption {
	return func(s *Session) { s.logger = l }
}

// WithRunPrefix fixes the id prefix instead of drawing a random one.
func WithRunPrefix(prefix string) SessionOption {
	return func(s *Session) { s.ids = NewAllocator(prefix) }
}

// WithDefs supplies the host's shared definitions container.
func WithDefs(defs *svgdom.Element) SessionOption {
	return func(s *Session) { s.defs = defs }
}

// WithImageLoader enables embedded images.
func WithImageLoader(l ImageLoader) SessionOption {
	return func(s *Session) { s.images = l }
}

// WithUnit sets the page unit written on the outer svg element.
func WithUnit(unit string) SessionOption {
	return func(s *Session) { s.unit = unit }
}

// WithTitle sets the document title.
func WithTitle(title string) SessionOption {
	return func(s *Session) { s.title = title }
}

// WithContext sets the context passed to the image loader.
func WithContext(ctx context.Context) SessionOption {
	return func(s *Session) { s.ctx = ctx }
}

// NewSession starts a generation run on a page of the given size.
func NewSession(width, height float64, opts ...SessionOption) *Session {
	s := &Session{
		width:        width,
		height:       height,
		defaultStyle: ordmap.New[string, *string](),
		registry:     ordmap.New[string, Handle](),
		ctx:          context.Background(),
		logger:       slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.ids == nil {
		s.ids = NewAllocator(typeid.NewRunPrefix())
	}
	if s.defs == nil {
		s.defs = svgdom.New("defs")
	}
	return s
}

// Width and Height are the page size in Unit.
func (s *Session) Width() float64  { return s.width }
func (s *Session) Height() float64 { return s.height }

// Unit is the page unit, such as "mm".
func (s *Session) Unit() string { return s.unit }

// Defs returns the shared definitions container.
func (s *Session) Defs() *svgdom.Element { return s.defs }

// SetDefaultStyle updates the session-wide default style. Keys keep their
// first position; Unset entries remove a shape-type default from later objects.
func (s *Session) SetDefaultStyle(props ...Prop) {
	for _, p := range props {
		s.defaultStyle.Add(normalizeKey(p.Key), p.Value)
	}
}

// DefaultStyle returns the session-wide default layer.
func (s *Session) DefaultStyle() Props {
	out := make(Props, 0, s.defaultStyle.Len())
	for _, kv := range s.defaultStyle.Order {
		out = append(out, Prop{Key: kv.Key, Value: kv.Value})
	}
	return out
}

// SetDefaultTransform sets the transform appended to every later object's own.
func (s *Session) SetDefaultTransform(t string) {
	s.defaultTransform = strings.TrimSpace(t)
}

// Objects returns the top-level registry in creation order.
func (s *Session) Objects() []Handle {
	return s.registry.Values()
}

// Problems returns every input error reported so far, in order.
func (s *Session) Problems() []error {
	return s.problems
}

func (s *Session) report(op string, err error) error {
	ie := &InputError{Op: op, Err: err}
	s.problems = append(s.problems, ie)
	s.logger.Warn("drawing input error", "op", op, "error", err)
	return ie
}

func (s *Session) register(h Handle) {
	id := h.ID()
	if _, dup := s.registry.ValueByKeyTry(id); dup {
		panic(fmt.Sprintf("scene: object id %q registered twice", id))
	}
	s.registry.Add(id, h)
}

// lookup finds the native element with the given id anywhere in the drawing.
func (s *Session) lookup(id string) *svgdom.Element {
	for _, h := range s.registry.Order {
		if el := h.Value.Element().Find(id); el != nil {
			return el
		}
	}
	return s.defs.Find(id)
}

// Write emits the finished document: the defs container followed by every
// top-level object.
func (s *Session) Write(w io.Writer) error {
	body := make([]*svgdom.Element, 0, s.registry.Len())
	for _, kv := range s.registry.Order {
		body = append(body, kv.Value.Element())
	}
	page := svgdom.Page{Width: s.width, Height: s.height, Unit: s.unit, Title: s.title}
	if err := svgdom.Write(w, page, s.defs.Children, body); err != nil {
		return fmt.Errorf("write drawing: %w", err)
	}
	return nil
}
