// Package engine runs drawing scripts against a fresh scene session and
// renders the result.
package engine

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/inamate/svgscript/internal/document"
	"github.com/inamate/svgscript/internal/scene"
)

var (
	ErrUnknownOp    = errors.New("unknown operation")
	ErrUnknownName  = errors.New("unknown name")
	ErrWrongKind    = errors.New("name refers to the wrong kind of value")
	ErrMissingField = errors.New("missing required field")
	ErrNameTaken    = errors.New("name already bound")
	ErrAborted      = errors.New("render aborted")
)

// Page is the default page used when a script does not set its own.
type Page struct {
	Width  float64
	Height float64
	Unit   string
}

// Engine renders scripts. It holds no per-run state and is safe for
// concurrent use.
type Engine struct {
	page   Page
	images scene.ImageLoader
	logger *slog.Logger
	prefix string
}

type Option func(*Engine)

func WithImages(l scene.ImageLoader) Option {
	return func(e *Engine) { e.images = l }
}

func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithRunPrefix pins object ids to a fixed prefix. Only useful in tests;
// drawings merged into one document need distinct prefixes.
func WithRunPrefix(prefix string) Option {
	return func(e *Engine) { e.prefix = prefix }
}

// New creates an engine with the given default page.
func New(page Page, opts ...Option) *Engine {
	e := &Engine{page: page, logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Problem is a call that could not be carried out. Rendering continues past
// problems.
type Problem struct {
	Call    int    `json:"call"`
	Op      string `json:"op"`
	Name    string `json:"name,omitempty"`
	Message string `json:"message"`

	err error
}

func (p Problem) Error() string { return fmt.Sprintf("call %d (%s): %s", p.Call, p.Op, p.Message) }
func (p Problem) Unwrap() error { return p.err }

// Result is a finished drawing.
type Result struct {
	SVG      []byte    `json:"svg"`
	Problems []Problem `json:"problems"`
	Objects  int       `json:"objects"`
}

// Render runs every call of s in order and writes the drawing. Only a
// failure to produce the document is returned as an error; bad calls are
// listed in Result.Problems. A panic inside the run, such as an id
// collision, ends that run with ErrAborted.
func (e *Engine) Render(ctx context.Context, s *document.Script) (res *Result, err error) {
	defer func() {
		if p := recover(); p != nil {
			e.logger.Error("render panicked", "panic", p, "stack", string(debug.Stack()))
			res, err = nil, fmt.Errorf("%w: %v", ErrAborted, p)
		}
	}()

	r := e.newRun(ctx, s)
	for i, c := range s.Calls {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := r.exec(c); err != nil {
			r.problem(i, c, err)
		}
	}

	var buf bytes.Buffer
	if err := r.session.Write(&buf); err != nil {
		return nil, err
	}
	e.logger.Debug("drawing rendered", "calls", len(s.Calls), "objects", len(r.session.Objects()), "problems", len(r.problems))
	return &Result{SVG: buf.Bytes(), Problems: r.problems, Objects: len(r.session.Objects())}, nil
}

func (e *Engine) newRun(ctx context.Context, s *document.Script) *run {
	page := e.page
	if s.Width > 0 && s.Height > 0 {
		page.Width, page.Height = s.Width, s.Height
	}
	if s.Unit != "" {
		page.Unit = s.Unit
	}
	opts := []scene.SessionOption{
		scene.WithContext(ctx),
		scene.WithLogger(e.logger),
		scene.WithUnit(page.Unit),
		scene.WithTitle(s.Title),
	}
	if e.prefix != "" {
		opts = append(opts, scene.WithRunPrefix(e.prefix))
	}
	if e.images != nil {
		opts = append(opts, scene.WithImageLoader(e.images))
	}
	return &run{
		session: scene.NewSession(page.Width, page.Height, opts...),
		names:   map[string]any{},
		logger:  e.logger,
	}
}

type run struct {
	session  *scene.Session
	names    map[string]any
	problems []Problem
	logger   *slog.Logger
}

func (r *run) problem(i int, c document.Call, err error) {
	p := Problem{Call: i, Op: string(c.Op), Name: c.Name, Message: err.Error(), err: err}
	// Scene input errors are already logged by the session.
	if !errors.Is(err, scene.ErrUserInput) {
		r.logger.Warn("script call failed", "call", i, "op", c.Op, "error", err)
	}
	r.problems = append(r.problems, p)
}

func (r *run) bind(name string, v any) {
	if name != "" {
		r.names[name] = v
	}
}
