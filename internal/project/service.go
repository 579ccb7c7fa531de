package project

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/inamate/svgscript/internal/document"
	"github.com/inamate/svgscript/internal/engine"
	"github.com/inamate/svgscript/internal/typeid"
)

var (
	ErrNotFound  = errors.New("drawing not found")
	ErrForbidden = errors.New("forbidden")
	ErrInvalid   = errors.New("invalid script")
)

// Service stores drawings and keeps each one's render in step with its
// script.
type Service struct {
	store    Store
	engine   *engine.Engine
	maxBytes int64
	logger   *slog.Logger
}

func NewService(store Store, eng *engine.Engine, maxScriptBytes int64, logger *slog.Logger) *Service {
	return &Service{store: store, engine: eng, maxBytes: maxScriptBytes, logger: logger}
}

// Render decodes and renders a script without saving it.
func (s *Service) Render(ctx context.Context, format document.Format, script []byte) (*engine.Result, error) {
	if int64(len(script)) > s.maxBytes {
		return nil, fmt.Errorf("%w: larger than %d bytes", ErrInvalid, s.maxBytes)
	}
	doc, err := document.Decode(script, format)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	res, err := s.engine.Render(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	if res.Problems == nil {
		res.Problems = []engine.Problem{}
	}
	return res, nil
}

func (s *Service) Create(ctx context.Context, ownerID, name string, format document.Format, script []byte) (*Drawing, error) {
	res, err := s.Render(ctx, format, script)
	if err != nil {
		return nil, err
	}
	d := &Drawing{
		ID:       typeid.NewDrawingID(),
		Name:     name,
		OwnerID:  ownerID,
		Format:   format,
		Script:   string(script),
		SVG:      string(res.SVG),
		Problems: res.Problems,
	}
	if err := s.store.Create(ctx, d); err != nil {
		return nil, err
	}
	s.logger.Info("drawing created", "id", d.ID, "owner", ownerID, "problems", len(d.Problems))
	return d, nil
}

func (s *Service) Get(ctx context.Context, id, ownerID string) (*Drawing, error) {
	d, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if d.OwnerID != ownerID {
		return nil, ErrForbidden
	}
	return d, nil
}

func (s *Service) List(ctx context.Context, ownerID string) ([]Drawing, error) {
	return s.store.List(ctx, ownerID)
}

// Update replaces a drawing's script and re-renders it. An empty name keeps
// the current one.
func (s *Service) Update(ctx context.Context, id, ownerID, name string, format document.Format, script []byte) (*Drawing, error) {
	d, err := s.Get(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	res, err := s.Render(ctx, format, script)
	if err != nil {
		return nil, err
	}
	if name != "" {
		d.Name = name
	}
	d.Format = format
	d.Script = string(script)
	d.SVG = string(res.SVG)
	d.Problems = res.Problems
	if err := s.store.Update(ctx, d); err != nil {
		return nil, err
	}
	s.logger.Info("drawing updated", "id", d.ID, "version", d.Version, "problems", len(d.Problems))
	return d, nil
}

func (s *Service) Delete(ctx context.Context, id, ownerID string) error {
	if _, err := s.Get(ctx, id, ownerID); err != nil {
		return err
	}
	return s.store.Delete(ctx, id)
}

// Rerender renders the stored script again, for example after the assets
// it embeds have changed.
func (s *Service) Rerender(ctx context.Context, id, ownerID string) (*Drawing, error) {
	d, err := s.Get(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	return s.Update(ctx, id, ownerID, "", d.Format, []byte(d.Script))
}
