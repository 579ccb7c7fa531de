package project

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/inamate/svgscript/internal/document"
	"github.com/inamate/svgscript/internal/engine"
)

// Drawing is a saved script together with its latest render.
type Drawing struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	OwnerID   string           `json:"ownerId"`
	Format    document.Format  `json:"format"`
	Script    string           `json:"script"`
	SVG       string           `json:"-"`
	Problems  []engine.Problem `json:"problems"`
	Version   int              `json:"version"`
	CreatedAt time.Time        `json:"createdAt"`
	UpdatedAt time.Time        `json:"updatedAt"`
}

// Store persists drawings. Get, Update and Delete return ErrNotFound for
// unknown ids.
type Store interface {
	Create(ctx context.Context, d *Drawing) error
	Get(ctx context.Context, id string) (*Drawing, error)
	List(ctx context.Context, ownerID string) ([]Drawing, error)
	// Update replaces the script and render and bumps the version.
	Update(ctx context.Context, d *Drawing) error
	Delete(ctx context.Context, id string) error
}

// MemoryStore keeps drawings in process memory; used when no database is
// configured and in tests.
type MemoryStore struct {
	mu       sync.RWMutex
	drawings map[string]*Drawing
	now      func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{drawings: map[string]*Drawing{}, now: time.Now}
}

func (m *MemoryStore) Create(_ context.Context, d *Drawing) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now().UTC()
	d.Version = 1
	d.CreatedAt, d.UpdatedAt = now, now
	cp := *d
	m.drawings[d.ID] = &cp
	return nil
}

func (m *MemoryStore) Get(_ context.Context, id string) (*Drawing, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	d, ok := m.drawings[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *d
	return &cp, nil
}

func (m *MemoryStore) List(_ context.Context, ownerID string) ([]Drawing, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []Drawing{}
	for _, d := range m.drawings {
		if d.OwnerID == ownerID {
			out = append(out, *d)
		}
	}
	slices.SortFunc(out, func(a, b Drawing) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return out, nil
}

func (m *MemoryStore) Update(_ context.Context, d *Drawing) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.drawings[d.ID]
	if !ok {
		return ErrNotFound
	}
	cur.Name = d.Name
	cur.Format = d.Format
	cur.Script = d.Script
	cur.SVG = d.SVG
	cur.Problems = d.Problems
	cur.Version++
	cur.UpdatedAt = m.now().UTC()
	*d = *cur
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.drawings[id]; !ok {
		return ErrNotFound
	}
	delete(m.drawings, id)
	return nil
}
