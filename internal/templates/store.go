package templates

import (
	"context"
	"sync"
)

// Store defines the interface for template storage
type Store interface {
	// Insert upserts t by id and returns the stored value. A zero id is
	// replaced by the next id (current size + 1, skipping occupied ids).
	Insert(ctx context.Context, t Template) Template
	GetByID(ctx context.Context, id int) (Template, error)
	// List returns every template in insertion order.
	List(ctx context.Context) []Template
	Len(ctx context.Context) int
}

// InMemoryStore is a process-lifetime Store. Templates are held by value so
// readers never share memory with writers.
type InMemoryStore struct {
	mu        sync.RWMutex
	templates map[int]Template
	order     []int
}

// NewInMemoryStore creates a new in-memory store
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		templates: make(map[int]Template),
	}
}

// Insert stores t, replacing any template with the same id in place.
func (s *InMemoryStore) Insert(ctx context.Context, t Template) Template {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t.ID == 0 {
		t.ID = s.nextIDLocked()
	}
	if _, exists := s.templates[t.ID]; !exists {
		s.order = append(s.order, t.ID)
	}
	s.templates[t.ID] = t
	return t
}

func (s *InMemoryStore) nextIDLocked() int {
	id := len(s.templates) + 1
	for {
		if _, taken := s.templates[id]; !taken {
			return id
		}
		id++
	}
}

// GetByID retrieves a template by id
func (s *InMemoryStore) GetByID(ctx context.Context, id int) (Template, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.templates[id]
	if !ok {
		return Template{}, ErrTemplateNotFound
	}
	return t, nil
}

// List returns a snapshot of all templates in insertion order
func (s *InMemoryStore) List(ctx context.Context) []Template {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Template, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.templates[id])
	}
	return out
}

// Len returns the number of stored templates
func (s *InMemoryStore) Len(ctx context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.templates)
}

var _ Store = (*InMemoryStore)(nil)
