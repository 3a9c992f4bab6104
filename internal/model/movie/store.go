package movie

import (
	"context"
	"errors"
	"sync"
)

// ErrNotFound is returned when no movie matches the requested id or predicate.
var ErrNotFound = errors.New("movie not found")

// Store exposes movie persistence for services and handlers.
type Store interface {
	List(ctx context.Context) []Movie
	Filter(ctx context.Context, pred func(Movie) bool) []Movie
	Get(ctx context.Context, id int) (Movie, error)
	FindFirst(ctx context.Context, pred func(Movie) bool) (Movie, error)
	Insert(ctx context.Context, m Movie) Movie
	BulkInsert(ctx context.Context, items []Movie) []Movie
	Update(ctx context.Context, id int, m Movie) (Movie, error)
	Delete(ctx context.Context, id int) (Movie, error)
	Reset(ctx context.Context)
	Len(ctx context.Context) int
}

// MemoryStore implements Store with a map keyed by id plus an insertion-order
// index. All state lives in process memory.
type MemoryStore struct {
	mu     sync.RWMutex
	items  map[int]Movie
	order  []int
	nextID int
}

// NewMemoryStore returns an empty MemoryStore whose first assigned id is 1.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		items:  make(map[int]Movie),
		nextID: 1,
	}
}

// List returns every movie in insertion order.
func (s *MemoryStore) List(ctx context.Context) []Movie {
	return s.Filter(ctx, nil)
}

// Filter returns the movies matching pred in insertion order. A nil pred
// matches everything.
func (s *MemoryStore) Filter(_ context.Context, pred func(Movie) bool) []Movie {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]Movie, 0, len(s.order))
	for _, id := range s.order {
		m := s.items[id]
		if pred == nil || pred(m) {
			result = append(result, m)
		}
	}
	return result
}

// Get looks up a movie by identifier.
func (s *MemoryStore) Get(_ context.Context, id int) (Movie, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.items[id]
	if !ok {
		return Movie{}, ErrNotFound
	}
	return m, nil
}

// FindFirst returns the earliest inserted movie matching pred. A nil pred
// matches everything.
func (s *MemoryStore) FindFirst(_ context.Context, pred func(Movie) bool) (Movie, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, id := range s.order {
		if m := s.items[id]; pred == nil || pred(m) {
			return m, nil
		}
	}
	return Movie{}, ErrNotFound
}

// Insert stores m under a freshly assigned id. Any id already set on m is
// ignored.
func (s *MemoryStore) Insert(_ context.Context, m Movie) Movie {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insertLocked(m)
}

// BulkInsert stores all items under one lock so their ids are contiguous.
func (s *MemoryStore) BulkInsert(_ context.Context, items []Movie) []Movie {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := make([]Movie, 0, len(items))
	for _, m := range items {
		stored = append(stored, s.insertLocked(m))
	}
	return stored
}

func (s *MemoryStore) insertLocked(m Movie) Movie {
	m.ID = s.nextID
	s.nextID++
	s.items[m.ID] = m
	s.order = append(s.order, m.ID)
	return m
}

// Update copies the mutable fields (title, watched) of m onto the stored
// movie. Genre and id are left untouched.
func (s *MemoryStore) Update(_ context.Context, id int, m Movie) (Movie, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.items[id]
	if !ok {
		return Movie{}, ErrNotFound
	}
	existing.Title = m.Title
	existing.Watched = m.Watched
	s.items[id] = existing
	return existing, nil
}

// Delete removes the movie and returns what was stored.
func (s *MemoryStore) Delete(_ context.Context, id int) (Movie, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.items[id]
	if !ok {
		return Movie{}, ErrNotFound
	}
	delete(s.items, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return m, nil
}

// Reset drops every movie and restarts id assignment.
func (s *MemoryStore) Reset(_ context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = make(map[int]Movie)
	s.order = nil
	s.nextID = 1
}

// Len reports how many movies are stored.
func (s *MemoryStore) Len(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}
