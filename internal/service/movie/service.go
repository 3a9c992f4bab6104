package movie

import (
	"context"

	"go.uber.org/zap"

	"github.com/zhouzirui/z-movies/backend/internal/model/movie"
	"github.com/zhouzirui/z-movies/backend/internal/service/events"
)

// ErrNotFound is the only domain error surfaced to callers.
var ErrNotFound = movie.ErrNotFound

// Publisher receives change notifications after successful mutations.
type Publisher interface {
	Publish(eventType string, m movie.Movie) events.Event
}

// Service implements the catalogue operations on top of a movie.Store.
type Service struct {
	store     movie.Store
	publisher Publisher
	logger    *zap.Logger
}

// NewService wires a store and an optional publisher. A nil logger falls back
// to a no-op logger.
func NewService(store movie.Store, publisher Publisher, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, publisher: publisher, logger: logger}
}

// Reset clears the underlying store.
func (s *Service) Reset(ctx context.Context) {
	s.store.Reset(ctx)
}

// SeedIfEmpty loads the sample catalogue into an empty store and reports how
// many movies were inserted.
func (s *Service) SeedIfEmpty(ctx context.Context) int {
	if s.store.Len(ctx) > 0 {
		return 0
	}
	stored := s.store.BulkInsert(ctx, movie.Seed())
	s.logger.Info("seeded movie store", zap.Int("count", len(stored)))
	return len(stored)
}

// Count reports how many movies are stored.
func (s *Service) Count(ctx context.Context) int {
	return s.store.Len(ctx)
}

// List returns every movie.
func (s *Service) List(ctx context.Context) []movie.Movie {
	return s.store.List(ctx)
}

// ListWatched returns the movies flagged as watched.
func (s *Service) ListWatched(ctx context.Context) []movie.Movie {
	return s.store.Filter(ctx, movie.IsWatched)
}

// Get retrieves a movie by identifier.
func (s *Service) Get(ctx context.Context, id int) (movie.Movie, error) {
	return s.store.Get(ctx, id)
}

// FindTitle returns the title of the first movie whose title equals the
// argument exactly.
func (s *Service) FindTitle(ctx context.Context, title string) (string, error) {
	m, err := s.store.FindFirst(ctx, movie.TitleEquals(title))
	if err != nil {
		return "", err
	}
	return m.Title, nil
}

// Create stores a new movie under a fresh id.
func (s *Service) Create(ctx context.Context, m movie.Movie) movie.Movie {
	created := s.store.Insert(ctx, m)
	s.publish(events.TypeCreated, created)
	return created
}

// Update overwrites title and watched on the movie with the given id.
func (s *Service) Update(ctx context.Context, id int, m movie.Movie) (movie.Movie, error) {
	updated, err := s.store.Update(ctx, id, m)
	if err != nil {
		return movie.Movie{}, err
	}
	s.publish(events.TypeUpdated, updated)
	return updated, nil
}

// Delete removes the movie and returns it.
func (s *Service) Delete(ctx context.Context, id int) (movie.Movie, error) {
	deleted, err := s.store.Delete(ctx, id)
	if err != nil {
		return movie.Movie{}, err
	}
	s.publish(events.TypeDeleted, deleted)
	return deleted, nil
}

func (s *Service) publish(eventType string, m movie.Movie) {
	if s.publisher == nil {
		return
	}
	evt := s.publisher.Publish(eventType, m)
	s.logger.Debug("movie event published",
		zap.String("event_id", evt.ID),
		zap.String("type", eventType),
		zap.Int("movie_id", m.ID))
}
