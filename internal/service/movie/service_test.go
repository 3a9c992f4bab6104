package movie_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhouzirui/z-movies/backend/internal/model/movie"
	"github.com/zhouzirui/z-movies/backend/internal/service/events"
	movieservice "github.com/zhouzirui/z-movies/backend/internal/service/movie"
)

func newSeededService(t *testing.T) (*movieservice.Service, *events.Hub) {
	t.Helper()
	hub := events.NewHub(nil)
	svc := movieservice.NewService(movie.NewMemoryStore(), hub, nil)
	svc.Reset(context.Background())
	require.Equal(t, 9, svc.SeedIfEmpty(context.Background()))
	return svc, hub
}

func TestSeedScenario(t *testing.T) {
	svc, _ := newSeededService(t)
	ctx := context.Background()

	all := svc.List(ctx)
	require.Len(t, all, 9)
	want := []struct {
		title   string
		genre   string
		watched bool
	}{
		{"Batman", "Action", true},
		{"Truman Show", "Drama", true},
		{"Star Wars", "Sci-Fi", true},
		{"John Wick", "Action", false},
		{"Pulp Fiction", "Drama", true},
		{"The Exorcist", "Horror", true},
		{"Footloose", "Musical", false},
		{"Gone Girl", "Thriller", true},
		{"Evil Dead", "Horror", true},
	}
	for i, w := range want {
		assert.Equal(t, w.title, all[i].Title)
		assert.Equal(t, w.genre, all[i].Genre)
		assert.Equal(t, w.watched, all[i].Watched)
	}

	watched := svc.ListWatched(ctx)
	require.Len(t, watched, 7)
	for _, m := range watched {
		assert.NotEqual(t, "John Wick", m.Title)
		assert.NotEqual(t, "Footloose", m.Title)
	}
}

func TestSeedIfEmptySkipsPopulatedStore(t *testing.T) {
	svc, _ := newSeededService(t)
	assert.Equal(t, 0, svc.SeedIfEmpty(context.Background()))
	assert.Equal(t, 9, svc.Count(context.Background()))
}

func TestFindTitle(t *testing.T) {
	svc, _ := newSeededService(t)
	ctx := context.Background()

	title, err := svc.FindTitle(ctx, "Batman")
	require.NoError(t, err)
	assert.Equal(t, "Batman", title)

	_, err = svc.FindTitle(ctx, "batman")
	assert.ErrorIs(t, err, movieservice.ErrNotFound)
}

func TestCreateGetUpdateDelete(t *testing.T) {
	svc, hub := newSeededService(t)
	ctx := context.Background()
	sub := hub.Subscribe(8)
	defer sub.Close()

	created := svc.Create(ctx, movie.Movie{ID: 1, Title: "Heat", Genre: "Crime"})
	assert.Equal(t, 10, created.ID)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)

	_, err = svc.Update(ctx, created.ID, movie.Movie{Title: "Heat (1995)", Watched: true, Genre: "Drama"})
	require.NoError(t, err)
	got, err = svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Heat (1995)", got.Title)
	assert.True(t, got.Watched)
	assert.Equal(t, "Crime", got.Genre)

	deleted, err := svc.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, got, deleted)

	_, err = svc.Delete(ctx, created.ID)
	assert.ErrorIs(t, err, movieservice.ErrNotFound)
	_, err = svc.Get(ctx, created.ID)
	assert.ErrorIs(t, err, movieservice.ErrNotFound)

	var types []string
	for i := 0; i < 3; i++ {
		types = append(types, (<-sub.Events()).Type)
	}
	assert.Equal(t, []string{events.TypeCreated, events.TypeUpdated, events.TypeDeleted}, types)
	assert.Empty(t, sub.Events())
}

func TestUpdateMissingPublishesNothing(t *testing.T) {
	svc, hub := newSeededService(t)
	sub := hub.Subscribe(1)
	defer sub.Close()

	_, err := svc.Update(context.Background(), 404, movie.Movie{Title: "nope"})
	assert.ErrorIs(t, err, movieservice.ErrNotFound)
	assert.Empty(t, sub.Events())
}

func TestNilPublisher(t *testing.T) {
	svc := movieservice.NewService(movie.NewMemoryStore(), nil, nil)
	created := svc.Create(context.Background(), movie.Movie{Title: ""})
	assert.Equal(t, 1, created.ID)
}
