package movie_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhouzirui/z-movies/backend/internal/model/movie"
)

func TestInsertAssignsSequentialIDs(t *testing.T) {
	store := movie.NewMemoryStore()
	ctx := context.Background()

	first := store.Insert(ctx, movie.Movie{ID: 42, Title: "Alien", Genre: "Horror"})
	second := store.Insert(ctx, movie.Movie{Title: "Heat"})

	assert.Equal(t, 1, first.ID, "client supplied id must be ignored")
	assert.Equal(t, 2, second.ID)

	got, err := store.Get(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, first, got)
}

func TestBulkInsertPreservesOrder(t *testing.T) {
	store := movie.NewMemoryStore()
	ctx := context.Background()

	stored := store.BulkInsert(ctx, movie.Seed())
	require.Len(t, stored, 9)

	list := store.List(ctx)
	require.Len(t, list, 9)
	for i, m := range list {
		assert.Equal(t, i+1, m.ID)
		assert.Equal(t, movie.Seed()[i].Title, m.Title)
	}
}

func TestUpdateKeepsGenre(t *testing.T) {
	store := movie.NewMemoryStore()
	ctx := context.Background()
	created := store.Insert(ctx, movie.Movie{Title: "Jaws", Genre: "Thriller"})

	updated, err := store.Update(ctx, created.ID, movie.Movie{ID: 99, Title: "Jaws 2", Watched: true, Genre: "Comedy"})
	require.NoError(t, err)

	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Jaws 2", updated.Title)
	assert.True(t, updated.Watched)
	assert.Equal(t, "Thriller", updated.Genre)

	got, err := store.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, updated, got)
}

func TestUpdateMissing(t *testing.T) {
	store := movie.NewMemoryStore()
	_, err := store.Update(context.Background(), 7, movie.Movie{Title: "x"})
	assert.ErrorIs(t, err, movie.ErrNotFound)
}

func TestDeleteTwice(t *testing.T) {
	store := movie.NewMemoryStore()
	ctx := context.Background()
	created := store.Insert(ctx, movie.Movie{Title: "Up"})

	deleted, err := store.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, deleted)

	_, err = store.Delete(ctx, created.ID)
	assert.ErrorIs(t, err, movie.ErrNotFound)

	_, err = store.Get(ctx, created.ID)
	assert.ErrorIs(t, err, movie.ErrNotFound)
	assert.Empty(t, store.List(ctx))
}

func TestFindFirstIsCaseSensitive(t *testing.T) {
	store := movie.NewMemoryStore()
	ctx := context.Background()
	first := store.Insert(ctx, movie.Movie{Title: "Batman", Genre: "Action"})
	store.Insert(ctx, movie.Movie{Title: "Batman", Genre: "Animation"})

	got, err := store.FindFirst(ctx, movie.TitleEquals("Batman"))
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)

	_, err = store.FindFirst(ctx, movie.TitleEquals("batman"))
	assert.ErrorIs(t, err, movie.ErrNotFound)
}

func TestFilterWatchedMatchesSubset(t *testing.T) {
	store := movie.NewMemoryStore()
	ctx := context.Background()
	store.BulkInsert(ctx, movie.Seed())

	watched := store.Filter(ctx, movie.IsWatched)
	assert.Len(t, watched, 7)

	var expected []movie.Movie
	for _, m := range store.List(ctx) {
		if m.Watched {
			expected = append(expected, m)
		}
	}
	assert.Equal(t, expected, watched)
}

func TestResetRestartsIDs(t *testing.T) {
	store := movie.NewMemoryStore()
	ctx := context.Background()
	store.BulkInsert(ctx, movie.Seed())

	store.Reset(ctx)
	assert.Equal(t, 0, store.Len(ctx))

	m := store.Insert(ctx, movie.Movie{Title: "Fresh"})
	assert.Equal(t, 1, m.ID)
}

func TestConcurrentInsertsGetUniqueIDs(t *testing.T) {
	store := movie.NewMemoryStore()
	ctx := context.Background()

	const workers = 32
	ids := make(chan int, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ids <- store.Insert(ctx, movie.Movie{Title: "dup"}).ID
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[int]bool, workers)
	for id := range ids {
		require.False(t, seen[id], "duplicate id %d", id)
		seen[id] = true
	}
	assert.Equal(t, workers, store.Len(ctx))
}
