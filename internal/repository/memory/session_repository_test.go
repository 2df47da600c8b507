package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bagassaputradewa/Telegram-Bot/pkg/store"
)

func TestSessionRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewSessionRepository()

	_, found, err := repo.Get(ctx, 42)
	require.NoError(t, err)
	assert.False(t, found)

	session := store.NewSession(42, 100)
	require.NoError(t, repo.Save(ctx, session))

	got, found, err := repo.Get(ctx, 42)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, store.StepAwaitingType, got.Step)
	assert.Equal(t, int64(100), got.ChatID)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	require.NoError(t, repo.Delete(ctx, 42))
	_, found, err = repo.Get(ctx, 42)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestSessionRepositoryHandsOutCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewSessionRepository()

	session := store.NewSession(42, 100)
	require.NoError(t, repo.Save(ctx, session))

	// Mutating the saved struct must not reach the stored state.
	session.Step = store.StepSearching
	got, found, err := repo.Get(ctx, 42)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, store.StepAwaitingType, got.Step)

	// Nor must mutating a fetched struct.
	got.SearchType = "gettrends"
	again, found, err := repo.Get(ctx, 42)
	require.NoError(t, err)
	require.True(t, found)
	assert.Empty(t, again.SearchType)
}

func TestSessionRepositorySaveOverwrites(t *testing.T) {
	ctx := context.Background()
	repo := NewSessionRepository()

	first := store.NewSession(7, 100)
	require.NoError(t, repo.Save(ctx, first))

	second := store.NewSession(7, 100)
	second.Step = store.StepAwaitingQuery
	second.SearchType = "getprofile"
	require.NoError(t, repo.Save(ctx, second))

	got, found, err := repo.Get(ctx, 7)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, store.StepAwaitingQuery, got.Step)
	assert.Equal(t, "getprofile", got.SearchType)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
