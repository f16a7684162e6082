package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meetsync-labs/meetsync-core/internal/core/domain"
)

func newTestState(state string, ttl time.Duration) *domain.OAuthState {
	now := time.Now().UTC()
	return &domain.OAuthState{
		State:     state,
		UserID:    "user-1",
		Provider:  domain.ProviderGoogle,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

func TestOAuthStateStore_SaveAndConsume(t *testing.T) {
	store := NewOAuthStateStore()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, newTestState("state-abc", 5*time.Minute)))

	entry, err := store.GetAndDelete(ctx, "state-abc")
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, "user-1", entry.UserID)
	assert.Equal(t, domain.ProviderGoogle, entry.Provider)

	// Single-use: a second consume finds nothing.
	entry, err = store.GetAndDelete(ctx, "state-abc")
	require.NoError(t, err)
	assert.Nil(t, entry)
}

func TestOAuthStateStore_UnknownState(t *testing.T) {
	store := NewOAuthStateStore()

	entry, err := store.GetAndDelete(context.Background(), "never-issued")
	require.NoError(t, err)
	assert.Nil(t, entry)
}

func TestOAuthStateStore_ExpiredEntryIsReturnedOnce(t *testing.T) {
	store := NewOAuthStateStore()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, newTestState("stale", -time.Minute)))

	entry, err := store.GetAndDelete(ctx, "stale")
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.True(t, entry.IsExpired())

	entry, err = store.GetAndDelete(ctx, "stale")
	require.NoError(t, err)
	assert.Nil(t, entry)
}

func TestOAuthStateStore_Cleanup(t *testing.T) {
	store := NewOAuthStateStore()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, newTestState("fresh", 5*time.Minute)))
	require.NoError(t, store.Save(ctx, newTestState("stale", -time.Minute)))

	require.NoError(t, store.Cleanup(ctx))

	entry, err := store.GetAndDelete(ctx, "stale")
	require.NoError(t, err)
	assert.Nil(t, entry)

	entry, err = store.GetAndDelete(ctx, "fresh")
	require.NoError(t, err)
	assert.NotNil(t, entry)
}

func TestOAuthStateStore_ConcurrentConsume(t *testing.T) {
	store := NewOAuthStateStore()
	ctx := context.Background()

	const workers = 16
	require.NoError(t, store.Save(ctx, newTestState("contested", 5*time.Minute)))

	var wg sync.WaitGroup
	results := make(chan *domain.OAuthState, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			entry, err := store.GetAndDelete(ctx, "contested")
			require.NoError(t, err)
			results <- entry
		}()
	}
	wg.Wait()
	close(results)

	won := 0
	for entry := range results {
		if entry != nil {
			won++
		}
	}
	assert.Equal(t, 1, won, "exactly one consumer must win the state")
}
