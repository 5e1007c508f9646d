package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fezeaixcommission/internal/domain/repository"
)

func viewedStateRepositories(t *testing.T) map[string]repository.ViewedStateRepository {
	s := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: s.Addr()})
	t.Cleanup(func() { client.Close() })

	return map[string]repository.ViewedStateRepository{
		"memory": NewMemoryViewedStateRepository(),
		"redis":  NewRedisViewedStateRepository(client),
	}
}

func TestViewedStateEmptyDevice(t *testing.T) {
	for name, repo := range viewedStateRepositories(t) {
		t.Run(name, func(t *testing.T) {
			state, err := repo.Get(context.Background(), "device-1")
			require.NoError(t, err)
			assert.Equal(t, "device-1", state.DeviceID)
			assert.Empty(t, state.ViewedRequestIDs)
			assert.Empty(t, state.LastViewedMessageTimestamp)
		})
	}
}

func TestViewedStateAddIsUnion(t *testing.T) {
	for name, repo := range viewedStateRepositories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, repo.AddViewedRequests(ctx, "d", []string{"a", "b"}))
			require.NoError(t, repo.AddViewedRequests(ctx, "d", []string{"b", "c"}))
			require.NoError(t, repo.AddViewedRequests(ctx, "d", nil))

			state, err := repo.Get(ctx, "d")
			require.NoError(t, err)
			assert.Len(t, state.ViewedRequestIDs, 3)
			assert.True(t, state.IsRequestViewed("a"))
			assert.True(t, state.IsRequestViewed("c"))
		})
	}
}

func TestViewedStateCheckpointsNeverMoveBackwards(t *testing.T) {
	for name, repo := range viewedStateRepositories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			later := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
			earlier := later.Add(-time.Hour)

			require.NoError(t, repo.MergeThreadCheckpoints(ctx, "d", map[string]time.Time{"r1": later}))
			require.NoError(t, repo.MergeThreadCheckpoints(ctx, "d", map[string]time.Time{"r1": earlier, "r2": earlier}))

			state, err := repo.Get(ctx, "d")
			require.NoError(t, err)
			assert.True(t, state.ThreadCheckpoint("r1").Equal(later))
			assert.True(t, state.ThreadCheckpoint("r2").Equal(earlier))
		})
	}
}

func TestViewedStateCheckpointsKeepNanoseconds(t *testing.T) {
	for name, repo := range viewedStateRepositories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			base := time.Date(2024, 5, 1, 12, 0, 0, 123456789, time.UTC)

			require.NoError(t, repo.MergeThreadCheckpoints(ctx, "d", map[string]time.Time{"r1": base}))
			// Same millisecond, one nanosecond later.
			require.NoError(t, repo.MergeThreadCheckpoints(ctx, "d", map[string]time.Time{"r1": base.Add(time.Nanosecond)}))
			require.NoError(t, repo.MergeThreadCheckpoints(ctx, "d", map[string]time.Time{"r1": base}))

			state, err := repo.Get(ctx, "d")
			require.NoError(t, err)
			assert.True(t, state.ThreadCheckpoint("r1").Equal(base.Add(time.Nanosecond)), state.ThreadCheckpoint("r1"))
		})
	}
}

func TestViewedStateReplace(t *testing.T) {
	for name, repo := range viewedStateRepositories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, repo.AddViewedRequests(ctx, "d", []string{"old"}))
			require.NoError(t, repo.ReplaceViewedRequests(ctx, "d", []string{"new"}))

			state, err := repo.Get(ctx, "d")
			require.NoError(t, err)
			assert.False(t, state.IsRequestViewed("old"))
			assert.True(t, state.IsRequestViewed("new"))

			require.NoError(t, repo.ReplaceViewedRequests(ctx, "d", nil))
			state, err = repo.Get(ctx, "d")
			require.NoError(t, err)
			assert.Empty(t, state.ViewedRequestIDs)
		})
	}
}

func TestViewedStateIsolatedPerDevice(t *testing.T) {
	for name, repo := range viewedStateRepositories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, repo.AddViewedRequests(ctx, "phone", []string{"r1"}))

			state, err := repo.Get(ctx, "laptop")
			require.NoError(t, err)
			assert.False(t, state.IsRequestViewed("r1"))
		})
	}
}
