package memory

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupRedisLog creates a miniredis instance and returns a connected RedisLog.
func setupRedisLog(t *testing.T) (*RedisLog, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	log, err := NewRedisLog(RedisOptions{
		URL:            fmt.Sprintf("redis://%s", mr.Addr()),
		Namespace:      "test-run",
		ConnectTimeout: 5 * time.Second,
		ReadTimeout:    5 * time.Second,
		WriteTimeout:   5 * time.Second,
	})
	require.NoError(t, err)

	return log, mr
}

func TestNewRedisLog(t *testing.T) {
	t.Run("successful connection", func(t *testing.T) {
		mr := miniredis.RunT(t)
		defer mr.Close()

		log, err := NewRedisLog(RedisOptions{
			URL:       fmt.Sprintf("redis://%s", mr.Addr()),
			Namespace: "run-1",
		})
		require.NoError(t, err)
		require.NotNil(t, log)
		defer log.Close()
	})

	t.Run("missing namespace", func(t *testing.T) {
		_, err := NewRedisLog(RedisOptions{URL: "redis://localhost:6379"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "namespace")
	})

	t.Run("connection failure", func(t *testing.T) {
		_, err := NewRedisLog(RedisOptions{
			URL:            "redis://localhost:1",
			Namespace:      "run-1",
			ConnectTimeout: 100 * time.Millisecond,
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to connect to Redis")
	})
}

func TestRedisLog_RoundTrip(t *testing.T) {
	log, _ := setupRedisLog(t)
	defer log.Close()
	ctx := context.Background()

	require.NoError(t, log.Record(ctx, "(1, 1)", "Area is Open."))
	require.NoError(t, log.Record(ctx, "(1, 2)", "wall to the north"))
	require.NoError(t, log.Record(ctx, "(1, 1)", "revisited"))

	got, err := log.Get(ctx, "(1, 1)")
	require.NoError(t, err)
	assert.Equal(t, "revisited", got)

	keys, err := log.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"(1, 1)", "(1, 2)"}, keys)

	entries, err := log.Snapshot(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "revisited", entries[0].Value)
	assert.Equal(t, "wall to the north", entries[1].Value)
}

func TestRedisLog_Errors(t *testing.T) {
	log, _ := setupRedisLog(t)
	defer log.Close()
	ctx := context.Background()

	err := log.Record(ctx, "", "value")
	assert.ErrorIs(t, err, ErrInvalidKey)

	_, err = log.Get(ctx, "(9, 9)")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisLog_CloseDeletesNamespace(t *testing.T) {
	log, mr := setupRedisLog(t)
	ctx := context.Background()

	require.NoError(t, log.Record(ctx, "(1, 1)", "Area is Open."))
	require.True(t, mr.Exists("gridmind:test-run:entries"))
	require.True(t, mr.Exists("gridmind:test-run:order"))

	require.NoError(t, log.Close())
	assert.False(t, mr.Exists("gridmind:test-run:entries"))
	assert.False(t, mr.Exists("gridmind:test-run:order"))
}
