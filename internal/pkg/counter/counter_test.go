package counter

import (
	"Feedcore/internal/pkg/testutil"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKey(t *testing.T) {
	assert.Equal(t, "posts.likes_count:12", Key("posts", "likes_count", 12))
}

func TestCounterCache(t *testing.T) {
	ctx := context.Background()
	client, mr := testutil.NewRedis(t)
	cache := New(client, time.Hour)

	stored := int64(3)
	calls := 0
	source := func(context.Context) (int64, error) {
		calls++
		return stored, nil
	}

	t.Run("miss backfills", func(t *testing.T) {
		n, err := cache.GetCount(ctx, "posts", "likes_count", 1, source)
		require.NoError(t, err)
		assert.Equal(t, int64(3), n)
		assert.Equal(t, 1, calls)
		assert.Equal(t, time.Hour, mr.TTL("posts.likes_count:1"))
	})

	t.Run("incr on hit", func(t *testing.T) {
		stored = 4
		n, err := cache.IncrCount(ctx, "posts", "likes_count", 1, source)
		require.NoError(t, err)
		assert.Equal(t, int64(4), n)
		assert.Equal(t, 1, calls)
	})

	t.Run("decr on hit", func(t *testing.T) {
		stored = 3
		n, err := cache.DecrCount(ctx, "posts", "likes_count", 1, source)
		require.NoError(t, err)
		assert.Equal(t, int64(3), n)
	})

	t.Run("incr on miss backfills without double counting", func(t *testing.T) {
		mr.Del("posts.likes_count:1")
		stored = 5
		n, err := cache.IncrCount(ctx, "posts", "likes_count", 1, source)
		require.NoError(t, err)
		assert.Equal(t, int64(5), n)
		assert.Equal(t, 2, calls)

		n, err = cache.GetCount(ctx, "posts", "likes_count", 1, source)
		require.NoError(t, err)
		assert.Equal(t, int64(5), n)
	})
}
