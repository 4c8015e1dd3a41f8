package listcache

import (
	"Feedcore/internal/pkg/testutil"
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	ID        int   `json:"id"`
	CreatedAt int64 `json:"created_at"`
}

// fakeLoader 按新到旧保存全部数据
type fakeLoader struct {
	items []item
	calls int
}

func (l *fakeLoader) Load(_ context.Context, limit int) ([]item, error) {
	l.calls++
	if len(l.items) > limit {
		return append([]item(nil), l.items[:limit]...), nil
	}
	return append([]item(nil), l.items...), nil
}

func newestFirst(n int) []item {
	items := make([]item, 0, n)
	for i := n; i >= 1; i-- {
		items = append(items, item{ID: i, CreatedAt: int64(i)})
	}
	return items
}

func TestLoadMissHydrates(t *testing.T) {
	ctx := context.Background()
	client, mr := testutil.NewRedis(t)
	cache := New[item](client, 5, time.Hour)
	loader := &fakeLoader{items: newestFirst(3)}

	got, err := cache.Load(ctx, "feed:1", loader, JSONSerializer[item]{})
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(newestFirst(3), got))
	assert.Equal(t, 1, loader.calls)
	assert.Equal(t, time.Hour, mr.TTL("feed:1"))

	got, err = cache.Load(ctx, "feed:1", loader, JSONSerializer[item]{})
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(newestFirst(3), got))
	assert.Equal(t, 1, loader.calls)
}

func TestAccessRefreshesTTL(t *testing.T) {
	ctx := context.Background()
	client, mr := testutil.NewRedis(t)
	cache := New[item](client, 5, time.Hour)
	loader := &fakeLoader{items: newestFirst(2)}

	_, err := cache.Load(ctx, "feed:1", loader, JSONSerializer[item]{})
	require.NoError(t, err)

	mr.FastForward(50 * time.Minute)
	_, err = cache.Load(ctx, "feed:1", loader, JSONSerializer[item]{})
	require.NoError(t, err)
	assert.Equal(t, time.Hour, mr.TTL("feed:1"))

	mr.FastForward(50 * time.Minute)
	require.NoError(t, cache.Push(ctx, "feed:1", item{ID: 3, CreatedAt: 3}, loader, JSONSerializer[item]{}))
	assert.Equal(t, time.Hour, mr.TTL("feed:1"))
	assert.True(t, mr.Exists("feed:1"))
	assert.Equal(t, 1, loader.calls)
}

func TestLoadEmptyDoesNotCreateKey(t *testing.T) {
	ctx := context.Background()
	client, mr := testutil.NewRedis(t)
	cache := New[item](client, 5, time.Hour)

	got, err := cache.Load(ctx, "feed:1", &fakeLoader{}, JSONSerializer[item]{})
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.False(t, mr.Exists("feed:1"))
}

func TestLoadIsBounded(t *testing.T) {
	ctx := context.Background()
	client, _ := testutil.NewRedis(t)
	cache := New[item](client, 200, time.Hour)
	loader := &fakeLoader{items: newestFirst(220)}

	got, err := cache.Load(ctx, "feed:1", loader, JSONSerializer[item]{})
	require.NoError(t, err)
	require.Len(t, got, 200)
	assert.Equal(t, 220, got[0].ID)
	assert.Equal(t, 21, got[199].ID)
}

func TestPushKeepsBoundAndOrder(t *testing.T) {
	ctx := context.Background()
	client, _ := testutil.NewRedis(t)
	cache := New[item](client, 3, time.Hour)
	loader := &fakeLoader{items: newestFirst(3)}

	_, err := cache.Load(ctx, "feed:1", loader, JSONSerializer[item]{})
	require.NoError(t, err)

	for id := 4; id <= 6; id++ {
		require.NoError(t, cache.Push(ctx, "feed:1", item{ID: id, CreatedAt: int64(id)}, loader, JSONSerializer[item]{}))

		got, err := cache.Load(ctx, "feed:1", loader, JSONSerializer[item]{})
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, id, got[0].ID)
		for i := 1; i < len(got); i++ {
			assert.Greater(t, got[i-1].CreatedAt, got[i].CreatedAt)
		}
	}
	assert.Equal(t, 1, loader.calls)
}

func TestPushOnMissLoadsInstead(t *testing.T) {
	ctx := context.Background()
	client, _ := testutil.NewRedis(t)
	cache := New[item](client, 5, time.Hour)

	// 存储已经包含新元素
	loader := &fakeLoader{items: newestFirst(2)}
	require.NoError(t, cache.Push(ctx, "feed:1", item{ID: 2, CreatedAt: 2}, loader, JSONSerializer[item]{}))

	got, err := cache.Load(ctx, "feed:1", loader, JSONSerializer[item]{})
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(newestFirst(2), got))
	assert.Equal(t, 1, loader.calls)
}

func TestInvalidate(t *testing.T) {
	ctx := context.Background()
	client, mr := testutil.NewRedis(t)
	cache := New[item](client, 5, time.Hour)
	loader := &fakeLoader{items: newestFirst(2)}

	_, err := cache.Load(ctx, "feed:1", loader, JSONSerializer[item]{})
	require.NoError(t, err)
	require.NoError(t, cache.Invalidate(ctx, "feed:1"))
	assert.False(t, mr.Exists("feed:1"))
}

func TestCacheUnavailable(t *testing.T) {
	ctx := context.Background()
	client, mr := testutil.NewRedis(t)
	cache := New[item](client, 5, time.Hour)
	mr.Close()

	_, err := cache.Load(ctx, "feed:1", &fakeLoader{}, JSONSerializer[item]{})
	assert.ErrorIs(t, err, ErrCacheUnavailable)

	err = cache.Push(ctx, "feed:1", item{ID: 1}, &fakeLoader{}, JSONSerializer[item]{})
	assert.ErrorIs(t, err, ErrCacheUnavailable)
}

func TestEnvelope(t *testing.T) {
	payload, err := Wrap("news_feeds", item{ID: 7, CreatedAt: 9})
	require.NoError(t, err)

	env, err := Unwrap(payload)
	require.NoError(t, err)
	assert.Equal(t, "news_feeds", env.Model)

	got, err := JSONSerializer[item]{}.Deserialize(string(env.Data))
	require.NoError(t, err)
	assert.Equal(t, item{ID: 7, CreatedAt: 9}, got)

	_, err = Unwrap(`{"data":{}}`)
	assert.Error(t, err)
}
