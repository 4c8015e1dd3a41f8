package counter

import (
	"Feedcore/internal/pkg/redis"
	"context"
	"fmt"
	"strconv"
	"time"
)

// Source 从权威存储读取计数
type Source func(ctx context.Context) (int64, error)

// Cache 计数缓存，key 形如 posts.likes_count:123
// 调用 Incr/Decr 前权威存储必须已经更新
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

func New(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

func Key(entity, attr string, id uint64) string {
	return fmt.Sprintf("%s.%s:%d", entity, attr, id)
}

// GetCount 命中直接返回，未命中从 source 回填
func (c *Cache) GetCount(ctx context.Context, entity, attr string, id uint64, source Source) (int64, error) {
	key := Key(entity, attr, id)
	raw, err := c.client.GetValue(ctx, key)
	if err != nil {
		return 0, err
	}
	if raw != "" {
		return strconv.ParseInt(raw, 10, 64)
	}
	return c.backfill(ctx, key, source)
}

// IncrCount 缓存存在时自增，否则从 source 回填 (回填值已包含本次变更)
func (c *Cache) IncrCount(ctx context.Context, entity, attr string, id uint64, source Source) (int64, error) {
	return c.mutate(ctx, Key(entity, attr, id), source, c.client.Incr)
}

// DecrCount 缓存存在时自减，否则从 source 回填
func (c *Cache) DecrCount(ctx context.Context, entity, attr string, id uint64, source Source) (int64, error) {
	return c.mutate(ctx, Key(entity, attr, id), source, c.client.Decr)
}

func (c *Cache) mutate(ctx context.Context, key string, source Source, op func(context.Context, string) (int64, error)) (int64, error) {
	exists, err := c.client.Exists(ctx, key)
	if err != nil {
		return 0, err
	}
	if !exists {
		return c.backfill(ctx, key, source)
	}
	return op(ctx, key)
}

func (c *Cache) backfill(ctx context.Context, key string, source Source) (int64, error) {
	count, err := source(ctx)
	if err != nil {
		return 0, err
	}
	if err = c.client.SetWithExpiration(ctx, key, count, c.ttl); err != nil {
		return 0, err
	}
	return count, nil
}
