package listcache

import (
	"Feedcore/internal/pkg/redis"
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrCacheUnavailable 缓存读写失败，调用方可以绕过缓存直接访问存储
var ErrCacheUnavailable = errors.New("list cache unavailable")

// Serializer 缓存元素的序列化方式
type Serializer[T any] interface {
	Serialize(obj T) (string, error)
	Deserialize(data string) (T, error)
}

// Loader 缓存未命中时从存储加载最新的 limit 条数据，按新到旧排列
type Loader[T any] interface {
	Load(ctx context.Context, limit int) ([]T, error)
}

// ListCache 有界列表缓存：最新的在表头，长度不超过 limit
type ListCache[T any] struct {
	client *redis.Client
	limit  int
	ttl    time.Duration
}

func New[T any](client *redis.Client, limit int, ttl time.Duration) *ListCache[T] {
	return &ListCache[T]{
		client: client,
		limit:  limit,
		ttl:    ttl,
	}
}

func (c *ListCache[T]) Limit() int {
	return c.limit
}

// Load 命中时返回整个列表并刷新过期时间，未命中时通过 loader 加载并回填
func (c *ListCache[T]) Load(ctx context.Context, key string, loader Loader[T], s Serializer[T]) ([]T, error) {
	exists, err := c.client.Exists(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCacheUnavailable, err)
	}

	if exists {
		list, err := c.client.GetList(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCacheUnavailable, err)
		}
		objs := make([]T, 0, len(list))
		for _, data := range list {
			obj, err := s.Deserialize(data)
			if err != nil {
				return nil, err
			}
			objs = append(objs, obj)
		}
		if err = c.touch(ctx, key); err != nil {
			return nil, err
		}
		return objs, nil
	}

	objs, err := loader.Load(ctx, c.limit)
	if err != nil {
		return nil, err
	}
	if len(objs) > c.limit {
		objs = objs[:c.limit]
	}
	if err = c.fill(ctx, key, objs, s); err != nil {
		return nil, err
	}
	return objs, nil
}

// Push 新元素写入表头并截断；列表不存在时改为完整加载
func (c *ListCache[T]) Push(ctx context.Context, key string, obj T, loader Loader[T], s Serializer[T]) error {
	data, err := s.Serialize(obj)
	if err != nil {
		return err
	}
	existed, err := c.client.LPushAndTrim(ctx, key, data, int64(c.limit))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrCacheUnavailable, err)
	}
	if existed {
		return c.touch(ctx, key)
	}
	_, err = c.Load(ctx, key, loader, s)
	return err
}

// Invalidate 删除列表，下次读取时重新加载
func (c *ListCache[T]) Invalidate(ctx context.Context, key string) error {
	if err := c.client.DeleteKey(ctx, key); err != nil {
		return fmt.Errorf("%w: %w", ErrCacheUnavailable, err)
	}
	return nil
}

// touch 每次访问都把过期时间重置为 ttl
func (c *ListCache[T]) touch(ctx context.Context, key string) error {
	if err := c.client.Expire(ctx, key, c.ttl); err != nil {
		return fmt.Errorf("%w: %w", ErrCacheUnavailable, err)
	}
	return nil
}

func (c *ListCache[T]) fill(ctx context.Context, key string, objs []T, s Serializer[T]) error {
	if len(objs) == 0 {
		return nil
	}
	list := make([]string, 0, len(objs))
	for _, obj := range objs {
		data, err := s.Serialize(obj)
		if err != nil {
			return err
		}
		list = append(list, data)
	}
	if err := c.client.SetListWithExpiration(ctx, key, list, c.ttl); err != nil {
		return fmt.Errorf("%w: %w", ErrCacheUnavailable, err)
	}
	return nil
}
