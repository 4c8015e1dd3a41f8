package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// SetValue 设置键值对
func (c *Client) SetValue(ctx context.Context, key string, value interface{}) error {
	return c.rdb.Set(ctx, key, value, 0).Err()
}

// SetWithExpiration 设置键值对并设置过期时间
func (c *Client) SetWithExpiration(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return c.rdb.Set(ctx, key, value, expiration).Err()
}

// GetValue 获取字符串类型的值，键不存在时返回空串
func (c *Client) GetValue(ctx context.Context, key string) (string, error) {
	value, err := c.rdb.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", err
	}
	return value, nil
}

// TryLock 尝试加锁，retryTimes 为 -1 时一直重试
func (c *Client) TryLock(ctx context.Context, key string, value interface{}, expiration time.Duration, retryTimes int) (bool, error) {
	for i := 0; i < retryTimes || retryTimes == -1; i++ {
		success, err := c.rdb.SetNX(ctx, key, value, expiration).Result()
		if err != nil {
			return false, err
		}
		if success {
			return true, nil
		}
		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case <-time.After(200 * time.Millisecond):
		}
	}
	return false, nil
}

// UnLock 释放锁
func (c *Client) UnLock(ctx context.Context, key string, value interface{}) {
	c.rdb.Eval(ctx, "if redis.call('get', KEYS[1]) == ARGV[1] then return redis.call('del', KEYS[1]) else return 0 end", []string{key}, value)
}

// Exists 判断键是否存在
func (c *Client) Exists(ctx context.Context, key string) (bool, error) {
	n, err := c.rdb.Exists(ctx, key).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Expire 设置过期时间
func (c *Client) Expire(ctx context.Context, key string, expiration time.Duration) error {
	return c.rdb.Expire(ctx, key, expiration).Err()
}

// SetListWithExpiration 追加到列表尾部并设置过期时间
func (c *Client) SetListWithExpiration(ctx context.Context, key string, value []string, expiration time.Duration) error {
	if len(value) == 0 {
		return nil
	}
	pipe := c.rdb.TxPipeline()
	pipe.RPush(ctx, key, value)
	pipe.Expire(ctx, key, expiration)
	_, err := pipe.Exec(ctx)
	return err
}

// RPush 追加到列表尾部
func (c *Client) RPush(ctx context.Context, key string, value ...string) error {
	if len(value) == 0 {
		return nil
	}
	return c.rdb.RPush(ctx, key, value).Err()
}

// GetList 获取整个列表
func (c *Client) GetList(ctx context.Context, key string) ([]string, error) {
	value, err := c.rdb.LRange(ctx, key, 0, -1).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	return value, nil
}

// LPushAndTrim 仅当列表存在时头插并截断到 limit 条，返回列表此前是否存在
func (c *Client) LPushAndTrim(ctx context.Context, key string, value string, limit int64) (bool, error) {
	n, err := c.rdb.LPushX(ctx, key, value).Result()
	if err != nil {
		return false, err
	}
	if n == 0 {
		return false, nil
	}
	if n > limit {
		if err = c.rdb.LTrim(ctx, key, 0, limit-1).Err(); err != nil {
			return true, err
		}
	}
	return true, nil
}

// LPop 弹出列表头部元素，列表为空时返回空串
func (c *Client) LPop(ctx context.Context, key string) (string, error) {
	value, err := c.rdb.LPop(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", err
	}
	return value, nil
}

// LLen 获取列表长度
func (c *Client) LLen(ctx context.Context, key string) (int64, error) {
	return c.rdb.LLen(ctx, key).Result()
}

// Incr 自增
func (c *Client) Incr(ctx context.Context, key string) (int64, error) {
	return c.rdb.Incr(ctx, key).Result()
}

// Decr 自减
func (c *Client) Decr(ctx context.Context, key string) (int64, error) {
	return c.rdb.Decr(ctx, key).Result()
}

// GetSet 获取集合
func (c *Client) GetSet(ctx context.Context, key string) ([]string, error) {
	value, err := c.rdb.SMembers(ctx, key).Result()
	if err != nil {
		return nil, err
	}
	return value, nil
}

// SetSetWithExpiration 写入集合并设置过期时间
func (c *Client) SetSetWithExpiration(ctx context.Context, key string, members []string, expiration time.Duration) error {
	if len(members) == 0 {
		return nil
	}
	values := make([]interface{}, len(members))
	for i, m := range members {
		values[i] = m
	}
	pipe := c.rdb.TxPipeline()
	pipe.SAdd(ctx, key, values...)
	pipe.Expire(ctx, key, expiration)
	_, err := pipe.Exec(ctx)
	return err
}

// HGetAll 获取哈希全部字段
func (c *Client) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	return c.rdb.HGetAll(ctx, key).Result()
}

// HSet 设置哈希字段
func (c *Client) HSet(ctx context.Context, key string, field string, value interface{}) error {
	return c.rdb.HSet(ctx, key, field, value).Err()
}

// DeleteKey 删除键
func (c *Client) DeleteKey(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return c.rdb.Del(ctx, keys...).Err()
}

// FlushDB 清空当前库，仅测试模式可用
func (c *Client) FlushDB(ctx context.Context) error {
	if !c.testing {
		return ErrFlushRefused
	}
	return c.rdb.FlushDB(ctx).Err()
}
