package task

import (
	"Feedcore/internal/pkg/redis"
	"context"
)

// DeadLetter 超过重试次数或不可重试的任务
type DeadLetter interface {
	Push(ctx context.Context, msg *Message) error
	Pop(ctx context.Context) (*Message, error)
	Len(ctx context.Context) (int64, error)
}

// RedisDeadLetter 使用 Redis 列表保存死信，先进先出
type RedisDeadLetter struct {
	client *redis.Client
	key    string
}

func NewRedisDeadLetter(client *redis.Client, key string) *RedisDeadLetter {
	return &RedisDeadLetter{client: client, key: key}
}

func (d *RedisDeadLetter) Push(ctx context.Context, msg *Message) error {
	data, err := msg.Encode()
	if err != nil {
		return err
	}
	return d.client.RPush(ctx, d.key, string(data))
}

// Pop 队列为空时返回 nil
func (d *RedisDeadLetter) Pop(ctx context.Context) (*Message, error) {
	data, err := d.client.LPop(ctx, d.key)
	if err != nil || data == "" {
		return nil, err
	}
	return DecodeMessage([]byte(data))
}

func (d *RedisDeadLetter) Len(ctx context.Context) (int64, error) {
	return d.client.LLen(ctx, d.key)
}
