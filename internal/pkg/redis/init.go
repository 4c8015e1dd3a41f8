package redis

import (
	"Feedcore/internal/api/config"
	"Feedcore/internal/pkg/logger"
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
	"github.com/redis/go-redis/v9/maintnotifications"
)

// ErrFlushRefused 非测试模式下拒绝清空缓存
var ErrFlushRefused = errors.New("redis: flushdb is only allowed in testing mode")

// Client 对 go-redis 客户端的封装，由组合根构造后注入
type Client struct {
	rdb     *redis.Client
	testing bool
}

// InitRedis 初始化 Redis 客户端连接
func InitRedis(cfg config.RedisConfig, testing bool) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,

		MaintNotificationsConfig: &maintnotifications.Config{
			Mode: maintnotifications.ModeDisabled,
		},
	})
	rdb.AddHook(logger.NewCacheHook(logger.SlowThreshold()))

	ctx := context.Background()

	if _, err := rdb.Ping(ctx).Result(); err != nil {
		return nil, err
	}

	return NewClient(rdb, testing), nil
}

func NewClient(rdb *redis.Client, testing bool) *Client {
	return &Client{rdb: rdb, testing: testing}
}

// Raw 获取底层 go-redis 客户端
func (c *Client) Raw() *redis.Client {
	return c.rdb
}

func (c *Client) Close() error {
	return c.rdb.Close()
}
