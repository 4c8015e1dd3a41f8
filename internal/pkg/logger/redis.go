package logger

import (
	"context"
	"errors"
	log "log/slog"
	"net"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// CacheHook 记录缓存层的连接失败、命令错误与慢命令
// 缓存未命中 (redis.Nil) 是正常路径，不记录
type CacheHook struct {
	slow time.Duration
}

func NewCacheHook(slow time.Duration) *CacheHook {
	return &CacheHook{slow: slow}
}

func (s *CacheHook) DialHook(next redis.DialHook) redis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		start := time.Now()
		conn, err := next(ctx, network, addr)
		if err != nil {
			log.ErrorContext(ctx, "Redis Dial Error",
				log.String("addr", addr),
				log.Duration("latency", time.Since(start)),
				log.Any("err", err),
			)
		}
		return conn, err
	}
}

func (s *CacheHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		start := time.Now()
		err := next(ctx, cmd)
		elapsed := time.Since(start)

		if err != nil && isQuietError(cmd, err) {
			return err
		}
		if err == nil && elapsed < s.slow {
			return nil
		}

		fields := []any{
			log.String("command", cmd.Name()),
			log.String("key", commandKey(cmd)),
			log.Duration("latency", elapsed),
		}
		if err != nil {
			log.ErrorContext(ctx, "Redis Error", append(fields, log.Any("err", err))...)
		} else {
			log.WarnContext(ctx, "Redis Slow", fields...)
		}
		return err
	}
}

// ProcessPipelineHook 管道与 MULTI 事务按整体记录
func (s *CacheHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		start := time.Now()
		err := next(ctx, cmds)
		elapsed := time.Since(start)

		if err != nil && errors.Is(err, redis.Nil) {
			return err
		}
		if err == nil && elapsed < s.slow {
			return nil
		}

		names := make([]string, 0, len(cmds))
		for _, cmd := range cmds {
			names = append(names, cmd.Name())
		}
		fields := []any{
			log.String("commands", strings.Join(names, ",")),
			log.Duration("latency", elapsed),
		}
		if err != nil {
			log.ErrorContext(ctx, "Redis Pipeline Error", append(fields, log.Any("err", err))...)
		} else {
			log.WarnContext(ctx, "Redis Pipeline Slow", fields...)
		}
		return err
	}
}

func isQuietError(cmd redis.Cmder, err error) bool {
	if errors.Is(err, redis.Nil) || errors.Is(err, redis.TxFailedErr) {
		return true
	}
	return cmd.Name() == "client" && strings.Contains(err.Error(), "setinfo")
}

// commandKey 取命令的第一个参数作为键名，认证类命令不输出
func commandKey(cmd redis.Cmder) string {
	switch cmd.Name() {
	case "auth", "hello":
		return "[PROTECTED]"
	}
	args := cmd.Args()
	if len(args) < 2 {
		return ""
	}
	key, _ := args[1].(string)
	return key
}
