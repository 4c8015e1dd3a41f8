package logger

import (
	"context"
	log "log/slog"
	"time"

	"go.mongodb.org/mongo-driver/event"
)

const maxCommandLogLen = 512

// NewMongoMonitor 失败与慢命令按级别输出，命令详情仅在 debug 级别记录
func NewMongoMonitor(slow time.Duration) *event.CommandMonitor {
	return &event.CommandMonitor{
		Started: func(ctx context.Context, evt *event.CommandStartedEvent) {
			if !log.Default().Enabled(ctx, log.LevelDebug) {
				return
			}
			detail := evt.Command.String()
			if len(detail) > maxCommandLogLen {
				detail = detail[:maxCommandLogLen] + "...[truncated]"
			}
			log.DebugContext(ctx, "MongoDB Started",
				log.String("command", evt.CommandName),
				log.String("database", evt.DatabaseName),
				log.Int64("request_id", evt.RequestID),
				log.String("detail", detail),
			)
		},
		Succeeded: func(ctx context.Context, evt *event.CommandSucceededEvent) {
			if evt.Duration < slow {
				return
			}
			log.WarnContext(ctx, "MongoDB Slow",
				log.String("command", evt.CommandName),
				log.Int64("request_id", evt.RequestID),
				log.Duration("latency", evt.Duration),
			)
		},
		Failed: func(ctx context.Context, evt *event.CommandFailedEvent) {
			log.ErrorContext(ctx, "MongoDB Error",
				log.String("command", evt.CommandName),
				log.Int64("request_id", evt.RequestID),
				log.Duration("latency", evt.Duration),
				log.Any("err", evt.Failure),
			)
		},
	}
}
