package logger

import (
	"context"
	"errors"
	log "log/slog"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// GormLogger 将 gorm 日志接入 slog，成功的查询只在 debug 级别输出
type GormLogger struct {
	level logger.LogLevel
	slow  time.Duration
}

func NewGormLogger(slow time.Duration) *GormLogger {
	return &GormLogger{level: logger.Warn, slow: slow}
}

func (l *GormLogger) LogMode(level logger.LogLevel) logger.Interface {
	clone := *l
	clone.level = level
	return &clone
}

func (l *GormLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	if l.level >= logger.Info {
		log.InfoContext(ctx, msg, "data", data)
	}
}

func (l *GormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	if l.level >= logger.Warn {
		log.WarnContext(ctx, msg, "data", data)
	}
}

func (l *GormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	if l.level >= logger.Error {
		log.ErrorContext(ctx, msg, "data", data)
	}
}

// Trace 记录不存在与重复键不按错误输出
func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= logger.Silent {
		return
	}

	elapsed := time.Since(begin)
	sql, rows := fc()
	msg := "SQL " + sqlOperation(sql)
	fields := []any{
		log.String("sql", sql),
		log.Duration("latency", elapsed),
		log.Int64("rows", rows),
	}

	switch {
	case err != nil && !errors.Is(err, logger.ErrRecordNotFound) && !errors.Is(err, gorm.ErrDuplicatedKey):
		if l.level >= logger.Error {
			log.ErrorContext(ctx, msg+" Error", append(fields, log.Any("err", err))...)
		}
	case elapsed > l.slow:
		if l.level >= logger.Warn {
			log.WarnContext(ctx, msg+" Slow", fields...)
		}
	default:
		log.DebugContext(ctx, msg, fields...)
	}
}

func sqlOperation(sql string) string {
	op, _, _ := strings.Cut(strings.TrimSpace(sql), " ")
	if op == "" {
		return "Query"
	}
	return strings.ToUpper(op)
}
