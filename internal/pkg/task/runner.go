package task

import (
	"Feedcore/internal/pkg/logger"
	"context"
	"fmt"
	log "log/slog"
	"sync"
	"time"
)

const (
	DefaultMaxAttempts = 5
	DefaultTimeout     = time.Hour
	retryInterval      = 100 * time.Millisecond
	maxRetryInterval   = 5 * time.Second
)

// Handler 任务处理函数，返回的字符串记录在日志中
type Handler func(ctx context.Context, msg *Message) (string, error)

// Runner 执行任务：指数退避重试、总时长上限、失败后写入死信
type Runner struct {
	mu         sync.RWMutex
	handlers   map[string]Handler
	deadLetter DeadLetter

	MaxAttempts   int
	Timeout       time.Duration
	RetryInterval time.Duration
	MaxInterval   time.Duration
}

func NewRunner(deadLetter DeadLetter, maxAttempts int, timeout time.Duration) *Runner {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Runner{
		handlers:      make(map[string]Handler),
		deadLetter:    deadLetter,
		MaxAttempts:   maxAttempts,
		Timeout:       timeout,
		RetryInterval: retryInterval,
		MaxInterval:   maxRetryInterval,
	}
}

func (r *Runner) Register(name string, handler Handler) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.handlers[name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateTask, name)
	}
	r.handlers[name] = handler
	return nil
}

// Process 执行任务直到成功、不可重试或达到最大次数，失败的任务写入死信
// 返回错误表示任务既没有完成也没有写入死信
func (r *Runner) Process(ctx context.Context, msg *Message) error {
	ctx = logger.WithTraceID(ctx, "task-")
	ctx, cancel := context.WithTimeout(ctx, r.Timeout)
	defer cancel()

	r.mu.RLock()
	handler, ok := r.handlers[msg.Name]
	r.mu.RUnlock()
	if !ok {
		return r.bury(ctx, msg, fmt.Errorf("%w: %s", ErrUnknownTask, msg.Name))
	}

	interval := r.RetryInterval
	for {
		msg.Attempt++
		start := time.Now()
		result, err := handler(ctx, msg)
		if err == nil {
			log.InfoContext(ctx, "task done",
				"task", msg.Name, "id", msg.ID, "attempt", msg.Attempt,
				"cost", time.Since(start).String(), "result", result)
			return nil
		}

		log.WarnContext(ctx, "task failed", "task", msg.Name, "id", msg.ID, "attempt", msg.Attempt, "err", err)
		if IsPermanent(err) || msg.Attempt >= r.MaxAttempts || ctx.Err() != nil {
			return r.bury(context.WithoutCancel(ctx), msg, err)
		}

		select {
		case <-ctx.Done():
			return r.bury(context.WithoutCancel(ctx), msg, ctx.Err())
		case <-time.After(interval):
		}
		interval *= 2
		if interval > r.MaxInterval {
			interval = r.MaxInterval
		}
	}
}

func (r *Runner) bury(ctx context.Context, msg *Message, cause error) error {
	msg.LastError = cause.Error()
	log.ErrorContext(ctx, "task dead lettered", "task", msg.Name, "id", msg.ID, "attempt", msg.Attempt, "err", cause)
	if r.deadLetter == nil {
		return cause
	}
	if err := r.deadLetter.Push(ctx, msg); err != nil {
		return fmt.Errorf("dead letter %s: %w", msg.ID, err)
	}
	return nil
}
