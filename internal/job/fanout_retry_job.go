package job

import (
	"Feedcore/internal/pkg/consts"
	"Feedcore/internal/pkg/logger"
	"Feedcore/internal/pkg/redis"
	"Feedcore/internal/pkg/task"
	"context"
	log "log/slog"
	"time"

	"github.com/google/uuid"
)

const (
	DefaultMaxRedrive = 3
	retryLockTTL      = 5 * time.Minute
)

// FanoutRetryJob 把死信中的任务重新投递，每条任务最多重投 MaxRedrive 次
type FanoutRetryJob struct {
	client     *redis.Client
	deadLetter task.DeadLetter
	queue      task.Queue
	MaxRedrive int
}

func NewFanoutRetryJob(client *redis.Client, deadLetter task.DeadLetter, queue task.Queue) *FanoutRetryJob {
	return &FanoutRetryJob{
		client:     client,
		deadLetter: deadLetter,
		queue:      queue,
		MaxRedrive: DefaultMaxRedrive,
	}
}

func (s *FanoutRetryJob) Run() {
	traceID := "job-retry-" + uuid.NewString()
	ctx := context.WithValue(context.Background(), logger.TraceIDKey, traceID)

	token := uuid.NewString()
	ok, err := s.client.TryLock(ctx, consts.TaskRetryLock, token, retryLockTTL, 1)
	if err != nil {
		log.ErrorContext(ctx, "acquire task retry lock error", "err", err)
		return
	}
	if !ok {
		return
	}
	defer s.client.UnLock(ctx, consts.TaskRetryLock, token)

	redriven, parked, err := s.Redrive(ctx)
	if err != nil {
		log.ErrorContext(ctx, "redrive dead letter error", "redriven", redriven, "err", err)
		return
	}
	if redriven > 0 || parked > 0 {
		log.InfoContext(ctx, "redrive dead letter done", "redriven", redriven, "parked", parked)
	}
}

// Redrive 只处理开始时已在死信中的任务，重投后再次失败的任务留到下一轮
// 超过重投次数的任务放回死信等待人工处理
func (s *FanoutRetryJob) Redrive(ctx context.Context) (redriven, parked int, err error) {
	n, err := s.deadLetter.Len(ctx)
	if err != nil {
		return 0, 0, err
	}

	for i := int64(0); i < n; i++ {
		msg, err := s.deadLetter.Pop(ctx)
		if err != nil {
			return redriven, parked, err
		}
		if msg == nil {
			break
		}

		if msg.Redrive >= s.MaxRedrive {
			parked++
			if err = s.deadLetter.Push(ctx, msg); err != nil {
				return redriven, parked, err
			}
			continue
		}

		msg.Redrive++
		msg.Attempt = 0
		msg.LastError = ""
		if err = s.queue.Enqueue(ctx, msg); err != nil {
			log.WarnContext(ctx, "redrive task error", "task", msg.Name, "id", msg.ID, "err", err)
			msg.LastError = err.Error()
			if pushErr := s.deadLetter.Push(ctx, msg); pushErr != nil {
				return redriven, parked, pushErr
			}
			return redriven, parked, err
		}
		redriven++
	}
	return redriven, parked, nil
}
