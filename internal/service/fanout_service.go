package service

import (
	"Feedcore/internal/pkg/task"
	"Feedcore/internal/pkg/util"
	"context"
	"fmt"
	log "log/slog"
	"slices"
)

// 扇出任务名
const (
	TaskFanoutMain  = "newsfeeds.fanout_main"
	TaskFanoutBatch = "newsfeeds.fanout_batch"
)

const DefaultFanoutBatchSize = 1000

type FanoutMainPayload struct {
	PostID    uint64 `json:"post_id" validate:"required"`
	CreatedAt int64  `json:"created_at" validate:"gt=0"`
	AuthorID  uint64 `json:"author_id" validate:"required"`
}

type FanoutBatchPayload struct {
	PostID      uint64   `json:"post_id" validate:"required"`
	CreatedAt   int64    `json:"created_at" validate:"gt=0"`
	FollowerIDs []uint64 `json:"follower_ids" validate:"required,min=1"`
}

// FanoutService 帖子发布后把帖子写入作者自己和所有粉丝的时间线
type FanoutService interface {
	Submit(ctx context.Context, postID uint64, createdAt int64, authorID uint64) error
	FanoutMain(ctx context.Context, postID uint64, createdAt int64, authorID uint64) (string, error)
	FanoutBatch(ctx context.Context, postID uint64, createdAt int64, followerIDs []uint64) (string, error)
	Register(runner *task.Runner) error
}

type fanoutServiceImpl struct {
	newsFeedSvc   NewsFeedService
	userFollowSvc UserFollowService
	queue         task.Queue
	deadLetter    task.DeadLetter
	batchSize     int
}

func NewFanoutService(
	newsFeedSvc NewsFeedService,
	userFollowSvc UserFollowService,
	queue task.Queue,
	deadLetter task.DeadLetter,
	batchSize int,
) FanoutService {
	if batchSize <= 0 {
		batchSize = DefaultFanoutBatchSize
	}
	return &fanoutServiceImpl{
		newsFeedSvc:   newsFeedSvc,
		userFollowSvc: userFollowSvc,
		queue:         queue,
		deadLetter:    deadLetter,
		batchSize:     batchSize,
	}
}

// Submit 投递扇出主任务，投递失败时写入死信等待定时任务重投
func (s *fanoutServiceImpl) Submit(ctx context.Context, postID uint64, createdAt int64, authorID uint64) error {
	msg, err := task.NewMessage(TaskFanoutMain, FanoutMainPayload{
		PostID:    postID,
		CreatedAt: createdAt,
		AuthorID:  authorID,
	})
	if err != nil {
		return err
	}
	err = s.queue.Enqueue(ctx, msg)
	if err == nil {
		return nil
	}

	log.ErrorContext(ctx, "enqueue fanout task error", "post_id", postID, "err", err)
	msg.LastError = err.Error()
	if s.deadLetter == nil {
		return err
	}
	return s.deadLetter.Push(ctx, msg)
}

// FanoutMain 先同步写入作者自己的时间线，再按批次投递粉丝的扇出任务
func (s *fanoutServiceImpl) FanoutMain(ctx context.Context, postID uint64, createdAt int64, authorID uint64) (string, error) {
	if _, err := s.newsFeedSvc.CreateNewsFeed(ctx, authorID, postID, createdAt); err != nil {
		return "", err
	}

	followerIDs, err := s.userFollowSvc.GetFollowersID(ctx, authorID)
	if err != nil {
		return "", err
	}
	followerIDs = slices.DeleteFunc(followerIDs, func(id uint64) bool {
		return id == authorID
	})

	batches := util.ChunkUint64(followerIDs, s.batchSize)
	for _, batch := range batches {
		msg, err := task.NewMessage(TaskFanoutBatch, FanoutBatchPayload{
			PostID:      postID,
			CreatedAt:   createdAt,
			FollowerIDs: batch,
		})
		if err != nil {
			return "", err
		}
		if err = s.queue.Enqueue(ctx, msg); err != nil {
			return "", err
		}
	}
	return fmt.Sprintf("%d newsfeeds going to fanout, %d batches created.", len(followerIDs), len(batches)), nil
}

// FanoutBatch 一次批量写入一批粉丝的时间线
func (s *fanoutServiceImpl) FanoutBatch(ctx context.Context, postID uint64, createdAt int64, followerIDs []uint64) (string, error) {
	created, err := s.newsFeedSvc.BatchCreateNewsFeeds(ctx, postID, createdAt, followerIDs)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d newsfeeds created", created), nil
}

// Register 把两个扇出任务注册到 Runner，参数无法解析的任务不重试
func (s *fanoutServiceImpl) Register(runner *task.Runner) error {
	err := runner.Register(TaskFanoutMain, func(ctx context.Context, msg *task.Message) (string, error) {
		var p FanoutMainPayload
		if err := decodePayload(msg, &p); err != nil {
			return "", err
		}
		return s.FanoutMain(ctx, p.PostID, p.CreatedAt, p.AuthorID)
	})
	if err != nil {
		return err
	}
	return runner.Register(TaskFanoutBatch, func(ctx context.Context, msg *task.Message) (string, error) {
		var p FanoutBatchPayload
		if err := decodePayload(msg, &p); err != nil {
			return "", err
		}
		return s.FanoutBatch(ctx, p.PostID, p.CreatedAt, p.FollowerIDs)
	})
}

func decodePayload(msg *task.Message, p any) error {
	if err := msg.Decode(p); err != nil {
		return task.Permanent(err)
	}
	if err := util.ValidateDTO(p); err != nil {
		return task.Permanent(err)
	}
	return nil
}
