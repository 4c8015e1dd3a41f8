package service

import (
	"Feedcore/internal/pkg/mongo"
	"Feedcore/internal/pkg/pagination"
	"Feedcore/internal/pkg/util"
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
	mongoDB "go.mongodb.org/mongo-driver/mongo"
)

type SysBoxService interface {
	Notify(ctx context.Context, receiverID, senderID uint64, typ int8, targetID uint64, content string) error
	ListNotifications(ctx context.Context, userID uint64, params pagination.Params) ([]*mongo.SysBoxModel, bool, error)
	GetUnreadCount(ctx context.Context, userID uint64) (int64, error)
	MarkRead(ctx context.Context, userID uint64, msgID string) error
	MarkAllRead(ctx context.Context, userID uint64) error
}

type sysBoxServiceImpl struct {
	sysBoxRepo mongo.SysBoxRepo
	pageSize   int
}

func NewSysBoxService(sysBox mongo.SysBoxRepo, pageSize int) SysBoxService {
	return &sysBoxServiceImpl{
		sysBoxRepo: sysBox,
		pageSize:   pageSize,
	}
}

// Notify 给 receiver 发送一条通知，自己对自己的操作不通知
func (s *sysBoxServiceImpl) Notify(ctx context.Context, receiverID, senderID uint64, typ int8, targetID uint64, content string) error {
	if receiverID == senderID {
		return nil
	}
	return s.sysBoxRepo.CreateNotification(ctx, &mongo.SysBoxModel{
		ReceiverID: receiverID,
		SenderID:   senderID,
		Type:       typ,
		TargetID:   targetID,
		Content:    content,
		CreatedAt:  util.NowMicros(),
	})
}

// ListNotifications 按时间倒序分页获取通知
func (s *sysBoxServiceImpl) ListNotifications(ctx context.Context, userID uint64, params pagination.Params) ([]*mongo.SysBoxModel, bool, error) {
	return s.sysBoxRepo.PageNotifications(ctx, userID, params, s.pageSize)
}

// GetUnreadCount 获取未读数
func (s *sysBoxServiceImpl) GetUnreadCount(ctx context.Context, userID uint64) (int64, error) {
	return s.sysBoxRepo.GetUnreadCount(ctx, userID)
}

// MarkRead 标记单条已读
func (s *sysBoxServiceImpl) MarkRead(ctx context.Context, userID uint64, msgID string) error {
	objectID, err := primitive.ObjectIDFromHex(msgID)
	if err != nil {
		return ErrParamInvalid
	}

	notice, err := s.sysBoxRepo.GetByID(ctx, objectID)
	if err != nil {
		if errors.Is(err, mongoDB.ErrNoDocuments) {
			return ErrSysBoxNotFound
		}
		return err
	}

	if notice.ReceiverID != userID {
		return UnauthorizedError
	}

	if notice.IsRead {
		return nil
	}

	return s.sysBoxRepo.MarkAsRead(ctx, userID, objectID)
}

// MarkAllRead 一键已读
func (s *sysBoxServiceImpl) MarkAllRead(ctx context.Context, userID uint64) error {
	return s.sysBoxRepo.MarkAllAsRead(ctx, userID)
}
