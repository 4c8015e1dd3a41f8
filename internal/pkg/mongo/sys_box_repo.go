package mongo

import (
	"Feedcore/internal/pkg/pagination"
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type SysBoxRepo interface {
	CreateNotification(ctx context.Context, msg *SysBoxModel) error
	PageNotifications(ctx context.Context, userID uint64, params pagination.Params, pageSize int) ([]*SysBoxModel, bool, error)
	MarkAsRead(ctx context.Context, userID uint64, id primitive.ObjectID) error
	MarkAllAsRead(ctx context.Context, userID uint64) error
	GetUnreadCount(ctx context.Context, userID uint64) (int64, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*SysBoxModel, error)
}

type sysBoxRepoImpl struct {
	col *mongo.Collection
}

func NewSysBoxRepo(db *mongo.Database) SysBoxRepo {
	return &sysBoxRepoImpl{
		col: db.Collection(sysBoxCollection),
	}
}

// CreateNotification 插入新通知
func (s *sysBoxRepoImpl) CreateNotification(ctx context.Context, msg *SysBoxModel) error {
	result, err := s.col.InsertOne(ctx, msg)
	if err != nil {
		return err
	}
	if id, ok := result.InsertedID.(primitive.ObjectID); ok {
		msg.ID = id
	}
	return nil
}

// PageNotifications 按 created_at 游标分页获取通知 (按时间倒序)
func (s *sysBoxRepoImpl) PageNotifications(ctx context.Context, userID uint64, params pagination.Params, pageSize int) ([]*SysBoxModel, bool, error) {
	if pageSize <= 0 {
		pageSize = pagination.DefaultPageSize
	}
	filter := bson.M{"receiver_id": userID}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})

	switch {
	case params.HasGT():
		filter["created_at"] = bson.M{"$gt": *params.CreatedAtGT}
	case params.HasLT():
		filter["created_at"] = bson.M{"$lt": *params.CreatedAtLT}
		opts.SetLimit(int64(pageSize + 1))
	default:
		opts.SetLimit(int64(pageSize + 1))
	}

	cursor, err := s.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, false, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	list := make([]*SysBoxModel, 0)
	if err = cursor.All(ctx, &list); err != nil {
		return nil, false, err
	}
	if params.HasGT() {
		return list, false, nil
	}

	hasNext := len(list) > pageSize
	if hasNext {
		list = list[:pageSize]
	}
	return list, hasNext, nil
}

// MarkAsRead 标记单条通知为已读
func (s *sysBoxRepoImpl) MarkAsRead(ctx context.Context, userID uint64, id primitive.ObjectID) error {
	filter := bson.M{"_id": id, "receiver_id": userID}
	update := bson.M{"$set": bson.M{"is_read": true}}
	result, err := s.col.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// MarkAllAsRead 一键清除未读 (将用户所有未读通知标记为已读)
func (s *sysBoxRepoImpl) MarkAllAsRead(ctx context.Context, userID uint64) error {
	filter := bson.M{"receiver_id": userID, "is_read": false}
	update := bson.M{"$set": bson.M{"is_read": true}}
	_, err := s.col.UpdateMany(ctx, filter, update)
	return err
}

// GetUnreadCount 获取用户的未读通知总数
func (s *sysBoxRepoImpl) GetUnreadCount(ctx context.Context, userID uint64) (int64, error) {
	filter := bson.M{"receiver_id": userID, "is_read": false}
	return s.col.CountDocuments(ctx, filter)
}

// GetByID 根据 ID 获取通知
func (s *sysBoxRepoImpl) GetByID(ctx context.Context, id primitive.ObjectID) (*SysBoxModel, error) {
	var msg SysBoxModel
	err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&msg)
	if err != nil {
		return nil, err
	}
	return &msg, nil
}
