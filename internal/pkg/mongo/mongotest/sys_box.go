// Package mongotest 通知存储的内存实现，供测试使用
package mongotest

import (
	"Feedcore/internal/pkg/mongo"
	"Feedcore/internal/pkg/pagination"
	"context"
	"slices"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"
	mongoDB "go.mongodb.org/mongo-driver/mongo"
)

// MemorySysBox 内存中的通知存储，实现 mongo.SysBoxRepo
type MemorySysBox struct {
	mu   sync.Mutex
	list []*mongo.SysBoxModel
}

func NewMemorySysBox() *MemorySysBox {
	return &MemorySysBox{}
}

func (r *MemorySysBox) CreateNotification(_ context.Context, msg *mongo.SysBoxModel) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	msg.ID = primitive.NewObjectID()
	r.list = append(r.list, msg)
	return nil
}

func (r *MemorySysBox) PageNotifications(_ context.Context, userID uint64, params pagination.Params, pageSize int) ([]*mongo.SysBoxModel, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var mine []*mongo.SysBoxModel
	for _, m := range r.list {
		if m.ReceiverID == userID {
			mine = append(mine, m)
		}
	}
	slices.Reverse(mine)
	page, hasNext := pagination.New[*mongo.SysBoxModel](pageSize).PaginateOrderedList(mine, params)
	return page, hasNext, nil
}

func (r *MemorySysBox) MarkAsRead(_ context.Context, userID uint64, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.list {
		if m.ID == id && m.ReceiverID == userID {
			m.IsRead = true
			return nil
		}
	}
	return mongoDB.ErrNoDocuments
}

func (r *MemorySysBox) MarkAllAsRead(_ context.Context, userID uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.list {
		if m.ReceiverID == userID {
			m.IsRead = true
		}
	}
	return nil
}

func (r *MemorySysBox) GetUnreadCount(_ context.Context, userID uint64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, m := range r.list {
		if m.ReceiverID == userID && !m.IsRead {
			n++
		}
	}
	return n, nil
}

func (r *MemorySysBox) GetByID(_ context.Context, id primitive.ObjectID) (*mongo.SysBoxModel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.list {
		if m.ID == id {
			return m, nil
		}
	}
	return nil, mongoDB.ErrNoDocuments
}

// All 按写入顺序返回全部通知的快照
func (r *MemorySysBox) All() []*mongo.SysBoxModel {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.list)
}
