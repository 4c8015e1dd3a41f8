package mongo

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SysBoxModel 系统通知模型
type SysBoxModel struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ReceiverID uint64             `bson:"receiver_id" json:"receiverId"` // 消息接收者ID
	SenderID   uint64             `bson:"sender_id" json:"senderId"`     // 动作发起者ID
	Type       int8               `bson:"type" json:"type"`              // 通知类型: 1-帖子点赞, 3-帖子评论, 5-被关注
	TargetID   uint64             `bson:"target_id" json:"targetId"`     // 关联的目标ID (帖子ID或用户ID)
	Content    string             `bson:"content" json:"content"`        // 评论片段
	Payload    map[string]any     `bson:"payload" json:"payload"`
	IsRead     bool               `bson:"is_read" json:"isRead"`
	CreatedAt  int64              `bson:"created_at" json:"createdAt"` // 微秒时间戳
}

func (m *SysBoxModel) GetCreatedAt() int64 {
	return m.CreatedAt
}
