package dto

// SysBoxDTO 系统通知返回对象
type SysBoxDTO struct {
	ID        string `json:"id"`
	SenderID  uint64 `json:"sender_id"`
	Type      int8   `json:"type"`      // 1-点赞, 3-评论, 5-关注
	TargetID  uint64 `json:"target_id"` // 关联的帖子ID或用户ID
	Content   string `json:"content"`   // 预览内容
	IsRead    bool   `json:"is_read"`
	CreatedAt int64  `json:"created_at"`
}

// SysBoxUnreadDTO 未读数返回
type SysBoxUnreadDTO struct {
	UnreadCount int64 `json:"unread_count"`
}

type SysBoxReadReq struct {
	MsgID string `json:"msg_id" binding:"required"`
}
