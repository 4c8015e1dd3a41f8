package model

// Like 点赞记录，(user_id, post_id) 唯一，重复点赞幂等
type Like struct {
	UserID    uint64 `gorm:"primaryKey" json:"userId"`
	PostID    uint64 `gorm:"primaryKey;index:idx_likes_post_id" json:"postId"`
	CreatedAt int64  `gorm:"not null;autoCreateTime:false" json:"createdAt"`
}

func (Like) TableName() string {
	return "likes"
}
