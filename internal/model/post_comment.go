package model

type PostComment struct {
	ID        uint64 `gorm:"primaryKey" json:"id"`
	PostID    uint64 `gorm:"not null;index:idx_post_comments_post_created,priority:1" json:"postId"`
	UserID    uint64 `gorm:"not null" json:"userId"`
	Content   string `gorm:"type:varchar(1000);not null" json:"content"`
	IsDeleted bool   `gorm:"not null;default:false" json:"isDeleted"`
	CreatedAt int64  `gorm:"not null;autoCreateTime:false;index:idx_post_comments_post_created,priority:2" json:"createdAt"`
}

func (PostComment) TableName() string {
	return "post_comments"
}

func (c *PostComment) GetCreatedAt() int64 {
	return c.CreatedAt
}
