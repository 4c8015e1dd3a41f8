package model

// Post 帖子，created_at 为微秒时间戳，同时作为分页游标
type Post struct {
	ID            uint64 `gorm:"primaryKey" json:"id"`
	UserID        uint64 `gorm:"not null;index:idx_posts_user_created,priority:1" json:"user_id"`
	Content       string `gorm:"type:varchar(1000);not null" json:"content"`
	LikesCount    int    `gorm:"not null;default:0" json:"likes_count"`
	CommentsCount int    `gorm:"not null;default:0" json:"comments_count"`
	IsDeleted     bool   `gorm:"not null;default:false" json:"is_deleted"`
	CreatedAt     int64  `gorm:"not null;autoCreateTime:false;index:idx_posts_user_created,priority:2" json:"created_at"`
}

func (Post) TableName() string {
	return "posts"
}

func (p *Post) GetCreatedAt() int64 {
	return p.CreatedAt
}
