package model

// FeedEntry 时间线条目，关系型与宽列两种存储的行都实现该接口
type FeedEntry interface {
	GetUserID() uint64
	GetPostID() uint64
	GetCreatedAt() int64
}

// NewsFeed 关系型存储中的时间线条目，(user_id, post_id) 唯一
type NewsFeed struct {
	ID        uint64 `gorm:"primaryKey" json:"id"`
	UserID    uint64 `gorm:"not null;uniqueIndex:uk_news_feeds_user_post,priority:1;index:idx_news_feeds_user_created,priority:1" json:"user_id"`
	PostID    uint64 `gorm:"not null;uniqueIndex:uk_news_feeds_user_post,priority:2" json:"post_id"`
	CreatedAt int64  `gorm:"not null;autoCreateTime:false;index:idx_news_feeds_user_created,priority:2" json:"created_at"`
}

func (NewsFeed) TableName() string {
	return "news_feeds"
}

func (n *NewsFeed) GetUserID() uint64 {
	return n.UserID
}

func (n *NewsFeed) GetPostID() uint64 {
	return n.PostID
}

func (n *NewsFeed) GetCreatedAt() int64 {
	return n.CreatedAt
}
