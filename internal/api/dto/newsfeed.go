package dto

// NewsFeedDTO 时间线条目，Post 为解析后的帖子，帖子已删除时为空
type NewsFeedDTO struct {
	UserID    uint64   `json:"user_id"`
	PostID    uint64   `json:"post_id"`
	CreatedAt int64    `json:"created_at"`
	Post      *PostDTO `json:"post"`
}
