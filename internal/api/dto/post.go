package dto

// PostCreateDTO 发帖请求
type PostCreateDTO struct {
	Content string `json:"content" binding:"required,max=1000"`
}

// PostDTO 帖子详情
type PostDTO struct {
	ID            uint64 `json:"id"`
	UserID        uint64 `json:"user_id"`
	Content       string `json:"content"`
	LikesCount    int    `json:"likes_count"`
	CommentsCount int    `json:"comments_count"`
	CreatedAt     int64  `json:"created_at"`
}
