package dto

// CommentCreateDTO 创建评论请求
type CommentCreateDTO struct {
	PostID  uint64 `json:"post_id" binding:"required"`
	Content string `json:"content" binding:"required,max=1000"`
}

// CommentDTO 评论返回详情
type CommentDTO struct {
	ID        uint64 `json:"id"`
	PostID    uint64 `json:"post_id"`
	UserID    uint64 `json:"user_id"`
	Content   string `json:"content"`
	CreatedAt int64  `json:"created_at"`
}

// PostActionStateDTO 帖子交互状态
type PostActionStateDTO struct {
	LikeCount    int64 `json:"like_count"`
	CommentCount int64 `json:"comment_count"`
	IsLiked      bool  `json:"is_liked"`
}

// PostLikeReq 点赞/取消点赞
type PostLikeReq struct {
	Action int `json:"action" binding:"required,oneof=1 2"` // 1:执行, 2:取消
}
