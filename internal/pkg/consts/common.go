package consts

// 计数缓存的实体与字段
const (
	CounterEntityPost   = "posts"
	CounterLikesCount   = "likes_count"
	CounterCommentCount = "comments_count"
)

// 系统通知类型
const (
	NotifyPostLike    int8 = 1
	NotifyPostComment int8 = 3
	NotifyFollow      int8 = 5
)
