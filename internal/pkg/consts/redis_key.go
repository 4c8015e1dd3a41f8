package consts

const (
	UserNewsFeedsKey      = "user:newsfeeds:"
	UserPostsKey          = "user:posts:"
	PostDetailKey         = "post:detail:"
	UserFollowingSetKey   = "user:following:set:"
	UserFollowerCountKey  = "user:follower:count:"
	UserFollowingCountKey = "user:following:count:"
	TaskDeadLetterKey     = "task:dead_letter"
	TokenRevokedKey       = "token:revoked:"
)

const (
	TaskRetryLock = "lock:task:retry"
)
