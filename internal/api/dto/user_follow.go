package dto

// UserFollowDTO 关注关系
type UserFollowDTO struct {
	FollowerID  uint64 `json:"follower_id"`
	FollowingID uint64 `json:"following_id"`
	CreatedAt   int64  `json:"created_at"`
}

type FollowStateDTO struct {
	Followed bool `json:"followed"`
}

type UnfollowDTO struct {
	Deleted int64 `json:"deleted"`
}
