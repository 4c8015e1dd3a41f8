package model

// UserFollow 关注关系，FollowerID 关注了 FollowingID
type UserFollow struct {
	FollowerID  uint64 `gorm:"primaryKey;index:idx_user_follows_follower_created,priority:1" json:"followerId"`
	FollowingID uint64 `gorm:"primaryKey;index:idx_user_follows_following_created,priority:1" json:"followingId"`
	CreatedAt   int64  `gorm:"not null;autoCreateTime:false;index:idx_user_follows_follower_created,priority:2;index:idx_user_follows_following_created,priority:2" json:"createdAt"`
}

func (UserFollow) TableName() string {
	return "user_follows"
}

func (u *UserFollow) GetCreatedAt() int64 {
	return u.CreatedAt
}
