package model

import "Feedcore/internal/pkg/widecolumn"

// 宽列表结构，用户 ID 反转后作为行键前缀以打散热点
var (
	HBaseNewsFeedSchema = widecolumn.NewSchema("hbase_newsfeeds",
		[]string{"user_id", "created_at"},
		widecolumn.Field{Name: "user_id", Kind: widecolumn.Integer, Reverse: true},
		widecolumn.Field{Name: "created_at", Kind: widecolumn.Timestamp},
		widecolumn.Field{Name: "post_id", Kind: widecolumn.Integer, ColumnFamily: "cf"},
	)

	HBaseFollowerSchema = widecolumn.NewSchema("hbase_followers",
		[]string{"to_user_id", "created_at"},
		widecolumn.Field{Name: "to_user_id", Kind: widecolumn.Integer, Reverse: true},
		widecolumn.Field{Name: "created_at", Kind: widecolumn.Timestamp},
		widecolumn.Field{Name: "from_user_id", Kind: widecolumn.Integer, ColumnFamily: "cf"},
	)

	HBaseFollowingSchema = widecolumn.NewSchema("hbase_followings",
		[]string{"from_user_id", "created_at"},
		widecolumn.Field{Name: "from_user_id", Kind: widecolumn.Integer, Reverse: true},
		widecolumn.Field{Name: "created_at", Kind: widecolumn.Timestamp},
		widecolumn.Field{Name: "to_user_id", Kind: widecolumn.Integer, ColumnFamily: "cf"},
	)
)

// HBaseNewsFeed 宽列存储中的时间线条目
type HBaseNewsFeed struct {
	UserID    uint64 `json:"user_id"`
	CreatedAt int64  `json:"created_at"`
	PostID    uint64 `json:"post_id"`
}

func (n *HBaseNewsFeed) GetUserID() uint64 {
	return n.UserID
}

func (n *HBaseNewsFeed) GetPostID() uint64 {
	return n.PostID
}

func (n *HBaseNewsFeed) GetCreatedAt() int64 {
	return n.CreatedAt
}

func (n *HBaseNewsFeed) Values() widecolumn.Values {
	return widecolumn.Values{"user_id": n.UserID, "created_at": n.CreatedAt, "post_id": n.PostID}
}

func HBaseNewsFeedFromValues(v widecolumn.Values) *HBaseNewsFeed {
	return &HBaseNewsFeed{
		UserID:    v.Uint64("user_id"),
		CreatedAt: v.Int64("created_at"),
		PostID:    v.Uint64("post_id"),
	}
}

// HBaseFollower 粉丝镜像表的一行：FromUserID 关注了 ToUserID
type HBaseFollower struct {
	ToUserID   uint64
	CreatedAt  int64
	FromUserID uint64
}

func (f *HBaseFollower) Values() widecolumn.Values {
	return widecolumn.Values{"to_user_id": f.ToUserID, "created_at": f.CreatedAt, "from_user_id": f.FromUserID}
}

// HBaseFollowing 关注镜像表的一行
type HBaseFollowing struct {
	FromUserID uint64
	CreatedAt  int64
	ToUserID   uint64
}

func (f *HBaseFollowing) Values() widecolumn.Values {
	return widecolumn.Values{"from_user_id": f.FromUserID, "created_at": f.CreatedAt, "to_user_id": f.ToUserID}
}

// ToUserFollow 两张镜像表都还原为同一种关注关系
func (f *HBaseFollower) ToUserFollow() *UserFollow {
	return &UserFollow{FollowerID: f.FromUserID, FollowingID: f.ToUserID, CreatedAt: f.CreatedAt}
}

func (f *HBaseFollowing) ToUserFollow() *UserFollow {
	return &UserFollow{FollowerID: f.FromUserID, FollowingID: f.ToUserID, CreatedAt: f.CreatedAt}
}

func HBaseFollowerFromValues(v widecolumn.Values) *HBaseFollower {
	return &HBaseFollower{
		ToUserID:   v.Uint64("to_user_id"),
		CreatedAt:  v.Int64("created_at"),
		FromUserID: v.Uint64("from_user_id"),
	}
}

func HBaseFollowingFromValues(v widecolumn.Values) *HBaseFollowing {
	return &HBaseFollowing{
		FromUserID: v.Uint64("from_user_id"),
		CreatedAt:  v.Int64("created_at"),
		ToUserID:   v.Uint64("to_user_id"),
	}
}

func (f *HBaseFollower) GetCreatedAt() int64 {
	return f.CreatedAt
}

func (f *HBaseFollowing) GetCreatedAt() int64 {
	return f.CreatedAt
}
