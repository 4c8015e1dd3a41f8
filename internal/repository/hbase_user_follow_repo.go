package repository

import (
	"Feedcore/internal/model"
	"Feedcore/internal/pkg/pagination"
	"Feedcore/internal/pkg/widecolumn"
	"context"
	log "log/slog"
)

// HBaseUserFollowRepoImpl 关注关系写入两张镜像表：
// hbase_followings 按关注者查，hbase_followers 按被关注者查，两边 created_at 相同
type HBaseUserFollowRepoImpl struct {
	followers  *widecolumn.Table
	followings *widecolumn.Table
}

func NewHBaseUserFollowRepo(backend widecolumn.Backend, testing bool) UserFollowRepo {
	return &HBaseUserFollowRepoImpl{
		followers:  widecolumn.NewTable(model.HBaseFollowerSchema, backend, testing),
		followings: widecolumn.NewTable(model.HBaseFollowingSchema, backend, testing),
	}
}

func (s *HBaseUserFollowRepoImpl) Backend() Backend {
	return BackendWideColumn
}

// Tables 暴露底层表，供测试建表
func (s *HBaseUserFollowRepoImpl) Tables() []*widecolumn.Table {
	return []*widecolumn.Table{s.followers, s.followings}
}

func (s *HBaseUserFollowRepoImpl) GetUserFollowerCount(ctx context.Context, userID uint64) (int64, error) {
	return s.followers.CountRows(ctx, userID)
}

func (s *HBaseUserFollowRepoImpl) GetUserFollowingCount(ctx context.Context, userID uint64) (int64, error) {
	return s.followings.CountRows(ctx, userID)
}

// GetUserFollow 在关注者的 followings 中查找被关注者
func (s *HBaseUserFollowRepoImpl) GetUserFollow(ctx context.Context, followerID, followingID uint64) (*model.UserFollow, error) {
	following, err := s.findFollowing(ctx, followerID, followingID)
	if err != nil || following == nil {
		return nil, err
	}
	return following.ToUserFollow(), nil
}

func (s *HBaseUserFollowRepoImpl) GetFollowerIDs(ctx context.Context, userID uint64) ([]uint64, error) {
	rows, err := s.followers.Scan(ctx, widecolumn.ScanOptions{Prefix: []any{userID}, Reverse: true})
	if err != nil {
		return nil, err
	}
	ids := make([]uint64, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.Uint64("from_user_id"))
	}
	return ids, nil
}

func (s *HBaseUserFollowRepoImpl) GetFollowingIDs(ctx context.Context, userID uint64) ([]uint64, error) {
	rows, err := s.followings.Scan(ctx, widecolumn.ScanOptions{Prefix: []any{userID}, Reverse: true})
	if err != nil {
		return nil, err
	}
	ids := make([]uint64, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.Uint64("to_user_id"))
	}
	return ids, nil
}

func (s *HBaseUserFollowRepoImpl) PageUserFollowers(ctx context.Context, userID uint64, params pagination.Params, pageSize int) ([]*model.UserFollow, bool, error) {
	rows, hasNext, err := pagination.New[*model.HBaseFollower](pageSize).
		PaginateWideColumn(ctx, s.followers, []any{userID}, params, model.HBaseFollowerFromValues)
	if err != nil {
		return nil, false, err
	}
	follows := make([]*model.UserFollow, 0, len(rows))
	for _, row := range rows {
		follows = append(follows, row.ToUserFollow())
	}
	return follows, hasNext, nil
}

func (s *HBaseUserFollowRepoImpl) PageUserFollowings(ctx context.Context, userID uint64, params pagination.Params, pageSize int) ([]*model.UserFollow, bool, error) {
	rows, hasNext, err := pagination.New[*model.HBaseFollowing](pageSize).
		PaginateWideColumn(ctx, s.followings, []any{userID}, params, model.HBaseFollowingFromValues)
	if err != nil {
		return nil, false, err
	}
	follows := make([]*model.UserFollow, 0, len(rows))
	for _, row := range rows {
		follows = append(follows, row.ToUserFollow())
	}
	return follows, hasNext, nil
}

// CreateUserFollow 两张镜像表写入同一时间戳，关系已存在时不做任何事
func (s *HBaseUserFollowRepoImpl) CreateUserFollow(ctx context.Context, userFollow *model.UserFollow) error {
	existing, err := s.findFollowing(ctx, userFollow.FollowerID, userFollow.FollowingID)
	if err != nil {
		return err
	}
	if existing != nil {
		userFollow.CreatedAt = existing.CreatedAt
		return nil
	}

	following := &model.HBaseFollowing{
		FromUserID: userFollow.FollowerID,
		CreatedAt:  userFollow.CreatedAt,
		ToUserID:   userFollow.FollowingID,
	}
	follower := &model.HBaseFollower{
		ToUserID:   userFollow.FollowingID,
		CreatedAt:  userFollow.CreatedAt,
		FromUserID: userFollow.FollowerID,
	}
	if err = s.followings.Put(ctx, following.Values()); err != nil {
		return err
	}
	return s.followers.Put(ctx, follower.Values())
}

// DeleteUserFollow 先在 followings 找到关系及其时间戳，再删除两张镜像表中的行
// 只有一边存在时清理残留的一边，按未找到处理
func (s *HBaseUserFollowRepoImpl) DeleteUserFollow(ctx context.Context, followerID, followingID uint64) (int64, error) {
	following, err := s.findFollowing(ctx, followerID, followingID)
	if err != nil {
		return 0, err
	}
	if following == nil {
		return 0, s.deleteOrphanFollower(ctx, followerID, followingID)
	}

	followerKey := widecolumn.Values{"to_user_id": followingID, "created_at": following.CreatedAt}
	follower, err := s.followers.Get(ctx, followerKey)
	if err != nil {
		return 0, err
	}

	err = s.followings.Delete(ctx, widecolumn.Values{"from_user_id": followerID, "created_at": following.CreatedAt})
	if err != nil {
		return 0, err
	}
	if follower == nil || follower.Uint64("from_user_id") != followerID {
		log.WarnContext(ctx, "follower mirror missing", "follower_id", followerID, "following_id", followingID)
		return 0, nil
	}
	if err = s.followers.Delete(ctx, followerKey); err != nil {
		return 0, err
	}
	return 1, nil
}

func (s *HBaseUserFollowRepoImpl) deleteOrphanFollower(ctx context.Context, followerID, followingID uint64) error {
	rows, err := s.followers.Scan(ctx, widecolumn.ScanOptions{Prefix: []any{followingID}})
	if err != nil {
		return err
	}
	for _, row := range rows {
		if row.Uint64("from_user_id") != followerID {
			continue
		}
		log.WarnContext(ctx, "following mirror missing", "follower_id", followerID, "following_id", followingID)
		return s.followers.Delete(ctx, widecolumn.Values{"to_user_id": followingID, "created_at": row.Int64("created_at")})
	}
	return nil
}

func (s *HBaseUserFollowRepoImpl) findFollowing(ctx context.Context, followerID, followingID uint64) (*model.HBaseFollowing, error) {
	rows, err := s.followings.Scan(ctx, widecolumn.ScanOptions{Prefix: []any{followerID}})
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		if row.Uint64("to_user_id") == followingID {
			return model.HBaseFollowingFromValues(row), nil
		}
	}
	return nil, nil
}
