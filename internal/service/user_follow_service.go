package service

import (
	"Feedcore/internal/model"
	"Feedcore/internal/pkg/consts"
	"Feedcore/internal/pkg/gatekeeper"
	"Feedcore/internal/pkg/pagination"
	"Feedcore/internal/pkg/redis"
	"Feedcore/internal/pkg/util"
	"Feedcore/internal/repository"
	"context"
	log "log/slog"
	"strconv"
	"time"
)

const MaxFollowingCount = 5000

type UserFollowService interface {
	Follow(ctx context.Context, followerID, followingID uint64) (*model.UserFollow, error)
	Unfollow(ctx context.Context, followerID, followingID uint64) (int64, error)
	HasFollowed(ctx context.Context, followerID, followingID uint64) (bool, error)
	GetUserFollowerCount(ctx context.Context, userID uint64) (int64, error)
	GetUserFollowingCount(ctx context.Context, userID uint64) (int64, error)
	GetFollowersID(ctx context.Context, userID uint64) ([]uint64, error)
	GetFollowingUserIDSet(ctx context.Context, userID uint64) (map[uint64]struct{}, error)
	ListFollowers(ctx context.Context, userID uint64, params pagination.Params) ([]*model.UserFollow, bool, error)
	ListFollowings(ctx context.Context, userID uint64, params pagination.Params) ([]*model.UserFollow, bool, error)
}

type UserFollowServiceImpl struct {
	relational repository.UserFollowRepo
	wideColumn repository.UserFollowRepo
	gk         *gatekeeper.GateKeeper
	client     *redis.Client
	sysBoxSvc  SysBoxService
	ttl        time.Duration
	pageSize   int
}

func NewUserFollowService(
	relational repository.UserFollowRepo,
	wideColumn repository.UserFollowRepo,
	gk *gatekeeper.GateKeeper,
	client *redis.Client,
	sysBoxSvc SysBoxService,
	ttl time.Duration,
	pageSize int,
) UserFollowService {
	return &UserFollowServiceImpl{
		relational: relational,
		wideColumn: wideColumn,
		gk:         gk,
		client:     client,
		sysBoxSvc:  sysBoxSvc,
		ttl:        ttl,
		pageSize:   pageSize,
	}
}

type fetchCountFunc func(ctx context.Context, userId uint64) (int64, error)

// repo 每次调用读取开关决定主存储
func (s *UserFollowServiceImpl) repo(ctx context.Context) repository.UserFollowRepo {
	on, err := s.gk.IsSwitchOn(ctx, gatekeeper.SwitchFriendshipToHBase)
	if err != nil {
		log.WarnContext(ctx, "read friendship switch error", "err", err)
		return s.relational
	}
	if on {
		return s.wideColumn
	}
	return s.relational
}

// Follow 关注自己时什么都不做，已关注时返回已有关系
func (s *UserFollowServiceImpl) Follow(ctx context.Context, followerID, followingID uint64) (*model.UserFollow, error) {
	if followerID == followingID {
		return nil, nil
	}
	repo := s.repo(ctx)

	existing, err := repo.GetUserFollow(ctx, followerID, followingID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	count, err := s.getCountCommon(ctx, followerID, consts.UserFollowingCountKey, repo.GetUserFollowingCount)
	if err != nil {
		return nil, err
	}
	if count >= MaxFollowingCount {
		return nil, ErrUserFollowLimit
	}

	userFollow := &model.UserFollow{
		FollowerID:  followerID,
		FollowingID: followingID,
		CreatedAt:   util.NowMicros(),
	}
	if err = repo.CreateUserFollow(ctx, userFollow); err != nil {
		return nil, err
	}
	s.invalidate(ctx, followerID, followingID)

	if s.sysBoxSvc != nil {
		err = s.sysBoxSvc.Notify(ctx, followingID, followerID, consts.NotifyFollow, followerID, "")
		if err != nil {
			log.WarnContext(ctx, "follow notification error", "follower_id", followerID, "following_id", followingID, "err", err)
		}
	}
	return userFollow, nil
}

// Unfollow 返回删除的关系数量，重复调用返回 0
func (s *UserFollowServiceImpl) Unfollow(ctx context.Context, followerID, followingID uint64) (int64, error) {
	if followerID == followingID {
		return 0, nil
	}
	deleted, err := s.repo(ctx).DeleteUserFollow(ctx, followerID, followingID)
	if err != nil {
		return 0, err
	}
	s.invalidate(ctx, followerID, followingID)
	return deleted, nil
}

func (s *UserFollowServiceImpl) HasFollowed(ctx context.Context, followerID, followingID uint64) (bool, error) {
	userFollow, err := s.repo(ctx).GetUserFollow(ctx, followerID, followingID)
	if err != nil {
		return false, err
	}
	return userFollow != nil, nil
}

func (s *UserFollowServiceImpl) GetUserFollowerCount(ctx context.Context, userID uint64) (int64, error) {
	return s.getCountCommon(ctx, userID, consts.UserFollowerCountKey, s.repo(ctx).GetUserFollowerCount)
}

func (s *UserFollowServiceImpl) GetUserFollowingCount(ctx context.Context, userID uint64) (int64, error) {
	return s.getCountCommon(ctx, userID, consts.UserFollowingCountKey, s.repo(ctx).GetUserFollowingCount)
}

// GetFollowersID 全部粉丝 ID，扇出时使用
func (s *UserFollowServiceImpl) GetFollowersID(ctx context.Context, userID uint64) ([]uint64, error) {
	return s.repo(ctx).GetFollowerIDs(ctx, userID)
}

// GetFollowingUserIDSet 全部关注 ID，缓存在 Redis 集合中，关注变更时删除
func (s *UserFollowServiceImpl) GetFollowingUserIDSet(ctx context.Context, userID uint64) (map[uint64]struct{}, error) {
	key := consts.UserFollowingSetKey + strconv.FormatUint(userID, 10)

	members, err := s.client.GetSet(ctx, key)
	if err != nil {
		log.WarnContext(ctx, "read following set cache error", "user_id", userID, "err", err)
	}
	if err == nil && len(members) > 0 {
		ids, err := util.StrSliceToUInt64Slice(members)
		if err == nil {
			return toIDSet(ids), nil
		}
		log.WarnContext(ctx, "decode following set cache error", "user_id", userID, "err", err)
	}

	ids, err := s.repo(ctx).GetFollowingIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(ids) > 0 {
		if err = s.client.SetSetWithExpiration(ctx, key, util.UInt64SliceToStrSlice(ids), s.ttl); err != nil {
			log.WarnContext(ctx, "write following set cache error", "user_id", userID, "err", err)
		}
	}
	return toIDSet(ids), nil
}

func (s *UserFollowServiceImpl) ListFollowers(ctx context.Context, userID uint64, params pagination.Params) ([]*model.UserFollow, bool, error) {
	return s.repo(ctx).PageUserFollowers(ctx, userID, params, s.pageSize)
}

func (s *UserFollowServiceImpl) ListFollowings(ctx context.Context, userID uint64, params pagination.Params) ([]*model.UserFollow, bool, error) {
	return s.repo(ctx).PageUserFollowings(ctx, userID, params, s.pageSize)
}

func (s *UserFollowServiceImpl) invalidate(ctx context.Context, followerID, followingID uint64) {
	err := s.client.DeleteKey(ctx,
		consts.UserFollowingSetKey+strconv.FormatUint(followerID, 10),
		consts.UserFollowingCountKey+strconv.FormatUint(followerID, 10),
		consts.UserFollowerCountKey+strconv.FormatUint(followingID, 10),
	)
	if err != nil {
		log.WarnContext(ctx, "invalidate follow cache error", "follower_id", followerID, "following_id", followingID, "err", err)
	}
}

func (s *UserFollowServiceImpl) getCountCommon(
	ctx context.Context,
	userId uint64,
	keyPrefix string,
	fetchDB fetchCountFunc,
) (int64, error) {
	key := keyPrefix + strconv.FormatUint(userId, 10)

	valStr, err := s.client.GetValue(ctx, key)
	if err == nil && valStr != "" {
		return strconv.ParseInt(valStr, 10, 64)
	}

	count, err := fetchDB(ctx, userId)
	if err != nil {
		return 0, err
	}

	_ = s.client.SetWithExpiration(ctx, key, count, s.ttl)
	return count, nil
}

func toIDSet(ids []uint64) map[uint64]struct{} {
	set := make(map[uint64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
