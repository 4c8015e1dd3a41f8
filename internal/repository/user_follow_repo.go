package repository

import (
	"Feedcore/internal/model"
	"Feedcore/internal/pkg/pagination"
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserFollowRepo 关注关系存储，关系型与宽列各有一个实现
type UserFollowRepo interface {
	Backend() Backend
	GetUserFollowerCount(ctx context.Context, userID uint64) (int64, error)
	GetUserFollowingCount(ctx context.Context, userID uint64) (int64, error)
	GetUserFollow(ctx context.Context, followerID, followingID uint64) (*model.UserFollow, error)
	GetFollowerIDs(ctx context.Context, userID uint64) ([]uint64, error)
	GetFollowingIDs(ctx context.Context, userID uint64) ([]uint64, error)
	PageUserFollowers(ctx context.Context, userID uint64, params pagination.Params, pageSize int) ([]*model.UserFollow, bool, error)
	PageUserFollowings(ctx context.Context, userID uint64, params pagination.Params, pageSize int) ([]*model.UserFollow, bool, error)
	CreateUserFollow(ctx context.Context, userFollow *model.UserFollow) error
	DeleteUserFollow(ctx context.Context, followerID, followingID uint64) (int64, error)
}

type UserFollowRepoImpl struct {
	db *gorm.DB
}

func NewUserFollowRepo(db *gorm.DB) UserFollowRepo {
	return &UserFollowRepoImpl{db: db}
}

func (s *UserFollowRepoImpl) Backend() Backend {
	return BackendRelational
}

// GetUserFollowerCount 获取用户的粉丝数量
func (s *UserFollowRepoImpl) GetUserFollowerCount(ctx context.Context, userID uint64) (int64, error) {
	var count int64
	result := s.db.WithContext(ctx).
		Model(&model.UserFollow{}).
		Where("following_id = ?", userID).
		Count(&count)

	if result.Error != nil {
		return 0, result.Error
	}
	return count, nil
}

// GetUserFollowingCount 获取用户的关注数量
func (s *UserFollowRepoImpl) GetUserFollowingCount(ctx context.Context, userID uint64) (int64, error) {
	var count int64
	result := s.db.WithContext(ctx).
		Model(&model.UserFollow{}).
		Where("follower_id = ?", userID).
		Count(&count)

	if result.Error != nil {
		return 0, result.Error
	}
	return count, nil
}

// GetUserFollow 获取关注关系，不存在时返回 nil
func (s *UserFollowRepoImpl) GetUserFollow(ctx context.Context, followerID, followingID uint64) (*model.UserFollow, error) {
	var userFollow model.UserFollow
	result := s.db.WithContext(ctx).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		First(&userFollow)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &userFollow, nil
}

// GetFollowerIDs 获取全部粉丝 ID
func (s *UserFollowRepoImpl) GetFollowerIDs(ctx context.Context, userID uint64) ([]uint64, error) {
	var ids []uint64
	err := s.db.WithContext(ctx).
		Model(&model.UserFollow{}).
		Where("following_id = ?", userID).
		Order("created_at desc").
		Pluck("follower_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// GetFollowingIDs 获取全部关注 ID
func (s *UserFollowRepoImpl) GetFollowingIDs(ctx context.Context, userID uint64) ([]uint64, error) {
	var ids []uint64
	err := s.db.WithContext(ctx).
		Model(&model.UserFollow{}).
		Where("follower_id = ?", userID).
		Order("created_at desc").
		Pluck("following_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (s *UserFollowRepoImpl) PageUserFollowers(ctx context.Context, userID uint64, params pagination.Params, pageSize int) ([]*model.UserFollow, bool, error) {
	return pagination.New[*model.UserFollow](pageSize).
		PaginateQuery(ctx, s.db.Model(&model.UserFollow{}).Where("following_id = ?", userID), params)
}

func (s *UserFollowRepoImpl) PageUserFollowings(ctx context.Context, userID uint64, params pagination.Params, pageSize int) ([]*model.UserFollow, bool, error) {
	return pagination.New[*model.UserFollow](pageSize).
		PaginateQuery(ctx, s.db.Model(&model.UserFollow{}).Where("follower_id = ?", userID), params)
}

// CreateUserFollow 创建关注关系，已存在时不做任何事
func (s *UserFollowRepoImpl) CreateUserFollow(ctx context.Context, userFollow *model.UserFollow) error {
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			DoNothing: true,
		}).
		Create(userFollow).Error
}

// DeleteUserFollow 删除关注关系，返回删除的行数
func (s *UserFollowRepoImpl) DeleteUserFollow(ctx context.Context, followerID, followingID uint64) (int64, error) {
	result := s.db.WithContext(ctx).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Delete(&model.UserFollow{})
	return result.RowsAffected, result.Error
}
