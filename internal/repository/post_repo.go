package repository

import (
	"Feedcore/internal/model"
	"Feedcore/internal/pkg/pagination"
	"context"
	"errors"

	"gorm.io/gorm"
)

type PostRepo interface {
	CreatePost(ctx context.Context, post *model.Post) error
	GetPost(ctx context.Context, id uint64) (*model.Post, error)
	GetPostByIds(ctx context.Context, ids []uint64) ([]*model.Post, error)
	GetLatestUserPosts(ctx context.Context, userID uint64, limit int) ([]*model.Post, error)
	PageUserPosts(ctx context.Context, userID uint64, params pagination.Params, pageSize int) ([]*model.Post, bool, error)
	GetLikesCount(ctx context.Context, id uint64) (int64, error)
	GetCommentsCount(ctx context.Context, id uint64) (int64, error)
	DeletePost(ctx context.Context, id uint64) error
}

type PostRepoImpl struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) PostRepo {
	return &PostRepoImpl{
		db: db,
	}
}

func (s PostRepoImpl) CreatePost(ctx context.Context, post *model.Post) error {
	return s.db.WithContext(ctx).Create(post).Error
}

// GetPost 获取帖子，不存在或已删除时返回 nil
func (s PostRepoImpl) GetPost(ctx context.Context, id uint64) (*model.Post, error) {
	var post model.Post
	err := s.db.WithContext(ctx).
		Where("id = ? AND is_deleted = ?", id, false).
		First(&post).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &post, nil
}

func (s PostRepoImpl) GetPostByIds(ctx context.Context, ids []uint64) ([]*model.Post, error) {
	var posts []*model.Post
	if len(ids) == 0 {
		return posts, nil
	}
	err := s.db.WithContext(ctx).
		Where("id IN ? AND is_deleted = ?", ids, false).
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// GetLatestUserPosts 获取用户最新的 limit 篇帖子
func (s PostRepoImpl) GetLatestUserPosts(ctx context.Context, userID uint64, limit int) ([]*model.Post, error) {
	var posts []*model.Post
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND is_deleted = ?", userID, false).
		Order("created_at desc").
		Limit(limit).
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

func (s PostRepoImpl) PageUserPosts(ctx context.Context, userID uint64, params pagination.Params, pageSize int) ([]*model.Post, bool, error) {
	query := s.db.Model(&model.Post{}).Where("user_id = ? AND is_deleted = ?", userID, false)
	return pagination.New[*model.Post](pageSize).PaginateQuery(ctx, query, params)
}

func (s PostRepoImpl) GetLikesCount(ctx context.Context, id uint64) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.Post{}).
		Where("id = ?", id).
		Select("likes_count").Scan(&count).Error
	return count, err
}

func (s PostRepoImpl) GetCommentsCount(ctx context.Context, id uint64) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.Post{}).
		Where("id = ?", id).
		Select("comments_count").Scan(&count).Error
	return count, err
}

func (s PostRepoImpl) DeletePost(ctx context.Context, id uint64) error {
	return s.db.WithContext(ctx).Model(&model.Post{}).Where("id = ?", id).Update("is_deleted", true).Error
}
