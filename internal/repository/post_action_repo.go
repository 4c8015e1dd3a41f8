package repository

import (
	"Feedcore/internal/model"
	"Feedcore/internal/pkg/pagination"
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostActionRepo 点赞与评论，写入时在同一事务内原子更新帖子上的计数
type PostActionRepo interface {
	CreateLike(ctx context.Context, like *model.Like) (bool, error)
	DeleteLike(ctx context.Context, userID, postID uint64) (bool, error)
	CheckLikeExists(ctx context.Context, userID, postID uint64) (bool, error)
	GetLikeCountByPostID(ctx context.Context, postID uint64) (int64, error)

	CreateComment(ctx context.Context, comment *model.PostComment) error
	DeleteComment(ctx context.Context, commentID uint64) (bool, error)
	GetCommentByID(ctx context.Context, commentID uint64) (*model.PostComment, error)
	PageComments(ctx context.Context, postID uint64, params pagination.Params, pageSize int) ([]*model.PostComment, bool, error)
	GetCommentCountByPostID(ctx context.Context, postID uint64) (int64, error)
}

type PostActionRepoImpl struct {
	db *gorm.DB
}

func NewPostActionRepo(db *gorm.DB) PostActionRepo {
	return &PostActionRepoImpl{db}
}

// CreateLike 返回是否新建，重复点赞不增加计数
func (s *PostActionRepoImpl) CreateLike(ctx context.Context, like *model.Like) (bool, error) {
	created := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(like)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}
		created = true
		return tx.Model(&model.Post{}).
			Where("id = ?", like.PostID).
			Update("likes_count", gorm.Expr("likes_count + 1")).Error
	})
	return created, err
}

// DeleteLike 返回是否删除了点赞
func (s *PostActionRepoImpl) DeleteLike(ctx context.Context, userID, postID uint64) (bool, error) {
	deleted := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("user_id = ? AND post_id = ?", userID, postID).Delete(&model.Like{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}
		deleted = true
		return tx.Model(&model.Post{}).
			Where("id = ? AND likes_count > 0", postID).
			Update("likes_count", gorm.Expr("likes_count - 1")).Error
	})
	return deleted, err
}

func (s *PostActionRepoImpl) CheckLikeExists(ctx context.Context, userID, postID uint64) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.Like{}).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Count(&count).Error
	return count > 0, err
}

func (s *PostActionRepoImpl) GetLikeCountByPostID(ctx context.Context, postID uint64) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.Like{}).
		Where("post_id = ?", postID).
		Count(&count).Error
	return count, err
}

func (s *PostActionRepoImpl) CreateComment(ctx context.Context, comment *model.PostComment) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(comment).Error; err != nil {
			return err
		}
		return tx.Model(&model.Post{}).
			Where("id = ?", comment.PostID).
			Update("comments_count", gorm.Expr("comments_count + 1")).Error
	})
}

// DeleteComment 软删除评论，返回是否删除
func (s *PostActionRepoImpl) DeleteComment(ctx context.Context, commentID uint64) (bool, error) {
	deleted := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var comment model.PostComment
		err := tx.Where("id = ? AND is_deleted = ?", commentID, false).First(&comment).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		err = tx.Model(&model.PostComment{}).
			Where("id = ?", commentID).
			Update("is_deleted", true).Error
		if err != nil {
			return err
		}
		deleted = true
		return tx.Model(&model.Post{}).
			Where("id = ? AND comments_count > 0", comment.PostID).
			Update("comments_count", gorm.Expr("comments_count - 1")).Error
	})
	return deleted, err
}

// GetCommentByID 评论不存在或已删除时返回 nil
func (s *PostActionRepoImpl) GetCommentByID(ctx context.Context, commentID uint64) (*model.PostComment, error) {
	var comment model.PostComment
	err := s.db.WithContext(ctx).
		Where("id = ? AND is_deleted = ?", commentID, false).
		First(&comment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &comment, nil
}

// PageComments 按时间倒序分页获取帖子评论
func (s *PostActionRepoImpl) PageComments(ctx context.Context, postID uint64, params pagination.Params, pageSize int) ([]*model.PostComment, bool, error) {
	query := s.db.Model(&model.PostComment{}).Where("post_id = ? AND is_deleted = ?", postID, false)
	return pagination.New[*model.PostComment](pageSize).PaginateQuery(ctx, query, params)
}

func (s *PostActionRepoImpl) GetCommentCountByPostID(ctx context.Context, postID uint64) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.PostComment{}).
		Where("post_id = ? AND is_deleted = ?", postID, false).
		Count(&count).Error
	return count, err
}
