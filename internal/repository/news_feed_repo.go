package repository

import (
	"Feedcore/internal/model"
	"Feedcore/internal/pkg/pagination"
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// NewsFeedRepo 时间线存储，关系型与宽列各有一个实现
type NewsFeedRepo interface {
	Backend() Backend
	CreateNewsFeed(ctx context.Context, userID, postID uint64, createdAt int64) (model.FeedEntry, bool, error)
	BatchCreateNewsFeeds(ctx context.Context, postID uint64, createdAt int64, userIDs []uint64) ([]model.FeedEntry, error)
	GetLatestNewsFeeds(ctx context.Context, userID uint64, limit int) ([]model.FeedEntry, error)
	PageNewsFeeds(ctx context.Context, userID uint64, params pagination.Params, pageSize int) ([]model.FeedEntry, bool, error)
	CountAll(ctx context.Context) (int64, error)
}

const newsFeedInsertBatch = 500

var errBatchRaced = errors.New("newsfeed batch raced with another writer")

type NewsFeedRepoImpl struct {
	db *gorm.DB
}

func NewNewsFeedRepo(db *gorm.DB) NewsFeedRepo {
	return &NewsFeedRepoImpl{db: db}
}

func (s *NewsFeedRepoImpl) Backend() Backend {
	return BackendRelational
}

// CreateNewsFeed 创建单条时间线，(user_id, post_id) 已存在时返回已有记录且 created 为 false
func (s *NewsFeedRepoImpl) CreateNewsFeed(ctx context.Context, userID, postID uint64, createdAt int64) (model.FeedEntry, bool, error) {
	feed := &model.NewsFeed{UserID: userID, PostID: postID, CreatedAt: createdAt}
	result := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(feed)
	if result.Error != nil {
		return nil, false, result.Error
	}
	if result.RowsAffected > 0 {
		return feed, true, nil
	}

	var existing model.NewsFeed
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		First(&existing).Error
	if err != nil {
		return nil, false, err
	}
	return &existing, false, nil
}

// BatchCreateNewsFeeds 批量创建，已存在的 (user_id, post_id) 被跳过，只返回本次新建的条目
func (s *NewsFeedRepoImpl) BatchCreateNewsFeeds(ctx context.Context, postID uint64, createdAt int64, userIDs []uint64) ([]model.FeedEntry, error) {
	if len(userIDs) == 0 {
		return []model.FeedEntry{}, nil
	}

	var existing []uint64
	err := s.db.WithContext(ctx).
		Model(&model.NewsFeed{}).
		Where("post_id = ? AND user_id IN ?", postID, userIDs).
		Pluck("user_id", &existing).Error
	if err != nil {
		return nil, err
	}
	skip := make(map[uint64]struct{}, len(existing))
	for _, id := range existing {
		skip[id] = struct{}{}
	}

	feeds := make([]*model.NewsFeed, 0, len(userIDs))
	for _, userID := range userIDs {
		if _, ok := skip[userID]; ok {
			continue
		}
		skip[userID] = struct{}{}
		feeds = append(feeds, &model.NewsFeed{UserID: userID, PostID: postID, CreatedAt: createdAt})
	}
	if len(feeds) == 0 {
		return []model.FeedEntry{}, nil
	}

	created := feeds
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Clauses(clause.OnConflict{DoNothing: true}).CreateInBatches(feeds, newsFeedInsertBatch)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == int64(len(feeds)) {
			return nil
		}
		return errBatchRaced
	})
	if errors.Is(err, errBatchRaced) {
		// 查询之后有并发写入，逐条重插以区分哪些是本次新建的
		created, err = s.createEach(ctx, feeds)
	}
	if err != nil {
		return nil, err
	}
	return toFeedEntries(created), nil
}

// createEach 在一个事务内逐条插入，只返回真正写入的条目
func (s *NewsFeedRepoImpl) createEach(ctx context.Context, feeds []*model.NewsFeed) ([]*model.NewsFeed, error) {
	created := make([]*model.NewsFeed, 0, len(feeds))
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		created = created[:0]
		for _, feed := range feeds {
			feed.ID = 0
			result := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(feed)
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected > 0 {
				created = append(created, feed)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// GetLatestNewsFeeds 获取最新的 limit 条，新到旧
func (s *NewsFeedRepoImpl) GetLatestNewsFeeds(ctx context.Context, userID uint64, limit int) ([]model.FeedEntry, error) {
	var feeds []*model.NewsFeed
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Limit(limit).
		Find(&feeds).Error
	if err != nil {
		return nil, err
	}
	return toFeedEntries(feeds), nil
}

func (s *NewsFeedRepoImpl) PageNewsFeeds(ctx context.Context, userID uint64, params pagination.Params, pageSize int) ([]model.FeedEntry, bool, error) {
	feeds, hasNext, err := pagination.New[*model.NewsFeed](pageSize).
		PaginateQuery(ctx, s.db.Model(&model.NewsFeed{}).Where("user_id = ?", userID), params)
	if err != nil {
		return nil, false, err
	}
	return toFeedEntries(feeds), hasNext, nil
}

func (s *NewsFeedRepoImpl) CountAll(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.NewsFeed{}).Count(&count).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, err
	}
	return count, nil
}

func toFeedEntries[T model.FeedEntry](feeds []T) []model.FeedEntry {
	entries := make([]model.FeedEntry, 0, len(feeds))
	for _, feed := range feeds {
		entries = append(entries, feed)
	}
	return entries
}
