package repository

import (
	"Feedcore/internal/model"
	"Feedcore/internal/pkg/pagination"
	"Feedcore/internal/pkg/widecolumn"
	"context"
	log "log/slog"
)

// feedRowState 时间线行键 (user_id, created_at) 上已有数据的情况
type feedRowState int

const (
	feedRowAbsent feedRowState = iota
	feedRowSame
	// 同一微秒内另一篇帖子已占用该行
	feedRowTaken
)

type HBaseNewsFeedRepoImpl struct {
	table *widecolumn.Table
}

func NewHBaseNewsFeedRepo(backend widecolumn.Backend, testing bool) NewsFeedRepo {
	return &HBaseNewsFeedRepoImpl{
		table: widecolumn.NewTable(model.HBaseNewsFeedSchema, backend, testing),
	}
}

func (s *HBaseNewsFeedRepoImpl) Backend() Backend {
	return BackendWideColumn
}

// CreateNewsFeed 行键为 (user_id, created_at)，该行已被占用时不写入，created 为 false
func (s *HBaseNewsFeedRepoImpl) CreateNewsFeed(ctx context.Context, userID, postID uint64, createdAt int64) (model.FeedEntry, bool, error) {
	feed := &model.HBaseNewsFeed{UserID: userID, CreatedAt: createdAt, PostID: postID}
	state, err := s.rowState(ctx, feed)
	if err != nil {
		return nil, false, err
	}
	if state != feedRowAbsent {
		return feed, false, nil
	}
	if err = s.table.Put(ctx, feed.Values()); err != nil {
		return nil, false, err
	}
	return feed, true, nil
}

// BatchCreateNewsFeeds 一次批量写入，行已被占用的用户被跳过
func (s *HBaseNewsFeedRepoImpl) BatchCreateNewsFeeds(ctx context.Context, postID uint64, createdAt int64, userIDs []uint64) ([]model.FeedEntry, error) {
	feeds := make([]*model.HBaseNewsFeed, 0, len(userIDs))
	seen := make(map[uint64]struct{}, len(userIDs))
	for _, userID := range userIDs {
		if _, ok := seen[userID]; ok {
			continue
		}
		seen[userID] = struct{}{}

		feed := &model.HBaseNewsFeed{UserID: userID, CreatedAt: createdAt, PostID: postID}
		state, err := s.rowState(ctx, feed)
		if err != nil {
			return nil, err
		}
		if state != feedRowAbsent {
			continue
		}
		feeds = append(feeds, feed)
	}
	if len(feeds) == 0 {
		return []model.FeedEntry{}, nil
	}

	err := s.table.WithBatch(ctx, func(b *widecolumn.Batch) error {
		for _, feed := range feeds {
			if err := b.Put(feed.Values()); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toFeedEntries(feeds), nil
}

func (s *HBaseNewsFeedRepoImpl) GetLatestNewsFeeds(ctx context.Context, userID uint64, limit int) ([]model.FeedEntry, error) {
	rows, err := s.table.Scan(ctx, widecolumn.ScanOptions{
		Prefix:  []any{userID},
		Reverse: true,
		Limit:   limit,
	})
	if err != nil {
		return nil, err
	}
	entries := make([]model.FeedEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, model.HBaseNewsFeedFromValues(row))
	}
	return entries, nil
}

func (s *HBaseNewsFeedRepoImpl) PageNewsFeeds(ctx context.Context, userID uint64, params pagination.Params, pageSize int) ([]model.FeedEntry, bool, error) {
	feeds, hasNext, err := pagination.New[*model.HBaseNewsFeed](pageSize).
		PaginateWideColumn(ctx, s.table, []any{userID}, params, model.HBaseNewsFeedFromValues)
	if err != nil {
		return nil, false, err
	}
	return toFeedEntries(feeds), hasNext, nil
}

func (s *HBaseNewsFeedRepoImpl) CountAll(ctx context.Context) (int64, error) {
	return s.table.CountRows(ctx)
}

func (s *HBaseNewsFeedRepoImpl) rowState(ctx context.Context, feed *model.HBaseNewsFeed) (feedRowState, error) {
	row, err := s.table.Get(ctx, widecolumn.Values{"user_id": feed.UserID, "created_at": feed.CreatedAt})
	if err != nil {
		return feedRowAbsent, err
	}
	if row == nil {
		return feedRowAbsent, nil
	}
	if held := row.Uint64("post_id"); held != feed.PostID {
		log.WarnContext(ctx, "newsfeed row already taken, entry dropped",
			"user_id", feed.UserID, "created_at", feed.CreatedAt, "post_id", feed.PostID, "held_post_id", held)
		return feedRowTaken, nil
	}
	return feedRowSame, nil
}

// Table 暴露底层表，供测试建表
func (s *HBaseNewsFeedRepoImpl) Table() *widecolumn.Table {
	return s.table
}
