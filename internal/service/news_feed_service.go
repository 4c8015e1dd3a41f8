package service

import (
	"Feedcore/internal/model"
	"Feedcore/internal/pkg/consts"
	"Feedcore/internal/pkg/gatekeeper"
	"Feedcore/internal/pkg/listcache"
	"Feedcore/internal/pkg/pagination"
	"Feedcore/internal/repository"
	"context"
	"errors"
	"fmt"
	log "log/slog"
	"strconv"

	"github.com/goccy/go-json"
)

// 缓存载荷的类型标签
const (
	newsFeedModel      = "news_feeds"
	hbaseNewsFeedModel = "hbase_newsfeeds"
)

type NewsFeedService interface {
	CreateNewsFeed(ctx context.Context, userID, postID uint64, createdAt int64) (model.FeedEntry, error)
	BatchCreateNewsFeeds(ctx context.Context, postID uint64, createdAt int64, userIDs []uint64) (int, error)
	GetCachedNewsFeeds(ctx context.Context, userID uint64) ([]model.FeedEntry, error)
	ListNewsFeeds(ctx context.Context, userID uint64, params pagination.Params) ([]model.FeedEntry, bool, error)
	CountAll(ctx context.Context) (int64, error)
}

type newsFeedServiceImpl struct {
	relational repository.NewsFeedRepo
	wideColumn repository.NewsFeedRepo
	gk         *gatekeeper.GateKeeper
	cache      *listcache.ListCache[model.FeedEntry]
	pageSize   int
}

func NewNewsFeedService(
	relational repository.NewsFeedRepo,
	wideColumn repository.NewsFeedRepo,
	gk *gatekeeper.GateKeeper,
	cache *listcache.ListCache[model.FeedEntry],
	pageSize int,
) NewsFeedService {
	return &newsFeedServiceImpl{
		relational: relational,
		wideColumn: wideColumn,
		gk:         gk,
		cache:      cache,
		pageSize:   pageSize,
	}
}

// NewsFeedLoader 缓存未命中时从指定存储加载用户最新的时间线
type NewsFeedLoader struct {
	Store  repository.NewsFeedRepo
	UserID uint64
}

func (l NewsFeedLoader) Load(ctx context.Context, limit int) ([]model.FeedEntry, error) {
	return l.Store.GetLatestNewsFeeds(ctx, l.UserID, limit)
}

// feedSerializer 按存储类型打标签，反序列化时按标签还原对应的行
type feedSerializer struct {
	model string
}

func (s feedSerializer) Serialize(obj model.FeedEntry) (string, error) {
	return listcache.Wrap(s.model, obj)
}

func (s feedSerializer) Deserialize(data string) (model.FeedEntry, error) {
	env, err := listcache.Unwrap(data)
	if err != nil {
		return nil, err
	}
	switch env.Model {
	case newsFeedModel:
		var feed model.NewsFeed
		if err = json.Unmarshal(env.Data, &feed); err != nil {
			return nil, err
		}
		return &feed, nil
	case hbaseNewsFeedModel:
		var feed model.HBaseNewsFeed
		if err = json.Unmarshal(env.Data, &feed); err != nil {
			return nil, err
		}
		return &feed, nil
	default:
		return nil, fmt.Errorf("unknown news feed model %q", env.Model)
	}
}

func feedSerializerFor(backend repository.Backend) listcache.Serializer[model.FeedEntry] {
	if backend == repository.BackendWideColumn {
		return feedSerializer{model: hbaseNewsFeedModel}
	}
	return feedSerializer{model: newsFeedModel}
}

func newsFeedsKey(userID uint64) string {
	return consts.UserNewsFeedsKey + strconv.FormatUint(userID, 10)
}

// store 每次调用读取开关决定主存储，开关读取失败时使用关系型存储
func (s *newsFeedServiceImpl) store(ctx context.Context) repository.NewsFeedRepo {
	on, err := s.gk.IsSwitchOn(ctx, gatekeeper.SwitchNewsFeedToHBase)
	if err != nil {
		log.WarnContext(ctx, "read news feed switch error", "err", err)
		return s.relational
	}
	if on {
		return s.wideColumn
	}
	return s.relational
}

// CreateNewsFeed 写入存储后显式推入缓存
func (s *newsFeedServiceImpl) CreateNewsFeed(ctx context.Context, userID, postID uint64, createdAt int64) (model.FeedEntry, error) {
	store := s.store(ctx)
	feed, created, err := store.CreateNewsFeed(ctx, userID, postID, createdAt)
	if err != nil {
		return nil, err
	}
	if created {
		s.pushCache(ctx, store, feed)
	}
	return feed, nil
}

// BatchCreateNewsFeeds 一次批量写入，只为新建的条目推送缓存，返回新建数量
func (s *newsFeedServiceImpl) BatchCreateNewsFeeds(ctx context.Context, postID uint64, createdAt int64, userIDs []uint64) (int, error) {
	store := s.store(ctx)
	feeds, err := store.BatchCreateNewsFeeds(ctx, postID, createdAt, userIDs)
	if err != nil {
		return 0, err
	}
	for _, feed := range feeds {
		s.pushCache(ctx, store, feed)
	}
	return len(feeds), nil
}

func (s *newsFeedServiceImpl) GetCachedNewsFeeds(ctx context.Context, userID uint64) ([]model.FeedEntry, error) {
	return s.loadCached(ctx, s.store(ctx), userID)
}

// ListNewsFeeds 优先在缓存列表上分页，缓存不足以回答时回源
func (s *newsFeedServiceImpl) ListNewsFeeds(ctx context.Context, userID uint64, params pagination.Params) ([]model.FeedEntry, bool, error) {
	store := s.store(ctx)
	cached, err := s.loadCached(ctx, store, userID)
	if err != nil {
		return nil, false, err
	}
	page, hasNext, ok := pagination.New[model.FeedEntry](s.pageSize).PaginateCachedList(cached, params, s.cache.Limit())
	if ok {
		return page, hasNext, nil
	}
	return store.PageNewsFeeds(ctx, userID, params, s.pageSize)
}

func (s *newsFeedServiceImpl) CountAll(ctx context.Context) (int64, error) {
	return s.store(ctx).CountAll(ctx)
}

// loadCached 缓存不可用时直接读存储
func (s *newsFeedServiceImpl) loadCached(ctx context.Context, store repository.NewsFeedRepo, userID uint64) ([]model.FeedEntry, error) {
	loader := NewsFeedLoader{Store: store, UserID: userID}
	feeds, err := s.cache.Load(ctx, newsFeedsKey(userID), loader, feedSerializerFor(store.Backend()))
	if err == nil {
		return feeds, nil
	}
	if !errors.Is(err, listcache.ErrCacheUnavailable) {
		return nil, err
	}
	log.WarnContext(ctx, "news feed cache unavailable, reading store", "user_id", userID, "err", err)
	return loader.Load(ctx, s.cache.Limit())
}

// pushCache 推送失败不影响写入，尝试删除缓存等待下次重建
func (s *newsFeedServiceImpl) pushCache(ctx context.Context, store repository.NewsFeedRepo, feed model.FeedEntry) {
	key := newsFeedsKey(feed.GetUserID())
	loader := NewsFeedLoader{Store: store, UserID: feed.GetUserID()}
	err := s.cache.Push(ctx, key, feed, loader, feedSerializerFor(store.Backend()))
	if err == nil {
		return
	}
	log.WarnContext(ctx, "push news feed cache error", "user_id", feed.GetUserID(), "post_id", feed.GetPostID(), "err", err)
	if err = s.cache.Invalidate(ctx, key); err != nil {
		log.WarnContext(ctx, "invalidate news feed cache error", "user_id", feed.GetUserID(), "err", err)
	}
}
