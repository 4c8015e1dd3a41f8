package service

import (
	"Feedcore/internal/model"
	"Feedcore/internal/pkg/consts"
	"Feedcore/internal/pkg/listcache"
	"Feedcore/internal/pkg/pagination"
	"Feedcore/internal/pkg/redis"
	"Feedcore/internal/pkg/util"
	"Feedcore/internal/repository"
	"context"
	"errors"
	log "log/slog"
	"strconv"
	"time"

	"github.com/goccy/go-json"
)

type PostService interface {
	CreatePost(ctx context.Context, userID uint64, content string) (*model.Post, error)
	GetPostThroughCache(ctx context.Context, postID uint64) (*model.Post, error)
	GetPostsByIds(ctx context.Context, ids []uint64) ([]*model.Post, error)
	GetCachedPosts(ctx context.Context, userID uint64) ([]*model.Post, error)
	ListUserPosts(ctx context.Context, userID uint64, params pagination.Params) ([]*model.Post, bool, error)
	DeletePost(ctx context.Context, userID, postID uint64) error
	InvalidatePost(ctx context.Context, postID uint64)
}

type postServiceImpl struct {
	postDBRepo repository.PostRepo
	fanoutSvc  FanoutService
	client     *redis.Client
	postsCache *listcache.ListCache[*model.Post]
	objectTTL  time.Duration
	pageSize   int
}

func NewPostService(
	postDBRepo repository.PostRepo,
	fanoutSvc FanoutService,
	client *redis.Client,
	postsCache *listcache.ListCache[*model.Post],
	objectTTL time.Duration,
	pageSize int,
) PostService {
	return &postServiceImpl{
		postDBRepo: postDBRepo,
		fanoutSvc:  fanoutSvc,
		client:     client,
		postsCache: postsCache,
		objectTTL:  objectTTL,
		pageSize:   pageSize,
	}
}

// UserPostsLoader 用户帖子列表缓存未命中时从数据库加载
type UserPostsLoader struct {
	Repo   repository.PostRepo
	UserID uint64
}

func (l UserPostsLoader) Load(ctx context.Context, limit int) ([]*model.Post, error) {
	return l.Repo.GetLatestUserPosts(ctx, l.UserID, limit)
}

var postSerializer = listcache.JSONSerializer[*model.Post]{}

func userPostsKey(userID uint64) string {
	return consts.UserPostsKey + strconv.FormatUint(userID, 10)
}

func postDetailKey(postID uint64) string {
	return consts.PostDetailKey + strconv.FormatUint(postID, 10)
}

// CreatePost 写入帖子，推送作者的帖子列表缓存，然后投递扇出任务
// 扇出失败不影响发帖结果
func (s *postServiceImpl) CreatePost(ctx context.Context, userID uint64, content string) (*model.Post, error) {
	post := &model.Post{
		UserID:    userID,
		Content:   content,
		CreatedAt: util.NowMicros(),
	}
	if err := s.postDBRepo.CreatePost(ctx, post); err != nil {
		return nil, err
	}

	key := userPostsKey(userID)
	err := s.postsCache.Push(ctx, key, post, UserPostsLoader{Repo: s.postDBRepo, UserID: userID}, postSerializer)
	if err != nil {
		log.WarnContext(ctx, "push user posts cache error", "user_id", userID, "err", err)
		_ = s.postsCache.Invalidate(ctx, key)
	}

	if err = s.fanoutSvc.Submit(ctx, post.ID, post.CreatedAt, userID); err != nil {
		log.ErrorContext(ctx, "submit fanout error", "post_id", post.ID, "err", err)
	}
	return post, nil
}

// GetPostThroughCache 读取单个帖子，先查缓存再查数据库
func (s *postServiceImpl) GetPostThroughCache(ctx context.Context, postID uint64) (*model.Post, error) {
	key := postDetailKey(postID)
	raw, err := s.client.GetValue(ctx, key)
	if err != nil {
		log.WarnContext(ctx, "read post cache error", "post_id", postID, "err", err)
	}
	if err == nil && raw != "" {
		var post model.Post
		if err = json.Unmarshal([]byte(raw), &post); err == nil {
			return &post, nil
		}
		log.WarnContext(ctx, "decode post cache error", "post_id", postID, "err", err)
	}

	post, err := s.postDBRepo.GetPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}

	data, err := json.Marshal(post)
	if err == nil {
		err = s.client.SetWithExpiration(ctx, key, string(data), s.objectTTL)
	}
	if err != nil {
		log.WarnContext(ctx, "write post cache error", "post_id", postID, "err", err)
	}
	return post, nil
}

// GetPostsByIds 按 ids 的顺序返回帖子，已删除或不存在的帖子被跳过
func (s *postServiceImpl) GetPostsByIds(ctx context.Context, ids []uint64) ([]*model.Post, error) {
	posts := make([]*model.Post, 0, len(ids))
	for _, id := range ids {
		post, err := s.GetPostThroughCache(ctx, id)
		if err != nil {
			if errors.Is(err, ErrPostNotFound) {
				continue
			}
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, nil
}

func (s *postServiceImpl) GetCachedPosts(ctx context.Context, userID uint64) ([]*model.Post, error) {
	loader := UserPostsLoader{Repo: s.postDBRepo, UserID: userID}
	posts, err := s.postsCache.Load(ctx, userPostsKey(userID), loader, postSerializer)
	if err == nil {
		return posts, nil
	}
	if !errors.Is(err, listcache.ErrCacheUnavailable) {
		return nil, err
	}
	log.WarnContext(ctx, "user posts cache unavailable, reading db", "user_id", userID, "err", err)
	return loader.Load(ctx, s.postsCache.Limit())
}

// ListUserPosts 优先在缓存列表上分页，缓存不足以回答时回源
func (s *postServiceImpl) ListUserPosts(ctx context.Context, userID uint64, params pagination.Params) ([]*model.Post, bool, error) {
	cached, err := s.GetCachedPosts(ctx, userID)
	if err != nil {
		return nil, false, err
	}
	page, hasNext, ok := pagination.New[*model.Post](s.pageSize).PaginateCachedList(cached, params, s.postsCache.Limit())
	if ok {
		return page, hasNext, nil
	}
	return s.postDBRepo.PageUserPosts(ctx, userID, params, s.pageSize)
}

// DeletePost 软删除帖子，只有作者可以删除
func (s *postServiceImpl) DeletePost(ctx context.Context, userID, postID uint64) error {
	post, err := s.postDBRepo.GetPost(ctx, postID)
	if err != nil {
		return err
	}
	if post == nil {
		return ErrPostNotFound
	}
	if post.UserID != userID {
		return UnauthorizedError
	}
	if err = s.postDBRepo.DeletePost(ctx, postID); err != nil {
		return err
	}

	s.InvalidatePost(ctx, postID)
	if err = s.postsCache.Invalidate(ctx, userPostsKey(userID)); err != nil {
		log.WarnContext(ctx, "invalidate user posts cache error", "user_id", userID, "err", err)
	}
	return nil
}

// InvalidatePost 删除帖子详情缓存
func (s *postServiceImpl) InvalidatePost(ctx context.Context, postID uint64) {
	if err := s.client.DeleteKey(ctx, postDetailKey(postID)); err != nil {
		log.WarnContext(ctx, "invalidate post cache error", "post_id", postID, "err", err)
	}
}
