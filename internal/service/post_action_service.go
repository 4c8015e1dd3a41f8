package service

import (
	"Feedcore/internal/model"
	"Feedcore/internal/pkg/consts"
	"Feedcore/internal/pkg/counter"
	"Feedcore/internal/pkg/pagination"
	"Feedcore/internal/pkg/util"
	"Feedcore/internal/repository"
	"context"
	log "log/slog"
	"unicode/utf8"
)

const commentPreviewLength = 50

type PostActionService interface {
	LikePost(ctx context.Context, userID, postID uint64) error
	CancelLikePost(ctx context.Context, userID, postID uint64) error
	IsLiked(ctx context.Context, userID, postID uint64) (bool, error)
	GetPostLikeCount(ctx context.Context, postID uint64) (int64, error)

	CreateComment(ctx context.Context, userID, postID uint64, content string) (*model.PostComment, error)
	DeleteComment(ctx context.Context, userID, commentID uint64) error
	ListComments(ctx context.Context, postID uint64, params pagination.Params) ([]*model.PostComment, bool, error)
	GetPostCommentCount(ctx context.Context, postID uint64) (int64, error)
}

type postActionServiceImpl struct {
	actionRepo repository.PostActionRepo
	postRepo   repository.PostRepo
	postSvc    PostService
	sysBoxSvc  SysBoxService
	counter    *counter.Cache
	pageSize   int
}

func NewPostActionService(
	actionRepo repository.PostActionRepo,
	postRepo repository.PostRepo,
	postSvc PostService,
	sysBoxSvc SysBoxService,
	counterCache *counter.Cache,
	pageSize int,
) PostActionService {
	return &postActionServiceImpl{
		actionRepo: actionRepo,
		postRepo:   postRepo,
		postSvc:    postSvc,
		sysBoxSvc:  sysBoxSvc,
		counter:    counterCache,
		pageSize:   pageSize,
	}
}

// LikePost 点赞，重复点赞返回 ErrActionDuplicate
func (s *postActionServiceImpl) LikePost(ctx context.Context, userID, postID uint64) error {
	post, err := s.postSvc.GetPostThroughCache(ctx, postID)
	if err != nil {
		return err
	}
	created, err := s.actionRepo.CreateLike(ctx, &model.Like{UserID: userID, PostID: postID, CreatedAt: util.NowMicros()})
	if err != nil {
		return err
	}
	if !created {
		return ErrActionDuplicate
	}

	s.afterCountChange(ctx, postID, consts.CounterLikesCount, true)
	s.notify(ctx, post.UserID, userID, consts.NotifyPostLike, postID, "")
	return nil
}

// CancelLikePost 取消点赞，未点赞时什么都不做
func (s *postActionServiceImpl) CancelLikePost(ctx context.Context, userID, postID uint64) error {
	if _, err := s.postSvc.GetPostThroughCache(ctx, postID); err != nil {
		return err
	}
	deleted, err := s.actionRepo.DeleteLike(ctx, userID, postID)
	if err != nil {
		return err
	}
	if deleted {
		s.afterCountChange(ctx, postID, consts.CounterLikesCount, false)
	}
	return nil
}

func (s *postActionServiceImpl) IsLiked(ctx context.Context, userID, postID uint64) (bool, error) {
	if userID == 0 {
		return false, nil
	}
	return s.actionRepo.CheckLikeExists(ctx, userID, postID)
}

func (s *postActionServiceImpl) GetPostLikeCount(ctx context.Context, postID uint64) (int64, error) {
	return s.counter.GetCount(ctx, consts.CounterEntityPost, consts.CounterLikesCount, postID, s.countSource(postID, consts.CounterLikesCount))
}

func (s *postActionServiceImpl) CreateComment(ctx context.Context, userID, postID uint64, content string) (*model.PostComment, error) {
	post, err := s.postSvc.GetPostThroughCache(ctx, postID)
	if err != nil {
		return nil, err
	}
	comment := &model.PostComment{
		PostID:    postID,
		UserID:    userID,
		Content:   content,
		CreatedAt: util.NowMicros(),
	}
	if err = s.actionRepo.CreateComment(ctx, comment); err != nil {
		return nil, err
	}

	s.afterCountChange(ctx, postID, consts.CounterCommentCount, true)
	s.notify(ctx, post.UserID, userID, consts.NotifyPostComment, postID, preview(content))
	return comment, nil
}

// DeleteComment 只有评论作者可以删除
func (s *postActionServiceImpl) DeleteComment(ctx context.Context, userID, commentID uint64) error {
	comment, err := s.actionRepo.GetCommentByID(ctx, commentID)
	if err != nil {
		return err
	}
	if comment == nil {
		return ErrPostCommentNotFound
	}
	if comment.UserID != userID {
		return UnauthorizedError
	}
	deleted, err := s.actionRepo.DeleteComment(ctx, commentID)
	if err != nil {
		return err
	}
	if deleted {
		s.afterCountChange(ctx, comment.PostID, consts.CounterCommentCount, false)
	}
	return nil
}

func (s *postActionServiceImpl) ListComments(ctx context.Context, postID uint64, params pagination.Params) ([]*model.PostComment, bool, error) {
	return s.actionRepo.PageComments(ctx, postID, params, s.pageSize)
}

func (s *postActionServiceImpl) GetPostCommentCount(ctx context.Context, postID uint64) (int64, error) {
	return s.counter.GetCount(ctx, consts.CounterEntityPost, consts.CounterCommentCount, postID, s.countSource(postID, consts.CounterCommentCount))
}

// afterCountChange 数据库计数已在事务内更新，这里同步计数缓存并删除帖子详情缓存
func (s *postActionServiceImpl) afterCountChange(ctx context.Context, postID uint64, attr string, incr bool) {
	var err error
	source := s.countSource(postID, attr)
	if incr {
		_, err = s.counter.IncrCount(ctx, consts.CounterEntityPost, attr, postID, source)
	} else {
		_, err = s.counter.DecrCount(ctx, consts.CounterEntityPost, attr, postID, source)
	}
	if err != nil {
		log.WarnContext(ctx, "update count cache error", "post_id", postID, "attr", attr, "err", err)
	}
	s.postSvc.InvalidatePost(ctx, postID)
}

func (s *postActionServiceImpl) countSource(postID uint64, attr string) counter.Source {
	return func(ctx context.Context) (int64, error) {
		if attr == consts.CounterCommentCount {
			return s.postRepo.GetCommentsCount(ctx, postID)
		}
		return s.postRepo.GetLikesCount(ctx, postID)
	}
}

func (s *postActionServiceImpl) notify(ctx context.Context, receiverID, senderID uint64, typ int8, postID uint64, content string) {
	if s.sysBoxSvc == nil || receiverID == senderID {
		return
	}
	if err := s.sysBoxSvc.Notify(ctx, receiverID, senderID, typ, postID, content); err != nil {
		log.WarnContext(ctx, "send notification error", "receiver_id", receiverID, "type", typ, "err", err)
	}
}

func preview(content string) string {
	if utf8.RuneCountInString(content) <= commentPreviewLength {
		return content
	}
	return string([]rune(content)[:commentPreviewLength])
}
