package service

import (
	"Feedcore/internal/pkg/consts"
	"Feedcore/internal/pkg/pagination"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePostFansOutAndCaches(t *testing.T) {
	env := newTestEnv(t, 0)
	ctx := context.Background()
	_, err := env.userFollowSvc.Follow(ctx, 11, 10)
	require.NoError(t, err)

	post, err := env.postSvc.CreatePost(ctx, 10, "hello")
	require.NoError(t, err)
	require.NotZero(t, post.ID)

	posts, err := env.postSvc.GetCachedPosts(ctx, 10)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, post.ID, posts[0].ID)

	for _, userID := range []uint64{10, 11} {
		feeds, err := env.newsFeedSvc.GetCachedNewsFeeds(ctx, userID)
		require.NoError(t, err)
		require.Len(t, feeds, 1)
		assert.Equal(t, post.ID, feeds[0].GetPostID())
		assert.Equal(t, post.CreatedAt, feeds[0].GetCreatedAt())
	}

	got, err := env.postSvc.GetPostThroughCache(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "hello", got.Content)
	cached, err := env.client.GetValue(ctx, postDetailKey(post.ID))
	require.NoError(t, err)
	assert.NotEmpty(t, cached)
}

func TestDeletePost(t *testing.T) {
	env := newTestEnv(t, 0)
	ctx := context.Background()
	kept, err := env.postSvc.CreatePost(ctx, 10, "kept")
	require.NoError(t, err)
	post, err := env.postSvc.CreatePost(ctx, 10, "bye")
	require.NoError(t, err)
	_, err = env.postSvc.GetPostThroughCache(ctx, post.ID)
	require.NoError(t, err)

	assert.ErrorIs(t, env.postSvc.DeletePost(ctx, 99, post.ID), UnauthorizedError)
	require.NoError(t, env.postSvc.DeletePost(ctx, 10, post.ID))
	assert.ErrorIs(t, env.postSvc.DeletePost(ctx, 10, post.ID), ErrPostNotFound)

	_, err = env.postSvc.GetPostThroughCache(ctx, post.ID)
	assert.ErrorIs(t, err, ErrPostNotFound)

	posts, err := env.postSvc.GetPostsByIds(ctx, []uint64{post.ID, kept.ID})
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, kept.ID, posts[0].ID)

	page, hasNext, err := env.postSvc.ListUserPosts(ctx, 10, pagination.Params{})
	require.NoError(t, err)
	assert.False(t, hasNext)
	require.Len(t, page, 1)
	assert.Equal(t, kept.ID, page[0].ID)
}

func TestLikePost(t *testing.T) {
	env := newTestEnv(t, 0)
	ctx := context.Background()
	post, err := env.postSvc.CreatePost(ctx, 10, "like me")
	require.NoError(t, err)

	require.NoError(t, env.actionSvc.LikePost(ctx, 20, post.ID))
	assert.ErrorIs(t, env.actionSvc.LikePost(ctx, 20, post.ID), ErrActionDuplicate)
	require.NoError(t, env.actionSvc.LikePost(ctx, 10, post.ID))

	count, err := env.actionSvc.GetPostLikeCount(ctx, post.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
	liked, err := env.actionSvc.IsLiked(ctx, 20, post.ID)
	require.NoError(t, err)
	assert.True(t, liked)

	// 作者给自己点赞不产生通知
	require.Len(t, env.sysBox.All(), 1)
	assert.Equal(t, consts.NotifyPostLike, env.sysBox.All()[0].Type)
	assert.EqualValues(t, 10, env.sysBox.All()[0].ReceiverID)

	require.NoError(t, env.actionSvc.CancelLikePost(ctx, 20, post.ID))
	require.NoError(t, env.actionSvc.CancelLikePost(ctx, 20, post.ID))
	count, err = env.actionSvc.GetPostLikeCount(ctx, post.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	detail, err := env.postSvc.GetPostThroughCache(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, detail.LikesCount)

	assert.ErrorIs(t, env.actionSvc.LikePost(ctx, 20, 12345), ErrPostNotFound)
}

func TestCommentPost(t *testing.T) {
	env := newTestEnv(t, 0)
	ctx := context.Background()
	post, err := env.postSvc.CreatePost(ctx, 10, "comment me")
	require.NoError(t, err)

	long := strings.Repeat("评", commentPreviewLength+10)
	comment, err := env.actionSvc.CreateComment(ctx, 20, post.ID, long)
	require.NoError(t, err)
	_, err = env.actionSvc.CreateComment(ctx, 21, post.ID, "short")
	require.NoError(t, err)

	count, err := env.actionSvc.GetPostCommentCount(ctx, post.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)

	require.Len(t, env.sysBox.All(), 2)
	assert.Equal(t, consts.NotifyPostComment, env.sysBox.All()[0].Type)
	assert.Equal(t, strings.Repeat("评", commentPreviewLength), env.sysBox.All()[0].Content)

	assert.ErrorIs(t, env.actionSvc.DeleteComment(ctx, 21, comment.ID), UnauthorizedError)
	require.NoError(t, env.actionSvc.DeleteComment(ctx, 20, comment.ID))
	assert.ErrorIs(t, env.actionSvc.DeleteComment(ctx, 20, 9999), ErrPostCommentNotFound)

	count, err = env.actionSvc.GetPostCommentCount(ctx, post.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	comments, hasNext, err := env.actionSvc.ListComments(ctx, post.ID, pagination.Params{})
	require.NoError(t, err)
	assert.False(t, hasNext)
	require.Len(t, comments, 1)
	assert.Equal(t, "short", comments[0].Content)
}
