package repository

import (
	"Feedcore/internal/model"
	"Feedcore/internal/pkg/pagination"
	"Feedcore/internal/pkg/testutil"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostActionRepoLikeCounts(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewGormDB(t, &model.Post{}, &model.Like{}, &model.PostComment{})
	posts := NewPostRepository(db)
	actions := NewPostActionRepo(db)

	post := &model.Post{UserID: 1, Content: "hello", CreatedAt: 100}
	require.NoError(t, posts.CreatePost(ctx, post))

	created, err := actions.CreateLike(ctx, &model.Like{UserID: 2, PostID: post.ID, CreatedAt: 101})
	require.NoError(t, err)
	assert.True(t, created)
	created, err = actions.CreateLike(ctx, &model.Like{UserID: 2, PostID: post.ID, CreatedAt: 102})
	require.NoError(t, err)
	assert.False(t, created)

	count, err := posts.GetLikesCount(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	exists, err := actions.CheckLikeExists(ctx, 2, post.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	deleted, err := actions.DeleteLike(ctx, 2, post.ID)
	require.NoError(t, err)
	assert.True(t, deleted)
	deleted, err = actions.DeleteLike(ctx, 2, post.ID)
	require.NoError(t, err)
	assert.False(t, deleted)

	count, err = posts.GetLikesCount(ctx, post.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestPostActionRepoComments(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewGormDB(t, &model.Post{}, &model.Like{}, &model.PostComment{})
	posts := NewPostRepository(db)
	actions := NewPostActionRepo(db)

	post := &model.Post{UserID: 1, Content: "hello", CreatedAt: 100}
	require.NoError(t, posts.CreatePost(ctx, post))

	for i := int64(1); i <= 3; i++ {
		require.NoError(t, actions.CreateComment(ctx, &model.PostComment{
			PostID:    post.ID,
			UserID:    2,
			Content:   "nice",
			CreatedAt: 100 + i,
		}))
	}
	count, err := posts.GetCommentsCount(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	page, hasNext, err := actions.PageComments(ctx, post.ID, pagination.Params{}, 2)
	require.NoError(t, err)
	assert.True(t, hasNext)
	require.Len(t, page, 2)
	assert.Equal(t, int64(103), page[0].CreatedAt)

	deleted, err := actions.DeleteComment(ctx, page[0].ID)
	require.NoError(t, err)
	assert.True(t, deleted)
	deleted, err = actions.DeleteComment(ctx, page[0].ID)
	require.NoError(t, err)
	assert.False(t, deleted)

	comment, err := actions.GetCommentByID(ctx, page[0].ID)
	require.NoError(t, err)
	assert.Nil(t, comment)

	count, err = actions.GetCommentCountByPostID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
	count, err = posts.GetCommentsCount(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestPostRepoUserPosts(t *testing.T) {
	ctx := context.Background()
	posts := NewPostRepository(testutil.NewGormDB(t, &model.Post{}))

	for i := int64(1); i <= 4; i++ {
		require.NoError(t, posts.CreatePost(ctx, &model.Post{UserID: 1, Content: "p", CreatedAt: i}))
	}
	require.NoError(t, posts.CreatePost(ctx, &model.Post{UserID: 2, Content: "other", CreatedAt: 9}))

	latest, err := posts.GetLatestUserPosts(ctx, 1, 2)
	require.NoError(t, err)
	require.Len(t, latest, 2)
	assert.Equal(t, int64(4), latest[0].CreatedAt)

	require.NoError(t, posts.DeletePost(ctx, latest[0].ID))
	got, err := posts.GetPost(ctx, latest[0].ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	page, hasNext, err := posts.PageUserPosts(ctx, 1, pagination.Params{}, 10)
	require.NoError(t, err)
	assert.False(t, hasNext)
	assert.Len(t, page, 3)

	byIDs, err := posts.GetPostByIds(ctx, []uint64{page[0].ID, page[1].ID})
	require.NoError(t, err)
	assert.Len(t, byIDs, 2)
}
