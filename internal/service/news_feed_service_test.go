package service

import (
	"Feedcore/internal/model"
	"Feedcore/internal/pkg/gatekeeper"
	"Feedcore/internal/pkg/pagination"
	"Feedcore/internal/pkg/task"
	"Feedcore/internal/repository"
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFanoutReachesAuthorAndEveryFollower(t *testing.T) {
	forEachBackend(t, 2, func(t *testing.T, env *testEnv, _ repository.Backend) {
		ctx := context.Background()
		const authorID = 100
		followers := []uint64{1, 2, 3, 4, 5}
		for _, id := range followers {
			_, err := env.userFollowSvc.Follow(ctx, id, authorID)
			require.NoError(t, err)
		}

		result, err := env.fanoutSvc.FanoutMain(ctx, 7, 1_000, authorID)
		require.NoError(t, err)
		assert.Equal(t, "5 newsfeeds going to fanout, 3 batches created.", result)

		total, err := env.newsFeedSvc.CountAll(ctx)
		require.NoError(t, err)
		assert.EqualValues(t, len(followers)+1, total)

		for _, id := range append(followers, authorID) {
			feeds, err := env.newsFeedSvc.GetCachedNewsFeeds(ctx, id)
			require.NoError(t, err)
			require.Len(t, feeds, 1, "user %d", id)
			assert.EqualValues(t, 7, feeds[0].GetPostID())
			assert.EqualValues(t, 1_000, feeds[0].GetCreatedAt())
		}
	})
}

func TestFanoutBatchRetryDoesNotDuplicate(t *testing.T) {
	forEachBackend(t, 0, func(t *testing.T, env *testEnv, _ repository.Backend) {
		ctx := context.Background()

		result, err := env.fanoutSvc.FanoutBatch(ctx, 9, 2_000, []uint64{1, 2})
		require.NoError(t, err)
		assert.Equal(t, "2 newsfeeds created", result)

		result, err = env.fanoutSvc.FanoutBatch(ctx, 9, 2_000, []uint64{1, 2})
		require.NoError(t, err)
		assert.Equal(t, "0 newsfeeds created", result)

		feeds, err := env.newsFeedSvc.GetCachedNewsFeeds(ctx, 1)
		require.NoError(t, err)
		assert.Len(t, feeds, 1)

		total, err := env.newsFeedSvc.CountAll(ctx)
		require.NoError(t, err)
		assert.EqualValues(t, 2, total)
	})
}

func TestWideColumnSameMicrosecondKeepsCacheAndStoreInStep(t *testing.T) {
	env := newTestEnv(t, 0)
	env.useWideColumn(t)
	ctx := context.Background()
	const a, b, c = 1, 2, 3
	for _, id := range []uint64{b, c} {
		_, err := env.userFollowSvc.Follow(ctx, a, id)
		require.NoError(t, err)
	}

	_, err := env.fanoutSvc.FanoutMain(ctx, 100, 5_000, b)
	require.NoError(t, err)
	_, err = env.fanoutSvc.FanoutMain(ctx, 200, 5_000, c)
	require.NoError(t, err)

	cached, err := env.newsFeedSvc.GetCachedNewsFeeds(ctx, a)
	require.NoError(t, err)
	assert.Equal(t, []uint64{100}, feedPostIDs(cached))

	env.mr.Del(newsFeedsKey(a))
	reloaded, err := env.newsFeedSvc.GetCachedNewsFeeds(ctx, a)
	require.NoError(t, err)
	assert.Equal(t, feedPostIDs(cached), feedPostIDs(reloaded))
}

func TestSubmitRunsFanoutThroughRunner(t *testing.T) {
	env := newTestEnv(t, 0)
	ctx := context.Background()
	_, err := env.userFollowSvc.Follow(ctx, 2, 1)
	require.NoError(t, err)

	require.NoError(t, env.fanoutSvc.Submit(ctx, 3, 3_000, 1))

	total, err := env.newsFeedSvc.CountAll(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)

	dead, err := env.deadLetter.Len(ctx)
	require.NoError(t, err)
	assert.Zero(t, dead)
}

func TestFollowedAuthorsPostIsFirstInFeed(t *testing.T) {
	forEachBackend(t, 0, func(t *testing.T, env *testEnv, _ repository.Backend) {
		ctx := context.Background()
		const a, b, c = 1, 2, 3
		for _, id := range []uint64{b, c} {
			_, err := env.userFollowSvc.Follow(ctx, a, id)
			require.NoError(t, err)
		}

		_, err := env.postSvc.CreatePost(ctx, c, "from c")
		require.NoError(t, err)
		post, err := env.postSvc.CreatePost(ctx, b, "from b")
		require.NoError(t, err)

		feeds, err := env.newsFeedSvc.GetCachedNewsFeeds(ctx, a)
		require.NoError(t, err)
		require.Len(t, feeds, 2)
		assert.Equal(t, post.ID, feeds[0].GetPostID())
		assert.EqualValues(t, a, feeds[0].GetUserID())
	})
}

func TestListNewsFeedsPagesPastCache(t *testing.T) {
	forEachBackend(t, 0, func(t *testing.T, env *testEnv, _ repository.Backend) {
		ctx := context.Background()
		const userID = 1
		total := testListLimit + 3
		var want []uint64
		for i := 1; i <= total; i++ {
			_, err := env.newsFeedSvc.CreateNewsFeed(ctx, userID, uint64(i), int64(1_000+i))
			require.NoError(t, err)
			want = append([]uint64{uint64(i)}, want...)
		}

		cached, err := env.newsFeedSvc.GetCachedNewsFeeds(ctx, userID)
		require.NoError(t, err)
		assert.Len(t, cached, testListLimit)

		var got []uint64
		params := pagination.Params{}
		for range total {
			page, hasNext, err := env.newsFeedSvc.ListNewsFeeds(ctx, userID, params)
			require.NoError(t, err)
			got = append(got, feedPostIDs(page)...)
			if !hasNext || len(page) == 0 {
				break
			}
			params = pagination.LT(page[len(page)-1].GetCreatedAt())
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("ListNewsFeeds mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestListNewsFeedsNewerThanCursor(t *testing.T) {
	env := newTestEnv(t, 0)
	ctx := context.Background()
	for i := 1; i <= 4; i++ {
		_, err := env.newsFeedSvc.CreateNewsFeed(ctx, 1, uint64(i), int64(i*10))
		require.NoError(t, err)
	}

	page, hasNext, err := env.newsFeedSvc.ListNewsFeeds(ctx, 1, pagination.GT(20))
	require.NoError(t, err)
	assert.False(t, hasNext)
	assert.Equal(t, []uint64{4, 3}, feedPostIDs(page))
}

func TestListNewsFeedsWithoutRedis(t *testing.T) {
	env := newTestEnv(t, 0)
	ctx := context.Background()
	store := env.feedRepos[repository.BackendRelational]
	for i := 1; i <= 4; i++ {
		_, _, err := store.CreateNewsFeed(ctx, 1, uint64(i), int64(i))
		require.NoError(t, err)
	}

	env.mr.Close()

	page, hasNext, err := env.newsFeedSvc.ListNewsFeeds(ctx, 1, pagination.Params{})
	require.NoError(t, err)
	assert.True(t, hasNext)
	assert.Equal(t, []uint64{4, 3, 2}, feedPostIDs(page))

	// 写入在缓存不可用时仍然成功
	_, err = env.newsFeedSvc.CreateNewsFeed(ctx, 1, 5, 5)
	require.NoError(t, err)
	count, err := env.newsFeedSvc.CountAll(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 5, count)
}

func TestCachedFeedsKeepStoreTags(t *testing.T) {
	env := newTestEnv(t, 0)
	ctx := context.Background()

	_, err := env.newsFeedSvc.CreateNewsFeed(ctx, 1, 1, 10)
	require.NoError(t, err)
	_, err = env.newsFeedSvc.GetCachedNewsFeeds(ctx, 1)
	require.NoError(t, err)

	require.NoError(t, env.gk.TurnOn(ctx, gatekeeper.SwitchNewsFeedToHBase))
	_, err = env.newsFeedSvc.CreateNewsFeed(ctx, 1, 2, 20)
	require.NoError(t, err)

	feeds, err := env.newsFeedSvc.GetCachedNewsFeeds(ctx, 1)
	require.NoError(t, err)
	require.Len(t, feeds, 2)
	assert.IsType(t, &model.HBaseNewsFeed{}, feeds[0])
	assert.IsType(t, &model.NewsFeed{}, feeds[1])
	assert.Equal(t, []uint64{2, 1}, feedPostIDs(feeds))
}

func TestFeedSerializerRejectsUnknownModel(t *testing.T) {
	_, err := feedSerializer{model: newsFeedModel}.Deserialize(`{"model":"users","data":{}}`)
	assert.Error(t, err)
}

func TestInvalidFanoutPayloadIsDeadLettered(t *testing.T) {
	env := newTestEnv(t, 0)
	ctx := context.Background()

	msg, err := task.NewMessage(TaskFanoutBatch, FanoutBatchPayload{PostID: 1, CreatedAt: 1})
	require.NoError(t, err)
	require.NoError(t, env.runner.Process(ctx, msg))
	assert.Equal(t, 1, msg.Attempt)

	dead, err := env.deadLetter.Pop(ctx)
	require.NoError(t, err)
	require.NotNil(t, dead)
	assert.Equal(t, TaskFanoutBatch, dead.Name)
	assert.NotEmpty(t, dead.LastError)
}
