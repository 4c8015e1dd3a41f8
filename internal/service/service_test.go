package service

import (
	"Feedcore/internal/model"
	"Feedcore/internal/pkg/consts"
	"Feedcore/internal/pkg/counter"
	"Feedcore/internal/pkg/gatekeeper"
	"Feedcore/internal/pkg/listcache"
	"Feedcore/internal/pkg/mongo/mongotest"
	"Feedcore/internal/pkg/redis"
	"Feedcore/internal/pkg/task"
	"Feedcore/internal/pkg/testutil"
	"Feedcore/internal/repository"
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"
)

const (
	testListLimit = 5
	testPageSize  = 3
)

type testEnv struct {
	client     *redis.Client
	mr         *miniredis.Miniredis
	gk         *gatekeeper.GateKeeper
	deadLetter *task.RedisDeadLetter
	runner     *task.Runner
	sysBox     *mongotest.MemorySysBox

	feedRepos   map[repository.Backend]repository.NewsFeedRepo
	followRepos map[repository.Backend]repository.UserFollowRepo
	postRepo    repository.PostRepo

	newsFeedSvc   NewsFeedService
	userFollowSvc UserFollowService
	fanoutSvc     FanoutService
	postSvc       PostService
	actionSvc     PostActionService
}

func newTestEnv(t *testing.T, fanoutBatchSize int) *testEnv {
	t.Helper()
	db := testutil.NewGormDB(t, &model.Post{}, &model.NewsFeed{}, &model.UserFollow{}, &model.Like{}, &model.PostComment{})
	bolt := testutil.NewBolt(t)
	client, mr := testutil.NewRedis(t)

	env := &testEnv{
		client:     client,
		mr:         mr,
		gk:         gatekeeper.New(client),
		deadLetter: task.NewRedisDeadLetter(client, consts.TaskDeadLetterKey),
		sysBox:     mongotest.NewMemorySysBox(),
		feedRepos: map[repository.Backend]repository.NewsFeedRepo{
			repository.BackendRelational: repository.NewNewsFeedRepo(db),
			repository.BackendWideColumn: repository.NewHBaseNewsFeedRepo(bolt, true),
		},
		followRepos: map[repository.Backend]repository.UserFollowRepo{
			repository.BackendRelational: repository.NewUserFollowRepo(db),
			repository.BackendWideColumn: repository.NewHBaseUserFollowRepo(bolt, true),
		},
		postRepo: repository.NewPostRepository(db),
	}

	runner := task.NewRunner(env.deadLetter, 3, time.Minute)
	runner.RetryInterval = time.Millisecond
	runner.MaxInterval = time.Millisecond
	env.runner = runner
	queue := task.NewEagerQueue(runner)

	sysBoxSvc := NewSysBoxService(env.sysBox, testPageSize)
	env.newsFeedSvc = NewNewsFeedService(
		env.feedRepos[repository.BackendRelational],
		env.feedRepos[repository.BackendWideColumn],
		env.gk,
		listcache.New[model.FeedEntry](client, testListLimit, time.Hour),
		testPageSize,
	)
	env.userFollowSvc = NewUserFollowService(
		env.followRepos[repository.BackendRelational],
		env.followRepos[repository.BackendWideColumn],
		env.gk,
		client,
		sysBoxSvc,
		time.Hour,
		testPageSize,
	)
	env.fanoutSvc = NewFanoutService(env.newsFeedSvc, env.userFollowSvc, queue, env.deadLetter, fanoutBatchSize)
	require.NoError(t, env.fanoutSvc.Register(runner))
	env.postSvc = NewPostService(
		env.postRepo,
		env.fanoutSvc,
		client,
		listcache.New[*model.Post](client, testListLimit, time.Hour),
		time.Hour,
		testPageSize,
	)
	env.actionSvc = NewPostActionService(
		repository.NewPostActionRepo(db),
		env.postRepo,
		env.postSvc,
		sysBoxSvc,
		counter.New(client, time.Hour),
		testPageSize,
	)
	return env
}

// useWideColumn 打开时间线与关注关系的宽列开关
func (e *testEnv) useWideColumn(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, e.gk.TurnOn(ctx, gatekeeper.SwitchNewsFeedToHBase))
	require.NoError(t, e.gk.TurnOn(ctx, gatekeeper.SwitchFriendshipToHBase))
}

func forEachBackend(t *testing.T, fanoutBatchSize int, fn func(t *testing.T, env *testEnv, backend repository.Backend)) {
	for _, backend := range []repository.Backend{repository.BackendRelational, repository.BackendWideColumn} {
		t.Run(string(backend), func(t *testing.T) {
			env := newTestEnv(t, fanoutBatchSize)
			if backend == repository.BackendWideColumn {
				env.useWideColumn(t)
			}
			fn(t, env, backend)
		})
	}
}

func feedPostIDs(feeds []model.FeedEntry) []uint64 {
	ids := make([]uint64, 0, len(feeds))
	for _, feed := range feeds {
		ids = append(ids, feed.GetPostID())
	}
	return ids
}
