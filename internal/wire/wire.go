package wire

import (
	"Feedcore/internal/api"
	"Feedcore/internal/api/config"
	"Feedcore/internal/api/handler"
	"Feedcore/internal/job"
	"Feedcore/internal/model"
	"Feedcore/internal/pkg/consts"
	"Feedcore/internal/pkg/counter"
	"Feedcore/internal/pkg/cron"
	"Feedcore/internal/pkg/gatekeeper"
	"Feedcore/internal/pkg/listcache"
	"Feedcore/internal/pkg/mongo"
	"Feedcore/internal/pkg/redis"
	"Feedcore/internal/pkg/security"
	"Feedcore/internal/pkg/task"
	"Feedcore/internal/pkg/widecolumn"
	"Feedcore/internal/repository"
	"Feedcore/internal/service"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Infra 组合根中构造的客户端
type Infra struct {
	DB         *gorm.DB
	Redis      *redis.Client
	SysBox     mongo.SysBoxRepo
	WideColumn widecolumn.Backend
}

// ApplicationContainer 封装了应用运行所需的所有顶级组件
type ApplicationContainer struct {
	Router      *gin.Engine
	CronMgr     *cron.Manager
	ConsumerMgr *task.ConsumerManager // 同步执行模式下为 nil
	Queue       task.Queue
}

func BuildApplication(infra Infra, cfg *config.Config) (*ApplicationContainer, error) {
	testing := cfg.Testing
	pageSize := cfg.Pagination.PageSize
	listTTL := time.Duration(cfg.Cache.ListTTL) * time.Second
	objectTTL := time.Duration(cfg.Cache.ObjectTTL) * time.Second

	// 存储
	newsFeedRepo := repository.NewNewsFeedRepo(infra.DB)
	hbaseNewsFeedRepo := repository.NewHBaseNewsFeedRepo(infra.WideColumn, testing)
	userFollowRepo := repository.NewUserFollowRepo(infra.DB)
	hbaseUserFollowRepo := repository.NewHBaseUserFollowRepo(infra.WideColumn, testing)
	postRepo := repository.NewPostRepository(infra.DB)
	postActionRepo := repository.NewPostActionRepo(infra.DB)

	// 缓存
	gk := gatekeeper.New(infra.Redis)
	feedsCache := listcache.New[model.FeedEntry](infra.Redis, cfg.Cache.ListLimit, listTTL)
	postsCache := listcache.New[*model.Post](infra.Redis, cfg.Cache.ListLimit, listTTL)
	counterCache := counter.New(infra.Redis, time.Duration(cfg.Cache.CounterTTL)*time.Second)

	// 任务
	deadLetter := task.NewRedisDeadLetter(infra.Redis, consts.TaskDeadLetterKey)
	runner := task.NewRunner(deadLetter, cfg.Fanout.MaxAttempts, time.Duration(cfg.Fanout.TaskTimeout)*time.Second)

	var (
		queue       task.Queue
		consumerMgr *task.ConsumerManager
	)
	if cfg.Fanout.Eager {
		queue = task.NewEagerQueue(runner)
	} else {
		producer, err := task.NewProducer(cfg.Kafka)
		if err != nil {
			return nil, err
		}
		queue = task.NewKafkaQueue(producer, map[string]string{
			service.TaskFanoutMain:  cfg.KafkaFanoutMain.Topic,
			service.TaskFanoutBatch: cfg.KafkaFanoutBatch.Topic,
		})
		consumerMgr, err = task.NewConsumerManager(cfg, runner)
		if err != nil {
			_ = producer.Close()
			return nil, err
		}
	}

	// 服务
	sysBoxSvc := service.NewSysBoxService(infra.SysBox, pageSize)
	newsFeedSvc := service.NewNewsFeedService(newsFeedRepo, hbaseNewsFeedRepo, gk, feedsCache, pageSize)
	userFollowSvc := service.NewUserFollowService(userFollowRepo, hbaseUserFollowRepo, gk, infra.Redis, sysBoxSvc, objectTTL, pageSize)
	fanoutSvc := service.NewFanoutService(newsFeedSvc, userFollowSvc, queue, deadLetter, cfg.Fanout.BatchSize)
	if err := fanoutSvc.Register(runner); err != nil {
		return nil, err
	}
	postSvc := service.NewPostService(postRepo, fanoutSvc, infra.Redis, postsCache, objectTTL, pageSize)
	postActionSvc := service.NewPostActionService(postActionRepo, postRepo, postSvc, sysBoxSvc, counterCache, pageSize)

	// 定时任务
	cronMgr := cron.NewCronManager(job.NewFanoutRetryJob(infra.Redis, deadLetter, queue))

	handlers := &api.HandlersGroup{
		JWT:               security.NewJWT(cfg.JWT.Secret, time.Duration(cfg.JWT.ExpireHours)*time.Hour),
		Redis:             infra.Redis,
		NewsFeedHandler:   handler.NewNewsFeedHandler(newsFeedSvc, postSvc),
		UserFollowHandler: handler.NewUserFollowHandler(userFollowSvc),
		PostHandler:       handler.NewPostHandler(postSvc),
		PostActionHandler: handler.NewPostActionHandler(postActionSvc),
		SysBoxHandler:     handler.NewSysBoxHandler(sysBoxSvc),
	}

	return &ApplicationContainer{
		Router:      api.SetupRouter(handlers),
		CronMgr:     cronMgr,
		ConsumerMgr: consumerMgr,
		Queue:       queue,
	}, nil
}
