package main

import (
	"Feedcore/internal/api/config"
	"Feedcore/internal/pkg/database"
	"Feedcore/internal/pkg/logger"
	"Feedcore/internal/pkg/mongo"
	"Feedcore/internal/pkg/redis"
	"Feedcore/internal/pkg/widecolumn"
	"Feedcore/internal/wire"
	"context"
	"errors"
	"fmt"
	"io"
	log "log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	mongoDB "go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/sync/errgroup"
)

func main() {
	// 加载配置
	if err := config.LoadConfig(); err != nil {
		log.Error("Fatal error: failed to load configuration", "err", err)
		panic(err)
	}
	cfg := config.Cfg

	// 初始化日志
	logger.InitLogger(cfg.Log, cfg.Logstash)

	// 数据库连接
	dbCfg := cfg.DB
	db, err := database.NewGormDB(&dbCfg)
	if err != nil {
		log.Error("Fatal error: failed to create database connection", "err", err)
		panic(err)
	}
	if err = database.AutoMigrate(db); err != nil {
		log.Error("Fatal error: failed to migrate database", "err", err)
		panic(err)
	}

	// Redis 连接
	redisClient, err := redis.InitRedis(cfg.Redis, cfg.Testing)
	if err != nil {
		log.Error("Fatal error: failed to create redis connection", "err", err)
		panic(err)
	}
	defer func() {
		_ = redisClient.Close()
	}()

	// Mongo 连接
	mongoConn, err := mongo.InitMongo(context.Background(), cfg.Mongo)
	if err != nil {
		log.Error("Fatal error: failed to create mongo connection", "err", err)
		panic(err)
	}

	// 宽列存储
	wideColumn, closeWideColumn, err := openWideColumn(cfg.WideColumn, mongoConn)
	if err != nil {
		log.Error("Fatal error: failed to open wide column store", "err", err)
		panic(err)
	}
	defer closeWideColumn()

	// 依赖注入
	app, err := wire.BuildApplication(wire.Infra{
		DB:         db,
		Redis:      redisClient,
		SysBox:     mongo.NewSysBoxRepo(mongoConn),
		WideColumn: wideColumn,
	}, cfg)
	if err != nil {
		log.Error("Fatal error: failed to create application", "err", err)
		panic(err)
	}
	if closer, ok := app.Queue.(io.Closer); ok {
		defer func() {
			_ = closer.Close()
		}()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)

	// 定时任务
	if err = app.CronMgr.Start(); err != nil {
		log.Error("Fatal error: failed to start cron jobs", "err", err)
		panic(err)
	}
	g.Go(func() error {
		<-ctx.Done()
		log.Info("Cron Jobs stopping...")
		app.CronMgr.Stop()
		return nil
	})

	// Kafka 消费者
	if app.ConsumerMgr != nil {
		g.Go(func() error {
			log.Info("Task Consumers starting...")
			return app.ConsumerMgr.Start(ctx)
		})
	}

	// HTTP 服务器
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: app.Router,
	}
	g.Go(func() error {
		log.Info("HTTP Server starting...", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	// 优雅退出
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case <-ctx.Done():
		case sig := <-quit:
			log.Info("Received signal, shutting down...", "signal", sig)
			cancel()
		}

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("HTTP Server shutdown failed", "err", err)
		}
		return nil
	})

	if err = g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("App exited with error", "err", err)
	}
	log.Info("App exited successfully.")
}

// openWideColumn 按配置选择 bolt 文件或 MongoDB 作为宽列存储
func openWideColumn(cfg config.WideColumnConfig, mongoConn *mongoDB.Database) (widecolumn.Backend, func(), error) {
	switch cfg.Backend {
	case "mongo":
		db := mongoConn
		if cfg.Database != "" {
			db = mongoConn.Client().Database(cfg.Database)
		}
		return widecolumn.NewMongoBackend(db), func() {}, nil
	case "bolt", "":
		if err := os.MkdirAll(filepath.Dir(cfg.BoltPath), 0o755); err != nil {
			return nil, nil, err
		}
		backend, err := widecolumn.OpenBolt(cfg.BoltPath)
		if err != nil {
			return nil, nil, err
		}
		return backend, func() {
			_ = backend.Close()
		}, nil
	default:
		return nil, nil, fmt.Errorf("unknown wide column backend %q", cfg.Backend)
	}
}
