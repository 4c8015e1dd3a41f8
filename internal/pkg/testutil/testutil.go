// Package testutil 测试用的基础设施：miniredis、内存 sqlite、临时 bolt 文件
package testutil

import (
	"Feedcore/internal/pkg/redis"
	"Feedcore/internal/pkg/widecolumn"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/glebarez/sqlite"
	goredis "github.com/redis/go-redis/v9"
	"github.com/redis/go-redis/v9/maintnotifications"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// NewRedis 启动 miniredis 并返回测试模式的客户端
func NewRedis(t testing.TB) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{
		Addr: mr.Addr(),
		MaintNotificationsConfig: &maintnotifications.Config{
			Mode: maintnotifications.ModeDisabled,
		},
	})
	t.Cleanup(func() {
		_ = rdb.Close()
	})
	return redis.NewClient(rdb, true), mr
}

// NewGormDB 内存 sqlite，并迁移给定模型
func NewGormDB(t testing.TB, models ...any) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	if len(models) > 0 {
		require.NoError(t, db.AutoMigrate(models...))
	}
	return db
}

// NewBolt 在临时目录中打开 bolt 存储
func NewBolt(t testing.TB) *widecolumn.BoltBackend {
	t.Helper()
	backend, err := widecolumn.OpenBolt(filepath.Join(t.TempDir(), "widecolumn.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = backend.Close()
	})
	return backend
}
