package database

import (
	"Feedcore/internal/api/config"
	"Feedcore/internal/model"
	"Feedcore/internal/pkg/logger"
	"fmt"
	log "log/slog"
	"time"

	mysqlDriver "github.com/go-sql-driver/mysql"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

const defaultDialTimeout = 5 * time.Second

// NewGormDB 初始化并返回 *gorm.DB 实例，处理连接池配置
func NewGormDB(cfg *config.DBConfig) (*gorm.DB, error) {
	dsnCfg, err := ParseDSN(cfg.DSN)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(mysql.New(mysql.Config{DSNConfig: dsnCfg}), &gorm.Config{
		Logger:         logger.NewGormLogger(logger.SlowThreshold()),
		PrepareStmt:    true,
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying DB: %w", err)
	}

	sqlDB.SetMaxIdleConns(cfg.MaxIdle)
	sqlDB.SetMaxOpenConns(cfg.MaxOpen)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.MaxLifetime) * time.Minute)

	if err = sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("database connection check failed: %w", err)
	}

	log.Info("Database connection established successfully.")
	return db, nil
}

// ParseDSN 校验 DSN 并补齐连接超时
func ParseDSN(dsn string) (*mysqlDriver.Config, error) {
	dsnCfg, err := mysqlDriver.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("invalid database dsn: %w", err)
	}
	if dsnCfg.DBName == "" {
		return nil, fmt.Errorf("invalid database dsn: database name is empty")
	}
	if dsnCfg.Timeout == 0 {
		dsnCfg.Timeout = defaultDialTimeout
	}
	return dsnCfg, nil
}

// AutoMigrate 创建关系型存储的表
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Post{},
		&model.NewsFeed{},
		&model.UserFollow{},
		&model.Like{},
		&model.PostComment{},
	)
}
