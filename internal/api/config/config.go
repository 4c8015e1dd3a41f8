package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Cfg 全局可访问的配置实例
var Cfg *Config

// LoadConfig 从文件加载配置并填充到 Cfg
func LoadConfig() error {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")

	viper.SetEnvPrefix("FEEDCORE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			return fmt.Errorf("config file not found: %w", err)
		}
		return fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	Cfg = &cfg

	return nil
}

func setDefaults() {
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("wide_column.backend", "bolt")
	viper.SetDefault("wide_column.bolt_path", "./data/widecolumn.db")
	viper.SetDefault("kafka_fanout_main.topic", "newsfeeds.fanout_main")
	viper.SetDefault("kafka_fanout_main.group_id", "feedcore-fanout-main")
	viper.SetDefault("kafka_fanout_batch.topic", "newsfeeds.fanout_batch")
	viper.SetDefault("kafka_fanout_batch.group_id", "feedcore-fanout-batch")
	viper.SetDefault("cache.list_limit", 200)
	viper.SetDefault("cache.list_ttl", 3600)
	viper.SetDefault("cache.object_ttl", 3600)
	viper.SetDefault("cache.counter_ttl", 3600)
	viper.SetDefault("fanout.batch_size", 1000)
	viper.SetDefault("fanout.max_attempts", 5)
	viper.SetDefault("fanout.task_timeout", 3600)
	viper.SetDefault("pagination.page_size", 20)
	viper.SetDefault("jwt.expire_hours", 24)
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.slow_threshold", 200)
}
