package config

// Config 配置主体
type Config struct {
	Server           ServerConfig     `mapstructure:"server"`
	DB               DBConfig         `mapstructure:"database"`
	Redis            RedisConfig      `mapstructure:"redis"`
	Mongo            MongoConfig      `mapstructure:"mongo"`
	WideColumn       WideColumnConfig `mapstructure:"wide_column"`
	Kafka            KafkaConfig      `mapstructure:"kafka"`
	KafkaFanoutMain  KafkaTopicConfig `mapstructure:"kafka_fanout_main"`
	KafkaFanoutBatch KafkaTopicConfig `mapstructure:"kafka_fanout_batch"`
	Cache            CacheConfig      `mapstructure:"cache"`
	Fanout           FanoutConfig     `mapstructure:"fanout"`
	Pagination       PaginationConfig `mapstructure:"pagination"`
	JWT              JWTConfig        `mapstructure:"jwt"`
	Log              LogConfig        `mapstructure:"log"`
	Logstash         LogstashConfig   `mapstructure:"logstash"`
	Testing          bool             `mapstructure:"testing"`
}

// ServerConfig Server配置
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// DBConfig 数据库配置
type DBConfig struct {
	DSN         string `mapstructure:"dsn"`
	MaxIdle     int    `mapstructure:"max_idle"`
	MaxOpen     int    `mapstructure:"max_open"`
	MaxLifetime int    `mapstructure:"max_lifetime"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

type MongoConfig struct {
	URL      string `mapstructure:"url"`
	Database string `mapstructure:"database"`
}

// WideColumnConfig 宽列存储配置，backend 取值 bolt 或 mongo
type WideColumnConfig struct {
	Backend  string `mapstructure:"backend"`
	BoltPath string `mapstructure:"bolt_path"`
	Database string `mapstructure:"database"`
}

type KafkaConfig struct {
	Brokers  []string       `mapstructure:"brokers"`
	Sasl     SaslConfig     `mapstructure:"sasl"`
	Consumer ConsumerConfig `mapstructure:"consumer"`
}

type SaslConfig struct {
	Enable   bool   `mapstructure:"enable"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

type ConsumerConfig struct {
	SessionTimeout    int `mapstructure:"session_timeout"`
	HeartbeatInterval int `mapstructure:"heartbeat_interval"`
	RebalanceTimeout  int `mapstructure:"rebalance_timeout"`
	MaxProcessingTime int `mapstructure:"max_processing_time"`
}

type KafkaTopicConfig struct {
	Topic   string `mapstructure:"topic"`
	GroupID string `mapstructure:"group_id"`
}

// CacheConfig 缓存配置，时间单位为秒
type CacheConfig struct {
	ListLimit  int `mapstructure:"list_limit"`
	ListTTL    int `mapstructure:"list_ttl"`
	ObjectTTL  int `mapstructure:"object_ttl"`
	CounterTTL int `mapstructure:"counter_ttl"`
}

// FanoutConfig 扇出任务配置
type FanoutConfig struct {
	BatchSize   int  `mapstructure:"batch_size"`
	MaxAttempts int  `mapstructure:"max_attempts"`
	TaskTimeout int  `mapstructure:"task_timeout"`
	Eager       bool `mapstructure:"eager"`
}

type PaginationConfig struct {
	PageSize int `mapstructure:"page_size"`
}

// JWTConfig Token 配置，过期时间单位为小时
type JWTConfig struct {
	Secret      string `mapstructure:"secret"`
	ExpireHours int    `mapstructure:"expire_hours"`
}

// LogConfig 日志级别与慢操作阈值，阈值单位为毫秒
type LogConfig struct {
	Level         string `mapstructure:"level"`
	SlowThreshold int    `mapstructure:"slow_threshold"`
}

type LogstashConfig struct {
	Address string `mapstructure:"address"`
	Index   string `mapstructure:"index"`
	Token   string `mapstructure:"token"`
}
