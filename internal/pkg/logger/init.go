package logger

import (
	"Feedcore/internal/api/config"
	"io"
	log "log/slog"
	"net"
	"os"
	"strings"
	"time"
)

const defaultSlowThreshold = 200 * time.Millisecond

// AccessWriter 访问日志的额外输出，连上 Logstash 后指向远端连接
var AccessWriter io.Writer = io.Discard

// slowThreshold 各存储钩子共用的慢操作阈值
var slowThreshold = defaultSlowThreshold

// InitLogger 按配置初始化默认 slog，Logstash 不可达时只输出到 stdout
func InitLogger(cfg config.LogConfig, ls config.LogstashConfig) {
	if cfg.SlowThreshold > 0 {
		slowThreshold = time.Duration(cfg.SlowThreshold) * time.Millisecond
	}
	opts := &log.HandlerOptions{Level: ParseLevel(cfg.Level)}

	var handler log.Handler = log.NewJSONHandler(os.Stdout, opts)
	if ls.Address != "" {
		conn, err := net.DialTimeout("tcp", ls.Address, 3*time.Second)
		if err != nil {
			log.Warn("Logstash unreachable, logging to stdout only", "addr", ls.Address, "err", err)
		} else {
			remote := log.NewJSONHandler(conn, opts).WithAttrs([]log.Attr{
				log.String("target_index", ls.Index),
				log.String("log_token", ls.Token),
			})
			handler = NewTeeHandler(handler, &TracedOnlyHandler{next: remote})
			AccessWriter = conn
		}
	}

	log.SetDefault(log.New(&ContextHandler{handler}))
}

// ParseLevel 未知取值按 info 处理
func ParseLevel(level string) log.Level {
	switch strings.ToLower(level) {
	case "debug":
		return log.LevelDebug
	case "warn", "warning":
		return log.LevelWarn
	case "error":
		return log.LevelError
	default:
		return log.LevelInfo
	}
}

// SlowThreshold 当前慢操作阈值
func SlowThreshold() time.Duration {
	return slowThreshold
}
