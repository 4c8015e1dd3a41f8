package logger

import (
	"fmt"
	"io"
	log "log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
)

// accessRecord Logstash 访问日志格式
type accessRecord struct {
	Time     string `json:"time"`
	Level    string `json:"level"`
	Msg      string `json:"msg"`
	TraceID  string `json:"trace_id"`
	UserID   uint64 `json:"user_id,omitempty"`
	Method   string `json:"method"`
	Path     string `json:"path"`
	Status   int    `json:"status"`
	Latency  string `json:"latency"`
	ClientIP string `json:"client_ip"`
}

// SetupGin 挂载访问日志与 panic 恢复
func SetupGin(r *gin.Engine) {
	r.Use(AccessLog(AccessWriter), gin.Recovery())
}

// AccessLog 每个请求结束后写一条访问日志，5xx 同时以 error 级别写入 slog
func AccessLog(out io.Writer) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		rec := accessRecord{
			Time:     start.Format(time.RFC3339),
			Level:    "INFO",
			Msg:      "GIN_ACCESS",
			TraceID:  c.GetString(TraceIDKey),
			UserID:   c.GetUint64("user_id"),
			Method:   c.Request.Method,
			Path:     c.FullPath(),
			Status:   c.Writer.Status(),
			Latency:  time.Since(start).String(),
			ClientIP: c.ClientIP(),
		}
		if rec.Path == "" {
			rec.Path = c.Request.URL.Path
		}
		if rec.TraceID == "" {
			rec.TraceID = TraceID(c.Request.Context())
		}

		if rec.Status >= 500 {
			rec.Level = "ERROR"
			log.ErrorContext(c.Request.Context(), "request failed",
				"method", rec.Method, "path", rec.Path, "status", rec.Status, "errors", c.Errors.String())
		}
		if line, err := json.Marshal(rec); err == nil {
			_, _ = fmt.Fprintln(out, string(line))
		}
	}
}
