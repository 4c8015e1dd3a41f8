package logger

import (
	"bytes"
	"context"
	log "log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextHandlerAddsTraceID(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(&ContextHandler{log.NewJSONHandler(&buf, nil)})

	logger.InfoContext(ContextWithTraceID(context.Background(), "abc"), "hello")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "abc", record["trace_id"])
}

func TestContextHandlerKeepsWrappingAfterWith(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(&ContextHandler{log.NewJSONHandler(&buf, nil)}).With("component", "fanout")

	logger.InfoContext(ContextWithTraceID(context.Background(), "t2"), "hello")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "t2", record["trace_id"])
	assert.Equal(t, "fanout", record["component"])
}

func TestTracedOnlyHandlerDropsUntraced(t *testing.T) {
	var local, remote bytes.Buffer
	tee := NewTeeHandler(
		log.NewJSONHandler(&local, nil),
		&TracedOnlyHandler{next: log.NewJSONHandler(&remote, nil)},
	)
	logger := log.New(&ContextHandler{tee})

	logger.Info("untraced")
	logger.InfoContext(ContextWithTraceID(context.Background(), "t1"), "traced")

	assert.Equal(t, 2, strings.Count(local.String(), "\n"))
	assert.Equal(t, 1, strings.Count(remote.String(), "\n"))
	assert.Contains(t, remote.String(), "traced")
}

func TestTeeHandlerHonoursEachLevel(t *testing.T) {
	var debug, warn bytes.Buffer
	tee := NewTeeHandler(
		log.NewJSONHandler(&debug, &log.HandlerOptions{Level: log.LevelDebug}),
		log.NewJSONHandler(&warn, &log.HandlerOptions{Level: log.LevelWarn}),
	)
	logger := log.New(tee)

	logger.Debug("d")
	logger.Warn("w")

	assert.Equal(t, 2, strings.Count(debug.String(), "\n"))
	assert.Equal(t, 1, strings.Count(warn.String(), "\n"))
}

func TestWithTraceID(t *testing.T) {
	ctx := WithTraceID(context.Background(), "task-")
	assert.True(t, strings.HasPrefix(TraceID(ctx), "task-"))

	kept := WithTraceID(ctx, "job-")
	assert.Equal(t, TraceID(ctx), TraceID(kept))
	assert.Empty(t, TraceID(nil))
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, log.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, log.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, log.LevelError, ParseLevel("error"))
	assert.Equal(t, log.LevelInfo, ParseLevel("verbose"))
}

func TestAccessLogRecordsRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var out bytes.Buffer
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(TraceIDKey, "req-1")
		c.Set("user_id", uint64(7))
	}, AccessLog(&out))
	r.GET("/api/posts/:post_id", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/posts/42", nil))

	var rec accessRecord
	require.NoError(t, json.Unmarshal(out.Bytes(), &rec))
	assert.Equal(t, "req-1", rec.TraceID)
	assert.Equal(t, uint64(7), rec.UserID)
	assert.Equal(t, "/api/posts/:post_id", rec.Path)
	assert.Equal(t, http.StatusNoContent, rec.Status)
	assert.Equal(t, "INFO", rec.Level)
}

func TestSQLOperation(t *testing.T) {
	assert.Equal(t, "SELECT", sqlOperation("  select * from posts"))
	assert.Equal(t, "Query", sqlOperation(""))
}

func TestCommandKey(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, "newsfeeds:1", commandKey(redis.NewStringCmd(ctx, "get", "newsfeeds:1")))
	assert.Equal(t, "[PROTECTED]", commandKey(redis.NewStatusCmd(ctx, "auth", "secret")))
	assert.Empty(t, commandKey(redis.NewStatusCmd(ctx, "ping")))
}
