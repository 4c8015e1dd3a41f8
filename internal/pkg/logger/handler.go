package logger

import (
	"context"
	log "log/slog"
)

// TeeHandler 将同一条记录写入多个 Handler，任一 Handler 启用即启用
type TeeHandler struct {
	handlers []log.Handler
}

func NewTeeHandler(handlers ...log.Handler) *TeeHandler {
	return &TeeHandler{handlers: handlers}
}

func (s *TeeHandler) Enabled(ctx context.Context, level log.Level) bool {
	for _, h := range s.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

// Handle 每个 Handler 拿到记录的副本，单个失败不影响其余输出
func (s *TeeHandler) Handle(ctx context.Context, r log.Record) error {
	var firstErr error
	for _, h := range s.handlers {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r.Clone()); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (s *TeeHandler) WithAttrs(attrs []log.Attr) log.Handler {
	return s.each(func(h log.Handler) log.Handler { return h.WithAttrs(attrs) })
}

func (s *TeeHandler) WithGroup(name string) log.Handler {
	return s.each(func(h log.Handler) log.Handler { return h.WithGroup(name) })
}

func (s *TeeHandler) each(fn func(log.Handler) log.Handler) log.Handler {
	next := make([]log.Handler, len(s.handlers))
	for i, h := range s.handlers {
		next[i] = fn(h)
	}
	return &TeeHandler{handlers: next}
}

// TracedOnlyHandler 只转发带 trace_id 的记录，启动期等无链路的日志不上报远端
type TracedOnlyHandler struct {
	next log.Handler
}

func (s *TracedOnlyHandler) Enabled(ctx context.Context, level log.Level) bool {
	return s.next.Enabled(ctx, level)
}

func (s *TracedOnlyHandler) Handle(ctx context.Context, r log.Record) error {
	if TraceID(ctx) == "" && !hasTraceAttr(r) {
		return nil
	}
	return s.next.Handle(ctx, r)
}

func (s *TracedOnlyHandler) WithAttrs(attrs []log.Attr) log.Handler {
	return &TracedOnlyHandler{next: s.next.WithAttrs(attrs)}
}

func (s *TracedOnlyHandler) WithGroup(name string) log.Handler {
	return &TracedOnlyHandler{next: s.next.WithGroup(name)}
}

func hasTraceAttr(r log.Record) bool {
	found := false
	r.Attrs(func(a log.Attr) bool {
		if a.Key == TraceIDKey && a.Value.String() != "" {
			found = true
			return false
		}
		return true
	})
	return found
}
