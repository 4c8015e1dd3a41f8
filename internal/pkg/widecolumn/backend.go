package widecolumn

import (
	"context"
	"strings"
)

// Row 原始行：已编码的行键与 family:field -> 已编码值
type Row struct {
	Key     string
	Columns map[string]string
}

// Range 按键的字节序扫描 [Start, Stop)，Reverse 从区间末端向前返回
type Range struct {
	Start   string
	Stop    string
	Prefix  string
	Limit   int
	Reverse bool
}

// Backend 有序键值存储，每张表一个独立命名空间
type Backend interface {
	Put(ctx context.Context, table, key string, cols map[string]string) error
	PutBatch(ctx context.Context, table string, rows []Row) error
	Get(ctx context.Context, table, key string) (map[string]string, error)
	Scan(ctx context.Context, table string, r Range) ([]Row, error)
	Delete(ctx context.Context, table, key string) error
	CreateTable(ctx context.Context, table string) error
	DropTable(ctx context.Context, table string) error
}

// lower 区间下界，空串表示无下界
func (r Range) lower() string {
	if r.Prefix > r.Start {
		return r.Prefix
	}
	return r.Start
}

// upper 区间上界 (不含)，空串表示无上界
func (r Range) upper() string {
	up := r.Stop
	if r.Prefix != "" {
		if end := prefixEnd(r.Prefix); end != "" && (up == "" || end < up) {
			up = end
		}
	}
	return up
}

func (r Range) contains(key string) bool {
	if r.Prefix != "" && !strings.HasPrefix(key, r.Prefix) {
		return false
	}
	if lo := r.lower(); lo != "" && key < lo {
		return false
	}
	if up := r.upper(); up != "" && key >= up {
		return false
	}
	return true
}

// prefixEnd 大于所有以 prefix 开头的键的最小键
func prefixEnd(prefix string) string {
	b := []byte(prefix)
	for i := len(b) - 1; i >= 0; i-- {
		if b[i] < 0xff {
			b[i]++
			return string(b[:i+1])
		}
	}
	return ""
}
