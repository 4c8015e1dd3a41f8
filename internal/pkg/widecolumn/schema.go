package widecolumn

import (
	"fmt"
	"math"
)

// Kind 字段类型
type Kind int8

const (
	String Kind = iota
	Integer
	Timestamp
)

const (
	// Separator 行键字段分隔符
	Separator = ":"
	// IntegerWidth 整数字段补零宽度
	IntegerWidth = 16
	// MaxTimestamp 16 位宽度内能表示的最大整数，也是最大时间戳 (微秒)
	MaxTimestamp int64 = 9999999999999999
)

// Field 字段描述，ColumnFamily 为空表示行键字段
type Field struct {
	Name         string
	Kind         Kind
	Reverse      bool
	ColumnFamily string
}

func (f Field) IsColumn() bool {
	return f.ColumnFamily != ""
}

// ColumnKey 列名 family:field
func (f Field) ColumnKey() string {
	return f.ColumnFamily + Separator + f.Name
}

// Schema 表结构描述
type Schema struct {
	Table  string
	RowKey []string
	Fields []Field

	index map[string]Field
}

// NewSchema 构建表结构，行键字段必须已声明且不属于任何列族
func NewSchema(table string, rowKey []string, fields ...Field) *Schema {
	s := &Schema{
		Table:  table,
		RowKey: rowKey,
		Fields: fields,
		index:  make(map[string]Field, len(fields)),
	}
	for _, f := range fields {
		s.index[f.Name] = f
	}
	for _, name := range rowKey {
		f, ok := s.index[name]
		if !ok || f.IsColumn() {
			panic(fmt.Sprintf("widecolumn: row key field %q of %s must be declared without column family", name, table))
		}
	}
	return s
}

// Field 按名称查找字段
func (s *Schema) Field(name string) (Field, bool) {
	f, ok := s.index[name]
	return f, ok
}

// Values 一行数据，整数与时间戳字段解码后统一为 int64
type Values map[string]any

func (v Values) Int64(name string) int64 {
	n, _ := toInt64(v[name])
	return n
}

func (v Values) Uint64(name string) uint64 {
	n, _ := toInt64(v[name])
	if n < 0 {
		return 0
	}
	return uint64(n)
}

func (v Values) String(name string) string {
	s, _ := v[name].(string)
	return s
}

func toInt64(value any) (int64, bool) {
	switch n := value.(type) {
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint:
		if uint64(n) > math.MaxInt64 {
			return 0, false
		}
		return int64(n), true
	case uint64:
		if n > math.MaxInt64 {
			return 0, false
		}
		return int64(n), true
	default:
		return 0, false
	}
}
