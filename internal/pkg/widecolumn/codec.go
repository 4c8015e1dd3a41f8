package widecolumn

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// EncodeField 序列化单个字段：整数补零到 16 位，超出宽度的整数报错，reverse 字段在补零后整体反转
func (s *Schema) EncodeField(f Field, value any) (string, error) {
	var raw string
	switch f.Kind {
	case Integer, Timestamp:
		if t, ok := value.(time.Time); ok {
			value = t.UnixMicro()
		}
		n, ok := toInt64(value)
		if !ok {
			return "", &RowKeyError{Table: s.Table, Field: f.Name, Msg: fmt.Sprintf("%T is not an integer", value)}
		}
		if n < 0 {
			return "", &RowKeyError{Table: s.Table, Field: f.Name, Msg: "negative integer"}
		}
		if n > MaxTimestamp {
			return "", &RowKeyError{Table: s.Table, Field: f.Name, Msg: fmt.Sprintf("integer wider than %d digits", IntegerWidth)}
		}
		raw = fmt.Sprintf("%0*d", IntegerWidth, n)
	default:
		str, ok := value.(string)
		if !ok {
			return "", &RowKeyError{Table: s.Table, Field: f.Name, Msg: fmt.Sprintf("%T is not a string", value)}
		}
		raw = str
	}
	if f.Reverse {
		raw = reverse(raw)
	}
	return raw, nil
}

// DecodeField 反序列化单个字段
func (s *Schema) DecodeField(f Field, raw string) (any, error) {
	if f.Reverse {
		raw = reverse(raw)
	}
	switch f.Kind {
	case Integer, Timestamp:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, &RowKeyError{Table: s.Table, Field: f.Name, Msg: fmt.Sprintf("cannot decode %q", raw)}
		}
		return n, nil
	default:
		return raw, nil
	}
}

// EncodeRowKey 序列化行键
// prefix 为 true 时遇到第一个缺失字段即截断，否则缺失字段返回 ErrBadRowKey
func (s *Schema) EncodeRowKey(values Values, prefix bool) (string, error) {
	key, _, err := s.encodeRowKey(values, prefix)
	return key, err
}

func (s *Schema) encodeRowKey(values Values, prefix bool) (string, int, error) {
	if len(s.RowKey) == 0 {
		return "", 0, &RowKeyError{Table: s.Table, Msg: "schema has no row key"}
	}
	parts := make([]string, 0, len(s.RowKey))
	for _, name := range s.RowKey {
		value, ok := values[name]
		if !ok || value == nil {
			if prefix {
				break
			}
			return "", 0, &RowKeyError{Table: s.Table, Field: name, Msg: "field is missing in row key"}
		}
		raw, err := s.EncodeField(s.index[name], value)
		if err != nil {
			return "", 0, err
		}
		if strings.Contains(raw, Separator) {
			return "", 0, &RowKeyError{Table: s.Table, Field: name, Msg: fmt.Sprintf("value %q contains %q", raw, Separator)}
		}
		parts = append(parts, raw)
	}
	return strings.Join(parts, Separator), len(parts), nil
}

// DecodeRowKey 反序列化行键，缺失的尾部字段不出现在结果中
func (s *Schema) DecodeRowKey(key string) (Values, error) {
	values := make(Values, len(s.Fields))
	if key == "" {
		return values, nil
	}
	parts := strings.Split(key, Separator)
	if len(parts) > len(s.RowKey) {
		return nil, &RowKeyError{Table: s.Table, Msg: fmt.Sprintf("row key %q has too many fields", key)}
	}
	for i, raw := range parts {
		f := s.index[s.RowKey[i]]
		value, err := s.DecodeField(f, raw)
		if err != nil {
			return nil, err
		}
		values[f.Name] = value
	}
	return values, nil
}

// EncodeColumns 序列化列族字段，键为 family:field
func (s *Schema) EncodeColumns(values Values) (map[string]string, error) {
	cols := make(map[string]string)
	for _, f := range s.Fields {
		if !f.IsColumn() {
			continue
		}
		value, ok := values[f.Name]
		if !ok || value == nil {
			continue
		}
		raw, err := s.EncodeField(f, value)
		if err != nil {
			return nil, err
		}
		cols[f.ColumnKey()] = raw
	}
	return cols, nil
}

// DecodeRow 合并行键字段与列字段，空列集合视为行不存在
func (s *Schema) DecodeRow(key string, cols map[string]string) (Values, error) {
	if len(cols) == 0 {
		return nil, nil
	}
	values, err := s.DecodeRowKey(key)
	if err != nil {
		return nil, err
	}
	for colKey, raw := range cols {
		_, name, found := strings.Cut(colKey, Separator)
		if !found {
			continue
		}
		f, ok := s.index[name]
		if !ok || !f.IsColumn() {
			continue
		}
		value, err := s.DecodeField(f, raw)
		if err != nil {
			return nil, err
		}
		values[name] = value
	}
	return values, nil
}

// tupleValues 将按行键顺序给出的元组转为 Values，nil 元素视为缺失
func (s *Schema) tupleValues(tuple []any) (Values, error) {
	if len(tuple) > len(s.RowKey) {
		return nil, &RowKeyError{Table: s.Table, Msg: fmt.Sprintf("%d values for %d row key fields", len(tuple), len(s.RowKey))}
	}
	values := make(Values, len(tuple))
	for i, v := range tuple {
		values[s.RowKey[i]] = v
	}
	return values, nil
}

func reverse(s string) string {
	r := []rune(s)
	for i, j := 0, len(r)-1; i < j; i, j = i+1, j-1 {
		r[i], r[j] = r[j], r[i]
	}
	return string(r)
}
