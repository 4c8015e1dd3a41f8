package widecolumn

import (
	"context"
)

const testTablePrefix = "test_"

// ScanOptions 扫描参数，Start/Stop/Prefix 为按行键顺序给出的字段元组，可只给出前几个字段
type ScanOptions struct {
	Start   []any
	Stop    []any
	Prefix  []any
	Limit   int
	Reverse bool
}

// Table 绑定 Schema 与 Backend 的表
type Table struct {
	schema  *Schema
	backend Backend
	testing bool
}

func NewTable(schema *Schema, backend Backend, testing bool) *Table {
	return &Table{
		schema:  schema,
		backend: backend,
		testing: testing,
	}
}

func (t *Table) Schema() *Schema {
	return t.schema
}

// Name 物理表名，测试模式下带 test_ 前缀
func (t *Table) Name() string {
	if t.testing {
		return testTablePrefix + t.schema.Table
	}
	return t.schema.Table
}

// Put 写入一行，行键字段必须齐全且至少包含一个列值
func (t *Table) Put(ctx context.Context, values Values) error {
	row, err := t.encodeRow(values)
	if err != nil {
		return err
	}
	return t.backend.Put(ctx, t.Name(), row.Key, row.Columns)
}

// Get 按完整行键读取一行，不存在时返回 nil
func (t *Table) Get(ctx context.Context, keyValues Values) (Values, error) {
	key, err := t.schema.EncodeRowKey(keyValues, false)
	if err != nil {
		return nil, err
	}
	cols, err := t.backend.Get(ctx, t.Name(), key)
	if err != nil {
		return nil, err
	}
	return t.schema.DecodeRow(key, cols)
}

func (t *Table) Delete(ctx context.Context, keyValues Values) error {
	key, err := t.schema.EncodeRowKey(keyValues, false)
	if err != nil {
		return err
	}
	return t.backend.Delete(ctx, t.Name(), key)
}

// Scan 按行键字节序扫描 [Start, Stop)
func (t *Table) Scan(ctx context.Context, opts ScanOptions) ([]Values, error) {
	start, _, err := t.encodeTuple(opts.Start)
	if err != nil {
		return nil, err
	}
	stop, _, err := t.encodeTuple(opts.Stop)
	if err != nil {
		return nil, err
	}
	prefix, n, err := t.encodeTuple(opts.Prefix)
	if err != nil {
		return nil, err
	}
	if n > 0 && n < len(t.schema.RowKey) {
		prefix += Separator
	}

	rows, err := t.backend.Scan(ctx, t.Name(), Range{
		Start:   start,
		Stop:    stop,
		Prefix:  prefix,
		Limit:   opts.Limit,
		Reverse: opts.Reverse,
	})
	if err != nil {
		return nil, err
	}

	result := make([]Values, 0, len(rows))
	for _, row := range rows {
		values, err := t.schema.DecodeRow(row.Key, row.Columns)
		if err != nil {
			return nil, err
		}
		if values != nil {
			result = append(result, values)
		}
	}
	return result, nil
}

// CountRows 统计前缀下的行数，prefix 为空时统计全表
func (t *Table) CountRows(ctx context.Context, prefix ...any) (int64, error) {
	rows, err := t.Scan(ctx, ScanOptions{Prefix: prefix})
	if err != nil {
		return 0, err
	}
	return int64(len(rows)), nil
}

// WithBatch fn 内累积的写入在 fn 返回 nil 后一次性提交
func (t *Table) WithBatch(ctx context.Context, fn func(b *Batch) error) error {
	b := &Batch{table: t}
	if err := fn(b); err != nil {
		return err
	}
	return t.backend.PutBatch(ctx, t.Name(), b.rows)
}

// CreateTable 仅测试模式可用
func (t *Table) CreateTable(ctx context.Context) error {
	if !t.testing {
		return ErrNotTesting
	}
	return t.backend.CreateTable(ctx, t.Name())
}

// DropTable 仅测试模式可用
func (t *Table) DropTable(ctx context.Context) error {
	if !t.testing {
		return ErrNotTesting
	}
	return t.backend.DropTable(ctx, t.Name())
}

func (t *Table) encodeRow(values Values) (Row, error) {
	key, err := t.schema.EncodeRowKey(values, false)
	if err != nil {
		return Row{}, err
	}
	cols, err := t.schema.EncodeColumns(values)
	if err != nil {
		return Row{}, err
	}
	if len(cols) == 0 {
		return Row{}, &ColumnError{Table: t.schema.Table}
	}
	return Row{Key: key, Columns: cols}, nil
}

func (t *Table) encodeTuple(tuple []any) (string, int, error) {
	if len(tuple) == 0 {
		return "", 0, nil
	}
	values, err := t.schema.tupleValues(tuple)
	if err != nil {
		return "", 0, err
	}
	return t.schema.encodeRowKey(values, true)
}

// Batch 批量写入累积器
type Batch struct {
	table *Table
	rows  []Row
}

func (b *Batch) Put(values Values) error {
	row, err := b.table.encodeRow(values)
	if err != nil {
		return err
	}
	b.rows = append(b.rows, row)
	return nil
}

func (b *Batch) Len() int {
	return len(b.rows)
}
