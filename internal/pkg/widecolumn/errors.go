package widecolumn

import (
	"errors"
	"fmt"
)

var (
	ErrBadRowKey   = errors.New("bad row key")
	ErrEmptyColumn = errors.New("empty column")
	ErrNotTesting  = errors.New("table create/drop is only allowed in testing mode")
)

// RowKeyError 行键编码失败，errors.Is(err, ErrBadRowKey) 为 true
type RowKeyError struct {
	Table string
	Field string
	Msg   string
}

func (e *RowKeyError) Error() string {
	return fmt.Sprintf("bad row key: %s (table=%s, field=%s)", e.Msg, e.Table, e.Field)
}

func (e *RowKeyError) Is(target error) bool {
	return target == ErrBadRowKey
}

// ColumnError 写入时没有任何列值，errors.Is(err, ErrEmptyColumn) 为 true
type ColumnError struct {
	Table string
}

func (e *ColumnError) Error() string {
	return fmt.Sprintf("empty column: no column values to put into %s", e.Table)
}

func (e *ColumnError) Is(target error) bool {
	return target == ErrEmptyColumn
}
