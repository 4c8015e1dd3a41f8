package pagination

import (
	"Feedcore/internal/pkg/widecolumn"
	"context"
	"slices"

	"gorm.io/gorm"
)

const DefaultPageSize = 20

// Item 可分页元素，按 created_at 从新到旧排列
type Item interface {
	GetCreatedAt() int64
}

// Paginator 基于 created_at 游标的无限滚动分页
type Paginator[T Item] struct {
	PageSize int
}

func New[T Item](pageSize int) *Paginator[T] {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Paginator[T]{PageSize: pageSize}
}

// PaginateOrderedList 对已按新到旧排好序的列表分页
func (p *Paginator[T]) PaginateOrderedList(list []T, params Params) ([]T, bool) {
	if params.HasGT() {
		gt := *params.CreatedAtGT
		page := make([]T, 0)
		for _, obj := range list {
			if obj.GetCreatedAt() <= gt {
				break
			}
			page = append(page, obj)
		}
		return page, false
	}

	index := 0
	if params.HasLT() {
		lt := *params.CreatedAtLT
		index = slices.IndexFunc(list, func(obj T) bool {
			return obj.GetCreatedAt() < lt
		})
		if index < 0 {
			return make([]T, 0), false
		}
	}

	end := min(index+p.PageSize, len(list))
	page := append(make([]T, 0, end-index), list[index:end]...)
	return page, len(list) > end
}

// PaginateCachedList 在缓存列表上分页，ok 为 false 表示缓存不足以回答，需要回源
func (p *Paginator[T]) PaginateCachedList(list []T, params Params, cacheLimit int) (page []T, hasNext bool, ok bool) {
	page, hasNext = p.PaginateOrderedList(list, params)
	if params.HasGT() || hasNext {
		return page, hasNext, true
	}
	// 缓存未满说明已包含全部数据
	if len(list) < cacheLimit {
		return page, hasNext, true
	}
	return nil, false, false
}

// PaginateQuery 在关系型查询上分页，query 需已限定归属条件
func (p *Paginator[T]) PaginateQuery(ctx context.Context, query *gorm.DB, params Params) ([]T, bool, error) {
	var items []T
	q := query.WithContext(ctx)

	if params.HasGT() {
		err := q.Where("created_at > ?", *params.CreatedAtGT).
			Order("created_at desc").
			Find(&items).Error
		if err != nil {
			return nil, false, err
		}
		return items, false, nil
	}

	if params.HasLT() {
		q = q.Where("created_at < ?", *params.CreatedAtLT)
	}
	err := q.Order("created_at desc").
		Limit(p.PageSize + 1).
		Find(&items).Error
	if err != nil {
		return nil, false, err
	}

	hasNext := len(items) > p.PageSize
	if hasNext {
		items = items[:p.PageSize]
	}
	return items, hasNext, nil
}

// PaginateWideColumn 在宽列表上分页，表的行键须为 prefix 后接 created_at
// 扫描区间包含游标本身所在行，取回后丢弃该行
func (p *Paginator[T]) PaginateWideColumn(ctx context.Context, table *widecolumn.Table, prefix []any, params Params, decode func(widecolumn.Values) T) ([]T, bool, error) {
	if params.HasGT() {
		gt := *params.CreatedAtGT
		if gt >= widecolumn.MaxTimestamp {
			return make([]T, 0), false, nil
		}
		rows, err := table.Scan(ctx, widecolumn.ScanOptions{
			Start: withTail(prefix, gt),
			Stop:  withTail(prefix, widecolumn.MaxTimestamp),
		})
		if err != nil {
			return nil, false, err
		}
		if len(rows) > 0 && rows[0].Int64("created_at") == gt {
			rows = rows[1:]
		}
		slices.Reverse(rows)
		return decodeAll(rows, decode), false, nil
	}

	opts := widecolumn.ScanOptions{
		Prefix:  prefix,
		Reverse: true,
		Limit:   p.PageSize + 1,
	}
	// 游标超出行键宽度时等同于不设上界
	bounded := params.HasLT() && *params.CreatedAtLT <= widecolumn.MaxTimestamp
	if bounded {
		lt := *params.CreatedAtLT
		if lt < widecolumn.MaxTimestamp {
			opts.Stop = withTail(prefix, lt+1)
		}
		opts.Limit = p.PageSize + 2
	}
	rows, err := table.Scan(ctx, opts)
	if err != nil {
		return nil, false, err
	}
	if bounded && len(rows) > 0 && rows[0].Int64("created_at") == *params.CreatedAtLT {
		rows = rows[1:]
	}

	hasNext := len(rows) > p.PageSize
	if hasNext {
		rows = rows[:p.PageSize]
	}
	return decodeAll(rows, decode), hasNext, nil
}

func withTail(prefix []any, tail any) []any {
	tuple := make([]any, 0, len(prefix)+1)
	tuple = append(tuple, prefix...)
	return append(tuple, tail)
}

func decodeAll[T Item](rows []widecolumn.Values, decode func(widecolumn.Values) T) []T {
	items := make([]T, 0, len(rows))
	for _, row := range rows {
		items = append(items, decode(row))
	}
	return items
}
