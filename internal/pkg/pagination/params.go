package pagination

import (
	"Feedcore/internal/pkg/widecolumn"
	"errors"
	"strconv"
	"strings"
	"time"
)

var ErrInvalidCursor = errors.New("invalid pagination cursor")

// Params 游标参数，时间戳单位为微秒；两者同时给出时 gt 优先
type Params struct {
	CreatedAtGT *int64
	CreatedAtLT *int64
}

func (p Params) HasGT() bool {
	return p.CreatedAtGT != nil
}

func (p Params) HasLT() bool {
	return p.CreatedAtGT == nil && p.CreatedAtLT != nil
}

// ParseParams 解析查询参数，接受微秒整数或 RFC3339 时间
func ParseParams(gt, lt string) (Params, error) {
	var p Params
	if gt != "" {
		ts, err := parseTimestamp(gt)
		if err != nil {
			return Params{}, err
		}
		p.CreatedAtGT = &ts
	}
	if lt != "" {
		ts, err := parseTimestamp(lt)
		if err != nil {
			return Params{}, err
		}
		p.CreatedAtLT = &ts
	}
	return p, nil
}

func GT(ts int64) Params {
	return Params{CreatedAtGT: &ts}
}

func LT(ts int64) Params {
	return Params{CreatedAtLT: &ts}
}

// parseTimestamp 超出行键宽度的游标被截到 widecolumn.MaxTimestamp
func parseTimestamp(raw string) (int64, error) {
	ts, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		if !errors.Is(err, strconv.ErrRange) || strings.HasPrefix(raw, "-") {
			t, err := time.Parse(time.RFC3339Nano, raw)
			if err != nil {
				return 0, ErrInvalidCursor
			}
			ts = t.UnixMicro()
		} else {
			ts = widecolumn.MaxTimestamp
		}
	}
	if ts < 0 {
		return 0, ErrInvalidCursor
	}
	return min(ts, widecolumn.MaxTimestamp), nil
}
