package util

import (
	"strconv"
	"time"
)

// NowMicros 当前时间的微秒时间戳
func NowMicros() int64 {
	return time.Now().UnixMicro()
}

// MicrosToRFC3339 微秒时间戳转为 RFC3339 字符串
func MicrosToRFC3339(ts int64) string {
	return time.UnixMicro(ts).UTC().Format(time.RFC3339Nano)
}

// StrSliceToUInt64Slice 字符串切片转 uint64 切片
func StrSliceToUInt64Slice(strs []string) ([]uint64, error) {
	res := make([]uint64, 0, len(strs))
	for _, s := range strs {
		v, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return nil, err
		}
		res = append(res, v)
	}
	return res, nil
}

// UInt64SliceToStrSlice uint64 切片转字符串切片
func UInt64SliceToStrSlice(ids []uint64) []string {
	res := make([]string, 0, len(ids))
	for _, id := range ids {
		res = append(res, strconv.FormatUint(id, 10))
	}
	return res
}

// ChunkUint64 按 size 切分，最后一批可以不满
func ChunkUint64(ids []uint64, size int) [][]uint64 {
	if size <= 0 || len(ids) == 0 {
		return nil
	}
	chunks := make([][]uint64, 0, (len(ids)-1)/size+1)
	for start := 0; start < len(ids); start += size {
		end := min(start+size, len(ids))
		chunks = append(chunks, ids[start:end])
	}
	return chunks
}
