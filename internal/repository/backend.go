package repository

// Backend 主存储类型
type Backend string

const (
	BackendRelational Backend = "relational"
	BackendWideColumn Backend = "wide_column"
)
