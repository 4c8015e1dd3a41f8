package dto

// Response 统一返回结构
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// ListDTO 无限滚动列表，下一页使用最后一条的 created_at 作为 created_at__lt
type ListDTO[T any] struct {
	List        []T  `json:"list"`
	HasNextPage bool `json:"has_next_page"`
}

type CountDTO struct {
	Count int64 `json:"count"`
}

// PageQuery 游标参数，取值为微秒时间戳或 RFC3339 时间
type PageQuery struct {
	CreatedAtGT string `form:"created_at__gt"`
	CreatedAtLT string `form:"created_at__lt"`
}
