package service

import (
	"Feedcore/internal/pkg/pagination"
	"errors"
)

const (
	BadRequest          = 400
	Unauthorized        = 401
	NotFound            = 404
	InternalServerError = 500
)

var (
	ErrParamInvalid        = errors.New("参数错误")
	ErrUserFollowLimit     = errors.New("用户关注数量超过限制")
	ErrPostNotFound        = errors.New("帖子不存在")
	ErrPostCommentNotFound = errors.New("评论不存在")
	ErrActionDuplicate     = errors.New("重复操作")
	ErrSysBoxNotFound      = errors.New("系统通知不存在")
	UnauthorizedError      = errors.New("权限不足")
	UnExpectedError        = errors.New("系统异常，请稍后重试")
)

var ErrorMap = map[error]int{
	ErrParamInvalid:             BadRequest,
	ErrUserFollowLimit:          BadRequest,
	ErrPostNotFound:             NotFound,
	ErrPostCommentNotFound:      NotFound,
	ErrActionDuplicate:          BadRequest,
	ErrSysBoxNotFound:           NotFound,
	UnauthorizedError:           Unauthorized,
	UnExpectedError:             InternalServerError,
	pagination.ErrInvalidCursor: BadRequest,
}
