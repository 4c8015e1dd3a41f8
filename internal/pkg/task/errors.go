package task

import (
	"Feedcore/internal/pkg/widecolumn"
	"errors"
)

var (
	ErrPermanent     = errors.New("permanent task error")
	ErrUnknownTask   = errors.New("unknown task")
	ErrNoRoute       = errors.New("no topic for task")
	ErrDuplicateTask = errors.New("task handler already registered")
)

type permanentError struct {
	err error
}

func (e *permanentError) Error() string {
	return e.err.Error()
}

func (e *permanentError) Unwrap() error {
	return e.err
}

func (e *permanentError) Is(target error) bool {
	return target == ErrPermanent
}

// Permanent 标记错误不可重试
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// IsPermanent 宽列存储的数据形状错误同样不可重试
func IsPermanent(err error) bool {
	return errors.Is(err, ErrPermanent) ||
		errors.Is(err, ErrUnknownTask) ||
		errors.Is(err, widecolumn.ErrBadRowKey) ||
		errors.Is(err, widecolumn.ErrEmptyColumn)
}
