package crud

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound 记录不存在
var ErrNotFound = errors.New("record not found")

// NotFoundError 按主键查找失败
type NotFoundError struct {
	Entity string
	Key    any
}

// NotFound 创建 NotFoundError
func NotFound(entity string, key any) error {
	return &NotFoundError{Entity: entity, Key: key}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %v not found", e.Entity, e.Key)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// IsNotFound 判断错误链中是否包含 ErrNotFound
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// StatusOf 将服务层错误映射为 HTTP 状态码
func StatusOf(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case IsNotFound(err):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
