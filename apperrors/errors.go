// Package apperrors 定义跨层传递的业务错误哨兵，
// 控制器层据此决定HTTP状态码
package apperrors

import "errors"

var (
	// ErrNotFound 资源不存在，或属于其他用户
	ErrNotFound = errors.New("not found")
	// ErrValidation 请求参数校验失败
	ErrValidation = errors.New("validation failed")
)
