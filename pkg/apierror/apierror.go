package apierror

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrorResponse 错误响应结构
type ErrorResponse struct {
	Errors    []Error `json:"errors"`
	RequestID string  `json:"requestID"`
}

func (er *ErrorResponse) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "RequestID: %s", er.RequestID)
	for _, e := range er.Errors {
		fmt.Fprintf(&b, "; %s", e.Error())
	}
	return b.String()
}

// Error 单个错误信息
type Error struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"` // HTTP 状态码，不会序列化到响应中
	RawError   error  `json:"-"` // 内部错误，用于服务端调试，不会序列化到响应中
}

// Error 实现 error 接口
func (e *Error) Error() string {
	str := fmt.Sprintf("[%s] %s", e.Code, e.Message)
	if e.RawError != nil {
		str += fmt.Sprintf(" (RawError: %v)", e.RawError)
	}
	return str
}

// Is 错误码相同即视为同一类错误
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || e == nil || t == nil {
		return false
	}
	return e.Code == t.Code
}

// Unwrap 返回 RawError
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.RawError
}

// Status 返回 HTTP 状态码，未设置时为 500
func (e *Error) Status() int {
	if e == nil || e.HTTPStatus <= 0 {
		return http.StatusInternalServerError
	}
	return e.HTTPStatus
}

var _ interface {
	Error() string
	Is(target error) bool
	Unwrap() error
} = (*Error)(nil)

// NewError 创建新的错误，默认 HTTP 状态码为 500
func NewError(code, message string) *Error {
	return NewErrorWithStatus(code, message, http.StatusInternalServerError)
}

// NewErrorWithStatus 创建新的错误，指定 HTTP 状态码
func NewErrorWithStatus(code, message string, httpStatus int) *Error {
	return &Error{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// NewErrorWithRaw 创建新的错误，包含原始错误信息
func NewErrorWithRaw(code, message string, rawError error) *Error {
	e := NewError(code, message)
	e.RawError = rawError
	return e
}

// NewErrorResponse 创建新的错误响应
func NewErrorResponse(requestID string, errs ...*Error) *ErrorResponse {
	list := make([]Error, 0, len(errs))
	for _, e := range errs {
		if e != nil {
			list = append(list, *e)
		}
	}
	return &ErrorResponse{
		Errors:    list,
		RequestID: requestID,
	}
}

// AddError 添加错误到响应
func (er *ErrorResponse) AddError(err *Error) {
	er.Errors = append(er.Errors, *err)
}

// WrapError 包装预定义的错误
// 保留预定义错误的 Code 和 HTTPStatus，替换消息并附加原始错误
func WrapError(baseErr *Error, message string, rawError error) *Error {
	return &Error{
		Code:       baseErr.Code,
		Message:    message,
		HTTPStatus: baseErr.HTTPStatus,
		RawError:   rawError,
	}
}

// From 从错误链中取出 *Error
// 错误链中没有 *Error 时包装为 ErrInternalError
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return WrapError(ErrInternalError, ErrInternalError.Message, err)
}
