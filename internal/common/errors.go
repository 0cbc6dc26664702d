package common

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError 应用级错误结构
// Status 是返回给调用方的 HTTP 状态码, Message 是可以直接展示给用户的文本
type AppError struct {
	Code    string
	Message string
	Status  int
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// WrapError 包装错误
func WrapError(code, message string, err error) error {
	return &AppError{
		Code:    code,
		Message: message,
		Status:  statusFor(code),
		Err:     err,
	}
}

// NewError 创建新错误
func NewError(code, message string) error {
	return &AppError{
		Code:    code,
		Message: message,
		Status:  statusFor(code),
	}
}

// WithStatus 创建带上游状态码的错误 (上游状态透传给调用方)
func WithStatus(code string, status int, message string, err error) error {
	if status < 400 || status > 599 {
		status = statusFor(code)
	}
	return &AppError{
		Code:    code,
		Message: message,
		Status:  status,
		Err:     err,
	}
}

// 错误码常量
const (
	ErrCodeGitHubAPI     = "GITHUB_API_ERROR"
	ErrCodeCompletion    = "COMPLETION_PROVIDER_ERROR"
	ErrCodeNoCompletion  = "NO_COMPLETION"
	ErrCodeDatabase      = "DATABASE_ERROR"
	ErrCodeNotification  = "NOTIFICATION_ERROR"
	ErrCodeInvalidInput  = "INVALID_INPUT"
	ErrCodeNotFound      = "NOT_FOUND"
	ErrCodeInternal      = "INTERNAL_ERROR"
	GenericErrorMessage  = "Internal server error"
	ProviderErrorMessage = "Failed to fetch data from GitHub"
)

func statusFor(code string) int {
	switch code {
	case ErrCodeInvalidInput:
		return http.StatusBadRequest
	case ErrCodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// IsCode 判断错误链上是否有指定错误码的 AppError
func IsCode(err error, code string) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// Resolve 把任意错误转换成 (状态码, 对外消息)
// 未分类的错误统一折叠成 500 + 通用消息, 不泄露内部细节
func Resolve(err error) (int, string) {
	var appErr *AppError
	if !errors.As(err, &appErr) || appErr.Code == ErrCodeInternal {
		return http.StatusInternalServerError, GenericErrorMessage
	}
	status := appErr.Status
	if status == 0 {
		status = statusFor(appErr.Code)
	}
	msg := appErr.Message
	if msg == "" {
		msg = GenericErrorMessage
	}
	return status, msg
}
