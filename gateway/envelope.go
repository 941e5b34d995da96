package gateway

import "fmt"

// Envelope 是后端所有接口统一的响应结构。
// - Data 为 nil 对应 JSON 中的 null：网关合成的失败响应一定为 nil，成功响应是否允许为 nil 取决于空数据策略。
// - 序列化时四个字段总是存在。
type Envelope[T any] struct {
	Code    int    `json:"code"`
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    *T     `json:"data"`
}

// failure 合成非 2xx 时的统一失败响应。
func failure[T any](status int, message string) *Envelope[T] {
	return &Envelope[T]{
		Code:    status,
		Success: false,
		Message: message,
		Data:    nil,
	}
}

// Err 在 success 为 false 时返回 *APIError，否则返回 nil。
// 便于调用方把“业务失败”并入 Go 的错误处理流程。
func (e *Envelope[T]) Err() error {
	if e.Success {
		return nil
	}
	return &APIError{Code: e.Code, Message: e.Message}
}

// APIError 表示后端明确返回的失败：非 2xx 状态码，或 2xx 但 success 为 false。
// Code 为 HTTP 状态码或后端给出的业务码。
type APIError struct {
	Code    int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("后端返回错误 (code %d): %s", e.Code, e.Message)
}
