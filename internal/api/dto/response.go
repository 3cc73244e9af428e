package dto

// Base 所有响应共有的字段
type Base struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// ErrorResponse 错误响应，kind 为机器可读的错误类别
type ErrorResponse struct {
	Success   bool   `json:"success"`
	Error     string `json:"error"`
	Kind      string `json:"kind"`
	Timestamp string `json:"timestamp"`
}

func OK(message string) Base {
	return Base{Success: true, Message: message}
}
