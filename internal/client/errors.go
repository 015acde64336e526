package client

import (
	"errors"
	"fmt"
)

const fallbackServiceMessage = "Failed to shorten URL"

var (
	// ErrInvalidResponse — сервис ответил успехом, но в ответе нет корректного URL.
	ErrInvalidResponse = errors.New("invalid response from URL shortening service")
	// ErrNetwork — запрос не дошел до сервиса или ответ не был получен.
	ErrNetwork = errors.New("network error")
)

// ServiceError — сервис ответил статусом вне диапазона 2xx.
// Message содержит тело ответа, которое показывается пользователю без изменений.
type ServiceError struct {
	StatusCode int
	Message    string
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("shortening service responded %d: %s", e.StatusCode, e.Message)
}

func newServiceError(status int, body string) *ServiceError {
	if body == "" {
		body = fallbackServiceMessage
	}
	return &ServiceError{StatusCode: status, Message: body}
}
