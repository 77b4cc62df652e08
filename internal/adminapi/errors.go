package adminapi

import (
	"errors"
	"fmt"
)

var (
	// Запрос без ключа не отправляется вовсе
	ErrNoAPIKey = errors.New("No API Key")
	// Сервер ответил 403, ключ уже стерт из сессии
	ErrInvalidAPIKey = errors.New("Invalid API Key")
)

// Текст ошибки, когда сервер не прислал detail
const genericAPIMessage = "API Error"

// TransportError означает, что сеть недоступна, предохранитель разомкнут или сервер прислал не JSON.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// APIError — любой ответ не из 2xx, кроме 403.
// Message берется из поля detail тела ответа.
type APIError struct {
	Op      string
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

// IsTransport сообщает, что ошибка сетевая (а не ответ сервера).
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}
