// Package objects определяет основные структуры данных и интерфейсы хранилища
// для веб-клиента сервиса сокращения URL
package objects

import (
	"context"
	"errors"
)

// ErrNotFound возвращается хранилищем, если ключ отсутствует.
var ErrNotFound = errors.New("key not found")

// LinkPair представляет последний успешный результат сокращения.
type LinkPair struct {
	Original string `json:"original_url"` //Оригинальный URL
	Short    string `json:"short_url"`    //Сокращенный URL
}

// Storage определяет интерфейс долговременного хранилища ключ-значение.
// Реализации должны поддерживать все указанные методы.
type Storage interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, keys ...string) error
	Ping(ctx context.Context) error
}
