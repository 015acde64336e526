package storage

import (
	"context"
	"sync"

	"github.com/GevorkovG/go-shortener-web/internal/objects"
)

// InMemoryStorage хранит пары ключ-значение в памяти процесса.
type InMemoryStorage struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewInMemoryStorage() *InMemoryStorage {
	return &InMemoryStorage{
		values: make(map[string]string),
	}
}

// Load заменяет содержимое хранилища данными, восстановленными из файла.
func (s *InMemoryStorage) Load(data map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values = data
}

func (s *InMemoryStorage) Get(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.values[key]
	if !ok {
		return "", objects.ErrNotFound
	}
	return value, nil
}

func (s *InMemoryStorage) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

func (s *InMemoryStorage) Delete(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range keys {
		delete(s.values, k)
	}
	return nil
}

func (s *InMemoryStorage) Ping(_ context.Context) error {
	return nil
}

// Len возвращает количество сохраненных ключей.
func (s *InMemoryStorage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.values)
}

// snapshot возвращает копию содержимого.
func (s *InMemoryStorage) snapshot() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]string, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}
