package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/GevorkovG/go-shortener-web/internal/objects"
	backend "github.com/redis/go-redis/v9"
)

const defaultRedisPrefix = "shortener:"

// RedisStorage хранит пары ключ-значение в Redis без срока жизни.
type RedisStorage struct {
	client *backend.Client
	prefix string
}

type RedisOption func(*RedisStorage)

// WithPrefix задает префикс ключей.
func WithPrefix(prefix string) RedisOption {
	return func(s *RedisStorage) {
		s.prefix = prefix
	}
}

func NewRedisStorage(address, password string, opts ...RedisOption) *RedisStorage {
	return NewRedisStorageFromClient(backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
	}), opts...)
}

func NewRedisStorageFromClient(client *backend.Client, opts ...RedisOption) *RedisStorage {
	s := &RedisStorage{
		client: client,
		prefix: defaultRedisPrefix,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RedisStorage) key(k string) string {
	return s.prefix + k
}

func (s *RedisStorage) Get(ctx context.Context, key string) (string, error) {
	val, err := s.client.Get(ctx, s.key(key)).Result()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return "", objects.ErrNotFound
		}
		return "", fmt.Errorf("failed to read from redis: %w", err)
	}
	return val, nil
}

func (s *RedisStorage) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, s.key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("failed to save to redis: %w", err)
	}
	return nil
}

func (s *RedisStorage) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, 0, len(keys))
	for _, k := range keys {
		full = append(full, s.key(k))
	}
	if err := s.client.Del(ctx, full...).Err(); err != nil {
		return fmt.Errorf("failed to delete from redis: %w", err)
	}
	return nil
}

func (s *RedisStorage) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisStorage) Close() error {
	return s.client.Close()
}
