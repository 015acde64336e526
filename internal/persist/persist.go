// Package persist сохраняет последний успешный результат сокращения
// в долговременном хранилище, чтобы восстановить его при следующем визите.
package persist

import (
	"context"
	"errors"

	"github.com/GevorkovG/go-shortener-web/internal/objects"
)

const (
	keyShortURL    = "lastShortUrl"
	keyOriginalURL = "lastOriginalUrl"
)

// Adapter владеет двумя ключами хранилища в пределах своего пространства имен.
type Adapter struct {
	store     objects.Storage
	namespace string
}

// New создает адаптер. Пустой namespace означает ключи без префикса.
func New(store objects.Storage, namespace string) *Adapter {
	return &Adapter{
		store:     store,
		namespace: namespace,
	}
}

func (a *Adapter) key(k string) string {
	if a.namespace == "" {
		return k
	}
	return a.namespace + ":" + k
}

// Save перезаписывает оба ключа. Повторных попыток нет, ошибка хранилища возвращается как есть.
func (a *Adapter) Save(ctx context.Context, pair objects.LinkPair) error {
	if err := a.store.Set(ctx, a.key(keyShortURL), pair.Short); err != nil {
		return err
	}
	return a.store.Set(ctx, a.key(keyOriginalURL), pair.Original)
}

// Load возвращает пару, только если оба ключа присутствуют и непусты.
func (a *Adapter) Load(ctx context.Context) (objects.LinkPair, bool, error) {
	short, err := a.get(ctx, keyShortURL)
	if err != nil {
		return objects.LinkPair{}, false, err
	}
	original, err := a.get(ctx, keyOriginalURL)
	if err != nil {
		return objects.LinkPair{}, false, err
	}
	if short == "" || original == "" {
		return objects.LinkPair{}, false, nil
	}
	return objects.LinkPair{Original: original, Short: short}, true, nil
}

func (a *Adapter) get(ctx context.Context, k string) (string, error) {
	v, err := a.store.Get(ctx, a.key(k))
	if errors.Is(err, objects.ErrNotFound) {
		return "", nil
	}
	return v, err
}

// Clear удаляет оба ключа. Повторный вызов безопасен.
func (a *Adapter) Clear(ctx context.Context) error {
	return a.store.Delete(ctx, a.key(keyShortURL), a.key(keyOriginalURL))
}
