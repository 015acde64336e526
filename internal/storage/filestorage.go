package storage

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// FileStorage реализует хранилище ключ-значение с сохранением в файл.
// Данные держатся в памяти, каждое изменение дописывается в журнал.
type FileStorage struct {
	mu         sync.Mutex
	memStorage *InMemoryStorage
	filePATH   string
	// appended — записи, дописанные после последнего сжатия журнала.
	appended     int
	compactAfter int
}

// defaultCompactAfter — сколько дописанных записей допускается до сжатия журнала.
const defaultCompactAfter = 1000

// NewFileStorage создает новое файловое хранилище
//
// Параметры:
//   - path: путь к файлу для хранения данных
//
// Возвращает:
//   - *FileStorage: инициализированное хранилище
//   - error: ошибка чтения файла
//
// Особенности:
//   - Автоматически загружает данные из файла при создании
//   - Создает файл если он не существует
//   - Сжимает журнал до одной записи на ключ при загрузке
func NewFileStorage(path string) (*FileStorage, error) {
	fs := &FileStorage{
		memStorage:   NewInMemoryStorage(),
		filePATH:     path,
		compactAfter: defaultCompactAfter,
	}

	data, err := LoadFromFile(path)
	if err != nil {
		return nil, err
	}
	fs.memStorage.Load(data)

	if err := RewriteFile(data, path); err != nil {
		return nil, err
	}

	return fs, nil
}

// compactLocked переписывает журнал снимком памяти, когда дописано слишком много записей.
// Ошибка сжатия только логируется: журнал остается корректным.
func (fs *FileStorage) compactLocked(added int) {
	fs.appended += added
	if fs.appended < fs.compactAfter {
		return
	}

	if err := RewriteFile(fs.memStorage.snapshot(), fs.filePATH); err != nil {
		zap.L().Warn("Failed to compact file storage", zap.String("file", fs.filePATH), zap.Error(err))
		return
	}
	fs.appended = 0
}

func (fs *FileStorage) Get(ctx context.Context, key string) (string, error) {
	return fs.memStorage.Get(ctx, key)
}

// Set сохраняет значение в памяти и дописывает его в файл
func (fs *FileStorage) Set(ctx context.Context, key, value string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if err := SaveToFile([]record{{Key: key, Value: value}}, fs.filePATH); err != nil {
		zap.L().Error("Failed to write file storage", zap.String("key", key), zap.Error(err))
		return err
	}
	if err := fs.memStorage.Set(ctx, key, value); err != nil {
		return err
	}
	fs.compactLocked(1)
	return nil
}

// Delete удаляет ключи. Удаление отсутствующего ключа не считается ошибкой.
func (fs *FileStorage) Delete(ctx context.Context, keys ...string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	records := make([]record, 0, len(keys))
	for _, k := range keys {
		records = append(records, record{Key: k, Deleted: true})
	}
	if err := SaveToFile(records, fs.filePATH); err != nil {
		zap.L().Error("Failed to write file storage", zap.Strings("keys", keys), zap.Error(err))
		return err
	}
	if err := fs.memStorage.Delete(ctx, keys...); err != nil {
		return err
	}
	fs.compactLocked(len(records))
	return nil
}

// Ping проверяет доступность хранилища
func (fs *FileStorage) Ping(_ context.Context) error {
	return nil
}
