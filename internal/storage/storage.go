// Package storage предоставляет реализации долговременного хранилища ключ-значение,
// в котором веб-клиент хранит последний успешный результат сокращения.
// Поддерживаются память процесса, файл, PostgreSQL и Redis.
package storage

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"

	"go.uber.org/zap"
)

// record — одна строка журнала файлового хранилища.
// Deleted означает, что ключ был удален.
type record struct {
	Key     string `json:"key"`
	Value   string `json:"value,omitempty"`
	Deleted bool   `json:"deleted,omitempty"`
}

// SaveToFile дописывает записи в конец файла
//
// Параметры:
//   - records: записи для сохранения
//   - fileName: путь к файлу
//
// Возвращает:
//   - error: ошибка при сохранении
func SaveToFile(records []record, fileName string) error {
	file, err := os.OpenFile(fileName, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0600)
	if err != nil {
		return err
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	for _, r := range records {
		if err := encoder.Encode(r); err != nil {
			return err
		}
	}
	return nil
}

// RewriteFile заменяет журнал снимком data: по одной записи на ключ.
// Запись идет во временный файл рядом с журналом и атомарно переименовывается.
func RewriteFile(data map[string]string, fileName string) error {
	tmp, err := os.CreateTemp(filepath.Dir(fileName), filepath.Base(fileName)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	encoder := json.NewEncoder(tmp)
	for _, k := range keys {
		if err := encoder.Encode(record{Key: k, Value: data[k]}); err != nil {
			tmp.Close()
			return err
		}
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0600); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), fileName)
}

// LoadFromFile восстанавливает состояние хранилища, проигрывая журнал
//
// Параметры:
//   - fileName: путь к файлу
//
// Возвращает:
//   - map[string]string: актуальные значения ключей
//   - error: ошибка при открытии файла
//
// Особенности:
//   - Создает файл если он не существует
//   - Пропускает некорректные записи с логированием ошибок
func LoadFromFile(fileName string) (map[string]string, error) {
	file, err := os.OpenFile(fileName, os.O_RDONLY|os.O_CREATE, 0600)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	data := make(map[string]string)

	for scanner.Scan() {
		var r record
		// Декодируем строку из формата json
		if err := json.Unmarshal(scanner.Bytes(), &r); err != nil {
			zap.L().Error("error scan", zap.String("file", fileName), zap.Error(err))
			continue
		}
		if r.Deleted {
			delete(data, r.Key)
			continue
		}
		data[r.Key] = r.Value
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return data, nil
}
