package storage

import (
	"context"
	"database/sql"
	"errors"

	"github.com/GevorkovG/go-shortener-web/internal/database"
	"github.com/GevorkovG/go-shortener-web/internal/objects"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

// DBStorage хранит пары ключ-значение в таблице PostgreSQL.
type DBStorage struct {
	Store *database.DBStore
}

func NewDBStorage(db *database.DBStore) *DBStorage {
	return &DBStorage{
		Store: db,
	}
}

func (l *DBStorage) CreateTable(ctx context.Context) error {
	if _, err := l.Store.DB.ExecContext(ctx,
		"CREATE TABLE IF NOT EXISTS kv_store (key TEXT PRIMARY KEY, value TEXT NOT NULL, updated_at TIMESTAMPTZ NOT NULL DEFAULT now());"); err != nil {
		zap.L().Error("Failed to create table", zap.Error(err))
		return err
	}
	return nil
}

// isUndefinedTable сообщает, что таблица еще не создана.
func isUndefinedTable(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UndefinedTable
}

func (l *DBStorage) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := l.Store.DB.QueryRowContext(ctx, "SELECT value FROM kv_store WHERE key = $1", key).Scan(&value)
	switch {
	case err == nil:
		return value, nil
	case errors.Is(err, sql.ErrNoRows), isUndefinedTable(err):
		return "", objects.ErrNotFound
	default:
		zap.L().Error("Failed to get value", zap.String("key", key), zap.Error(err))
		return "", err
	}
}

// Set перезаписывает значение ключа. Таблицу создает CreateTable при старте.
func (l *DBStorage) Set(ctx context.Context, key, value string) error {
	if _, err := l.Store.DB.ExecContext(ctx,
		`INSERT INTO kv_store (key, value) VALUES ($1, $2)
		 ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`,
		key, value); err != nil {
		zap.L().Error("Failed to set value", zap.String("key", key), zap.Error(err))
		return err
	}
	return nil
}

// Delete удаляет ключи в одной транзакции
func (l *DBStorage) Delete(ctx context.Context, keys ...string) error {
	tx, err := l.Store.DB.BeginTx(ctx, nil)
	if err != nil {
		zap.L().Error("Failed to begin transaction", zap.Error(err))
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, "DELETE FROM kv_store WHERE key = $1")
	if err != nil {
		if isUndefinedTable(err) {
			return nil
		}
		zap.L().Error("Failed to prepare statement", zap.Error(err))
		return err
	}
	defer stmt.Close()

	for _, k := range keys {
		if _, err := stmt.ExecContext(ctx, k); err != nil {
			zap.L().Error("Failed to delete key", zap.String("key", k), zap.Error(err))
			return err
		}
	}

	return tx.Commit()
}

func (l *DBStorage) Ping(ctx context.Context) error {
	return l.Store.PingDB(ctx)
}
