package database

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"
)

const pingTimeout = 5 * time.Second

type DBStore struct {
	DatabaseConf string
	DB           *sql.DB
}

// InitDB открывает соединение и проверяет его. Пустая строка подключения означает,
// что БД не используется.
func InitDB(conn string) (*DBStore, error) {
	if conn == "" {
		return nil, nil
	}
	db := NewDB(conn)
	if err := db.Open(); err != nil {
		zap.L().Error("Don't connect DataBase", zap.Error(err))
		return nil, err
	}
	return db, nil
}

func NewDB(conf string) *DBStore {
	return &DBStore{
		DatabaseConf: conf,
	}
}

func (store *DBStore) Open() error {
	db, err := sql.Open("pgx", store.DatabaseConf)
	if err != nil {
		return err
	}

	store.DB = db
	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := store.PingDB(ctx); err != nil {
		db.Close()
		store.DB = nil
		return err
	}
	return nil
}

func (store *DBStore) Close() error {
	if store.DB == nil {
		return nil
	}
	return store.DB.Close()
}

func (store *DBStore) PingDB(ctx context.Context) error {
	if err := store.DB.PingContext(ctx); err != nil {
		zap.L().Warn("don't ping Database", zap.Error(err))
		return err
	}
	return nil
}
