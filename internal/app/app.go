package app

import (
	"context"
	"errors"

	"github.com/GevorkovG/go-shortener-web/config"
	"github.com/GevorkovG/go-shortener-web/internal/client"
	"github.com/GevorkovG/go-shortener-web/internal/database"
	"github.com/GevorkovG/go-shortener-web/internal/metrics"
	"github.com/GevorkovG/go-shortener-web/internal/objects"
	"github.com/GevorkovG/go-shortener-web/internal/persist"
	"github.com/GevorkovG/go-shortener-web/internal/services/jwtstring"
	"github.com/GevorkovG/go-shortener-web/internal/storage"
	"github.com/GevorkovG/go-shortener-web/internal/workflow"
	"go.uber.org/zap"
)

// defaultSession используется, если запрос пришел без сессии (например, в обход middleware).
const defaultSession = "default"

type App struct {
	cfg       *config.AppConfig
	DataBase  *database.DBStore
	Storage   objects.Storage
	Shortener workflow.Shortener
	Workflows *workflow.Registry
	Metrics   *metrics.Metrics
	closers   []func() error
}

// NewApp собирает приложение: хранилище, клиент сервиса сокращения и реестр сессий.
func NewApp(cfg *config.AppConfig) (*App, error) {
	a := &App{
		cfg:     cfg,
		Metrics: metrics.NewMetrics(),
	}

	if err := a.ConfigureStorage(); err != nil {
		return nil, err
	}

	c := client.New(cfg.BackendURL,
		client.WithParser(client.ParserFor(cfg.ResponseFormat)),
		client.WithTimeout(cfg.ClientTimeout),
	)
	zap.L().Info("Shortening service configured", zap.String("endpoint", c.Endpoint()))

	a.Shortener = a.Metrics.Instrument(c)
	a.Workflows = workflow.NewRegistry(a.newWorkflow)
	return a, nil
}

// NewAppWith собирает приложение из готовых зависимостей. Используется в тестах и CLI.
func NewAppWith(cfg *config.AppConfig, store objects.Storage, shortener workflow.Shortener) *App {
	a := &App{
		cfg:     cfg,
		Storage: store,
		Metrics: metrics.NewMetrics(),
	}
	a.Shortener = a.Metrics.Instrument(shortener)
	a.Workflows = workflow.NewRegistry(a.newWorkflow)
	return a
}

func (a *App) newWorkflow(sessionID string) *workflow.Workflow {
	return workflow.New(a.Shortener, persist.New(a.Storage, sessionID))
}

func (a *App) GetConfig() *config.AppConfig {
	return a.cfg
}

// ConfigureStorage выбирает хранилище: БД, затем Redis, затем файл, иначе память.
func (a *App) ConfigureStorage() error {
	switch {
	case a.cfg.DataBaseString != "":
		db, err := database.InitDB(a.cfg.DataBaseString)
		if err != nil {
			return err
		}
		a.DataBase = db
		s := storage.NewDBStorage(db)
		if err := s.CreateTable(context.Background()); err != nil {
			db.Close()
			return err
		}
		a.Storage = s
		a.closers = append(a.closers, db.Close)
		zap.L().Info("Using PostgreSQL storage")
	case a.cfg.RedisAddress != "":
		s := storage.NewRedisStorage(a.cfg.RedisAddress, a.cfg.RedisPassword)
		a.Storage = s
		a.closers = append(a.closers, s.Close)
		zap.L().Info("Using Redis storage", zap.String("address", a.cfg.RedisAddress))
	case a.cfg.FilePATH != "":
		s, err := storage.NewFileStorage(a.cfg.FilePATH)
		if err != nil {
			return err
		}
		a.Storage = s
		zap.L().Info("Using file storage", zap.String("path", a.cfg.FilePATH))
	default:
		a.Storage = storage.NewInMemoryStorage()
		zap.L().Info("Using in-memory storage")
	}
	return nil
}

// CookieSecret возвращает ключ подписи cookie сессии.
func (a *App) CookieSecret() []byte {
	if a.cfg.CookieSecret == "" {
		return []byte(jwtstring.DefaultSecret)
	}
	return []byte(a.cfg.CookieSecret)
}

// Close освобождает соединения с хранилищем.
func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		if err := c(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
