package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/GevorkovG/go-shortener-web/config"
	"github.com/GevorkovG/go-shortener-web/internal/app"
	"github.com/GevorkovG/go-shortener-web/internal/logger"
	"github.com/GevorkovG/go-shortener-web/internal/routes"
	"go.uber.org/zap"
)

var (
	buildVersion = "N/A"
	buildDate    = "N/A"
	buildCommit  = "N/A"
)

const shutdownTimeout = 10 * time.Second

func main() {
	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)

	if err := run(); err != nil {
		zap.L().Fatal("Server stopped with error", zap.Error(err))
	}
}

func run() error {
	conf := config.NewCfg()

	log, err := logger.InitLogger(logger.Options{Level: conf.LogLevel, File: conf.LogFile})
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	application, err := app.NewApp(conf)
	if err != nil {
		return err
	}
	defer func() {
		if err := application.Close(); err != nil {
			zap.L().Error("Failed to close storage", zap.Error(err))
		}
	}()

	srv := &http.Server{
		Addr:              conf.Host,
		Handler:           routes.Router(application),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		zap.L().Info("Running server", zap.String("address", conf.Host), zap.String("backend", conf.BackendURL))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	zap.L().Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
