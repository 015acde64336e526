package main

import (
	"os"
	"path/filepath"

	"github.com/GevorkovG/go-shortener-web/config"
	"github.com/GevorkovG/go-shortener-web/internal/client"
	"github.com/GevorkovG/go-shortener-web/internal/logger"
	"github.com/GevorkovG/go-shortener-web/internal/persist"
	"github.com/GevorkovG/go-shortener-web/internal/storage"
	"github.com/GevorkovG/go-shortener-web/internal/workflow"
	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"
)

// cliNamespace — пространство имен ключей CLI в общем хранилище.
const cliNamespace = "cli"

var clipboardWriteAll = clipboard.WriteAll

// deps собирает workflow. В тестах подменяется.
type deps struct {
	cfg      *config.AppConfig
	workflow *workflow.Workflow
}

type buildFunc func(cmd *cobra.Command) (*deps, error)

func newRootCmd(build buildFunc) *cobra.Command {
	if build == nil {
		build = buildDeps
	}

	root := &cobra.Command{
		Use:          "shortcli",
		Short:        "Shorten URLs through the remote shortening service",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringP("backend", "b", "", "shortening service URL (overrides BACKEND_URL)")
	root.PersistentFlags().StringP("file", "f", "", "file to keep the last result in (overrides FILE_STORAGE_PATH)")

	root.AddCommand(
		newShortenCmd(build),
		newLastCmd(build),
		newClearCmd(build),
	)
	return root
}

func defaultStatePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "shortcli", "last.json")
}

func buildDeps(cmd *cobra.Command) (*deps, error) {
	cfg, err := config.FromEnv()
	if err != nil {
		return nil, err
	}
	if v, _ := cmd.Flags().GetString("backend"); v != "" {
		cfg.BackendURL = v
	}
	if v, _ := cmd.Flags().GetString("file"); v != "" {
		cfg.FilePATH = v
	}
	if cfg.FilePATH == "" {
		cfg.FilePATH = defaultStatePath()
	}

	if _, err := logger.InitLogger(logger.Options{Level: cfg.LogLevel, File: cfg.LogFile}); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(cfg.FilePATH), 0o755); err != nil {
		return nil, err
	}
	store, err := storage.NewFileStorage(cfg.FilePATH)
	if err != nil {
		return nil, err
	}

	c := client.New(cfg.BackendURL,
		client.WithParser(client.ParserFor(cfg.ResponseFormat)),
		client.WithTimeout(cfg.ClientTimeout),
	)

	wf := workflow.New(c, persist.New(store, cliNamespace))
	if err := wf.Init(cmd.Context()); err != nil {
		return nil, err
	}
	return &deps{cfg: cfg, workflow: wf}, nil
}
