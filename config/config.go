// Package config содержит конфигурацию приложения
package config

import (
	"encoding/json"
	"flag"
	"os"
	"time"

	"github.com/caarlos0/env"
	"go.uber.org/zap"
)

// AppConfig содержит конфигурационные параметры приложения.
// Поля структуры:
//   - Host: адрес веб-сервера (env:"SERVER_ADDRESS")
//   - BackendURL: базовый адрес удаленного сервиса сокращения (env:"BACKEND_URL")
//   - FilePATH: путь к файлу хранилища (env:"FILE_STORAGE_PATH")
//   - DataBaseString: строка подключения к БД (env:"DATABASE_DSN")
//   - RedisAddress: адрес redis (env:"REDIS_ADDRESS")
//   - TrustedSubnet: подсеть, которой доступны метрики (env:"TRUSTED_SUBNET")
type AppConfig struct {
	Host           string        `env:"SERVER_ADDRESS" json:"server_address"`
	BackendURL     string        `env:"BACKEND_URL" json:"backend_url"`
	FilePATH       string        `env:"FILE_STORAGE_PATH" json:"file_storage_path"`
	DataBaseString string        `env:"DATABASE_DSN" json:"database_dsn"`
	RedisAddress   string        `env:"REDIS_ADDRESS" json:"redis_address"`
	RedisPassword  string        `env:"REDIS_PASSWORD" json:"-"`
	TrustedSubnet  string        `env:"TRUSTED_SUBNET" json:"trusted_subnet"`
	LogFile        string        `env:"LOG_FILE" json:"log_file"`
	LogLevel       string        `env:"LOG_LEVEL" json:"log_level"`
	ResponseFormat string        `env:"RESPONSE_FORMAT" json:"response_format"`
	CookieSecret   string        `env:"COOKIE_SECRET" json:"-"`
	ClientTimeout  time.Duration `env:"CLIENT_TIMEOUT" json:"client_timeout"`
	ConfigJSON     string        `env:"CONFIG" json:"-"`
}

const (
	defaultServerAddress = "localhost:3000"

	// DefaultBackendURL используется, если адрес сервиса не задан ни одним способом.
	DefaultBackendURL = "https://url-shortener-golang.onrender.com"

	defaultResponseFormat = "text"
)

// loadConfigFromFile загружает конфигурацию приложения из файла.
// Значения из файла применяются только к незаданным полям.
func (a *AppConfig) loadConfigFromFile() error {
	if a.ConfigJSON == "" {
		return nil
	}

	data, err := os.ReadFile(a.ConfigJSON)
	if err != nil {
		return err
	}

	var fileConfig AppConfig
	if err := json.Unmarshal(data, &fileConfig); err != nil {
		return err
	}

	if a.Host == defaultServerAddress && fileConfig.Host != "" {
		a.Host = fileConfig.Host
	}
	if a.BackendURL == DefaultBackendURL && fileConfig.BackendURL != "" {
		a.BackendURL = fileConfig.BackendURL
	}
	if a.FilePATH == "" && fileConfig.FilePATH != "" {
		a.FilePATH = fileConfig.FilePATH
	}
	if a.DataBaseString == "" && fileConfig.DataBaseString != "" {
		a.DataBaseString = fileConfig.DataBaseString
	}
	if a.RedisAddress == "" && fileConfig.RedisAddress != "" {
		a.RedisAddress = fileConfig.RedisAddress
	}
	if a.TrustedSubnet == "" && fileConfig.TrustedSubnet != "" {
		a.TrustedSubnet = fileConfig.TrustedSubnet
	}
	if a.LogFile == "" && fileConfig.LogFile != "" {
		a.LogFile = fileConfig.LogFile
	}
	if a.LogLevel == "" && fileConfig.LogLevel != "" {
		a.LogLevel = fileConfig.LogLevel
	}
	if a.ResponseFormat == defaultResponseFormat && fileConfig.ResponseFormat != "" {
		a.ResponseFormat = fileConfig.ResponseFormat
	}
	if a.ClientTimeout == 0 && fileConfig.ClientTimeout != 0 {
		a.ClientTimeout = fileConfig.ClientTimeout
	}

	return nil
}

// Default возвращает конфигурацию со значениями по умолчанию,
// без чтения флагов и окружения.
func Default() *AppConfig {
	return &AppConfig{
		Host:           defaultServerAddress,
		BackendURL:     DefaultBackendURL,
		ResponseFormat: defaultResponseFormat,
	}
}

// NewCfg создает и инициализирует конфигурацию приложения.
// Приоритеты источников конфигурации (от высшего к низшему):
// 1. Переменные окружения
// 2. Флаги командной строки
// 3. JSON-файл конфигурации
// 4. Значения по умолчанию
//
// Поддерживаемые флаги:
//   - -a адрес сервера (по умолчанию "localhost:3000")
//   - -b адрес сервиса сокращения (по умолчанию DefaultBackendURL)
//   - -f путь к файлу хранилища
//   - -d строка подключения к БД
//   - -r адрес redis
//   - -t доверенная подсеть для /metrics
//   - -c JSON-файл конфигурации
//
// Адрес сервиса читается один раз при старте и дальше не перечитывается.
func NewCfg() *AppConfig {
	a := Default()

	fs := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	a.bindFlags(fs)
	_ = fs.Parse(os.Args[1:])

	if err := env.Parse(a); err != nil {
		panic(err)
	}

	if a.ConfigJSON != "" {
		if err := a.loadConfigFromFile(); err != nil {
			zap.L().Warn("failed to load config file", zap.String("path", a.ConfigJSON), zap.Error(err))
		}
	}

	return a
}

// FromEnv возвращает значения по умолчанию, перекрытые переменными окружения.
// Флаги не читаются: ими управляет вызывающий (например, cobra в CLI).
func FromEnv() (*AppConfig, error) {
	a := Default()
	if err := env.Parse(a); err != nil {
		return nil, err
	}
	return a, nil
}

func (a *AppConfig) bindFlags(fs *flag.FlagSet) {
	fs.StringVar(&a.Host, "a", a.Host, "It's a Host")
	fs.StringVar(&a.BackendURL, "b", a.BackendURL, "It's a shortening service URL")
	fs.StringVar(&a.FilePATH, "f", a.FilePATH, "It's a FilePATH")
	fs.StringVar(&a.DataBaseString, "d", a.DataBaseString, "it's conn string")
	fs.StringVar(&a.RedisAddress, "r", a.RedisAddress, "It's a redis address")
	fs.StringVar(&a.TrustedSubnet, "t", a.TrustedSubnet, "trusted subnet for /metrics")
	fs.StringVar(&a.ConfigJSON, "c", a.ConfigJSON, "It's a ConfigJSON file")
}
