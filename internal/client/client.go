// Package client отправляет длинный URL в удаленный сервис сокращения
// и извлекает короткий URL из его ответа.
package client

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/GevorkovG/go-shortener-web/internal/validator"
	"github.com/imroc/req/v3"
	"go.uber.org/zap"
)

const shortenPath = "/shorten"

// Client вызывает POST {endpoint}/shorten. Адрес фиксируется при создании.
type Client struct {
	http     *req.Client
	endpoint string
	parser   ResponseParser
}

type Option func(*Client)

// WithParser задает разбор ответа сервиса.
func WithParser(p ResponseParser) Option {
	return func(c *Client) {
		c.parser = p
	}
}

// WithTimeout ограничивает время запроса. Ноль означает, что клиент время не ограничивает.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.SetTimeout(d)
		}
	}
}

func New(endpoint string, opts ...Option) *Client {
	// req.C() по умолчанию ставит таймаут в 2 минуты, здесь он снимается.
	c := &Client{
		http:     req.C().SetUserAgent("go-shortener-web").SetTimeout(0),
		endpoint: strings.TrimRight(endpoint, "/"),
		parser:   TextParser{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Endpoint возвращает базовый адрес сервиса.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Shorten отправляет longURL полем "url" multipart-формы.
//
// Возвращает:
//   - string: короткий URL
//   - error: *ServiceError, ErrInvalidResponse или ErrNetwork
func (c *Client) Shorten(ctx context.Context, longURL string) (string, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetFormData(map[string]string{"url": longURL}).
		EnableForceMultipart().
		Post(c.endpoint + shortenPath)
	if err != nil {
		zap.L().Warn("Shortening service unreachable", zap.String("endpoint", c.endpoint), zap.Error(err))
		return "", fmt.Errorf("%w: %w", ErrNetwork, err)
	}

	body, err := resp.ToBytes()
	if err != nil {
		zap.L().Warn("Failed to read shortening service response", zap.Error(err))
		return "", fmt.Errorf("%w: %w", ErrNetwork, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		zap.L().Info("Shortening service rejected URL", zap.Int("status", resp.StatusCode), zap.ByteString("body", body))
		return "", newServiceError(resp.StatusCode, strings.TrimSpace(string(body)))
	}

	candidate := c.parser.Candidate(body)
	if candidate == "" || !validator.IsValidURL(candidate) {
		zap.L().Warn("Unexpected shortening service response", zap.ByteString("body", body))
		return "", ErrInvalidResponse
	}

	return candidate, nil
}
