// Package metrics собирает метрики Prometheus веб-клиента:
// HTTP-запросы к страницам и обращения к сервису сокращения.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/GevorkovG/go-shortener-web/internal/client"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry        *prometheus.Registry
	requests        *prometheus.CounterVec
	backendRequests *prometheus.CounterVec
	backendDuration *prometheus.HistogramVec
}

func NewMetrics() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}
	m.requests = m.RegisterCounter("http_requests_total", "HTTP requests by route and status", []string{"method", "route", "code"})
	m.backendRequests = m.RegisterCounter("backend_requests_total", "Calls to the shortening service by outcome", []string{"outcome"})
	m.backendDuration = m.RegisterHistogram("backend_request_duration_seconds", "Shortening service latency", []string{"outcome"}, prometheus.DefBuckets)
	return m
}

// RegisterCounter регистрирует счетчик в собственном реестре
func (m *Metrics) RegisterCounter(name string, help string, labels []string) *prometheus.CounterVec {
	counter := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "shortener_web",
		Name:      name,
		Help:      help,
	}, labels)
	m.registry.MustRegister(counter)
	return counter
}

// RegisterHistogram регистрирует гистограмму в собственном реестре
func (m *Metrics) RegisterHistogram(name string, help string, labels []string, buckets []float64) *prometheus.HistogramVec {
	histogram := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "shortener_web",
		Name:      name,
		Help:      help,
		Buckets:   buckets,
	}, labels)
	m.registry.MustRegister(histogram)
	return histogram
}

// Handler отдает метрики в текстовом формате Prometheus.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry нужен тестам и для подключения дополнительных коллекторов.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// unmatchedRoute — метка для запросов, не попавших ни в один маршрут.
const unmatchedRoute = "unmatched"

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Middleware считает запросы по шаблону маршрута chi и коду ответа.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		// Путь запроса в метку не попадает: иначе каждый 404 дает новую серию.
		route := unmatchedRoute
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		m.requests.WithLabelValues(r.Method, route, strconv.Itoa(rec.status)).Inc()
	})
}

// Shortener — то же, что workflow.Shortener; объявлен здесь, чтобы не зависеть от workflow.
type Shortener interface {
	Shorten(ctx context.Context, longURL string) (string, error)
}

type instrumented struct {
	next Shortener
	m    *Metrics
}

// Instrument оборачивает клиент сервиса сокращения подсчетом исходов и задержки.
func (m *Metrics) Instrument(next Shortener) Shortener {
	return &instrumented{next: next, m: m}
}

func (i *instrumented) Shorten(ctx context.Context, longURL string) (string, error) {
	start := time.Now()
	short, err := i.next.Shorten(ctx, longURL)
	outcome := Outcome(err)
	i.m.backendRequests.WithLabelValues(outcome).Inc()
	i.m.backendDuration.WithLabelValues(outcome).Observe(time.Since(start).Seconds())
	return short, err
}

// Outcome переводит ошибку клиента в значение метки.
func Outcome(err error) string {
	var se *client.ServiceError
	switch {
	case err == nil:
		return "success"
	case errors.As(err, &se):
		return "service_error"
	case errors.Is(err, client.ErrInvalidResponse):
		return "invalid_response"
	default:
		return "network_error"
	}
}
