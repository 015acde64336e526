// Package logger настраивает zap для приложения и содержит middleware
// логирования HTTP-запросов.
package logger

import (
	"net/http"
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// responseData хранит информацию о HTTP-ответе
type responseData struct {
	status int
	size   int
}

// loggingResponseWriter оборачивает http.ResponseWriter для захвата статуса и размера ответа
type loggingResponseWriter struct {
	http.ResponseWriter
	responseData *responseData
}

// Write переопределяет метод Write для захвата размера ответа
func (r *loggingResponseWriter) Write(b []byte) (int, error) {
	if r.responseData.status == 0 {
		r.responseData.status = http.StatusOK
	}
	size, err := r.ResponseWriter.Write(b)
	r.responseData.size += size
	return size, err
}

// WriteHeader переопределяет метод WriteHeader для захвата статуса ответа
func (r *loggingResponseWriter) WriteHeader(statusCode int) {
	r.ResponseWriter.WriteHeader(statusCode)
	r.responseData.status = statusCode
}

// Options задает вывод логгера.
//   - Level: уровень ("debug", "info", ...); пустое значение означает режим разработки
//   - File: путь к файлу с ротацией; пустое значение означает только stdout
type Options struct {
	Level string
	File  string
}

// InitLogger создает логгер и делает его глобальным (zap.L()).
func InitLogger(opts Options) (*zap.Logger, error) {
	if opts.Level == "" && opts.File == "" {
		l, err := zap.NewDevelopment()
		if err != nil {
			return nil, err
		}
		zap.ReplaceGlobals(l)
		return l, nil
	}

	level := zapcore.InfoLevel
	if opts.Level != "" {
		parsed, err := zapcore.ParseLevel(opts.Level)
		if err != nil {
			return nil, err
		}
		level = parsed
	}

	syncers := []zapcore.WriteSyncer{zapcore.AddSync(os.Stdout)}
	if opts.File != "" {
		syncers = append(syncers, zapcore.AddSync(&lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    100, // мегабайт до ротации
			MaxBackups: 7,
			MaxAge:     3, // дней
		}))
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig), zapcore.NewMultiWriteSyncer(syncers...), level)

	l := zap.New(core)
	zap.ReplaceGlobals(l)
	return l, nil
}

// LoggerMiddleware — middleware для логирования HTTP-запросов
func LoggerMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Создаем обёртку для захвата статуса и размера ответа
		responseData := &responseData{}
		lw := loggingResponseWriter{
			ResponseWriter: w,
			responseData:   responseData,
		}

		next.ServeHTTP(&lw, r)

		zap.L().Info("HTTP request",
			zap.String("uri", r.RequestURI),
			zap.String("method", r.Method),
			zap.Int("status", responseData.status),
			zap.Duration("duration", time.Since(start)),
			zap.Int("size", responseData.size),
			zap.String("location", w.Header().Get("Location")),
		)
	})
}
