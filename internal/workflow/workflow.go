// Package workflow управляет отправкой формы: проверка ввода, обращение к сервису
// сокращения, состояние результата и ошибки, сохранение последнего результата.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/GevorkovG/go-shortener-web/internal/client"
	"github.com/GevorkovG/go-shortener-web/internal/objects"
	"github.com/GevorkovG/go-shortener-web/internal/validator"
	"go.uber.org/zap"
)

var (
	// ErrSubmitInProgress возвращается, если предыдущая отправка еще не завершилась.
	ErrSubmitInProgress = errors.New("submission already in progress")
	// ErrSubmitCleared возвращается отправкой, результат которой отброшен из-за Clear.
	ErrSubmitCleared = errors.New("submission cleared before completion")
)

// Shortener обращается к сервису сокращения.
type Shortener interface {
	Shorten(ctx context.Context, longURL string) (string, error)
}

// Persister хранит последнюю успешную пару.
type Persister interface {
	Save(ctx context.Context, pair objects.LinkPair) error
	Load(ctx context.Context) (objects.LinkPair, bool, error)
	Clear(ctx context.Context) error
}

// Workflow владеет единственным State одной сессии.
type Workflow struct {
	mu        sync.Mutex
	state     State
	inFlight  bool
	gen       uint64
	shortener Shortener
	persister Persister

	// initMu сериализует попытки восстановления; restored защищен mu.
	initMu   sync.Mutex
	restored bool
	touched  bool
}

func New(shortener Shortener, persister Persister) *Workflow {
	return &Workflow{
		shortener: shortener,
		persister: persister,
	}
}

// Init восстанавливает результат прошлой сессии. Восстановленная пара не проверяется
// и в сеть не отправляется. После неудачной загрузки следующий вызов пробует снова;
// после успешной загрузки, успешного Submit или Clear вызов ничего не делает.
func (w *Workflow) Init(ctx context.Context) error {
	if w.isRestored() {
		return nil
	}

	w.initMu.Lock()
	defer w.initMu.Unlock()
	if w.isRestored() {
		return nil
	}

	pair, ok, err := w.persister.Load(ctx)
	if err != nil {
		zap.L().Warn("Failed to restore last result", zap.Error(err))
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.restored {
		return nil
	}
	w.restored = true
	if ok {
		// Введенный до восстановления текст не затирается.
		if w.state.URL == "" {
			w.state.URL = pair.Original
		}
		w.state.ShortURL = pair.Short
	}
	return nil
}

func (w *Workflow) isRestored() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.restored
}

func (w *Workflow) busy() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.inFlight
}

// Pristine сообщает, что workflow не держит ничего, кроме пустого состояния:
// восстанавливать нечего, отправок и ввода не было.
func (w *Workflow) Pristine() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return !w.touched && !w.inFlight && w.state == State{}
}

// State возвращает копию текущего состояния.
func (w *Workflow) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Input отражает изменение поля ввода: ошибка скрывается, этап сбрасывается в Idle.
// Во время отправки поле заблокировано, и вызов ничего не меняет.
func (w *Workflow) Input(raw string) State {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.inFlight {
		return w.state
	}
	w.touched = true
	w.state.URL = raw
	w.state.Error = ""
	w.state.Kind = NoError
	w.state.Phase = Idle
	return w.state
}

// Submit выполняет одну попытку сокращения.
// Ошибка возвращается только для ErrSubmitInProgress и ErrSubmitCleared,
// все остальные неудачи отражаются в State.Error.
// Короткий URL прошлой попытки при неудаче не сбрасывается.
func (w *Workflow) Submit(ctx context.Context, raw string) (State, error) {
	w.mu.Lock()
	if w.inFlight {
		st := w.state
		w.mu.Unlock()
		return st, ErrSubmitInProgress
	}

	w.touched = true
	trimmed := strings.TrimSpace(raw)
	w.state.URL = trimmed
	w.state.Phase = Validating

	switch {
	case trimmed == "":
		w.failLocked(EmptyInput, MsgEmptyInput)
		st := w.state
		w.mu.Unlock()
		return st, nil
	case !validator.IsValidURL(trimmed):
		w.failLocked(InvalidURLFormat, MsgInvalidURL)
		st := w.state
		w.mu.Unlock()
		return st, nil
	}

	w.inFlight = true
	w.state.Phase = Submitting
	w.state.IsLoading = true
	w.state.Error = ""
	w.state.Kind = NoError
	gen := w.gen
	w.mu.Unlock()

	short, err := w.callShortener(ctx, trimmed)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.inFlight = false

	if gen != w.gen {
		// Clear во время запроса: результат больше никому не нужен.
		zap.L().Info("Dropping result of cleared submission", zap.String("url", trimmed))
		return w.state, ErrSubmitCleared
	}

	w.state.IsLoading = false
	if err != nil {
		zap.L().Info("Shortening failed", zap.String("url", trimmed), zap.Error(err))
		w.failLocked(classify(err))
		return w.state, nil
	}

	w.state.Phase = Success
	w.state.ShortURL = short
	// Сохраненная пара новее той, что могла бы восстановиться позже.
	w.restored = true
	if err := w.persister.Save(ctx, objects.LinkPair{Original: trimmed, Short: short}); err != nil {
		zap.L().Error("Failed to persist result", zap.String("short", short), zap.Error(err))
	}
	return w.state, nil
}

// Clear сбрасывает состояние и удаляет сохраненную пару. Повторный вызов безопасен.
// Незавершенная отправка после Clear не меняет состояние.
func (w *Workflow) Clear(ctx context.Context) (State, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.state = State{}
	w.gen++
	w.restored = true
	w.touched = true
	if err := w.persister.Clear(ctx); err != nil {
		zap.L().Error("Failed to clear persisted result", zap.Error(err))
		return w.state, err
	}
	return w.state, nil
}

func (w *Workflow) failLocked(kind ErrorKind, msg string) {
	w.state.Phase = Failed
	w.state.IsLoading = false
	w.state.Kind = kind
	w.state.Error = msg
}

// callShortener превращает панику клиента в сетевую ошибку, чтобы IsLoading не завис.
func (w *Workflow) callShortener(ctx context.Context, longURL string) (short string, err error) {
	defer func() {
		if r := recover(); r != nil {
			zap.L().Error("Shortener panicked", zap.Any("panic", r))
			short, err = "", fmt.Errorf("%w: panic: %v", client.ErrNetwork, r)
		}
	}()
	return w.shortener.Shorten(ctx, longURL)
}

// classify переводит ошибку клиента в вид и текст для пользователя.
// Сообщение сервиса передается без изменений.
func classify(err error) (ErrorKind, string) {
	var se *client.ServiceError
	switch {
	case errors.As(err, &se):
		return ServiceError, se.Message
	case errors.Is(err, client.ErrInvalidResponse):
		return InvalidResponse, MsgInvalidResponse
	default:
		return NetworkError, MsgNetwork
	}
}
