package app

import (
	"context"
	"errors"
	"net/http"

	"github.com/GevorkovG/go-shortener-web/internal/cookies"
	"github.com/GevorkovG/go-shortener-web/internal/web"
	"github.com/GevorkovG/go-shortener-web/internal/workflow"
	"go.uber.org/zap"
)

func sessionID(r *http.Request) string {
	if id, ok := cookies.SessionID(r.Context()); ok {
		return id
	}
	return defaultSession
}

// sessionWorkflow возвращает workflow сессии из контекста запроса.
// Восстановление не отменяется вместе с запросом, иначе обрыв первого запроса оставил бы сессию пустой.
func (a *App) sessionWorkflow(r *http.Request) *workflow.Workflow {
	id := sessionID(r)
	wf, err := a.Workflows.Get(context.WithoutCancel(r.Context()), id)
	if err != nil {
		zap.L().Warn("Session started without restored result", zap.String("sessionID", id), zap.Error(err))
	}
	return wf
}

// sessionState читает состояние сессии, не заводя в памяти пустые сессии.
func (a *App) sessionState(r *http.Request) workflow.State {
	id := sessionID(r)
	st, err := a.Workflows.State(context.WithoutCancel(r.Context()), id)
	if err != nil {
		zap.L().Warn("Session state without restored result", zap.String("sessionID", id), zap.Error(err))
	}
	return st
}

// statusFor выбирает HTTP-статус для неудачной попытки.
func statusFor(st workflow.State) int {
	switch st.Kind {
	case workflow.NoError:
		return http.StatusOK
	case workflow.EmptyInput, workflow.InvalidURLFormat:
		return http.StatusBadRequest
	default:
		return http.StatusBadGateway
	}
}

func (a *App) render(w http.ResponseWriter, status int, page web.Page) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := web.Render(w, page); err != nil {
		zap.L().Error("Failed to render page", zap.Error(err))
	}
}

// Index отображает страницу с текущим состоянием сессии.
// Параметр info=1 открывает окно с описанием.
func (a *App) Index(w http.ResponseWriter, r *http.Request) {
	a.render(w, http.StatusOK, web.Page{
		State:    a.sessionState(r),
		ShowInfo: r.URL.Query().Get("info") == "1",
	})
}

// Shorten обрабатывает отправку формы.
// При успехе перенаправляет на страницу (303), при ошибке отрисовывает ее с сообщением.
func (a *App) Shorten(w http.ResponseWriter, r *http.Request) {
	wf := a.sessionWorkflow(r)

	// Запрос не отменяется, если браузер ушел со страницы: результат все равно сохранится.
	st, err := wf.Submit(context.WithoutCancel(r.Context()), r.FormValue("url"))
	if errors.Is(err, workflow.ErrSubmitInProgress) {
		a.render(w, http.StatusConflict, web.Page{State: st})
		return
	}

	// Форма очищена во время запроса: показываем пустую страницу.
	if st.Phase == workflow.Success || errors.Is(err, workflow.ErrSubmitCleared) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	a.render(w, statusFor(st), web.Page{State: st})
}

// Clear сбрасывает форму и сохраненный результат.
func (a *App) Clear(w http.ResponseWriter, r *http.Request) {
	wf := a.sessionWorkflow(r)
	if _, err := wf.Clear(r.Context()); err != nil {
		zap.L().Error("Failed to clear session", zap.Error(err))
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Input синхронизирует поле ввода: ошибка на странице скрывается.
func (a *App) Input(w http.ResponseWriter, r *http.Request) {
	a.sessionWorkflow(r).Input(r.FormValue("url"))
	w.WriteHeader(http.StatusNoContent)
}

// Ping проверяет доступность хранилища
func (a *App) Ping(w http.ResponseWriter, r *http.Request) {
	if err := a.Storage.Ping(r.Context()); err != nil {
		zap.L().Error("Storage ping failed", zap.Error(err))
		http.Error(w, "storage unavailable", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}
