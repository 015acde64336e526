package app

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/GevorkovG/go-shortener-web/internal/workflow"
	"go.uber.org/zap"
)

type Req struct {
	URL string `json:"url"`
}

type Resp struct {
	Short    string `json:"short_url"`
	Original string `json:"original_url"`
}

type stateResp struct {
	workflow.State
	Phase string `json:"phase"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Error("Failed to write response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// APIState возвращает состояние сессии в JSON.
func (a *App) APIState(w http.ResponseWriter, r *http.Request) {
	st := a.sessionState(r)
	writeJSON(w, http.StatusOK, stateResp{State: st, Phase: st.PhaseName()})
}

// APIShorten принимает {"url": "..."} и отвечает парой коротких и длинных URL.
func (a *App) APIShorten(w http.ResponseWriter, r *http.Request) {
	var req Req
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		zap.L().Info("Cannot decode request JSON body", zap.Error(err))
		writeError(w, http.StatusBadRequest, "Cannot parse body")
		return
	}

	st, err := a.sessionWorkflow(r).Submit(context.WithoutCancel(r.Context()), req.URL)
	if errors.Is(err, workflow.ErrSubmitInProgress) {
		writeError(w, http.StatusConflict, "Submission already in progress")
		return
	}
	if errors.Is(err, workflow.ErrSubmitCleared) {
		writeError(w, http.StatusConflict, "Submission was cleared")
		return
	}
	if st.Phase != workflow.Success {
		writeError(w, statusFor(st), st.Error)
		return
	}

	writeJSON(w, http.StatusCreated, Resp{Short: st.ShortURL, Original: st.URL})
}

// APIClear сбрасывает состояние сессии.
func (a *App) APIClear(w http.ResponseWriter, r *http.Request) {
	if _, err := a.sessionWorkflow(r).Clear(r.Context()); err != nil {
		zap.L().Error("Failed to clear session", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to clear")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
