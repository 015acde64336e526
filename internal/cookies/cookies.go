// Package cookies привязывает браузер к сессии через подписанную cookie.
// Сессия служит пространством имен для сохраненного результата.
package cookies

import (
	"context"
	"net/http"

	"github.com/GevorkovG/go-shortener-web/internal/services/jwtstring"
	"github.com/GevorkovG/go-shortener-web/internal/services/usertoken"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Определяем собственный тип для ключа контекста
type contextKey string

const ContextSessionKey contextKey = "sessionID"

// CookieName — имя cookie с токеном сессии.
const CookieName = "token"

// SessionID извлекает идентификатор сессии из контекста запроса.
func SessionID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(ContextSessionKey).(string)
	return id, ok && id != ""
}

// WithSessionID кладет идентификатор сессии в контекст.
func WithSessionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ContextSessionKey, id)
}

// Sessions возвращает middleware, которое читает cookie сессии или выдает новую.
func Sessions(secret []byte) func(http.Handler) http.Handler {
	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var sessionID string

			if cookie, err := r.Cookie(CookieName); err == nil {
				id, err := usertoken.GetSessionID(cookie.Value, secret)
				if err != nil {
					zap.L().Warn("Invalid session token provided", zap.Error(err))
				} else {
					sessionID = id
				}
			}

			// Если токен отсутствует или невалиден, создаем новый
			if sessionID == "" {
				sessionID = uuid.New().String()
				token, err := jwtstring.BuildJWTString(sessionID, secret)
				if err != nil {
					zap.L().Error("Failed to build JWT string", zap.Error(err))
					http.Error(w, "Internal Server Error", http.StatusInternalServerError)
					return
				}

				http.SetCookie(w, &http.Cookie{
					Name:     CookieName,
					Value:    token,
					Path:     "/",
					MaxAge:   int(jwtstring.TokenExp.Seconds()),
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
				zap.L().Debug("New session created", zap.String("sessionID", sessionID))
			}

			h.ServeHTTP(w, r.WithContext(WithSessionID(r.Context(), sessionID)))
		})
	}
}
