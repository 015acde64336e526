package jwtstring

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// Claims — структура утверждений, которая включает стандартные утверждения
// и одно пользовательское — SessionID
type Claims struct {
	jwt.RegisteredClaims
	SessionID string
}

// TokenExp — срок жизни сессии. Сохраненный результат живет столько же, сколько cookie.
const TokenExp = time.Hour * 24 * 365

// DefaultSecret используется, если COOKIE_SECRET не задан.
const DefaultSecret = "sHoRtEnEr-WeB"

// BuildJWTString создаёт подписанный токен сессии и возвращает его в виде строки.
func BuildJWTString(sessionID string, secret []byte) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(TokenExp)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		SessionID: sessionID,
	})

	return token.SignedString(secret)
}
