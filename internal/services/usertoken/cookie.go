package usertoken

import (
	"errors"
	"fmt"

	"github.com/GevorkovG/go-shortener-web/internal/services/jwtstring"
	"github.com/golang-jwt/jwt/v4"
)

// ErrInvalidToken — подпись неверна, срок истек или в токене нет сессии.
var ErrInvalidToken = errors.New("invalid session token")

// GetSessionID проверяет токен и возвращает идентификатор сессии.
func GetSessionID(tokenString string, secret []byte) (string, error) {
	claims := &jwtstring.Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return secret, nil
		})
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !token.Valid || claims.SessionID == "" {
		return "", ErrInvalidToken
	}

	return claims.SessionID, nil
}

// ValidationToken сообщает, можно ли доверять токену.
func ValidationToken(tokenString string, secret []byte) bool {
	_, err := GetSessionID(tokenString, secret)
	return err == nil
}
