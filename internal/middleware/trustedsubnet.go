// Package middleware содержит middleware, не связанные с сессиями и логированием.
package middleware

import (
	"net"
	"net/http"

	"go.uber.org/zap"
)

// TrustedSubnet пропускает только запросы из доверенной подсети.
// Адрес клиента берется из X-Real-IP, а если заголовка нет — из RemoteAddr.
// Пустая или некорректная подсеть закрывает доступ полностью.
func TrustedSubnet(trustedSubnet string) func(http.Handler) http.Handler {
	var subnet *net.IPNet
	if trustedSubnet != "" {
		_, parsed, err := net.ParseCIDR(trustedSubnet)
		if err != nil {
			zap.L().Error("Invalid trusted subnet configuration", zap.String("subnet", trustedSubnet), zap.Error(err))
		} else {
			subnet = parsed
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if subnet == nil {
				http.Error(w, "Access forbidden", http.StatusForbidden)
				return
			}

			ip := clientIP(r)
			if ip == nil {
				http.Error(w, "Invalid IP address", http.StatusForbidden)
				return
			}

			if !subnet.Contains(ip) {
				http.Error(w, "Access forbidden", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) net.IP {
	if v := r.Header.Get("X-Real-IP"); v != "" {
		return net.ParseIP(v)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return net.ParseIP(r.RemoteAddr)
	}
	return net.ParseIP(host)
}
