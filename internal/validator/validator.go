// Package validator проверяет пользовательский ввод перед отправкой в сервис сокращения.
package validator

import "net/url"

// IsValidURL сообщает, является ли candidate абсолютным URL со схемой http или https.
// Ошибки разбора превращаются в false.
func IsValidURL(candidate string) bool {
	u, err := url.Parse(candidate)
	if err != nil || !u.IsAbs() {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return u.Host != ""
}
