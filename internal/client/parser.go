package client

import (
	"encoding/json"
	"regexp"
	"strings"
)

// ResponseParser извлекает кандидата в короткий URL из тела успешного ответа.
// Кандидат затем проверяется клиентом.
type ResponseParser interface {
	Candidate(body []byte) string
}

var shortURLLine = regexp.MustCompile(`Short URL: (.+)`)

// TextParser разбирает ответ вида "Short URL: {url}".
// Если префикса нет, кандидатом считается все тело.
type TextParser struct{}

func (TextParser) Candidate(body []byte) string {
	if m := shortURLLine.FindSubmatch(body); m != nil {
		return strings.TrimSpace(string(m[1]))
	}
	return strings.TrimSpace(string(body))
}

// JSONParser разбирает ответ вида {"short_url": "..."} (допускается поле "result").
type JSONParser struct{}

func (JSONParser) Candidate(body []byte) string {
	var resp struct {
		ShortURL string `json:"short_url"`
		Result   string `json:"result"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return ""
	}
	if resp.ShortURL != "" {
		return resp.ShortURL
	}
	return resp.Result
}

// ParserFor возвращает парсер по названию формата из конфигурации.
// Неизвестный формат означает текстовый.
func ParserFor(format string) ResponseParser {
	if strings.EqualFold(format, "json") {
		return JSONParser{}
	}
	return TextParser{}
}
