// Package web содержит шаблон страницы и статические файлы (фон со звездами,
// копирование в буфер обмена). Бизнес-логики здесь нет.
package web

import (
	"embed"
	"html/template"
	"io"
	"io/fs"
	"net/http"
	"strings"

	"github.com/GevorkovG/go-shortener-web/internal/workflow"
)

//go:embed templates/*.html
var templateFiles embed.FS

//go:embed static
var staticFiles embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFiles, "templates/*.html"))

// Page — данные для отрисовки страницы.
type Page struct {
	Title    string
	State    workflow.State
	ShowInfo bool
}

// CanSubmit повторяет правило кнопки отправки: не во время загрузки и не при пустом поле.
func (p Page) CanSubmit() bool {
	return !p.State.IsLoading && strings.TrimSpace(p.State.URL) != ""
}

// Render пишет страницу целиком.
func Render(w io.Writer, p Page) error {
	if p.Title == "" {
		p.Title = "URL Shortener"
	}
	return pageTemplate.ExecuteTemplate(w, "index.html", p)
}

// Static отдает встроенные статические файлы; монтируется под /static/.
func Static() http.Handler {
	sub, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(err)
	}
	return http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
}
