package routes

import (
	"net/http"

	"github.com/GevorkovG/go-shortener-web/internal/app"
	"github.com/GevorkovG/go-shortener-web/internal/cookies"
	"github.com/GevorkovG/go-shortener-web/internal/logger"
	"github.com/GevorkovG/go-shortener-web/internal/middleware"
	"github.com/GevorkovG/go-shortener-web/internal/web"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// Router - http роутер
func Router(app *app.App) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.Recoverer,
		logger.LoggerMiddleware,
		app.Metrics.Middleware,
		chimw.Compress(5, "text/html", "text/css", "application/javascript", "application/json"),
	)

	r.Get("/ping", app.Ping)
	r.Handle("/static/*", web.Static())

	r.With(middleware.TrustedSubnet(app.GetConfig().TrustedSubnet)).
		Handle("/metrics", app.Metrics.Handler())

	r.Group(func(r chi.Router) {
		r.Use(cookies.Sessions(app.CookieSecret()))

		r.Get("/", app.Index)
		r.Post("/shorten", app.Shorten)
		r.Post("/clear", app.Clear)
		r.Post("/input", app.Input)

		r.Get("/api/state", app.APIState)
		r.Post("/api/shorten", app.APIShorten)
		r.Post("/api/clear", app.APIClear)
	})

	return r
}
