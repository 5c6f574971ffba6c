package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/wrenfield/curator/internal/httpserver/deps"
	"github.com/wrenfield/curator/internal/httpserver/handlers"
	"github.com/wrenfield/curator/internal/httpserver/mw"
)

func init() { Register(registerFeed) }

func registerFeed(r chi.Router, d deps.Deps) {
	r.With(mw.RequireIdentity()).Route("/api/feed", func(r chi.Router) {
		r.Get("/", handlers.Feed(d))
		r.Post("/refresh", handlers.RefreshFeed(d))
	})
}
