package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/wrenfield/curator/internal/httpserver/deps"
	"github.com/wrenfield/curator/internal/httpserver/handlers"
	"github.com/wrenfield/curator/internal/httpserver/mw"
)

func init() { Register(registerLibrary) }

func registerLibrary(r chi.Router, d deps.Deps) {
	r.With(mw.RequireIdentity()).Route("/api/library", func(r chi.Router) {
		r.Get("/", handlers.Library(d))
		r.Post("/share", handlers.ShareFeed(d))
		r.Post("/subscribe", handlers.SubscribeFromLibrary(d))
		r.Delete("/{id}", handlers.DeleteLibraryEntry(d))
	})
}
