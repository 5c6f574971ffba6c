package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/wrenfield/curator/internal/httpserver/deps"
	"github.com/wrenfield/curator/internal/httpserver/handlers"
	"github.com/wrenfield/curator/internal/httpserver/mw"
)

func init() { Register(registerSubscriptions) }

func registerSubscriptions(r chi.Router, d deps.Deps) {
	r.With(mw.RequireIdentity()).Route("/api/subscriptions", func(r chi.Router) {
		r.Get("/", handlers.Subscriptions(d))
		r.Post("/", handlers.AddSubscription(d))
		r.Delete("/", handlers.RemoveSubscription(d))
		r.Post("/toggle", handlers.ToggleSubscription(d))
		r.Put("/keywords", handlers.UpdateKeywords(d))
	})
}
