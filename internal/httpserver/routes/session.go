package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/wrenfield/curator/internal/httpserver/deps"
	"github.com/wrenfield/curator/internal/httpserver/handlers"
	"github.com/wrenfield/curator/internal/httpserver/mw"
)

func init() { Register(registerSession) }

func registerSession(r chi.Router, d deps.Deps) {
	r.With(mw.RequireIdentity()).Route("/api/session", func(r chi.Router) {
		r.Post("/login", handlers.Login(d))
		r.Post("/logout", handlers.Logout(d))
	})
}
