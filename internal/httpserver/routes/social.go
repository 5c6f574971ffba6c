package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/wrenfield/curator/internal/httpserver/deps"
	"github.com/wrenfield/curator/internal/httpserver/handlers"
	"github.com/wrenfield/curator/internal/httpserver/mw"
)

func init() { Register(registerSocial) }

func registerSocial(r chi.Router, d deps.Deps) {
	// The upstream rate-limits unauthenticated search hard, so throttle
	// per client before we even reach it.
	limit := mw.RateLimit(mw.RateLimitConfig{
		Burst:             10,
		RefillPerIPPerMin: 30,
		MaxEntries:        4096,
		TrustProxy:        d.TrustProxy,
	})

	r.With(mw.RequireIdentity(), limit).Route("/api/social", func(r chi.Router) {
		r.Get("/search", handlers.SocialSearch(d))
		r.Post("/repost", handlers.Repost(d))
	})
}
