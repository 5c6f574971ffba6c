package mw

import (
	"context"
	"net/http"
	"strings"
)

// HeaderUserID carries the caller's identity. Authentication itself is
// delegated to the fronting proxy; this service only needs to know which
// identity the request acts as.
const HeaderUserID = "X-User-ID"

type ctxKey int

const userIDKey ctxKey = iota

// RequireIdentity rejects requests without an identity header and stashes
// the user id in the request context for handlers.
func RequireIdentity() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := strings.TrimSpace(r.Header.Get(HeaderUserID))
			if userID == "" {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"error":"authentication required"}`))
				return
			}
			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserID returns the identity stored by RequireIdentity, if any.
func UserID(ctx context.Context) string {
	if v, ok := ctx.Value(userIDKey).(string); ok {
		return v
	}
	return ""
}
