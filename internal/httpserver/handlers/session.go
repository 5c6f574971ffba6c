package handlers

import (
	"net/http"

	"github.com/wrenfield/curator/internal/domain"
	"github.com/wrenfield/curator/internal/httpserver/deps"
	"github.com/wrenfield/curator/internal/httpserver/mw"
)

type loginResponse struct {
	User          string                `json:"user"`
	Subscriptions []domain.Subscription `json:"subscriptions"`
}

// Login starts (or resumes) the identity's session: the subscription
// document is created on first sight and the live sync loops start.
func Login(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := mw.UserID(r.Context())

		s, err := d.Sessions.Login(userID)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, loginResponse{
			User:          userID,
			Subscriptions: s.Subscriptions(),
		})
	}
}

// Logout tears the session down and clears all of its in-memory state.
func Logout(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := mw.UserID(r.Context())

		if err := d.Sessions.Logout(userID); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
