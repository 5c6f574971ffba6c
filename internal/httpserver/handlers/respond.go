package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/wrenfield/curator/internal/domain"
	"github.com/wrenfield/curator/internal/httpserver/deps"
	"github.com/wrenfield/curator/internal/httpserver/mw"
	"github.com/wrenfield/curator/internal/logger"
	"github.com/wrenfield/curator/internal/session"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps domain sentinels onto HTTP statuses. Anything
// unrecognised is an upstream or storage failure.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusBadGateway
	switch {
	case errors.Is(err, domain.ErrUnauthenticated):
		status = http.StatusUnauthorized
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrDuplicate):
		status = http.StatusConflict
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return false
	}
	return true
}

// currentSession resolves the request identity to its live session. A
// valid identity without a session means the client skipped login.
func currentSession(w http.ResponseWriter, r *http.Request, d deps.Deps) (*session.Session, bool) {
	userID := mw.UserID(r.Context())
	s, ok := d.Sessions.Get(userID)
	if !ok {
		d.Logger.Debug("request for inactive session", logger.String("user", userID))
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "no active session, login first"})
		return nil, false
	}
	return s, true
}
