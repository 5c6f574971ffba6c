package handlers

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/wrenfield/curator/internal/httpserver/deps"
)

type subscriptionRequest struct {
	URL string `json:"url"`
}

type keywordsRequest struct {
	URL      string   `json:"url"`
	Keywords []string `json:"keywords"`
}

func validSourceURL(raw string) bool {
	parsed, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (parsed.Scheme == "http" || parsed.Scheme == "https") && parsed.Host != ""
}

// Subscriptions lists the session's subscription set.
func Subscriptions(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := currentSession(w, r, d)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, s.Subscriptions())
	}
}

// AddSubscription subscribes the session to a new source URL. Duplicates
// are accepted and ignored.
func AddSubscription(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := currentSession(w, r, d)
		if !ok {
			return
		}

		var req subscriptionRequest
		if !decodeBody(w, r, &req) {
			return
		}
		req.URL = strings.TrimSpace(req.URL)
		if !validSourceURL(req.URL) {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "url must be a valid http(s) URL"})
			return
		}

		if err := s.AddSource(r.Context(), req.URL); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusCreated)
	}
}

// RemoveSubscription unsubscribes from a source. Its items leave the feed
// immediately.
func RemoveSubscription(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := currentSession(w, r, d)
		if !ok {
			return
		}

		var req subscriptionRequest
		if !decodeBody(w, r, &req) {
			return
		}

		if err := s.RemoveSource(r.Context(), req.URL); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// ToggleSubscription flips a subscription's active flag without removing it.
func ToggleSubscription(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := currentSession(w, r, d)
		if !ok {
			return
		}

		var req subscriptionRequest
		if !decodeBody(w, r, &req) {
			return
		}

		if err := s.ToggleSource(r.Context(), req.URL); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// UpdateKeywords replaces a subscription's keyword filter.
func UpdateKeywords(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := currentSession(w, r, d)
		if !ok {
			return
		}

		var req keywordsRequest
		if !decodeBody(w, r, &req) {
			return
		}

		if err := s.SetKeywords(r.Context(), req.URL, req.Keywords); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
