package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/wrenfield/curator/internal/httpserver/deps"
)

type shareRequest struct {
	URL         string `json:"url"`
	Description string `json:"description"`
}

// Library lists the shared public feeds, newest first.
func Library(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := currentSession(w, r, d)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, s.Library())
	}
}

// ShareFeed publishes one of the user's sources to the public library.
// Sharing a URL someone already shared is a conflict.
func ShareFeed(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := currentSession(w, r, d)
		if !ok {
			return
		}

		var req shareRequest
		if !decodeBody(w, r, &req) {
			return
		}
		req.URL = strings.TrimSpace(req.URL)
		if !validSourceURL(req.URL) {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "url must be a valid http(s) URL"})
			return
		}

		entry, err := s.ShareFeed(r.Context(), req.URL, req.Description)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, entry)
	}
}

// SubscribeFromLibrary adds a shared feed to the caller's own
// subscriptions. Already-subscribed URLs are accepted and ignored.
func SubscribeFromLibrary(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := currentSession(w, r, d)
		if !ok {
			return
		}

		var req subscriptionRequest
		if !decodeBody(w, r, &req) {
			return
		}

		if err := s.AddSource(r.Context(), strings.TrimSpace(req.URL)); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusCreated)
	}
}

// DeleteLibraryEntry removes a shared entry by id.
func DeleteLibraryEntry(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := currentSession(w, r, d)
		if !ok {
			return
		}

		id := chi.URLParam(r, "id")
		if err := s.DeleteLibraryEntry(r.Context(), id); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
