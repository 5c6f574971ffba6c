package handlers

import (
	"net/http"
	"time"

	"github.com/wrenfield/curator/internal/domain"
	"github.com/wrenfield/curator/internal/httpserver/deps"
)

type feedResponse struct {
	Resources []domain.Resource `json:"resources"`
	Count     int               `json:"count"`
	LastPass  *time.Time        `json:"lastPass,omitempty"`
}

// Feed returns the session's merged resource view, newest first.
func Feed(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := currentSession(w, r, d)
		if !ok {
			return
		}

		resources := s.Resources()
		resp := feedResponse{Resources: resources, Count: len(resources)}
		if last := s.View().LastPass(); !last.IsZero() {
			resp.LastPass = &last
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

// RefreshFeed queues an aggregation pass. The pass runs asynchronously;
// clients poll the feed for the result.
func RefreshFeed(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := currentSession(w, r, d)
		if !ok {
			return
		}

		s.TriggerRefresh()
		writeJSON(w, http.StatusAccepted, map[string]string{"status": "refresh queued"})
	}
}
