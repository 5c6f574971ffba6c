package handlers

import (
	"net/http"
	"strings"

	"github.com/wrenfield/curator/internal/httpserver/deps"
	"github.com/wrenfield/curator/internal/social"
)

type socialSearchResponse struct {
	Query string        `json:"query"`
	Posts []social.Post `json:"posts"`
}

type repostRequest struct {
	URI string `json:"uri"`
}

// SocialSearch queries the social network and replaces the shared result
// projection.
func SocialSearch(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := strings.TrimSpace(r.URL.Query().Get("q"))
		if query == "" {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "missing query parameter q"})
			return
		}

		posts, err := d.Monitor.Search(r.Context(), query)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, socialSearchResponse{Query: query, Posts: posts})
	}
}

// Repost pushes a repost upstream for a post in the current results. The
// projected count is already incremented when this returns; a failed
// upstream call rolls it back before the error reaches the client.
func Repost(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req repostRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if req.URI == "" {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "missing post uri"})
			return
		}

		if err := d.Monitor.Repost(r.Context(), req.URI); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "reposted"})
	}
}
