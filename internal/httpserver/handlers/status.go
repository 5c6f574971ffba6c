package handlers

import (
	"net/http"
	"runtime"

	"github.com/wrenfield/curator/internal/httpserver/deps"
)

type statusResponse struct {
	Version    string `json:"version"`
	GoVersion  string `json:"go_version"`
	Goroutines int    `json:"goroutines"`
	Sessions   int    `json:"sessions"`
	Catalog    int    `json:"catalog_entries"`
}

// Status reports operational counters for the dashboard's about page.
func Status(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, statusResponse{
			Version:    d.Version,
			GoVersion:  runtime.Version(),
			Goroutines: runtime.NumGoroutine(),
			Sessions:   d.Sessions.Count(),
			Catalog:    len(d.Catalog),
		})
	}
}
