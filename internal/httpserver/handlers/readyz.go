package handlers

import (
	"net/http"

	"github.com/wrenfield/curator/internal/httpserver/deps"
)

type readyzResponse struct {
	Ready  bool              `json:"ready"`
	Checks map[string]string `json:"checks,omitempty"`
}

// Readyz probes the registered dependency checks. Any failing check makes
// the whole endpoint report not ready.
func Readyz(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := readyzResponse{Ready: true, Checks: make(map[string]string, len(d.ReadyChecks))}
		for name, check := range d.ReadyChecks {
			if err := check(r.Context()); err != nil {
				resp.Ready = false
				resp.Checks[name] = err.Error()
				continue
			}
			resp.Checks[name] = "ok"
		}

		status := http.StatusOK
		if !resp.Ready {
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, status, resp)
	}
}
