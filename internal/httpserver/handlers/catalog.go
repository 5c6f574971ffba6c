package handlers

import (
	"net/http"

	"github.com/wrenfield/curator/internal/httpserver/deps"
	"github.com/wrenfield/curator/internal/sources/catalog"
)

// Catalog serves the curated source suggestions. Requires no identity:
// the catalog is the same for everyone.
func Catalog(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entries := d.Catalog
		if entries == nil {
			entries = []catalog.Entry{}
		}
		writeJSON(w, http.StatusOK, entries)
	}
}
