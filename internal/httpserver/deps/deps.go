package deps

import (
	"context"
	"time"

	"github.com/wrenfield/curator/internal/logger"
	"github.com/wrenfield/curator/internal/session"
	"github.com/wrenfield/curator/internal/social"
	"github.com/wrenfield/curator/internal/sources/catalog"
)

type Deps struct {
	Logger         logger.Logger
	StartTime      time.Time
	Version        string
	Commit         string
	BuildDate      string
	GoVersion      string
	TimeNow        func() time.Time // for testing, defaults to time.Now
	Sessions       *session.Manager // per-identity live state
	Monitor        *social.Monitor  // shared social search/repost projection
	Catalog        []catalog.Entry  // curated source suggestions (may be empty)
	AllowedOrigins []string         // CORS origins for the dashboard frontend
	TrustProxy     bool             // true if running behind a trusted reverse proxy

	// ReadyChecks are probed by /readyz; the key names the dependency.
	ReadyChecks map[string]func(context.Context) error
}
