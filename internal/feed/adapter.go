package feed

import (
	"context"
	"strings"
	"time"

	"github.com/wrenfield/curator/internal/domain"
)

// Adapter translates one external source's wire format into canonical
// resources. Match reports whether this adapter handles the given
// subscription URL; the dispatcher calls it, never the adapter itself.
type Adapter interface {
	Name() string
	Match(url string) bool
	Fetch(ctx context.Context, sourceURL string, keywords []string) ([]domain.Resource, error)
}

// Dispatcher selects exactly one adapter per subscription URL.
//
// This is a closed strategy set, not open extension: adapters are tested
// in a fixed priority order (news, government notices, legislative, then
// the blog-feed default) and the first match wins. There is no fallback
// chaining past the first match.
type Dispatcher struct {
	adapters []Adapter
}

// NewDispatcher builds the dispatcher with the standard priority order.
// The rss adapter matches everything, so it must stay last.
func NewDispatcher(news *NewsAdapter, gov *GovNoticeAdapter, congress *CongressAdapter, rss *RSSAdapter) *Dispatcher {
	return &Dispatcher{
		adapters: []Adapter{news, gov, congress, rss},
	}
}

// Resolve returns the adapter responsible for the given URL.
func (d *Dispatcher) Resolve(url string) Adapter {
	for _, a := range d.adapters {
		if a.Match(url) {
			return a
		}
	}
	// Unreachable as long as the default adapter is registered.
	return d.adapters[len(d.adapters)-1]
}

// parseWhen parses the timestamp formats the upstream APIs actually emit
// (RFC 3339 and bare dates). It returns fallback when the value is empty
// or unparsable, so adapters never produce an invalid instant.
func parseWhen(s string, fallback time.Time) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return fallback
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02", time.RFC1123Z, time.RFC1123} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return fallback
}
