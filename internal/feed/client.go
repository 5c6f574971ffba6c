package feed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/wrenfield/curator/internal/logger"
)

// Cache stores raw upstream payloads for a short while so rapid
// re-aggregation triggers (subscription toggles, manual refreshes) do not
// hammer the keyed news and legislative APIs. Both methods are best
// effort: implementations swallow their own errors.
type Cache interface {
	Get(ctx context.Context, url string) ([]byte, bool)
	Set(ctx context.Context, url string, payload []byte, ttl time.Duration)
}

// Client is the shared HTTP client all adapters fetch through.
type Client struct {
	http   *http.Client
	cache  Cache // nil => caching disabled
	ttl    time.Duration
	logger logger.Logger
}

// NewClient wires the shared upstream client. cache may be nil.
func NewClient(httpClient *http.Client, cache Cache, ttl time.Duration, log logger.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 20 * time.Second}
	}
	return &Client{
		http:   httpClient,
		cache:  cache,
		ttl:    ttl,
		logger: log,
	}
}

// GetBytes performs a GET and returns the body. Non-2xx responses are
// errors so the orchestrator can isolate the failing subscription.
func (c *Client) GetBytes(ctx context.Context, url string) ([]byte, error) {
	if c.cache != nil {
		if payload, ok := c.cache.Get(ctx, url); ok {
			c.logger.Debug("upstream cache hit", logger.String("url", url))
			return payload, nil
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "curator/1.0")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("upstream returned %s for %s", resp.Status, url)
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	if c.cache != nil {
		c.cache.Set(ctx, url, payload, c.ttl)
	}

	return payload, nil
}
