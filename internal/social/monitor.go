package social

import (
	"context"
	"fmt"
	"sync"

	"github.com/wrenfield/curator/internal/logger"
)

// Monitor holds the most recent search results and applies repost counts
// optimistically: the local projection is updated first, then reconciled
// with the upstream outcome and rolled back on failure.
type Monitor struct {
	client *Client
	logger logger.Logger

	mu    sync.RWMutex
	query string
	posts []Post
}

func NewMonitor(client *Client, log logger.Logger) *Monitor {
	return &Monitor{
		client: client,
		logger: log,
	}
}

// Search replaces the current post list with fresh results.
func (m *Monitor) Search(ctx context.Context, query string) ([]Post, error) {
	posts, err := m.client.Search(ctx, query)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.query = query
	m.posts = posts
	m.mu.Unlock()

	m.logger.Info("social search completed",
		logger.String("query", query),
		logger.Int("posts", len(posts)))

	return posts, nil
}

// Posts returns a copy of the current post list.
func (m *Monitor) Posts() []Post {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Post, len(m.posts))
	copy(out, m.posts)
	return out
}

// Repost pushes a repost upstream. The local count is incremented before
// the call and decremented again if the call fails, so readers see the
// optimistic value only while the command is in flight or succeeded.
func (m *Monitor) Repost(ctx context.Context, uri string) error {
	post, ok := m.adjustReposts(uri, +1)
	if !ok {
		return fmt.Errorf("post %s not in current results", uri)
	}

	if err := m.client.Repost(ctx, uri, post.CID); err != nil {
		m.adjustReposts(uri, -1) // roll back the projection
		return err
	}

	m.logger.Info("reposted", logger.String("uri", uri))
	return nil
}

func (m *Monitor) adjustReposts(uri string, delta int) (Post, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.posts {
		if m.posts[i].ID == uri {
			m.posts[i].Reposts += delta
			return m.posts[i], true
		}
	}
	return Post{}, false
}
