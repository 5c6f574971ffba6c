// Package session ties one user identity to its live subscription state:
// an in-memory subscription list kept in sync with the store, the
// aggregated resource view, and a mirror of the public library. Nothing
// here survives logout; the store is the only durable state.
package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/wrenfield/curator/internal/aggregator"
	"github.com/wrenfield/curator/internal/domain"
	"github.com/wrenfield/curator/internal/logger"
)

// Store is the persistence layer a session runs against.
type Store interface {
	EnsureUser(ctx context.Context, userID string) error
	GetSubscriptions(ctx context.Context, userID string) ([]domain.Subscription, error)
	AddFeed(ctx context.Context, userID, url string) error
	RemoveFeed(ctx context.Context, userID, url string) error
	ToggleFeed(ctx context.Context, userID, url string) error
	UpdateKeywords(ctx context.Context, userID, url string, keywords []string) error
	ShareFeed(ctx context.Context, userID, url, description string) (domain.PublicFeed, error)
	DeleteFromLibrary(ctx context.Context, id string) error
	ListLibrary(ctx context.Context) ([]domain.PublicFeed, error)
	WatchSubscriptions(ctx context.Context, userID string) (<-chan []domain.Subscription, error)
	WatchLibrary(ctx context.Context) (<-chan []domain.PublicFeed, error)
}

// Session is the live state of one logged-in identity.
type Session struct {
	userID string
	store  Store
	orch   *aggregator.Orchestrator
	logger logger.Logger

	mu      sync.RWMutex
	subs    []domain.Subscription
	library []domain.PublicFeed

	// refresh coalesces aggregation triggers: a trigger arriving while a
	// pass is queued is dropped, not stacked.
	refresh chan struct{}
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

func newSession(userID string, store Store, resolver aggregator.Resolver, log logger.Logger) *Session {
	return &Session{
		userID:  userID,
		store:   store,
		orch:    aggregator.New(resolver, aggregator.NewView(), log),
		logger:  log,
		refresh: make(chan struct{}, 1),
	}
}

// start loads the initial state, opens the change streams and spawns the
// sync and refresh loops.
func (s *Session) start(parent context.Context) error {
	ctx, cancel := context.WithCancel(parent)
	s.cancel = cancel

	if err := s.store.EnsureUser(ctx, s.userID); err != nil {
		cancel()
		return fmt.Errorf("start session for %s: %w", s.userID, err)
	}

	subs, err := s.store.GetSubscriptions(ctx, s.userID)
	if err != nil {
		cancel()
		return fmt.Errorf("start session for %s: %w", s.userID, err)
	}
	s.setSubscriptions(subs)

	library, err := s.store.ListLibrary(ctx)
	if err != nil {
		// The library mirror is secondary; the session still works.
		s.logger.Warn("initial library load failed",
			logger.String("user", s.userID), logger.Error(err))
	}
	s.setLibrary(library)

	subCh, err := s.store.WatchSubscriptions(ctx, s.userID)
	if err != nil {
		cancel()
		return fmt.Errorf("start session for %s: %w", s.userID, err)
	}
	libCh, err := s.store.WatchLibrary(ctx)
	if err != nil {
		cancel()
		return fmt.Errorf("start session for %s: %w", s.userID, err)
	}

	s.wg.Add(3)
	go s.refreshLoop(ctx)
	go s.subscriptionLoop(ctx, subCh)
	go s.libraryLoop(ctx, libCh)

	s.TriggerRefresh()
	return nil
}

// close tears the session down: stop the loops, then clear every piece of
// in-memory state so nothing outlives the identity.
func (s *Session) close() {
	s.cancel()
	s.wg.Wait()

	s.mu.Lock()
	s.subs = nil
	s.library = nil
	s.mu.Unlock()
	s.orch.View().Clear()
}

// refreshLoop runs one aggregation pass per trigger.
func (s *Session) refreshLoop(ctx context.Context) {
	defer s.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.refresh:
			s.orch.FetchAll(ctx, s.Subscriptions())
		}
	}
}

// subscriptionLoop applies remote subscription changes. Every change, no
// matter which client caused it, replaces the in-memory list and triggers
// a pass.
func (s *Session) subscriptionLoop(ctx context.Context, ch <-chan []domain.Subscription) {
	defer s.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case subs, ok := <-ch:
			if !ok {
				return
			}
			s.setSubscriptions(subs)
			s.TriggerRefresh()
		}
	}
}

// libraryLoop mirrors the shared public library.
func (s *Session) libraryLoop(ctx context.Context, ch <-chan []domain.PublicFeed) {
	defer s.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case feeds, ok := <-ch:
			if !ok {
				return
			}
			s.setLibrary(feeds)
		}
	}
}

// TriggerRefresh queues an aggregation pass. Never blocks; a pending
// trigger absorbs the new one.
func (s *Session) TriggerRefresh() {
	select {
	case s.refresh <- struct{}{}:
	default:
	}
}

func (s *Session) setSubscriptions(subs []domain.Subscription) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = subs
}

func (s *Session) setLibrary(feeds []domain.PublicFeed) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.library = feeds
}

// Subscriptions returns a copy of the current subscription list.
func (s *Session) Subscriptions() []domain.Subscription {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Subscription, len(s.subs))
	copy(out, s.subs)
	return out
}

// Library returns a copy of the mirrored public library.
func (s *Session) Library() []domain.PublicFeed {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.PublicFeed, len(s.library))
	copy(out, s.library)
	return out
}

// Resources returns the current aggregated view.
func (s *Session) Resources() []domain.Resource {
	return s.orch.View().Resources()
}

// View exposes the session's resource view for status reporting.
func (s *Session) View() *aggregator.View {
	return s.orch.View()
}

// AddSource subscribes to a new source URL. Adding a URL already present
// is a no-op. The new source's items appear after the change round-trips
// through the store and triggers a pass.
func (s *Session) AddSource(ctx context.Context, url string) error {
	if _, exists := domain.FindSubscription(s.Subscriptions(), url); exists {
		return nil
	}
	return s.store.AddFeed(ctx, s.userID, url)
}

// RemoveSource unsubscribes from a URL. The source's items disappear from
// the view immediately, ahead of the confirming pass.
func (s *Session) RemoveSource(ctx context.Context, url string) error {
	if err := s.store.RemoveFeed(ctx, s.userID, url); err != nil {
		return err
	}
	s.orch.View().DropByURL(url)
	return nil
}

// ToggleSource flips a subscription's active flag.
func (s *Session) ToggleSource(ctx context.Context, url string) error {
	return s.store.ToggleFeed(ctx, s.userID, url)
}

// SetKeywords replaces a subscription's keyword filter.
func (s *Session) SetKeywords(ctx context.Context, url string, keywords []string) error {
	return s.store.UpdateKeywords(ctx, s.userID, url, keywords)
}

// ShareFeed publishes a URL to the public library.
func (s *Session) ShareFeed(ctx context.Context, url, description string) (domain.PublicFeed, error) {
	return s.store.ShareFeed(ctx, s.userID, url, description)
}

// DeleteLibraryEntry removes a shared entry by id.
func (s *Session) DeleteLibraryEntry(ctx context.Context, id string) error {
	return s.store.DeleteFromLibrary(ctx, id)
}

// UserID returns the identity this session belongs to.
func (s *Session) UserID() string {
	return s.userID
}
