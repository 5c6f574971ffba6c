package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/wrenfield/curator/internal/domain"
	"github.com/wrenfield/curator/internal/feed"
	"github.com/wrenfield/curator/internal/logger"
)

// fakeStore keeps everything in maps and exposes the watch channels so
// tests can simulate remote changes.
type fakeStore struct {
	mu       sync.Mutex
	subs     map[string][]domain.Subscription
	library  []domain.PublicFeed
	addCalls int

	subCh chan []domain.Subscription
	libCh chan []domain.PublicFeed
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		subs:  make(map[string][]domain.Subscription),
		subCh: make(chan []domain.Subscription),
		libCh: make(chan []domain.PublicFeed),
	}
}

func (f *fakeStore) EnsureUser(_ context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.subs[userID]; !ok {
		f.subs[userID] = nil
	}
	return nil
}

func (f *fakeStore) GetSubscriptions(_ context.Context, userID string) ([]domain.Subscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.Subscription(nil), f.subs[userID]...), nil
}

func (f *fakeStore) AddFeed(_ context.Context, userID, url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.addCalls++
	f.subs[userID] = append(f.subs[userID], domain.Subscription{URL: url, IsActive: true, AddedAt: time.Now()})
	return nil
}

func (f *fakeStore) RemoveFeed(_ context.Context, userID, url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.subs[userID][:0]
	for _, s := range f.subs[userID] {
		if s.URL != url {
			kept = append(kept, s)
		}
	}
	f.subs[userID] = kept
	return nil
}

func (f *fakeStore) ToggleFeed(_ context.Context, userID, url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.subs[userID] {
		if f.subs[userID][i].URL == url {
			f.subs[userID][i].IsActive = !f.subs[userID][i].IsActive
			return nil
		}
	}
	return domain.ErrNotFound
}

func (f *fakeStore) UpdateKeywords(_ context.Context, userID, url string, keywords []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.subs[userID] {
		if f.subs[userID][i].URL == url {
			f.subs[userID][i].Keywords = keywords
			return nil
		}
	}
	return domain.ErrNotFound
}

func (f *fakeStore) ShareFeed(_ context.Context, userID, url, description string) (domain.PublicFeed, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.library {
		if e.URL == url {
			return domain.PublicFeed{}, domain.ErrDuplicate
		}
	}
	entry := domain.PublicFeed{ID: url, URL: url, Description: description, SharedBy: userID}
	f.library = append(f.library, entry)
	return entry, nil
}

func (f *fakeStore) DeleteFromLibrary(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, e := range f.library {
		if e.ID == id {
			f.library = append(f.library[:i], f.library[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (f *fakeStore) ListLibrary(context.Context) ([]domain.PublicFeed, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.PublicFeed(nil), f.library...), nil
}

func (f *fakeStore) WatchSubscriptions(context.Context, string) (<-chan []domain.Subscription, error) {
	return f.subCh, nil
}

func (f *fakeStore) WatchLibrary(context.Context) (<-chan []domain.PublicFeed, error) {
	return f.libCh, nil
}

// echoAdapter yields one resource per fetch, tagged with the source URL.
type echoAdapter struct{}

func (echoAdapter) Name() string      { return "echo" }
func (echoAdapter) Match(string) bool { return true }

func (echoAdapter) Fetch(_ context.Context, sourceURL string, _ []string) ([]domain.Resource, error) {
	return []domain.Resource{{ExternalID: sourceURL, URL: sourceURL, PublishedAt: time.Now()}}, nil
}

type echoResolver struct{}

func (echoResolver) Resolve(string) feed.Adapter { return echoAdapter{} }

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func startManager(t *testing.T, store *fakeStore) *Manager {
	t.Helper()
	m := NewManager(store, echoResolver{}, logger.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	m.Start(ctx)
	return m
}

func TestLoginLoadsStateAndRunsInitialPass(t *testing.T) {
	store := newFakeStore()
	store.subs["alice"] = []domain.Subscription{{URL: "http://a.com/feed", IsActive: true}}
	m := startManager(t, store)

	s, err := m.Login("alice")
	if err != nil {
		t.Fatalf("Login() error: %v", err)
	}

	waitFor(t, "initial aggregation pass", func() bool {
		return len(s.Resources()) == 1
	})
	if got := s.Resources()[0].Origin; got != "http://a.com/feed" {
		t.Errorf("resource origin = %q, want subscription URL", got)
	}
}

func TestLoginIsIdempotent(t *testing.T) {
	store := newFakeStore()
	m := startManager(t, store)

	first, err := m.Login("alice")
	if err != nil {
		t.Fatalf("Login() error: %v", err)
	}
	second, err := m.Login("alice")
	if err != nil {
		t.Fatalf("second Login() error: %v", err)
	}
	if first != second {
		t.Error("second login should return the existing session")
	}
	if m.Count() != 1 {
		t.Errorf("Count() = %d, want 1", m.Count())
	}
}

func TestLoginRequiresIdentity(t *testing.T) {
	m := startManager(t, newFakeStore())
	if _, err := m.Login(""); err == nil {
		t.Error("expected error for empty user id")
	}
}

func TestRemoteChangeTriggersPass(t *testing.T) {
	store := newFakeStore()
	m := startManager(t, store)

	s, err := m.Login("alice")
	if err != nil {
		t.Fatalf("Login() error: %v", err)
	}

	// Simulate another client adding two subscriptions remotely.
	store.subCh <- []domain.Subscription{
		{URL: "http://a.com/feed", IsActive: true},
		{URL: "http://b.com/feed", IsActive: true},
	}

	waitFor(t, "pass after remote change", func() bool {
		return len(s.Resources()) == 2
	})
	if len(s.Subscriptions()) != 2 {
		t.Errorf("in-memory list has %d subscriptions, want 2", len(s.Subscriptions()))
	}
}

func TestRemoveSourceDropsViewImmediately(t *testing.T) {
	store := newFakeStore()
	store.subs["alice"] = []domain.Subscription{
		{URL: "http://a.com/feed", IsActive: true},
		{URL: "http://b.com/feed", IsActive: true},
	}
	m := startManager(t, store)

	s, err := m.Login("alice")
	if err != nil {
		t.Fatalf("Login() error: %v", err)
	}
	waitFor(t, "initial pass", func() bool { return len(s.Resources()) == 2 })

	// No watch event is emitted here, so any view change comes from the
	// immediate drop alone.
	if err := s.RemoveSource(context.Background(), "http://a.com/feed"); err != nil {
		t.Fatalf("RemoveSource() error: %v", err)
	}

	got := s.Resources()
	if len(got) != 1 || got[0].Origin != "http://b.com/feed" {
		t.Fatalf("view after remove = %v, want only b.com items", got)
	}
}

func TestAddSourceDuplicateIsNoOp(t *testing.T) {
	store := newFakeStore()
	store.subs["alice"] = []domain.Subscription{{URL: "http://a.com/feed", IsActive: true}}
	m := startManager(t, store)

	s, err := m.Login("alice")
	if err != nil {
		t.Fatalf("Login() error: %v", err)
	}

	if err := s.AddSource(context.Background(), "http://a.com/feed"); err != nil {
		t.Fatalf("AddSource() error: %v", err)
	}
	if store.addCalls != 0 {
		t.Errorf("store.AddFeed called %d times for duplicate, want 0", store.addCalls)
	}
}

func TestLogoutClearsEverything(t *testing.T) {
	store := newFakeStore()
	store.subs["alice"] = []domain.Subscription{{URL: "http://a.com/feed", IsActive: true}}
	m := startManager(t, store)

	s, err := m.Login("alice")
	if err != nil {
		t.Fatalf("Login() error: %v", err)
	}
	waitFor(t, "initial pass", func() bool { return len(s.Resources()) == 1 })

	if err := m.Logout("alice"); err != nil {
		t.Fatalf("Logout() error: %v", err)
	}

	if len(s.Resources()) != 0 {
		t.Error("resources should be cleared after logout")
	}
	if len(s.Subscriptions()) != 0 {
		t.Error("subscriptions should be cleared after logout")
	}
	if len(s.Library()) != 0 {
		t.Error("library mirror should be cleared after logout")
	}
	if _, ok := m.Get("alice"); ok {
		t.Error("session should be gone from the manager")
	}

	// The stored document survives logout.
	subs, _ := store.GetSubscriptions(context.Background(), "alice")
	if len(subs) != 1 {
		t.Errorf("store has %d subscriptions after logout, want 1", len(subs))
	}
}

func TestLogoutUnknownUser(t *testing.T) {
	m := startManager(t, newFakeStore())
	if err := m.Logout("nobody"); err == nil {
		t.Error("expected error for unknown user")
	}
}
