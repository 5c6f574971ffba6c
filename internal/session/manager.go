package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/wrenfield/curator/internal/aggregator"
	"github.com/wrenfield/curator/internal/domain"
	"github.com/wrenfield/curator/internal/logger"
)

// Manager owns the session table. Login and logout are the only two
// lifecycle transitions; everything a session holds is scoped between
// them.
type Manager struct {
	store    Store
	resolver aggregator.Resolver
	logger   logger.Logger

	mu       sync.Mutex
	sessions map[string]*Session
	base     context.Context
}

func NewManager(store Store, resolver aggregator.Resolver, log logger.Logger) *Manager {
	return &Manager{
		store:    store,
		resolver: resolver,
		logger:   log,
		sessions: make(map[string]*Session),
	}
}

// Start binds the manager to the application lifetime. Sessions created
// afterwards are children of this context and die with it.
func (m *Manager) Start(ctx context.Context) {
	m.mu.Lock()
	m.base = ctx
	m.mu.Unlock()

	go func() {
		<-ctx.Done()
		m.closeAll()
	}()
}

// Login starts a session for the identity, creating its subscription
// document on first sight. Logging in an already logged-in identity
// returns the existing session unchanged.
func (m *Manager) Login(userID string) (*Session, error) {
	if userID == "" {
		return nil, fmt.Errorf("login: %w", domain.ErrUnauthenticated)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sessions[userID]; ok {
		return s, nil
	}
	if m.base == nil {
		return nil, fmt.Errorf("login: session manager not started")
	}

	s := newSession(userID, m.store, m.resolver, m.logger)
	if err := s.start(m.base); err != nil {
		return nil, err
	}
	m.sessions[userID] = s

	m.logger.Info("session started", logger.String("user", userID))
	return s, nil
}

// Get returns the live session for the identity, if any.
func (m *Manager) Get(userID string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[userID]
	return s, ok
}

// Logout tears the identity's session down: watchers stop and every piece
// of in-memory state is cleared. The stored subscription document is
// untouched.
func (m *Manager) Logout(userID string) error {
	m.mu.Lock()
	s, ok := m.sessions[userID]
	delete(m.sessions, userID)
	m.mu.Unlock()

	if !ok {
		return fmt.Errorf("logout %s: %w", userID, domain.ErrNotFound)
	}

	s.close()
	m.logger.Info("session ended", logger.String("user", userID))
	return nil
}

// Count returns the number of live sessions.
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

func (m *Manager) closeAll() {
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()

	for _, s := range sessions {
		s.close()
	}
}
