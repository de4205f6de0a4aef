package keys

import (
	"sync"
	"time"

	"github.com/goliatone/go-cashflow/pkg/interfaces/logger"
)

// DefaultMaxSessions bounds the resolver registry for long-running processes
// with many short sessions.
const DefaultMaxSessions = 256

// ManagerDeps configure the shared collaborators handed to every resolver.
type ManagerDeps struct {
	Registry    *Registry
	Store       CredentialStore
	Env         ValueReader
	Platform    ValueReader
	Logger      logger.Logger
	MaxSessions int
}

type sessionKey struct {
	SessionID string
	UserID    string
}

type managedResolver struct {
	resolver *Resolver
	lastUsed time.Time
}

// Manager hands out per-session resolvers, reusing instances for repeated
// requests within a session. The registry is bounded: the least recently
// used resolver is evicted once MaxSessions is reached. Lifecycle is owned
// by the hosting session layer, which calls Evict when a session ends.
type Manager struct {
	deps ManagerDeps
	now  func() time.Time

	mu        sync.Mutex
	resolvers map[sessionKey]*managedResolver
}

// NewManager builds a resolver manager.
func NewManager(deps ManagerDeps) *Manager {
	if deps.Registry == nil {
		deps.Registry = NewRegistry()
	}
	if deps.Logger == nil {
		deps.Logger = &logger.Nop{}
	}
	if deps.MaxSessions <= 0 {
		deps.MaxSessions = DefaultMaxSessions
	}
	return &Manager{
		deps:      deps,
		now:       time.Now,
		resolvers: make(map[sessionKey]*managedResolver),
	}
}

// Resolver returns the resolver for the (session, user) pair, constructing
// one on first use.
func (m *Manager) Resolver(sessionID, userID string) (*Resolver, error) {
	key := sessionKey{SessionID: sessionID, UserID: userID}

	m.mu.Lock()
	defer m.mu.Unlock()

	if entry, ok := m.resolvers[key]; ok {
		entry.lastUsed = m.now()
		return entry.resolver, nil
	}

	resolver, err := New(Dependencies{
		SessionID: sessionID,
		UserID:    userID,
		Registry:  m.deps.Registry,
		Store:     m.deps.Store,
		Env:       m.deps.Env,
		Platform:  m.deps.Platform,
		Logger:    m.deps.Logger,
	})
	if err != nil {
		return nil, err
	}

	if len(m.resolvers) >= m.deps.MaxSessions {
		m.evictOldest()
	}
	m.resolvers[key] = &managedResolver{resolver: resolver, lastUsed: m.now()}
	return resolver, nil
}

// Evict drops every resolver for the session and returns how many were
// removed. Their caches go with them.
func (m *Manager) Evict(sessionID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for key := range m.resolvers {
		if key.SessionID == sessionID {
			delete(m.resolvers, key)
			count++
		}
	}
	return count
}

// Sessions returns the number of live resolvers.
func (m *Manager) Sessions() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.resolvers)
}

func (m *Manager) evictOldest() {
	var oldest sessionKey
	var oldestAt time.Time
	first := true
	for key, entry := range m.resolvers {
		if first || entry.lastUsed.Before(oldestAt) {
			oldest = key
			oldestAt = entry.lastUsed
			first = false
		}
	}
	if !first {
		delete(m.resolvers, oldest)
	}
}
