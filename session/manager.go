package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"tolldesk/access"
	"tolldesk/metrics"
	"tolldesk/models"
	"tolldesk/store"
)

// UserKey prefixes the KV key a logged-in user is persisted under.
const UserKey = "admin_user"

// ErrNoSession is returned for an unknown, expired or closed session id.
var ErrNoSession = errors.New("session not found")

// Key is the KV key of one session.
func Key(id string) string { return UserKey + ":" + id }

// Manager opens, restores and closes sessions. Live sessions are cached in
// memory; the user behind each one is persisted in a KV store so a session
// survives a restart without a new login.
type Manager struct {
	kv     KV
	loader *store.Loader
	ttl    time.Duration
	loc    *time.Location

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewManager(kv KV, loader *store.Loader, ttl time.Duration, loc *time.Location) *Manager {
	return &Manager{
		kv:       kv,
		loader:   loader,
		ttl:      ttl,
		loc:      loc,
		sessions: make(map[string]*Session),
	}
}

// Open starts a session for an authenticated user: resolves its scope, loads
// every collection and persists the user. An *access.InvalidRoleError aborts
// the login; collection failures do not and are available via Notices.
func (m *Manager) Open(ctx context.Context, user models.User) (*Session, error) {
	scope, err := access.ResolveScope(user)
	if err != nil {
		return nil, err
	}

	s := newSession(uuid.NewString(), user, scope, m.loc)
	s.Load(ctx, m.loader)

	payload, err := json.Marshal(user)
	if err != nil {
		return nil, fmt.Errorf("failed to encode session user: %w", err)
	}
	if err := m.kv.Set(ctx, Key(s.ID), payload, m.ttl); err != nil {
		return nil, fmt.Errorf("failed to persist session: %w", err)
	}

	m.mu.Lock()
	m.sessions[s.ID] = s
	metrics.ActiveSessions.Set(float64(len(m.sessions)))
	m.mu.Unlock()

	log.Info().Str("session", s.ID).Str("user", user.Username).Str("role", string(user.Role)).Msg("session opened")
	return s, nil
}

// Get returns a live session. The KV store is authoritative: a cached session
// whose key has expired or was deleted by another replica is evicted. When the
// session is not cached, the persisted user is read back and the session
// rebuilt without asking for the password again.
func (m *Manager) Get(ctx context.Context, id string) (*Session, error) {
	payload, err := m.kv.Get(ctx, Key(id))
	if errors.Is(err, ErrKeyNotFound) {
		m.evict(id)
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}

	m.mu.Lock()
	s, ok := m.sessions[id]
	m.mu.Unlock()
	if ok {
		return s, nil
	}

	var user models.User
	if err := json.Unmarshal(payload, &user); err != nil {
		return nil, fmt.Errorf("failed to decode session user: %w", err)
	}
	scope, err := access.ResolveScope(user)
	if err != nil {
		return nil, err
	}

	restored := newSession(id, user, scope, m.loc)
	restored.Load(ctx, m.loader)

	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.sessions[id]; ok {
		return existing, nil
	}
	m.sessions[id] = restored
	metrics.ActiveSessions.Set(float64(len(m.sessions)))

	log.Info().Str("session", id).Str("user", user.Username).Msg("session restored")
	return restored, nil
}

// Reload re-fetches every collection of a session.
func (m *Manager) Reload(ctx context.Context, s *Session) {
	s.Load(ctx, m.loader)
}

// Close tears a session down: it is dropped from memory and from the KV store.
func (m *Manager) Close(ctx context.Context, id string) error {
	m.evict(id)

	if err := m.kv.Delete(ctx, Key(id)); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

func (m *Manager) evict(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return
	}
	delete(m.sessions, id)
	metrics.ActiveSessions.Set(float64(len(m.sessions)))
	log.Info().Str("session", id).Msg("session evicted")
}

// Prune evicts every cached session whose KV key is gone and returns how many
// were dropped. Sessions are kept when the KV cannot be reached.
func (m *Manager) Prune(ctx context.Context) int {
	m.mu.Lock()
	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	m.mu.Unlock()

	pruned := 0
	for _, id := range ids {
		if _, err := m.kv.Get(ctx, Key(id)); errors.Is(err, ErrKeyNotFound) {
			m.evict(id)
			pruned++
		}
	}
	return pruned
}

// PruneExpired runs Prune every interval until stop is closed.
func (m *Manager) PruneExpired(interval time.Duration, stop <-chan struct{}) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if n := m.Prune(context.Background()); n > 0 {
					log.Debug().Int("count", n).Msg("expired sessions pruned")
				}
			case <-stop:
				return
			}
		}
	}()
}
