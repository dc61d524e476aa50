// Package session holds the server-side session store and the access guards
// built on it. A session binds an opaque cookie token to a role and identity;
// it is created at login and torn down at logout. The Store interface has two
// backings: an in-process map and Redis.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	RoleAdmin   = "admin"
	RolePatient = "patient"
)

// ErrNotFound is returned when a token does not resolve to a live session.
var ErrNotFound = errors.New("session not found")

// Session binds an opaque token to a role and identity.
type Session struct {
	Token     string    `json:"token"`
	Role      string    `json:"role"`
	SubjectID uuid.UUID `json:"subject_id"`
	AdminRole string    `json:"admin_role,omitempty"` // "admin" or "moderator", set for admin sessions
	CreatedAt time.Time `json:"created_at"`
}

// Store resolves opaque tokens to sessions.
type Store interface {
	// Create persists the session, assigning a fresh token when none is set.
	Create(ctx context.Context, s *Session) error
	// Get resolves a token; ErrNotFound when absent or expired.
	Get(ctx context.Context, token string) (*Session, error)
	// Destroy removes the session. Destroying an unknown token is not an error.
	Destroy(ctx context.Context, token string) error
}

// MemoryStore is a mutex-guarded in-process Store. Expired entries are
// dropped on Get and swept on Create, so abandoned sessions do not
// accumulate between logins.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]memoryEntry
	ttl      time.Duration
	now      func() time.Time
}

type memoryEntry struct {
	session   Session
	expiresAt time.Time
}

// NewMemoryStore creates a MemoryStore whose sessions expire after ttl.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]memoryEntry),
		ttl:      ttl,
		now:      time.Now,
	}
}

func (m *MemoryStore) Create(_ context.Context, s *Session) error {
	if s.Token == "" {
		s.Token = uuid.New().String()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = m.now().UTC()
	}

	m.mu.Lock()
	now := m.now()
	for token, entry := range m.sessions {
		if now.After(entry.expiresAt) {
			delete(m.sessions, token)
		}
	}
	m.sessions[s.Token] = memoryEntry{session: *s, expiresAt: now.Add(m.ttl)}
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Get(_ context.Context, token string) (*Session, error) {
	m.mu.RLock()
	entry, ok := m.sessions[token]
	m.mu.RUnlock()

	if !ok {
		return nil, ErrNotFound
	}
	if m.now().After(entry.expiresAt) {
		m.mu.Lock()
		delete(m.sessions, token)
		m.mu.Unlock()
		return nil, ErrNotFound
	}

	s := entry.session
	return &s, nil
}

func (m *MemoryStore) Destroy(_ context.Context, token string) error {
	m.mu.Lock()
	delete(m.sessions, token)
	m.mu.Unlock()
	return nil
}
