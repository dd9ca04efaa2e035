// Package session tracks report sessions. Each session owns its own
// response cache, so reports rendered for one client never see payloads
// fetched for another.
package session

import (
	"slices"
	"sync"
	"time"

	"github.com/de-tools/report-atlas/pkg/store/cache"
	"github.com/google/uuid"
)

type Session struct {
	ID        string
	CreatedAt time.Time
	Cache     cache.Cache
}

type Manager interface {
	// Get returns the session with id, creating a new one when id is empty
	// or unknown. created reports whether a new session was started.
	Get(id string) (s *Session, created bool)
	Delete(id string)
	Len() int
}

// DefaultMaxSessions bounds the manager when no limit is configured.
const DefaultMaxSessions = 1000

type manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
	// order holds session IDs oldest first.
	order []string
	limit int
	now   func() time.Time
}

// NewManager keeps at most limit sessions. Starting a session beyond that
// evicts the oldest one together with its cache. A limit of zero or less
// uses DefaultMaxSessions.
func NewManager(limit int) Manager {
	if limit <= 0 {
		limit = DefaultMaxSessions
	}
	return &manager{
		sessions: make(map[string]*Session),
		limit:    limit,
		now:      time.Now,
	}
}

func (m *manager) Get(id string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sessions[id]; ok {
		return s, false
	}

	s := &Session{
		ID:        uuid.NewString(),
		CreatedAt: m.now(),
		Cache:     cache.NewMemoryCache(),
	}
	for len(m.order) >= m.limit {
		delete(m.sessions, m.order[0])
		m.order = m.order[1:]
	}
	m.sessions[s.ID] = s
	m.order = append(m.order, s.ID)
	return s, true
}

func (m *manager) Delete(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[id]; !ok {
		return
	}
	delete(m.sessions, id)
	if i := slices.Index(m.order, id); i >= 0 {
		m.order = slices.Delete(m.order, i, i+1)
	}
}

func (m *manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.sessions)
}
