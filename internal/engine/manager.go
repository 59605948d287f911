package engine

import (
	"sync"
	"time"

	"github.com/agendalivre/agenda/internal/observability/metrics"
)

// Manager tracks live sessions by ID. Sessions live for the process only.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	metrics  *metrics.RefreshMetrics
	now      func() time.Time
}

func NewManager(m *metrics.RefreshMetrics) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		metrics:  m,
		now:      time.Now,
	}
}

// Create registers a new session in its initial state.
func (m *Manager) Create() *Session {
	s := NewSession(m.now())
	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()
	m.metrics.SessionCreated()
	return s
}

// Get looks up a session by ID.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	return s, ok
}

// Count returns the number of live sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
