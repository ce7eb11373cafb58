package services

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// SessionManager keeps the live exam sessions of this process. Sessions are
// transient; abandoned ones are swept by the cron job.
type SessionManager struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*ExamSession
}

var Sessions = NewSessionManager()

func NewSessionManager() *SessionManager {
	return &SessionManager{sessions: make(map[uuid.UUID]*ExamSession)}
}

func (m *SessionManager) Put(s *ExamSession) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = s
}

func (m *SessionManager) Get(id uuid.UUID) (*ExamSession, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	return s, ok
}

func (m *SessionManager) Remove(id uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}

// SweepIdle drops sessions without activity for maxIdle and reports how many
// were removed.
func (m *SessionManager) SweepIdle(maxIdle time.Duration) int {
	cutoff := time.Now().Add(-maxIdle)

	m.mu.Lock()
	defer m.mu.Unlock()
	removed := 0
	for id, s := range m.sessions {
		if s.IdleSince().Before(cutoff) {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed
}
