package workflow

import (
	"errors"
	"sync"
	"time"

	"github.com/aircompany/bookingflow/internal/domain"
)

var ErrSessionNotFound = errors.New("booking session not found")

// sessionSlot pairs a session with its own lock so operations on different
// sessions never contend. submitting serializes the reserve/charge pair.
type sessionSlot struct {
	mu         sync.Mutex
	session    domain.BookingSession
	submitting bool
}

// SessionManager owns every live booking session. Sessions are held in
// memory for the lifetime of one booking attempt and dropped on completion
// or abandonment.
type SessionManager struct {
	mu    sync.RWMutex
	slots map[string]*sessionSlot
}

func NewSessionManager() *SessionManager {
	return &SessionManager{slots: make(map[string]*sessionSlot)}
}

func (m *SessionManager) put(s domain.BookingSession) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slots[s.ID] = &sessionSlot{session: s}
}

func (m *SessionManager) slot(id string) (*sessionSlot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	slot, ok := m.slots[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return slot, nil
}

func (m *SessionManager) Delete(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.slots, id)
}

// PruneExpired drops abandoned sessions created before the cutoff. The held
// price offer goes stale within that window anyway, so age is the signal.
// Sessions with a payment attempt in flight are skipped. The map lock and a
// slot lock are never held together; callers hold them in the other order.
// Returns the number of sessions dropped.
func (m *SessionManager) PruneExpired(now time.Time, maxAge time.Duration) int {
	cutoff := now.Add(-maxAge)

	m.mu.RLock()
	candidates := make(map[string]*sessionSlot, len(m.slots))
	for id, slot := range m.slots {
		candidates[id] = slot
	}
	m.mu.RUnlock()

	dropped := 0
	for id, slot := range candidates {
		slot.mu.Lock()
		stale := !slot.submitting && slot.session.CreatedAt.Before(cutoff)
		slot.mu.Unlock()
		if !stale {
			continue
		}
		m.mu.Lock()
		if m.slots[id] == slot {
			delete(m.slots, id)
			dropped++
		}
		m.mu.Unlock()
	}
	return dropped
}

// Len reports the number of live sessions.
func (m *SessionManager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.slots)
}
