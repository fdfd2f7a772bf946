// Package registry tracks which users currently hold a live connection.
// It is the single source of truth for online/idle/offline state and for
// resolving a user id to a deliverable connection.
package registry

import (
	"sync"
	"time"
)

// Conn is the write side of a live connection. Enqueue must not block: it
// reports false when the frame was dropped (closed peer or full buffer).
// Delivery is best effort; a missed frame is healed by the next presence
// sweep or a full conversation reload.
type Conn interface {
	Enqueue(event interface{}) bool
}

// State is a user's derived presence classification.
type State struct {
	UserID   uint
	Online   bool
	Idle     bool
	LastSeen time.Time
}

// Registry is the in-memory session table. One session per user id: a new
// Register for the same id replaces the old entry, it never coexists.
type Registry interface {
	// Register installs or replaces the session for userID and resets its
	// activity clock. A replaced connection is orphaned, not closed; it
	// terminates on its own read error.
	Register(userID uint, conn Conn)
	// Touch refreshes last activity. No-op without a session.
	Touch(userID uint)
	// Remove deletes the session only when the stored connection is still
	// conn, so a stale disconnect handler cannot evict a newer session.
	// It reports whether removal happened.
	Remove(userID uint, conn Conn) bool
	IsOnline(userID uint) bool
	IsIdle(userID uint) bool
	// Snapshot returns the derived state of every registered user.
	Snapshot() []State
	// SendTo delivers event to userID's live connection, if any.
	SendTo(userID uint, event interface{}) bool
	// BroadcastAll delivers event to every session except excludeUserID
	// (0 excludes nobody).
	BroadcastAll(event interface{}, excludeUserID uint)
	Count() int
}

type session struct {
	conn         Conn
	lastActivity time.Time
}

// MemoryRegistry is the single-process Registry implementation.
type MemoryRegistry struct {
	mu            sync.RWMutex
	sessions      map[uint]*session
	idleThreshold time.Duration
	now           func() time.Time
}

// NewMemoryRegistry creates a registry with the given idle threshold.
func NewMemoryRegistry(idleThreshold time.Duration) *MemoryRegistry {
	return &MemoryRegistry{
		sessions:      make(map[uint]*session),
		idleThreshold: idleThreshold,
		now:           time.Now,
	}
}

// SetClock overrides the time source. Tests only.
func (r *MemoryRegistry) SetClock(now func() time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.now = now
}

func (r *MemoryRegistry) Register(userID uint, conn Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[userID] = &session{conn: conn, lastActivity: r.now()}
}

func (r *MemoryRegistry) Touch(userID uint) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[userID]; ok {
		s.lastActivity = r.now()
	}
}

func (r *MemoryRegistry) Remove(userID uint, conn Conn) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[userID]
	if !ok || s.conn != conn {
		return false
	}
	delete(r.sessions, userID)
	return true
}

func (r *MemoryRegistry) IsOnline(userID uint) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[userID]
	return ok && r.now().Sub(s.lastActivity) <= r.idleThreshold
}

func (r *MemoryRegistry) IsIdle(userID uint) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[userID]
	return ok && r.now().Sub(s.lastActivity) > r.idleThreshold
}

func (r *MemoryRegistry) Snapshot() []State {
	r.mu.RLock()
	defer r.mu.RUnlock()

	states := make([]State, 0, len(r.sessions))
	now := r.now()
	for userID, s := range r.sessions {
		idle := now.Sub(s.lastActivity) > r.idleThreshold
		states = append(states, State{
			UserID:   userID,
			Online:   !idle,
			Idle:     idle,
			LastSeen: s.lastActivity,
		})
	}
	return states
}

func (r *MemoryRegistry) SendTo(userID uint, event interface{}) bool {
	r.mu.RLock()
	s, ok := r.sessions[userID]
	r.mu.RUnlock()
	if !ok {
		return false
	}
	return s.conn.Enqueue(event)
}

func (r *MemoryRegistry) BroadcastAll(event interface{}, excludeUserID uint) {
	r.mu.RLock()
	conns := make([]Conn, 0, len(r.sessions))
	for userID, s := range r.sessions {
		if userID == excludeUserID {
			continue
		}
		conns = append(conns, s.conn)
	}
	r.mu.RUnlock()

	// Enqueue outside the lock; a stalled peer only loses its own frame.
	for _, c := range conns {
		c.Enqueue(event)
	}
}

func (r *MemoryRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
