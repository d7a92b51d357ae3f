// Package presence tracks which users currently hold a live realtime
// session and fans pushes out to every session a user has open.
package presence

import (
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// sessionBuffer is the per-session outbound queue depth. A session that
// cannot drain this many payloads is considered stalled.
const sessionBuffer = 32

// evictAfterFullPushes is how many consecutive full-buffer pushes a
// session survives before the registry cancels it.
const evictAfterFullPushes = 3

// Payload is a single outbound frame, already shaped for the client.
type Payload struct {
	Event string         `json:"event"`
	Data  map[string]any `json:"data"`
}

// Session is one live connection for a user. OutChan is drained by the
// connection's write pump; Cancel tears the connection down.
type Session struct {
	UserID  uuid.UUID
	OutChan chan Payload
	Cancel  func()

	// consecutive full-buffer pushes, guarded by the registry mutex
	fullPushes int
}

// NewSession builds a session with the standard buffer size.
func NewSession(userID uuid.UUID, cancel func()) *Session {
	return &Session{
		UserID:  userID,
		OutChan: make(chan Payload, sessionBuffer),
		Cancel:  cancel,
	}
}

// Registry maps users to their open sessions. All methods are safe for
// concurrent use. The registry never blocks on a slow session: pushes
// into a full buffer are dropped, and a session that stays full gets
// evicted.
type Registry struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]map[*Session]struct{}
	logger   *logrus.Logger

	onDrop  func()
	onEvict func()
}

func NewRegistry(logger *logrus.Logger) *Registry {
	if logger == nil {
		logger = logrus.New()
	}
	return &Registry{
		sessions: make(map[uuid.UUID]map[*Session]struct{}),
		logger:   logger,
	}
}

// SetHooks wires optional counters for dropped payloads and evicted
// sessions. Either may be nil.
func (r *Registry) SetHooks(onDrop, onEvict func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onDrop = onDrop
	r.onEvict = onEvict
}

// Register adds a session for its user.
func (r *Registry) Register(s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	set, ok := r.sessions[s.UserID]
	if !ok {
		set = make(map[*Session]struct{})
		r.sessions[s.UserID] = set
	}
	set[s] = struct{}{}
}

// Unregister removes a session. Safe to call more than once.
func (r *Registry) Unregister(s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.removeLocked(s)
}

func (r *Registry) removeLocked(s *Session) {
	set, ok := r.sessions[s.UserID]
	if !ok {
		return
	}
	if _, ok := set[s]; !ok {
		return
	}
	delete(set, s)
	if len(set) == 0 {
		delete(r.sessions, s.UserID)
	}
}

// Online reports whether the user has at least one live session.
func (r *Registry) Online(userID uuid.UUID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions[userID]) > 0
}

// SessionsFor returns a snapshot of the user's live sessions.
func (r *Registry) SessionsFor(userID uuid.UUID) []*Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*Session, 0, len(r.sessions[userID]))
	for s := range r.sessions[userID] {
		out = append(out, s)
	}
	return out
}

// SessionCount returns the number of live sessions for a user.
func (r *Registry) SessionCount(userID uuid.UUID) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions[userID])
}

// Push delivers a payload to every session the user has open, without
// ever blocking. Returns the number of sessions that accepted the
// payload. Sessions whose buffer stays full across consecutive pushes
// are cancelled and dropped from the registry.
func (r *Registry) Push(userID uuid.UUID, p Payload) int {
	r.mu.Lock()

	var delivered int
	var evicted []*Session
	for s := range r.sessions[userID] {
		select {
		case s.OutChan <- p:
			s.fullPushes = 0
			delivered++
		default:
			s.fullPushes++
			if r.onDrop != nil {
				r.onDrop()
			}
			if s.fullPushes >= evictAfterFullPushes {
				evicted = append(evicted, s)
			}
		}
	}
	for _, s := range evicted {
		r.removeLocked(s)
		if r.onEvict != nil {
			r.onEvict()
		}
	}
	r.mu.Unlock()

	// Cancel outside the lock; cancel funcs may call back into Unregister.
	for _, s := range evicted {
		r.logger.WithFields(logrus.Fields{
			"user_id": s.UserID,
		}).Warn("evicting stalled session")
		if s.Cancel != nil {
			s.Cancel()
		}
	}
	return delivered
}
