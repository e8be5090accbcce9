package dialog

import (
	"sync"
	"time"
)

// Status is the lifecycle state of a dialog session.
type Status string

const (
	StatusCollecting Status = "collecting"
	StatusCompleted  Status = "completed"
	StatusAbandoned  Status = "abandoned"
)

// Turn records one exchange of a session's history.
type Turn struct {
	UserText string    `json:"user_text"`
	Reply    string    `json:"reply"`
	At       time.Time `json:"at"`
}

// Session is the per-user slot-filling conversation state. At most one
// session exists per user id. PendingSlot, when non-empty, names a
// required slot of ActiveIntent not yet present in FilledSlots.
type Session struct {
	UserID       string            `json:"user_id"`
	ActiveIntent string            `json:"active_intent"`
	FilledSlots  map[string]string `json:"filled_slots"`
	PendingSlot  string            `json:"pending_slot,omitempty"`
	History      []Turn            `json:"history,omitempty"`
	Status       Status            `json:"status"`
	StartedAt    time.Time         `json:"started_at"`
}

// entry pairs a session with its turn lock. The lock serializes all
// turns for one user id so concurrent messages cannot interleave slot
// updates; turns for different users proceed independently.
type entry struct {
	mu   sync.Mutex
	sess *Session
}

// SessionStore holds all active dialog sessions in memory, keyed by
// user id. It is safe for concurrent use.
type SessionStore struct {
	mu      sync.Mutex
	entries map[string]*entry
}

// NewSessionStore creates an empty session store.
func NewSessionStore() *SessionStore {
	return &SessionStore{entries: make(map[string]*entry)}
}

// WithUser runs fn while holding the turn lock for userID. fn receives
// the user's current session (nil if none) and returns the session to
// keep; returning nil drops the session.
func (st *SessionStore) WithUser(userID string, fn func(sess *Session) *Session) {
	st.mu.Lock()
	e, ok := st.entries[userID]
	if !ok {
		e = &entry{}
		st.entries[userID] = e
	}
	st.mu.Unlock()

	e.mu.Lock()
	defer e.mu.Unlock()
	e.sess = fn(e.sess)
}

// Get returns a snapshot of the user's session, or nil if none exists.
func (st *SessionStore) Get(userID string) *Session {
	var snapshot *Session
	st.WithUser(userID, func(sess *Session) *Session {
		if sess != nil {
			c := *sess
			c.FilledSlots = copyMap(sess.FilledSlots)
			c.History = append([]Turn(nil), sess.History...)
			snapshot = &c
		}
		return sess
	})
	return snapshot
}

// Reset drops the user's session, if any, and reports whether one existed.
func (st *SessionStore) Reset(userID string) bool {
	existed := false
	st.WithUser(userID, func(sess *Session) *Session {
		existed = sess != nil
		return nil
	})
	return existed
}

// ActiveCount returns the number of users with a live session.
func (st *SessionStore) ActiveCount() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	n := 0
	for _, e := range st.entries {
		if e.sess != nil {
			n++
		}
	}
	return n
}

func copyMap(m map[string]string) map[string]string {
	c := make(map[string]string, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}
