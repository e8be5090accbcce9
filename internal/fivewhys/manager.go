// Package fivewhys implements the bounded root-cause interrogation: up
// to five sequential "why" answers against one problem statement.
package fivewhys

import (
	"sync"
	"time"
)

// MaxWhys is the answer count at which a session completes.
const MaxWhys = 5

// Status is the lifecycle state of a five-whys session.
type Status string

const (
	StatusActive   Status = "active"
	StatusComplete Status = "complete"
)

// Session is one user's five-whys interrogation. Once Status is
// complete the chain is immutable; a new Start is required to begin
// again.
type Session struct {
	UserID    string    `json:"user_id"`
	Problem   string    `json:"problem"`
	Whys      []string  `json:"whys"`
	Step      int       `json:"step"`
	Status    Status    `json:"status"`
	StartedAt time.Time `json:"started_at"`
}

// Complete reports whether the session's chain is final.
func (s *Session) Complete() bool { return s.Status == StatusComplete }

// Manager holds at most one five-whys session per user id. It is safe
// for concurrent use and independent of the dialog manager: a user may
// run both at once.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewManager creates an empty five-whys manager.
func NewManager() *Manager {
	return &Manager{sessions: make(map[string]*Session)}
}

// Start creates a fresh session for userID, discarding any prior one.
func (m *Manager) Start(userID, problem string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess := &Session{
		UserID:    userID,
		Problem:   problem,
		Whys:      []string{},
		Step:      1,
		Status:    StatusActive,
		StartedAt: time.Now().UTC(),
	}
	m.sessions[userID] = sess
	return snapshot(sess)
}

// Answer appends one causal answer to the user's session and advances
// the step. Returns nil if no session exists; the caller must Start
// first. Answers beyond the fifth are ignored: a complete session is
// returned unchanged.
func (m *Manager) Answer(userID, answer string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, ok := m.sessions[userID]
	if !ok {
		return nil
	}
	if sess.Status == StatusComplete {
		return snapshot(sess)
	}

	// Answers are accepted verbatim; semantic quality is the caller's
	// responsibility.
	sess.Whys = append(sess.Whys, answer)
	sess.Step = len(sess.Whys)
	if len(sess.Whys) >= MaxWhys {
		sess.Status = StatusComplete
	}
	return snapshot(sess)
}

// ForceComplete marks the user's session complete regardless of how
// many answers it holds. Returns the session, or nil if none exists.
func (m *Manager) ForceComplete(userID string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, ok := m.sessions[userID]
	if !ok {
		return nil
	}
	sess.Status = StatusComplete
	return snapshot(sess)
}

// IsComplete reports whether the user's session has a final chain. It
// never mutates session state.
func (m *Manager) IsComplete(userID string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	sess, ok := m.sessions[userID]
	return ok && sess.Status == StatusComplete
}

// Get returns a snapshot of the user's session, or nil if none exists.
func (m *Manager) Get(userID string) *Session {
	m.mu.RLock()
	defer m.mu.RUnlock()

	sess, ok := m.sessions[userID]
	if !ok {
		return nil
	}
	return snapshot(sess)
}

func snapshot(sess *Session) *Session {
	c := *sess
	c.Whys = append([]string(nil), sess.Whys...)
	return &c
}
