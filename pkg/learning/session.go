// Package learning owns command-learning sessions: short-lived capture
// attempts against a transceiver, identified by opaque ids and polled
// by the client until they reach a terminal status.
package learning

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/patlanio/whispeer/pkg/emitter"
)

// Status is a learning session's lifecycle state.
type Status string

const (
	StatusPreparing Status = "preparing"
	StatusReady     Status = "ready"
	StatusLearning  Status = "learning"
	StatusCompleted Status = "completed"
	StatusError     Status = "error"
	StatusTimeout   Status = "timeout"
)

// Terminal reports whether no further transition can occur.
func (s Status) Terminal() bool {
	switch s {
	case StatusCompleted, StatusError, StatusTimeout:
		return true
	}
	return false
}

// Session is one in-progress capture attempt. Status only ever moves
// forward: preparing -> ready -> learning -> {completed|error|timeout}.
// Every mutation re-checks the current status under the lock, so the
// sweep loop and concurrent pollers cannot move a session backwards.
type Session struct {
	id        string
	kind      emitter.Kind
	target    string
	frequency float64

	mu            sync.Mutex
	status        Status
	handle        emitter.Handle
	payload       []byte
	errorDetail   string
	createdAt     time.Time
	updatedAt     time.Time
	learningSince time.Time
}

// Snapshot is a point-in-time copy of a session's observable state.
type Snapshot struct {
	ID          string
	Kind        emitter.Kind
	Target      string
	Frequency   float64
	Status      Status
	Payload     []byte
	ErrorDetail string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func newSession(kind emitter.Kind, target string, frequency float64) *Session {
	now := time.Now()
	return &Session{
		id:        uuid.NewString(),
		kind:      kind,
		target:    target,
		frequency: frequency,
		status:    StatusPreparing,
		createdAt: now,
		updatedAt: now,
	}
}

// ID returns the session's opaque identifier.
func (s *Session) ID() string { return s.id }

// Kind returns the session's device kind.
func (s *Session) Kind() emitter.Kind { return s.kind }

// Snapshot returns a copy of the session's current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		ID:          s.id,
		Kind:        s.kind,
		Target:      s.target,
		Frequency:   s.frequency,
		Status:      s.status,
		Payload:     append([]byte(nil), s.payload...),
		ErrorDetail: s.errorDetail,
		CreatedAt:   s.createdAt,
		UpdatedAt:   s.updatedAt,
	}
}

// Status returns the session's current status.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// markReady records the connected handle and moves preparing -> ready.
func (s *Session) markReady(h emitter.Handle) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status != StatusPreparing {
		return false
	}
	s.handle = h
	s.setStatus(StatusReady)
	return true
}

// fail moves any non-terminal status to error with the given detail.
func (s *Session) fail(detail string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status.Terminal() {
		return false
	}
	s.errorDetail = detail
	s.setStatus(StatusError)
	return true
}

// beginLearning performs the one-time ready -> learning transition.
// Returns true only for the poll that actually made the move.
func (s *Session) beginLearning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status != StatusReady {
		return false
	}
	s.learningSince = time.Now()
	s.setStatus(StatusLearning)
	return true
}

// complete stores the captured payload and moves learning -> completed.
func (s *Session) complete(payload []byte) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status != StatusLearning || len(payload) == 0 {
		return false
	}
	s.payload = payload
	s.setStatus(StatusCompleted)
	return true
}

// expire forces a non-terminal session to timeout.
func (s *Session) expire() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status.Terminal() {
		return false
	}
	s.setStatus(StatusTimeout)
	return true
}

// expireIfStale forces timeout when the session's absolute age exceeds
// ttl. Completed and error sessions keep their status.
func (s *Session) expireIfStale(ttl time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status.Terminal() {
		return false
	}
	if time.Since(s.createdAt) <= ttl {
		return false
	}
	s.setStatus(StatusTimeout)
	return true
}

// learningElapsed returns how long the session has been in learning,
// or zero if it never entered it.
func (s *Session) learningElapsed() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.learningSince.IsZero() {
		return 0
	}
	return time.Since(s.learningSince)
}

// idleSince returns the time of the last status change.
func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updatedAt
}

// checkHandle returns the handle for a capture check, or nil if the
// session has none (ble) or is no longer learning.
func (s *Session) checkHandle() emitter.Handle {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status != StatusLearning {
		return nil
	}
	return s.handle
}

// closeHandle releases the device connection, if any.
func (s *Session) closeHandle() {
	s.mu.Lock()
	h := s.handle
	s.handle = nil
	s.mu.Unlock()
	if h != nil {
		h.Close()
	}
}

// setStatus must be called with s.mu held.
func (s *Session) setStatus(st Status) {
	s.status = st
	s.updatedAt = time.Now()
}
