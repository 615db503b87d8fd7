package learning

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/patlanio/whispeer/pkg/emitter"
)

// ErrSessionNotFound indicates an unknown session id.
var ErrSessionNotFound = errors.New("learning session not found")

// Config carries the registry's timing knobs. The defaults match the
// protocol the panel expects; tests shrink them.
type Config struct {
	// SessionTTL is the absolute ceiling on a session's age, enforced
	// opportunistically on every poll and by the sweep loop.
	SessionTTL time.Duration

	// LearnBudget bounds how long a session may sit in learning before
	// it is forced to timeout.
	LearnBudget time.Duration

	// SimulatedCaptureDelay is how long a ble session stays in learning
	// before the sweep loop produces its placeholder capture.
	SimulatedCaptureDelay time.Duration

	// SweepInterval is the period of the maintenance pass.
	SweepInterval time.Duration

	// TerminalRetention is how long a terminal session stays pollable
	// before the sweep loop evicts it.
	TerminalRetention time.Duration
}

// DefaultConfig returns the production timing configuration.
func DefaultConfig() Config {
	return Config{
		SessionTTL:            30 * time.Second,
		LearnBudget:           25 * time.Second,
		SimulatedCaptureDelay: 2 * time.Second,
		SweepInterval:         time.Second,
		TerminalRetention:     5 * time.Minute,
	}
}

// Registry owns all in-flight learning sessions. It is safe for
// concurrent use by request handlers and its own sweep loop.
type Registry struct {
	cfg       Config
	connector emitter.Connector

	mu       sync.RWMutex
	sessions map[string]*Session

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

// NewRegistry creates a registry and starts its sweep loop. connector
// is used for ir/rf sessions and may be nil when no Broadlink backend
// is available; ble sessions never touch it.
func NewRegistry(connector emitter.Connector, cfg Config) *Registry {
	r := &Registry{
		cfg:       cfg,
		connector: connector,
		sessions:  make(map[string]*Session),
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}
	go r.sweepLoop()
	return r
}

// Close stops the sweep loop and releases every session's handle.
func (r *Registry) Close() {
	r.stopOnce.Do(func() { close(r.stop) })
	<-r.done

	r.mu.Lock()
	sessions := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		sessions = append(sessions, s)
	}
	r.sessions = make(map[string]*Session)
	r.mu.Unlock()

	for _, s := range sessions {
		s.closeHandle()
	}
}

// Create allocates a new session and, for ir/rf, synchronously connects
// to the bridge and enters learning mode. The returned snapshot carries
// the new session's id and initial status; connection failures surface
// as a session in error state, not as a Go error.
func (r *Registry) Create(ctx context.Context, kind emitter.Kind, target string, frequency float64) Snapshot {
	if kind == emitter.KindRF && frequency <= 0 {
		frequency = emitter.DefaultRFFrequency
	}

	s := newSession(kind, target, frequency)
	r.mu.Lock()
	r.sessions[s.id] = s
	r.mu.Unlock()

	switch kind {
	case emitter.KindBLE:
		// BLE interfaces require no handshake.
		s.markReady(nil)

	case emitter.KindIR, emitter.KindRF:
		r.prepare(ctx, s)

	default:
		s.fail(fmt.Sprintf("Unsupported device type: %s", kind))
	}

	snap := s.Snapshot()
	log.Info().
		Str("session_id", snap.ID).
		Str("device_type", string(kind)).
		Str("target", target).
		Str("status", string(snap.Status)).
		Msg("Learning session created")
	return snap
}

// prepare connects to the bridge and puts it into listening mode.
func (r *Registry) prepare(ctx context.Context, s *Session) {
	if r.connector == nil {
		s.fail(fmt.Sprintf("Failed to connect to device at %s: no Broadlink backend available", s.target))
		return
	}

	h, err := r.connector.Connect(ctx, s.target)
	if err != nil {
		s.fail(fmt.Sprintf("Failed to connect to device at %s: %v", s.target, err))
		return
	}

	if s.kind == emitter.KindRF {
		err = h.FindRFPacket(ctx, s.frequency)
	} else {
		err = h.EnterLearning(ctx)
	}
	if err != nil {
		h.Close()
		s.fail(fmt.Sprintf("Failed to enter learning mode on %s: %v", s.target, err))
		return
	}

	s.markReady(h)
}

// Poll returns the session's current status, evaluating expiry first,
// performing the one-time ready -> learning transition, and running a
// single non-blocking capture check while learning. It is idempotent
// apart from that one-time transition.
func (r *Registry) Poll(ctx context.Context, id string) (Snapshot, error) {
	r.mu.RLock()
	s, ok := r.sessions[id]
	r.mu.RUnlock()
	if !ok {
		return Snapshot{}, ErrSessionNotFound
	}

	if s.expireIfStale(r.cfg.SessionTTL) {
		log.Warn().Str("session_id", id).Msg("Learning session expired")
		return s.Snapshot(), nil
	}

	if s.beginLearning() {
		log.Info().Str("session_id", id).Msg("Learning started")
	}

	// BLE capture is driven entirely by the sweep loop.
	if s.kind != emitter.KindBLE {
		r.checkCapture(ctx, s)
	}

	return s.Snapshot(), nil
}

// checkCapture runs one capture check against the session's handle.
// Detector faults are logged and swallowed; polling continues.
func (r *Registry) checkCapture(ctx context.Context, s *Session) {
	h := s.checkHandle()
	if h == nil {
		return
	}

	out := h.CheckData(ctx)
	switch out.Result {
	case emitter.CapturePayload:
		if s.complete(out.Payload) {
			log.Info().Str("session_id", s.id).Int("bytes", len(out.Payload)).Msg("Command captured")
		}
	case emitter.CaptureTransient:
		log.Warn().Str("session_id", s.id).Err(out.Err).Msg("Device storage full, continuing to poll")
	case emitter.CaptureFatal:
		log.Warn().Str("session_id", s.id).Err(out.Err).Msg("Capture check failed, continuing to poll")
	}
}

// SweepExpired runs one maintenance pass: it enforces the learning
// budget and absolute session TTL, performs pending ble captures, and
// evicts terminal sessions past the retention window.
func (r *Registry) SweepExpired() {
	r.mu.RLock()
	sessions := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		sessions = append(sessions, s)
	}
	r.mu.RUnlock()

	var evict []*Session
	for _, s := range sessions {
		r.sweepSession(s)
		if st := s.Status(); st.Terminal() && time.Since(s.idleSince()) > r.cfg.TerminalRetention {
			evict = append(evict, s)
		}
	}

	if len(evict) == 0 {
		return
	}
	r.mu.Lock()
	for _, s := range evict {
		delete(r.sessions, s.id)
	}
	r.mu.Unlock()
	for _, s := range evict {
		s.closeHandle()
		log.Debug().Str("session_id", s.id).Msg("Evicted terminal learning session")
	}
}

// sweepSession applies the timers to one session. Any panic is
// converted into an error transition so a session is never left stuck
// in learning.
func (r *Registry) sweepSession(s *Session) {
	defer func() {
		if rec := recover(); rec != nil {
			s.fail(fmt.Sprintf("learning watcher failed: %v", rec))
			log.Error().Str("session_id", s.id).Interface("panic", rec).Msg("Sweep pass failed for session")
		}
	}()

	if s.expireIfStale(r.cfg.SessionTTL) {
		log.Warn().Str("session_id", s.id).Msg("Learning session expired")
		return
	}

	if s.Status() != StatusLearning {
		return
	}

	elapsed := s.learningElapsed()

	if s.kind == emitter.KindBLE && elapsed >= r.cfg.SimulatedCaptureDelay {
		// Placeholder capture source: no real hardware interaction on
		// the ble path yet.
		if s.complete(simulatedPayload()) {
			log.Info().Str("session_id", s.id).Msg("Simulated BLE capture completed")
		}
		return
	}

	if elapsed >= r.cfg.LearnBudget {
		if s.expire() {
			log.Warn().Str("session_id", s.id).Msg("Learning budget exhausted")
		}
	}
}

func (r *Registry) sweepLoop() {
	defer close(r.done)
	ticker := time.NewTicker(r.cfg.SweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-r.stop:
			return
		case <-ticker.C:
			r.SweepExpired()
		}
	}
}

// Len returns the number of registered sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// simulatedPayload produces a 24-byte pseudo-random capture, rendered
// by the API as 48 hex characters.
func simulatedPayload() []byte {
	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		panic(err)
	}
	return buf
}
