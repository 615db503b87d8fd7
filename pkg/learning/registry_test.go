package learning

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/patlanio/whispeer/pkg/emitter"
)

// testConfig returns timings short enough for the sweep loop to act
// within a test run.
func testConfig() Config {
	return Config{
		SessionTTL:            400 * time.Millisecond,
		LearnBudget:           200 * time.Millisecond,
		SimulatedCaptureDelay: 40 * time.Millisecond,
		SweepInterval:         10 * time.Millisecond,
		TerminalRetention:     time.Minute,
	}
}

type fakeHandle struct {
	outcomes   []emitter.CaptureOutcome
	checkCalls atomic.Int32
	enterErr   error
	rfErr      error
	rfFreq     float64
	closed     atomic.Bool
}

func (h *fakeHandle) EnterLearning(ctx context.Context) error { return h.enterErr }

func (h *fakeHandle) FindRFPacket(ctx context.Context, frequency float64) error {
	h.rfFreq = frequency
	return h.rfErr
}

func (h *fakeHandle) CheckData(ctx context.Context) emitter.CaptureOutcome {
	n := int(h.checkCalls.Add(1)) - 1
	if n >= len(h.outcomes) {
		return emitter.CaptureOutcome{Result: emitter.CaptureEmpty}
	}
	return h.outcomes[n]
}

func (h *fakeHandle) Close() { h.closed.Store(true) }

type fakeConnector struct {
	handle   *fakeHandle
	err      error
	connects atomic.Int32
}

func (c *fakeConnector) Connect(ctx context.Context, addr string) (emitter.Handle, error) {
	c.connects.Add(1)
	if c.err != nil {
		return nil, c.err
	}
	return c.handle, nil
}

func waitForStatus(t *testing.T, r *Registry, id string, want Status, timeout time.Duration) Snapshot {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for {
		snap, err := r.Poll(context.Background(), id)
		if err != nil {
			t.Fatalf("poll failed: %v", err)
		}
		if snap.Status == want {
			return snap
		}
		if time.Now().After(deadline) {
			t.Fatalf("session never reached %s, stuck at %s", want, snap.Status)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestCreateBLEStartsReady(t *testing.T) {
	conn := &fakeConnector{handle: &fakeHandle{}}
	r := NewRegistry(conn, testConfig())
	defer r.Close()

	snap := r.Create(context.Background(), emitter.KindBLE, "hci0", 0)
	if snap.Status != StatusReady {
		t.Fatalf("expected ready, got %s", snap.Status)
	}
	if snap.ID == "" {
		t.Fatal("expected a session id")
	}
	if n := conn.connects.Load(); n != 0 {
		t.Fatalf("ble session must not invoke the connector, got %d connects", n)
	}
}

func TestBLESessionCompletesWithSimulatedPayload(t *testing.T) {
	r := NewRegistry(nil, testConfig())
	defer r.Close()

	snap := r.Create(context.Background(), emitter.KindBLE, "hci0", 0)

	first, err := r.Poll(context.Background(), snap.ID)
	if err != nil {
		t.Fatal(err)
	}
	if first.Status != StatusLearning {
		t.Fatalf("first poll should begin learning, got %s", first.Status)
	}

	done := waitForStatus(t, r, snap.ID, StatusCompleted, 300*time.Millisecond)
	if len(done.Payload) != 24 {
		t.Fatalf("expected a 24-byte simulated payload, got %d bytes", len(done.Payload))
	}
	if done.ErrorDetail != "" {
		t.Fatalf("completed session must not carry an error detail: %q", done.ErrorDetail)
	}
}

func TestIRSessionConnectsAndEntersLearning(t *testing.T) {
	h := &fakeHandle{}
	conn := &fakeConnector{handle: h}
	r := NewRegistry(conn, testConfig())
	defer r.Close()

	snap := r.Create(context.Background(), emitter.KindIR, "10.0.0.5", 0)
	if snap.Status != StatusReady {
		t.Fatalf("expected ready, got %s (%s)", snap.Status, snap.ErrorDetail)
	}
	if n := conn.connects.Load(); n != 1 {
		t.Fatalf("expected one connect, got %d", n)
	}
}

func TestRFSessionUsesDefaultFrequency(t *testing.T) {
	h := &fakeHandle{}
	r := NewRegistry(&fakeConnector{handle: h}, testConfig())
	defer r.Close()

	snap := r.Create(context.Background(), emitter.KindRF, "10.0.0.5", 0)
	if snap.Status != StatusReady {
		t.Fatalf("expected ready, got %s", snap.Status)
	}
	if h.rfFreq != emitter.DefaultRFFrequency {
		t.Fatalf("expected default frequency %v, got %v", emitter.DefaultRFFrequency, h.rfFreq)
	}
	if snap.Frequency != emitter.DefaultRFFrequency {
		t.Fatalf("snapshot frequency = %v", snap.Frequency)
	}
}

func TestConnectorFailureYieldsErrorSession(t *testing.T) {
	conn := &fakeConnector{err: errors.New("auth refused")}
	r := NewRegistry(conn, testConfig())
	defer r.Close()

	snap := r.Create(context.Background(), emitter.KindRF, "10.0.0.5", 433.92)
	if snap.Status != StatusError {
		t.Fatalf("expected error, got %s", snap.Status)
	}
	if !strings.Contains(snap.ErrorDetail, "Failed to connect") {
		t.Fatalf("unexpected error detail: %q", snap.ErrorDetail)
	}

	// A later poll returns the same detail without reconnecting.
	again, err := r.Poll(context.Background(), snap.ID)
	if err != nil {
		t.Fatal(err)
	}
	if again.Status != StatusError || again.ErrorDetail != snap.ErrorDetail {
		t.Fatalf("poll changed an error session: %s %q", again.Status, again.ErrorDetail)
	}
	if n := conn.connects.Load(); n != 1 {
		t.Fatalf("poll must not reconnect, got %d connects", n)
	}
}

func TestUnsupportedKindYieldsErrorSession(t *testing.T) {
	r := NewRegistry(nil, testConfig())
	defer r.Close()

	snap := r.Create(context.Background(), emitter.Kind("zigbee"), "x", 0)
	if snap.Status != StatusError {
		t.Fatalf("expected error, got %s", snap.Status)
	}
	if snap.ErrorDetail == "" {
		t.Fatal("expected an error detail")
	}
}

func TestPollUnknownSession(t *testing.T) {
	r := NewRegistry(nil, testConfig())
	defer r.Close()

	if _, err := r.Poll(context.Background(), "no-such-session"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestCaptureCompletesSession(t *testing.T) {
	h := &fakeHandle{outcomes: []emitter.CaptureOutcome{
		{Result: emitter.CaptureEmpty},
		{Result: emitter.CapturePayload, Payload: []byte{0x26, 0x00, 0x50, 0x00}},
	}}
	r := NewRegistry(&fakeConnector{handle: h}, testConfig())
	defer r.Close()

	snap := r.Create(context.Background(), emitter.KindIR, "10.0.0.5", 0)

	first, _ := r.Poll(context.Background(), snap.ID)
	if first.Status != StatusLearning {
		t.Fatalf("expected learning after first poll, got %s", first.Status)
	}

	second, _ := r.Poll(context.Background(), snap.ID)
	if second.Status != StatusCompleted {
		t.Fatalf("expected completed after capture, got %s", second.Status)
	}
	if len(second.Payload) == 0 {
		t.Fatal("completed session must carry the captured payload")
	}
}

func TestTransientFaultKeepsLearning(t *testing.T) {
	h := &fakeHandle{outcomes: []emitter.CaptureOutcome{
		{Result: emitter.CaptureEmpty},
		{Result: emitter.CaptureTransient, Err: errors.New("the device storage is full")},
		{Result: emitter.CaptureFatal, Err: errors.New("read failed")},
	}}
	r := NewRegistry(&fakeConnector{handle: h}, testConfig())
	defer r.Close()

	snap := r.Create(context.Background(), emitter.KindIR, "10.0.0.5", 0)
	r.Poll(context.Background(), snap.ID)

	for i := 0; i < 2; i++ {
		got, _ := r.Poll(context.Background(), snap.ID)
		if got.Status != StatusLearning {
			t.Fatalf("detector fault must not leave learning, got %s", got.Status)
		}
		if got.ErrorDetail != "" {
			t.Fatalf("detector fault must not set error detail: %q", got.ErrorDetail)
		}
	}
}

func TestLearnBudgetTimesOut(t *testing.T) {
	cfg := testConfig()
	cfg.LearnBudget = 50 * time.Millisecond
	h := &fakeHandle{}
	r := NewRegistry(&fakeConnector{handle: h}, cfg)
	defer r.Close()

	snap := r.Create(context.Background(), emitter.KindIR, "10.0.0.5", 0)
	r.Poll(context.Background(), snap.ID)

	waitForStatus(t, r, snap.ID, StatusTimeout, 300*time.Millisecond)
}

func TestSessionAgeCeilingTimesOut(t *testing.T) {
	cfg := testConfig()
	cfg.SessionTTL = 30 * time.Millisecond
	cfg.SweepInterval = time.Hour // only the poll path enforces it
	r := NewRegistry(nil, cfg)
	defer r.Close()

	snap := r.Create(context.Background(), emitter.KindBLE, "hci0", 0)
	time.Sleep(50 * time.Millisecond)

	got, err := r.Poll(context.Background(), snap.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != StatusTimeout {
		t.Fatalf("expected timeout past the age ceiling, got %s", got.Status)
	}
}

func TestCompletedSessionSurvivesExpiry(t *testing.T) {
	cfg := testConfig()
	cfg.SessionTTL = 60 * time.Millisecond
	h := &fakeHandle{outcomes: []emitter.CaptureOutcome{
		{Result: emitter.CapturePayload, Payload: []byte{0x01}},
	}}
	r := NewRegistry(&fakeConnector{handle: h}, cfg)
	defer r.Close()

	snap := r.Create(context.Background(), emitter.KindIR, "10.0.0.5", 0)
	r.Poll(context.Background(), snap.ID)
	done, _ := r.Poll(context.Background(), snap.ID)
	if done.Status != StatusCompleted {
		t.Fatalf("expected completed, got %s", done.Status)
	}

	time.Sleep(100 * time.Millisecond)
	later, _ := r.Poll(context.Background(), snap.ID)
	if later.Status != StatusCompleted {
		t.Fatalf("expiry must not touch a completed session, got %s", later.Status)
	}
}

func TestPollIdempotentOnTerminalStates(t *testing.T) {
	conn := &fakeConnector{err: errors.New("unreachable")}
	r := NewRegistry(conn, testConfig())
	defer r.Close()

	snap := r.Create(context.Background(), emitter.KindIR, "10.0.0.5", 0)
	for i := 0; i < 3; i++ {
		got, err := r.Poll(context.Background(), snap.ID)
		if err != nil {
			t.Fatal(err)
		}
		if got.Status != StatusError {
			t.Fatalf("poll %d changed terminal status to %s", i, got.Status)
		}
	}
}

func TestTerminalSessionEvicted(t *testing.T) {
	cfg := testConfig()
	cfg.TerminalRetention = 20 * time.Millisecond
	conn := &fakeConnector{err: errors.New("unreachable")}
	r := NewRegistry(conn, cfg)
	defer r.Close()

	snap := r.Create(context.Background(), emitter.KindIR, "10.0.0.5", 0)

	deadline := time.Now().Add(time.Second)
	for {
		if _, err := r.Poll(context.Background(), snap.ID); errors.Is(err, ErrSessionNotFound) {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("terminal session was never evicted")
		}
		time.Sleep(10 * time.Millisecond)
	}
	if r.Len() != 0 {
		t.Fatalf("registry still holds %d sessions", r.Len())
	}
}
