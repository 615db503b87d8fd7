package learning

import (
	"testing"
	"time"

	"github.com/patlanio/whispeer/pkg/emitter"
)

func TestStatusTerminal(t *testing.T) {
	terminal := []Status{StatusCompleted, StatusError, StatusTimeout}
	for _, st := range terminal {
		if !st.Terminal() {
			t.Errorf("%s should be terminal", st)
		}
	}
	live := []Status{StatusPreparing, StatusReady, StatusLearning}
	for _, st := range live {
		if st.Terminal() {
			t.Errorf("%s should not be terminal", st)
		}
	}
}

func TestTransitionsOnlyMoveForward(t *testing.T) {
	s := newSession(emitter.KindIR, "10.0.0.5", 0)

	if !s.markReady(nil) {
		t.Fatal("preparing -> ready should succeed")
	}
	if s.markReady(nil) {
		t.Fatal("ready -> ready must be rejected")
	}
	if !s.beginLearning() {
		t.Fatal("ready -> learning should succeed")
	}
	if s.beginLearning() {
		t.Fatal("learning -> learning must be rejected")
	}
	if !s.complete([]byte{0x01}) {
		t.Fatal("learning -> completed should succeed")
	}
	if s.expire() || s.fail("late") || s.beginLearning() {
		t.Fatal("completed is terminal, no further transition may succeed")
	}
	if s.Status() != StatusCompleted {
		t.Fatalf("status drifted to %s", s.Status())
	}
}

func TestCompleteRequiresPayload(t *testing.T) {
	s := newSession(emitter.KindIR, "10.0.0.5", 0)
	s.markReady(nil)
	s.beginLearning()

	if s.complete(nil) {
		t.Fatal("empty payload must not complete a session")
	}
	if s.Status() != StatusLearning {
		t.Fatalf("status changed to %s", s.Status())
	}
}

func TestFailSetsDetailOnce(t *testing.T) {
	s := newSession(emitter.KindRF, "10.0.0.5", 433.92)

	if !s.fail("first") {
		t.Fatal("preparing -> error should succeed")
	}
	if s.fail("second") {
		t.Fatal("error is terminal")
	}
	if got := s.Snapshot().ErrorDetail; got != "first" {
		t.Fatalf("error detail overwritten: %q", got)
	}
}

func TestExpireIfStaleSkipsTerminal(t *testing.T) {
	s := newSession(emitter.KindBLE, "hci0", 0)
	s.markReady(nil)
	s.beginLearning()
	s.complete([]byte{0xAA})

	if s.expireIfStale(0) {
		t.Fatal("a completed session must not expire")
	}

	fresh := newSession(emitter.KindBLE, "hci0", 0)
	if fresh.expireIfStale(time.Hour) {
		t.Fatal("a fresh session must not expire")
	}
	if !fresh.expireIfStale(-time.Second) {
		t.Fatal("an overdue session must expire")
	}
	if fresh.Status() != StatusTimeout {
		t.Fatalf("expected timeout, got %s", fresh.Status())
	}
}

func TestSnapshotCopiesPayload(t *testing.T) {
	s := newSession(emitter.KindIR, "10.0.0.5", 0)
	s.markReady(nil)
	s.beginLearning()
	s.complete([]byte{0x01, 0x02})

	snap := s.Snapshot()
	snap.Payload[0] = 0xFF
	if s.Snapshot().Payload[0] != 0x01 {
		t.Fatal("snapshot must not share the payload slice")
	}
}
