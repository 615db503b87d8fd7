package emitter

import "context"

// CaptureResult classifies the outcome of a single capture check.
type CaptureResult int

const (
	// CaptureEmpty means the device has not observed a signal yet.
	CaptureEmpty CaptureResult = iota
	// CapturePayload means a command was captured.
	CapturePayload
	// CaptureTransient means the device reported a recoverable fault
	// (typically "storage full"); the caller should keep polling.
	CaptureTransient
	// CaptureFatal means the check itself failed; the caller may keep
	// polling, the fault is logged but not terminal.
	CaptureFatal
)

// CaptureOutcome is the typed result of Handle.CheckData. Payload is
// non-empty only when Result == CapturePayload; Err is set for the two
// fault results.
type CaptureOutcome struct {
	Result  CaptureResult
	Payload []byte
	Err     error
}

// Handle is a connected, authenticated learning-capable device.
// A handle is exclusively owned by the learning session it was
// connected for and is never shared between sessions.
type Handle interface {
	// EnterLearning puts the device into IR listening mode.
	EnterLearning(ctx context.Context) error

	// FindRFPacket puts the device into RF listening mode at the given
	// frequency in MHz.
	FindRFPacket(ctx context.Context, frequency float64) error

	// CheckData performs one non-blocking capture check.
	CheckData(ctx context.Context) CaptureOutcome

	// Close releases the connection.
	Close()
}

// Connector establishes a connection to a bridge at a network address.
type Connector interface {
	Connect(ctx context.Context, addr string) (Handle, error)
}

// Sender emits an already-learned payload through a transceiver.
// target is a bridge IP for IR/RF payloads or an interface name for
// BLE payloads; an empty target means the backend's default.
type Sender interface {
	Send(ctx context.Context, target string, payload []byte) error
}

// InterfaceLister enumerates the transceivers a backend can use.
type InterfaceLister interface {
	Interfaces(ctx context.Context) ([]Interface, error)
}
