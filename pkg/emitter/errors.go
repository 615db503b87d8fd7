package emitter

import "errors"

var (
	// ErrConnectionFailed indicates the bridge could not be reached or
	// refused authentication.
	ErrConnectionFailed = errors.New("failed to connect to device")

	// ErrNotConnected indicates an operation on a closed handle.
	ErrNotConnected = errors.New("device not connected")

	// ErrTimeout indicates a bridge did not answer in time.
	ErrTimeout = errors.New("operation timed out")
)
