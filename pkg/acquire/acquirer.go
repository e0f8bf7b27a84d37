package acquire

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/teslashibe/go-camseed/pkg/frame"
)

// Sentinel errors for capture failures. Malformed frames are reported as
// frame.ErrMalformedFrame.
var (
	// ErrDeviceUnavailable is returned when no capture device is present or
	// it cannot be opened.
	ErrDeviceUnavailable = errors.New("acquire: device unavailable")

	// ErrPermissionDenied is returned when the operating system refuses
	// access to the device.
	ErrPermissionDenied = errors.New("acquire: capture permission denied")

	// ErrCaptureTimeout is returned when no frame arrives in time.
	ErrCaptureTimeout = errors.New("acquire: capture timeout")
)

// Acquirer produces one still frame per call.
type Acquirer interface {
	// Acquire blocks until a frame is captured, the configured timeout
	// elapses or ctx is done. The returned frame has passed Validate.
	Acquire(ctx context.Context) (frame.RawFrame, error)

	// Name returns the backend name (e.g., "webcam", "file", "mock").
	Name() string

	// Close releases the device. It is safe to call Close more than once.
	io.Closer
}

// AcquireError wraps a backend failure with the backend name.
type AcquireError struct {
	Backend string
	Err     error
}

// Error implements the error interface.
func (e *AcquireError) Error() string {
	return fmt.Sprintf("acquire [%s]: %v", e.Backend, e.Err)
}

// Unwrap returns the underlying error.
func (e *AcquireError) Unwrap() error {
	return e.Err
}

// WrapError wraps an error with backend context.
func WrapError(backend string, err error) error {
	if err == nil {
		return nil
	}
	return &AcquireError{Backend: backend, Err: err}
}

// checkFrame validates a frame coming out of a backend.
func checkFrame(backend string, f frame.RawFrame) (frame.RawFrame, error) {
	if err := f.Validate(); err != nil {
		return frame.RawFrame{}, WrapError(backend, err)
	}
	return f, nil
}

// contextError maps a finished context to the capture error it stands for.
func contextError(ctx context.Context) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrCaptureTimeout, ctx.Err())
	}
	return ctx.Err()
}
