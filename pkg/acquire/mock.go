package acquire

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"time"

	"github.com/teslashibe/go-camseed/pkg/frame"
)

// MockAcquirer is a mock capture device for testing.
// By default it returns a fresh 16x16 RGB8 noise frame per call. The noise
// is derived from the call number, so a new mock replays the same sequence.
type MockAcquirer struct {
	logger *slog.Logger

	mu      sync.Mutex
	fixed   *frame.RawFrame
	err     error
	delay   time.Duration
	timeout time.Duration
	width   int
	height  int
	closed  bool

	calls atomic.Int64
}

// MockOption configures a MockAcquirer.
type MockOption func(*MockAcquirer)

// WithFrame makes every call return a copy of f, unvalidated until Acquire.
func WithFrame(f frame.RawFrame) MockOption {
	return func(m *MockAcquirer) {
		cp := f
		cp.Pix = append([]byte(nil), f.Pix...)
		m.fixed = &cp
	}
}

// WithError makes every call fail with err.
func WithError(err error) MockOption {
	return func(m *MockAcquirer) { m.err = err }
}

// WithDelay simulates a slow device.
func WithDelay(d time.Duration) MockOption {
	return func(m *MockAcquirer) { m.delay = d }
}

// WithNoiseSize sets the dimensions of generated noise frames.
func WithNoiseSize(width, height int) MockOption {
	return func(m *MockAcquirer) {
		m.width = width
		m.height = height
	}
}

// NewMockAcquirer creates a mock acquirer. A zero timeout disables the
// capture deadline.
func NewMockAcquirer(timeout time.Duration, logger *slog.Logger, opts ...MockOption) *MockAcquirer {
	if logger == nil {
		logger = slog.Default()
	}

	m := &MockAcquirer{
		logger:  logger,
		timeout: timeout,
		width:   16,
		height:  16,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Acquire returns the configured frame or error.
func (m *MockAcquirer) Acquire(ctx context.Context) (frame.RawFrame, error) {
	m.mu.Lock()
	closed, fixed, err, delay := m.closed, m.fixed, m.err, m.delay
	m.mu.Unlock()

	if closed {
		return frame.RawFrame{}, WrapError(m.Name(), ErrDeviceUnavailable)
	}

	if m.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.timeout)
		defer cancel()
	}

	if delay > 0 {
		select {
		case <-ctx.Done():
			return frame.RawFrame{}, WrapError(m.Name(), contextError(ctx))
		case <-time.After(delay):
		}
	} else if ctx.Err() != nil {
		return frame.RawFrame{}, WrapError(m.Name(), contextError(ctx))
	}

	n := m.calls.Add(1)
	if err != nil {
		return frame.RawFrame{}, WrapError(m.Name(), err)
	}

	if fixed != nil {
		f := *fixed
		f.Pix = append([]byte(nil), fixed.Pix...)
		return checkFrame(m.Name(), f)
	}

	m.logger.Debug("mock capture", "call", n, "width", m.width, "height", m.height)
	return checkFrame(m.Name(), m.noise(uint64(n)))
}

func (m *MockAcquirer) noise(n uint64) frame.RawFrame {
	rng := rand.New(rand.NewPCG(n, 0x63616d73656564))
	pix := make([]byte, m.width*m.height*3)
	for i := range pix {
		pix[i] = byte(rng.Uint32())
	}
	return frame.RawFrame{Width: m.width, Height: m.height, Format: frame.RGB8, Pix: pix}
}

// Calls returns how many captures were attempted past the deadline checks.
func (m *MockAcquirer) Calls() int64 {
	return m.calls.Load()
}

// Name returns "mock".
func (m *MockAcquirer) Name() string { return string(BackendMock) }

// Close marks the mock closed; later captures fail with ErrDeviceUnavailable.
func (m *MockAcquirer) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}
