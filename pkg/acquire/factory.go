package acquire

import (
	"fmt"
	"log/slog"
)

// New creates an acquirer for the configured backend.
// If cfg.Backend is BackendAuto, the webcam is used.
func New(cfg Config, logger *slog.Logger) (Acquirer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	if logger == nil {
		logger = slog.Default()
	}

	backend := cfg.Backend
	if backend == BackendAuto {
		backend = BackendWebcam
	}

	logger.Info("creating acquirer",
		"backend", backend,
		"device", cfg.Device,
		"path", cfg.Path,
		"timeout_ms", cfg.Timeout.Milliseconds(),
	)

	switch backend {
	case BackendMock:
		return NewMockAcquirer(cfg.Timeout, logger), nil
	case BackendFile:
		return NewFileAcquirer(cfg.Path, logger), nil
	case BackendWebcam:
		return newWebcamAcquirer(cfg, logger)
	default:
		return nil, fmt.Errorf("unsupported backend: %s", backend)
	}
}

// AvailableBackends returns the backends that can be configured.
func AvailableBackends() []Backend {
	return []Backend{BackendWebcam, BackendFile, BackendMock}
}
