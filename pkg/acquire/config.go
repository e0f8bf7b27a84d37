// Package acquire captures single still frames for seeding.
//
// This package supports multiple backends:
//   - Webcam (gocv/OpenCV) - a local V4L2, AVFoundation or DirectShow camera
//   - File - a PNG previously written by SavePNG
//   - Mock - CI/Testing without hardware
//
// Acquirers never retry. A failed capture is reported to the caller, which
// decides whether to try again.
package acquire

import (
	"fmt"
	"time"
)

// Backend represents the capture backend type.
type Backend string

const (
	// BackendAuto selects the webcam.
	BackendAuto Backend = "auto"
	// BackendWebcam captures from a local camera through OpenCV.
	BackendWebcam Backend = "webcam"
	// BackendFile loads a PNG from disk.
	BackendFile Backend = "file"
	// BackendMock produces synthetic frames for testing.
	BackendMock Backend = "mock"
)

// Config holds capture configuration.
type Config struct {
	// Backend specifies which capture backend to use.
	// Default: "auto"
	Backend Backend `json:"backend"`

	// Device is the camera index for the webcam backend.
	// Default: 0
	Device int `json:"device"`

	// Path is the PNG file read by the file backend.
	Path string `json:"path"`

	// Timeout bounds a single capture.
	// Default: 5s
	Timeout time.Duration `json:"timeout"`

	// Width and Height request a capture resolution from the webcam.
	// Zero keeps the device default.
	Width  int `json:"width"`
	Height int `json:"height"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Backend: BackendAuto,
		Device:  0,
		Timeout: 5 * time.Second,
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendAuto, BackendWebcam, BackendFile, BackendMock:
	default:
		return fmt.Errorf("unknown backend %q (want %s or one of %v)", c.Backend, BackendAuto, AvailableBackends())
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %v", c.Timeout)
	}
	if c.Device < 0 {
		return fmt.Errorf("device must be non-negative, got %d", c.Device)
	}
	if c.Width < 0 || c.Height < 0 {
		return fmt.Errorf("resolution must be non-negative, got %dx%d", c.Width, c.Height)
	}
	if c.Backend == BackendFile && c.Path == "" {
		return fmt.Errorf("file backend requires a path")
	}
	return nil
}
