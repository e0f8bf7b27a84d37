//go:build nogocv

package acquire

import (
	"fmt"
	"log/slog"
)

// newWebcamAcquirer returns an error when built without OpenCV.
func newWebcamAcquirer(cfg Config, logger *slog.Logger) (Acquirer, error) {
	return nil, WrapError(string(BackendWebcam),
		fmt.Errorf("%w: built with nogocv, webcam capture is unavailable", ErrDeviceUnavailable))
}
