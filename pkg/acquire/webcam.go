//go:build !nogocv

package acquire

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"sync"

	"github.com/teslashibe/go-camseed/pkg/frame"
	"gocv.io/x/gocv"
)

// WebcamAcquirer captures from a local camera using OpenCV.
type WebcamAcquirer struct {
	cfg    Config
	logger *slog.Logger

	mu     sync.Mutex // Protects capture; held for the duration of a read
	vc     *gocv.VideoCapture
	closed bool
}

func newWebcamAcquirer(cfg Config, logger *slog.Logger) (Acquirer, error) {
	name := string(BackendWebcam)
	if err := probeDeviceNode(cfg.Device); err != nil {
		return nil, WrapError(name, err)
	}

	vc, err := gocv.OpenVideoCapture(cfg.Device)
	if err != nil {
		return nil, WrapError(name, fmt.Errorf("%w: open camera %d: %v", ErrDeviceUnavailable, cfg.Device, err))
	}
	if !vc.IsOpened() {
		vc.Close()
		return nil, WrapError(name, fmt.Errorf("%w: camera %d did not open", ErrDeviceUnavailable, cfg.Device))
	}

	if cfg.Width > 0 && cfg.Height > 0 {
		vc.Set(gocv.VideoCaptureFrameWidth, float64(cfg.Width))
		vc.Set(gocv.VideoCaptureFrameHeight, float64(cfg.Height))
	}

	logger.Info("camera opened",
		"device", cfg.Device,
		"width", vc.Get(gocv.VideoCaptureFrameWidth),
		"height", vc.Get(gocv.VideoCaptureFrameHeight),
	)

	return &WebcamAcquirer{cfg: cfg, logger: logger, vc: vc}, nil
}

type readResult struct {
	frame frame.RawFrame
	err   error
}

// Acquire reads one frame and converts it to RGB8.
// A read still in flight when the deadline passes finishes in the
// background and its frame is discarded.
func (w *WebcamAcquirer) Acquire(ctx context.Context) (frame.RawFrame, error) {
	ctx, cancel := context.WithTimeout(ctx, w.cfg.Timeout)
	defer cancel()

	done := make(chan readResult, 1)
	go func() {
		f, err := w.read()
		done <- readResult{frame: f, err: err}
	}()

	select {
	case <-ctx.Done():
		w.logger.Warn("camera read abandoned", "device", w.cfg.Device, "timeout", w.cfg.Timeout)
		return frame.RawFrame{}, WrapError(w.Name(), contextError(ctx))
	case res := <-done:
		if res.err != nil {
			return frame.RawFrame{}, WrapError(w.Name(), res.err)
		}
		return checkFrame(w.Name(), res.frame)
	}
}

func (w *WebcamAcquirer) read() (frame.RawFrame, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return frame.RawFrame{}, ErrDeviceUnavailable
	}

	img := gocv.NewMat()
	defer img.Close()

	if ok := w.vc.Read(&img); !ok || img.Empty() {
		return frame.RawFrame{}, fmt.Errorf("%w: camera %d returned no frame", ErrDeviceUnavailable, w.cfg.Device)
	}
	return matToFrame(img)
}

// matToFrame converts an 8-bit OpenCV image (BGR, BGRA or gray) to RGB8.
func matToFrame(img gocv.Mat) (frame.RawFrame, error) {
	rgb := gocv.NewMat()
	defer rgb.Close()

	switch img.Type() {
	case gocv.MatTypeCV8UC3:
		gocv.CvtColor(img, &rgb, gocv.ColorBGRToRGB)
	case gocv.MatTypeCV8UC4:
		gocv.CvtColor(img, &rgb, gocv.ColorBGRAToRGB)
	case gocv.MatTypeCV8UC1:
		gocv.CvtColor(img, &rgb, gocv.ColorGrayToBGR)
	default:
		return frame.RawFrame{}, fmt.Errorf("%w: camera mat type %v", frame.ErrUnsupportedFormat, img.Type())
	}

	return frame.RawFrame{
		Width:  rgb.Cols(),
		Height: rgb.Rows(),
		Format: frame.RGB8,
		Pix:    rgb.ToBytes(),
	}, nil
}

// Name returns "webcam".
func (w *WebcamAcquirer) Name() string { return string(BackendWebcam) }

// Close releases the camera. It waits for an in-flight read to finish.
func (w *WebcamAcquirer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true
	return w.vc.Close()
}

// probeDeviceNode opens the V4L2 node to tell a missing camera from a
// refused one. OpenCV reports both as a failed open. Other platforms have
// no device node to check.
func probeDeviceNode(device int) error {
	if runtime.GOOS != "linux" {
		return nil
	}

	path := fmt.Sprintf("/dev/video%d", device)
	fh, err := os.Open(path)
	if err == nil {
		return fh.Close()
	}
	if errors.Is(err, os.ErrPermission) {
		return fmt.Errorf("%w: %s", ErrPermissionDenied, path)
	}
	return fmt.Errorf("%w: %s: %v", ErrDeviceUnavailable, path, err)
}
