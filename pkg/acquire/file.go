package acquire

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/teslashibe/go-camseed/pkg/frame"
)

// FileAcquirer replays a frame saved as PNG. Loading the same file twice
// yields the same frame, which is how a seed is reproduced later.
type FileAcquirer struct {
	path   string
	logger *slog.Logger
}

// NewFileAcquirer creates an acquirer reading the PNG at path.
func NewFileAcquirer(path string, logger *slog.Logger) *FileAcquirer {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileAcquirer{path: path, logger: logger}
}

// Acquire decodes the PNG into an RGBA8 frame.
func (a *FileAcquirer) Acquire(ctx context.Context) (frame.RawFrame, error) {
	if err := ctx.Err(); err != nil {
		return frame.RawFrame{}, WrapError(a.Name(), contextError(ctx))
	}

	fh, err := os.Open(a.path)
	if err != nil {
		return frame.RawFrame{}, WrapError(a.Name(), mapFSError(err))
	}
	defer fh.Close()

	f, err := frame.DecodePNG(fh)
	if err != nil {
		return frame.RawFrame{}, WrapError(a.Name(), fmt.Errorf("%w: %s: %v", frame.ErrMalformedFrame, a.path, err))
	}

	a.logger.Debug("loaded frame",
		"path", a.path,
		"width", f.Width,
		"height", f.Height,
	)
	return checkFrame(a.Name(), f)
}

// Name returns "file".
func (a *FileAcquirer) Name() string { return string(BackendFile) }

// Close is a no-op.
func (a *FileAcquirer) Close() error { return nil }

// SavePNG writes a frame to path as PNG, creating parent directories.
// The file can be replayed with a FileAcquirer.
func SavePNG(path string, f frame.RawFrame) error {
	if err := f.Validate(); err != nil {
		return fmt.Errorf("save frame: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("save frame: %w", err)
		}
	}

	fh, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("save frame: %w", err)
	}
	if err := frame.EncodePNG(fh, f); err != nil {
		fh.Close()
		return fmt.Errorf("save frame %s: %w", path, err)
	}
	if err := fh.Close(); err != nil {
		return fmt.Errorf("save frame %s: %w", path, err)
	}
	return nil
}

// PersistPNG saves f to path and reads it back. The returned frame is what a
// FileAcquirer on path will produce, so seeding it matches a later load.
func PersistPNG(ctx context.Context, path string, f frame.RawFrame) (frame.RawFrame, error) {
	if err := SavePNG(path, f); err != nil {
		return frame.RawFrame{}, err
	}
	return NewFileAcquirer(path, nil).Acquire(ctx)
}

// mapFSError translates file system errors into capture errors.
func mapFSError(err error) error {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("%w: %v", ErrDeviceUnavailable, err)
	case errors.Is(err, fs.ErrPermission):
		return fmt.Errorf("%w: %v", ErrPermissionDenied, err)
	default:
		return fmt.Errorf("%w: %v", ErrDeviceUnavailable, err)
	}
}
