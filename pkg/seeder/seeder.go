// Package seeder runs a single seeding attempt: capture one frame, then
// condense it into a seed.
//
// A failed attempt returns the acquirer's or condenser's error unchanged.
// There is no retry and no fallback seed; substituting a fixed value would
// defeat the point of deriving one from the camera.
package seeder

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/teslashibe/go-camseed/pkg/acquire"
	"github.com/teslashibe/go-camseed/pkg/frame"
	"github.com/teslashibe/go-camseed/pkg/seed"
)

// Result is the outcome of one successful attempt.
type Result struct {
	AttemptID string            `json:"attempt_id"`
	Seed      seed.Seed         `json:"seed"`
	Sum       int               `json:"sum"`
	Algorithm seed.Algorithm    `json:"algorithm"`
	Width     int               `json:"width"`
	Height    int               `json:"height"`
	Format    frame.PixelFormat `json:"format"`
	Elapsed   time.Duration     `json:"elapsed_ns"`
}

// Seeder couples an acquirer with a condenser.
type Seeder struct {
	acquirer  acquire.Acquirer
	condenser *seed.Condenser
	logger    *slog.Logger

	// OnFrame, if set, sees each captured frame before it is condensed.
	// The frame it returns is the one condensed. Returning an error aborts
	// the attempt.
	OnFrame func(ctx context.Context, attemptID string, f frame.RawFrame) (frame.RawFrame, error)
}

// New creates a Seeder. A nil condenser selects seed.Default().
func New(acq acquire.Acquirer, c *seed.Condenser, logger *slog.Logger) *Seeder {
	if c == nil {
		c = seed.Default()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Seeder{
		acquirer:  acq,
		condenser: c,
		logger:    logger.With("component", "seeder"),
	}
}

// Condenser returns the condenser used for every attempt.
func (s *Seeder) Condenser() *seed.Condenser {
	return s.condenser
}

// Seed captures one frame and derives its seed.
func (s *Seeder) Seed(ctx context.Context) (Result, error) {
	id := uuid.NewString()
	start := time.Now()
	logger := s.logger.With("attempt_id", id, "backend", s.acquirer.Name())

	f, err := s.acquirer.Acquire(ctx)
	if err != nil {
		logger.Warn("capture failed", "error", err)
		return Result{}, err
	}

	if s.OnFrame != nil {
		f, err = s.OnFrame(ctx, id, f)
		if err != nil {
			logger.Warn("frame hook failed", "error", err)
			return Result{}, fmt.Errorf("frame hook: %w", err)
		}
	}

	res, err := s.FromFrame(f)
	if err != nil {
		logger.Warn("condense failed", "error", err)
		return Result{}, err
	}
	res.AttemptID = id
	res.Elapsed = time.Since(start)

	logger.Info("seed derived",
		"width", res.Width,
		"height", res.Height,
		"format", res.Format,
		"algorithm", res.Algorithm,
		"elapsed_ms", res.Elapsed.Milliseconds(),
	)
	return res, nil
}

// FromFrame condenses a frame the caller already holds.
func (s *Seeder) FromFrame(f frame.RawFrame) (Result, error) {
	sd, err := s.condenser.DeriveSeed(f)
	if err != nil {
		return Result{}, err
	}
	return Result{
		AttemptID: uuid.NewString(),
		Seed:      sd,
		Sum:       sd.Sum(),
		Algorithm: s.condenser.Algorithm(),
		Width:     f.Width,
		Height:    f.Height,
		Format:    f.Format,
	}, nil
}
