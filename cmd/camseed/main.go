// camseed - derive a PRNG seed from a single camera frame
//
// Usage:
//
//	camseed save [-file seed]        capture a frame, keep it as seed.png, print the seed
//	camseed load [-file seed]        re-derive the seed from seed.png
//	camseed serve [-addr :8080]      serve seeds over HTTP and websocket
//	camseed fetch -url http://host   ask a running service for a seed
//
// Capture settings come from CAMSEED_* environment variables.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/teslashibe/go-camseed/internal/config"
	"github.com/teslashibe/go-camseed/internal/log"
	"github.com/teslashibe/go-camseed/pkg/acquire"
	"github.com/teslashibe/go-camseed/pkg/frame"
	"github.com/teslashibe/go-camseed/pkg/seed"
	"github.com/teslashibe/go-camseed/pkg/seeder"
	"github.com/teslashibe/go-camseed/pkg/web"
)

const usage = `usage: camseed <command> [flags]

commands:
  save    capture a frame, save it as PNG and print its seed
  load    load a saved PNG and print its seed
  serve   run the seed service
  fetch   request a seed from a running service
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "camseed: %v\n", err)
		os.Exit(1)
	}
	log.Init(cfg.LogLevel)
	log.Debug("config loaded",
		"backend", cfg.Backend,
		"device", cfg.Device,
		"algorithm", cfg.Algorithm,
		"timeout", cfg.Timeout,
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cmd, args := os.Args[1], os.Args[2:]
	switch cmd {
	case "save":
		err = runSave(ctx, cfg, args)
	case "load":
		err = runLoad(ctx, cfg, args)
	case "serve":
		err = runServe(ctx, cfg, args)
	case "fetch":
		err = runFetch(ctx, args)
	case "-h", "--help", "help":
		fmt.Print(usage)
		return
	default:
		fmt.Fprintf(os.Stderr, "camseed: unknown command %q\n\n%s", cmd, usage)
		os.Exit(2)
	}

	if err != nil {
		log.Error("seeding failed", "command", cmd, "error", err)
		fmt.Fprintf(os.Stderr, "camseed: %v\n", err)
		os.Exit(1)
	}
}

// pngPath appends .png the way seed files are named on disk.
func pngPath(name string) string {
	if strings.HasSuffix(name, ".png") {
		return name
	}
	return name + ".png"
}

func runSave(ctx context.Context, cfg config.Config, args []string) error {
	fs := flag.NewFlagSet("save", flag.ExitOnError)
	file := fs.String("file", "seed", "file name for the captured frame (.png is appended)")
	fs.Parse(args)

	acqCfg := cfg.Acquire()
	if acqCfg.Backend == acquire.BackendFile {
		return fmt.Errorf("save needs a capture backend, not %q", acqCfg.Backend)
	}
	path := pngPath(*file)

	s, acq, err := newSeeder(cfg, acqCfg)
	if err != nil {
		return err
	}
	defer acq.Close()
	s.OnFrame = saveFrame(path)

	res, err := s.Seed(ctx)
	if err != nil {
		return describe(err)
	}
	printResult(os.Stdout, res.Seed)
	return nil
}

func runLoad(ctx context.Context, cfg config.Config, args []string) error {
	fs := flag.NewFlagSet("load", flag.ExitOnError)
	file := fs.String("file", "seed", "file name of a saved frame (.png is appended)")
	fs.Parse(args)

	acqCfg := cfg.Acquire()
	acqCfg.Backend = acquire.BackendFile
	acqCfg.Path = pngPath(*file)

	s, acq, err := newSeeder(cfg, acqCfg)
	if err != nil {
		return err
	}
	defer acq.Close()
	res, err := s.Seed(ctx)
	if err != nil {
		return describe(err)
	}
	printResult(os.Stdout, res.Seed)
	return nil
}

func runServe(ctx context.Context, cfg config.Config, args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	addr := fs.String("addr", cfg.Addr, "listen address")
	fs.Parse(args)

	s, acq, err := newSeeder(cfg, cfg.Acquire())
	if err != nil {
		return err
	}
	defer acq.Close()
	srv := web.NewServer(*addr, s, cfg.StreamInterval, log.L())

	go func() {
		<-ctx.Done()
		log.Info("shutting down")
		if err := srv.Shutdown(); err != nil {
			log.Warn("shutdown failed", "error", err)
		}
	}()
	return srv.Start(ctx)
}

func runFetch(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("fetch", flag.ExitOnError)
	url := fs.String("url", "http://localhost:8080", "seed service base URL")
	image := fs.String("image", "", "upload this PNG instead of asking the service to capture")
	fs.Parse(args)

	c := web.NewClient(*url, 0)

	var (
		res seeder.Result
		err error
	)
	if *image != "" {
		fh, openErr := os.Open(*image)
		if openErr != nil {
			return openErr
		}
		defer fh.Close()
		res, err = c.SeedPNG(ctx, fh)
	} else {
		res, err = c.Seed(ctx)
	}
	if err != nil {
		return err
	}
	printResult(os.Stdout, res.Seed)
	return nil
}

// saveFrame returns a frame hook that writes the capture to path and hands
// back the frame as load will read it, so save and load print the same seed.
func saveFrame(path string) func(context.Context, string, frame.RawFrame) (frame.RawFrame, error) {
	return func(ctx context.Context, id string, f frame.RawFrame) (frame.RawFrame, error) {
		saved, err := acquire.PersistPNG(ctx, path, f)
		if err != nil {
			return frame.RawFrame{}, err
		}
		log.Info("frame saved", "attempt_id", id, "path", path)
		return saved, nil
	}
}

// newSeeder opens the acquirer; callers close it when done.
func newSeeder(cfg config.Config, acqCfg acquire.Config) (*seeder.Seeder, acquire.Acquirer, error) {
	c, err := cfg.Condenser()
	if err != nil {
		return nil, nil, err
	}
	logger := log.With("backend", acqCfg.Backend)
	acq, err := acquire.New(acqCfg, logger)
	if err != nil {
		return nil, nil, describe(err)
	}
	return seeder.New(acq, c, logger), acq, nil
}

// describe adds a hint for the failures a user can act on.
func describe(err error) error {
	switch {
	case errors.Is(err, acquire.ErrPermissionDenied):
		return fmt.Errorf("%w (is the user in the video group?)", err)
	case errors.Is(err, acquire.ErrDeviceUnavailable):
		return fmt.Errorf("%w (set CAMSEED_DEVICE or CAMSEED_BACKEND)", err)
	default:
		return err
	}
}

// printResult prints the seed and a sample of the generator it keys.
func printResult(w io.Writer, s seed.Seed) {
	rng := s.Rand()

	nums := make([]int, 10)
	for i := range nums {
		nums[i] = rng.IntN(10)
	}
	bools := make([]bool, 10)
	for i := range bools {
		bools[i] = rng.IntN(2) == 1
	}

	fmt.Fprintf(w, "seed: %s\n", s)
	fmt.Fprintf(w, "seed sum: %d\n", s.Sum())
	fmt.Fprintf(w, "random numbers: %v\n", nums)
	fmt.Fprintf(w, "random bools: %v\n", bools)
}
