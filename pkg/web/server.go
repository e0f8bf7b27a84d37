// Package web serves camera-derived seeds over HTTP and websocket.
package web

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"
	"github.com/teslashibe/go-camseed/pkg/hub"
	"github.com/teslashibe/go-camseed/pkg/seeder"
)

// maxUploadBytes bounds POST /api/seed bodies.
const maxUploadBytes = 32 * 1024 * 1024

// Server is the seed service.
type Server struct {
	app      *fiber.App
	addr     string
	seeder   *seeder.Seeder
	interval time.Duration
	logger   *slog.Logger

	// Fan-out for the seed stream; one capture feeds every subscriber.
	seedHub *hub.Hub
}

// NewServer creates a server. interval is the period of the /ws/seeds stream.
func NewServer(addr string, s *seeder.Seeder, interval time.Duration, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	srv := &Server{
		addr:     addr,
		seeder:   s,
		interval: interval,
		logger:   logger.With("component", "web"),
	}
	srv.seedHub = hub.New("seeds", srv.logger)

	app := fiber.New(fiber.Config{
		AppName:               "camseed",
		DisableStartupMessage: true,
		BodyLimit:             maxUploadBytes,
	})
	app.Use(recover.New())
	app.Use(cors.New())

	// API routes
	api := app.Group("/api")
	api.Get("/health", srv.handleHealth)
	api.Get("/seed", srv.handleSeed)
	api.Post("/seed", srv.handleSeedUpload)

	// WebSocket upgrade middleware
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/seeds", websocket.New(srv.handleSeedsWS))

	srv.app = app
	return srv
}

// App exposes the fiber app, mainly for app.Test.
func (s *Server) App() *fiber.App {
	return s.app
}

// Start listens on the configured address and serves until the listener
// fails or Shutdown is called. The seed stream runs only while serving.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Start on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s.logger.Info("seed service listening", "addr", ln.Addr().String())
	go s.seedHub.Run(ctx)
	go s.streamLoop(ctx)
	return s.app.Listener(ln)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// streamLoop derives a seed per tick while anyone is listening.
func (s *Server) streamLoop(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if s.seedHub.ClientCount() == 0 {
				continue
			}
			res, err := s.seeder.Seed(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				s.seedHub.BroadcastJSON(StreamMessage{Error: newErrorBody(err)})
				continue
			}
			s.seedHub.BroadcastJSON(StreamMessage{Result: &res})
		}
	}
}
