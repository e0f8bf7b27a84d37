package web

import (
	"bytes"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/teslashibe/go-camseed/pkg/frame"
	"github.com/teslashibe/go-camseed/pkg/hub"
	"github.com/teslashibe/go-camseed/pkg/seeder"
)

// StreamMessage is one frame of the /ws/seeds stream.
// Exactly one of Result and Error is set.
type StreamMessage struct {
	Result *seeder.Result `json:"result,omitempty"`
	Error  *ErrorBody     `json:"error,omitempty"`
}

// handleHealth reports liveness and the configured hash
func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":    "ok",
		"algorithm": s.seeder.Condenser().Algorithm(),
	})
}

// handleSeed runs one seeding attempt against the camera
func (s *Server) handleSeed(c *fiber.Ctx) error {
	res, err := s.seeder.Seed(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(res)
}

// handleSeedUpload condenses a PNG sent as the request body
func (s *Server) handleSeedUpload(c *fiber.Ctx) error {
	body := c.Body()
	if len(body) == 0 {
		return writeError(c, fmt.Errorf("%w: empty body", frame.ErrMalformedFrame))
	}

	f, err := frame.DecodePNG(bytes.NewReader(body))
	if err != nil {
		return writeError(c, fmt.Errorf("%w: %v", frame.ErrMalformedFrame, err))
	}

	res, err := s.seeder.FromFrame(f)
	if err != nil {
		return writeError(c, err)
	}
	s.logger.Info("seed derived from upload",
		"attempt_id", res.AttemptID,
		"width", res.Width,
		"height", res.Height,
	)
	return c.JSON(res)
}

// handleSeedsWS subscribes the connection to the seed stream
func (s *Server) handleSeedsWS(conn *websocket.Conn) {
	client := hub.NewClient(s.seedHub, conn)
	if client == nil {
		conn.Close()
		return
	}
	client.Run()
}
