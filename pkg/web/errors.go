package web

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/teslashibe/go-camseed/pkg/acquire"
	"github.com/teslashibe/go-camseed/pkg/frame"
)

// Error kinds reported in ErrorBody.Kind.
const (
	KindDeviceUnavailable = "device_unavailable"
	KindPermissionDenied  = "permission_denied"
	KindCaptureTimeout    = "capture_timeout"
	KindMalformedFrame    = "malformed_frame"
	KindUnsupportedFormat = "unsupported_format"
	KindInternal          = "internal"
)

// ErrorBody is the JSON error payload.
type ErrorBody struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

var errorKinds = []struct {
	err    error
	kind   string
	status int
}{
	{acquire.ErrDeviceUnavailable, KindDeviceUnavailable, fiber.StatusServiceUnavailable},
	{acquire.ErrPermissionDenied, KindPermissionDenied, fiber.StatusForbidden},
	{acquire.ErrCaptureTimeout, KindCaptureTimeout, fiber.StatusGatewayTimeout},
	{frame.ErrMalformedFrame, KindMalformedFrame, fiber.StatusUnprocessableEntity},
	{frame.ErrUnsupportedFormat, KindUnsupportedFormat, fiber.StatusUnprocessableEntity},
}

// classify maps an error to its kind and HTTP status.
func classify(err error) (string, int) {
	for _, k := range errorKinds {
		if errors.Is(err, k.err) {
			return k.kind, k.status
		}
	}
	return KindInternal, fiber.StatusInternalServerError
}

// kindError returns the sentinel for a kind, or nil.
func kindError(kind string) error {
	for _, k := range errorKinds {
		if k.kind == kind {
			return k.err
		}
	}
	return nil
}

func newErrorBody(err error) *ErrorBody {
	kind, _ := classify(err)
	return &ErrorBody{Kind: kind, Message: err.Error()}
}

func writeError(c *fiber.Ctx, err error) error {
	kind, status := classify(err)
	return c.Status(status).JSON(fiber.Map{
		"error": ErrorBody{Kind: kind, Message: err.Error()},
	})
}

// APIError is a failed request as seen by Client. It unwraps to the
// sentinel matching its kind, so errors.Is works across the wire.
type APIError struct {
	StatusCode int
	Kind       string
	Message    string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("camseed: API error %d (%s): %s", e.StatusCode, e.Kind, e.Message)
}

// Unwrap returns the sentinel error for the kind.
func (e *APIError) Unwrap() error {
	return kindError(e.Kind)
}
