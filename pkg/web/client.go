package web

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/teslashibe/go-camseed/internal/httpc"
	"github.com/teslashibe/go-camseed/pkg/seeder"
)

// Client talks to a remote seed service.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client for the service at baseURL,
// e.g. "http://camera-host:8080".
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpc.NewClient(timeout),
	}
}

// Seed asks the service to capture a frame and derive a seed.
func (c *Client) Seed(ctx context.Context) (seeder.Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/seed", nil)
	if err != nil {
		return seeder.Result{}, err
	}
	return c.do(req)
}

// SeedPNG uploads a PNG and returns its seed.
func (c *Client) SeedPNG(ctx context.Context, png io.Reader) (seeder.Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/seed", png)
	if err != nil {
		return seeder.Result{}, err
	}
	req.Header.Set("Content-Type", "image/png")
	return c.do(req)
}

func (c *Client) do(req *http.Request) (seeder.Result, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return seeder.Result{}, fmt.Errorf("seed request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return seeder.Result{}, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var payload struct {
			Error ErrorBody `json:"error"`
		}
		if err := json.Unmarshal(body, &payload); err != nil || payload.Error.Kind == "" {
			return seeder.Result{}, &APIError{StatusCode: resp.StatusCode, Kind: KindInternal, Message: string(body)}
		}
		return seeder.Result{}, &APIError{
			StatusCode: resp.StatusCode,
			Kind:       payload.Error.Kind,
			Message:    payload.Error.Message,
		}
	}

	var res seeder.Result
	if err := json.Unmarshal(body, &res); err != nil {
		return seeder.Result{}, fmt.Errorf("decode response: %w", err)
	}
	return res, nil
}
