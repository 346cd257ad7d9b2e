// Package api holds the HTTP+JSON bindings to the BlitzBuy backend.
// The backend exposes two endpoint roots: the general REST surface
// under /api/v1 and the flash-sale group under /flashSale. Both share
// one cookie-authenticated client.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultTimeout bounds every request so a hung call cannot lock the
// purchase action forever.
const DefaultTimeout = 10 * time.Second

// Client is the shared HTTP core behind the typed gateways. The cookie
// jar carries the session ticket the backend sets at login.
type Client struct {
	apiBase    string
	flashBase  string
	httpClient *http.Client
	log        *zap.Logger
}

// Config holds the client construction knobs.
type Config struct {
	// APIBaseURL roots the general REST surface, e.g. "http://host:9090/api/v1".
	APIBaseURL string
	// FlashSaleBaseURL roots the flash-sale group, e.g. "http://host:9090/flashSale".
	FlashSaleBaseURL string
	Timeout          time.Duration
	Logger           *zap.Logger
}

// NewClient builds a client with a fresh cookie jar.
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIBaseURL == "" || cfg.FlashSaleBaseURL == "" {
		return nil, fmt.Errorf("api: both endpoint roots are required")
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("api: create cookie jar: %w", err)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		apiBase:   cfg.APIBaseURL,
		flashBase: cfg.FlashSaleBaseURL,
		httpClient: &http.Client{
			Timeout: timeout,
			Jar:     jar,
		},
		log: logger,
	}, nil
}

// getJSON performs a GET against a fully built URL and decodes the
// RespBean envelope into out (which may be nil for code-only calls).
func (c *Client) getJSON(ctx context.Context, rawURL string, out any) error {
	return c.roundTrip(ctx, http.MethodGet, rawURL, nil, out)
}

// postJSON performs a POST with an optional JSON body.
func (c *Client) postJSON(ctx context.Context, rawURL string, body, out any) error {
	var buf io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("api: encode request: %w", err)
		}
		buf = bytes.NewReader(data)
	}
	return c.roundTrip(ctx, http.MethodPost, rawURL, buf, out)
}

func (c *Client) roundTrip(ctx context.Context, method, rawURL string, body io.Reader, out any) error {
	reqID := uuid.NewString()

	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return fmt.Errorf("api: build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn("request failed",
			zap.String("req", reqID),
			zap.String("method", method),
			zap.String("url", rawURL),
			zap.Error(err))
		return fmt.Errorf("api: %s %s: %w", method, rawURL, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("api: read response: %w", err)
	}

	c.log.Debug("request completed",
		zap.String("req", reqID),
		zap.String("method", method),
		zap.String("url", rawURL),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))

	var envelope respBean
	if err := json.Unmarshal(data, &envelope); err != nil {
		return fmt.Errorf("api: decode envelope (status %d): %w", resp.StatusCode, err)
	}

	if envelope.Code != CodeSuccess {
		return &APIError{Code: envelope.Code, Message: envelope.Message}
	}

	if out != nil && len(envelope.Object) > 0 {
		if err := json.Unmarshal(envelope.Object, out); err != nil {
			return fmt.Errorf("api: decode payload: %w", err)
		}
	}
	return nil
}

// getBytes fetches a raw (non-envelope) resource, used for the captcha
// image which the backend serves as bytes.
func (c *Client) getBytes(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("api: build request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("api: GET %s: %w", rawURL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("api: GET %s: status %d", rawURL, resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("api: read image: %w", err)
	}
	return data, nil
}

func (c *Client) apiURL(path string) string   { return c.apiBase + path }
func (c *Client) flashURL(path string) string { return c.flashBase + path }

func queryString(params url.Values) string {
	if len(params) == 0 {
		return ""
	}
	return "?" + params.Encode()
}
