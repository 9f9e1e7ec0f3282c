package bimclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"bimbuddy/internal/domain"
	"bimbuddy/pkg/ctxutil"
)

// ErrInvalidResponse is returned when a 2xx body cannot be decoded.
var ErrInvalidResponse = errors.New("invalid response from server")

// StatusError reports a non-2xx answer from the dictionary service.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("bimclient: status %d: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("bimclient: status %d", e.Code)
}

// Client is a JSON client for the BIM dictionary service.
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
	log     *slog.Logger
}

// Config configures the dictionary service client.
type Config struct {
	BaseURL   string
	APIKeyEnv string
	Timeout   time.Duration
}

// NewClient creates a client. The API key is optional; when the named env
// variable is set it is sent with every request.
func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = domain.DefaultBaseURL
	}
	t := cfg.Timeout
	if t == 0 {
		t = 15 * time.Second
	}
	var key string
	if cfg.APIKeyEnv != "" {
		key = strings.TrimSpace(os.Getenv(cfg.APIKeyEnv))
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  key,
		client:  &http.Client{Timeout: t},
		log:     logger.With("component", "bimclient"),
	}
}

// BaseURL returns the service origin media paths are resolved against.
func (c *Client) BaseURL() string { return c.baseURL }

// Health queries GET /health.
func (c *Client) Health(ctx context.Context) (domain.HealthResponse, error) {
	var out domain.HealthResponse
	if err := c.do(ctx, http.MethodGet, "/health", nil, &out); err != nil {
		return domain.HealthResponse{}, err
	}
	return out, nil
}

// Translate sends the text to POST /translate and returns the raw lookups.
func (c *Client) Translate(ctx context.Context, text string) (domain.TranslateResponse, error) {
	var out domain.TranslateResponse
	body := domain.TranslateRequest{Text: text}
	if err := c.do(ctx, http.MethodPost, "/translate", body, &out); err != nil {
		return domain.TranslateResponse{}, err
	}
	c.log.DebugContext(ctx, "translate response",
		slog.String("request_id", ctxutil.RequestIDFromCtx(ctx)),
		slog.Int("results", len(out.Results)),
		slog.Bool("full_phrase", out.IsFullPhrase),
	)
	return out, nil
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("bimclient: encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("bimclient: create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}
	if id := ctxutil.RequestIDFromCtx(ctx); id != "" {
		req.Header.Set("X-Request-ID", id)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		c.log.DebugContext(ctx, "request failed",
			slog.String("method", method),
			slog.String("path", path),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("bimclient: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("bimclient: read body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var e domain.ErrorResponse
		_ = json.Unmarshal(payload, &e)
		return &StatusError{Code: resp.StatusCode, Message: strings.TrimSpace(e.Error)}
	}

	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("bimclient: decode %s: %w: %v", path, ErrInvalidResponse, err)
	}
	return nil
}
