package veo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/storyreel/storyreel/internal/request"
)

// Result is the finished output of one video generation call.
type Result struct {
	// VideoURL is the service-hosted location of the finished video.
	VideoURL string
	// VideoBytes is the downloaded raw video, retained for extension.
	VideoBytes []byte
	// RemoteHandle is the opaque operation name the service issued; it is
	// what extend-video requests attach.
	RemoteHandle string
}

// APIError is a structured error returned by the generation service.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("generation service error %d %s: %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("generation service error %d: %s", e.Status, e.Message)
}

// StatusCode returns the HTTP status the service responded with.
func (e *APIError) StatusCode() int { return e.Status }

// ErrorCode returns the service's machine-readable status string.
func (e *APIError) ErrorCode() string { return e.Code }

// Config controls the client's endpoint and pacing.
type Config struct {
	Endpoint          string
	APIKey            string
	HTTPTimeout       time.Duration
	PollInterval      time.Duration
	PollTimeout       time.Duration
	RequestsPerMinute int
}

// Client calls the generation service's long-running video endpoint.
type Client struct {
	endpoint     string
	apiKey       string
	httpClient   *http.Client
	limiter      *rate.Limiter
	pollInterval time.Duration
	pollTimeout  time.Duration
	logger       *slog.Logger
}

// NewClient constructs a rate-limited client for the generation service.
func NewClient(cfg Config, logger *slog.Logger) *Client {
	if strings.TrimSpace(cfg.Endpoint) == "" {
		cfg.Endpoint = "https://generativelanguage.googleapis.com/v1beta"
	}
	if cfg.HTTPTimeout <= 0 {
		cfg.HTTPTimeout = 120 * time.Second
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 5 * time.Second
	}
	if cfg.PollTimeout <= 0 {
		cfg.PollTimeout = 6 * time.Minute
	}
	if cfg.RequestsPerMinute <= 0 {
		cfg.RequestsPerMinute = 4
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		endpoint:     strings.TrimSuffix(cfg.Endpoint, "/"),
		apiKey:       cfg.APIKey,
		httpClient:   &http.Client{Timeout: cfg.HTTPTimeout},
		limiter:      rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.RequestsPerMinute)), 1),
		pollInterval: cfg.PollInterval,
		pollTimeout:  cfg.PollTimeout,
		logger:       logger,
	}
}

// Generate submits the request, waits for the long-running operation to
// finish, downloads the result, and returns the finished video.
func (c *Client) Generate(ctx context.Context, cfg request.Config) (Result, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return Result{}, err
	}

	model := cfg.Model
	if model == "" {
		model = request.ModelFast
	}

	op, err := c.submit(ctx, model, cfg)
	if err != nil {
		return Result{}, err
	}

	c.logger.Info("video generation submitted", "operation", op, "model", model, "mode", string(cfg.Mode))

	uri, err := c.await(ctx, op)
	if err != nil {
		return Result{}, err
	}

	data, err := c.download(ctx, uri)
	if err != nil {
		return Result{}, err
	}

	return Result{VideoURL: uri, VideoBytes: data, RemoteHandle: op}, nil
}

func (c *Client) submit(ctx context.Context, model string, cfg request.Config) (string, error) {
	body := generateRequest{
		Instances:  []instance{buildInstance(cfg)},
		Parameters: buildParameters(cfg),
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("marshal generation request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:predictLongRunning", c.endpoint, model)
	var resp operation
	if err := c.doJSON(ctx, http.MethodPost, url, payload, &resp); err != nil {
		return "", err
	}
	if resp.Name == "" {
		return "", fmt.Errorf("generation service returned no operation name")
	}
	return resp.Name, nil
}

func (c *Client) await(ctx context.Context, name string) (string, error) {
	deadline := time.NewTimer(c.pollTimeout)
	defer deadline.Stop()
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	url := fmt.Sprintf("%s/%s", c.endpoint, name)
	for {
		var op operation
		if err := c.doJSON(ctx, http.MethodGet, url, nil, &op); err != nil {
			return "", err
		}

		if op.Error != nil {
			return "", &APIError{Status: op.Error.Code, Code: op.Error.Status, Message: op.Error.Message}
		}

		if op.Done {
			samples := op.Response.GenerateVideoResponse.GeneratedSamples
			if len(samples) == 0 || samples[0].Video.URI == "" {
				return "", fmt.Errorf("generation operation %s finished without a video", name)
			}
			return samples[0].Video.URI, nil
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-deadline.C:
			return "", fmt.Errorf("generation operation %s timed out after %s", name, c.pollTimeout)
		case <-ticker.C:
		}
	}
}

func (c *Client) download(ctx context.Context, uri string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return nil, fmt.Errorf("build download request: %w", err)
	}
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download video: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.apiError(resp)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read video body: %w", err)
	}
	return data, nil
}

func (c *Client) doJSON(ctx context.Context, method, url string, body []byte, out any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("x-goog-api-key", c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("call generation service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return c.apiError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode generation response: %w", err)
	}
	return nil
}

func (c *Client) apiError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	var envelope struct {
		Error struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
			Status  string `json:"status"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error.Message != "" {
		return &APIError{Status: envelope.Error.Code, Code: envelope.Error.Status, Message: envelope.Error.Message}
	}

	return &APIError{Status: resp.StatusCode, Message: strings.TrimSpace(string(body))}
}
