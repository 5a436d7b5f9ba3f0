package prediction

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"image_gateway/internal/utils"
)

const (
	defaultBaseURL      = "https://api.replicate.com/v1"
	defaultHTTPTimeout  = 30 * time.Second
	defaultPollInterval = 1 * time.Second
	defaultPollAttempts = 60
)

// ClientConfig holds prediction client settings
type ClientConfig struct {
	BaseURL      string
	APIToken     string
	ModelVersion string
	PollInterval time.Duration
	PollAttempts int
	HTTPTimeout  time.Duration
}

// Client talks to the asynchronous prediction API: create a job, fetch its
// status, and wait for a terminal state.
type Client struct {
	baseURL      string
	token        string
	modelVersion string
	pollInterval time.Duration
	pollAttempts int
	client       *http.Client
	logger       *utils.Logger
}

// NewClient creates a prediction client
func NewClient(cfg ClientConfig) (*Client, error) {
	if cfg.APIToken == "" {
		return nil, fmt.Errorf("api token is required")
	}
	if cfg.ModelVersion == "" {
		return nil, fmt.Errorf("model version is required")
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	pollInterval := cfg.PollInterval
	if pollInterval <= 0 {
		pollInterval = defaultPollInterval
	}
	pollAttempts := cfg.PollAttempts
	if pollAttempts <= 0 {
		pollAttempts = defaultPollAttempts
	}
	timeout := cfg.HTTPTimeout
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}

	client := &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
	}

	return &Client{
		baseURL:      baseURL,
		token:        cfg.APIToken,
		modelVersion: cfg.ModelVersion,
		pollInterval: pollInterval,
		pollAttempts: pollAttempts,
		client:       client,
		logger:       utils.NewLogger("prediction"),
	}, nil
}

type createRequest struct {
	Version string         `json:"version"`
	Input   map[string]any `json:"input"`
}

// Create submits a new prediction job
func (c *Client) Create(ctx context.Context, input Input) (*Prediction, error) {
	payload := map[string]any{
		"prompt":        input.Prompt,
		"aspect_ratio":  "1:1",
		"output_format": "jpg",
	}
	if input.ImageURL != "" {
		payload["image_input"] = []string{input.ImageURL}
		payload["aspect_ratio"] = "match_input_image"
	}

	body, err := json.Marshal(createRequest{Version: c.modelVersion, Input: payload})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	return c.do(ctx, http.MethodPost, c.baseURL+"/predictions", bytes.NewReader(body))
}

// Get fetches the current state of a prediction
func (c *Client) Get(ctx context.Context, id string) (*Prediction, error) {
	return c.do(ctx, http.MethodGet, c.baseURL+"/predictions/"+id, nil)
}

// Wait polls a prediction at a fixed interval until it reaches a terminal
// state: pollInterval between attempts, pollAttempts total, cancellable via
// ctx. A failed or canceled terminal state is ErrGenerationFailed; running
// out of attempts is ErrPollTimeout.
func (c *Client) Wait(ctx context.Context, id string) (*Prediction, error) {
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for attempt := 0; attempt < c.pollAttempts; attempt++ {
		pred, err := c.Get(ctx, id)
		if err != nil {
			return nil, err
		}

		if pred.Terminal() {
			if pred.Status == StatusSucceeded {
				return pred, nil
			}
			detail := pred.Status
			if pred.Error != nil && *pred.Error != "" {
				detail = *pred.Error
			}
			return pred, fmt.Errorf("%w: %s", ErrGenerationFailed, detail)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}

	return nil, fmt.Errorf("%w: no terminal state after %d attempts", ErrPollTimeout, c.pollAttempts)
}

func (c *Client) do(ctx context.Context, method, url string, body io.Reader) (*Prediction, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn("provider returned error", "status", resp.StatusCode, "body", string(respBody))
		return nil, fmt.Errorf("%w: status=%d body=%s", ErrUpstream, resp.StatusCode, string(respBody))
	}

	var pred Prediction
	if err := json.Unmarshal(respBody, &pred); err != nil {
		return nil, fmt.Errorf("failed to decode prediction: %w", err)
	}

	return &pred, nil
}
