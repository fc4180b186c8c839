package judge0

import (
	"context"
	"log/slog"
	"strings"
	"time"

	apperrors "github.com/SAP-F-2025/coding-assessment/internal/errors"
	"github.com/go-resty/resty/v2"
)

const (
	hostHeader = "X-RapidAPI-Host"
	keyHeader  = "X-RapidAPI-Key"
)

// Client talks to the execution service over HTTP.
type Client struct {
	http   *resty.Client
	logger *slog.Logger
}

// Option configures the client
type Option func(*Client)

// WithTimeout sets the per-request timeout
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.http.SetTimeout(timeout)
	}
}

// WithLogger sets the logger used for request failures
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRestyClient replaces the underlying resty client, keeping the base URL
// and auth headers already configured on it.
func WithRestyClient(rc *resty.Client) Option {
	return func(c *Client) {
		c.http = rc
	}
}

// NewClient creates a client for the submissions endpoint at baseURL.
func NewClient(baseURL, host, apiKey string, opts ...Option) *Client {
	rc := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(30*time.Second).
		SetHeader("Content-Type", "application/json")
	if host != "" {
		rc.SetHeader(hostHeader, host)
	}
	if apiKey != "" {
		rc.SetHeader(keyHeader, apiKey)
	}

	c := &Client{
		http:   rc,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type tokenResponse struct {
	Token string `json:"token"`
}

// Submit queues one execution and returns its token.
func (c *Client) Submit(ctx context.Context, req SubmissionRequest) (string, error) {
	var out tokenResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("base64_encoded", "false").
		SetBody(req).
		SetResult(&out).
		Post("")
	if err != nil {
		c.logger.ErrorContext(ctx, "Execution submit failed", "language_id", req.LanguageID, "error", err)
		return "", apperrors.NewGatewayError("submit", 0, err.Error(), err)
	}
	if resp.IsError() {
		return "", apperrors.NewGatewayError("submit", resp.StatusCode(), "API error: "+resp.Status(), nil)
	}
	if out.Token == "" {
		return "", apperrors.NewGatewayError("submit", resp.StatusCode(), "no token returned from execution service", nil)
	}
	return out.Token, nil
}

// PollResult fetches the current state of a submission.
func (c *Client) PollResult(ctx context.Context, token string) (*ExecutionResult, error) {
	var out ExecutionResult
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("token", token).
		SetQueryParam("base64_encoded", "false").
		SetResult(&out).
		Get("/{token}")
	if err != nil {
		c.logger.ErrorContext(ctx, "Execution poll failed", "token", token, "error", err)
		return nil, apperrors.NewGatewayError("poll", 0, err.Error(), err)
	}
	if resp.IsError() {
		return nil, apperrors.NewGatewayError("poll", resp.StatusCode(), "failed to fetch execution result: "+resp.Status(), nil)
	}
	return &out, nil
}
