package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"customer-sync/internal/config"
	"customer-sync/internal/dto"
)

var (
	ErrUpstreamUnavailable     = errors.New("upstream unavailable")
	ErrUpstreamInvalidResponse = errors.New("upstream returned an invalid response")
)

const upstreamServiceName = "customer_upstream"

// AuthTransport adds the provider credentials to every outgoing request.
type AuthTransport struct {
	apiKey string
	base   http.RoundTripper
}

func (t *AuthTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())

	if t.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+t.apiKey)
	}
	req.Header.Set("Accept", "application/json")

	return t.base.RoundTrip(req)
}

// UpstreamClient reads customer pages from the provider endpoint
type UpstreamClient struct {
	baseURL string
	client  *http.Client
	breaker CircuitBreakerInterface
	metrics MetricsRecorderInterface
	logger  *slog.Logger
}

// NewUpstreamClient creates a client for the configured provider endpoint
func NewUpstreamClient(
	cfg *config.UpstreamConfig,
	breaker CircuitBreakerInterface,
	metrics MetricsRecorderInterface,
	logger *slog.Logger,
) UpstreamClientInterface {

	transport := &AuthTransport{
		apiKey: cfg.APIKey,
		base:   http.DefaultTransport,
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &UpstreamClient{
		baseURL: cfg.BaseURL,
		client: &http.Client{
			Transport: transport,
			Timeout:   timeout,
		},
		breaker: breaker,
		metrics: metrics,
		logger:  logger,
	}
}

func (c *UpstreamClient) buildRequest(ctx context.Context, page, limit int) (*http.Request, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse upstream url: %w", err)
	}

	q := u.Query()
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	return req, nil
}

func (c *UpstreamClient) do(req *http.Request) (*http.Response, []byte, error) {
	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Error(
			"upstream request failed",
			"method", req.Method,
			"url", req.URL.String(),
			"error", err,
		)
		return nil, nil, err
	}

	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()

	if err != nil {
		return nil, nil, fmt.Errorf("read response body: %w", err)
	}

	return resp, body, nil
}

// FetchPage requests one page. Transport failures and non-2xx statuses
// wrap ErrUpstreamUnavailable; undecodable bodies wrap ErrUpstreamInvalidResponse.
func (c *UpstreamClient) FetchPage(ctx context.Context, page, limit int) (*dto.UpstreamCustomerPage, error) {
	if c.breaker != nil && c.breaker.IsOpen() {
		c.incrementCounter("upstream_request", map[string]string{"status": "rejected"})
		return nil, fmt.Errorf("%w: %w", ErrUpstreamUnavailable, ErrCircuitBreakerOpen)
	}

	req, err := c.buildRequest(ctx, page, limit)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	resp, body, err := c.do(req)
	c.recordDuration(time.Since(start))
	if err != nil {
		c.recordFailure(ctx)
		return nil, fmt.Errorf("%w: page %d: %w", ErrUpstreamUnavailable, page, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.recordFailure(ctx)
		c.logger.Error(
			"upstream returned error status",
			"status", resp.StatusCode,
			"page", page,
			"body", truncate(string(body), 256),
		)
		return nil, fmt.Errorf("%w: page %d: status %d", ErrUpstreamUnavailable, page, resp.StatusCode)
	}

	var result dto.UpstreamCustomerPage
	if err := json.Unmarshal(body, &result); err != nil {
		c.recordSuccess()
		c.incrementCounter("upstream_request", map[string]string{"status": "invalid"})
		return nil, fmt.Errorf("%w: page %d: %w", ErrUpstreamInvalidResponse, page, err)
	}

	c.recordSuccess()
	c.incrementCounter("upstream_request", map[string]string{"status": "success"})

	return &result, nil
}

func (c *UpstreamClient) recordFailure(ctx context.Context) {
	c.incrementCounter("upstream_request", map[string]string{"status": "failed"})
	if c.breaker == nil {
		return
	}

	before := c.breaker.GetState()
	c.breaker.RecordFailure()
	after := c.breaker.GetState()

	if before != after {
		c.logger.WarnContext(ctx, "upstream circuit breaker state changed",
			slog.String("event_type", "circuit_breaker_state_change"),
			slog.String("service", upstreamServiceName),
			slog.String("old_state", before.String()),
			slog.String("new_state", after.String()),
		)
	}
	if c.metrics != nil {
		c.metrics.RecordGauge("circuit_breaker_state", float64(after), map[string]string{"service": upstreamServiceName})
	}
}

func (c *UpstreamClient) recordSuccess() {
	if c.breaker == nil {
		return
	}
	c.breaker.RecordSuccess()
	if c.metrics != nil {
		c.metrics.RecordGauge("circuit_breaker_state", float64(c.breaker.GetState()), map[string]string{"service": upstreamServiceName})
	}
}

func (c *UpstreamClient) incrementCounter(name string, tags map[string]string) {
	if c.metrics != nil {
		c.metrics.IncrementCounter(name, tags)
	}
}

func (c *UpstreamClient) recordDuration(d time.Duration) {
	if c.metrics != nil {
		c.metrics.RecordProcessingTime("upstream_request", d)
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
