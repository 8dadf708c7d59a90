// Package apiclient issues GET requests against the summary API's base URL.
// Calls are single best-effort requests: no retries and no caching.
package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

// maxErrorBody caps the response excerpt kept on status errors
const maxErrorBody = 512

// maxResponseBody caps how much of a response is read
const maxResponseBody = 1 << 20

const defaultUserAgent = "player-summary/1.0"

// Prometheus metrics
var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "player_summary_api_requests_total",
		Help: "Total number of summary API requests by outcome",
	}, []string{"outcome"})

	requestDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "player_summary_api_request_duration_seconds",
		Help:    "Duration of summary API requests",
		Buckets: prometheus.DefBuckets,
	})
)

// Result is delivered once on the channel returned by Go
type Result struct {
	Body json.RawMessage
	Err  error
}

// Config configures the client
type Config struct {
	// BaseURL is the absolute origin (plus optional path prefix) that
	// request paths are appended to.
	BaseURL string
	// Timeout applies per request. Zero means no timeout.
	Timeout    time.Duration
	UserAgent  string
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// Client issues GET requests against one base URL
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	logger     *zap.SugaredLogger
}

// New resolves the base URL once; it is reused for every call.
func New(cfg Config) (*Client, error) {
	base, err := resolveBaseURL(cfg.BaseURL)
	if err != nil {
		return nil, err
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		baseURL:    base,
		userAgent:  userAgent,
		httpClient: httpClient,
		logger:     logger.Sugar(),
	}, nil
}

func resolveBaseURL(raw string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", fmt.Errorf("parsing base url %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("base url %q: scheme must be http or https", raw)
	}
	if u.Host == "" {
		return "", fmt.Errorf("base url %q: missing host", raw)
	}
	return strings.TrimRight(u.String(), "/"), nil
}

// BaseURL returns the resolved base URL
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Get issues one GET for baseURL+path and returns the JSON body.
// Failures are returned as *Error.
func (c *Client) Get(ctx context.Context, path string) (json.RawMessage, error) {
	start := time.Now()
	body, err := c.get(ctx, path)
	requestDuration.Observe(time.Since(start).Seconds())

	outcome := "ok"
	if err != nil {
		outcome = KindOf(err).String()
	}
	requestsTotal.WithLabelValues(outcome).Inc()

	return body, err
}

// Go runs Get in its own goroutine. Exactly one Result is sent before the
// channel is closed; the send never blocks, so callers may stop listening.
func (c *Client) Go(ctx context.Context, path string) <-chan Result {
	out := make(chan Result, 1)
	go func() {
		defer close(out)
		body, err := c.Get(ctx, path)
		out <- Result{Body: body, Err: err}
	}()
	return out
}

func (c *Client) get(ctx context.Context, path string) (json.RawMessage, error) {
	requestID := uuid.NewString()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, &Error{Kind: KindTransport, Path: path, Err: fmt.Errorf("creating request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", requestID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warnw("Summary API request failed", "path", path, "request_id", requestID, "error", err)
		return nil, &Error{Kind: KindTransport, Path: path, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody+1))
	if err != nil {
		c.logger.Warnw("Failed to read summary API response", "path", path, "request_id", requestID, "error", err)
		return nil, &Error{Kind: KindTransport, Path: path, Err: fmt.Errorf("reading body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		excerpt := string(body)
		if len(excerpt) > maxErrorBody {
			excerpt = excerpt[:maxErrorBody]
		}
		c.logger.Warnw("Summary API returned error status", "path", path, "request_id", requestID, "status", resp.StatusCode)
		return nil, &Error{Kind: KindStatus, Path: path, StatusCode: resp.StatusCode, Body: excerpt}
	}

	if len(body) > maxResponseBody {
		c.logger.Warnw("Summary API response too large", "path", path, "request_id", requestID, "limit", maxResponseBody)
		return nil, &Error{Kind: KindDecode, Path: path, Err: fmt.Errorf("response exceeds %d bytes", maxResponseBody)}
	}

	if !json.Valid(body) {
		c.logger.Warnw("Summary API returned invalid JSON", "path", path, "request_id", requestID, "bytes", len(body))
		return nil, &Error{Kind: KindDecode, Path: path, Err: errors.New("response is not valid JSON")}
	}

	c.logger.Debugw("Summary API request completed", "path", path, "request_id", requestID, "status", resp.StatusCode)
	return json.RawMessage(body), nil
}
