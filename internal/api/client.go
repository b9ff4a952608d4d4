package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"fitmrp-client/internal/auth"
	"fitmrp-client/internal/logger"
	"fitmrp-client/internal/metrics"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	defaultTimeout = 15 * time.Second
	maxBodyBytes   = 4 << 20
)

// Client talks to the FitMRP REST API. It holds no user state; callers pass
// the session on every authenticated call.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	stats      *metrics.CallStats
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithRateLimit throttles outbound requests; rps <= 0 disables throttling.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// ----------------- Constructor -----------------

func NewClient(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		logger.L().Warn("API base URL is empty")
	}

	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		stats: &metrics.CallStats{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) BaseURL() string { return c.baseURL }

func (c *Client) Stats() metrics.Snapshot { return c.stats.Snapshot() }

// ----------------- Transport -----------------

type call struct {
	op      string
	method  string
	path    string
	session *auth.Session
	body    any
	out     any
	headers map[string]string
}

func (c *Client) do(ctx context.Context, cl call) error {
	ctx, reqID := logger.EnsureRequestID(ctx)
	log := logger.FromCtx(ctx).With(
		zap.String("op", cl.op),
		zap.String("method", cl.method),
		zap.String("path", cl.path),
	)

	timer := metrics.StartTimer()
	err := c.send(ctx, cl, reqID, log)
	c.stats.Observe(timer.Duration(), err != nil)

	if err != nil {
		log.Error("API call failed", zap.Duration("duration", timer.Duration()), zap.Error(err))
		return err
	}
	log.Debug("API call succeeded", zap.Duration("duration", timer.Duration()))
	return nil
}

func (c *Client) send(ctx context.Context, cl call, reqID string, log *zap.Logger) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return &NetworkError{Op: cl.op, Err: err}
		}
	}

	var body io.Reader
	if cl.body != nil {
		jsonBody, err := json.Marshal(cl.body)
		if err != nil {
			return fmt.Errorf("%s: marshal request: %w", cl.op, err)
		}
		body = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, c.baseURL+cl.path, body)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", cl.op, err)
	}

	req.Header.Set("Accept", "application/json")
	if cl.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set(logger.RequestIDHeader, reqID)
	if h := cl.session.Authorization(); h != "" {
		req.Header.Set("Authorization", h)
	}
	for k, v := range cl.headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &NetworkError{Op: cl.op, Err: err}
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return &NetworkError{Op: cl.op, Err: fmt.Errorf("read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Warn("API returned non-success status",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("response", truncate(bodyBytes, 512)),
		)
		return &ServerError{
			Op:         cl.op,
			StatusCode: resp.StatusCode,
			Message:    errorMessage(bodyBytes),
			Body:       bodyBytes,
		}
	}

	if cl.out == nil || len(bytes.TrimSpace(bodyBytes)) == 0 {
		return nil
	}
	if err := json.Unmarshal(bodyBytes, cl.out); err != nil {
		return &DecodeError{Op: cl.op, Err: err}
	}
	return nil
}

func truncate(b []byte, n int) []byte {
	if len(b) <= n {
		return b
	}
	return b[:n]
}
