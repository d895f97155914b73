// Package catalog is the typed gateway to the book catalog REST service.
//
// Every call is rate limited, tagged with an X-Request-ID, logged at debug level, and
// returns either a decoded value or a single *Error. Nothing is retried.
package catalog

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/listenupapp/bookfinder/internal/ratelimit"
)

const (
	defaultTimeout = 10 * time.Second
	defaultRPS     = 5.0
	defaultBurst   = 3

	// Cover probes get their own bucket so they never delay user fetches.
	coverBurst = 4

	// Cap on error bodies read for a detail message.
	maxErrorBody = 64 << 10

	userAgent = "bookfinder/1.0"
)

// Options configures a Client.
type Options struct {
	BaseURL string
	Timeout time.Duration
	RPS     float64
	// HTTPClient overrides the default client. Timeout is ignored when set.
	HTTPClient *http.Client
}

// Client is a rate-limited catalog API client.
type Client struct {
	http    *http.Client
	baseURL string
	limiter *ratelimit.Keyed
	logger  *slog.Logger
}

// New creates a catalog client for the service at opts.BaseURL.
func New(opts Options, logger *slog.Logger) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.RPS <= 0 {
		opts.RPS = defaultRPS
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}

	return &Client{
		http:    httpClient,
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		limiter: ratelimit.New(opts.RPS, defaultBurst,
			ratelimit.WithKeyLimit(ratelimit.KeyCovers, ratelimit.Limit{RPS: opts.RPS, Burst: coverBurst}),
		),
		logger: logger,
	}
}

// BaseURL returns the service address the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Close releases resources held by the client.
func (c *Client) Close() {
	c.limiter.Stop()
}

// detailBody is the error envelope the catalog service returns.
type detailBody struct {
	Detail json.RawMessage `json:"detail"`
}

// getJSON performs a GET and decodes a 2xx body into out.
func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	body, err := c.doRequest(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return err
	}
	return decode(path, body, out)
}

// postJSON performs a POST with a JSON body and decodes a 2xx body into out.
func (c *Client) postJSON(ctx context.Context, path string, in, out any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return &Error{Path: path, Err: fmt.Errorf("encode request: %w", err)}
	}

	body, err := c.doRequest(ctx, http.MethodPost, path, nil, payload)
	if err != nil {
		return err
	}
	return decode(path, body, out)
}

func decode(path string, body []byte, out any) error {
	if err := json.Unmarshal(body, out); err != nil {
		return &Error{Path: path, Err: fmt.Errorf("%w: %w", ErrDecode, err)}
	}
	return nil
}

// doRequest executes a request with rate limiting and returns the body of a 2xx response.
func (c *Client) doRequest(ctx context.Context, method, path string, query url.Values, payload []byte) ([]byte, error) {
	if err := c.limiter.Wait(ctx, ratelimit.KeyCatalog); err != nil {
		return nil, transportError(path, err)
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return nil, &Error{Path: path, Err: fmt.Errorf("create request: %w", err)}
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("X-Request-ID", requestID)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.logger.Debug("request",
		"method", method,
		"path", path,
		"request_id", requestID,
	)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		te := transportError(path, err)
		c.logger.Warn("request failed",
			"method", method,
			"path", path,
			"request_id", requestID,
			"error", err,
		)
		return nil, te
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, transportError(path, fmt.Errorf("read response: %w", err))
		}
		c.logger.Debug("response",
			"path", path,
			"status", resp.StatusCode,
			"request_id", requestID,
			"duration", time.Since(start),
		)
		return body, nil
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody)) //nolint:errcheck // Best-effort detail
	ce := &Error{
		Path:   path,
		Status: resp.StatusCode,
		Detail: parseDetail(body),
		Err:    statusError(resp.StatusCode),
	}

	c.logger.Warn("request rejected",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"detail", ce.Detail,
		"request_id", requestID,
	)

	return nil, ce
}

// parseDetail extracts a message from {"detail": ...}. A string detail is used as is.
// A list of validation entries yields the first entry's msg.
func parseDetail(body []byte) string {
	var env detailBody
	if len(body) == 0 || json.Unmarshal(body, &env) != nil || len(env.Detail) == 0 {
		return ""
	}

	var s string
	if json.Unmarshal(env.Detail, &s) == nil {
		return strings.TrimSpace(s)
	}

	var entries []struct {
		Msg string `json:"msg"`
	}
	if json.Unmarshal(env.Detail, &entries) == nil && len(entries) > 0 {
		return strings.TrimSpace(entries[0].Msg)
	}

	return ""
}
