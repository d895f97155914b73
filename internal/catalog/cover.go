package catalog

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"

	"github.com/listenupapp/bookfinder/internal/domain"
	"github.com/listenupapp/bookfinder/internal/ratelimit"
)

// ErrNoCover is returned when asked to probe a URL that is absent or the sentinel.
var ErrNoCover = errors.New("catalog: no cover")

// ProbeCover checks that a cover image URL is reachable. It issues a HEAD request and
// falls back to GET when the host does not allow HEAD. Any non-2xx status or transport
// failure is an error. Probes are paced under their own rate-limit key.
func (c *Client) ProbeCover(ctx context.Context, rawURL string) error {
	if !domain.CoverUsable(rawURL) {
		return &Error{Op: "probeCover", Path: rawURL, Err: ErrNoCover}
	}

	u, err := url.Parse(rawURL)
	if err != nil || !u.IsAbs() {
		return &Error{Op: "probeCover", Path: rawURL, Err: ErrNoCover}
	}

	if err := c.limiter.Wait(ctx, ratelimit.KeyCovers); err != nil {
		return wrapError("probeCover", rawURL, transportError(rawURL, err))
	}

	status, err := c.probe(ctx, http.MethodHead, u.String())
	if err == nil && status == http.StatusMethodNotAllowed {
		status, err = c.probe(ctx, http.MethodGet, u.String())
	}
	if err != nil {
		c.logger.Debug("cover probe failed", "url", rawURL, "error", err)
		return wrapError("probeCover", rawURL, transportError(rawURL, err))
	}

	if status < 200 || status >= 300 {
		c.logger.Debug("cover probe rejected", "url", rawURL, "status", status)
		return &Error{Op: "probeCover", Path: rawURL, Status: status, Err: statusError(status)}
	}

	return nil
}

func (c *Client) probe(ctx context.Context, method, target string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, method, target, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	// Drain a little so the connection can be reused; images are not read in full.
	_, _ = io.CopyN(io.Discard, resp.Body, 4<<10) //nolint:errcheck // Draining only

	return resp.StatusCode, nil
}
