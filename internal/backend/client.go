// Package backend is the HTTP transport to the classification backend.
package backend

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"huntdash/internal/model"
	"huntdash/internal/parse"
	"huntdash/internal/present"
	"huntdash/internal/util/logx"
	"huntdash/internal/version"
)

const (
	DefaultBaseURL = "http://localhost:8000"
	maxBodyBytes   = 32 << 20

	maxErrorBodyRunes = 200
)

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Code   int
	Status string
	Body   string
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("HTTP %d %s", e.Code, http.StatusText(e.Code))
	if b := strings.TrimSpace(strings.ToValidUTF8(e.Body, "\uFFFD")); b != "" {
		msg += ": " + present.Truncate(b, maxErrorBodyRunes)
	}
	return msg
}

type Options struct {
	BaseURL string
	Timeout time.Duration
	// RatePerSecond caps outgoing requests; zero or negative disables the cap.
	RatePerSecond float64
	Burst         int
	HTTPClient    *http.Client
}

type Client struct {
	base    string
	http    *http.Client
	limiter *rate.Limiter
}

func New(opts Options) (*Client, error) {
	base := strings.TrimSpace(opts.BaseURL)
	if base == "" {
		base = DefaultBaseURL
	}
	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("invalid backend url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("backend url scheme must be http or https, got %q", u.Scheme)
	}
	hc := opts.HTTPClient
	if hc == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		hc = &http.Client{Timeout: timeout}
	}
	limit := rate.Inf
	burst := opts.Burst
	if opts.RatePerSecond > 0 {
		limit = rate.Limit(opts.RatePerSecond)
		if burst < 1 {
			burst = 1
		}
	}
	return &Client{
		base:    strings.TrimRight(base, "/"),
		http:    hc,
		limiter: rate.NewLimiter(limit, burst),
	}, nil
}

// BaseURL is the origin every request targets.
func (c *Client) BaseURL() string { return c.base }

type ScanParams struct {
	Subreddit  string
	Keyword    string
	TimeFilter string
	Limit      int
}

type TaskParams struct {
	Subreddits string
	TimeFilter string
	Limit      int
}

func (c *Client) Scan(ctx context.Context, p ScanParams) (model.ScanResponse, error) {
	q := url.Values{}
	q.Set("subreddit", strings.TrimSpace(p.Subreddit))
	q.Set("keyword", strings.TrimSpace(p.Keyword))
	q.Set("limit", strconv.Itoa(p.Limit))
	q.Set("time_filter", p.TimeFilter)
	body, err := c.do(ctx, http.MethodGet, "/api/scan", q)
	if err != nil {
		return model.ScanResponse{}, err
	}
	return parse.Scan(body)
}

func (c *Client) Tasks(ctx context.Context, p TaskParams) (model.TaskResponse, error) {
	q := url.Values{}
	q.Set("subreddits", strings.TrimSpace(p.Subreddits))
	q.Set("limit", strconv.Itoa(p.Limit))
	q.Set("time_filter", p.TimeFilter)
	body, err := c.do(ctx, http.MethodGet, "/api/tasks", q)
	if err != nil {
		return model.TaskResponse{}, err
	}
	return parse.Tasks(body)
}

func (c *Client) StartScheduler(ctx context.Context) (model.SchedulerStatus, error) {
	body, err := c.do(ctx, http.MethodPost, "/api/scheduler/start", nil)
	if err != nil {
		return model.SchedulerStatus{}, err
	}
	return parse.Scheduler(body)
}

func (c *Client) StopScheduler(ctx context.Context) (model.SchedulerStatus, error) {
	body, err := c.do(ctx, http.MethodPost, "/api/scheduler/stop", nil)
	if err != nil {
		return model.SchedulerStatus{}, err
	}
	return parse.Scheduler(body)
}

func (c *Client) ScanNow(ctx context.Context) (model.ScanNowResult, error) {
	body, err := c.do(ctx, http.MethodPost, "/api/tasks/scan-now", nil)
	if err != nil {
		return model.ScanNowResult{}, err
	}
	return parse.ScanNow(body)
}

func (c *Client) ClearCache(ctx context.Context) (model.ClearCacheResult, error) {
	body, err := c.do(ctx, http.MethodPost, "/api/tasks/clear-cache", nil)
	if err != nil {
		return model.ClearCacheResult{}, err
	}
	return parse.ClearCache(body)
}

func (c *Client) Health(ctx context.Context) (model.HealthStatus, error) {
	body, err := c.do(ctx, http.MethodGet, "/api/health", nil)
	if err != nil {
		return model.HealthStatus{}, err
	}
	return parse.Health(body)
}

func (c *Client) do(ctx context.Context, method, path string, q url.Values) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("waiting for request slot: %w", err)
	}
	target := c.base + path
	if len(q) > 0 {
		target += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, target, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "huntdash/"+version.Version)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		logx.Warnf("backend: %s %s failed: %v", method, path, err)
		return nil, unwrapURLError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", path, err)
	}
	logx.Debugf("backend: %s %s -> %d (%d bytes, %s)", method, path, resp.StatusCode, len(body), time.Since(start).Round(time.Millisecond))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Code: resp.StatusCode, Status: resp.Status, Body: string(body)}
	}
	return body, nil
}

// unwrapURLError keeps the transport cause but drops the repeated
// method and URL prefix *url.Error adds, so messages stay short in the UI.
func unwrapURLError(err error) error {
	var ue *url.Error
	if errors.As(err, &ue) {
		if ue.Timeout() {
			return fmt.Errorf("request timed out: %w", ue.Err)
		}
		return ue.Err
	}
	return err
}
