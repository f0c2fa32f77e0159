package fetcher

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/time/rate"

	"JournalHarvester/internal/domain"
	"JournalHarvester/internal/metrics"
	"JournalHarvester/internal/ports"
)

// Options tunes retries and pacing.
type Options struct {
	UserAgent  string
	Timeout    time.Duration
	Retries    int
	Backoff    time.Duration
	MaxBackoff time.Duration
	Delay      time.Duration
}

// DefaultOptions mirrors the upstream-friendly defaults: five retries with a
// one second exponential backoff base and one second between calls.
func DefaultOptions() Options {
	return Options{
		UserAgent:  "JournalHarvester/1.0",
		Timeout:    15 * time.Second,
		Retries:    5,
		Backoff:    time.Second,
		MaxBackoff: 30 * time.Second,
		Delay:      time.Second,
	}
}

// UnavailableError is returned when no usable 2xx body could be obtained.
type UnavailableError struct {
	URL    string
	Status int
	Err    error
}

func (e *UnavailableError) Error() string {
	switch {
	case e.Err != nil && e.Status != 0:
		return fmt.Sprintf("%s unavailable (status %d): %v", e.URL, e.Status, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s unavailable: %v", e.URL, e.Err)
	default:
		return fmt.Sprintf("%s unavailable (status %d)", e.URL, e.Status)
	}
}

func (e *UnavailableError) Is(target error) bool {
	return target == domain.ErrUnavailable
}

func (e *UnavailableError) Unwrap() error {
	return e.Err
}

// Fetcher performs paced GET requests with retry on transient statuses.
type Fetcher struct {
	client    *retryablehttp.Client
	limiter   *rate.Limiter
	userAgent string
	logger    *slog.Logger
	metrics   *metrics.Recorder
}

var _ ports.Fetcher = (*Fetcher)(nil)

// New wires the retrying client; logger and recorder may be nil.
func New(opts Options, logger *slog.Logger, rec *metrics.Recorder) *Fetcher {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultOptions().Timeout
	}
	if opts.Retries < 0 {
		opts.Retries = 0
	}
	if opts.MaxBackoff < opts.Backoff {
		opts.MaxBackoff = opts.Backoff
	}

	client := retryablehttp.NewClient()
	client.RetryMax = opts.Retries
	client.RetryWaitMin = opts.Backoff
	client.RetryWaitMax = opts.MaxBackoff
	client.Backoff = clampedBackoff
	client.CheckRetry = retryTransient
	client.ErrorHandler = retryablehttp.PassthroughErrorHandler
	client.HTTPClient.Timeout = opts.Timeout
	client.Logger = nil
	if logger != nil {
		client.Logger = logger
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if opts.Delay > 0 {
		limiter = rate.NewLimiter(rate.Every(opts.Delay), 1)
	}

	return &Fetcher{
		client:    client,
		limiter:   limiter,
		userAgent: opts.UserAgent,
		logger:    logger,
		metrics:   rec,
	}
}

// clampedBackoff is the exponential default, with a server supplied
// Retry-After capped at waitMax.
func clampedBackoff(waitMin, waitMax time.Duration, attempt int, resp *http.Response) time.Duration {
	wait := retryablehttp.DefaultBackoff(waitMin, waitMax, attempt, resp)
	if wait > waitMax {
		return waitMax
	}
	return wait
}

// HTTPClient exposes a standard client sharing the retry policy, for JSON API
// adapters.
func (f *Fetcher) HTTPClient() *http.Client {
	return f.client.StandardClient()
}

// Limiter exposes the pacing limiter so API adapters respect the same delay.
func (f *Fetcher) Limiter() *rate.Limiter {
	return f.limiter
}

// Get fetches url and returns its body on any 2xx status.
func (f *Fetcher) Get(ctx context.Context, url string) (domain.Page, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return domain.Page{}, fmt.Errorf("wait rate limiter: %w", err)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return domain.Page{}, &UnavailableError{URL: url, Err: fmt.Errorf("build request: %w", err)}
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return domain.Page{}, ctxErr
		}
		f.metrics.Fetch("unavailable")
		f.debug("fetch failed", "url", url, "error", err)
		return domain.Page{}, &UnavailableError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		f.metrics.Fetch("unavailable")
		f.debug("fetch rejected", "url", url, "status", resp.StatusCode)
		return domain.Page{}, &UnavailableError{URL: url, Status: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		f.metrics.Fetch("unavailable")
		return domain.Page{}, &UnavailableError{URL: url, Status: resp.StatusCode, Err: fmt.Errorf("read body: %w", err)}
	}

	f.metrics.Fetch("ok")
	return domain.Page{
		URL:         url,
		Status:      resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        string(body),
	}, nil
}

func (f *Fetcher) debug(msg string, args ...interface{}) {
	if f.logger != nil {
		f.logger.Debug(msg, args...)
	}
}

// IsTransient reports whether status is worth retrying.
func IsTransient(status int) bool {
	switch status {
	case http.StatusTooManyRequests, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	}
	return false
}

func retryTransient(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}
	if err != nil {
		return retryablehttp.DefaultRetryPolicy(ctx, resp, err)
	}
	return IsTransient(resp.StatusCode), nil
}
