package detector

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"

	"JournalHarvester/internal/domain"
	"JournalHarvester/internal/ports"
)

// DefaultMaxChars is the input limit of the detection endpoint.
const DefaultMaxChars = 15000

// Options configures the detection endpoint.
type Options struct {
	Endpoint string
	APIKey   string
	MaxChars int
}

// Client posts article text to an AI-text detection endpoint.
type Client struct {
	rest     *resty.Client
	endpoint string
	maxChars int
	limiter  *rate.Limiter
	logger   *slog.Logger
}

var _ ports.Detector = (*Client)(nil)

// New builds a client on top of httpClient (nil means http.DefaultClient).
// limiter may be nil.
func New(opts Options, httpClient *http.Client, limiter *rate.Limiter, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if opts.MaxChars <= 0 {
		opts.MaxChars = DefaultMaxChars
	}

	rest := resty.NewWithClient(httpClient).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	if opts.APIKey != "" {
		rest.SetHeader("ApiKey", opts.APIKey)
	}

	return &Client{
		rest:     rest,
		endpoint: opts.Endpoint,
		maxChars: opts.MaxChars,
		limiter:  limiter,
		logger:   logger,
	}
}

// Detect classifies text. Transport failures and non-2xx statuses are
// errors; a body that cannot be decoded yields an all-nil verdict.
func (c *Client) Detect(ctx context.Context, text string) (domain.Detection, error) {
	if c.endpoint == "" {
		return domain.Detection{}, fmt.Errorf("detector endpoint is not configured")
	}
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return domain.Detection{}, fmt.Errorf("wait rate limiter: %w", err)
		}
	}

	resp, err := c.rest.R().
		SetContext(ctx).
		SetBody(map[string]string{"input_text": Truncate(text, c.maxChars)}).
		Post(c.endpoint)
	if err != nil {
		return domain.Detection{}, fmt.Errorf("post detection: %w", err)
	}
	if resp.IsError() {
		return domain.Detection{}, fmt.Errorf("detection endpoint returned %s: %w", resp.Status(), domain.ErrUnavailable)
	}

	verdict, ok := ParseVerdict(resp.Body())
	if !ok {
		c.debug("malformed detection response", "status", resp.StatusCode(), "bytes", len(resp.Body()))
	}
	return verdict, nil
}

// Truncate keeps the first limit characters of text.
func Truncate(text string, limit int) string {
	if limit <= 0 {
		return text
	}
	n := 0
	for i := range text {
		if n == limit {
			return text[:i]
		}
		n++
	}
	return text
}

// ParseVerdict decodes {"data": {...}}. Missing or mistyped fields stay nil;
// ok is false when the envelope itself is unusable.
func ParseVerdict(body []byte) (domain.Detection, bool) {
	var envelope struct {
		Data map[string]json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || envelope.Data == nil {
		return domain.Detection{}, false
	}

	data := envelope.Data
	return domain.Detection{
		IsHuman:        boolField(data["isHuman"]),
		FakePercentage: floatField(data["fakePercentage"]),
		AIWords:        intField(data["aiWords"]),
		TextWords:      intField(data["textWords"]),
	}, true
}

func boolField(raw json.RawMessage) *bool {
	if isNull(raw) {
		return nil
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return &b
	}
	if f := floatField(raw); f != nil && (*f == 0 || *f == 1) {
		v := *f == 1
		return &v
	}
	return nil
}

func floatField(raw json.RawMessage) *float64 {
	if isNull(raw) {
		return nil
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil
		}
		if _, err := fmt.Sscanf(strings.TrimSpace(s), "%g", &f); err != nil {
			return nil
		}
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

func intField(raw json.RawMessage) *int {
	f := floatField(raw)
	if f == nil || *f != math.Trunc(*f) {
		return nil
	}
	v := int(*f)
	return &v
}

func isNull(raw json.RawMessage) bool {
	trimmed := strings.TrimSpace(string(raw))
	return trimmed == "" || trimmed == "null"
}

func (c *Client) debug(msg string, args ...interface{}) {
	if c.logger != nil {
		c.logger.Debug(msg, args...)
	}
}
