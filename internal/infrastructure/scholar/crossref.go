package scholar

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"

	"JournalHarvester/internal/domain"
	"JournalHarvester/internal/ports"
)

// CrossrefOptions configures the bibliographic catalog.
type CrossrefOptions struct {
	Endpoint string
	Mailto   string
}

// CrossrefClient reports how many works a journal published in a year.
type CrossrefClient struct {
	rest     *resty.Client
	endpoint string
	mailto   string
	limiter  *rate.Limiter
}

var _ ports.CountSource = (*CrossrefClient)(nil)

type crossrefWorks struct {
	Message struct {
		TotalResults int `json:"total-results"`
	} `json:"message"`
}

// NewCrossrefClient builds the client; httpClient and limiter may be nil.
func NewCrossrefClient(opts CrossrefOptions, httpClient *http.Client, limiter *rate.Limiter) *CrossrefClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &CrossrefClient{
		rest:     resty.NewWithClient(httpClient).SetHeader("Accept", "application/json"),
		endpoint: strings.TrimSuffix(opts.Endpoint, "/"),
		mailto:   opts.Mailto,
		limiter:  limiter,
	}
}

// ExpectedCount asks for zero rows and reads message.total-results.
func (c *CrossrefClient) ExpectedCount(ctx context.Context, issn string, year int) (int, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return 0, fmt.Errorf("wait rate limiter: %w", err)
		}
	}

	params := map[string]string{
		"filter": fmt.Sprintf("from-pub-date:%d-01-01,until-pub-date:%d-12-31", year, year),
		"rows":   "0",
	}
	if c.mailto != "" {
		params["mailto"] = c.mailto
	}

	var works crossrefWorks
	resp, err := c.rest.R().
		SetContext(ctx).
		SetPathParam("issn", issn).
		SetQueryParams(params).
		SetResult(&works).
		Get(c.endpoint + "/journals/{issn}/works")
	if err != nil {
		return 0, fmt.Errorf("count works %s %d: %w", issn, year, err)
	}
	if resp.IsError() {
		return 0, fmt.Errorf("count works %s %d: status %s: %w", issn, year, resp.Status(), domain.ErrUnavailable)
	}

	return works.Message.TotalResults, nil
}
