package scholar

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"

	"JournalHarvester/internal/domain"
	"JournalHarvester/internal/ports"
)

// SemanticOptions configures the paper search endpoint.
type SemanticOptions struct {
	Endpoint string
	APIKey   string
	Fields   string
	PageSize int
}

// SemanticClient pages through the Semantic Scholar paper search.
type SemanticClient struct {
	rest     *resty.Client
	endpoint string
	fields   string
	pageSize int
	limiter  *rate.Limiter
	logger   *slog.Logger
}

var _ ports.MetadataSource = (*SemanticClient)(nil)

type semanticPage struct {
	Data []semanticPaper `json:"data"`
}

type semanticPaper struct {
	Title       string           `json:"title"`
	URL         string           `json:"url"`
	Year        int              `json:"year"`
	Venue       string           `json:"venue"`
	Abstract    string           `json:"abstract"`
	Authors     []semanticAuthor `json:"authors"`
	ExternalIDs map[string]any   `json:"externalIds"`
}

type semanticAuthor struct {
	Name string `json:"name"`
}

// NewSemanticClient builds the client; httpClient and limiter may be nil.
func NewSemanticClient(opts SemanticOptions, httpClient *http.Client, limiter *rate.Limiter, logger *slog.Logger) *SemanticClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if opts.PageSize <= 0 {
		opts.PageSize = 100
	}

	rest := resty.NewWithClient(httpClient).SetHeader("Accept", "application/json")
	if opts.APIKey != "" {
		rest.SetHeader("x-api-key", opts.APIKey)
	}

	return &SemanticClient{
		rest:     rest,
		endpoint: opts.Endpoint,
		fields:   opts.Fields,
		pageSize: opts.PageSize,
		limiter:  limiter,
		logger:   logger,
	}
}

// Papers returns every paper of journal in year. Paging advances by the page
// size until an empty page. A failing page ends the walk and the papers
// gathered so far are returned together with the error.
func (c *SemanticClient) Papers(ctx context.Context, journal string, year int) ([]domain.MetadataRecord, error) {
	query := fmt.Sprintf(`venue:"%s" year:%d`, journal, year)

	var records []domain.MetadataRecord
	for offset := 0; ; offset += c.pageSize {
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return records, fmt.Errorf("wait rate limiter: %w", err)
			}
		}

		var page semanticPage
		resp, err := c.rest.R().
			SetContext(ctx).
			SetQueryParams(map[string]string{
				"query":  query,
				"fields": c.fields,
				"limit":  strconv.Itoa(c.pageSize),
				"offset": strconv.Itoa(offset),
			}).
			SetResult(&page).
			Get(c.endpoint)
		if err != nil {
			return records, fmt.Errorf("search %s %d offset %d: %w", journal, year, offset, err)
		}
		if resp.IsError() {
			return records, fmt.Errorf("search %s %d offset %d: status %s: %w", journal, year, offset, resp.Status(), domain.ErrUnavailable)
		}

		if len(page.Data) == 0 {
			return records, nil
		}
		for _, paper := range page.Data {
			records = append(records, paper.record(journal, year))
		}
		c.debug("semantic page", "journal", journal, "year", year, "offset", offset, "papers", len(page.Data))
	}
}

func (p semanticPaper) record(journal string, year int) domain.MetadataRecord {
	names := make([]string, 0, len(p.Authors))
	for _, a := range p.Authors {
		names = append(names, a.Name)
	}

	doi, _ := p.ExternalIDs["DOI"].(string)
	if p.Year != 0 {
		year = p.Year
	}

	return domain.MetadataRecord{
		Journal:  journal,
		Title:    p.Title,
		Year:     year,
		Authors:  strings.Join(names, ", "),
		DOI:      doi,
		URL:      p.URL,
		Abstract: p.Abstract,
	}
}

func (c *SemanticClient) debug(msg string, args ...interface{}) {
	if c.logger != nil {
		c.logger.Debug(msg, args...)
	}
}
