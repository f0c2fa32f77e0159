package parser

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"JournalHarvester/internal/config"
	"JournalHarvester/internal/domain"
	"JournalHarvester/internal/ports"
	"JournalHarvester/internal/scanner"
)

// StrategySource implements ListingSource for one configured site by fetching
// the templated listing URL and running the site's scanner strategy.
type StrategySource struct {
	registry *scanner.Registry
	fetcher  ports.Fetcher
	site     config.SiteConfig
	logger   *slog.Logger
}

var _ ports.ListingSource = (*StrategySource)(nil)

// NewStrategySource wires the scanner registry with a config-defined site.
func NewStrategySource(reg *scanner.Registry, fetcher ports.Fetcher, site config.SiteConfig, log *slog.Logger) *StrategySource {
	return &StrategySource{
		registry: reg,
		fetcher:  fetcher,
		site:     site,
		logger:   log,
	}
}

// Listing fetches the listing page of coord and returns its items with the
// identifier and detail URL derived from the site templates. Fetch failures
// are returned unchanged so callers can test for domain.ErrUnavailable.
func (s *StrategySource) Listing(ctx context.Context, coord domain.Coordinate) ([]domain.ListingItem, error) {
	if s.registry == nil {
		return nil, fmt.Errorf("scanner registry is not configured")
	}

	name := s.site.Listing.Scanner
	if name == "" {
		name = "marker"
	}
	strategy, err := s.registry.Resolve(name)
	if err != nil {
		return nil, fmt.Errorf("site %s: %w", s.site.Name, err)
	}

	listingURL := ListingURL(s.site, coord)
	s.debug("fetch listing", "site", s.site.Name, "coordinate", coord.Name(), "url", listingURL)

	page, err := s.fetcher.Get(ctx, listingURL)
	if err != nil {
		return nil, fmt.Errorf("fetch listing %s: %w", coord.Name(), err)
	}

	found, err := strategy.Scan(ctx, scanner.Listing{
		Site:       s.site.Name,
		BaseURL:    s.site.BaseURL,
		URL:        listingURL,
		Body:       page.Body,
		Coordinate: coord,
		ItemStart:  s.site.Listing.ItemStart,
		ItemEnd:    s.site.Listing.ItemEnd,
		Selector:   s.site.Listing.Selector,
		HrefPrefix: s.site.Listing.HrefPrefix,
	})
	if err != nil {
		return nil, fmt.Errorf("scan site %s: %w", s.site.Name, err)
	}

	items := make([]domain.ListingItem, 0, len(found))
	for _, item := range found {
		items = append(items, ResolveItem(s.site, item))
	}

	s.debug("listing produced items", "site", s.site.Name, "coordinate", coord.Name(), "count", len(items))
	return items, nil
}

// ListingURL expands the listing template of site for coord.
func ListingURL(site config.SiteConfig, coord domain.Coordinate) string {
	year := strconv.Itoa(coord.Year)
	return expand(site.Listing.URLTemplate,
		"{base}", strings.TrimSuffix(site.BaseURL, "/"),
		"{year}", year,
		"{yearFrom}", year,
		"{yearTo}", year,
		"{volume}", strconv.Itoa(coord.Volume),
		"{page}", strconv.Itoa(coord.Page),
	)
}

// ResolveItem turns a raw scanned key into the article identifier and its
// detail URL. Both are deterministic functions of the key and base URL.
func ResolveItem(site config.SiteConfig, item domain.ListingItem) domain.ListingItem {
	key := item.ID
	base := strings.TrimSuffix(site.BaseURL, "/")

	id := key
	if site.Listing.IDTemplate != "" {
		id = expand(site.Listing.IDTemplate, "{key}", key, "{base}", base)
	}

	detail := item.URL
	if site.Listing.DetailTemplate != "" {
		detail = expand(site.Listing.DetailTemplate, "{key}", key, "{base}", base)
	}
	if detail == "" {
		detail = base + "/" + key
	}

	return domain.ListingItem{ID: id, URL: detail}
}

func expand(template string, pairs ...string) string {
	return strings.NewReplacer(pairs...).Replace(template)
}

func (s *StrategySource) debug(msg string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}
