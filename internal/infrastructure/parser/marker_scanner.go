package parser

import (
	"context"
	"fmt"
	"strings"

	"JournalHarvester/internal/domain"
	"JournalHarvester/internal/extract"
	"JournalHarvester/internal/scanner"
)

// MarkerScanner finds item keys between literal markers, e.g. the
// `/articles/s` ... `"` anchors of nature.com search pages.
type MarkerScanner struct{}

var _ scanner.Scanner = MarkerScanner{}

// NewMarkerScanner returns the marker strategy.
func NewMarkerScanner() MarkerScanner {
	return MarkerScanner{}
}

// Name identifies the strategy inside the registry.
func (MarkerScanner) Name() string {
	return "marker"
}

// Scan returns the keys in document order. A page without anchors yields an
// empty slice.
func (MarkerScanner) Scan(_ context.Context, listing scanner.Listing) ([]domain.ListingItem, error) {
	if listing.ItemStart == "" || listing.ItemEnd == "" {
		return nil, fmt.Errorf("site %s: marker scanner needs itemStart and itemEnd", listing.Site)
	}

	keys := extract.Anchors(listing.Body, listing.ItemStart, listing.ItemEnd)
	items := make([]domain.ListingItem, 0, len(keys))
	for _, key := range keys {
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		items = append(items, domain.ListingItem{ID: key})
	}
	return items, nil
}
