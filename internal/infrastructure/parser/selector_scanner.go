package parser

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"JournalHarvester/internal/domain"
	"JournalHarvester/internal/scanner"
)

const defaultSelector = "a[href]"

// SelectorScanner collects item links with a CSS selector, arXiv-style
// listings being the typical target (`a[href*="/abs/"]`).
type SelectorScanner struct{}

var _ scanner.Scanner = SelectorScanner{}

// NewSelectorScanner returns the selector strategy.
func NewSelectorScanner() SelectorScanner {
	return SelectorScanner{}
}

// Name identifies the strategy inside the registry.
func (SelectorScanner) Name() string {
	return "selector"
}

// Scan walks the matched links in document order. The key is the href part
// after HrefPrefix; links without the prefix are ignored.
func (SelectorScanner) Scan(_ context.Context, listing scanner.Listing) ([]domain.ListingItem, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(listing.Body))
	if err != nil {
		return nil, fmt.Errorf("parse listing %s: %w", listing.URL, err)
	}

	selector := listing.Selector
	if selector == "" {
		selector = defaultSelector
	}

	var items []domain.ListingItem
	doc.Find(selector).Each(func(_ int, link *goquery.Selection) {
		href, ok := link.Attr("href")
		if !ok {
			return
		}
		key, ok := keyFromHref(href, listing.HrefPrefix)
		if !ok {
			return
		}
		items = append(items, domain.ListingItem{
			ID:  key,
			URL: absoluteURL(listing.BaseURL, href),
		})
	})

	return items, nil
}

func keyFromHref(href, prefix string) (string, bool) {
	href = strings.TrimSpace(href)
	if prefix != "" {
		idx := strings.Index(href, prefix)
		if idx < 0 {
			return "", false
		}
		href = href[idx+len(prefix):]
	}
	if cut := strings.IndexAny(href, "?#"); cut >= 0 {
		href = href[:cut]
	}
	href = strings.Trim(href, "/")
	return href, href != ""
}

func absoluteURL(base, href string) string {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return href
	}
	if ref.IsAbs() || base == "" {
		return ref.String()
	}
	root, err := url.Parse(base)
	if err != nil {
		return href
	}
	return root.ResolveReference(ref).String()
}
