package scanner

import (
	"context"
	"fmt"

	"JournalHarvester/internal/domain"
)

// Listing carries one fetched listing page and the site rules needed to find
// its item anchors.
type Listing struct {
	Site       string
	BaseURL    string
	URL        string
	Body       string
	Coordinate domain.Coordinate

	ItemStart  string
	ItemEnd    string
	Selector   string
	HrefPrefix string
}

// Scanner captures a single listing strategy (marker slicing, CSS selectors).
// Items carry the raw key in ID and, when the page links to it, the absolute
// detail URL.
type Scanner interface {
	Name() string
	Scan(ctx context.Context, listing Listing) ([]domain.ListingItem, error)
}

// Registry keeps a mapping from scanner names to their implementations.
type Registry struct {
	scanners map[string]Scanner
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{scanners: map[string]Scanner{}}
}

// Register adds or replaces a scanner implementation.
func (r *Registry) Register(scanner Scanner) {
	if r.scanners == nil {
		r.scanners = map[string]Scanner{}
	}
	r.scanners[scanner.Name()] = scanner
}

// Resolve returns a scanner by name or an error if it is absent.
func (r *Registry) Resolve(name string) (Scanner, error) {
	if scanner, ok := r.scanners[name]; ok {
		return scanner, nil
	}
	return nil, fmt.Errorf("scanner %s is not registered", name)
}
