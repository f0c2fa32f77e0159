package parser

import (
	"fmt"

	"JournalHarvester/internal/domain"
	"JournalHarvester/internal/extract"
	"JournalHarvester/internal/ports"
)

// Field names the record parser maps onto ArticleRecord.
const (
	FieldTitle    = "title"
	FieldAuthors  = "authors"
	FieldEmail    = "email"
	FieldDate     = "date"
	FieldSubjects = "subjects"
)

// RecordParser extracts an ArticleRecord from a detail page with the site's
// marker specs.
type RecordParser struct {
	extractor *extract.Extractor
	journal   string
}

var _ ports.ArticleParser = (*RecordParser)(nil)

// NewRecordParser builds a parser for one site.
func NewRecordParser(specs []extract.FieldSpec, journal string) (*RecordParser, error) {
	ex, err := extract.New(specs)
	if err != nil {
		return nil, fmt.Errorf("build extractor: %w", err)
	}
	return &RecordParser{extractor: ex, journal: journal}, nil
}

// Parse returns the record or an error wrapping domain.ErrMissingBoundary.
func (p *RecordParser) Parse(item domain.ListingItem, body string) (domain.ArticleRecord, error) {
	if item.ID == "" {
		return domain.ArticleRecord{}, fmt.Errorf("listing item without identifier (%s)", item.URL)
	}

	fields, err := p.extractor.Extract(body)
	if err != nil {
		return domain.ArticleRecord{}, fmt.Errorf("extract %s: %w", item.ID, err)
	}

	return domain.ArticleRecord{
		ID:       item.ID,
		Title:    fields.Get(FieldTitle),
		Authors:  fields.Get(FieldAuthors),
		Email:    fields.Get(FieldEmail),
		Date:     fields.Get(FieldDate),
		URL:      item.URL,
		Journal:  p.journal,
		Subjects: fields.List(FieldSubjects),
	}, nil
}
