package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"JournalHarvester/internal/domain"
	"JournalHarvester/internal/ports"
)

// CatalogDeps wires the journal-level metadata passes.
type CatalogDeps struct {
	Counts   ports.CountSource
	Papers   ports.MetadataSource
	Corpus   ports.CorpusStore
	Progress ports.ProgressReporter
	Logger   *slog.Logger
}

// Catalog collects expected counts and paper metadata per journal and year.
type Catalog struct {
	counts   ports.CountSource
	papers   ports.MetadataSource
	corpus   ports.CorpusStore
	progress ports.ProgressReporter
	logger   *slog.Logger
}

// NewCatalog constructs the catalog component.
func NewCatalog(deps CatalogDeps) *Catalog {
	return &Catalog{
		counts:   deps.Counts,
		papers:   deps.Papers,
		corpus:   deps.Corpus,
		progress: deps.Progress,
		logger:   deps.Logger,
	}
}

// ExpectedCounts queries the catalog for every journal and year and writes
// expected_counts.csv. A failed query is logged and counted as zero.
func (c *Catalog) ExpectedCounts(ctx context.Context, journals []domain.Journal, years []int) ([]domain.ExpectedCount, string, error) {
	if c.counts == nil || c.corpus == nil {
		return nil, "", fmt.Errorf("catalog counts are not configured")
	}

	total := len(journals) * len(years)
	out := make([]domain.ExpectedCount, 0, total)
	for _, j := range journals {
		for _, year := range years {
			if err := ctx.Err(); err != nil {
				return out, "", err
			}

			n, err := c.counts.ExpectedCount(ctx, j.ISSN, year)
			if err != nil {
				c.warn("expected count failed", "journal", j.Name, "issn", j.ISSN, "year", year, "error", err)
				n = 0
			}
			out = append(out, domain.ExpectedCount{Journal: j.Name, Year: year, ExpectedCount: n})
			c.report("counts", len(out), total)
		}
	}

	path, err := writeExpectedCounts(c.corpus, out)
	if err != nil {
		return out, "", fmt.Errorf("write expected counts: %w", err)
	}
	c.info("expected counts written", "path", path, "rows", len(out))
	return out, path, nil
}

// Metadata pages through the metadata source for every journal and year and
// writes meta_data.csv. A failing journal-year keeps the records fetched so
// far and the pass continues.
func (c *Catalog) Metadata(ctx context.Context, journals []domain.Journal, years []int) ([]domain.MetadataRecord, string, error) {
	if c.papers == nil || c.corpus == nil {
		return nil, "", fmt.Errorf("catalog metadata is not configured")
	}

	total := len(journals) * len(years)
	done := 0
	var records []domain.MetadataRecord
	for _, j := range journals {
		for _, year := range years {
			if err := ctx.Err(); err != nil {
				return records, "", err
			}

			papers, err := c.papers.Papers(ctx, j.Name, year)
			if err != nil {
				c.warn("metadata incomplete", "journal", j.Name, "year", year, "fetched", len(papers), "error", err)
			}
			records = append(records, papers...)
			done++
			c.report("metadata", done, total)
		}
	}

	path, err := writeMetadata(c.corpus, records)
	if err != nil {
		return records, "", fmt.Errorf("write metadata: %w", err)
	}
	c.info("metadata written", "path", path, "rows", len(records))
	return records, path, nil
}

func (c *Catalog) report(step string, done, total int) {
	if c.progress != nil {
		c.progress.Update(step, done, total)
	}
}

func (c *Catalog) info(msg string, args ...interface{}) {
	if c.logger != nil {
		c.logger.Info(msg, args...)
	}
}

func (c *Catalog) warn(msg string, args ...interface{}) {
	if c.logger != nil {
		c.logger.Warn(msg, args...)
	}
}
