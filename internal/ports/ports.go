package ports

import (
	"context"

	"JournalHarvester/internal/domain"
)

// Fetcher retrieves one page; failures wrap domain.ErrUnavailable.
type Fetcher interface {
	Get(ctx context.Context, url string) (domain.Page, error)
}

// ListingSource discovers the items of one listing coordinate of a site.
type ListingSource interface {
	Listing(ctx context.Context, coord domain.Coordinate) ([]domain.ListingItem, error)
}

// ArticleParser turns a fetched detail page into a record.
type ArticleParser interface {
	Parse(item domain.ListingItem, body string) (domain.ArticleRecord, error)
}

// CheckpointStore persists per-coordinate tables.
type CheckpointStore interface {
	WriteArticles(coord domain.Coordinate, records []domain.ArticleRecord) (string, error)
	ReadArticles(coord domain.Coordinate) ([]domain.ArticleRecord, error)
	ArticlesExist(coord domain.Coordinate) bool
	ArticleCoordinates(year int) ([]domain.Coordinate, error)
	WriteScores(coord domain.Coordinate, scores []domain.ScoreRecord) (string, error)
	WriteDetections(coord domain.Coordinate, detections []domain.Detection) (string, error)
}

// CorpusStore persists corpus-level tables (counts, metadata, stats).
type CorpusStore interface {
	WriteCorpus(name string, sep rune, header []string, rows [][]string) (string, error)
	ReadCorpus(name string, sep rune, header []string) ([][]string, error)
	CorpusExists(name string) bool
}

// TextSource yields the cleaned full text of an article.
type TextSource interface {
	Text(ctx context.Context, article domain.ArticleRecord) (string, error)
}

// Detector asks an external classifier whether text is machine-written.
type Detector interface {
	Detect(ctx context.Context, text string) (domain.Detection, error)
}

// MetadataSource pages through the semantic metadata endpoint.
type MetadataSource interface {
	Papers(ctx context.Context, journal string, year int) ([]domain.MetadataRecord, error)
}

// CountSource reports the catalog's expected article count.
type CountSource interface {
	ExpectedCount(ctx context.Context, issn string, year int) (int, error)
}

// Ledger records runs and written checkpoints for operators.
type Ledger interface {
	StartRun(ctx context.Context, command string) (string, error)
	RecordCheckpoint(ctx context.Context, entry domain.LedgerEntry) error
	FinishRun(ctx context.Context, runID string) error
	Entries(ctx context.Context) ([]domain.LedgerEntry, error)
}

// ProgressReporter publishes best-effort completion percentages.
type ProgressReporter interface {
	Update(step string, done, total int)
}
