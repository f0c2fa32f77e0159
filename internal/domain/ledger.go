package domain

import "time"

// Checkpoint kinds, also used as file-name prefixes.
const (
	KindArticles   = "urls"
	KindSubjects   = "subjects"
	KindScores     = "scores"
	KindDetections = "detect"
)

// LedgerEntry describes one written checkpoint file.
type LedgerEntry struct {
	RunID      string
	Kind       string
	Site       string
	Coordinate string
	Path       string
	Rows       int
	WrittenAt  time.Time
}
