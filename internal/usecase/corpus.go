package usecase

import (
	"fmt"
	"strconv"

	"JournalHarvester/internal/domain"
	"JournalHarvester/internal/ports"
)

// Corpus-level table names under the data root.
const (
	ExpectedCountsFile = "expected_counts.csv"
	MetadataFile       = "meta_data.csv"
	RetrievalStatsFile = "retrieval_stats.csv"
	ReadabilityFile    = "readability_scores.csv"
)

// Corpus-level column layouts.
var (
	ExpectedCountsHeader = []string{"journal", "year", "expected_count"}
	MetadataHeader       = []string{"journal", "title", "year", "subject", "authors", "corresponding_email", "doi", "url", "abstract"}
	RetrievalStatsHeader = []string{"journal", "year", "expected_count", "retrieved_count", "completion_rate"}
	ReadabilityHeader    = []string{"journal", "title", "year", "authors", "subject", "doi", "fkgl", "coleman", "keywords"}
)

const comma = ','

// ReadabilityRow is one scored metadata record.
type ReadabilityRow struct {
	Journal       string
	Title         string
	Year          int
	Authors       string
	Subject       string
	DOI           string
	FleschKincaid float64
	ColemanLiau   float64
	Keywords      string
}

func writeExpectedCounts(store ports.CorpusStore, counts []domain.ExpectedCount) (string, error) {
	rows := make([][]string, 0, len(counts))
	for _, c := range counts {
		rows = append(rows, []string{c.Journal, strconv.Itoa(c.Year), strconv.Itoa(c.ExpectedCount)})
	}
	return store.WriteCorpus(ExpectedCountsFile, comma, ExpectedCountsHeader, rows)
}

func readExpectedCounts(store ports.CorpusStore) ([]domain.ExpectedCount, error) {
	rows, err := store.ReadCorpus(ExpectedCountsFile, comma, ExpectedCountsHeader)
	if err != nil {
		return nil, err
	}
	out := make([]domain.ExpectedCount, 0, len(rows))
	for i, row := range rows {
		year, err := strconv.Atoi(row[1])
		if err != nil {
			return nil, fmt.Errorf("%s row %d: year: %w", ExpectedCountsFile, i+1, err)
		}
		count, err := strconv.Atoi(row[2])
		if err != nil {
			return nil, fmt.Errorf("%s row %d: expected_count: %w", ExpectedCountsFile, i+1, err)
		}
		out = append(out, domain.ExpectedCount{Journal: row[0], Year: year, ExpectedCount: count})
	}
	return out, nil
}

func writeMetadata(store ports.CorpusStore, records []domain.MetadataRecord) (string, error) {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			r.Journal, r.Title, optionalYear(r.Year), r.Subject, r.Authors,
			r.CorrespondingEmail, r.DOI, r.URL, r.Abstract,
		})
	}
	return store.WriteCorpus(MetadataFile, comma, MetadataHeader, rows)
}

// ReadMetadata loads meta_data.csv. Records without a parsable year keep 0.
func ReadMetadata(store ports.CorpusStore) ([]domain.MetadataRecord, error) {
	rows, err := store.ReadCorpus(MetadataFile, comma, MetadataHeader)
	if err != nil {
		return nil, err
	}
	out := make([]domain.MetadataRecord, 0, len(rows))
	for _, row := range rows {
		year, _ := strconv.Atoi(row[2])
		out = append(out, domain.MetadataRecord{
			Journal:            row[0],
			Title:              row[1],
			Year:               year,
			Subject:            row[3],
			Authors:            row[4],
			CorrespondingEmail: row[5],
			DOI:                row[6],
			URL:                row[7],
			Abstract:           row[8],
		})
	}
	return out, nil
}

func writeRetrievalStats(store ports.CorpusStore, stats []domain.RetrievalStat) (string, error) {
	rows := make([][]string, 0, len(stats))
	for _, s := range stats {
		rows = append(rows, []string{
			s.Journal,
			strconv.Itoa(s.Year),
			strconv.Itoa(s.ExpectedCount),
			strconv.Itoa(s.RetrievedCount),
			strconv.FormatFloat(s.CompletionRate, 'f', 1, 64),
		})
	}
	return store.WriteCorpus(RetrievalStatsFile, comma, RetrievalStatsHeader, rows)
}

func writeReadability(store ports.CorpusStore, scored []ReadabilityRow) (string, error) {
	rows := make([][]string, 0, len(scored))
	for _, r := range scored {
		rows = append(rows, []string{
			r.Journal, r.Title, optionalYear(r.Year), r.Authors, r.Subject, r.DOI,
			strconv.FormatFloat(r.FleschKincaid, 'f', -1, 64),
			strconv.FormatFloat(r.ColemanLiau, 'f', -1, 64),
			r.Keywords,
		})
	}
	return store.WriteCorpus(ReadabilityFile, comma, ReadabilityHeader, rows)
}

// ReadReadability loads readability_scores.csv.
func ReadReadability(store ports.CorpusStore) ([]ReadabilityRow, error) {
	rows, err := store.ReadCorpus(ReadabilityFile, comma, ReadabilityHeader)
	if err != nil {
		return nil, err
	}
	out := make([]ReadabilityRow, 0, len(rows))
	for i, row := range rows {
		fk, err := strconv.ParseFloat(row[6], 64)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: fkgl: %w", ReadabilityFile, i+1, err)
		}
		cl, err := strconv.ParseFloat(row[7], 64)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: coleman: %w", ReadabilityFile, i+1, err)
		}
		year, _ := strconv.Atoi(row[2])
		out = append(out, ReadabilityRow{
			Journal:       row[0],
			Title:         row[1],
			Year:          year,
			Authors:       row[3],
			Subject:       row[4],
			DOI:           row[5],
			FleschKincaid: fk,
			ColemanLiau:   cl,
			Keywords:      row[8],
		})
	}
	return out, nil
}

func optionalYear(year int) string {
	if year == 0 {
		return ""
	}
	return strconv.Itoa(year)
}
