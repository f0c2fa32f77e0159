package usecase

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"JournalHarvester/internal/domain"
	"JournalHarvester/internal/ports"
)

type journalYear struct {
	journal string
	year    int
}

// RetrievalStats left-joins retrieved metadata counts onto the expected
// counts. The completion rate is retrieved/expected*100, or 0 when nothing
// was expected.
func RetrievalStats(meta []domain.MetadataRecord, expected []domain.ExpectedCount) []domain.RetrievalStat {
	retrieved := map[journalYear]int{}
	for _, m := range meta {
		retrieved[journalYear{m.Journal, m.Year}]++
	}

	out := make([]domain.RetrievalStat, 0, len(expected))
	for _, e := range expected {
		n := retrieved[journalYear{e.Journal, e.Year}]
		rate := 0.0
		if e.ExpectedCount != 0 {
			rate = float64(n) / float64(e.ExpectedCount) * 100
		}
		out = append(out, domain.RetrievalStat{
			Journal:        e.Journal,
			Year:           e.Year,
			ExpectedCount:  e.ExpectedCount,
			RetrievedCount: n,
			CompletionRate: rate,
		})
	}
	return out
}

// UpdateRetrievalStats reads expected_counts.csv and meta_data.csv, then
// writes retrieval_stats.csv.
func UpdateRetrievalStats(store ports.CorpusStore) ([]domain.RetrievalStat, string, error) {
	expected, err := readExpectedCounts(store)
	if err != nil {
		return nil, "", fmt.Errorf("load expected counts: %w", err)
	}
	meta, err := ReadMetadata(store)
	if err != nil {
		return nil, "", fmt.Errorf("load metadata: %w", err)
	}

	stats := RetrievalStats(meta, expected)
	path, err := writeRetrievalStats(store, stats)
	if err != nil {
		return stats, "", fmt.Errorf("write retrieval stats: %w", err)
	}
	return stats, path, nil
}

// JournalReadability summarizes the scored articles of one journal.
type JournalReadability struct {
	Journal     string
	Articles    int
	MeanFK      float64
	StdDevFK    float64
	MeanColeman float64
	StdDevCL    float64
}

// SummarizeReadability groups rows by journal, sorted by journal name. The
// standard deviation of a single article is 0.
func SummarizeReadability(rows []ReadabilityRow) []JournalReadability {
	fk := map[string][]float64{}
	cl := map[string][]float64{}
	for _, r := range rows {
		fk[r.Journal] = append(fk[r.Journal], r.FleschKincaid)
		cl[r.Journal] = append(cl[r.Journal], r.ColemanLiau)
	}

	journals := make([]string, 0, len(fk))
	for j := range fk {
		journals = append(journals, j)
	}
	sort.Strings(journals)

	out := make([]JournalReadability, 0, len(journals))
	for _, j := range journals {
		meanFK, stdFK := meanStdDev(fk[j])
		meanCL, stdCL := meanStdDev(cl[j])
		out = append(out, JournalReadability{
			Journal:     j,
			Articles:    len(fk[j]),
			MeanFK:      meanFK,
			StdDevFK:    stdFK,
			MeanColeman: meanCL,
			StdDevCL:    stdCL,
		})
	}
	return out
}

func meanStdDev(xs []float64) (float64, float64) {
	mean, std := stat.MeanStdDev(xs, nil)
	if math.IsNaN(std) {
		std = 0
	}
	return mean, std
}
