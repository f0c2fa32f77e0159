package usecase

import (
	"context"
	"errors"
	"os"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"JournalHarvester/internal/domain"
	"JournalHarvester/internal/infrastructure/checkpoint"
	"JournalHarvester/internal/readability"
)

type mapTexts struct {
	byURL map[string]string
	calls []string
}

func (m *mapTexts) Text(_ context.Context, article domain.ArticleRecord) (string, error) {
	m.calls = append(m.calls, article.URL)
	text, ok := m.byURL[article.URL]
	if !ok {
		return "", domain.ErrUnavailable
	}
	return text, nil
}

type recordingProgress struct {
	last int
}

func (r *recordingProgress) Update(_ string, done, _ int) {
	r.last = done
}

const sampleText = "The cat sat on the mat. The dog ran to the park. It was a sunny day."

func seedArticles(t *testing.T, store *checkpoint.Store, coord domain.Coordinate, records ...domain.ArticleRecord) {
	t.Helper()
	_, err := store.WriteArticles(coord, records)
	require.NoError(t, err)
}

func TestScoreCheckpoints(t *testing.T) {
	t.Parallel()

	store := checkpoint.NewStore(t.TempDir())
	coord := domain.Coordinate{Year: 2012, Volume: 1, Page: 1}
	seedArticles(t, store, coord,
		domain.ArticleRecord{ID: "10.1/a", URL: "u/a", Journal: "J", Date: "2012-01-01"},
		domain.ArticleRecord{ID: "10.1/b", URL: "u/b", Journal: "J"},
		domain.ArticleRecord{ID: "10.1/c", URL: "u/c", Journal: "J"},
	)
	texts := &mapTexts{byURL: map[string]string{"u/a": sampleText, "u/c": "Too short."}}
	ledger := &fakeLedger{}

	summary, err := NewScorer(ScoringDeps{Store: store, Texts: texts, Ledger: ledger}).
		ScoreCheckpoints(context.Background(), ScoreRequest{Site: "ncomms", Years: []int{2012, 2013}, MinWords: 5})
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Coordinates)
	assert.Equal(t, 1, summary.Scored)
	assert.Equal(t, 2, summary.Skipped)

	want := readability.Score(sampleText)
	rows, err := checkpoint.ReadTable(store.Path(domain.KindScores, coord), checkpoint.Tab, checkpoint.ScoreHeader)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "10.1/a", rows[0][0])
	assert.Equal(t, strconv.FormatFloat(want.FleschKincaid, 'f', -1, 64), rows[0][1])
	assert.Equal(t, strconv.Itoa(want.Words), rows[0][6])
	assert.Equal(t, "2012-01-01", rows[0][7])

	require.Len(t, ledger.entries, 1)
	assert.Equal(t, domain.KindScores, ledger.entries[0].Kind)
	assert.Equal(t, []string{"score ncomms"}, ledger.runs)
}

func TestScoreCheckpointsRespectsBudget(t *testing.T) {
	t.Parallel()

	store := checkpoint.NewStore(t.TempDir())
	seedArticles(t, store, domain.Coordinate{Year: 2012, Page: 1},
		domain.ArticleRecord{ID: "a", URL: "u/a", Journal: "J"},
		domain.ArticleRecord{ID: "b", URL: "u/b", Journal: "J"},
	)
	seedArticles(t, store, domain.Coordinate{Year: 2012, Page: 2},
		domain.ArticleRecord{ID: "c", URL: "u/c", Journal: "J"},
	)
	texts := &mapTexts{byURL: map[string]string{"u/a": sampleText, "u/b": sampleText, "u/c": sampleText}}
	budget := readability.NewBudget(2, nil)

	summary, err := NewScorer(ScoringDeps{Store: store, Texts: texts}).
		ScoreCheckpoints(context.Background(), ScoreRequest{Years: []int{2012}, Budget: budget})
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Scored)
	assert.Equal(t, 2, budget.Spent("J"))
	assert.Equal(t, []string{"u/a", "u/b"}, texts.calls, "no text is fetched once the budget is spent")
}

func TestScoreMetadata(t *testing.T) {
	t.Parallel()

	store := checkpoint.NewStore(t.TempDir())
	texts := &mapTexts{byURL: map[string]string{
		"https://doi.org/10.1/a": sampleText,
		"https://doi.org/10.1/b": sampleText,
		"https://doi.org/10.2/c": sampleText,
	}}
	records := []domain.MetadataRecord{
		{Journal: "Cell", Title: "A", Year: 2020, DOI: "10.1/a", Authors: "X"},
		{Journal: "Cell", Title: "B", Year: 2020, DOI: "10.1/b"},
		{Journal: "Cell", Title: "no doi", Year: 2020},
		{Journal: "Nature", Title: "C", Year: 2021, DOI: "10.2/c"},
	}

	rows, path, err := NewScorer(ScoringDeps{Corpus: store, Texts: texts}).ScoreMetadata(context.Background(), ReadabilityRequest{
		Records:  records,
		Resolver: "https://doi.org/",
		MinWords: 5,
		Budget:   readability.NewBudget(1, nil),
	})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "A", rows[0].Title)
	assert.Equal(t, "C", rows[1].Title)
	assert.Equal(t, "cat; day; dog; mat; park; ran; sat; sunny", rows[0].Keywords)
	assert.Equal(t, rows[0].Keywords, rows[1].Keywords)

	loaded, err := ReadReadability(store)
	require.NoError(t, err)
	assert.Equal(t, rows, loaded)
	assert.FileExists(t, path)
}

func TestScoreMetadataStopsWhenBudgetSpent(t *testing.T) {
	t.Parallel()

	store := checkpoint.NewStore(t.TempDir())
	texts := &mapTexts{byURL: map[string]string{
		"https://doi.org/10.1/a": sampleText,
		"https://doi.org/10.1/b": sampleText,
		"https://doi.org/10.2/c": sampleText,
	}}
	records := []domain.MetadataRecord{
		{Journal: "Cell", Title: "A", DOI: "10.1/a"},
		{Journal: "Nature", Title: "C", DOI: "10.2/c"},
		{Journal: "Cell", Title: "B", DOI: "10.1/b"},
		{Journal: "Nature", Title: "D", DOI: "10.2/d"},
	}
	progress := &recordingProgress{}

	rows, _, err := NewScorer(ScoringDeps{Corpus: store, Texts: texts, Progress: progress}).ScoreMetadata(context.Background(), ReadabilityRequest{
		Records:  records,
		MinWords: 5,
		Budget:   readability.NewBudget(1, nil),
	})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"https://doi.org/10.1/a", "https://doi.org/10.2/c"}, texts.calls)
	assert.Equal(t, 2, progress.last, "records after the spent budget are not visited")
}

func TestScorerRequiresStore(t *testing.T) {
	t.Parallel()

	_, err := NewScorer(ScoringDeps{}).ScoreCheckpoints(context.Background(), ScoreRequest{})
	assert.Error(t, err)
	_, _, err = NewScorer(ScoringDeps{}).ScoreMetadata(context.Background(), ReadabilityRequest{})
	assert.Error(t, err)
}

type stubDetector struct {
	verdicts map[string]domain.Detection
}

func (s stubDetector) Detect(_ context.Context, text string) (domain.Detection, error) {
	v, ok := s.verdicts[text]
	if !ok {
		return domain.Detection{}, errors.New("detector down")
	}
	return v, nil
}

func TestDetectionPass(t *testing.T) {
	t.Parallel()

	store := checkpoint.NewStore(t.TempDir())
	coord := domain.Coordinate{Year: 2012, Volume: 2, Page: 1}
	seedArticles(t, store, coord,
		domain.ArticleRecord{ID: "a", URL: "u/a"},
		domain.ArticleRecord{ID: "b", URL: "u/b"},
		domain.ArticleRecord{ID: "c", URL: "u/c"},
	)
	human := true
	pct := 1.5
	texts := &mapTexts{byURL: map[string]string{"u/a": "alpha", "u/b": "beta", "u/c": "gamma"}}
	det := stubDetector{verdicts: map[string]domain.Detection{
		"alpha": {IsHuman: &human, FakePercentage: &pct},
		"gamma": {},
	}}

	summary, err := NewDetectionPass(DetectionDeps{Store: store, Texts: texts, Detector: det}).
		Run(context.Background(), DetectRequest{Site: "ncomms", Years: []int{2012}})
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Scored)
	assert.Equal(t, 1, summary.Skipped)

	data, err := os.ReadFile(store.Path(domain.KindDetections, coord))
	require.NoError(t, err)
	assert.Equal(t, "doi\tisHuman\tfk_prct\tai_words\ttxt_words\na\ttrue\t1.5\t\t\nc\t\t\t\t\n", string(data))
}
