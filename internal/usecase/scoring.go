package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"JournalHarvester/internal/domain"
	"JournalHarvester/internal/keywords"
	"JournalHarvester/internal/metrics"
	"JournalHarvester/internal/ports"
	"JournalHarvester/internal/readability"
)

// ScoringDeps wires the readability passes.
type ScoringDeps struct {
	Store    ports.CheckpointStore
	Corpus   ports.CorpusStore
	Texts    ports.TextSource
	Ledger   ports.Ledger
	Progress ports.ProgressReporter
	Metrics  *metrics.Recorder
	Logger   *slog.Logger
}

// ScoreRequest selects the checkpoint partitions of one site to score.
type ScoreRequest struct {
	Site     string
	Years    []int
	MinWords int
	// Budget caps scored articles per journal; nil means unlimited.
	Budget *readability.Budget
	RunID  string
}

// ReadabilityRequest drives the metadata scoring pass.
type ReadabilityRequest struct {
	Records []domain.MetadataRecord
	// Resolver turns a DOI into a landing page URL, e.g. https://doi.org.
	Resolver string
	MinWords int
	Budget   *readability.Budget
}

// ScoreSummary counts what a scoring pass did.
type ScoreSummary struct {
	Coordinates int
	Scored      int
	Skipped     int
	Written     []string
}

// Scorer runs the readability passes over checkpoints and metadata.
type Scorer struct {
	store    ports.CheckpointStore
	corpus   ports.CorpusStore
	texts    ports.TextSource
	ledger   ports.Ledger
	progress ports.ProgressReporter
	metrics  *metrics.Recorder
	logger   *slog.Logger
}

// NewScorer constructs the scoring component.
func NewScorer(deps ScoringDeps) *Scorer {
	return &Scorer{
		store:    deps.Store,
		corpus:   deps.Corpus,
		texts:    deps.Texts,
		ledger:   deps.Ledger,
		progress: deps.Progress,
		metrics:  deps.Metrics,
		logger:   deps.Logger,
	}
}

// ScoreCheckpoints writes a scores checkpoint next to every article checkpoint
// of the requested years. Articles whose text cannot be loaded or is shorter
// than MinWords words are skipped.
func (s *Scorer) ScoreCheckpoints(ctx context.Context, req ScoreRequest) (ScoreSummary, error) {
	var summary ScoreSummary
	if s.store == nil || s.texts == nil {
		return summary, fmt.Errorf("scorer is not fully configured")
	}

	coords, err := checkpointCoordinates(s.store, req.Years)
	if err != nil {
		return summary, err
	}

	run := openRun(ctx, s.ledger, s.logger, req.RunID, "score "+req.Site)
	defer run.close(ctx)

	step := "score:" + req.Site
	for i, coord := range coords {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		records, err := s.store.ReadArticles(coord)
		if err != nil {
			return summary, fmt.Errorf("read checkpoint %s: %w", coord.Name(), err)
		}

		scores := make([]domain.ScoreRecord, 0, len(records))
		for _, rec := range records {
			if req.Budget != nil && !req.Budget.Allow(rec.Journal) {
				continue
			}
			_, sc, ok := s.scoreText(ctx, rec, req.MinWords)
			if !ok {
				summary.Skipped++
				continue
			}
			if req.Budget != nil {
				req.Budget.Spend(rec.Journal)
			}
			scores = append(scores, domain.ScoreRecord{
				ID:                rec.ID,
				Journal:           rec.Journal,
				FleschKincaid:     sc.FleschKincaid,
				ColemanLiau:       sc.ColemanLiau,
				FleschReadingEase: sc.FleschReadingEase,
				SMOG:              sc.SMOG,
				ARI:               sc.ARI,
				Words:             sc.Words,
				Date:              rec.Date,
			})
			s.metrics.Scored("score")
		}

		path, err := s.store.WriteScores(coord, scores)
		if err != nil {
			return summary, fmt.Errorf("write scores %s: %w", coord.Name(), err)
		}
		s.metrics.Checkpoint(domain.KindScores)
		run.record(ctx, req.Site, domain.KindScores, coord, path, len(scores))
		s.info("scores written", "path", path, "scored", len(scores), "articles", len(records))

		summary.Coordinates++
		summary.Scored += len(scores)
		summary.Written = append(summary.Written, path)
		s.report(step, i+1, len(coords))
	}
	return summary, nil
}

// ScoreMetadata resolves each DOI to its landing page, scores the text and
// writes readability_scores.csv with the TF-IDF keywords of every scored text.
// Records beyond the per-journal budget, without a DOI, or with too little
// text are skipped; the pass stops once every journal spent its budget.
func (s *Scorer) ScoreMetadata(ctx context.Context, req ReadabilityRequest) ([]ReadabilityRow, string, error) {
	if s.corpus == nil || s.texts == nil {
		return nil, "", fmt.Errorf("scorer is not fully configured")
	}
	resolver := strings.TrimSuffix(req.Resolver, "/")
	if resolver == "" {
		resolver = "https://doi.org"
	}
	journals := distinctJournals(req.Records)

	var (
		rows  []ReadabilityRow
		texts []string
	)
	for i, rec := range req.Records {
		if err := ctx.Err(); err != nil {
			return rows, "", err
		}
		if req.Budget != nil && req.Budget.Exhausted(journals) {
			s.info("readability budget spent", "skipped", len(req.Records)-i)
			break
		}
		s.report("readability", i+1, len(req.Records))

		if req.Budget != nil && !req.Budget.Allow(rec.Journal) {
			continue
		}
		if rec.DOI == "" {
			continue
		}

		article := domain.ArticleRecord{ID: rec.DOI, URL: resolver + "/" + rec.DOI, Journal: rec.Journal, Title: rec.Title}
		text, sc, ok := s.scoreText(ctx, article, req.MinWords)
		if !ok {
			continue
		}
		if req.Budget != nil {
			req.Budget.Spend(rec.Journal)
		}
		s.metrics.Scored("readability")
		texts = append(texts, text)
		rows = append(rows, ReadabilityRow{
			Journal:       rec.Journal,
			Title:         rec.Title,
			Year:          rec.Year,
			Authors:       rec.Authors,
			Subject:       rec.Subject,
			DOI:           rec.DOI,
			FleschKincaid: sc.FleschKincaid,
			ColemanLiau:   sc.ColemanLiau,
		})
	}

	for i, kw := range keywords.NewRanker().Keywords(texts) {
		rows[i].Keywords = kw
	}

	path, err := writeReadability(s.corpus, rows)
	if err != nil {
		return rows, "", fmt.Errorf("write readability scores: %w", err)
	}
	s.info("readability scores written", "path", path, "rows", len(rows))
	return rows, path, nil
}

func distinctJournals(records []domain.MetadataRecord) []string {
	seen := map[string]bool{}
	var out []string
	for _, rec := range records {
		if !seen[rec.Journal] {
			seen[rec.Journal] = true
			out = append(out, rec.Journal)
		}
	}
	return out
}

func (s *Scorer) scoreText(ctx context.Context, rec domain.ArticleRecord, minWords int) (string, readability.Scores, bool) {
	text, err := s.texts.Text(ctx, rec)
	if err != nil {
		s.warn("skip article", "id", rec.ID, "url", rec.URL, "error", err)
		return "", readability.Scores{}, false
	}
	sc := readability.Score(text)
	if sc.Words < minWords {
		s.debug("text too short", "id", rec.ID, "words", sc.Words, "min", minWords)
		return "", readability.Scores{}, false
	}
	return text, sc, true
}

// checkpointCoordinates lists the article checkpoints of years in order.
func checkpointCoordinates(store ports.CheckpointStore, years []int) ([]domain.Coordinate, error) {
	var coords []domain.Coordinate
	for _, year := range years {
		found, err := store.ArticleCoordinates(year)
		if err != nil {
			return nil, err
		}
		coords = append(coords, found...)
	}
	return coords, nil
}

func (s *Scorer) report(step string, done, total int) {
	if s.progress != nil {
		s.progress.Update(step, done, total)
	}
}

func (s *Scorer) info(msg string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Info(msg, args...)
	}
}

func (s *Scorer) warn(msg string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Warn(msg, args...)
	}
}

func (s *Scorer) debug(msg string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}
