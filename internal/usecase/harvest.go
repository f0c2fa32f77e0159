package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"JournalHarvester/internal/domain"
	"JournalHarvester/internal/metrics"
	"JournalHarvester/internal/ports"
	"JournalHarvester/internal/scanner"
)

// HarvestDeps wires the driven adapters of one site into the harvester.
type HarvestDeps struct {
	Site     string
	Listing  ports.ListingSource
	Fetcher  ports.Fetcher
	Parser   ports.ArticleParser
	Store    ports.CheckpointStore
	Ledger   ports.Ledger
	Progress ports.ProgressReporter
	Metrics  *metrics.Recorder
	Logger   *slog.Logger
}

// HarvestRequest selects the coordinates of one run.
type HarvestRequest struct {
	Plan         scanner.Plan
	DryRun       bool
	SkipExisting bool
	// RunID attaches ledger entries to a run started by the caller. When empty
	// and a ledger is configured, Run starts and finishes its own run.
	RunID string
}

// HarvestSummary counts what a run did.
type HarvestSummary struct {
	Coordinates int
	Records     int
	Skipped     int
	Failed      int
	Resumed     int
	Written     []string
}

// Harvester walks the coordinate plan of one site and accumulates article
// records into one checkpoint per coordinate.
type Harvester struct {
	site     string
	listing  ports.ListingSource
	fetcher  ports.Fetcher
	parser   ports.ArticleParser
	store    ports.CheckpointStore
	ledger   ports.Ledger
	progress ports.ProgressReporter
	metrics  *metrics.Recorder
	logger   *slog.Logger
}

// NewHarvester constructs the accumulator of one site.
func NewHarvester(deps HarvestDeps) *Harvester {
	return &Harvester{
		site:     deps.Site,
		listing:  deps.Listing,
		fetcher:  deps.Fetcher,
		parser:   deps.Parser,
		store:    deps.Store,
		ledger:   deps.Ledger,
		progress: deps.Progress,
		metrics:  deps.Metrics,
		logger:   deps.Logger,
	}
}

// Run visits the plan in page, volume, year order. An unavailable listing or
// a listing without items ends the current branch. Item failures are logged
// and skipped; a checkpoint that cannot be written aborts the run.
func (h *Harvester) Run(ctx context.Context, req HarvestRequest) (HarvestSummary, error) {
	var summary HarvestSummary
	if h.listing == nil || h.fetcher == nil || h.parser == nil {
		return summary, fmt.Errorf("harvester for %s is not fully configured", h.site)
	}
	if err := req.Plan.Validate(); err != nil {
		return summary, fmt.Errorf("plan for %s: %w", h.site, err)
	}

	var run *runLog
	if !req.DryRun {
		run = openRun(ctx, h.ledger, h.logger, req.RunID, "scrape "+h.site)
		defer run.close(ctx)
	}

	total := len(req.Plan.Coordinates())
	step := "scrape:" + h.site

	for coord, ok := req.Plan.First(); ok; {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		summary.Coordinates++

		if req.SkipExisting && h.store != nil && h.store.ArticlesExist(coord) {
			h.info("checkpoint exists, skipping coordinate", "coordinate", coord.Name())
			summary.Resumed++
			h.report(step, summary.Coordinates, total)
			coord, ok = req.Plan.Next(coord, false)
			continue
		}

		records, skipped, exhausted, err := h.harvestCoordinate(ctx, coord)
		if err != nil {
			return summary, err
		}
		summary.Skipped += skipped
		if exhausted {
			if records == nil {
				summary.Failed++
			}
			h.info("branch exhausted", "site", h.site, "coordinate", coord.Name())
			h.report(step, summary.Coordinates, total)
			coord, ok = req.Plan.Next(coord, true)
			continue
		}

		if req.DryRun {
			h.info("dry run, checkpoint not written", "coordinate", coord.Name(), "records", len(records))
		} else {
			path, err := h.checkpoint(ctx, run, coord, records)
			if err != nil {
				return summary, err
			}
			summary.Written = append(summary.Written, path)
		}
		summary.Records += len(records)

		h.report(step, summary.Coordinates, total)
		coord, ok = req.Plan.Next(coord, false)
	}

	h.info("harvest finished",
		"site", h.site,
		"coordinates", summary.Coordinates,
		"records", summary.Records,
		"skipped", summary.Skipped,
		"resumed", summary.Resumed)
	return summary, nil
}

// harvestCoordinate returns the records of one listing page. exhausted is true
// when the listing was unavailable (records == nil) or empty.
func (h *Harvester) harvestCoordinate(ctx context.Context, coord domain.Coordinate) (records []domain.ArticleRecord, skipped int, exhausted bool, err error) {
	items, err := h.listing.Listing(ctx, coord)
	if err != nil {
		if errors.Is(err, domain.ErrUnavailable) {
			h.warn("listing unavailable", "site", h.site, "coordinate", coord.Name(), "error", err)
			return nil, 0, true, nil
		}
		return nil, 0, false, fmt.Errorf("listing %s: %w", coord.Name(), err)
	}
	if len(items) == 0 {
		return []domain.ArticleRecord{}, 0, true, nil
	}

	h.info("fetched listing", "site", h.site, "coordinate", coord.Name(), "items", len(items))

	seen := make(map[string]bool, len(items))
	records = make([]domain.ArticleRecord, 0, len(items))
	for _, item := range items {
		if seen[item.ID] {
			h.debug("duplicate item on listing", "id", item.ID, "coordinate", coord.Name())
			continue
		}
		seen[item.ID] = true

		rec, reason, err := h.harvestItem(ctx, item)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, skipped, false, ctxErr
			}
			h.warn("skip item", "id", item.ID, "url", item.URL, "reason", reason, "error", err)
			h.metrics.ExtractionFailure(reason)
			skipped++
			continue
		}
		h.metrics.Record()
		records = append(records, rec)
	}
	return records, skipped, false, nil
}

func (h *Harvester) harvestItem(ctx context.Context, item domain.ListingItem) (domain.ArticleRecord, string, error) {
	page, err := h.fetcher.Get(ctx, item.URL)
	if err != nil {
		return domain.ArticleRecord{}, "unavailable", err
	}
	rec, err := h.parser.Parse(item, page.Body)
	if err != nil {
		if errors.Is(err, domain.ErrMissingBoundary) {
			return domain.ArticleRecord{}, "boundary", err
		}
		return domain.ArticleRecord{}, "invalid", err
	}
	return rec, "", nil
}

func (h *Harvester) checkpoint(ctx context.Context, run *runLog, coord domain.Coordinate, records []domain.ArticleRecord) (string, error) {
	if h.store == nil {
		return "", fmt.Errorf("checkpoint store is not configured")
	}
	path, err := h.store.WriteArticles(coord, records)
	if err != nil {
		return "", fmt.Errorf("write checkpoint %s: %w", coord.Name(), err)
	}
	h.metrics.Checkpoint(domain.KindArticles)
	h.info("checkpoint written", "path", path, "records", len(records))
	run.record(ctx, h.site, domain.KindArticles, coord, path, len(records))
	return path, nil
}

func (h *Harvester) report(step string, done, total int) {
	if h.progress != nil {
		h.progress.Update(step, done, total)
	}
}

func (h *Harvester) info(msg string, args ...interface{}) {
	if h.logger != nil {
		h.logger.Info(msg, args...)
	}
}

func (h *Harvester) warn(msg string, args ...interface{}) {
	if h.logger != nil {
		h.logger.Warn(msg, args...)
	}
}

func (h *Harvester) debug(msg string, args ...interface{}) {
	if h.logger != nil {
		h.logger.Debug(msg, args...)
	}
}
