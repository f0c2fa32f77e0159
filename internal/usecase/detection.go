package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"JournalHarvester/internal/domain"
	"JournalHarvester/internal/metrics"
	"JournalHarvester/internal/ports"
)

// DetectionDeps wires the AI-detection pass.
type DetectionDeps struct {
	Store    ports.CheckpointStore
	Texts    ports.TextSource
	Detector ports.Detector
	Ledger   ports.Ledger
	Progress ports.ProgressReporter
	Metrics  *metrics.Recorder
	Logger   *slog.Logger
}

// DetectRequest selects the checkpoint partitions of one site.
type DetectRequest struct {
	Site  string
	Years []int
	RunID string
}

// DetectionPass sends the full text of every harvested article to the
// detector and writes one detect checkpoint per coordinate.
type DetectionPass struct {
	store    ports.CheckpointStore
	texts    ports.TextSource
	detector ports.Detector
	ledger   ports.Ledger
	progress ports.ProgressReporter
	metrics  *metrics.Recorder
	logger   *slog.Logger
}

// NewDetectionPass constructs the detection component.
func NewDetectionPass(deps DetectionDeps) *DetectionPass {
	return &DetectionPass{
		store:    deps.Store,
		texts:    deps.Texts,
		detector: deps.Detector,
		ledger:   deps.Ledger,
		progress: deps.Progress,
		metrics:  deps.Metrics,
		logger:   deps.Logger,
	}
}

// Run skips articles whose text is unavailable or whose detector call fails.
// A malformed verdict is kept with empty fields.
func (d *DetectionPass) Run(ctx context.Context, req DetectRequest) (ScoreSummary, error) {
	var summary ScoreSummary
	if d.store == nil || d.texts == nil || d.detector == nil {
		return summary, fmt.Errorf("detection pass is not fully configured")
	}

	coords, err := checkpointCoordinates(d.store, req.Years)
	if err != nil {
		return summary, err
	}

	run := openRun(ctx, d.ledger, d.logger, req.RunID, "detect "+req.Site)
	defer run.close(ctx)

	step := "detect:" + req.Site
	for i, coord := range coords {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		records, err := d.store.ReadArticles(coord)
		if err != nil {
			return summary, fmt.Errorf("read checkpoint %s: %w", coord.Name(), err)
		}

		detections := make([]domain.Detection, 0, len(records))
		for _, rec := range records {
			text, err := d.texts.Text(ctx, rec)
			if err != nil {
				d.warn("skip article", "id", rec.ID, "reason", "text", "error", err)
				summary.Skipped++
				continue
			}

			verdict, err := d.detector.Detect(ctx, text)
			if err != nil {
				if ctxErr := ctx.Err(); ctxErr != nil {
					return summary, ctxErr
				}
				d.warn("skip article", "id", rec.ID, "reason", "detector", "error", err)
				summary.Skipped++
				continue
			}
			verdict.ID = rec.ID
			detections = append(detections, verdict)
			d.metrics.Scored("detect")
		}

		path, err := d.store.WriteDetections(coord, detections)
		if err != nil {
			return summary, fmt.Errorf("write detections %s: %w", coord.Name(), err)
		}
		d.metrics.Checkpoint(domain.KindDetections)
		run.record(ctx, req.Site, domain.KindDetections, coord, path, len(detections))
		if d.logger != nil {
			d.logger.Info("detections written", "path", path, "rows", len(detections))
		}

		summary.Coordinates++
		summary.Scored += len(detections)
		summary.Written = append(summary.Written, path)
		if d.progress != nil {
			d.progress.Update(step, i+1, len(coords))
		}
	}
	return summary, nil
}

func (d *DetectionPass) warn(msg string, args ...interface{}) {
	if d.logger != nil {
		d.logger.Warn(msg, args...)
	}
}
