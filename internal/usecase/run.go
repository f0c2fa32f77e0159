package usecase

import (
	"context"
	"log/slog"
	"time"

	"JournalHarvester/internal/domain"
	"JournalHarvester/internal/ports"
)

// runLog attaches checkpoint entries to one ledger run. Ledger failures are
// logged and never stop a pass. A nil *runLog records nothing.
type runLog struct {
	ledger ports.Ledger
	logger *slog.Logger
	id     string
	owned  bool
}

// openRun reuses runID when given, otherwise starts a run for command.
func openRun(ctx context.Context, ledger ports.Ledger, logger *slog.Logger, runID, command string) *runLog {
	r := &runLog{ledger: ledger, logger: logger, id: runID}
	if ledger == nil || runID != "" {
		return r
	}

	id, err := ledger.StartRun(ctx, command)
	if err != nil {
		r.warn("start ledger run failed", "command", command, "error", err)
		return r
	}
	r.id = id
	r.owned = true
	return r
}

// close finishes the run if openRun started it.
func (r *runLog) close(ctx context.Context) {
	if r == nil || !r.owned {
		return
	}
	if err := r.ledger.FinishRun(context.WithoutCancel(ctx), r.id); err != nil {
		r.warn("finish ledger run failed", "run", r.id, "error", err)
	}
}

func (r *runLog) record(ctx context.Context, site, kind string, coord domain.Coordinate, path string, rows int) {
	if r == nil || r.ledger == nil || r.id == "" {
		return
	}
	err := r.ledger.RecordCheckpoint(ctx, domain.LedgerEntry{
		RunID:      r.id,
		Kind:       kind,
		Site:       site,
		Coordinate: coord.Name(),
		Path:       path,
		Rows:       rows,
		WrittenAt:  time.Now().UTC(),
	})
	if err != nil {
		r.warn("ledger entry failed", "path", path, "error", err)
	}
}

func (r *runLog) warn(msg string, args ...interface{}) {
	if r.logger != nil {
		r.logger.Warn(msg, args...)
	}
}
