// Package progress publishes best-effort completion percentages to a small
// JSON file. Nothing reads it back to decide what to run.
package progress

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"JournalHarvester/internal/ports"
)

// Tracker merges step percentages into the JSON object at Path.
type Tracker struct {
	path   string
	logger *slog.Logger
	mu     sync.Mutex
}

var _ ports.ProgressReporter = (*Tracker)(nil)

// NewTracker returns a tracker writing to path; an empty path only logs.
func NewTracker(path string, logger *slog.Logger) *Tracker {
	return &Tracker{path: path, logger: logger}
}

// Percent returns done/total*100, or 0 when total is 0.
func Percent(done, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(done) / float64(total) * 100
}

// Update logs the step and rewrites the file with the step key replaced.
// Failures are logged and never returned.
func (t *Tracker) Update(step string, done, total int) {
	if t == nil {
		return
	}
	pct := Percent(done, total)
	if t.logger != nil {
		t.logger.Info(fmt.Sprintf("[%s] %d/%d (%.1f%%)", step, done, total, pct), "step", step)
	}
	if t.path == "" {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	state, _ := t.read()
	state[step] = pct

	data, err := json.MarshalIndent(state, "", "  ")
	if err == nil {
		if dir := filepath.Dir(t.path); dir != "" {
			err = os.MkdirAll(dir, 0o755)
		}
	}
	if err == nil {
		err = os.WriteFile(t.path, data, 0o644)
	}
	if err != nil && t.logger != nil {
		t.logger.Warn("write progress failed", "path", t.path, "error", err)
	}
}

// Load returns the persisted state; a missing file is an empty state.
func (t *Tracker) Load() (map[string]float64, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.read()
}

// read never returns a nil map; invalid JSON counts as empty.
func (t *Tracker) read() (map[string]float64, error) {
	state := map[string]float64{}
	if t.path == "" {
		return state, nil
	}

	data, err := os.ReadFile(t.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return state, nil
		}
		return state, fmt.Errorf("read progress: %w", err)
	}
	if err := json.Unmarshal(data, &state); err != nil {
		return map[string]float64{}, nil
	}
	return state, nil
}
