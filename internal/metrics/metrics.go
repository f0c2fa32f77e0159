package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder holds the run counters. A nil *Recorder is valid and records nothing.
type Recorder struct {
	registry    *prometheus.Registry
	fetches     *prometheus.CounterVec
	records     prometheus.Counter
	extractions *prometheus.CounterVec
	checkpoints *prometheus.CounterVec
	scores      *prometheus.CounterVec
}

// New registers the counters on a private registry.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		fetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "harvest",
			Name:      "fetches_total",
			Help:      "HTTP fetches by outcome.",
		}, []string{"outcome"}),
		records: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "harvest",
			Name:      "records_total",
			Help:      "Article records accumulated.",
		}),
		extractions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "harvest",
			Name:      "extraction_failures_total",
			Help:      "Records skipped during extraction by reason.",
		}, []string{"reason"}),
		checkpoints: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "harvest",
			Name:      "checkpoints_written_total",
			Help:      "Checkpoint files written by kind.",
		}, []string{"kind"}),
		scores: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "harvest",
			Name:      "scored_items_total",
			Help:      "Scored or detected items by pass.",
		}, []string{"pass"}),
	}

	r.registry.MustRegister(r.fetches, r.records, r.extractions, r.checkpoints, r.scores)
	return r
}

// Fetch counts one HTTP fetch under outcome, such as "ok" or "unavailable".
func (r *Recorder) Fetch(outcome string) {
	if r == nil {
		return
	}
	r.fetches.WithLabelValues(outcome).Inc()
}

// Record counts one accumulated article record.
func (r *Recorder) Record() {
	if r == nil {
		return
	}
	r.records.Inc()
}

// ExtractionFailure counts a record skipped during extraction for reason.
func (r *Recorder) ExtractionFailure(reason string) {
	if r == nil {
		return
	}
	r.extractions.WithLabelValues(reason).Inc()
}

// Checkpoint counts one checkpoint file of kind written.
func (r *Recorder) Checkpoint(kind string) {
	if r == nil {
		return
	}
	r.checkpoints.WithLabelValues(kind).Inc()
}

// Scored counts one item scored or classified by pass.
func (r *Recorder) Scored(pass string) {
	if r == nil {
		return
	}
	r.scores.WithLabelValues(pass).Inc()
}

// WriteFile dumps the counters in the text exposition format, the way the
// node exporter textfile collector expects them.
func (r *Recorder) WriteFile(path string) error {
	if r == nil || path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
