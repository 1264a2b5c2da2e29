// Package metrics exposes analysis counters and timings in Prometheus format.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "voiceanalysis"

// Outcome labels for the analyses counter.
const (
	OutcomeCorrect   = "correct"
	OutcomeIncorrect = "incorrect"
	OutcomeInvalid   = "invalid"
	OutcomeError     = "error"
)

// Recorder owns a private registry so tests and multiple servers do not
// collide on the global one.
type Recorder struct {
	registry *prometheus.Registry
	analyses *prometheus.CounterVec
	duration prometheus.Histogram
	overall  prometheus.Histogram
}

// NewRecorder registers the analysis collectors plus the Go runtime and
// process collectors.
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	r := &Recorder{
		registry: reg,
		analyses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analyses_total",
			Help:      "Analysis requests by grading context and outcome.",
		}, []string{"context", "outcome"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "analysis_duration_seconds",
			Help:      "Wall time of a full analysis, including transcription.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		}),
		overall: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "similarity_overall",
			Help:      "Distribution of overall similarity scores.",
			Buckets:   prometheus.LinearBuckets(0.1, 0.1, 10),
		}),
	}
	reg.MustRegister(
		r.analyses,
		r.duration,
		r.overall,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// ObserveAnalysis counts one finished request and its duration.
func (r *Recorder) ObserveAnalysis(grading, outcome string, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.analyses.WithLabelValues(grading, outcome).Inc()
	r.duration.Observe(elapsed.Seconds())
}

// ObserveSimilarity records an overall score.
func (r *Recorder) ObserveSimilarity(overall float64) {
	if r == nil {
		return
	}
	r.overall.Observe(overall)
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// Outcome maps a verdict to its counter label.
func Outcome(correct bool) string {
	if correct {
		return OutcomeCorrect
	}
	return OutcomeIncorrect
}
