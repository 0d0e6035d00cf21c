package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "orchestra"

// Outcome labels for RequestsTotal.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// #region recorder
// Recorder exports orchestration counters and histograms to Prometheus.
// A nil *Recorder is valid and records nothing.
type Recorder struct {
	requests     *prometheus.CounterVec
	duration     *prometheus.HistogramVec
	quality      *prometheus.HistogramVec
	fallbacks    prometheus.Counter
	improvements prometheus.Counter
}

// NewRecorder registers the collectors with reg. Pass prometheus.NewRegistry()
// in tests to keep them isolated.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		requests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "provider_requests_total",
			Help:      "Provider calls by outcome.",
		}, []string{"provider", "outcome"}),
		duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "provider_request_duration_seconds",
			Help:      "Provider call latency.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"provider"}),
		quality: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "response_quality_score",
			Help:      "Composite quality score of accepted responses.",
			Buckets:   prometheus.LinearBuckets(0, 10, 11),
		}, []string{"provider"}),
		fallbacks: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fallbacks_total",
			Help:      "Queries retried on a different provider.",
		}),
		improvements: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "improvements_total",
			Help:      "Improvement rewrites requested.",
		}),
	}
}

// #endregion recorder

// #region observe
func (r *Recorder) ObserveRequest(provider, outcome string, d time.Duration) {
	if r == nil {
		return
	}
	r.requests.WithLabelValues(provider, outcome).Inc()
	r.duration.WithLabelValues(provider).Observe(d.Seconds())
}

func (r *Recorder) ObserveQuality(provider string, score float64) {
	if r == nil {
		return
	}
	r.quality.WithLabelValues(provider).Observe(score)
}

func (r *Recorder) Fallback() {
	if r == nil {
		return
	}
	r.fallbacks.Inc()
}

func (r *Recorder) Improvement() {
	if r == nil {
		return
	}
	r.improvements.Inc()
}

// #endregion observe
