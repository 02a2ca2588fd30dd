package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	OutcomeSuccess       = "success"
	OutcomeInvalidInput  = "invalid_input"
	OutcomeEncodingError = "encoding_error"
	OutcomeFailure       = "failure"

	CacheHit  = "hit"
	CacheMiss = "miss"
)

type Metrics struct {
	Predictions        *prometheus.CounterVec
	PredictionDuration prometheus.Histogram
	CacheLookups       *prometheus.CounterVec
	RateLimited        prometheus.Counter
}

// New registers the prediction metrics on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Predictions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "loan_recovery_predictions_total",
				Help: "Total number of prediction requests by outcome",
			},
			[]string{"outcome"},
		),
		PredictionDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "loan_recovery_prediction_duration_seconds",
				Help:    "Duration of the inference pipeline in seconds",
				Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1},
			},
		),
		CacheLookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "loan_recovery_prediction_cache_total",
				Help: "Prediction cache lookups by result",
			},
			[]string{"result"},
		),
		RateLimited: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "loan_recovery_rate_limited_requests_total",
				Help: "Requests rejected by the rate limiter",
			},
		),
	}
}

// NewNop returns metrics bound to a private registry, for tests.
func NewNop() *Metrics {
	return New(prometheus.NewRegistry())
}
