package http

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"loan-recovery/metrics"
)

type RouterDeps struct {
	Handler     *PredictionHandler
	Limiter     *RateLimiter // nil disables rate limiting
	Fingerprint string
	Metrics     *metrics.Metrics
	Gatherer    prometheus.Gatherer
	Log         *zap.Logger
}

func NewRouter(deps RouterDeps) http.Handler {
	var predict http.Handler = http.HandlerFunc(deps.Handler.Predict)
	if deps.Limiter != nil {
		predict = RateLimitMiddleware(deps.Limiter, deps.Metrics, deps.Log, predict)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", deps.Handler.Form)
	mux.Handle("/predict", predict)
	mux.Handle("/healthz", Health(deps.Fingerprint))
	mux.Handle("/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	return mux
}
