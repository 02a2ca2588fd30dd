package http

import (
	"net"
	"net/http"

	"go.uber.org/zap"

	"loan-recovery/metrics"
)

func clientIP(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// RateLimitMiddleware rejects clients that used up their window.
func RateLimitMiddleware(
	limiter *RateLimiter,
	m *metrics.Metrics,
	log *zap.Logger,
	next http.Handler,
) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r)

		if !limiter.Allow(ip) {
			m.RateLimited.Inc()
			log.Debug("rate limit exceeded", zap.String("client", ip))
			http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
			return
		}

		next.ServeHTTP(w, r)
	})
}
