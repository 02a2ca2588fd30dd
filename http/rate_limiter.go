package http

import (
	"sync"
	"time"
)

const (
	// clients silent for longer than idleTTL are forgotten
	idleTTL       = 1 * time.Hour
	sweepInterval = 30 * time.Minute
)

// window is one client's allowance for the current refill period.
type window struct {
	start time.Time
	used  int
}

// take spends one prediction from the window, opening a fresh window
// when the previous one has run out its period.
func (w *window) take(now time.Time, capacity int, period time.Duration) bool {
	if now.Sub(w.start) >= period {
		w.start, w.used = now, 0
	}
	if w.used >= capacity {
		return false
	}
	w.used++
	return true
}

func (w *window) idle(now time.Time) bool {
	return now.Sub(w.start) > idleTTL
}

// RateLimiter grants each client capacity predictions per period.
type RateLimiter struct {
	mu       sync.Mutex
	capacity int
	period   time.Duration
	windows  map[string]*window
	now      func() time.Time

	done     chan struct{}
	stopOnce sync.Once
}

// NewRateLimiter starts a limiter with a background sweep of idle
// clients. Call Stop to end the sweep.
func NewRateLimiter(capacity int, period time.Duration) *RateLimiter {
	rl := newRateLimiter(capacity, period, time.Now)
	go rl.sweepEvery(sweepInterval)
	return rl
}

func newRateLimiter(capacity int, period time.Duration, now func() time.Time) *RateLimiter {
	return &RateLimiter{
		capacity: capacity,
		period:   period,
		windows:  make(map[string]*window),
		now:      now,
		done:     make(chan struct{}),
	}
}

func (r *RateLimiter) sweepEvery(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.done:
			return
		case <-ticker.C:
			r.evictIdle()
		}
	}
}

func (r *RateLimiter) evictIdle() {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	for client, w := range r.windows {
		if w.idle(now) {
			delete(r.windows, client)
		}
	}
}

func (r *RateLimiter) Stop() {
	r.stopOnce.Do(func() { close(r.done) })
}

// Allow reports whether client may run another prediction now.
func (r *RateLimiter) Allow(client string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	w, ok := r.windows[client]
	if !ok {
		w = &window{start: now}
		r.windows[client] = w
	}
	return w.take(now, r.capacity, r.period)
}
