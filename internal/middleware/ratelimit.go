package middleware

import (
	"encoding/json"
	"net/http"
	"strconv"
	"sync"
	"time"
)

// Limiter is a fixed-window per-IP request counter.
type Limiter struct {
	limit  int
	window time.Duration
	now    func() time.Time
	onDeny func()

	mu      sync.Mutex
	buckets map[string]*bucket
	sweep   time.Time
}

type bucket struct {
	count int
	until time.Time
}

// NewLimiter allows limit requests per window for each client IP. onDeny may
// be nil.
func NewLimiter(limit int, window time.Duration, onDeny func()) *Limiter {
	return &Limiter{
		limit:   limit,
		window:  window,
		now:     time.Now,
		onDeny:  onDeny,
		buckets: make(map[string]*bucket),
	}
}

// Allow consumes one request for key and reports whether it may proceed and,
// when refused, how long until the window resets.
func (l *Limiter) Allow(key string) (bool, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	if now.After(l.sweep) {
		for k, b := range l.buckets {
			if now.After(b.until) {
				delete(l.buckets, k)
			}
		}
		l.sweep = now.Add(l.window)
	}
	b, ok := l.buckets[key]
	if !ok || now.After(b.until) {
		b = &bucket{until: now.Add(l.window)}
		l.buckets[key] = b
	}
	if b.count >= l.limit {
		return false, b.until.Sub(now)
	}
	b.count++
	return true, 0
}

// Handler rejects over-limit clients with 429 and a JSON error body.
func (l *Limiter) Handler(next http.Handler) http.Handler {
	if l == nil || l.limit <= 0 {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ok, retry := l.Allow(ClientIP(r))
		if !ok {
			if l.onDeny != nil {
				l.onDeny()
			}
			secs := int(retry.Round(time.Second) / time.Second)
			if secs < 1 {
				secs = 1
			}
			w.Header().Set("Retry-After", strconv.Itoa(secs))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": tooManyRequests(LocaleFromContext(r.Context()))})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func tooManyRequests(locale string) string {
	if locale == "id" {
		return "Terlalu banyak permintaan. Coba lagi sebentar."
	}
	return "Too many requests. Please try again shortly."
}
