package ratelimiter

import (
	"math"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

// Limiter throttles HTTP requests per source. The websocket endpoint is
// exempt at the middleware layer since a long-lived connection is a single
// request.
type Limiter interface {
	Allow(sourceKey string) bool
	SourceKey(r *http.Request) string
	Burst() int
}

type bucket struct {
	tokens   float64
	lastFill int64 // Unix milliseconds
}

type TokenBucket struct {
	ratePerMilli float64
	maxBurst     int
	idleTTL      time.Duration

	mu        sync.Mutex
	buckets   map[string]*bucket
	lastSweep time.Time
}

type Options struct {
	MaxRatePerSecond int
	MaxBurst         int
	IdleTTL          time.Duration
}

func New(options Options) *TokenBucket {
	if options.MaxRatePerSecond <= 0 {
		options.MaxRatePerSecond = 10
	}

	if options.MaxBurst <= 0 {
		options.MaxBurst = options.MaxRatePerSecond
	}

	if options.IdleTTL <= 0 {
		options.IdleTTL = time.Minute
	}

	return &TokenBucket{
		ratePerMilli: float64(options.MaxRatePerSecond) / 1000.0,
		maxBurst:     options.MaxBurst,
		idleTTL:      options.IdleTTL,
		buckets:      make(map[string]*bucket),
		lastSweep:    time.Now(),
	}
}

func (tb *TokenBucket) Burst() int {
	return tb.maxBurst
}

func (tb *TokenBucket) Allow(sourceKey string) bool {
	now := time.Now()
	nowMilli := now.UnixMilli()

	tb.mu.Lock()
	defer tb.mu.Unlock()

	tb.maybeSweep(now)

	b, ok := tb.buckets[sourceKey]
	if !ok {
		b = &bucket{tokens: float64(tb.maxBurst), lastFill: nowMilli}
		tb.buckets[sourceKey] = b
	} else {
		tb.refill(b, nowMilli)
	}

	if b.tokens < 1 {
		return false
	}

	b.tokens--

	return true
}

func (tb *TokenBucket) refill(b *bucket, nowMilli int64) {
	elapsed := nowMilli - b.lastFill
	if elapsed <= 0 {
		return
	}

	b.tokens = math.Min(b.tokens+float64(elapsed)*tb.ratePerMilli, float64(tb.maxBurst))
	b.lastFill = nowMilli
}

// maybeSweep drops buckets idle past the TTL. Runs at most once per TTL and
// holds the lock, so the map stays small enough for a linear pass.
func (tb *TokenBucket) maybeSweep(now time.Time) {
	if now.Sub(tb.lastSweep) < tb.idleTTL {
		return
	}

	cutoff := now.Add(-tb.idleTTL).UnixMilli()
	for key, b := range tb.buckets {
		if b.lastFill < cutoff {
			delete(tb.buckets, key)
		}
	}

	tb.lastSweep = now
}

// SourceKey identifies the caller by client IP, trusting proxy headers in
// the same order the websocket gateway does.
func (tb *TokenBucket) SourceKey(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if idx := strings.IndexByte(fwd, ','); idx >= 0 {
			fwd = fwd[:idx]
		}
		return strings.TrimSpace(fwd)
	}

	if real := r.Header.Get("X-Real-Ip"); real != "" {
		return real
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}

	return host
}
