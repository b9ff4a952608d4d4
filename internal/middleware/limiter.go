package middleware

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type tier struct {
	name  string
	limit rate.Limit
	burst int
}

var (
	// Login and signup.
	tierStrict   = tier{name: "strict", limit: 2, burst: 5}
	tierGeneral  = tier{name: "general", limit: 10, burst: 20}
	tierFrontend = tier{name: "frontend", limit: 20, burst: 40}
	// Callers presenting the internal service key.
	tierInternal = tier{name: "internal", limit: 100, burst: 200}
)

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per caller identity and tier. An
// identity is the authenticated user, else X-Device-ID, else the remote IP.
type RateLimiter struct {
	internalKey string
	now         func() time.Time

	mu      sync.Mutex
	buckets map[string]*bucket
}

// NewRateLimiter starts a limiter whose idle buckets are swept until ctx
// is done. Requests carrying X-Service-Auth equal to internalKey get the
// internal tier; an empty key disables that tier.
func NewRateLimiter(ctx context.Context, internalKey string) *RateLimiter {
	rl := &RateLimiter{
		internalKey: internalKey,
		now:         time.Now,
		buckets:     make(map[string]*bucket),
	}
	go rl.sweepEvery(ctx, time.Minute, 3*time.Minute)
	return rl
}

// Middleware rejects requests over the caller's quota with 429.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t := rl.tierFor(r)
		if !rl.allow(identity(r)+":"+t.name, t) {
			w.Header().Set("Retry-After", "1")
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (rl *RateLimiter) allow(key string, t tier) bool {
	rl.mu.Lock()
	b, ok := rl.buckets[key]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(t.limit, t.burst)}
		rl.buckets[key] = b
	}
	b.lastSeen = rl.now()
	rl.mu.Unlock()

	return b.limiter.Allow()
}

func (rl *RateLimiter) sweepEvery(ctx context.Context, every, idle time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rl.sweep(idle)
		}
	}
}

func (rl *RateLimiter) sweep(idle time.Duration) {
	cutoff := rl.now().Add(-idle)

	rl.mu.Lock()
	defer rl.mu.Unlock()
	for key, b := range rl.buckets {
		if b.lastSeen.Before(cutoff) {
			delete(rl.buckets, key)
		}
	}
}

func (rl *RateLimiter) tierFor(r *http.Request) tier {
	switch {
	case rl.internalKey != "" && r.Header.Get("X-Service-Auth") == rl.internalKey:
		return tierInternal
	case strings.Contains(r.URL.Path, "/auth/"), r.Header.Get("X-Action") == "auth":
		return tierStrict
	case r.Header.Get("X-Client-Type") == "frontend-heavy":
		return tierFrontend
	default:
		return tierGeneral
	}
}

func identity(r *http.Request) string {
	if id, ok := GetUserIDFromContext(r.Context()); ok {
		return "user:" + strconv.FormatUint(uint64(id), 10)
	}
	if device := r.Header.Get("X-Device-ID"); device != "" {
		return "device:" + device
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return "ip:" + host
}
