package server

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"resumescreen/internal/errors"

	"golang.org/x/time/rate"
)

// limiterEvictionAge is how long an idle client keeps its token bucket
// before the cleanup pass discards it.
const limiterEvictionAge = 10 * time.Minute

// LimiterManager keeps one token bucket per client key (IP or API key).
// Buckets are created lazily and evicted after limiterEvictionAge of
// inactivity.
type LimiterManager struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	lastSeen map[string]time.Time
	rate     rate.Limit
	burst    int
	done     chan struct{}
	logger   *errors.Logger
}

// NewLimiterManager creates a manager allowing requestsPerMin sustained
// requests with bursts up to burst, and starts the background eviction
// loop. Call Close on shutdown.
func NewLimiterManager(requestsPerMin, burst int, logger *errors.Logger) *LimiterManager {
	m := &LimiterManager{
		limiters: make(map[string]*rate.Limiter),
		lastSeen: make(map[string]time.Time),
		rate:     rate.Limit(float64(requestsPerMin) / 60.0),
		burst:    burst,
		done:     make(chan struct{}),
		logger:   logger,
	}

	go m.evictLoop()
	return m
}

// Allow reports whether a request for the given key fits within its
// bucket. Non-blocking.
func (m *LimiterManager) Allow(key string) bool {
	return m.limiter(key).Allow()
}

// limiter returns the bucket for key, creating it on first use.
func (m *LimiterManager) limiter(key string) *rate.Limiter {
	m.mu.Lock()
	defer m.mu.Unlock()

	l, ok := m.limiters[key]
	if !ok {
		l = rate.NewLimiter(m.rate, m.burst)
		m.limiters[key] = l
	}
	m.lastSeen[key] = time.Now()
	return l
}

// GetStats returns current limiter statistics for the stats endpoint.
func (m *LimiterManager) GetStats() map[string]any {
	m.mu.Lock()
	defer m.mu.Unlock()

	return map[string]any{
		"active_limiters": len(m.limiters),
		"rate_per_second": float64(m.rate),
		"rate_per_minute": float64(m.rate) * 60.0,
		"burst_capacity":  m.burst,
	}
}

func (m *LimiterManager) evictLoop() {
	ticker := time.NewTicker(limiterEvictionAge)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.evictIdle(limiterEvictionAge)
		case <-m.done:
			return
		}
	}
}

// evictIdle drops buckets whose key has not been seen within maxAge.
func (m *LimiterManager) evictIdle(maxAge time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	for key, seen := range m.lastSeen {
		if now.Sub(seen) > maxAge {
			delete(m.limiters, key)
			delete(m.lastSeen, key)
		}
	}

	if m.logger != nil {
		m.logger.Debug("Rate limiter eviction completed",
			"remaining_limiters", len(m.limiters))
	}
}

// Close stops the eviction loop.
func (m *LimiterManager) Close() {
	close(m.done)
}

// rateLimitMiddleware throttles requests per client key. A no-op when
// rate limiting is disabled in config.
func (s *Server) rateLimitMiddleware() func(http.HandlerFunc) http.HandlerFunc {
	if s.RateLimit == nil || !s.RateLimit.Enabled {
		return func(next http.HandlerFunc) http.HandlerFunc { return next }
	}

	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			key := rateLimitKey(r, s.RateLimit.ByAPIKey, s.RateLimit.ByIP)
			if key == "" {
				next(w, r)
				return
			}

			if !s.RateLimiter.Allow(key) {
				s.Logger.Info("Rate limit exceeded",
					"key", key,
					"endpoint", r.URL.Path,
					"client_ip", clientIP(r))
				writeErrorResponse(w, "Rate limit exceeded", "Too many requests", http.StatusTooManyRequests)
				return
			}

			next(w, r)
		}
	}
}

// rateLimitKey derives the bucket key for a request. Per-API-key limiting
// takes precedence over per-IP; an empty key means the request is exempt.
func rateLimitKey(r *http.Request, byAPIKey, byIP bool) string {
	if byAPIKey {
		apiKey := r.Header.Get("X-API-Key")
		if apiKey == "" {
			if after, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); ok {
				apiKey = after
			}
		}
		if apiKey != "" {
			return "api:" + apiKey
		}
	}

	if byIP {
		return "ip:" + clientIP(r)
	}

	return ""
}

// clientIP resolves the client address, trusting proxy headers before
// falling back to the connection's remote address.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if ip := firstValidIP(xff); ip != "" {
			return ip
		}
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		if net.ParseIP(xri) != nil {
			return xri
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// firstValidIP returns the first parseable address in a comma-separated
// list, as found in X-Forwarded-For.
func firstValidIP(list string) string {
	for ip := range strings.SplitSeq(list, ",") {
		ip = strings.TrimSpace(ip)
		if net.ParseIP(ip) != nil {
			return ip
		}
	}
	return ""
}
