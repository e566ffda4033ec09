package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	screenErrors "resumescreen/internal/errors"
)

func TestLimiterManagerAllowWithinBurst(t *testing.T) {
	// 60 req/min = 1 token/sec, burst of 2
	m := NewLimiterManager(60, 2, screenErrors.NewLogger(0))
	defer m.Close()

	if !m.Allow("client-a") {
		t.Error("First request should be allowed")
	}
	if !m.Allow("client-a") {
		t.Error("Second request should be allowed within burst")
	}
	if m.Allow("client-a") {
		t.Error("Third immediate request should exceed burst capacity")
	}
}

func TestLimiterManagerIsolatesKeys(t *testing.T) {
	m := NewLimiterManager(60, 1, screenErrors.NewLogger(0))
	defer m.Close()

	if !m.Allow("client-a") {
		t.Fatal("client-a should be allowed")
	}
	if m.Allow("client-a") {
		t.Error("client-a should be throttled after burst")
	}
	if !m.Allow("client-b") {
		t.Error("client-b has its own bucket and should be allowed")
	}
}

func TestLimiterManagerStats(t *testing.T) {
	m := NewLimiterManager(120, 5, screenErrors.NewLogger(0))
	defer m.Close()

	m.Allow("a")
	m.Allow("b")

	stats := m.GetStats()
	if stats["active_limiters"] != 2 {
		t.Errorf("Expected 2 active limiters, got %v", stats["active_limiters"])
	}
	if stats["rate_per_minute"] != 120.0 {
		t.Errorf("Expected rate_per_minute 120, got %v", stats["rate_per_minute"])
	}
	if stats["burst_capacity"] != 5 {
		t.Errorf("Expected burst_capacity 5, got %v", stats["burst_capacity"])
	}
}

func TestLimiterManagerCleanupEvictsStale(t *testing.T) {
	m := NewLimiterManager(60, 1, screenErrors.NewLogger(0))
	defer m.Close()

	m.Allow("stale")
	m.lastSeen["stale"] = time.Now().Add(-time.Hour)
	m.Allow("fresh")

	m.evictIdle(10 * time.Minute)

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.limiters["stale"]; exists {
		t.Error("Stale limiter should have been evicted")
	}
	if _, exists := m.limiters["fresh"]; !exists {
		t.Error("Fresh limiter should survive cleanup")
	}
}

func TestGetRateLimitKey(t *testing.T) {
	tests := []struct {
		name     string
		byAPIKey bool
		byIP     bool
		headers  map[string]string
		expected string
	}{
		{
			name:     "API key header",
			byAPIKey: true,
			headers:  map[string]string{"X-API-Key": "secret123"},
			expected: "api:secret123",
		},
		{
			name:     "Bearer token fallback",
			byAPIKey: true,
			headers:  map[string]string{"Authorization": "Bearer token456"},
			expected: "api:token456",
		},
		{
			name:     "IP fallback when no API key",
			byAPIKey: true,
			byIP:     true,
			expected: "ip:192.0.2.10",
		},
		{
			name:     "IP only",
			byIP:     true,
			expected: "ip:192.0.2.10",
		},
		{
			name:     "Nothing enabled",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/match", nil)
			r.RemoteAddr = "192.0.2.10:54321"
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}

			key := rateLimitKey(r, tt.byAPIKey, tt.byIP)
			if key != tt.expected {
				t.Errorf("Expected key %q, got %q", tt.expected, key)
			}
		})
	}
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name     string
		headers  map[string]string
		remote   string
		expected string
	}{
		{
			name:     "X-Forwarded-For single",
			headers:  map[string]string{"X-Forwarded-For": "203.0.113.5"},
			remote:   "192.0.2.1:1234",
			expected: "203.0.113.5",
		},
		{
			name:     "X-Forwarded-For list takes first valid",
			headers:  map[string]string{"X-Forwarded-For": "not-an-ip, 203.0.113.9, 10.0.0.1"},
			remote:   "192.0.2.1:1234",
			expected: "203.0.113.9",
		},
		{
			name:     "X-Real-IP",
			headers:  map[string]string{"X-Real-IP": "198.51.100.7"},
			remote:   "192.0.2.1:1234",
			expected: "198.51.100.7",
		},
		{
			name:     "Invalid X-Real-IP falls through",
			headers:  map[string]string{"X-Real-IP": "garbage"},
			remote:   "192.0.2.1:1234",
			expected: "192.0.2.1",
		},
		{
			name:     "RemoteAddr without port",
			remote:   "192.0.2.1",
			expected: "192.0.2.1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/health", nil)
			r.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}

			if ip := clientIP(r); ip != tt.expected {
				t.Errorf("Expected IP %q, got %q", tt.expected, ip)
			}
		})
	}
}

func TestParseFirstIP(t *testing.T) {
	if ip := firstValidIP("10.1.2.3, 10.4.5.6"); ip != "10.1.2.3" {
		t.Errorf("Expected first IP, got %q", ip)
	}
	if ip := firstValidIP("junk, 10.4.5.6"); ip != "10.4.5.6" {
		t.Errorf("Expected first valid IP, got %q", ip)
	}
	if ip := firstValidIP("junk, more junk"); ip != "" {
		t.Errorf("Expected empty for no valid IPs, got %q", ip)
	}
}
