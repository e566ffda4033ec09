package embedding

import (
	"errors"
	"testing"
	"time"

	"resumescreen/internal/config"
	screenErrors "resumescreen/internal/errors"
)

func breakerConfig(enabled bool) *config.CircuitBreakerConfig {
	return &config.CircuitBreakerConfig{
		Enabled:          enabled,
		MaxRequests:      3,
		Interval:         60 * time.Second,
		Timeout:          60 * time.Second,
		MinRequests:      3,
		FailureThreshold: 0.6,
	}
}

func TestEmbedCircuitBreakerInitialState(t *testing.T) {
	logger := screenErrors.NewLogger(0)
	cb := NewEmbedCircuitBreaker(breakerConfig(true), logger)

	if cb == nil {
		t.Fatal("Circuit breaker should not be nil when enabled")
	}

	stats := cb.GetStats()

	name, ok := stats["name"].(string)
	if !ok {
		t.Fatal("Circuit breaker name not found")
	}
	if name != "embedding" {
		t.Errorf("Expected circuit breaker name 'embedding', got '%s'", name)
	}

	state, ok := stats["state"].(string)
	if !ok {
		t.Fatal("Circuit breaker state not found")
	}
	if state != "closed" {
		t.Errorf("Expected initial state 'closed', got '%s'", state)
	}

	enabled, ok := stats["enabled"].(bool)
	if !ok {
		t.Fatal("Circuit breaker enabled status not found")
	}
	if !enabled {
		t.Error("Circuit breaker should be enabled")
	}

	if !cb.IsHealthy() {
		t.Error("Circuit breaker should be healthy initially")
	}
}

func TestEmbedCircuitBreakerDisabled(t *testing.T) {
	logger := screenErrors.NewLogger(0)
	cb := NewEmbedCircuitBreaker(breakerConfig(false), logger)

	if cb != nil {
		t.Fatal("Circuit breaker should be nil when disabled")
	}

	// A nil breaker executes the call directly
	vec, err := cb.Execute(func() ([]float32, error) {
		return []float32{0.1, 0.2}, nil
	})
	if err != nil {
		t.Fatalf("Execute on nil breaker failed: %v", err)
	}
	if len(vec) != 2 {
		t.Errorf("Expected 2 elements, got %d", len(vec))
	}

	stats := cb.GetStats()
	if enabled, ok := stats["enabled"].(bool); !ok || enabled {
		t.Error("Nil breaker stats should report enabled=false")
	}
	if !cb.IsHealthy() {
		t.Error("Nil breaker should report healthy")
	}
}

func TestEmbedCircuitBreakerTripsAfterFailures(t *testing.T) {
	logger := screenErrors.NewLogger(0)
	cb := NewEmbedCircuitBreaker(breakerConfig(true), logger)

	backendErr := errors.New("backend unavailable")
	for range 5 {
		_, err := cb.Execute(func() ([]float32, error) {
			return nil, backendErr
		})
		if err == nil {
			t.Fatal("Expected error from failing call")
		}
	}

	if cb.IsHealthy() {
		t.Error("Circuit breaker should have tripped after repeated failures")
	}

	stats := cb.GetStats()
	if state, ok := stats["state"].(string); !ok || state != "open" {
		t.Errorf("Expected state 'open', got '%v'", stats["state"])
	}
}

func TestModelCircuitBreakerIndependentFromEmbed(t *testing.T) {
	logger := screenErrors.NewLogger(0)
	embedCB := NewEmbedCircuitBreaker(breakerConfig(true), logger)
	modelCB := NewModelCircuitBreaker(breakerConfig(true), logger)

	if modelCB == nil {
		t.Fatal("Model circuit breaker should not be nil when enabled")
	}

	// Trip the embed breaker; the model breaker must stay closed
	backendErr := errors.New("backend unavailable")
	for range 5 {
		_, _ = embedCB.Execute(func() ([]float32, error) {
			return nil, backendErr
		})
	}

	if embedCB.IsHealthy() {
		t.Error("Embed circuit breaker should have tripped")
	}
	if !modelCB.IsModelHealthy() {
		t.Error("Model circuit breaker should be unaffected by embed failures")
	}

	stats := modelCB.GetModelStats()
	if name, ok := stats["name"].(string); !ok || name != "embedding-model" {
		t.Errorf("Expected model breaker name 'embedding-model', got '%v'", stats["name"])
	}
}
