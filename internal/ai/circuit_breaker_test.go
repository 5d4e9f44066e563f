package ai

import (
	"testing"
	"time"

	"resumelens/internal/config"
)

func TestIndependentCircuitBreakerConfigurations(t *testing.T) {
	// Each operation gets its own circuit breaker configuration

	analyzeConfig := &config.OperationAIConfig{
		Provider: "openai",
		Model:    "gpt-4o-mini",
		CircuitBreaker: config.CircuitBreakerConfig{
			Enabled:          true,
			MaxRequests:      3,
			Interval:         60 * time.Second,
			Timeout:          60 * time.Second,
			MinRequests:      3,
			FailureThreshold: 0.6,
		},
	}

	matchConfig := &config.OperationAIConfig{
		Provider: "openai",
		Model:    "gpt-4o-mini",
		CircuitBreaker: config.CircuitBreakerConfig{
			Enabled:          true,
			MaxRequests:      5,                // Different from analyze
			Interval:         30 * time.Second, // Different from analyze
			Timeout:          45 * time.Second, // Different from analyze
			MinRequests:      2,                // Different from analyze
			FailureThreshold: 0.7,              // Different from analyze
		},
	}

	analyzeCB := NewAICircuitBreaker("Analyze", analyzeConfig, nil)
	matchCB := NewAICircuitBreaker("Match", matchConfig, nil)

	t.Run("AnalyzeCircuitBreaker", func(t *testing.T) {
		stats := analyzeCB.GetStats()

		name, ok := stats["name"].(string)
		if !ok {
			t.Fatal("Circuit breaker name not found")
		}

		expectedName := "AI-Analyze"
		if name != expectedName {
			t.Errorf("Expected circuit breaker name '%s', got '%s'", expectedName, name)
		}

		// Verify it's in closed state initially
		state, ok := stats["state"].(string)
		if !ok {
			t.Fatal("Circuit breaker state not found")
		}
		if state != "closed" {
			t.Errorf("Expected initial state 'closed', got '%s'", state)
		}

		// Verify it's enabled
		enabled, ok := stats["enabled"].(bool)
		if !ok {
			t.Fatal("Circuit breaker enabled status not found")
		}
		if !enabled {
			t.Error("Circuit breaker should be enabled")
		}
	})

	t.Run("MatchCircuitBreaker", func(t *testing.T) {
		stats := matchCB.GetStats()

		name, ok := stats["name"].(string)
		if !ok {
			t.Fatal("Circuit breaker name not found")
		}

		expectedName := "AI-Match"
		if name != expectedName {
			t.Errorf("Expected circuit breaker name '%s', got '%s'", expectedName, name)
		}
	})

	// Circuit breakers are independent instances with independent health
	t.Run("IndependentInstances", func(t *testing.T) {
		if analyzeCB == matchCB {
			t.Error("Analyze and match circuit breakers should be different instances")
		}
	})

	t.Run("IndependentHealthStates", func(t *testing.T) {
		if !analyzeCB.IsHealthy() {
			t.Error("Analyze circuit breaker should be healthy initially")
		}
		if !matchCB.IsHealthy() {
			t.Error("Match circuit breaker should be healthy initially")
		}
	})
}

func TestCircuitBreakerConfigurationMapping(t *testing.T) {
	// Configuration values are properly applied to circuit breakers

	customConfig := &config.OperationAIConfig{
		Provider: "openai",
		Model:    "test-model",
		CircuitBreaker: config.CircuitBreakerConfig{
			Enabled:          true,
			MaxRequests:      10,
			Interval:         120 * time.Second,
			Timeout:          90 * time.Second,
			MinRequests:      5,
			FailureThreshold: 0.8,
		},
	}

	cb := NewAICircuitBreaker("Test", customConfig, nil)

	if cb == nil {
		t.Fatal("Circuit breaker should not be nil")
	}

	stats := cb.GetStats()
	if stats == nil {
		t.Fatal("Circuit breaker stats should not be nil")
	}

	name, ok := stats["name"].(string)
	if !ok {
		t.Fatal("Circuit breaker name not found")
	}

	expectedName := "AI-Test"
	if name != expectedName {
		t.Errorf("Expected circuit breaker name '%s', got '%s'", expectedName, name)
	}
}

func TestCircuitBreakerDisabled(t *testing.T) {
	// Circuit breaker constructor returns nil when disabled

	disabledConfig := &config.OperationAIConfig{
		Provider: "openai",
		Model:    "test-model",
		CircuitBreaker: config.CircuitBreakerConfig{
			Enabled: false, // Disabled
		},
	}

	cb := NewAICircuitBreaker("Disabled", disabledConfig, nil)

	if cb != nil {
		t.Fatal("Circuit breaker should be nil when disabled")
	}
}

func TestDisabledCircuitBreakerPassesThrough(t *testing.T) {
	var cb *AICircuitBreaker

	called := false
	result, err := cb.Execute(func() (*completion, error) {
		called = true
		return &completion{Text: "ok"}, nil
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !called {
		t.Error("nil breaker must still invoke the function")
	}
	if result.Text != "ok" {
		t.Errorf("result.Text = %q, want ok", result.Text)
	}

	if !cb.IsHealthy() {
		t.Error("nil breaker should report healthy")
	}
	if enabled := cb.GetStats()["enabled"].(bool); enabled {
		t.Error("nil breaker stats should report enabled=false")
	}
}
