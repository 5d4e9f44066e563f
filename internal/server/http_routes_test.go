package server

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"resumelens/internal/config"
	"resumelens/internal/errors"
	"resumelens/internal/observability"
)

func newTestServer(t *testing.T, apiKeys []string) *Server {
	t.Helper()

	appCfg := &config.Config{
		Extraction: config.ExtractionConfig{
			MinTextLength: 50,
			OCRDPI:        144.0,
			OCRLanguage:   "eng",
		},
	}

	return NewServer(appCfg, ServerConfig{
		Host:           "localhost",
		Port:           "8080",
		Version:        "test",
		APIKeys:        apiKeys,
		MaxRequestSize: 1024 * 1024,
	}, errors.NewLogger(slog.LevelError))
}

func newTestObservability(t *testing.T) *observability.ObservabilityManager {
	t.Helper()

	om, err := observability.NewObservabilityManager(observability.ObservabilityConfig{
		ServiceName: "resumelens",
		Enabled:     false,
	}, nil)
	if err != nil {
		t.Fatalf("failed to create observability manager: %v", err)
	}
	return om
}

func TestMaskAPIKey(t *testing.T) {
	tests := []struct {
		name     string
		apiKey   string
		expected string
	}{
		{"short key", "abc", "****"},
		{"exactly eight chars", "12345678", "****"},
		{"long key", "secret-api-key-123", "secret-a****"},
		{"empty key", "", "****"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := maskAPIKey(tt.apiKey); got != tt.expected {
				t.Errorf("maskAPIKey(%q) = %q, expected %q", tt.apiKey, got, tt.expected)
			}
		})
	}
}

func TestGetRateLimitKey(t *testing.T) {
	tests := []struct {
		name       string
		byAPIKey   bool
		byIP       bool
		apiKey     string
		bearer     string
		remoteAddr string
		expected   string
	}{
		{"api key header", true, false, "key-1", "", "10.0.0.1:1234", "api:key-1"},
		{"bearer fallback", true, false, "", "key-2", "10.0.0.1:1234", "api:key-2"},
		{"ip fallback when no key", true, true, "", "", "10.0.0.1:1234", "ip:10.0.0.1"},
		{"ip only", false, true, "key-1", "", "10.0.0.2:1234", "ip:10.0.0.2"},
		{"neither configured", false, false, "key-1", "", "10.0.0.1:1234", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/analyze", nil)
			r.RemoteAddr = tt.remoteAddr
			if tt.apiKey != "" {
				r.Header.Set("X-API-Key", tt.apiKey)
			}
			if tt.bearer != "" {
				r.Header.Set("Authorization", "Bearer "+tt.bearer)
			}

			if got := getRateLimitKey(r, tt.byAPIKey, tt.byIP); got != tt.expected {
				t.Errorf("getRateLimitKey() = %q, expected %q", got, tt.expected)
			}
		})
	}
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name       string
		forwarded  string
		realIP     string
		remoteAddr string
		expected   string
	}{
		{"x-forwarded-for single", "203.0.113.7", "", "10.0.0.1:1234", "203.0.113.7"},
		{"x-forwarded-for list", "203.0.113.7, 10.0.0.2", "", "10.0.0.1:1234", "203.0.113.7"},
		{"x-forwarded-for invalid falls through", "not-an-ip", "198.51.100.9", "10.0.0.1:1234", "198.51.100.9"},
		{"x-real-ip", "", "198.51.100.9", "10.0.0.1:1234", "198.51.100.9"},
		{"remote addr fallback", "", "", "10.0.0.1:1234", "10.0.0.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/health", nil)
			r.RemoteAddr = tt.remoteAddr
			if tt.forwarded != "" {
				r.Header.Set("X-Forwarded-For", tt.forwarded)
			}
			if tt.realIP != "" {
				r.Header.Set("X-Real-IP", tt.realIP)
			}

			if got := getClientIP(r); got != tt.expected {
				t.Errorf("getClientIP() = %q, expected %q", got, tt.expected)
			}
		})
	}
}

func TestAuthMiddleware(t *testing.T) {
	s := newTestServer(t, []string{"valid-key-12345"})

	handler := s.authMiddleware(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name           string
		apiKey         string
		authHeader     string
		expectedStatus int
	}{
		{"missing key", "", "", http.StatusUnauthorized},
		{"invalid key", "wrong-key", "", http.StatusUnauthorized},
		{"valid key via header", "valid-key-12345", "", http.StatusOK},
		{"valid key via bearer", "", "Bearer valid-key-12345", http.StatusOK},
		{"invalid bearer", "", "Bearer wrong-key", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/analyze", nil)
			if tt.apiKey != "" {
				r.Header.Set("X-API-Key", tt.apiKey)
			}
			if tt.authHeader != "" {
				r.Header.Set("Authorization", tt.authHeader)
			}

			w := httptest.NewRecorder()
			handler(w, r)

			if w.Code != tt.expectedStatus {
				t.Errorf("status = %d, expected %d", w.Code, tt.expectedStatus)
			}
		})
	}
}

func TestAuthMiddlewareNoKeysConfigured(t *testing.T) {
	s := newTestServer(t, nil)

	handler := s.authMiddleware(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	r := httptest.NewRequest(http.MethodPost, "/analyze", nil)
	w := httptest.NewRecorder()
	handler(w, r)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, expected %d when no API keys are configured", w.Code, http.StatusOK)
	}
}

func TestExtractHandlerValidation(t *testing.T) {
	s := newTestServer(t, nil)
	om := newTestObservability(t)
	handler := s.createExtractHandler(om)

	tests := []struct {
		name           string
		contentType    string
		body           string
		expectedStatus int
	}{
		{"wrong content type", "text/plain", `{"pdfBase64":"aGVsbG8="}`, http.StatusBadRequest},
		{"malformed json", "application/json", `{pdf`, http.StatusBadRequest},
		{"missing pdf content", "application/json", `{}`, http.StatusBadRequest},
		{"invalid base64", "application/json", `{"pdfBase64":"!!not-base64!!"}`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/extract", strings.NewReader(tt.body))
			r.Header.Set("Content-Type", tt.contentType)

			w := httptest.NewRecorder()
			handler(w, r)

			if w.Code != tt.expectedStatus {
				t.Errorf("status = %d, expected %d (body: %s)", w.Code, tt.expectedStatus, w.Body.String())
			}
		})
	}
}

func TestAnalyzeHandlerRequiresResume(t *testing.T) {
	s := newTestServer(t, nil)
	om := newTestObservability(t)
	handler := s.createAnalyzeHandler(om)

	r := httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader(`{"jobDescription":"Backend Engineer"}`))
	r.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	handler(w, r)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, expected %d when neither resumeText nor pdfBase64 is provided", w.Code, http.StatusBadRequest)
	}
}

func TestMatchHandlerValidation(t *testing.T) {
	s := newTestServer(t, nil)
	om := newTestObservability(t)
	handler := s.createMatchHandler(om)

	tests := []struct {
		name           string
		body           string
		expectedStatus int
	}{
		{"missing job function", `{"resumeText":"some resume","jobType":"Full-time"}`, http.StatusBadRequest},
		{"missing job type", `{"resumeText":"some resume","jobFunction":"Backend Engineer"}`, http.StatusBadRequest},
		{"missing resume", `{"jobFunction":"Backend Engineer","jobType":"Full-time"}`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/match", strings.NewReader(tt.body))
			r.Header.Set("Content-Type", "application/json")

			w := httptest.NewRecorder()
			handler(w, r)

			if w.Code != tt.expectedStatus {
				t.Errorf("status = %d, expected %d (body: %s)", w.Code, tt.expectedStatus, w.Body.String())
			}
		})
	}
}

func TestRequestSizeLimitMiddleware(t *testing.T) {
	s := newTestServer(t, nil)
	s.MaxRequestSize = 16

	middleware := s.requestSizeLimitMiddleware()
	handler := middleware(func(w http.ResponseWriter, r *http.Request) {
		var req ExtractRequest
		if err := parseJSONRequest(r, &req); err != nil {
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	body := `{"pdfBase64":"` + strings.Repeat("A", 100) + `"}`
	r := httptest.NewRequest(http.MethodPost, "/extract", strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	handler(w, r)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, expected %d for oversized request", w.Code, http.StatusBadRequest)
	}
}
