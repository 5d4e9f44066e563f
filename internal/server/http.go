package server

import (
	"time"

	"resumelens/internal/config"
	resumelensErrors "resumelens/internal/errors"
	"resumelens/internal/types"
)

// AnalyzeRequest represents the request body for the analyze endpoint.
// The resume is supplied either as plain text or as a base64-encoded PDF.
type AnalyzeRequest struct {
	ResumeText     string `json:"resumeText,omitempty"`
	PDFBase64      string `json:"pdfBase64,omitempty"`
	JobDescription string `json:"jobDescription,omitempty"`
}

// ExtractRequest represents the request body for the extract endpoint
type ExtractRequest struct {
	PDFBase64 string `json:"pdfBase64"`
}

// MatchRequest represents the request body for the match endpoint
type MatchRequest struct {
	ResumeText  string `json:"resumeText,omitempty"`
	PDFBase64   string `json:"pdfBase64,omitempty"`
	JobFunction string `json:"jobFunction"`
	JobType     string `json:"jobType"`
}

// AnalyzeResponse is the analyze endpoint reply. ExtractedText and Provenance
// are populated only when the request supplied a PDF.
type AnalyzeResponse struct {
	types.AnalysisResult
	ExtractedText string           `json:"extractedText,omitempty"`
	Provenance    types.Provenance `json:"provenance,omitempty"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// Server holds configuration for the HTTP server
type Server struct {
	Host    string
	Port    string
	Version string

	// Full application configuration
	AppConfig *config.Config

	// TLS Configuration
	TLSConfig config.TLSConfig

	// Certificate management
	CertificateManager *CertificateManager

	// API Authentication
	APIKeys map[string]bool

	// Timeout configurations
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	// Request size limit
	MaxRequestSize int64

	// Rate limiting
	RateLimit   *config.RateLimitConfig
	RateLimiter *RateLimiter

	// Logger
	Logger *resumelensErrors.Logger
}

// ServerConfig holds configuration for creating a Server instance
// (Refactored to reduce long parameter list in NewServer)
type ServerConfig struct {
	Host           string
	Port           string
	Version        string
	TLSConfig      config.TLSConfig
	APIKeys        []string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	MaxRequestSize int64
	RateLimit      *config.RateLimitConfig
}

// NewServer creates a new Server instance from a ServerConfig struct
func NewServer(appCfg *config.Config, cfg ServerConfig, logger *resumelensErrors.Logger) *Server {
	// Convert API keys slice to map for O(1) lookup
	apiKeyMap := make(map[string]bool)
	for _, key := range cfg.APIKeys {
		if key != "" {
			apiKeyMap[key] = true
		}
	}

	var rateLimiter *RateLimiter
	if cfg.RateLimit != nil && cfg.RateLimit.Enabled {
		rateLimiter = NewRateLimiter(
			cfg.RateLimit.RequestsPerMin,
			cfg.RateLimit.Window,
			cfg.RateLimit.BurstCapacity,
			logger,
		)
	}

	return &Server{
		Host:           cfg.Host,
		Port:           cfg.Port,
		Version:        cfg.Version,
		AppConfig:      appCfg,
		TLSConfig:      cfg.TLSConfig,
		APIKeys:        apiKeyMap,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		IdleTimeout:    cfg.IdleTimeout,
		MaxRequestSize: cfg.MaxRequestSize,
		RateLimit:      cfg.RateLimit,
		RateLimiter:    rateLimiter,
		Logger:         logger,
	}
}
