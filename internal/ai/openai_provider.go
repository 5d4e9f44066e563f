package ai

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"math/big"
	"net"
	"net/http"
	"strings"
	"time"

	"resumelens/internal/config"
	resumelensErrors "resumelens/internal/errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

const (
	chatCompletionsPath = "/chat/completions"
	defaultMaxTokens    = 2048
)

// OpenAIProvider implements AIProvider for any OpenAI-compatible
// chat-completions endpoint
type OpenAIProvider struct {
	httpClient     *http.Client
	baseURL        string
	config         *config.OperationAIConfig
	circuitBreaker *AICircuitBreaker
	logger         *resumelensErrors.Logger
}

// Ensure OpenAIProvider implements AIProvider
var _ AIProvider = (*OpenAIProvider)(nil)

// NewOpenAIProvider creates a new OpenAI-compatible provider instance for a specific operation
func NewOpenAIProvider(cfg *config.OperationAIConfig, operationType string, logger *resumelensErrors.Logger) (*OpenAIProvider, error) {
	if cfg.APIKey == "" {
		return nil, resumelensErrors.NewConfigError(resumelensErrors.ErrCodeMissingAPIKey,
			"API key is required for the OpenAI-compatible provider", nil)
	}
	if cfg.BaseURL == "" {
		return nil, resumelensErrors.NewConfigError(resumelensErrors.ErrCodeInvalidConfig,
			"Base URL is required for the OpenAI-compatible provider", nil)
	}

	return &OpenAIProvider{
		httpClient: &http.Client{
			Timeout: *cfg.Timeout,
		},
		baseURL:        strings.TrimRight(cfg.BaseURL, "/"),
		config:         cfg,
		circuitBreaker: NewAICircuitBreaker(operationType, cfg, logger),
		logger:         logger,
	}, nil
}

// chatMessage is a single entry of the chat-completions conversation
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// responseFormat requests protocol-level output constraints
type responseFormat struct {
	Type string `json:"type"`
}

// chatCompletionRequest is the wire format of a chat-completions call
type chatCompletionRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	Temperature    float32         `json:"temperature"`
	MaxTokens      int             `json:"max_tokens"`
	Stream         bool            `json:"stream"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

// chatCompletionResponse holds the fields of the reply the provider reads
type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int64 `json:"prompt_tokens"`
		CompletionTokens int64 `json:"completion_tokens"`
		TotalTokens      int64 `json:"total_tokens"`
	} `json:"usage"`
}

// httpStatusError preserves the upstream HTTP status for classification
type httpStatusError struct {
	Status int
	Body   string
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("inference service returned HTTP %d: %s", e.Status, e.Body)
}

// Complete sends a free-form prompt and returns the raw markdown reply
func (p *OpenAIProvider) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, *TokenUsage, error) {
	return p.completeChat(ctx, "complete", systemPrompt, userPrompt, false)
}

// CompleteJSON requests a strict-JSON reply via response_format. The schema
// parameter is ignored; the prompt carries the field contract.
func (p *OpenAIProvider) CompleteJSON(ctx context.Context, systemPrompt, userPrompt string, _ any) (string, *TokenUsage, error) {
	return p.completeChat(ctx, "complete_json", systemPrompt, userPrompt, true)
}

func (p *OpenAIProvider) completeChat(ctx context.Context, operation, systemPrompt, userPrompt string, jsonMode bool) (string, *TokenUsage, error) {
	tracer := otel.Tracer("resumelens.ai.openai")
	ctx, span := tracer.Start(ctx, "openai."+operation)
	defer span.End()

	span.SetAttributes(
		attribute.String("ai.provider", "openai"),
		attribute.String("ai.model", p.config.Model),
		attribute.Float64("ai.temperature", float64(*p.config.Temperature)),
		attribute.Int("ai.prompt_length", len(userPrompt)),
		attribute.Bool("ai.json_mode", jsonMode),
	)

	result, err := p.circuitBreaker.Execute(func() (*completion, error) {
		return p.executeWithRetry(ctx, operation, func() (*completion, error) {
			return p.doChatRequest(ctx, systemPrompt, userPrompt, jsonMode)
		})
	})
	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("success", false))
		return "", nil, classifyInferenceError(operation, err)
	}

	if result.Usage != nil {
		span.SetAttributes(
			attribute.Int64("ai.tokens.input", result.Usage.InputTokens),
			attribute.Int64("ai.tokens.output", result.Usage.OutputTokens),
			attribute.Int64("ai.tokens.total", result.Usage.TotalTokens),
		)
	}
	span.SetAttributes(attribute.Bool("success", true))

	return result.Text, result.Usage, nil
}

// doChatRequest performs a single chat-completions round trip
func (p *OpenAIProvider) doChatRequest(ctx context.Context, systemPrompt, userPrompt string, jsonMode bool) (*completion, error) {
	reqBody := chatCompletionRequest{
		Model:       p.config.Model,
		Temperature: *p.config.Temperature,
		MaxTokens:   defaultMaxTokens,
		Stream:      false,
	}
	if *p.config.UseSystemPrompts && systemPrompt != "" {
		reqBody.Messages = append(reqBody.Messages, chatMessage{Role: "system", Content: systemPrompt})
	}
	reqBody.Messages = append(reqBody.Messages, chatMessage{Role: "user", Content: userPrompt})
	if jsonMode {
		reqBody.ResponseFormat = &responseFormat{Type: "json_object"}
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshaling chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+chatCompletionsPath, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("building chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.config.APIKey)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("reading chat response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &httpStatusError{Status: resp.StatusCode, Body: compactErrorBody(body)}
	}

	var parsed chatCompletionResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decoding chat response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return nil, fmt.Errorf("chat response contained no choices")
	}

	var usage *TokenUsage
	if parsed.Usage.TotalTokens > 0 {
		usage = &TokenUsage{
			InputTokens:  parsed.Usage.PromptTokens,
			OutputTokens: parsed.Usage.CompletionTokens,
			TotalTokens:  parsed.Usage.TotalTokens,
		}
	}

	return &completion{
		Text:  parsed.Choices[0].Message.Content,
		Usage: usage,
	}, nil
}

// compactErrorBody trims an upstream error body to a loggable single line
func compactErrorBody(body []byte) string {
	s := strings.Join(strings.Fields(string(body)), " ")
	if len(s) > 512 {
		s = s[:512]
	}
	return s
}

// executeWithRetry executes an inference call with retry logic and exponential backoff
func (p *OpenAIProvider) executeWithRetry(ctx context.Context, operation string, fn func() (*completion, error)) (*completion, error) {
	var lastErr error

	for attempt := 0; attempt <= *p.config.MaxRetries; attempt++ {
		if attempt > 0 {
			p.logger.Warn("Retrying AI operation",
				"operation", operation,
				"attempt", attempt,
				"max_retries", *p.config.MaxRetries,
				"error", lastErr.Error())

			// Exponential backoff with jitter to prevent thundering herd
			baseDelay := time.Duration(math.Pow(2, float64(attempt-1))) * time.Second
			jitterMax := big.NewInt(int64(float64(baseDelay) * 0.1))
			jitterBig, _ := rand.Int(rand.Reader, jitterMax)
			jitter := time.Duration(jitterBig.Int64())
			// Cap maximum backoff at 30 seconds
			backoff := min(baseDelay+jitter, 30*time.Second)

			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		result, err := fn()
		if err == nil {
			if attempt > 0 {
				p.logger.Info("AI operation succeeded after retry",
					"operation", operation,
					"successful_attempt", attempt+1,
					"total_attempts", attempt+1)
			}
			return result, nil
		}

		lastErr = err

		// 4xx responses are reported, never retried. Rate limiting included.
		if !p.isRetryableError(err) {
			p.logger.Debug("Error is not retryable, stopping retry attempts",
				"operation", operation,
				"error", err.Error())
			break
		}
	}

	p.logger.LogError(lastErr, "AI operation failed after all retry attempts",
		"operation", operation,
		"total_attempts", *p.config.MaxRetries+1)

	return nil, lastErr
}

// isRetryableError determines if an error should trigger a retry
func (p *OpenAIProvider) isRetryableError(err error) bool {
	if err == nil {
		return false
	}

	// Network errors (timeouts, connection issues) are transient
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	var statusErr *httpStatusError
	if errors.As(err, &statusErr) {
		switch statusErr.Status {
		case http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout:
			return true
		}
	}

	return false
}

// classifyInferenceError maps a transport failure to the error taxonomy
func classifyInferenceError(operation string, err error) *resumelensErrors.AppError {
	var statusErr *httpStatusError
	if errors.As(err, &statusErr) {
		switch statusErr.Status {
		case http.StatusUnauthorized, http.StatusForbidden:
			return resumelensErrors.NewAIError(resumelensErrors.ErrCodeInferenceAuth,
				"Inference service rejected the API key", err).
				WithContext("operation", operation).
				WithContext("status", statusErr.Status)
		case http.StatusTooManyRequests:
			return resumelensErrors.NewAIError(resumelensErrors.ErrCodeInferenceRateLimit,
				"Inference service rate limit exceeded", err).
				WithContext("operation", operation).
				WithContext("status", statusErr.Status)
		default:
			return resumelensErrors.NewAIError(resumelensErrors.ErrCodeInferenceService,
				"Inference service request failed", err).
				WithContext("operation", operation).
				WithContext("status", statusErr.Status)
		}
	}

	return resumelensErrors.NewAIError(resumelensErrors.ErrCodeInferenceService,
		"Inference service unreachable", err).
		WithContext("operation", operation)
}

// GetModelInfo checks the readiness and availability of the configured model
func (p *OpenAIProvider) GetModelInfo(ctx context.Context) *ModelInfo {
	modelInfo := &ModelInfo{
		Name:      p.config.Model,
		Available: false,
	}

	checkCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(checkCtx, http.MethodGet, p.baseURL+"/models/"+p.config.Model, nil)
	if err != nil {
		modelInfo.Error = fmt.Sprintf("Failed to build model check request: %v", err)
		return modelInfo
	}
	req.Header.Set("Authorization", "Bearer "+p.config.APIKey)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		modelInfo.Error = fmt.Sprintf("Failed to get model info: %v", err)
		p.logger.Warn("Model availability check failed",
			"model", p.config.Model,
			"provider", p.config.Provider,
			"error", err.Error())
		return modelInfo
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		modelInfo.Error = fmt.Sprintf("Model check returned HTTP %d", resp.StatusCode)
		return modelInfo
	}

	modelInfo.Available = true
	p.logger.Debug("Model availability check successful",
		"model", p.config.Model,
		"provider", p.config.Provider)

	return modelInfo
}

// Close implements AIProvider interface
func (p *OpenAIProvider) Close() error {
	p.httpClient.CloseIdleConnections()
	return nil
}
