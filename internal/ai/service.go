package ai

import (
	"context"
	"encoding/json"
	"fmt"

	"resumelens/internal/config"
	"resumelens/internal/errors"
	"resumelens/internal/types"
)

// Service handles AI operations for resume analysis
type Service struct {
	Provider AIProvider // Exported for access from server package
	parser   *Parser
	config   *config.OperationAIConfig
	logger   *errors.Logger
}

// NewService creates a new AI service instance with configuration for a specific operation
func NewService(cfg *config.OperationAIConfig, operationType string, logger *errors.Logger) (*Service, error) {
	var provider AIProvider
	var err error

	// Debug logging for service initialization
	logger.Debug("Initializing AI service",
		"provider", cfg.Provider,
		"operation_type", operationType,
		"model", cfg.Model,
		"temperature", *cfg.Temperature,
		"timeout", *cfg.Timeout,
		"max_retries", *cfg.MaxRetries,
		"use_system_prompts", *cfg.UseSystemPrompts)

	switch cfg.Provider {
	case "openai":
		provider, err = NewOpenAIProvider(cfg, operationType, logger)
	case "gemini":
		provider, err = NewGeminiProvider(cfg, operationType, logger)
	default:
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig,
			fmt.Sprintf("Unsupported AI provider: %s", cfg.Provider), nil)
	}

	if err != nil {
		return nil, errors.NewAIError(errors.ErrCodeAIServiceFailed,
			"Failed to create AI provider", err)
	}

	return &Service{
		Provider: provider,
		parser:   NewParser(),
		config:   cfg,
		logger:   logger,
	}, nil
}

// AnalyzeResume requests an ATS critique of the resume text and parses the
// markdown reply into a typed result. The parse step never fails; a degraded
// reply yields a defaulted result with the raw text preserved.
func (s *Service) AnalyzeResume(ctx context.Context, input types.AnalyzeResumeInput) (types.AnalysisResult, *TokenUsage, error) {
	systemPrompt, userPrompt := buildAnalyzePrompts(s.config, input)

	raw, tokenUsage, err := s.Provider.Complete(ctx, systemPrompt, userPrompt)
	if err != nil {
		return types.AnalysisResult{}, nil, err
	}

	result := s.parser.Parse(raw)
	if input.JobDescription != "" {
		result.MatchPercentage = s.parser.ExtractMatchPercentage(raw)
	}

	s.logger.Debug("Resume analysis parsed",
		"score", result.Score,
		"categories", len(result.CategoryScores),
		"sections", len(result.Sections),
		"keywords", len(result.Keywords),
		"recommendations", len(result.Recommendations))

	return result, tokenUsage, nil
}

// MatchResume scores the resume against a job function and type through the
// strict-JSON path
func (s *Service) MatchResume(ctx context.Context, input types.MatchResumeInput) (types.MatchResumeOutput, *TokenUsage, error) {
	systemPrompt, userPrompt := buildMatchPrompts(s.config, input)

	raw, tokenUsage, err := s.Provider.CompleteJSON(ctx, systemPrompt, userPrompt, buildMatchSchema())
	if err != nil {
		return types.MatchResumeOutput{}, nil, err
	}

	var output types.MatchResumeOutput
	if err := json.Unmarshal([]byte(raw), &output); err != nil {
		return types.MatchResumeOutput{}, nil, errors.NewAIError(errors.ErrCodeAIResponseMalformed,
			"Failed to parse match response", err)
	}

	return output, tokenUsage, nil
}

// GetModelInfo returns information about the AI model for health checks
func (s *Service) GetModelInfo(ctx context.Context) any {
	return s.Provider.GetModelInfo(ctx)
}
