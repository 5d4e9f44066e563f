package ai

import (
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"resumelens/internal/config"
	"resumelens/internal/errors"
	"resumelens/internal/types"
)

// Helper functions to create pointers for test values
func timePtr(d time.Duration) *time.Duration { return &d }
func intPtr(i int) *int                      { return &i }
func float32Ptr(f float32) *float32          { return &f }
func boolPtr(b bool) *bool                   { return &b }

var testLogger = errors.NewLogger(slog.LevelDebug)

// fakeProvider records prompts and returns canned replies
type fakeProvider struct {
	reply         string
	jsonReply     string
	err           error
	completeCalls int
	jsonCalls     int
	lastSystem    string
	lastUser      string
}

func (f *fakeProvider) Complete(_ context.Context, systemPrompt, userPrompt string) (string, *TokenUsage, error) {
	f.completeCalls++
	f.lastSystem = systemPrompt
	f.lastUser = userPrompt
	return f.reply, &TokenUsage{InputTokens: 10, OutputTokens: 20, TotalTokens: 30}, f.err
}

func (f *fakeProvider) CompleteJSON(_ context.Context, systemPrompt, userPrompt string, _ any) (string, *TokenUsage, error) {
	f.jsonCalls++
	f.lastSystem = systemPrompt
	f.lastUser = userPrompt
	return f.jsonReply, nil, f.err
}

func (f *fakeProvider) GetModelInfo(context.Context) *ModelInfo {
	return &ModelInfo{Name: "fake", Available: true}
}

func (f *fakeProvider) Close() error { return nil }

func newTestService(provider AIProvider) *Service {
	return &Service{
		Provider: provider,
		parser:   NewParser(),
		config: &config.OperationAIConfig{
			Provider:         "openai",
			Model:            "test-model",
			Timeout:          timePtr(30 * time.Second),
			APIKey:           "test-key",
			MaxRetries:       intPtr(1),
			Temperature:      float32Ptr(0),
			UseSystemPrompts: boolPtr(true),
		},
		logger: testLogger,
	}
}

func TestAnalyzeResumePromptEmbedding(t *testing.T) {
	fake := &fakeProvider{reply: "**70 / 100**"}
	service := newTestService(fake)

	resume := "Jane Doe\nStaff engineer with ten years of Go experience."
	_, _, err := service.AnalyzeResume(context.Background(), types.AnalyzeResumeInput{ResumeText: resume})
	if err != nil {
		t.Fatalf("AnalyzeResume() error = %v", err)
	}

	if fake.completeCalls != 1 {
		t.Fatalf("Complete called %d times, want 1", fake.completeCalls)
	}
	if !strings.Contains(fake.lastUser, "-----\n"+resume+"\n-----") {
		t.Error("resume text must be embedded verbatim between delimiter markers")
	}
	if strings.Contains(fake.lastUser, "Job Description") {
		t.Error("prompt must not mention a job description when none was supplied")
	}
	if fake.lastSystem == "" {
		t.Error("system prompt should be populated from the defaults")
	}
}

func TestAnalyzeResumeJobDescriptionAddendum(t *testing.T) {
	fake := &fakeProvider{reply: "**70 / 100**\n\nMatch percentage: 64%"}
	service := newTestService(fake)

	input := types.AnalyzeResumeInput{
		ResumeText:     "A resume",
		JobDescription: "Senior Go engineer at a logistics startup.",
	}
	result, usage, err := service.AnalyzeResume(context.Background(), input)
	if err != nil {
		t.Fatalf("AnalyzeResume() error = %v", err)
	}

	if !strings.Contains(fake.lastUser, "-----\n"+input.JobDescription+"\n-----") {
		t.Error("job description must be embedded verbatim between delimiter markers")
	}
	if result.MatchPercentage == nil || *result.MatchPercentage != 64 {
		t.Errorf("MatchPercentage = %v, want 64", result.MatchPercentage)
	}
	if usage == nil || usage.TotalTokens != 30 {
		t.Errorf("usage = %+v, want total 30", usage)
	}
}

func TestAnalyzeResumeMatchPercentageGating(t *testing.T) {
	// Same reply text: the percentage is only read when a job description
	// was part of the request.
	fake := &fakeProvider{reply: "Scored well.\n\nMatch percentage: 80%"}
	service := newTestService(fake)

	result, _, err := service.AnalyzeResume(context.Background(), types.AnalyzeResumeInput{ResumeText: "A resume"})
	if err != nil {
		t.Fatalf("AnalyzeResume() error = %v", err)
	}
	if result.MatchPercentage != nil {
		t.Errorf("MatchPercentage = %d, want nil without a job description", *result.MatchPercentage)
	}
}

func TestMatchResume(t *testing.T) {
	fake := &fakeProvider{jsonReply: `{
		"matchScore": 71,
		"jobTitleMatch": "close",
		"keywordCount": 8,
		"totalExpectedKeywords": 12,
		"missingKeywords": ["Kubernetes", "Terraform"],
		"sectionsToEnhance": ["skills"],
		"resumeStructure": ["contact", "experience", "education"]
	}`}
	service := newTestService(fake)

	input := types.MatchResumeInput{
		ResumeText:  "A resume",
		JobFunction: "Platform Engineer",
		JobType:     "full-time",
	}
	output, _, err := service.MatchResume(context.Background(), input)
	if err != nil {
		t.Fatalf("MatchResume() error = %v", err)
	}

	if fake.jsonCalls != 1 {
		t.Fatalf("CompleteJSON called %d times, want 1", fake.jsonCalls)
	}
	if output.MatchScore != 71 {
		t.Errorf("MatchScore = %d, want 71", output.MatchScore)
	}
	if len(output.MissingKeywords) != 2 || output.MissingKeywords[0] != "Kubernetes" {
		t.Errorf("MissingKeywords = %v", output.MissingKeywords)
	}
	if !strings.Contains(fake.lastUser, input.JobFunction) || !strings.Contains(fake.lastUser, input.JobType) {
		t.Error("job function and type must appear in the prompt")
	}
}

func TestMatchResumeMalformedReply(t *testing.T) {
	fake := &fakeProvider{jsonReply: "not json at all"}
	service := newTestService(fake)

	_, _, err := service.MatchResume(context.Background(), types.MatchResumeInput{ResumeText: "A resume"})
	if err == nil {
		t.Fatal("expected an error for a malformed JSON reply")
	}
	appErr, ok := err.(*errors.AppError)
	if !ok {
		t.Fatalf("error type = %T, want *errors.AppError", err)
	}
	if appErr.Code != errors.ErrCodeAIResponseMalformed {
		t.Errorf("Code = %q, want %q", appErr.Code, errors.ErrCodeAIResponseMalformed)
	}
}

func TestOperationSpecificConfigDerivation(t *testing.T) {
	// Operation-specific configurations are derived from the global AI
	// config, with per-field fallbacks.
	testConfig := &config.Config{
		AI: config.AIConfig{
			Provider:         "openai",
			Model:            "global-model",
			BaseURL:          "https://inference.example.com/v1",
			Timeout:          60 * time.Second,
			APIKey:           "global-api-key",
			MaxRetries:       5,
			Temperature:      0,
			UseSystemPrompts: true,

			Analyze: config.OperationAIConfig{
				Model:   "analyze-specific-model",  // Override
				Timeout: timePtr(90 * time.Second), // Override
				// APIKey and MaxRetries fall back to global values.
			},

			Match: config.OperationAIConfig{
				MaxRetries: intPtr(1), // Override
			},
		},
	}

	t.Run("AnalyzeConfigDerivation", func(t *testing.T) {
		cfg := testConfig.GetAnalyzeConfig()
		if cfg.Model != "analyze-specific-model" {
			t.Errorf("Model = %q, want the analyze override", cfg.Model)
		}
		if *cfg.Timeout != 90*time.Second {
			t.Errorf("Timeout = %v, want 90s", *cfg.Timeout)
		}
		if cfg.APIKey != "global-api-key" {
			t.Errorf("APIKey = %q, want the global fallback", cfg.APIKey)
		}
		if *cfg.MaxRetries != 5 {
			t.Errorf("MaxRetries = %d, want the global fallback 5", *cfg.MaxRetries)
		}
	})

	t.Run("MatchConfigDerivation", func(t *testing.T) {
		cfg := testConfig.GetMatchConfig()
		if cfg.Model != "global-model" {
			t.Errorf("Model = %q, want the global fallback", cfg.Model)
		}
		if *cfg.MaxRetries != 1 {
			t.Errorf("MaxRetries = %d, want the match override 1", *cfg.MaxRetries)
		}
		if cfg.BaseURL != "https://inference.example.com/v1" {
			t.Errorf("BaseURL = %q, want the global fallback", cfg.BaseURL)
		}
	})

	t.Run("ServiceCreation", func(t *testing.T) {
		cfg := testConfig.GetAnalyzeConfig()
		if _, err := NewService(&cfg, "Analyze", testLogger); err != nil {
			t.Errorf("NewService() error = %v", err)
		}
	})
}
