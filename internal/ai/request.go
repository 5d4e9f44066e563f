package ai

import (
	"fmt"

	"resumelens/internal/config"
	"resumelens/internal/types"
)

// buildAnalyzePrompts returns the system and user prompts for an ATS
// analysis request. The resume text is embedded verbatim between delimiter
// markers; an optional job description is appended the same way together
// with the match-percentage requirement.
func buildAnalyzePrompts(cfg *config.OperationAIConfig, input types.AnalyzeResumeInput) (string, string) {
	systemPrompt := getSystemPrompt(cfg, "analyze")
	userPrompt := fmt.Sprintf(getUserPrompt(cfg, "analyze"), input.ResumeText)

	if input.JobDescription != "" {
		userPrompt += fmt.Sprintf(jobMatchAddendum, input.JobDescription)
	}

	return systemPrompt, userPrompt
}

// buildMatchPrompts returns the system and user prompts for the strict-JSON
// match operation
func buildMatchPrompts(cfg *config.OperationAIConfig, input types.MatchResumeInput) (string, string) {
	systemPrompt := getSystemPrompt(cfg, "match")
	userPrompt := fmt.Sprintf(getUserPrompt(cfg, "match"),
		input.ResumeText, input.JobFunction, input.JobType)

	return systemPrompt, userPrompt
}

// getSystemPrompt returns the appropriate system prompt
func getSystemPrompt(cfg *config.OperationAIConfig, promptType string) string {
	loadedPrompts, configPrompts := getPrompts(cfg, promptType)
	var configSystemPrompts *config.SystemPrompts
	if configPrompts != nil {
		configSystemPrompts = &configPrompts.SystemPrompts
	} else {
		// Create an empty struct to avoid nil pointer panics
		configSystemPrompts = &config.SystemPrompts{}
	}

	switch promptType {
	case "analyze":
		return resolvePrompt(
			loadedPrompts.SystemPrompts.AnalyzeResume,
			configSystemPrompts.AnalyzeResume,
			DefaultSystemPrompts.AnalyzeResume,
		)
	case "match":
		return resolvePrompt(
			loadedPrompts.SystemPrompts.MatchResume,
			configSystemPrompts.MatchResume,
			DefaultSystemPrompts.MatchResume,
		)
	default:
		return ""
	}
}

// getUserPrompt returns the appropriate user prompt template
func getUserPrompt(cfg *config.OperationAIConfig, promptType string) string {
	loadedPrompts, configPrompts := getPrompts(cfg, promptType)
	var configUserPrompts *config.UserPrompts
	if configPrompts != nil {
		configUserPrompts = &configPrompts.UserPrompts
	} else {
		// Create an empty struct to avoid nil pointer panics
		configUserPrompts = &config.UserPrompts{}
	}

	switch promptType {
	case "analyze":
		return resolvePrompt(
			loadedPrompts.UserPrompts.AnalyzeResume,
			configUserPrompts.AnalyzeResume,
			DefaultUserPrompts.AnalyzeResume,
		)
	case "match":
		return resolvePrompt(
			loadedPrompts.UserPrompts.MatchResume,
			configUserPrompts.MatchResume,
			DefaultUserPrompts.MatchResume,
		)
	default:
		return ""
	}
}

// getPrompts returns the appropriate prompts for the operation, prioritizing loaded content over config
func getPrompts(cfg *config.OperationAIConfig, operationType string) (config.OperationLoadedPrompts, *config.PromptConfig) {
	// Get loaded prompts (returns a copy)
	loadedPrompts := config.GetPromptsForOperation(operationType)
	configPrompts := &cfg.CustomPrompts
	return loadedPrompts, configPrompts
}

// resolvePrompt selects the correct prompt string based on a clear priority order:
// 1. A prompt loaded from a file.
// 2. A prompt defined directly in the configuration.
// 3. A hardcoded default prompt.
func resolvePrompt(loadedFromFile, fromConfig, fromDefault string) string {
	if loadedFromFile != "" {
		return loadedFromFile
	}
	if fromConfig != "" {
		return fromConfig
	}
	return fromDefault
}
