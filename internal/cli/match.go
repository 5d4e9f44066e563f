package cli

import (
	"fmt"

	"resumelens/internal/ai"
	"resumelens/internal/common"
	"resumelens/internal/types"

	"github.com/spf13/cobra"
)

var matchCmd = &cobra.Command{
	Use:   "match [resume-file]",
	Short: "Match a resume against a job function and type",
	Long: `Match a resume against a target job function and employment type using AI.
The result is a structured report with a match score, keyword coverage,
missing keywords, and sections worth enhancing. PDF resumes are extracted
automatically, with an OCR fallback for scanned documents.`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfigFromContext(cmd.Context())
		if matchConfig.OutputFormat == "" {
			matchConfig.OutputFormat = cfg.App.DefaultFormat
		}
		return common.ValidateOutputFormat(matchConfig.OutputFormat, cfg.App.SupportedFormats)
	},
	RunE: runMatch,
}

var (
	matchConfig      common.CommandConfig
	matchJobFunction string
	matchJobType     string
)

func init() {
	matchCmd.Flags().StringVarP(&matchConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	matchCmd.Flags().StringVar(&matchConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")
	matchCmd.Flags().StringVar(&matchJobFunction, "job-function", "", "Target job function, e.g. \"Backend Engineer\" (required)")
	matchCmd.Flags().StringVar(&matchJobType, "job-type", "", "Target employment type, e.g. \"Full-time\" (required)")
	_ = matchCmd.MarkFlagRequired("job-function")
	_ = matchCmd.MarkFlagRequired("job-type")

	_ = matchCmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cfg := getConfigFromContext(cmd.Context())
		return common.GetSupportedFormats(cfg.App.SupportedFormats), cobra.ShellCompDirectiveNoFileComp
	})
}

func runMatch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := getConfigFromContext(ctx)
	logger := getLoggerFromContext(ctx)

	// Create AI service for match operation
	matchAIConfig := cfg.GetMatchConfig()
	aiService, err := ai.NewService(&matchAIConfig, "match", logger)
	if err != nil {
		return fmt.Errorf("failed to create AI service: %w", err)
	}

	resumeText, err := loadResumeText(ctx, cfg, logger, args[0])
	if err != nil {
		return fmt.Errorf("failed to read resume: %w", err)
	}

	input := types.MatchResumeInput{
		ResumeText:  resumeText,
		JobFunction: matchJobFunction,
		JobType:     matchJobType,
	}

	logger.Info("Starting resume match",
		"resume_chars", len(input.ResumeText),
		"job_function", input.JobFunction,
		"job_type", input.JobType,
		"output_format", matchConfig.OutputFormat)

	result, tokenUsage, err := aiService.MatchResume(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to match resume: %w", err)
	}

	if tokenUsage != nil {
		logger.Info("AI token usage",
			"input_tokens", tokenUsage.InputTokens,
			"output_tokens", tokenUsage.OutputTokens,
			"total_tokens", tokenUsage.TotalTokens)
	}

	if err := common.NewOutputHandler(logger).HandleOutput(result, matchConfig); err != nil {
		return err
	}
	logger.Info("Resume match completed successfully")
	return nil
}
