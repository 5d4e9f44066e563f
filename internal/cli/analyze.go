package cli

import (
	"fmt"

	"resumelens/internal/ai"
	"resumelens/internal/common"
	"resumelens/internal/types"

	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [resume-file]",
	Short: "Analyze a resume for ATS compatibility",
	Long: `Analyze a resume for ATS (Applicant Tracking System) compatibility using AI.
The command takes one argument: the path to the resume file. PDF files are
extracted automatically, with an OCR fallback for scanned documents; plain
text files are read as-is.

The analysis includes:
- Overall ATS score and rationale
- Per-category score breakdown
- Section-by-section findings with severity
- Keyword coverage
- Prioritized improvement recommendations

Supply --job-description to additionally score the resume against a specific
job posting.`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfigFromContext(cmd.Context())
		// Apply default format if not specified
		if analyzeConfig.OutputFormat == "" {
			analyzeConfig.OutputFormat = cfg.App.DefaultFormat
		}
		// Validate format against supported formats
		return common.ValidateOutputFormat(analyzeConfig.OutputFormat, cfg.App.SupportedFormats)
	},
	RunE: runAnalyze,
}

var (
	analyzeConfig      common.CommandConfig
	analyzeJobDescFile string
)

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	analyzeCmd.Flags().StringVar(&analyzeConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")
	analyzeCmd.Flags().StringVarP(&analyzeJobDescFile, "job-description", "j", "", "Job description file to score the resume against (optional)")

	// Add completion for format flag
	_ = analyzeCmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cfg := getConfigFromContext(cmd.Context())
		return common.GetSupportedFormats(cfg.App.SupportedFormats), cobra.ShellCompDirectiveNoFileComp
	})
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := getConfigFromContext(ctx)
	logger := getLoggerFromContext(ctx)

	// Create AI service for analyze operation
	analyzeAIConfig := cfg.GetAnalyzeConfig()
	aiService, err := ai.NewService(&analyzeAIConfig, "analyze", logger)
	if err != nil {
		return fmt.Errorf("failed to create AI service: %w", err)
	}

	resumeText, err := loadResumeText(ctx, cfg, logger, args[0])
	if err != nil {
		return fmt.Errorf("failed to read resume: %w", err)
	}

	input := types.AnalyzeResumeInput{ResumeText: resumeText}
	if analyzeJobDescFile != "" {
		jobDescription, err := common.NewFileProcessor(logger).ReadFile(analyzeJobDescFile)
		if err != nil {
			return fmt.Errorf("failed to read job description: %w", err)
		}
		input.JobDescription = jobDescription
	}

	logger.Info("Starting resume analysis",
		"resume_chars", len(input.ResumeText),
		"has_job_description", input.JobDescription != "",
		"output_format", analyzeConfig.OutputFormat)

	result, tokenUsage, err := aiService.AnalyzeResume(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to analyze resume: %w", err)
	}

	if tokenUsage != nil {
		logger.Info("AI token usage",
			"input_tokens", tokenUsage.InputTokens,
			"output_tokens", tokenUsage.OutputTokens,
			"total_tokens", tokenUsage.TotalTokens)
	}

	if err := common.NewOutputHandler(logger).HandleOutput(result, analyzeConfig); err != nil {
		return err
	}
	logger.Info("Resume analysis completed successfully")
	return nil
}
