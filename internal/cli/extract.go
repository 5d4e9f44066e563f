package cli

import (
	"fmt"

	"resumelens/internal/common"
	"resumelens/internal/extract"

	"github.com/spf13/cobra"
)

var extractCmd = &cobra.Command{
	Use:   "extract [pdf-file]",
	Short: "Extract text from a resume PDF",
	Long: `Extract text from a resume PDF without running any AI analysis.
Digitally-produced PDFs are read from their text layer; scanned documents
fall back to OCR automatically. The output records the page count and
whether the text came from the text layer or from OCR.`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfigFromContext(cmd.Context())
		if extractConfig.OutputFormat == "" {
			extractConfig.OutputFormat = cfg.App.DefaultFormat
		}
		return common.ValidateOutputFormat(extractConfig.OutputFormat, cfg.App.SupportedFormats)
	},
	RunE: runExtract,
}

var extractConfig common.CommandConfig

func init() {
	extractCmd.Flags().StringVarP(&extractConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	extractCmd.Flags().StringVar(&extractConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")

	_ = extractCmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cfg := getConfigFromContext(cmd.Context())
		return common.GetSupportedFormats(cfg.App.SupportedFormats), cobra.ShellCompDirectiveNoFileComp
	})
}

func runExtract(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := getConfigFromContext(ctx)
	logger := getLoggerFromContext(ctx)

	data, err := common.NewFileProcessor(logger).ReadFileBytes(args[0])
	if err != nil {
		return fmt.Errorf("failed to read PDF: %w", err)
	}

	logger.Info("Starting text extraction",
		"file", args[0],
		"bytes", len(data),
		"output_format", extractConfig.OutputFormat)

	extractor := extract.NewExtractor(extract.Options{
		MinTextLength: cfg.Extraction.MinTextLength,
		OCRDPI:        cfg.Extraction.OCRDPI,
		OCRLanguage:   cfg.Extraction.OCRLanguage,
	}, logger)

	doc, err := extractor.Extract(ctx, data, extractionProgressLogger(logger))
	if err != nil {
		return fmt.Errorf("failed to extract text: %w", err)
	}

	if err := common.NewOutputHandler(logger).HandleOutput(doc, extractConfig); err != nil {
		return err
	}
	logger.Info("Text extraction completed successfully",
		"pages", doc.PageCount,
		"provenance", doc.Provenance)
	return nil
}
