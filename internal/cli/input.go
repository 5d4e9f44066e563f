package cli

import (
	"context"
	"path/filepath"
	"strings"

	"resumelens/internal/common"
	"resumelens/internal/config"
	"resumelens/internal/errors"
	"resumelens/internal/extract"
	"resumelens/internal/types"
)

// loadResumeText reads a resume from disk. PDF files go through the extraction
// pipeline, including the OCR fallback for scanned documents; anything else is
// read as plain text.
func loadResumeText(ctx context.Context, cfg *config.Config, logger *errors.Logger, path string) (string, error) {
	fileProcessor := common.NewFileProcessor(logger)

	if !isPDFFile(path) {
		content, err := fileProcessor.ReadFile(path)
		if err != nil {
			return "", err
		}
		return content, nil
	}

	data, err := fileProcessor.ReadFileBytes(path)
	if err != nil {
		return "", err
	}

	extractor := extract.NewExtractor(extract.Options{
		MinTextLength: cfg.Extraction.MinTextLength,
		OCRDPI:        cfg.Extraction.OCRDPI,
		OCRLanguage:   cfg.Extraction.OCRLanguage,
	}, logger)

	doc, err := extractor.Extract(ctx, data, extractionProgressLogger(logger))
	if err != nil {
		return "", err
	}

	logger.Info("Resume text extracted",
		"file", path,
		"pages", doc.PageCount,
		"chars", len(doc.RawText),
		"provenance", doc.Provenance)

	return doc.RawText, nil
}

// extractionProgressLogger returns a progress callback that logs OCR progress
func extractionProgressLogger(logger *errors.Logger) extract.ProgressFunc {
	return func(event types.ProgressEvent) {
		if logger == nil {
			return
		}
		logger.Debug("Extraction progress",
			"stage", string(event.Stage),
			"page", event.PageIndex,
			"pages", event.PageCount)
	}
}

func isPDFFile(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".pdf")
}
