package extract

import (
	"context"

	"resumelens/internal/errors"
	"resumelens/internal/types"
)

// MinTextLength is the sufficiency threshold: direct extraction yielding a
// trimmed text shorter than this is treated as a scanned-image document and
// sent through OCR. Genuine resumes, however short, clear it comfortably.
const MinTextLength = 50

type directExtractor interface {
	Extract(data []byte) (types.ExtractedDocument, error)
}

type ocrExtractor interface {
	Extract(ctx context.Context, data []byte, progress ProgressFunc) (types.ExtractedDocument, error)
}

// Extractor decides between direct text extraction and the OCR fallback and
// returns a single normalized document.
type Extractor struct {
	direct        directExtractor
	ocr           ocrExtractor
	minTextLength int
	logger        *errors.Logger
}

// Options configures an Extractor. Zero values fall back to defaults.
type Options struct {
	MinTextLength int
	OCRDPI        float64
	OCRLanguage   string
}

// NewExtractor creates an extraction orchestrator
func NewExtractor(opts Options, logger *errors.Logger) *Extractor {
	minLen := opts.MinTextLength
	if minLen <= 0 {
		minLen = MinTextLength
	}
	return &Extractor{
		direct:        NewDirectExtractor(logger),
		ocr:           NewOCREngine(opts.OCRDPI, opts.OCRLanguage, logger),
		minTextLength: minLen,
		logger:        logger,
	}
}

// Extract runs direct extraction first and falls back to OCR when the result
// is insufficient. If OCR output is also insufficient the document is
// unreadable and the caller must supply a different file.
func (x *Extractor) Extract(ctx context.Context, data []byte, progress ProgressFunc) (types.ExtractedDocument, error) {
	doc, err := x.direct.Extract(data)
	if err != nil {
		// Unopenable as a text document; OCR gets one chance at it.
		if x.logger != nil {
			x.logger.Warn("Direct extraction failed, falling back to OCR", "error", err)
		}
	} else if x.sufficient(doc.RawText) {
		if x.logger != nil {
			x.logger.Debug("Direct extraction sufficient",
				"pages", doc.PageCount,
				"chars", len(doc.RawText))
		}
		return doc, nil
	} else if x.logger != nil {
		x.logger.Info("Scanned PDF detected, running OCR",
			"pages", doc.PageCount,
			"direct_chars", len(doc.RawText))
	}

	ocrDoc, err := x.ocr.Extract(ctx, data, progress)
	if err != nil {
		return types.ExtractedDocument{}, err
	}

	if !x.sufficient(ocrDoc.RawText) {
		return types.ExtractedDocument{}, errors.NewExtractionError(errors.ErrCodeUnreadableDocument,
			"Document yielded no readable text from either the text layer or OCR", nil).
			WithContext("pages", ocrDoc.PageCount).
			WithContext("ocr_chars", len(ocrDoc.RawText))
	}

	return ocrDoc, nil
}

// sufficient reports whether extracted text clears the sufficiency threshold.
// The text is already trimmed by the extractors.
func (x *Extractor) sufficient(text string) bool {
	return len(text) >= x.minTextLength
}
