package extract

import (
	"context"
	"strings"

	"resumelens/internal/errors"
	"resumelens/internal/types"

	"github.com/gen2brain/go-fitz"
	"github.com/otiai10/gosseract/v2"
)

// Rasterization runs at twice the 72 DPI native PDF resolution. Higher DPI
// improves recognition on dense resumes but roughly quadruples render time.
const defaultOCRDPI = 144

const defaultOCRLanguage = "eng"

// ProgressFunc receives extraction progress events. Implementations must not
// block; events are emitted synchronously between pages.
type ProgressFunc func(types.ProgressEvent)

// OCREngine recovers text from scanned PDFs by rendering each page to an
// image and running character recognition over it.
type OCREngine struct {
	dpi      float64
	language string
	logger   *errors.Logger
}

// NewOCREngine creates an OCR engine with the given rasterization DPI and
// Tesseract language. Zero values fall back to the defaults.
func NewOCREngine(dpi float64, language string, logger *errors.Logger) *OCREngine {
	if dpi <= 0 {
		dpi = defaultOCRDPI
	}
	if language == "" {
		language = defaultOCRLanguage
	}
	return &OCREngine{dpi: dpi, language: language, logger: logger}
}

// Extract rasterizes and recognizes every page of the document in order.
// A page that fails to render contributes empty text and processing
// continues. A recognition failure after the engine came up aborts the whole
// document; at that point a corrupt page stream is indistinguishable from an
// engine failure.
func (e *OCREngine) Extract(ctx context.Context, data []byte, progress ProgressFunc) (types.ExtractedDocument, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return types.ExtractedDocument{}, errors.NewExtractionError(errors.ErrCodeOCRInit,
			"Failed to open document for rasterization", err)
	}
	defer func() {
		if err := doc.Close(); err != nil && e.logger != nil {
			e.logger.Warn("Failed to close rasterizer document", "error", err)
		}
	}()

	client := gosseract.NewClient()
	defer func() {
		if err := client.Close(); err != nil && e.logger != nil {
			e.logger.Warn("Failed to release OCR client", "error", err)
		}
	}()

	if err := client.SetLanguage(e.language); err != nil {
		return types.ExtractedDocument{}, errors.NewExtractionError(errors.ErrCodeOCRInit,
			"Failed to initialize OCR engine", err).
			WithContext("language", e.language)
	}

	pageCount := doc.NumPage()
	emit(progress, types.ProgressEvent{Stage: types.StageInitializing, PageCount: pageCount})

	pages := make([]string, 0, pageCount)
	for i := 0; i < pageCount; i++ {
		if err := ctx.Err(); err != nil {
			return types.ExtractedDocument{}, err
		}

		emit(progress, types.ProgressEvent{Stage: types.StageRendering, PageIndex: i + 1, PageCount: pageCount})

		img, err := doc.ImagePNG(i, e.dpi)
		if err != nil {
			if e.logger != nil {
				e.logger.Warn("Failed to render page, skipping", "page", i+1, "error", err)
			}
			pages = append(pages, "")
			continue
		}

		emit(progress, types.ProgressEvent{Stage: types.StageRecognizing, PageIndex: i + 1, PageCount: pageCount})

		text, err := e.recognize(client, img)
		if err != nil {
			return types.ExtractedDocument{}, errors.NewExtractionError(errors.ErrCodeOCRRecognition,
				"OCR recognition failed", err).
				WithContext("page", i+1).
				WithContext("page_count", pageCount)
		}

		pages = append(pages, strings.TrimSpace(text))
	}

	return types.ExtractedDocument{
		PageCount:  pageCount,
		RawText:    strings.TrimSpace(strings.Join(pages, "\n\n")),
		Provenance: types.ProvenanceOCR,
	}, nil
}

// recognize runs character recognition over a single rendered page image
func (e *OCREngine) recognize(client *gosseract.Client, img []byte) (string, error) {
	if err := client.SetImageFromBytes(img); err != nil {
		return "", err
	}
	return client.Text()
}

func emit(progress ProgressFunc, event types.ProgressEvent) {
	if progress != nil {
		progress(event)
	}
}
