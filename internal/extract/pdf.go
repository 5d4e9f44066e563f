package extract

import (
	"bytes"
	"strings"

	"resumelens/internal/errors"
	"resumelens/internal/types"

	"github.com/ledongthuc/pdf"
)

// DirectExtractor pulls text out of a PDF's embedded text layer without
// rendering any pixels.
type DirectExtractor struct {
	logger *errors.Logger
}

// NewDirectExtractor creates a new direct text extractor
func NewDirectExtractor(logger *errors.Logger) *DirectExtractor {
	return &DirectExtractor{logger: logger}
}

// Extract opens the document and concatenates per-page text, pages separated
// by a blank line. It does not judge whether the output is usable; that is
// the orchestrator's call.
func (e *DirectExtractor) Extract(data []byte) (types.ExtractedDocument, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return types.ExtractedDocument{}, errors.NewExtractionError(errors.ErrCodeDocumentOpen,
			"Failed to open PDF document", err).
			WithContext("size_bytes", len(data))
	}

	pageCount := reader.NumPage()
	pages := make([]string, 0, pageCount)

	for i := 1; i <= pageCount; i++ {
		text := e.extractPageText(reader, i)
		pages = append(pages, text)
	}

	return types.ExtractedDocument{
		PageCount:  pageCount,
		RawText:    strings.TrimSpace(strings.Join(pages, "\n\n")),
		Provenance: types.ProvenanceDirect,
	}, nil
}

// extractPageText returns the text of a single page with fragments joined by
// a single space. A page that cannot be read contributes empty text so the
// rest of the document is preserved.
func (e *DirectExtractor) extractPageText(reader *pdf.Reader, pageNum int) (text string) {
	// The content stream parser panics on some malformed streams.
	defer func() {
		if r := recover(); r != nil {
			if e.logger != nil {
				e.logger.Warn("Skipping unreadable page", "page", pageNum, "panic", r)
			}
			text = ""
		}
	}()

	page := reader.Page(pageNum)
	if page.V.IsNull() {
		return ""
	}

	raw, err := page.GetPlainText(nil)
	if err != nil {
		if e.logger != nil {
			e.logger.Warn("Failed to extract page text", "page", pageNum, "error", err)
		}
		return ""
	}

	return strings.Join(strings.Fields(raw), " ")
}
