package server

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"resumelens/internal/ai"
	apperrors "resumelens/internal/errors"
	"resumelens/internal/extract"
	"resumelens/internal/observability"
	"resumelens/internal/types"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// resolveResumeText produces resume text from a request that carries either
// plain text or a base64-encoded PDF. PDF input goes through the extraction
// pipeline, including the OCR fallback; the returned document is nil when the
// request supplied plain text.
func (s *Server) resolveResumeText(ctx context.Context, resumeText, pdfBase64 string, om *observability.ObservabilityManager, span trace.Span) (string, *types.ExtractedDocument, error) {
	if strings.TrimSpace(resumeText) != "" {
		span.SetAttributes(attribute.String("resume.source", "text"))
		return resumeText, nil, nil
	}

	if strings.TrimSpace(pdfBase64) == "" {
		return "", nil, apperrors.NewValidationError(apperrors.ErrCodeInvalidRequest,
			"Either resumeText or pdfBase64 must be provided", nil)
	}

	data, err := base64.StdEncoding.DecodeString(pdfBase64)
	if err != nil {
		return "", nil, apperrors.NewValidationError(apperrors.ErrCodeInvalidRequest,
			"pdfBase64 is not valid base64", err)
	}

	extractor := extract.NewExtractor(extract.Options{
		MinTextLength: s.AppConfig.Extraction.MinTextLength,
		OCRDPI:        s.AppConfig.Extraction.OCRDPI,
		OCRLanguage:   s.AppConfig.Extraction.OCRLanguage,
	}, s.Logger)

	doc, err := extractor.Extract(ctx, data, nil)
	if err != nil {
		return "", nil, err
	}

	span.SetAttributes(
		attribute.String("resume.source", "pdf"),
		attribute.Int("pdf.pages", doc.PageCount),
		attribute.String("extraction.provenance", string(doc.Provenance)),
	)

	if doc.Provenance == types.ProvenanceOCR {
		metrics := om.GetMetrics()
		metrics.RecordBusinessMetric(ctx, "ocr_fallback", true, om,
			attribute.Int("pages", doc.PageCount))
	}

	return doc.RawText, &doc, nil
}

// writeExtractionError maps extraction and validation failures to HTTP status codes
func writeExtractionError(w http.ResponseWriter, err error, span trace.Span) {
	span.RecordError(err)

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		switch appErr.Code {
		case apperrors.ErrCodeUnreadableDocument:
			span.SetAttributes(attribute.String("error.type", "unreadable_document"))
			writeErrorResponse(w, "Unreadable document", appErr.Message, http.StatusUnprocessableEntity)
			return
		case apperrors.ErrCodeInvalidRequest:
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid request", appErr.Message, http.StatusBadRequest)
			return
		}
	}

	span.SetAttributes(attribute.String("error.type", "extraction"))
	writeErrorResponse(w, "Failed to extract text", err.Error(), http.StatusInternalServerError)
}

// createAnalyzeHandler wraps the analyze handler with observability
func (s *Server) createAnalyzeHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("resumelens.api")
		ctx, span := tracer.Start(ctx, "api.analyze")
		defer span.End()

		// Parse request
		var req AnalyzeRequest
		if err := parseJSONRequest(r, &req); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}

		resumeText, doc, err := s.resolveResumeText(ctx, req.ResumeText, req.PDFBase64, om, span)
		if err != nil {
			writeExtractionError(w, err, span)
			return
		}

		// Add request attributes to span
		span.SetAttributes(
			attribute.Int("request.resume_length", len(resumeText)),
			attribute.Bool("request.has_job_description", req.JobDescription != ""),
			attribute.String("operation", "analyze"),
		)

		input := types.AnalyzeResumeInput{
			ResumeText:     resumeText,
			JobDescription: req.JobDescription,
		}

		// Create AI service for analyze operation
		analyzeConfig := s.AppConfig.GetAnalyzeConfig()
		aiService, err := ai.NewService(&analyzeConfig, "analyze", s.Logger)
		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "service_creation"))
			writeErrorResponse(w, "Failed to create AI service", err.Error(), http.StatusInternalServerError)
			return
		}

		// Track AI operation with observability and token usage
		metrics := om.GetMetrics()
		var result types.AnalysisResult
		err = metrics.TrackAIOperationWithTokens(ctx, "analyze", func(ctx context.Context) *observability.AIOperationResult {
			output, tokenUsage, aiErr := aiService.AnalyzeResume(ctx, input)
			result = output
			return &observability.AIOperationResult{
				Error:      aiErr,
				TokenUsage: (*observability.TokenUsage)(tokenUsage),
			}
		}, om)

		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "ai_processing"))
			metrics.RecordBusinessMetric(ctx, "resume_analyzed", false, om,
				attribute.String("error", err.Error()))
			writeErrorResponse(w, "Failed to analyze resume", err.Error(), http.StatusInternalServerError)
			return
		}

		// Record success metrics
		metrics.RecordBusinessMetric(ctx, "resume_analyzed", true, om,
			attribute.Int("ats.score", result.Score),
			attribute.Int("recommendations_count", len(result.Recommendations)))

		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.Int("ats.score", result.Score),
			attribute.Int("recommendations_count", len(result.Recommendations)),
		)

		response := AnalyzeResponse{AnalysisResult: result}
		if doc != nil {
			response.ExtractedText = doc.RawText
			response.Provenance = doc.Provenance
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(response); err != nil {
			span.RecordError(err)
			http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		}
	}
}

// createExtractHandler wraps the extract handler with observability
func (s *Server) createExtractHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("resumelens.api")
		ctx, span := tracer.Start(ctx, "api.extract")
		defer span.End()

		var req ExtractRequest
		if err := parseJSONRequest(r, &req); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}

		if strings.TrimSpace(req.PDFBase64) == "" {
			err := fmt.Errorf("missing pdf content")
			span.RecordError(err)
			writeErrorResponse(w, "Missing PDF content", "pdfBase64 field is required", http.StatusBadRequest)
			return
		}

		data, err := base64.StdEncoding.DecodeString(req.PDFBase64)
		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid PDF content", "pdfBase64 is not valid base64", http.StatusBadRequest)
			return
		}

		span.SetAttributes(
			attribute.Int("request.pdf_bytes", len(data)),
			attribute.String("operation", "extract"),
		)

		extractor := extract.NewExtractor(extract.Options{
			MinTextLength: s.AppConfig.Extraction.MinTextLength,
			OCRDPI:        s.AppConfig.Extraction.OCRDPI,
			OCRLanguage:   s.AppConfig.Extraction.OCRLanguage,
		}, s.Logger)

		metrics := om.GetMetrics()
		doc, err := extractor.Extract(ctx, data, nil)
		if err != nil {
			metrics.RecordBusinessMetric(ctx, "document_extracted", false, om)
			writeExtractionError(w, err, span)
			return
		}

		metrics.RecordBusinessMetric(ctx, "document_extracted", true, om,
			attribute.Int("pages", doc.PageCount),
			attribute.String("provenance", string(doc.Provenance)))
		if doc.Provenance == types.ProvenanceOCR {
			metrics.RecordBusinessMetric(ctx, "ocr_fallback", true, om,
				attribute.Int("pages", doc.PageCount))
		}

		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.Int("response.pages", doc.PageCount),
			attribute.String("response.provenance", string(doc.Provenance)),
		)

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(doc); err != nil {
			span.RecordError(err)
			http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		}
	}
}

// createMatchHandler wraps the match handler with observability
func (s *Server) createMatchHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("resumelens.api")
		ctx, span := tracer.Start(ctx, "api.match")
		defer span.End()

		var req MatchRequest
		if err := parseJSONRequest(r, &req); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}

		if strings.TrimSpace(req.JobFunction) == "" {
			err := fmt.Errorf("missing job function")
			span.RecordError(err)
			writeErrorResponse(w, "Missing job function", "jobFunction field is required", http.StatusBadRequest)
			return
		}
		if strings.TrimSpace(req.JobType) == "" {
			err := fmt.Errorf("missing job type")
			span.RecordError(err)
			writeErrorResponse(w, "Missing job type", "jobType field is required", http.StatusBadRequest)
			return
		}

		resumeText, _, err := s.resolveResumeText(ctx, req.ResumeText, req.PDFBase64, om, span)
		if err != nil {
			writeExtractionError(w, err, span)
			return
		}

		span.SetAttributes(
			attribute.Int("request.resume_length", len(resumeText)),
			attribute.String("request.job_function", req.JobFunction),
			attribute.String("request.job_type", req.JobType),
			attribute.String("operation", "match"),
		)

		input := types.MatchResumeInput{
			ResumeText:  resumeText,
			JobFunction: req.JobFunction,
			JobType:     req.JobType,
		}

		// Create AI service for match operation
		matchConfig := s.AppConfig.GetMatchConfig()
		aiService, err := ai.NewService(&matchConfig, "match", s.Logger)
		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "service_creation"))
			writeErrorResponse(w, "Failed to create AI service", err.Error(), http.StatusInternalServerError)
			return
		}

		metrics := om.GetMetrics()
		var result types.MatchResumeOutput
		err = metrics.TrackAIOperationWithTokens(ctx, "match", func(ctx context.Context) *observability.AIOperationResult {
			output, tokenUsage, aiErr := aiService.MatchResume(ctx, input)
			result = output
			return &observability.AIOperationResult{
				Error:      aiErr,
				TokenUsage: (*observability.TokenUsage)(tokenUsage),
			}
		}, om)

		if err != nil {
			span.RecordError(err)
			metrics.RecordBusinessMetric(ctx, "resume_matched", false, om)
			writeErrorResponse(w, "Failed to match resume", err.Error(), http.StatusInternalServerError)
			return
		}

		metrics.RecordBusinessMetric(ctx, "resume_matched", true, om,
			attribute.Int("match_score", result.MatchScore),
			attribute.Int("missing_keywords_count", len(result.MissingKeywords)))

		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.Int("match_score", result.MatchScore),
			attribute.Int("missing_keywords_count", len(result.MissingKeywords)),
		)

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(result); err != nil {
			span.RecordError(err)
			http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		}
	}
}

// createRateLimitMiddleware adds observability to rate limiting
func (s *Server) createRateLimitMiddleware(om *observability.ObservabilityManager) func(http.HandlerFunc) http.HandlerFunc {
	originalMiddleware := s.rateLimitMiddleware()

	return func(next http.HandlerFunc) http.HandlerFunc {
		return originalMiddleware(func(w http.ResponseWriter, r *http.Request) {
			// Check if this request was rate limited by examining the response
			// We'll wrap the ResponseWriter to detect rate limit responses
			wrapper := &responseWrapper{ResponseWriter: w, statusCode: 200}

			next(wrapper, r)

			// If rate limited, record metric
			if wrapper.statusCode == http.StatusTooManyRequests {
				metrics := om.GetMetrics()
				metrics.RecordBusinessMetric(r.Context(), "rate_limit_hit", true, om,
					attribute.String("endpoint", r.URL.Path),
					attribute.String("method", r.Method))
			}
		})
	}
}

// responseWrapper wraps http.ResponseWriter to capture status code
type responseWrapper struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWrapper) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
