package formatters

import (
	"encoding/json"
	"fmt"
	"strings"

	"resumelens/internal/types"
)

// Formatter interface for different output formats
type Formatter interface {
	Format(data any) (string, error)
	SupportedType() string
}

// FormatterRegistry manages all available formatters
type FormatterRegistry struct {
	formatters map[string]map[string]Formatter // format -> type -> formatter
}

// NewFormatterRegistry creates a new formatter registry with default formatters
func NewFormatterRegistry() *FormatterRegistry {
	registry := &FormatterRegistry{
		formatters: make(map[string]map[string]Formatter),
	}

	// Register default formatters
	registry.RegisterFormatter("json", "any", &JSONFormatter{})
	registry.RegisterFormatter("text", "AnalysisResult", &AnalysisTextFormatter{})
	registry.RegisterFormatter("markdown", "AnalysisResult", &AnalysisMarkdownFormatter{})
	registry.RegisterFormatter("text", "MatchResumeOutput", &MatchTextFormatter{})
	registry.RegisterFormatter("markdown", "MatchResumeOutput", &MatchMarkdownFormatter{})
	registry.RegisterFormatter("text", "ExtractedDocument", &ExtractionTextFormatter{})
	registry.RegisterFormatter("markdown", "ExtractedDocument", &ExtractionMarkdownFormatter{})

	return registry
}

// RegisterFormatter registers a new formatter for a specific format and data type
func (fr *FormatterRegistry) RegisterFormatter(format, dataType string, formatter Formatter) {
	if fr.formatters[format] == nil {
		fr.formatters[format] = make(map[string]Formatter)
	}
	fr.formatters[format][dataType] = formatter
}

// Format formats data using the appropriate formatter
func (fr *FormatterRegistry) Format(data any, format string) (string, error) {
	dataType := getDataType(data)

	// Try specific formatter first
	if formatters, exists := fr.formatters[format]; exists {
		if formatter, exists := formatters[dataType]; exists {
			return formatter.Format(data)
		}
		// Fall back to generic formatter
		if formatter, exists := formatters["any"]; exists {
			return formatter.Format(data)
		}
	}

	return "", fmt.Errorf("no formatter found for format '%s' and type '%s'", format, dataType)
}

// GetSupportedFormats returns all supported formats
func (fr *FormatterRegistry) GetSupportedFormats() []string {
	formats := make([]string, 0, len(fr.formatters))
	for format := range fr.formatters {
		formats = append(formats, format)
	}
	return formats
}

func getDataType(data any) string {
	switch data.(type) {
	case types.AnalysisResult:
		return "AnalysisResult"
	case types.MatchResumeOutput:
		return "MatchResumeOutput"
	case types.ExtractedDocument:
		return "ExtractedDocument"
	default:
		return "any"
	}
}

// JSONFormatter handles JSON formatting for any data type
type JSONFormatter struct{}

func (jf *JSONFormatter) Format(data any) (string, error) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", err
	}
	return string(jsonData), nil
}

func (jf *JSONFormatter) SupportedType() string {
	return "any"
}

// AnalysisTextFormatter handles text formatting for ATS analysis results
type AnalysisTextFormatter struct{}

func (atf *AnalysisTextFormatter) Format(data any) (string, error) {
	result, ok := data.(types.AnalysisResult)
	if !ok {
		return "", fmt.Errorf("expected AnalysisResult, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== ATS ANALYSIS ===\n\n")
	output.WriteString(fmt.Sprintf("Overall Score: %d/100\n\n", result.Score))
	output.WriteString("Rationale:\n")
	output.WriteString(result.Rationale)
	output.WriteString("\n\n")

	if result.MatchPercentage != nil {
		output.WriteString(fmt.Sprintf("Job Match: %d%%\n\n", *result.MatchPercentage))
	}

	if len(result.CategoryScores) > 0 {
		output.WriteString("=== CATEGORY SCORES ===\n")
		for _, category := range result.CategoryScores {
			output.WriteString(fmt.Sprintf("%s: %d/%d\n", category.Name, category.Score, category.MaxScore))
			if category.Rationale != "" {
				output.WriteString("  ")
				output.WriteString(category.Rationale)
				output.WriteString("\n")
			}
		}
		output.WriteString("\n")
	}

	if len(result.Sections) > 0 {
		output.WriteString("=== SECTION FEEDBACK ===\n")
		for _, section := range result.Sections {
			output.WriteString(fmt.Sprintf("%s [%s, severity: %s]\n", section.Name, section.Status, section.Severity))
			for _, issue := range section.Issues {
				output.WriteString(fmt.Sprintf("  - %s\n", issue))
			}
		}
		output.WriteString("\n")
	}

	if len(result.Keywords) > 0 {
		present := make([]string, 0, len(result.Keywords))
		missing := make([]string, 0, len(result.Keywords))
		for _, kw := range result.Keywords {
			if kw.Present {
				present = append(present, kw.Keyword)
			} else {
				missing = append(missing, kw.Keyword)
			}
		}
		output.WriteString("=== KEYWORDS ===\n")
		if len(present) > 0 {
			output.WriteString(fmt.Sprintf("Present: %s\n", strings.Join(present, ", ")))
		}
		if len(missing) > 0 {
			output.WriteString(fmt.Sprintf("Missing: %s\n", strings.Join(missing, ", ")))
		}
		output.WriteString("\n")
	}

	if len(result.Recommendations) > 0 {
		output.WriteString("=== RECOMMENDATIONS ===\n")
		for _, rec := range result.Recommendations {
			output.WriteString(fmt.Sprintf("%d. %s\n", rec.Priority, rec.Title))
			if rec.Description != "" {
				output.WriteString("   ")
				output.WriteString(rec.Description)
				output.WriteString("\n")
			}
			if rec.Example != "" {
				output.WriteString("   Example: ")
				output.WriteString(rec.Example)
				output.WriteString("\n")
			}
		}
	}

	return output.String(), nil
}

func (atf *AnalysisTextFormatter) SupportedType() string {
	return "AnalysisResult"
}

// AnalysisMarkdownFormatter handles markdown formatting for ATS analysis results
type AnalysisMarkdownFormatter struct{}

func (amf *AnalysisMarkdownFormatter) Format(data any) (string, error) {
	result, ok := data.(types.AnalysisResult)
	if !ok {
		return "", fmt.Errorf("expected AnalysisResult, got %T", data)
	}

	var output strings.Builder

	output.WriteString("# ATS Analysis\n\n")
	output.WriteString(fmt.Sprintf("**Overall Score:** %d/100\n\n", result.Score))
	output.WriteString("## Rationale\n\n")
	output.WriteString(result.Rationale)
	output.WriteString("\n\n")

	if result.MatchPercentage != nil {
		output.WriteString(fmt.Sprintf("**Job Match:** %d%%\n\n", *result.MatchPercentage))
	}

	if len(result.CategoryScores) > 0 {
		output.WriteString("## Category Scores\n\n")
		output.WriteString("| Category | Score | Rationale |\n")
		output.WriteString("|----------|-------|----------|\n")
		for _, category := range result.CategoryScores {
			output.WriteString(fmt.Sprintf("| %s | %d/%d | %s |\n",
				category.Name, category.Score, category.MaxScore, category.Rationale))
		}
		output.WriteString("\n")
	}

	if len(result.Sections) > 0 {
		output.WriteString("## Section Feedback\n\n")
		output.WriteString("| Section | Status | Issues | Severity |\n")
		output.WriteString("|---------|--------|--------|----------|\n")
		for _, section := range result.Sections {
			output.WriteString(fmt.Sprintf("| %s | %s | %s | %s |\n",
				section.Name, section.Status, strings.Join(section.Issues, "; "), section.Severity))
		}
		output.WriteString("\n")
	}

	if len(result.Keywords) > 0 {
		present := make([]string, 0, len(result.Keywords))
		missing := make([]string, 0, len(result.Keywords))
		for _, kw := range result.Keywords {
			if kw.Present {
				present = append(present, kw.Keyword)
			} else {
				missing = append(missing, kw.Keyword)
			}
		}
		output.WriteString("## Keywords\n\n")
		if len(present) > 0 {
			output.WriteString(fmt.Sprintf("**Present:** %s\n\n", strings.Join(present, ", ")))
		}
		if len(missing) > 0 {
			output.WriteString(fmt.Sprintf("**Missing:** %s\n\n", strings.Join(missing, ", ")))
		}
	}

	if len(result.Recommendations) > 0 {
		output.WriteString("## Recommendations\n\n")
		for _, rec := range result.Recommendations {
			output.WriteString(fmt.Sprintf("%d. **%s**", rec.Priority, rec.Title))
			if rec.Description != "" {
				output.WriteString(" - ")
				output.WriteString(rec.Description)
			}
			output.WriteString("\n")
			if rec.Example != "" {
				output.WriteString(fmt.Sprintf("   *Example:* %s\n", rec.Example))
			}
		}
	}

	return output.String(), nil
}

func (amf *AnalysisMarkdownFormatter) SupportedType() string {
	return "AnalysisResult"
}

// MatchTextFormatter handles text formatting for resume match results
type MatchTextFormatter struct{}

func (mtf *MatchTextFormatter) Format(data any) (string, error) {
	result, ok := data.(types.MatchResumeOutput)
	if !ok {
		return "", fmt.Errorf("expected MatchResumeOutput, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== RESUME MATCH ===\n\n")
	output.WriteString(fmt.Sprintf("Match Score: %d/100\n", result.MatchScore))
	output.WriteString(fmt.Sprintf("Job Title Match: %s\n", result.JobTitleMatch))
	output.WriteString(fmt.Sprintf("Keywords: %d of %d expected\n\n", result.KeywordCount, result.TotalExpectedKeywords))

	if len(result.MissingKeywords) > 0 {
		output.WriteString("Missing Keywords:\n")
		for _, keyword := range result.MissingKeywords {
			output.WriteString(fmt.Sprintf("- %s\n", keyword))
		}
		output.WriteString("\n")
	}

	if len(result.SectionsToEnhance) > 0 {
		output.WriteString("Sections To Enhance:\n")
		for _, section := range result.SectionsToEnhance {
			output.WriteString(fmt.Sprintf("- %s\n", section))
		}
		output.WriteString("\n")
	}

	if len(result.ResumeStructure) > 0 {
		output.WriteString("Resume Structure:\n")
		for _, item := range result.ResumeStructure {
			output.WriteString(fmt.Sprintf("- %s\n", item))
		}
	}

	return output.String(), nil
}

func (mtf *MatchTextFormatter) SupportedType() string {
	return "MatchResumeOutput"
}

// MatchMarkdownFormatter handles markdown formatting for resume match results
type MatchMarkdownFormatter struct{}

func (mmf *MatchMarkdownFormatter) Format(data any) (string, error) {
	result, ok := data.(types.MatchResumeOutput)
	if !ok {
		return "", fmt.Errorf("expected MatchResumeOutput, got %T", data)
	}

	var output strings.Builder

	output.WriteString("# Resume Match\n\n")
	output.WriteString(fmt.Sprintf("**Match Score:** %d/100\n\n", result.MatchScore))
	output.WriteString(fmt.Sprintf("**Job Title Match:** %s\n\n", result.JobTitleMatch))
	output.WriteString(fmt.Sprintf("**Keywords:** %d of %d expected\n\n", result.KeywordCount, result.TotalExpectedKeywords))

	if len(result.MissingKeywords) > 0 {
		output.WriteString("## Missing Keywords\n\n")
		for _, keyword := range result.MissingKeywords {
			output.WriteString(fmt.Sprintf("- %s\n", keyword))
		}
		output.WriteString("\n")
	}

	if len(result.SectionsToEnhance) > 0 {
		output.WriteString("## Sections To Enhance\n\n")
		for _, section := range result.SectionsToEnhance {
			output.WriteString(fmt.Sprintf("- %s\n", section))
		}
		output.WriteString("\n")
	}

	if len(result.ResumeStructure) > 0 {
		output.WriteString("## Resume Structure\n\n")
		for _, item := range result.ResumeStructure {
			output.WriteString(fmt.Sprintf("- %s\n", item))
		}
	}

	return output.String(), nil
}

func (mmf *MatchMarkdownFormatter) SupportedType() string {
	return "MatchResumeOutput"
}

// ExtractionTextFormatter handles text formatting for extracted documents
type ExtractionTextFormatter struct{}

func (etf *ExtractionTextFormatter) Format(data any) (string, error) {
	result, ok := data.(types.ExtractedDocument)
	if !ok {
		return "", fmt.Errorf("expected ExtractedDocument, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== EXTRACTED DOCUMENT ===\n\n")
	output.WriteString(fmt.Sprintf("Pages: %d\n", result.PageCount))
	output.WriteString(fmt.Sprintf("Provenance: %s\n\n", result.Provenance))
	output.WriteString(result.RawText)
	output.WriteString("\n")

	return output.String(), nil
}

func (etf *ExtractionTextFormatter) SupportedType() string {
	return "ExtractedDocument"
}

// ExtractionMarkdownFormatter handles markdown formatting for extracted documents
type ExtractionMarkdownFormatter struct{}

func (emf *ExtractionMarkdownFormatter) Format(data any) (string, error) {
	result, ok := data.(types.ExtractedDocument)
	if !ok {
		return "", fmt.Errorf("expected ExtractedDocument, got %T", data)
	}

	var output strings.Builder

	output.WriteString("# Extracted Document\n\n")
	output.WriteString(fmt.Sprintf("**Pages:** %d\n\n", result.PageCount))
	output.WriteString(fmt.Sprintf("**Provenance:** %s\n\n", result.Provenance))
	output.WriteString("## Text\n\n")
	output.WriteString("```\n")
	output.WriteString(result.RawText)
	output.WriteString("\n```\n")

	return output.String(), nil
}

func (emf *ExtractionMarkdownFormatter) SupportedType() string {
	return "ExtractedDocument"
}

// Global formatter registry
var GlobalRegistry = NewFormatterRegistry()
