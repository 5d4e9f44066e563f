package ai

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"resumelens/internal/types"
)

// Parser turns the free-form markdown reply of the inference service into a
// fully populated AnalysisResult. The response is natural language from a
// non-deterministic model, not a machine-generated schema, so every field is
// extracted by an ordered chain of best-effort strategies and degrades to a
// documented default. Parse never fails.
type Parser struct{}

// NewParser creates a response parser
func NewParser() *Parser {
	return &Parser{}
}

// Parse extracts every field of the analysis from the raw response text.
// The raw text is retained verbatim in FullText for audit.
func (p *Parser) Parse(raw string) types.AnalysisResult {
	score := extractScore(raw)

	return types.AnalysisResult{
		Score:           score,
		Rationale:       extractRationale(raw, score),
		CategoryScores:  extractCategoryScores(raw),
		Sections:        extractSections(raw),
		Keywords:        extractKeywords(raw),
		Recommendations: extractRecommendations(raw),
		FullText:        raw,
	}
}

// scoreStrategy is a single "pattern, then extract" step of the score chain.
// The capture group holds the numeric value.
type scoreStrategy struct {
	name string
	re   *regexp.Regexp
}

// scoreStrategies are tried in order; the first match wins.
var scoreStrategies = []scoreStrategy{
	{"bold_fraction", regexp.MustCompile(`\*\*\s*(\d+)\s*/\s*100\s*\*\*`)},
	{"labeled_score", regexp.MustCompile(`(?i)\bscore\s*[:\-]\s*\**\s*(\d+)`)},
	{"bare_fraction", regexp.MustCompile(`(\d+)\s*/\s*100`)},
	{"out_of_hundred", regexp.MustCompile(`(?i)(\d+)\s+out\s+of\s+100`)},
}

// extractScore finds the overall score, clamped to [0,100]. No match means 0.
func extractScore(raw string) int {
	for _, strategy := range scoreStrategies {
		if m := strategy.re.FindStringSubmatch(raw); m != nil {
			value, err := strconv.Atoi(m[1])
			if err != nil {
				continue
			}
			return clampScore(value)
		}
	}
	return 0
}

func clampScore(value int) int {
	if value < 0 {
		return 0
	}
	if value > 100 {
		return 100
	}
	return value
}

var rationaleLabelRe = regexp.MustCompile(`(?i)^\s*(?:#{1,6}\s*)?\**\s*(?:rationale|summary|analysis)\s*\**\s*:?\s*(.*)$`)

// extractRationale finds a labeled rationale/summary/analysis block, reading
// up to the next section heading. Absent a block, the templated fallback
// embeds the score.
func extractRationale(raw string, score int) string {
	lines := strings.Split(raw, "\n")
	for i, line := range lines {
		m := rationaleLabelRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}

		parts := []string{}
		if rest := strings.TrimSpace(m[1]); rest != "" {
			parts = append(parts, rest)
		}
		for _, next := range lines[i+1:] {
			if isHeadingLine(next) {
				break
			}
			trimmed := strings.TrimSpace(next)
			if trimmed == "" {
				if len(parts) > 0 {
					break
				}
				continue
			}
			parts = append(parts, trimmed)
		}

		if rationale := strings.TrimSpace(strings.Join(parts, " ")); rationale != "" {
			return rationale
		}
	}

	return fmt.Sprintf("Scored %d/100.", score)
}

var headingLineRe = regexp.MustCompile(`^\s*(?:#{1,6}\s+|\*\*)`)

// isHeadingLine reports whether a line starts a new markdown section
func isHeadingLine(line string) bool {
	return headingLineRe.MatchString(line)
}

// matchPercentageStrategies locate a labeled percentage near job-match
// phrasing. Tried in order, first match wins.
var matchPercentageStrategies = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:match\s*percentage|job\s*match)[^0-9%\n]*(\d{1,3})\s*%`),
	regexp.MustCompile(`(?i)(\d{1,3})\s*%\s*(?:job\s*)?match`),
}

// ExtractMatchPercentage finds the job-match percentage in the response.
// Only meaningful when the request carried a job description; callers skip it
// otherwise. Returns nil when no pattern matches.
func (p *Parser) ExtractMatchPercentage(raw string) *int {
	for _, re := range matchPercentageStrategies {
		if m := re.FindStringSubmatch(raw); m != nil {
			value, err := strconv.Atoi(m[1])
			if err != nil {
				continue
			}
			clamped := clampScore(value)
			return &clamped
		}
	}
	return nil
}
