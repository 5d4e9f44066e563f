package ai

import (
	"regexp"
	"strconv"
	"strings"

	"resumelens/internal/types"
)

// splitTableRow splits a markdown table line into trimmed cells, dropping the
// empty fragments produced by leading and trailing pipes.
func splitTableRow(line string) []string {
	parts := strings.Split(line, "|")
	cells := make([]string, 0, len(parts))
	for i, part := range parts {
		cell := strings.TrimSpace(part)
		if cell == "" && (i == 0 || i == len(parts)-1) {
			continue
		}
		cells = append(cells, cell)
	}
	return cells
}

var separatorCellRe = regexp.MustCompile(`^:?-+:?$`)

// isSeparatorRow reports whether the cells form a markdown header separator
func isSeparatorRow(cells []string) bool {
	if len(cells) == 0 {
		return false
	}
	for _, cell := range cells {
		if !separatorCellRe.MatchString(cell) {
			return false
		}
	}
	return true
}

// tableRows collects the data rows of the first markdown table whose header
// row contains headerKeyword (case-insensitive). Collection stops at a blank
// line or at a line containing any of the stop phrases.
func tableRows(raw, headerKeyword string, stopPhrases ...string) [][]string {
	lines := strings.Split(raw, "\n")
	keyword := strings.ToLower(headerKeyword)

	headerIdx := -1
	for i, line := range lines {
		if !strings.Contains(line, "|") {
			continue
		}
		if strings.Contains(strings.ToLower(line), keyword) {
			headerIdx = i
			break
		}
	}
	if headerIdx < 0 {
		return nil
	}

	var rows [][]string
	for _, line := range lines[headerIdx+1:] {
		if strings.TrimSpace(line) == "" {
			break
		}
		if containsAnyFold(line, stopPhrases) {
			break
		}
		if !strings.Contains(line, "|") {
			break
		}
		cells := splitTableRow(line)
		if isSeparatorRow(cells) {
			continue
		}
		if len(cells) == 0 {
			continue
		}
		rows = append(rows, cells)
	}
	return rows
}

func containsAnyFold(line string, phrases []string) bool {
	lower := strings.ToLower(line)
	for _, phrase := range phrases {
		if strings.Contains(lower, strings.ToLower(phrase)) {
			return true
		}
	}
	return false
}

var leadingIntRe = regexp.MustCompile(`\d+`)

// cellInt parses the first integer found in a table cell, defaulting to 0
// for non-numeric cells.
func cellInt(cell string) int {
	m := leadingIntRe.FindString(cell)
	if m == "" {
		return 0
	}
	value, err := strconv.Atoi(m)
	if err != nil {
		return 0
	}
	return value
}

// extractCategoryScores parses the per-category score table. Rows after the
// header contribute one category each; a non-numeric score cell yields 0.
func extractCategoryScores(raw string) []types.CategoryScore {
	rows := tableRows(raw, "Category", "Overall ATS Score")

	var categories []types.CategoryScore
	for _, cells := range rows {
		if len(cells) < 2 {
			continue
		}
		score := clampScore(cellInt(cells[1]))
		rationale := ""
		if len(cells) >= 3 {
			rationale = cells[2]
		}
		categories = append(categories, types.CategoryScore{
			Name:       stripMarkdownEmphasis(cells[0]),
			Score:      score,
			MaxScore:   100,
			Rationale:  rationale,
			Percentage: score,
		})
	}
	return categories
}

// extractSections parses the per-section feedback table. Only rows with at
// least four cells (name, status, issues, severity) are usable.
func extractSections(raw string) []types.SectionFeedback {
	rows := tableRows(raw, "Section")

	var sections []types.SectionFeedback
	for _, cells := range rows {
		if len(cells) < 4 {
			continue
		}
		sections = append(sections, types.SectionFeedback{
			Name:     stripMarkdownEmphasis(cells[0]),
			Status:   normalizeStatus(cells[1]),
			Issues:   splitIssues(cells[2]),
			Severity: normalizeSeverity(cells[3]),
		})
	}
	return sections
}

var issueNoiseWords = map[string]struct{}{
	"none": {},
	"n/a":  {},
}

// splitIssues splits an issues cell on semicolons and commas, dropping empty
// fragments and placeholder words. When nothing usable remains, the raw cell
// text stands in as the single issue.
func splitIssues(cell string) []string {
	var issues []string
	for _, fragment := range strings.FieldsFunc(cell, func(r rune) bool {
		return r == ';' || r == ','
	}) {
		issue := strings.TrimSpace(fragment)
		if issue == "" {
			continue
		}
		if _, noise := issueNoiseWords[strings.ToLower(issue)]; noise {
			continue
		}
		issues = append(issues, issue)
	}
	if len(issues) == 0 {
		if raw := strings.TrimSpace(cell); raw != "" {
			issues = append(issues, raw)
		}
	}
	return issues
}

func normalizeStatus(cell string) types.SectionStatus {
	lower := strings.ToLower(cell)
	switch {
	case strings.Contains(lower, "missing"), strings.Contains(lower, "absent"), strings.Contains(lower, "not found"):
		return types.SectionMissing
	case strings.Contains(lower, "good"), strings.Contains(lower, "excellent"), strings.Contains(lower, "strong"):
		return types.SectionGood
	default:
		return types.SectionNeedsImprovement
	}
}

var (
	highSeverityWords = []string{"critical", "severe", "major", "high"}
	lowSeverityWords  = []string{"minor", "low", "trivial", "small"}
)

// normalizeSeverity maps free-text severity to the three-level scale.
// Unrecognized text lands on Medium.
func normalizeSeverity(cell string) types.Severity {
	lower := strings.ToLower(cell)
	for _, word := range highSeverityWords {
		if strings.Contains(lower, word) {
			return types.SeverityHigh
		}
	}
	for _, word := range lowSeverityWords {
		if strings.Contains(lower, word) {
			return types.SeverityLow
		}
	}
	return types.SeverityMedium
}

// stripMarkdownEmphasis removes bold/italic markers from a cell value
func stripMarkdownEmphasis(cell string) string {
	return strings.TrimSpace(strings.Trim(cell, "*_"))
}
