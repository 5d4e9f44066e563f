package ai

import (
	"regexp"
	"strings"

	"resumelens/internal/types"
)

const maxBulletRecommendations = 10

// recommendationStrategies are tried in order; the first one producing any
// recommendations wins.
var recommendationStrategies = []func(string) []types.Recommendation{
	recommendationsFromTable,
	recommendationsFromBoldRows,
	recommendationsFromBullets,
}

// extractRecommendations builds the prioritized recommendation list from the
// response. A structured table is preferred; bolded numbered rows and plain
// bullet lines serve as progressively looser fallbacks.
func extractRecommendations(raw string) []types.Recommendation {
	for _, strategy := range recommendationStrategies {
		if recs := strategy(raw); len(recs) > 0 {
			return recs
		}
	}
	return nil
}

var brTagRe = regexp.MustCompile(`(?i)<br\s*/?>`)

// recommendationsFromTable parses a markdown table whose header carries a "#"
// priority column. Embedded <br> tags in cells become real newlines.
func recommendationsFromTable(raw string) []types.Recommendation {
	rows := tableRows(raw, "#")

	var recs []types.Recommendation
	for _, cells := range rows {
		if len(cells) < 2 {
			continue
		}
		priority := cellInt(cells[0])
		if priority == 0 {
			priority = len(recs) + 1
		}
		rec := types.Recommendation{
			Priority: priority,
			Title:    stripMarkdownEmphasis(expandBreaks(cells[1])),
		}
		if len(cells) >= 3 {
			rec.Description = expandBreaks(cells[2])
		}
		if len(cells) >= 4 {
			rec.Example = expandBreaks(cells[3])
		}
		recs = append(recs, rec)
	}
	return recs
}

func expandBreaks(cell string) string {
	return strings.TrimSpace(brTagRe.ReplaceAllString(cell, "\n"))
}

var boldNumberedRe = regexp.MustCompile(`^\s*\|?\s*\*\*\s*(\d+)[.):]\s*(.*?)\s*\*\*\s*\|?\s*(.*?)\s*\|?\s*$`)

// recommendationsFromBoldRows picks up bolded numbered fragments such as
// "**1. Quantify achievements** | Add metrics to each role".
func recommendationsFromBoldRows(raw string) []types.Recommendation {
	var recs []types.Recommendation
	for _, line := range strings.Split(raw, "\n") {
		m := boldNumberedRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		title := strings.TrimSpace(m[2])
		description := strings.TrimSpace(strings.Trim(m[3], "| "))
		if title == "" && description == "" {
			continue
		}
		if title == "" {
			title = description
		}
		recs = append(recs, types.Recommendation{
			Priority:    cellInt(m[1]),
			Title:       title,
			Description: description,
		})
	}
	return recs
}

var bulletLineRe = regexp.MustCompile(`^[-*•]\s+(.+)$`)

// recommendationsFromBullets treats top-level bullet lines as ad hoc
// recommendations. Only bullets starting with a capital letter and between
// 10 and 200 characters qualify, capped at ten entries with sequential
// priorities.
func recommendationsFromBullets(raw string) []types.Recommendation {
	var recs []types.Recommendation
	for _, line := range strings.Split(raw, "\n") {
		m := bulletLineRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		text := strings.TrimSpace(m[1])
		if len(text) < 10 || len(text) > 200 {
			continue
		}
		first := text[0]
		if first < 'A' || first > 'Z' {
			continue
		}
		recs = append(recs, types.Recommendation{
			Priority:    len(recs) + 1,
			Title:       bulletTitle(text),
			Description: text,
		})
		if len(recs) == maxBulletRecommendations {
			break
		}
	}
	return recs
}

// bulletTitle shortens a bullet into a title when it has a natural break
func bulletTitle(text string) string {
	if i := strings.IndexAny(text, ".:"); i >= 10 && i <= 80 {
		return text[:i]
	}
	return text
}
