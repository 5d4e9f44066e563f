package ai

import (
	"regexp"
	"strings"

	"resumelens/internal/types"
)

var (
	keywordsPresentRe = regexp.MustCompile(`(?i)keywords\s+(?:present|found)\s*:?`)
	keywordsMissingRe = regexp.MustCompile(`(?i)keywords\s+missing\s*:?`)

	// keywordSpanStopRe ends a keyword list at the next blank line, section
	// heading, or another keyword label.
	keywordSpanStopRe = regexp.MustCompile(`(?im)\n\s*\n|\n\s*(?:#{1,6}\s+|\*\*)|keywords\s+(?:present|found|missing)`)

	// keywordTokenRe matches a quoted keyword or a bare token. Quoted form is
	// tried first at each position so quotes never leak into bare tokens.
	keywordTokenRe = regexp.MustCompile(`"([^"]+)"|([A-Za-z0-9][A-Za-z0-9+#./&_-]*(?:[ ][A-Za-z0-9+#./&_-]+)*)`)
)

// extractKeywords runs two independent scans over the response, one for the
// present list and one for the missing list. The scans do not deduplicate
// against each other; a keyword can legitimately appear in both.
func extractKeywords(raw string) []types.KeywordMatch {
	var keywords []types.KeywordMatch
	for _, token := range keywordTokens(raw, keywordsPresentRe) {
		keywords = append(keywords, types.KeywordMatch{Keyword: token, Present: true})
	}
	for _, token := range keywordTokens(raw, keywordsMissingRe) {
		keywords = append(keywords, types.KeywordMatch{Keyword: token, Present: false})
	}
	return keywords
}

// keywordTokens finds the list labeled by labelRe and splits it into
// keyword tokens, preserving their order of appearance.
func keywordTokens(raw string, labelRe *regexp.Regexp) []string {
	loc := labelRe.FindStringIndex(raw)
	if loc == nil {
		return nil
	}
	span := raw[loc[1]:]
	if stop := keywordSpanStopRe.FindStringIndex(span); stop != nil {
		span = span[:stop[0]]
	}

	var tokens []string
	for _, m := range keywordTokenRe.FindAllStringSubmatch(span, -1) {
		token := m[1]
		if token == "" {
			token = m[2]
		}
		token = strings.TrimSpace(token)
		if token == "" || isKeywordFiller(token) {
			continue
		}
		tokens = append(tokens, token)
	}
	return tokens
}

var keywordFillerWords = map[string]struct{}{
	"and":  {},
	"etc":  {},
	"none": {},
	"n/a":  {},
}

func isKeywordFiller(token string) bool {
	_, filler := keywordFillerWords[strings.ToLower(token)]
	return filler
}
