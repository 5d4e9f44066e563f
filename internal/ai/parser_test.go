package ai

import (
	"reflect"
	"strings"
	"testing"

	"resumelens/internal/types"
)

func TestParseScoreStrategies(t *testing.T) {
	tests := []struct {
		name     string
		response string
		want     int
	}{
		{
			name:     "bolded fraction",
			response: "Overall ATS Score: **72 / 100**",
			want:     72,
		},
		{
			name:     "labeled score",
			response: "The final score: 85 reflects solid formatting.",
			want:     85,
		},
		{
			name:     "bare fraction",
			response: "This resume earns 64/100 overall.",
			want:     64,
		},
		{
			name:     "out of hundred",
			response: "I would rate this resume 58 out of 100.",
			want:     58,
		},
		{
			name:     "bolded wins over bare",
			response: "Formatting: 40/100\n\nOverall: **90 / 100**",
			want:     90,
		},
		{
			name:     "clamped above hundred",
			response: "Impressive! 150/100",
			want:     100,
		},
		{
			name:     "no score defaults to zero",
			response: "The resume is generally well structured.",
			want:     0,
		},
	}

	parser := NewParser()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parser.Parse(tt.response)
			if got.Score != tt.want {
				t.Errorf("Parse().Score = %d, want %d", got.Score, tt.want)
			}
		})
	}
}

func TestParseIsTotal(t *testing.T) {
	tests := []struct {
		name     string
		response string
	}{
		{"empty string", ""},
		{"whitespace only", "   \n\t\n  "},
		{"random prose", "The quick brown fox jumps over the lazy dog."},
		{"json blob", `{"score": 72, "notes": ["a", "b"]}`},
		{"lone pipes", "|||\n| | |\n|-|-|"},
		{"unterminated bold", "**Rationale: truncated mid sent"},
	}

	parser := NewParser()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parser.Parse(tt.response)
			if got.FullText != tt.response {
				t.Errorf("FullText = %q, want the raw input back", got.FullText)
			}
			if got.Rationale == "" {
				t.Error("Rationale must never be empty")
			}
		})
	}
}

func TestParseEmptyResponse(t *testing.T) {
	got := NewParser().Parse("")

	if got.Score != 0 {
		t.Errorf("Score = %d, want 0", got.Score)
	}
	if got.Rationale != "Scored 0/100." {
		t.Errorf("Rationale = %q, want %q", got.Rationale, "Scored 0/100.")
	}
	if len(got.CategoryScores) != 0 || len(got.Sections) != 0 || len(got.Keywords) != 0 || len(got.Recommendations) != 0 {
		t.Errorf("expected all sequences empty, got %+v", got)
	}
	if got.FullText != "" {
		t.Errorf("FullText = %q, want empty", got.FullText)
	}
}

func TestParseIsIdempotent(t *testing.T) {
	response := strings.Join([]string{
		"Overall ATS Score: **72 / 100**",
		"",
		"Rationale: Clean layout but thin on measurable impact.",
		"",
		"| Category | Score | Notes |",
		"|----------|-------|-------|",
		"| Formatting | 80 | Consistent fonts |",
		"| Keywords | 60 | Sparse |",
	}, "\n")

	parser := NewParser()
	first := parser.Parse(response)
	second := parser.Parse(response)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Parse is not deterministic:\nfirst  = %+v\nsecond = %+v", first, second)
	}
}

func TestParseRationale(t *testing.T) {
	tests := []struct {
		name     string
		response string
		want     string
	}{
		{
			name:     "inline label",
			response: "Rationale: Strong structure, weak keyword coverage.",
			want:     "Strong structure, weak keyword coverage.",
		},
		{
			name:     "heading then paragraph",
			response: "## Summary\n\nThe resume reads well but lacks metrics.\n\n## Details",
			want:     "The resume reads well but lacks metrics.",
		},
		{
			name:     "stops at next heading",
			response: "Analysis: First part.\n## Categories\nNot rationale.",
			want:     "First part.",
		},
		{
			name:     "fallback embeds score",
			response: "67/100 with no further commentary whatsoever",
			want:     "Scored 67/100.",
		},
	}

	parser := NewParser()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parser.Parse(tt.response)
			if got.Rationale != tt.want {
				t.Errorf("Rationale = %q, want %q", got.Rationale, tt.want)
			}
		})
	}
}

func TestParseCategoryTable(t *testing.T) {
	response := strings.Join([]string{
		"Overall ATS Score: **72 / 100**",
		"",
		"| Category | Score | Notes |",
		"|----------|-------|-------|",
		"| Formatting | 80 | Clean and consistent |",
		"| Keywords | 55 | Missing core terms |",
		"| Experience | not scored | Too short |",
	}, "\n")

	got := NewParser().Parse(response)

	if got.Score != 72 {
		t.Errorf("Score = %d, want 72", got.Score)
	}
	if len(got.CategoryScores) != 3 {
		t.Fatalf("len(CategoryScores) = %d, want 3", len(got.CategoryScores))
	}
	want := []types.CategoryScore{
		{Name: "Formatting", Score: 80, MaxScore: 100, Rationale: "Clean and consistent", Percentage: 80},
		{Name: "Keywords", Score: 55, MaxScore: 100, Rationale: "Missing core terms", Percentage: 55},
		{Name: "Experience", Score: 0, MaxScore: 100, Rationale: "Too short", Percentage: 0},
	}
	if !reflect.DeepEqual(got.CategoryScores, want) {
		t.Errorf("CategoryScores = %+v, want %+v", got.CategoryScores, want)
	}
}

func TestParseCategoryTableStopsAtOverallScore(t *testing.T) {
	response := strings.Join([]string{
		"| Category | Score |",
		"|----------|-------|",
		"| Formatting | 80 |",
		"| Overall ATS Score | 72 |",
		"| Trailing | 10 |",
	}, "\n")

	got := NewParser().Parse(response)
	if len(got.CategoryScores) != 1 {
		t.Fatalf("len(CategoryScores) = %d, want 1", len(got.CategoryScores))
	}
	if got.CategoryScores[0].Name != "Formatting" {
		t.Errorf("CategoryScores[0].Name = %q, want Formatting", got.CategoryScores[0].Name)
	}
}

func TestParseSectionTable(t *testing.T) {
	response := strings.Join([]string{
		"| Section | Status | Issues | Severity |",
		"|---------|--------|--------|----------|",
		"| Experience | Needs improvement | No metrics; vague titles | Critical |",
		"| Education | Good | none | low |",
		"| Skills | Missing | Add a dedicated skills list | Moderate-ish |",
	}, "\n")

	got := NewParser().Parse(response)
	if len(got.Sections) != 3 {
		t.Fatalf("len(Sections) = %d, want 3", len(got.Sections))
	}

	want := []types.SectionFeedback{
		{
			Name:     "Experience",
			Status:   types.SectionNeedsImprovement,
			Issues:   []string{"No metrics", "vague titles"},
			Severity: types.SeverityHigh,
		},
		{
			Name:     "Education",
			Status:   types.SectionGood,
			Issues:   []string{"none"},
			Severity: types.SeverityLow,
		},
		{
			Name:     "Skills",
			Status:   types.SectionMissing,
			Issues:   []string{"Add a dedicated skills list"},
			Severity: types.SeverityMedium,
		},
	}
	if !reflect.DeepEqual(got.Sections, want) {
		t.Errorf("Sections = %+v, want %+v", got.Sections, want)
	}
}

func TestNormalizeSeverity(t *testing.T) {
	tests := []struct {
		cell string
		want types.Severity
	}{
		{"Critical", types.SeverityHigh},
		{"Severe", types.SeverityHigh},
		{"HIGH", types.SeverityHigh},
		{"minor", types.SeverityLow},
		{"n/a-severity-text", types.SeverityMedium},
		{"", types.SeverityMedium},
	}

	for _, tt := range tests {
		t.Run(tt.cell, func(t *testing.T) {
			if got := normalizeSeverity(tt.cell); got != tt.want {
				t.Errorf("normalizeSeverity(%q) = %q, want %q", tt.cell, got, tt.want)
			}
		})
	}
}

func TestParseKeywords(t *testing.T) {
	tests := []struct {
		name     string
		response string
		want     []types.KeywordMatch
	}{
		{
			name:     "quoted and bare missing keywords",
			response: `Keywords missing: "Python", "Docker", Kubernetes`,
			want: []types.KeywordMatch{
				{Keyword: "Python", Present: false},
				{Keyword: "Docker", Present: false},
				{Keyword: "Kubernetes", Present: false},
			},
		},
		{
			name:     "present and missing scans are independent",
			response: "Keywords present: Go, SQL\nKeywords missing: SQL, Terraform",
			want: []types.KeywordMatch{
				{Keyword: "Go", Present: true},
				{Keyword: "SQL", Present: true},
				{Keyword: "SQL", Present: false},
				{Keyword: "Terraform", Present: false},
			},
		},
		{
			name:     "found label variant",
			response: `Keywords found: "CI/CD"`,
			want: []types.KeywordMatch{
				{Keyword: "CI/CD", Present: true},
			},
		},
		{
			name:     "no labels yields none",
			response: "The resume mentions Python and Docker.",
			want:     nil,
		},
	}

	parser := NewParser()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parser.Parse(tt.response)
			if !reflect.DeepEqual(got.Keywords, tt.want) {
				t.Errorf("Keywords = %+v, want %+v", got.Keywords, tt.want)
			}
		})
	}
}

func TestParseRecommendationsTable(t *testing.T) {
	response := strings.Join([]string{
		"| # | Recommendation | Why | Example |",
		"|---|----------------|-----|---------|",
		"| 1 | Quantify achievements | Numbers stand out | Grew revenue 40%<br>in two quarters |",
		"| 2 | Add a skills section | ATS keyword matching | Go, SQL, Docker |",
	}, "\n")

	got := NewParser().Parse(response)
	if len(got.Recommendations) != 2 {
		t.Fatalf("len(Recommendations) = %d, want 2", len(got.Recommendations))
	}

	first := got.Recommendations[0]
	if first.Priority != 1 || first.Title != "Quantify achievements" {
		t.Errorf("first = %+v, want priority 1 titled Quantify achievements", first)
	}
	if first.Example != "Grew revenue 40%\nin two quarters" {
		t.Errorf("Example = %q, want <br> expanded to newline", first.Example)
	}
	if got.Recommendations[1].Priority != 2 {
		t.Errorf("second priority = %d, want 2", got.Recommendations[1].Priority)
	}
}

func TestParseRecommendationsBoldRows(t *testing.T) {
	response := strings.Join([]string{
		"Recommendations:",
		"**1. Quantify achievements** | Add metrics to each role",
		"**2. Tighten the summary** | Three lines at most",
	}, "\n")

	got := NewParser().Parse(response)
	if len(got.Recommendations) != 2 {
		t.Fatalf("len(Recommendations) = %d, want 2", len(got.Recommendations))
	}
	if got.Recommendations[0].Title != "Quantify achievements" {
		t.Errorf("Title = %q, want Quantify achievements", got.Recommendations[0].Title)
	}
	if got.Recommendations[1].Description != "Three lines at most" {
		t.Errorf("Description = %q, want Three lines at most", got.Recommendations[1].Description)
	}
}

func TestParseRecommendationsBulletFallback(t *testing.T) {
	response := strings.Join([]string{
		"Some closing thoughts:",
		"- Quantify your achievements with concrete numbers",
		"- Move the skills section above education",
		"- Use consistent date formats across roles",
		"- Trim the summary to three lines",
		"- Spell out acronyms on first use",
	}, "\n")

	got := NewParser().Parse(response)
	if len(got.Recommendations) != 5 {
		t.Fatalf("len(Recommendations) = %d, want 5", len(got.Recommendations))
	}
	for i, rec := range got.Recommendations {
		if rec.Priority != i+1 {
			t.Errorf("Recommendations[%d].Priority = %d, want %d", i, rec.Priority, i+1)
		}
		if rec.Example != "" {
			t.Errorf("Recommendations[%d].Example = %q, want empty", i, rec.Example)
		}
	}
}

func TestParseRecommendationsBulletFilters(t *testing.T) {
	response := strings.Join([]string{
		"- short one", // lowercase start
		"- Ok",        // under ten characters
		"- " + strings.Repeat("Very long recommendation text ", 10), // over two hundred
		"- Keep exactly this single valid recommendation",
	}, "\n")

	got := NewParser().Parse(response)
	if len(got.Recommendations) != 1 {
		t.Fatalf("len(Recommendations) = %d, want 1", len(got.Recommendations))
	}
	if got.Recommendations[0].Description != "Keep exactly this single valid recommendation" {
		t.Errorf("Description = %q", got.Recommendations[0].Description)
	}
}

func TestExtractMatchPercentage(t *testing.T) {
	tests := []struct {
		name     string
		response string
		want     *int
	}{
		{"labeled", "Match percentage: 78%", intPtr(78)},
		{"job match phrasing", "Job match with the posting is roughly 65%.", intPtr(65)},
		{"trailing match", "This resume is an 82% match for the role.", intPtr(82)},
		{"clamped", "Match percentage: 140%", intPtr(100)},
		{"absent", "No percentage appears anywhere here.", nil},
	}

	parser := NewParser()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parser.ExtractMatchPercentage(tt.response)
			switch {
			case tt.want == nil && got != nil:
				t.Errorf("ExtractMatchPercentage() = %d, want nil", *got)
			case tt.want != nil && got == nil:
				t.Errorf("ExtractMatchPercentage() = nil, want %d", *tt.want)
			case tt.want != nil && *got != *tt.want:
				t.Errorf("ExtractMatchPercentage() = %d, want %d", *got, *tt.want)
			}
		})
	}
}
