package types

// Provenance records how the text of an extracted document was obtained.
type Provenance string

const (
	ProvenanceDirect Provenance = "direct"
	ProvenanceOCR    Provenance = "ocr"
)

// ExtractedDocument is the result of pulling text out of an uploaded PDF.
// Created once per file and immutable afterwards.
type ExtractedDocument struct {
	PageCount  int        `json:"pageCount"`
	RawText    string     `json:"rawText"`
	Provenance Provenance `json:"provenance"`
}

// ProgressStage identifies the phase an extraction is currently in.
type ProgressStage string

const (
	StageInitializing ProgressStage = "initializing"
	StageRendering    ProgressStage = "rendering"
	StageRecognizing  ProgressStage = "recognizing"
)

// ProgressEvent is emitted as extraction advances through a document.
// PageIndex is 1-based; it is 0 for document-level events.
type ProgressEvent struct {
	Stage     ProgressStage `json:"stage"`
	PageIndex int           `json:"pageIndex"`
	PageCount int           `json:"pageCount"`
}

// AnalyzeResumeInput represents the input for an ATS analysis
type AnalyzeResumeInput struct {
	ResumeText     string `json:"resumeText"`
	JobDescription string `json:"jobDescription,omitempty"`
}

// SectionStatus is the normalized state of a resume section
type SectionStatus string

const (
	SectionGood             SectionStatus = "Good"
	SectionNeedsImprovement SectionStatus = "NeedsImprovement"
	SectionMissing          SectionStatus = "Missing"
)

// Severity is the normalized weight of a section finding
type Severity string

const (
	SeverityHigh   Severity = "High"
	SeverityMedium Severity = "Medium"
	SeverityLow    Severity = "Low"
)

// CategoryScore is one row of the category breakdown table
type CategoryScore struct {
	Name       string `json:"name"`
	Score      int    `json:"score"`
	MaxScore   int    `json:"maxScore"`
	Rationale  string `json:"rationale"`
	Percentage int    `json:"percentage"`
}

// SectionFeedback is one row of the per-section findings table
type SectionFeedback struct {
	Name     string        `json:"name"`
	Status   SectionStatus `json:"status"`
	Issues   []string      `json:"issues"`
	Severity Severity      `json:"severity"`
}

// KeywordMatch records a single keyword and whether the resume contains it
type KeywordMatch struct {
	Keyword string `json:"keyword"`
	Present bool   `json:"present"`
}

// Recommendation is a single prioritized improvement suggestion
type Recommendation struct {
	Priority    int    `json:"priority"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Example     string `json:"example"`
}

// AnalysisResult is the fully populated output of response parsing.
// Every field has a deterministic default; parsing never fails.
type AnalysisResult struct {
	Score           int               `json:"score"`
	Rationale       string            `json:"rationale"`
	CategoryScores  []CategoryScore   `json:"categoryScores"`
	Sections        []SectionFeedback `json:"sections"`
	Keywords        []KeywordMatch    `json:"keywords"`
	Recommendations []Recommendation  `json:"recommendations"`
	FullText        string            `json:"fullText"`
	MatchPercentage *int              `json:"matchPercentage,omitempty"`
}

// MatchResumeInput represents the input for the strict-JSON match operation
type MatchResumeInput struct {
	ResumeText  string `json:"resumeText"`
	JobFunction string `json:"jobFunction"`
	JobType     string `json:"jobType"`
}

// MatchResumeOutput is the structured result of matching a resume against a
// job function and type
type MatchResumeOutput struct {
	MatchScore            int      `json:"matchScore"`
	JobTitleMatch         string   `json:"jobTitleMatch"`
	KeywordCount          int      `json:"keywordCount"`
	TotalExpectedKeywords int      `json:"totalExpectedKeywords"`
	MissingKeywords       []string `json:"missingKeywords"`
	SectionsToEnhance     []string `json:"sectionsToEnhance"`
	ResumeStructure       []string `json:"resumeStructure"`
}
