package ai

// SystemPrompts contains all system-level instructions for AI interactions
type SystemPrompts struct {
	AnalyzeResume string
	MatchResume   string
}

// UserPrompts contains user-level prompts with placeholders for dynamic content
type UserPrompts struct {
	AnalyzeResume string
	MatchResume   string
}

// DefaultSystemPrompts provides the default system instructions
var DefaultSystemPrompts = SystemPrompts{
	AnalyzeResume: `You are an expert ATS (Applicant Tracking System) analyst and resume reviewer with a strict commitment to honesty and accuracy. Your core principles are:

- Base every finding on text actually present in the resume
- Score consistently and explain each score
- Provide actionable, specific improvement advice
- Never invent resume content that is not in the source material

Your expertise includes:
- ATS parsing behavior and keyword matching
- Resume structure and formatting conventions
- Recruiter screening practices and industry standards`,

	MatchResume: `You are an expert recruitment analyst specializing in matching candidate resumes to job functions. Your role is to:

- Compare a resume against the expectations of a specific job function and employment type
- Count which of the expected keywords for the role actually appear in the resume
- Identify missing keywords and weak resume sections
- Report the resume's structural elements

You always respond with a single JSON object and nothing else. No markdown, no commentary outside the JSON.`,
}

// DefaultUserPrompts provides the default user prompt templates
var DefaultUserPrompts = UserPrompts{
	AnalyzeResume: `Please analyze the following resume the way an Applicant Tracking System and a human recruiter would, and report your findings in exactly the format described below.

**Required output format:**

1. **Overall ATS Score**: a bolded fraction on its own line, for example **78 / 100**.

2. **Rationale**: a short paragraph labeled "Rationale:" explaining the overall score.

3. **Category breakdown**: a markdown table with header "| Category | Score | Notes |" containing exactly these five rows:
   - Formatting & Layout
   - Keyword Coverage
   - Experience & Impact
   - Skills Presentation
   - Completeness
   Each score is 0-100.

4. **Section review**: a markdown table with header "| Section | Status | Issues | Severity |", one row per resume section. Status is one of Good, Needs improvement, Missing. Issues are separated by semicolons, or "none". Severity is one of Critical, Major, Minor.

5. **Recommendations**: a markdown table with header "| # | Recommendation | Why | Example |" containing at least five prioritized rows. Use <br> for line breaks inside a cell.

6. **Keywords**: two labeled lists:
   Keywords present: "keyword1", "keyword2", ...
   Keywords missing: "keyword1", "keyword2", ...

**Resume:**
-----
%s
-----`,

	MatchResume: `Compare the following resume against the expectations for the given job function and employment type.

Determine the set of keywords a strong resume for this role would contain, count how many of them appear in the resume, and list the ones that are missing. Identify resume sections that need enhancement for this role and list the structural elements the resume contains (e.g. "contact", "summary", "experience", "education", "skills").

Respond with a single JSON object with exactly these fields:
{
  "matchScore": <integer 0-100>,
  "jobTitleMatch": "<how well the resume's current title matches the role>",
  "keywordCount": <integer, expected keywords found in the resume>,
  "totalExpectedKeywords": <integer>,
  "missingKeywords": ["..."],
  "sectionsToEnhance": ["..."],
  "resumeStructure": ["..."]
}

**Resume:**
-----
%s
-----

**Job Function:**
-----
%s
-----

**Job Type:**
-----
%s
-----`,
}

// jobMatchAddendum is appended to the analysis prompt when a job description
// accompanies the resume. The single placeholder receives the verbatim
// job description.
const jobMatchAddendum = `

**Job Description:**
-----
%s
-----

In addition to the sections above, evaluate this resume against the job description and report a line in the form "Match percentage: NN%%". Weight the keyword lists toward terms the job description actually uses.`

// PromptConfig holds configuration for customizable prompts
type PromptConfig struct {
	SystemPrompts SystemPrompts `json:"systemPrompts"`
	UserPrompts   UserPrompts   `json:"userPrompts"`
}

// GetDefaultPromptConfig returns the default prompt configuration
func GetDefaultPromptConfig() PromptConfig {
	return PromptConfig{
		SystemPrompts: DefaultSystemPrompts,
		UserPrompts:   DefaultUserPrompts,
	}
}
