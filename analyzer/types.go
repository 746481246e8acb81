package analyzer

// Severity classifies a failed check. Critical failures block publishing,
// warnings are improvement suggestions.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
)

// Check names as they appear in reports.
const (
	CheckTitle         = "Title"
	CheckDescription   = "Meta description"
	CheckKeyword       = "Keyword density"
	CheckReadability   = "Readability"
	CheckImageAlt      = "Image alt text"
	CheckHeadings      = "Heading structure"
	CheckInternalLinks = "Internal links"
)

// RuleResult is the outcome of a single check. Failures carry a severity and
// a message; passing checks carry neither.
type RuleResult struct {
	Name     string   `json:"name"`
	Valid    bool     `json:"valid"`
	Score    int      `json:"score"`
	Severity Severity `json:"severity,omitempty"`
	Message  string   `json:"message,omitempty"`
}

// Report is the aggregated outcome of an audit. Score is the rounded mean of
// the individual check scores, always within 0-100.
type Report struct {
	Score        int          `json:"score"`
	Issues       []string     `json:"issues"`
	Suggestions  []string     `json:"suggestions"`
	PassedChecks []string     `json:"passedChecks"`
	Checks       []RuleResult `json:"checks,omitempty"`
}
