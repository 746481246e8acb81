// Package analyzer scores blog documents against the site's SEO rules.
// Every check is a pure function over document data: failures come back as
// results, never as errors, so a broken document still produces a report.
package analyzer

import (
	"math"
	"net/url"

	"github.com/AmanSuryavanshi-1/Aviators-Training-Centre-sub000/content"
)

// Analyzer runs the rule set from a Config. Safe for concurrent use.
type Analyzer struct {
	cfg  Config
	site *url.URL
}

// New creates an Analyzer with the given thresholds. An unparseable SiteURL
// disables host matching; relative links still count as internal.
func New(cfg Config) *Analyzer {
	a := &Analyzer{cfg: cfg}
	if cfg.SiteURL != "" {
		if u, err := url.Parse(cfg.SiteURL); err == nil && u.Host != "" {
			a.site = u
		}
	}
	return a
}

// Config returns the thresholds the analyzer was built with.
func (a *Analyzer) Config() Config {
	return a.cfg
}

// Audit runs every check against the document and aggregates the results.
// The title is taken from seoTitle when set, falling back to the display
// title; the description comes from seoDescription.
func (a *Analyzer) Audit(doc *content.Document) Report {
	text := content.PlainText(doc.Body)

	return Aggregate([]RuleResult{
		a.CheckTitle(doc.EffectiveTitle()),
		a.CheckDescription(doc.SEODescription),
		a.CheckKeywordDensity(text, doc.FocusKeyword),
		a.CheckReadability(text),
		a.CheckImageAlt(doc.Body),
		a.CheckHeadings(doc.Body),
		a.CheckInternalLinks(doc.Body),
	})
}

// Aggregate folds check results into a Report. The overall score is the
// arithmetic mean of the check scores rounded to the nearest integer; an
// empty input yields a zero report.
func Aggregate(checks []RuleResult) Report {
	report := Report{
		Issues:       make([]string, 0),
		Suggestions:  make([]string, 0),
		PassedChecks: make([]string, 0),
	}
	if len(checks) == 0 {
		return report
	}

	sum := 0
	for _, c := range checks {
		sum += c.Score
		switch {
		case c.Valid:
			report.PassedChecks = append(report.PassedChecks, c.Name)
		case c.Severity == SeverityCritical:
			report.Issues = append(report.Issues, c.Message)
		default:
			report.Suggestions = append(report.Suggestions, c.Message)
		}
	}

	report.Score = int(math.Round(float64(sum) / float64(len(checks))))
	report.Checks = checks
	return report
}
