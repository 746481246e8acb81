package analyzer

import (
	"strings"
	"testing"

	"github.com/AmanSuryavanshi-1/Aviators-Training-Centre-sub000/content"
)

func para(text string) *content.TextBlock {
	return &content.TextBlock{Style: "normal", Children: []content.Span{{Text: text}}}
}

func heading(style, text string) *content.TextBlock {
	return &content.TextBlock{Style: style, Children: []content.Span{{Text: text}}}
}

func linkedPara(text string, hrefs ...string) *content.TextBlock {
	blk := para(text)
	for i, href := range hrefs {
		blk.MarkDefs = append(blk.MarkDefs, content.MarkDef{
			Key:  "link" + string(rune('a'+i)),
			Type: "link",
			Href: href,
		})
	}
	return blk
}

// goodDocument passes every check under the default thresholds.
func goodDocument() *content.Document {
	return &content.Document{
		Title:    "DGCA Ground School Pilot Training Guide",
		SEODescription: "Learn how DGCA ground school and structured pilot training prepare " +
			"you for CPL exams, with study plans, mock tests and practical advice.",
		FocusKeyword: "pilot training",
		Body: content.Body{
			heading("h1", "Pilot Training Guide"),
			heading("h2", "Ground School"),
			para(strings.Repeat("The student learns to fly with care. ", 42)),
			linkedPara("Pilot training builds real skill. Pilot training takes time.",
				"/courses/cpl", "https://www.aviatorstrainingcentre.in/about"),
			&content.ImageBlock{Alt: "Cessna on the runway"},
		},
	}
}

func TestAuditGoodDocument(t *testing.T) {
	report := New(DefaultConfig()).Audit(goodDocument())

	if report.Score != 100 {
		t.Errorf("score = %d, want 100", report.Score)
	}
	if len(report.Issues) != 0 {
		t.Errorf("issues = %v, want none", report.Issues)
	}
	if len(report.Suggestions) != 0 {
		t.Errorf("suggestions = %v, want none", report.Suggestions)
	}
	if len(report.PassedChecks) != 7 {
		t.Errorf("passed %d checks, want 7: %v", len(report.PassedChecks), report.PassedChecks)
	}
}

func TestAuditEmptyDocument(t *testing.T) {
	report := New(DefaultConfig()).Audit(&content.Document{})

	// Title 0, description 0, keyword 0, readability 0, images 100,
	// headings 30, links 30: mean 22.86 rounds to 23.
	if report.Score != 23 {
		t.Errorf("score = %d, want 23", report.Score)
	}

	wantIssues := []string{"Title is required", "Meta description is required"}
	if len(report.Issues) != len(wantIssues) {
		t.Fatalf("issues = %v, want %v", report.Issues, wantIssues)
	}
	for i, want := range wantIssues {
		if report.Issues[i] != want {
			t.Errorf("issue[%d] = %q, want %q", i, report.Issues[i], want)
		}
	}

	if len(report.Suggestions) != 4 {
		t.Errorf("suggestions = %v, want 4 entries", report.Suggestions)
	}
	if len(report.PassedChecks) != 1 || report.PassedChecks[0] != CheckImageAlt {
		t.Errorf("passed = %v, want only %q", report.PassedChecks, CheckImageAlt)
	}
}

func TestAuditPrefersSEOTitle(t *testing.T) {
	doc := goodDocument()
	doc.Title = "x"
	doc.SEOTitle = "DGCA Ground School Pilot Training Guide 2026"

	report := New(DefaultConfig()).Audit(doc)
	for _, issue := range append(report.Issues, report.Suggestions...) {
		if strings.Contains(issue, "Title") {
			t.Errorf("title check failed despite seoTitle: %q", issue)
		}
	}
}

func TestAggregate(t *testing.T) {
	t.Run("empty input yields zero report", func(t *testing.T) {
		report := Aggregate(nil)
		if report.Score != 0 {
			t.Errorf("score = %d, want 0", report.Score)
		}
		if report.Issues == nil || report.Suggestions == nil || report.PassedChecks == nil {
			t.Error("lists should be empty, not nil")
		}
	})

	t.Run("score is rounded mean", func(t *testing.T) {
		cases := []struct {
			scores []int
			want   int
		}{
			{[]int{100, 100, 50}, 83},
			{[]int{100, 50}, 75},
			{[]int{25, 50}, 38},
			{[]int{0, 0, 0}, 0},
			{[]int{100}, 100},
		}
		for _, tc := range cases {
			checks := make([]RuleResult, len(tc.scores))
			for i, s := range tc.scores {
				checks[i] = RuleResult{Name: "check", Score: s, Severity: SeverityWarning, Message: "m"}
			}
			if got := Aggregate(checks).Score; got != tc.want {
				t.Errorf("Aggregate(%v).Score = %d, want %d", tc.scores, got, tc.want)
			}
		}
	})

	t.Run("buckets by severity", func(t *testing.T) {
		report := Aggregate([]RuleResult{
			{Name: "a", Valid: true, Score: 100},
			{Name: "b", Score: 0, Severity: SeverityCritical, Message: "b is required"},
			{Name: "c", Score: 30, Severity: SeverityWarning, Message: "improve c"},
		})
		if len(report.Issues) != 1 || report.Issues[0] != "b is required" {
			t.Errorf("issues = %v", report.Issues)
		}
		if len(report.Suggestions) != 1 || report.Suggestions[0] != "improve c" {
			t.Errorf("suggestions = %v", report.Suggestions)
		}
		if len(report.PassedChecks) != 1 || report.PassedChecks[0] != "a" {
			t.Errorf("passed = %v", report.PassedChecks)
		}
	})
}
