package analyzer

import (
	"strings"
	"testing"

	"github.com/AmanSuryavanshi-1/Aviators-Training-Centre-sub000/content"
)

func TestCheckTitle(t *testing.T) {
	a := New(DefaultConfig())

	cases := []struct {
		name     string
		title    string
		score    int
		valid    bool
		severity Severity
	}{
		{"empty", "", 0, false, SeverityCritical},
		{"one short of minimum", strings.Repeat("a", 29), 25, false, SeverityWarning},
		{"at minimum", strings.Repeat("a", 30), 100, true, ""},
		{"at maximum", strings.Repeat("a", 60), 100, true, ""},
		{"one over maximum", strings.Repeat("a", 61), 50, false, SeverityWarning},
		{"multibyte runes counted once", strings.Repeat("ü", 25), 25, false, SeverityWarning},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := a.CheckTitle(tc.title)
			if got.Score != tc.score || got.Valid != tc.valid || got.Severity != tc.severity {
				t.Errorf("got score=%d valid=%t severity=%q, want score=%d valid=%t severity=%q",
					got.Score, got.Valid, got.Severity, tc.score, tc.valid, tc.severity)
			}
		})
	}

	if got := a.CheckTitle(""); got.Message != "Title is required" {
		t.Errorf("message = %q", got.Message)
	}
}

func TestCheckDescription(t *testing.T) {
	a := New(DefaultConfig())

	cases := []struct {
		name  string
		desc  string
		score int
		valid bool
	}{
		{"empty", "", 0, false},
		{"too short", strings.Repeat("d", 119), 25, false},
		{"at minimum", strings.Repeat("d", 120), 100, true},
		{"at maximum", strings.Repeat("d", 160), 100, true},
		{"too long", strings.Repeat("d", 161), 50, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := a.CheckDescription(tc.desc)
			if got.Score != tc.score || got.Valid != tc.valid {
				t.Errorf("got score=%d valid=%t, want score=%d valid=%t",
					got.Score, got.Valid, tc.score, tc.valid)
			}
		})
	}

	if got := a.CheckDescription(""); got.Severity != SeverityCritical {
		t.Errorf("severity = %q, want critical", got.Severity)
	}
}

func TestCheckKeywordDensity(t *testing.T) {
	a := New(DefaultConfig())
	filler := strings.Repeat("filler ", 198) // 198 words

	t.Run("missing keyword", func(t *testing.T) {
		got := a.CheckKeywordDensity("some content", "")
		if got.Score != 0 || got.Valid {
			t.Errorf("got %+v", got)
		}
	})

	t.Run("missing content", func(t *testing.T) {
		got := a.CheckKeywordDensity("", "aviation")
		if got.Score != 0 || got.Valid {
			t.Errorf("got %+v", got)
		}
		if got.Severity != SeverityWarning {
			t.Errorf("severity = %q, want warning", got.Severity)
		}
	})

	t.Run("whitespace-only content", func(t *testing.T) {
		// Zero words would make the density 0/0; that must read as missing
		// content, not a pass.
		got := a.CheckKeywordDensity(" \n\t ", "aviation")
		if got.Score != 0 || got.Valid {
			t.Errorf("got %+v", got)
		}
		if !strings.Contains(got.Message, "Content is required") {
			t.Errorf("message = %q", got.Message)
		}
	})

	t.Run("zero occurrences is low density", func(t *testing.T) {
		got := a.CheckKeywordDensity(filler+"end word", "aviation")
		if got.Score != 30 {
			t.Errorf("score = %d, want 30", got.Score)
		}
		if !strings.Contains(got.Message, "too low") {
			t.Errorf("message = %q", got.Message)
		}
	})

	t.Run("in window", func(t *testing.T) {
		// 2 occurrences in 200 words is 1.0%.
		got := a.CheckKeywordDensity(filler+"aviation aviation", "aviation")
		if !got.Valid || got.Score != 100 {
			t.Errorf("got %+v", got)
		}
	})

	t.Run("at lower bound", func(t *testing.T) {
		// 1 occurrence in 200 words is exactly 0.5%.
		got := a.CheckKeywordDensity(filler+"aviation end", "aviation")
		if !got.Valid {
			t.Errorf("got %+v", got)
		}
	})

	t.Run("too high", func(t *testing.T) {
		got := a.CheckKeywordDensity(strings.Repeat("aviation ", 50), "aviation")
		if got.Score != 60 {
			t.Errorf("score = %d, want 60", got.Score)
		}
		if !strings.Contains(got.Message, "too high") {
			t.Errorf("message = %q", got.Message)
		}
	})

	t.Run("case insensitive substring match", func(t *testing.T) {
		got := a.CheckKeywordDensity(filler+"DGCA and dgca", "dgca")
		// 2 matches in 201 words is 1.0%.
		if !got.Valid {
			t.Errorf("got %+v", got)
		}
	})
}

func TestCheckReadability(t *testing.T) {
	a := New(DefaultConfig())

	t.Run("empty content", func(t *testing.T) {
		got := a.CheckReadability("")
		if got.Score != 0 || got.Valid {
			t.Errorf("got %+v", got)
		}
	})

	t.Run("too short", func(t *testing.T) {
		got := a.CheckReadability(strings.Repeat("word ", 299))
		if got.Score != 25 {
			t.Errorf("score = %d, want 25", got.Score)
		}
	})

	t.Run("too long", func(t *testing.T) {
		got := a.CheckReadability(strings.Repeat("word ", 3001))
		if got.Score != 75 {
			t.Errorf("score = %d, want 75", got.Score)
		}
	})

	t.Run("simple sentences pass", func(t *testing.T) {
		got := a.CheckReadability(strings.Repeat("The pilot flies the plane. ", 60))
		if !got.Valid || got.Score != 100 {
			t.Errorf("got %+v", got)
		}
	})

	t.Run("dense prose is difficult", func(t *testing.T) {
		// One unpunctuated 300-word run of long words.
		got := a.CheckReadability(strings.Repeat("organizational administration requires extraordinary dedication ", 60))
		if got.Score != 70 {
			t.Errorf("score = %d, want 70", got.Score)
		}
		if !strings.Contains(got.Message, "difficult to read") {
			t.Errorf("message = %q", got.Message)
		}
	})
}

func TestFleschHelpers(t *testing.T) {
	if got := countSentences("One. Two! Three? "); got != 3 {
		t.Errorf("countSentences = %d, want 3", got)
	}
	if got := countSentences("no terminal punctuation"); got != 1 {
		t.Errorf("countSentences floor = %d, want 1", got)
	}
	if got := countSyllables("Aviation"); got != 5 {
		t.Errorf("countSyllables(Aviation) = %d, want 5", got)
	}
	if got := countSyllables("fly"); got != 0 {
		t.Errorf("countSyllables(fly) = %d, want 0", got)
	}
}

func TestCheckImageAlt(t *testing.T) {
	a := New(DefaultConfig())

	t.Run("no images passes", func(t *testing.T) {
		got := a.CheckImageAlt(content.Body{para("text only")})
		if !got.Valid || got.Score != 100 {
			t.Errorf("got %+v", got)
		}
	})

	t.Run("all images covered", func(t *testing.T) {
		body := content.Body{
			&content.ImageBlock{Alt: "runway"},
			&content.ImageBlock{Alt: "cockpit"},
		}
		if got := a.CheckImageAlt(body); !got.Valid {
			t.Errorf("got %+v", got)
		}
	})

	t.Run("partial coverage scores the fraction", func(t *testing.T) {
		body := content.Body{
			&content.ImageBlock{Alt: "runway"},
			&content.ImageBlock{Alt: "cockpit"},
			&content.ImageBlock{},
		}
		got := a.CheckImageAlt(body)
		if got.Score != 66 {
			t.Errorf("score = %d, want 66", got.Score)
		}
		if got.Message != "1 of 3 images missing alt text" {
			t.Errorf("message = %q", got.Message)
		}
	})

	t.Run("whitespace alt counts as missing", func(t *testing.T) {
		body := content.Body{&content.ImageBlock{Alt: "   "}}
		got := a.CheckImageAlt(body)
		if got.Valid || got.Score != 0 {
			t.Errorf("got %+v", got)
		}
	})
}

func TestCheckHeadings(t *testing.T) {
	a := New(DefaultConfig())

	cases := []struct {
		name  string
		body  content.Body
		score int
		valid bool
	}{
		{"no headings", content.Body{para("plain text")}, 30, false},
		{"h1 and h2", content.Body{heading("h1", "t"), heading("h2", "s")}, 100, true},
		{"h2 without h1", content.Body{heading("h2", "s")}, 75, false},
		{"h1 without h2", content.Body{heading("h1", "t")}, 50, false},
		{"only deep headings", content.Body{heading("h3", "s"), heading("h4", "ss")}, 50, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := a.CheckHeadings(tc.body)
			if got.Score != tc.score || got.Valid != tc.valid {
				t.Errorf("got score=%d valid=%t, want score=%d valid=%t",
					got.Score, got.Valid, tc.score, tc.valid)
			}
		})
	}
}

func TestCheckInternalLinks(t *testing.T) {
	a := New(DefaultConfig())

	t.Run("no links", func(t *testing.T) {
		got := a.CheckInternalLinks(content.Body{para("no links here")})
		if got.Score != 30 || got.Valid {
			t.Errorf("got %+v", got)
		}
	})

	t.Run("one internal link", func(t *testing.T) {
		got := a.CheckInternalLinks(content.Body{linkedPara("x", "/courses")})
		if got.Score != 70 {
			t.Errorf("score = %d, want 70", got.Score)
		}
		if !strings.Contains(got.Message, "found 1") {
			t.Errorf("message = %q", got.Message)
		}
	})

	t.Run("two internal links pass", func(t *testing.T) {
		body := content.Body{linkedPara("x", "/courses", "https://www.aviatorstrainingcentre.in/blog")}
		if got := a.CheckInternalLinks(body); !got.Valid {
			t.Errorf("got %+v", got)
		}
	})

	t.Run("external links do not count", func(t *testing.T) {
		body := content.Body{linkedPara("x",
			"https://example.com/a", "https://example.org/b", "/only-internal")}
		got := a.CheckInternalLinks(body)
		if got.Score != 70 {
			t.Errorf("score = %d, want 70", got.Score)
		}
	})

	t.Run("anchors do not count", func(t *testing.T) {
		got := a.CheckInternalLinks(content.Body{linkedPara("x", "#section", "#top")})
		if got.Score != 30 {
			t.Errorf("score = %d, want 30", got.Score)
		}
	})
}
