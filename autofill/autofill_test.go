package autofill

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/AmanSuryavanshi-1/Aviators-Training-Centre-sub000/content"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		title string
		want  string
	}{
		{"DGCA Exam Guide: Tips & Tricks!", "dgca-exam-guide-tips-tricks"},
		{"  Spaces   everywhere  ", "spaces-everywhere"},
		{"already-a-slug", "already-a-slug"},
		{"Dashes -- collapse", "dashes-collapse"},
		{"Café Crème", "caf-crme"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := Slugify(tc.title); got != tc.want {
			t.Errorf("Slugify(%q) = %q, want %q", tc.title, got, tc.want)
		}
	}
}

func TestExcerpt(t *testing.T) {
	t.Run("accumulates whole sentences", func(t *testing.T) {
		got := Excerpt("First sentence. Second sentence. Third.", 160)
		if got != "First sentence. Second sentence. Third." {
			t.Errorf("got %q", got)
		}
	})

	t.Run("stops before the limit", func(t *testing.T) {
		got := Excerpt("First sentence here. Another one follows.", 20)
		if got != "First sentence here." {
			t.Errorf("got %q", got)
		}
	})

	t.Run("strips markdown punctuation", func(t *testing.T) {
		got := Excerpt("# Heading with a [link](url). Next.", 160)
		if strings.ContainsAny(got, "#[]()") {
			t.Errorf("markdown left in excerpt: %q", got)
		}
	})

	t.Run("empty input", func(t *testing.T) {
		if got := Excerpt("", 160); got != "" {
			t.Errorf("got %q, want empty", got)
		}
	})
}

func TestCategorize(t *testing.T) {
	cases := []struct {
		title string
		text  string
		want  string
	}{
		{"DGCA Exam Preparation", "", "DGCA Exams"},
		{"Cabin crew", "safety procedures on board", "Safety & Regulations"},
		{"Airline jobs", "salary expectations", "Aviation Careers"},
		{"Choosing an instructor", "", "Flight Training"},
		{"CPL vs ATPL", "", "Pilot Licensing"},
		{"Turbofan engine basics", "", "Aircraft Systems"},
		{"ILS approaches", "", "Navigation"},
		{"Monsoon turbulence", "", "Weather & Meteorology"},
		{"Fleet news", "airbus orders", "Aviation Industry"},
		// Exam keywords outrank training keywords.
		{"Training for the DGCA exam", "", "DGCA Exams"},
	}
	for _, tc := range cases {
		got := Categorize(tc.title, tc.text)
		if got != tc.want {
			t.Errorf("Categorize(%q, %q) = %q, want %q", tc.title, tc.text, got, tc.want)
		}
		if !containsFold(Categories, got) {
			t.Errorf("category %q not in Categories", got)
		}
	}
}

func TestSuggestTags(t *testing.T) {
	title := "Pilot Training Guide"
	text := "Learn about DGCA and CPL basics for flight school"

	got := SuggestTags(title, text, 5)
	want := []string{"pilot training", "CPL", "DGCA", "flight school", "pilot"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("tag[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	if got := SuggestTags(title, text, 2); len(got) != 2 {
		t.Errorf("max not honored: %v", got)
	}
	if got := SuggestTags("Cooking", "recipes", 5); len(got) != 0 {
		t.Errorf("unrelated content produced tags: %v", got)
	}
}

func TestReadingTime(t *testing.T) {
	cases := []struct {
		words int
		want  int
	}{
		{0, 1},
		{1, 1},
		{225, 1},
		{226, 2},
		{450, 2},
		{451, 3},
	}
	for _, tc := range cases {
		text := strings.TrimSpace(strings.Repeat("word ", tc.words))
		if got := ReadingTime(text); got != tc.want {
			t.Errorf("ReadingTime(%d words) = %d, want %d", tc.words, got, tc.want)
		}
	}
}

func TestSEOTitle(t *testing.T) {
	short := "Short title"
	if got := SEOTitle(short); got != short {
		t.Errorf("short title changed: %q", got)
	}

	long := strings.Repeat("a", 61)
	want := fmt.Sprintf("%s... %d", strings.Repeat("a", 50), time.Now().Year())
	if got := SEOTitle(long); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestSEODescription(t *testing.T) {
	t.Run("fitting excerpt wins", func(t *testing.T) {
		if got := SEODescription("A short excerpt.", "Title"); got != "A short excerpt." {
			t.Errorf("got %q", got)
		}
	})

	t.Run("templated from title", func(t *testing.T) {
		got := SEODescription("", "CPL Training")
		if !strings.HasPrefix(got, "Learn about cpl training.") {
			t.Errorf("got %q", got)
		}
		if len([]rune(got)) > 160 {
			t.Errorf("description over 160 runes: %d", len([]rune(got)))
		}
	})

	t.Run("long title truncates", func(t *testing.T) {
		got := SEODescription("", strings.Repeat("t", 200))
		if len([]rune(got)) != 160 {
			t.Errorf("got %d runes, want 160", len([]rune(got)))
		}
	})

	t.Run("default line", func(t *testing.T) {
		got := SEODescription("", "")
		if !strings.Contains(got, "Aviators Training Centre") {
			t.Errorf("got %q", got)
		}
	})

	t.Run("oversized excerpt falls through", func(t *testing.T) {
		got := SEODescription(strings.Repeat("e", 161), "Title")
		if !strings.HasPrefix(got, "Learn about") {
			t.Errorf("got %q", got)
		}
	})
}

func TestFocusKeyword(t *testing.T) {
	cases := []struct {
		title string
		text  string
		want  string
	}{
		{"Complete Pilot Training Guide", "", "pilot training"},
		{"Your first DGCA exam", "", "dgca exam"},
		{"Maintenance basics", "every aircraft needs care", "aircraft"},
		{"Cooking recipes", "for lazy weekends", "pilot training"},
	}
	for _, tc := range cases {
		if got := FocusKeyword(tc.title, tc.text); got != tc.want {
			t.Errorf("FocusKeyword(%q, %q) = %q, want %q", tc.title, tc.text, got, tc.want)
		}
	}
}

func TestSelectAuthor(t *testing.T) {
	cases := []struct {
		text string
		want string
	}{
		{"our ground school covers it", "Ankit Kumar"},
		{"safety culture in the cockpit", "Dhruv Shirkoli"},
		{"exam strategy that works", "Saksham Khandelwal"},
		{"a plain flying story", "Aman Suryavanshi"},
		// Name mentions route directly.
		{"an interview with Dhruv Shirkoli", "Dhruv Shirkoli"},
	}
	for _, tc := range cases {
		if got := SelectAuthor(tc.text); got.Name != tc.want {
			t.Errorf("SelectAuthor(%q) = %q, want %q", tc.text, got.Name, tc.want)
		}
	}

	if got := SelectAuthor("anything"); got.Image == "" {
		t.Error("author image missing")
	}
}

func TestStructuredData(t *testing.T) {
	t.Run("how to content", func(t *testing.T) {
		sd := StructuredData("a step by step guide for beginner pilots", 7)
		if sd.ArticleType != "HowTo" || sd.LearningResourceType != "Guide" {
			t.Errorf("got %+v", sd)
		}
		if sd.EducationalLevel != "Beginner" {
			t.Errorf("level = %q", sd.EducationalLevel)
		}
		if sd.TimeRequired != "PT7M" {
			t.Errorf("timeRequired = %q", sd.TimeRequired)
		}
	})

	t.Run("plain article defaults", func(t *testing.T) {
		sd := StructuredData("некоторые general notes", 3)
		if sd.ArticleType != "Educational" || sd.LearningResourceType != "Article" {
			t.Errorf("got %+v", sd)
		}
		if sd.EducationalLevel != "Intermediate" {
			t.Errorf("level = %q", sd.EducationalLevel)
		}
	})

	t.Run("advanced level", func(t *testing.T) {
		sd := StructuredData("advanced turbine operations", 10)
		if sd.EducationalLevel != "Advanced" {
			t.Errorf("level = %q", sd.EducationalLevel)
		}
	})
}

func TestNormalize(t *testing.T) {
	in := "Intro\r\n\r\n<!-- CTA_COURSES_INTEGRATION -->\n\n\n\nBody text\n\n\n\n\nEnd\n"
	got := Normalize(in)

	if strings.Contains(got, "CTA_") {
		t.Errorf("CTA placeholder survived: %q", got)
	}
	if strings.Contains(got, "\r") {
		t.Errorf("carriage return survived")
	}
	if strings.Contains(got, "\n\n\n") {
		t.Errorf("blank line run survived: %q", got)
	}
	if strings.HasSuffix(got, "\n") {
		t.Errorf("not trimmed: %q", got)
	}
}

func TestPopulate(t *testing.T) {
	now := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

	t.Run("fills blank fields", func(t *testing.T) {
		doc := &content.Document{
			Title: "DGCA Ground School Guide",
			Body: content.Body{
				&content.TextBlock{Style: "normal", Children: []content.Span{
					{Text: "Ground school training prepares you for the DGCA exam. " + strings.Repeat("Study simple topics daily. ", 20)},
				}},
			},
		}
		Populate(doc, now)

		if doc.Slug.Current != "dgca-ground-school-guide" {
			t.Errorf("slug = %q", doc.Slug.Current)
		}
		if doc.Excerpt == "" {
			t.Error("excerpt not filled")
		}
		if doc.Category != "DGCA Exams" {
			t.Errorf("category = %q", doc.Category)
		}
		if doc.Author.Name != "Ankit Kumar" {
			t.Errorf("author = %q (ground school posts go to Ankit)", doc.Author.Name)
		}
		if len(doc.Tags) == 0 || len(doc.AdditionalKeywords) == 0 {
			t.Errorf("tags = %v, additional = %v", doc.Tags, doc.AdditionalKeywords)
		}
		if doc.FeaturedImage != "/blog/dgca-ground-school-guide-featured.jpg" {
			t.Errorf("featuredImage = %q", doc.FeaturedImage)
		}
		if doc.AltText != "Featured image for DGCA Ground School Guide" {
			t.Errorf("altText = %q", doc.AltText)
		}
		if doc.SEOTitle != "DGCA Ground School Guide" {
			t.Errorf("seoTitle = %q", doc.SEOTitle)
		}
		if doc.SEODescription == "" || doc.FocusKeyword == "" {
			t.Errorf("seoDescription = %q, focusKeyword = %q", doc.SEODescription, doc.FocusKeyword)
		}
		if doc.ReadingTime != 1 {
			t.Errorf("readingTime = %d", doc.ReadingTime)
		}
		if doc.WorkflowStatus != "Draft" {
			t.Errorf("workflowStatus = %q", doc.WorkflowStatus)
		}
		if doc.StructuredData == nil {
			t.Fatal("structuredData not filled")
		}
		if doc.WordCount == 0 {
			t.Error("wordCount not set")
		}
		if doc.PublishedAt != now.Format(time.RFC3339) {
			t.Errorf("publishedAt = %q", doc.PublishedAt)
		}
		if _, err := time.Parse(time.RFC3339, doc.LastSEOCheck); err != nil {
			t.Errorf("lastSeoCheck not RFC3339: %q", doc.LastSEOCheck)
		}
	})

	t.Run("keeps editor values", func(t *testing.T) {
		doc := &content.Document{
			Title:          "Some Post",
			Slug:           content.Slug{Current: "my-own-slug"},
			Category:       "Career Guidance",
			Author:         content.Author{Name: "Guest Writer"},
			WorkflowStatus: "Review",
			Tags:           []string{"custom"},
		}
		Populate(doc, now)

		if doc.Slug.Current != "my-own-slug" {
			t.Errorf("slug overwritten: %q", doc.Slug.Current)
		}
		if doc.Category != "Career Guidance" {
			t.Errorf("category overwritten: %q", doc.Category)
		}
		if doc.Author.Name != "Guest Writer" {
			t.Errorf("author overwritten: %q", doc.Author.Name)
		}
		if doc.WorkflowStatus != "Review" {
			t.Errorf("workflowStatus overwritten: %q", doc.WorkflowStatus)
		}
		if len(doc.Tags) != 1 || doc.Tags[0] != "custom" {
			t.Errorf("tags overwritten: %v", doc.Tags)
		}
	})

	t.Run("untitled fallback", func(t *testing.T) {
		doc := &content.Document{}
		Populate(doc, now)
		if doc.Title != "Untitled Blog Post" {
			t.Errorf("title = %q", doc.Title)
		}
		if doc.Slug.Current != "untitled-blog-post" {
			t.Errorf("slug = %q", doc.Slug.Current)
		}
	})
}
