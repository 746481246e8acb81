// Package autofill derives the blog post fields editors usually leave
// blank: slug, excerpt, category, tags, author and the SEO metadata. The
// derivations are keyword heuristics tuned for the site's aviation content.
package autofill

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/AmanSuryavanshi-1/Aviators-Training-Centre-sub000/content"
)

// DefaultExcerptLength caps generated excerpts, matching the meta
// description window.
const DefaultExcerptLength = 160

const wordsPerMinute = 225

// Categories the site publishes under.
var Categories = []string{
	"Flight Training", "Aviation Careers", "Safety & Regulations",
	"DGCA Exams", "Pilot Licensing", "Aircraft Systems", "Navigation",
	"Weather & Meteorology", "Aviation Industry", "Career Guidance",
}

var knownTags = []string{
	"pilot training", "CPL", "ATPL", "DGCA", "flight school", "aviation career",
	"commercial pilot", "airline pilot", "flight instructor", "aircraft systems",
	"navigation", "meteorology", "safety", "regulations", "exam preparation",
	"pilot license", "flying", "aviation industry", "pilot job", "flight training",
}

var categoryRules = []struct {
	name     string
	keywords []string
}{
	{"DGCA Exams", []string{"dgca", "exam", "test", "preparation"}},
	{"Safety & Regulations", []string{"safety", "regulation", "procedure"}},
	{"Aviation Careers", []string{"career", "job", "salary", "opportunity"}},
	{"Flight Training", []string{"training", "course", "lesson", "instructor"}},
	{"Pilot Licensing", []string{"license", "cpl", "atpl", "rating"}},
	{"Aircraft Systems", []string{"system", "aircraft", "engine", "avionics"}},
	{"Navigation", []string{"navigation", "gps", "ils", "approach"}},
	{"Weather & Meteorology", []string{"weather", "meteorology", "turbulence", "wind"}},
}

// Focus keywords in priority order; the first one found in the post wins.
var focusKeywords = []string{
	"pilot training", "dgca exam", "commercial pilot", "flight training",
	"aviation career", "pilot license", "cpl training", "atpl training",
	"aviation safety", "pilot job", "flight instructor", "aircraft systems",
}

var (
	slugStrip   = regexp.MustCompile(`[^a-z0-9\s-]`)
	slugSpaces  = regexp.MustCompile(`\s+`)
	slugHyphens = regexp.MustCompile(`-+`)

	aviationWords      = regexp.MustCompile(`\b(pilot|aviation|aircraft|flight|dgca|cpl|atpl)\b`)
	aviationFocusWords = regexp.MustCompile(`\b(pilot|aviation|aircraft|flight|dgca|cpl|atpl|training)\b`)
)

var (
	authorAman    = content.Author{Name: "Aman Suryavanshi", Image: "/instructors/aman-suryavanshi.jpg"}
	authorAnkit   = content.Author{Name: "Ankit Kumar", Image: "/instructors/ankit-kumar.jpg"}
	authorDhruv   = content.Author{Name: "Dhruv Shirkoli", Image: "/instructors/dhruv-shirkoli.jpg"}
	authorSaksham = content.Author{Name: "Saksham Khandelwal", Image: "/instructors/saksham-khandelwal.jpg"}
)

// Slugify turns a title into a URL-friendly slug.
func Slugify(title string) string {
	slug := strings.ToLower(title)
	slug = slugStrip.ReplaceAllString(slug, "")
	slug = slugSpaces.ReplaceAllString(slug, "-")
	slug = slugHyphens.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

// Excerpt builds a short teaser by accumulating leading sentences until the
// limit would be crossed. Markdown punctuation is stripped first.
func Excerpt(text string, limit int) string {
	clean := strings.NewReplacer(
		"#", "", "*", "", "`", "", "[", "", "]", "", "(", "", ")", "",
	).Replace(text)

	var excerpt strings.Builder
	for _, sentence := range strings.Split(clean, ".") {
		if strings.TrimSpace(sentence) == "" {
			continue
		}
		if utf8.RuneCountInString(excerpt.String()+sentence) >= limit {
			break
		}
		excerpt.WriteString(sentence)
		excerpt.WriteString(".")
	}
	return strings.TrimSpace(excerpt.String())
}

// Categorize picks the site category whose keywords appear first in the
// title or body. Rule order matters: exam content wins over training
// content even when both match.
func Categorize(title, text string) string {
	haystack := strings.ToLower(title + " " + text)
	for _, rule := range categoryRules {
		for _, kw := range rule.keywords {
			if strings.Contains(haystack, kw) {
				return rule.name
			}
		}
	}
	return "Aviation Industry"
}

// SuggestTags picks up to max tags, preferring the curated tag list and
// topping up with bare aviation words found in the post.
func SuggestTags(title, text string, max int) []string {
	haystack := strings.ToLower(title + " " + text)

	tags := make([]string, 0, max)
	for _, tag := range knownTags {
		if len(tags) >= max {
			break
		}
		if strings.Contains(haystack, strings.ToLower(tag)) {
			tags = append(tags, tag)
		}
	}

	for _, word := range aviationWords.FindAllString(haystack, -1) {
		if len(tags) >= max {
			break
		}
		if !containsFold(tags, word) {
			tags = append(tags, word)
		}
	}
	return tags
}

// ReadingTime estimates minutes to read at 225 words per minute, with a
// floor of one minute.
func ReadingTime(text string) int {
	minutes := int(math.Ceil(float64(content.CountWords(text)) / wordsPerMinute))
	if minutes < 1 {
		return 1
	}
	return minutes
}

// SEOTitle returns the title unchanged when it fits the search snippet,
// otherwise truncates it and appends the current year for freshness.
func SEOTitle(title string) string {
	runes := []rune(title)
	if len(runes) <= 60 {
		return title
	}
	return fmt.Sprintf("%s... %d", string(runes[:50]), time.Now().Year())
}

// SEODescription prefers a fitting excerpt, then a templated pitch built
// from the title, then the site's default line.
func SEODescription(excerpt, title string) string {
	if excerpt != "" && utf8.RuneCountInString(excerpt) <= 160 {
		return excerpt
	}
	if title != "" {
		desc := fmt.Sprintf("Learn about %s. Expert guidance from Aviators Training Centre for aspiring pilots and aviation professionals.",
			strings.ToLower(title))
		if runes := []rune(desc); len(runes) > 160 {
			return string(runes[:160])
		}
		return desc
	}
	return "Expert aviation training and guidance from Aviators Training Centre. Professional pilot courses and career development."
}

// FocusKeyword picks the highest-priority aviation keyword present in the
// post, falling back to the first aviation word, then to "pilot training".
func FocusKeyword(title, text string) string {
	haystack := strings.ToLower(title + " " + text)
	for _, kw := range focusKeywords {
		if strings.Contains(haystack, kw) {
			return kw
		}
	}
	if word := aviationFocusWords.FindString(haystack); word != "" {
		return word
	}
	return "pilot training"
}

// SelectAuthor routes posts to the instructor who owns the topic, by name
// mention or by subject area.
func SelectAuthor(text string) content.Author {
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "ankit kumar") || strings.Contains(lower, "ground school"):
		return authorAnkit
	case strings.Contains(lower, "dhruv shirkoli") || strings.Contains(lower, "safety"):
		return authorDhruv
	case strings.Contains(lower, "saksham khandelwal") || strings.Contains(lower, "exam"):
		return authorSaksham
	}
	return authorAman
}

// StructuredData derives the schema.org hints from the post body.
func StructuredData(text string, readingTime int) *content.StructuredData {
	lower := strings.ToLower(text)

	sd := &content.StructuredData{
		ArticleType:          "Educational",
		LearningResourceType: "Article",
		TimeRequired:         fmt.Sprintf("PT%dM", readingTime),
	}
	if containsAny(lower, "guide", "how to", "steps", "tutorial") {
		sd.ArticleType = "HowTo"
		sd.LearningResourceType = "Guide"
	}

	switch {
	case containsAny(lower, "beginner", "basic", "introduction", "getting started"):
		sd.EducationalLevel = "Beginner"
	case containsAny(lower, "advanced", "expert", "professional", "complex"):
		sd.EducationalLevel = "Advanced"
	default:
		sd.EducationalLevel = "Intermediate"
	}
	return sd
}

func containsAny(haystack string, needles ...string) bool {
	for _, n := range needles {
		if strings.Contains(haystack, n) {
			return true
		}
	}
	return false
}

func containsFold(list []string, want string) bool {
	for _, s := range list {
		if strings.EqualFold(s, want) {
			return true
		}
	}
	return false
}
