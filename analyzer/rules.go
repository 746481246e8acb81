package analyzer

import (
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/AmanSuryavanshi-1/Aviators-Training-Centre-sub000/content"
)

// CheckTitle validates the effective title length. A missing title is the
// one failure besides a missing description that blocks publishing.
func (a *Analyzer) CheckTitle(title string) RuleResult {
	length := utf8.RuneCountInString(title)

	switch {
	case length == 0:
		return fail(CheckTitle, 0, SeverityCritical, "Title is required")
	case length < a.cfg.TitleMin:
		return fail(CheckTitle, 25, SeverityWarning,
			fmt.Sprintf("Title is too short (should be %d-%d characters)", a.cfg.TitleMin, a.cfg.TitleMax))
	case length > a.cfg.TitleMax:
		return fail(CheckTitle, 50, SeverityWarning,
			fmt.Sprintf("Title is too long (should be %d-%d characters)", a.cfg.TitleMin, a.cfg.TitleMax))
	}
	return pass(CheckTitle)
}

// CheckDescription validates the meta description length.
func (a *Analyzer) CheckDescription(description string) RuleResult {
	length := utf8.RuneCountInString(description)

	switch {
	case length == 0:
		return fail(CheckDescription, 0, SeverityCritical, "Meta description is required")
	case length < a.cfg.DescriptionMin:
		return fail(CheckDescription, 25, SeverityWarning,
			fmt.Sprintf("Meta description is too short (should be %d-%d characters)", a.cfg.DescriptionMin, a.cfg.DescriptionMax))
	case length > a.cfg.DescriptionMax:
		return fail(CheckDescription, 50, SeverityWarning,
			fmt.Sprintf("Meta description is too long (should be %d-%d characters)", a.cfg.DescriptionMin, a.cfg.DescriptionMax))
	}
	return pass(CheckDescription)
}

// CheckKeywordDensity measures how often the focus keyword occurs relative
// to the word count. Occurrences are counted as case-insensitive substring
// matches, so multi-word keywords work. Zero occurrences score as density
// too low, not as a missing keyword.
func (a *Analyzer) CheckKeywordDensity(text, keyword string) RuleResult {
	if keyword == "" {
		return fail(CheckKeyword, 0, SeverityWarning, "Set a focus keyword for this post")
	}
	words := content.CountWords(text)
	if words == 0 {
		return fail(CheckKeyword, 0, SeverityWarning, "Content is required to measure keyword density")
	}

	occurrences := strings.Count(strings.ToLower(text), strings.ToLower(keyword))
	density := float64(occurrences) / float64(words) * 100

	switch {
	case density < a.cfg.KeywordDensityMin:
		return fail(CheckKeyword, 30, SeverityWarning,
			fmt.Sprintf("Keyword density is too low (%.1f%%, aim for %.1f%%-%.1f%%)",
				density, a.cfg.KeywordDensityMin, a.cfg.KeywordDensityMax))
	case density > a.cfg.KeywordDensityMax:
		return fail(CheckKeyword, 60, SeverityWarning,
			fmt.Sprintf("Keyword density is too high (%.1f%%, aim for %.1f%%-%.1f%%)",
				density, a.cfg.KeywordDensityMin, a.cfg.KeywordDensityMax))
	}
	return pass(CheckKeyword)
}

// CheckReadability validates content length and scores reading ease with the
// Flesch formula. Syllables are approximated by counting vowels, which is
// crude but stable across runs.
func (a *Analyzer) CheckReadability(text string) RuleResult {
	if text == "" {
		return fail(CheckReadability, 0, SeverityWarning, "Post has no body content")
	}

	words := content.CountWords(text)
	switch {
	case words < a.cfg.WordCountMin:
		return fail(CheckReadability, 25, SeverityWarning,
			fmt.Sprintf("Content is too short (aim for at least %d words)", a.cfg.WordCountMin))
	case words > a.cfg.WordCountMax:
		return fail(CheckReadability, 75, SeverityWarning,
			fmt.Sprintf("Content is too long (keep it under %d words)", a.cfg.WordCountMax))
	}

	if flesch := fleschScore(text); flesch < a.cfg.FleschTarget {
		return fail(CheckReadability, 70, SeverityWarning,
			fmt.Sprintf("Content is difficult to read (Flesch score %.0f, aim for %.0f or higher)", flesch, a.cfg.FleschTarget))
	}
	return pass(CheckReadability)
}

// CheckImageAlt verifies every inline image has alt text. A post without
// images passes; a post with gaps scores by the covered fraction.
func (a *Analyzer) CheckImageAlt(body content.Body) RuleResult {
	images := content.Images(body)
	if len(images) == 0 {
		return pass(CheckImageAlt)
	}

	withAlt := 0
	for _, img := range images {
		if strings.TrimSpace(img.Alt) != "" {
			withAlt++
		}
	}
	if withAlt == len(images) {
		return pass(CheckImageAlt)
	}

	return fail(CheckImageAlt, 100*withAlt/len(images), SeverityWarning,
		fmt.Sprintf("%d of %d images missing alt text", len(images)-withAlt, len(images)))
}

// CheckHeadings wants a single H1 and at least one H2 below it.
func (a *Analyzer) CheckHeadings(body content.Body) RuleResult {
	var hasH1, hasH2 bool
	headings := content.Headings(body)
	for _, h := range headings {
		switch h.Level {
		case 1:
			hasH1 = true
		case 2:
			hasH2 = true
		}
	}

	switch {
	case len(headings) == 0:
		return fail(CheckHeadings, 30, SeverityWarning, "Add headings to structure your content")
	case hasH1 && hasH2:
		return pass(CheckHeadings)
	case hasH2:
		return fail(CheckHeadings, 75, SeverityWarning, "Add an H1 heading")
	case hasH1:
		return fail(CheckHeadings, 50, SeverityWarning, "Add H2 subheadings to break up the content")
	}
	return fail(CheckHeadings, 50, SeverityWarning, "Add H1 and H2 headings to structure your content")
}

// CheckInternalLinks counts link annotations pointing back into the site.
// Relative hrefs are internal; absolute hrefs are internal when their host
// matches the configured site URL.
func (a *Analyzer) CheckInternalLinks(body content.Body) RuleResult {
	count := 0
	for _, href := range content.LinkHrefs(body) {
		if a.isInternal(href) {
			count++
		}
	}

	switch {
	case count >= a.cfg.MinInternalLinks:
		return pass(CheckInternalLinks)
	case count == 0:
		return fail(CheckInternalLinks, 30, SeverityWarning, "Add internal links to related pages")
	}
	return fail(CheckInternalLinks, 70, SeverityWarning,
		fmt.Sprintf("Add more internal links (found %d, aim for at least %d)", count, a.cfg.MinInternalLinks))
}

func (a *Analyzer) isInternal(href string) bool {
	if href == "" || strings.HasPrefix(href, "#") {
		return false
	}
	u, err := url.Parse(href)
	if err != nil {
		return false
	}
	if u.Scheme == "" && u.Host == "" {
		return true
	}
	return a.site != nil && strings.EqualFold(u.Host, a.site.Host)
}

func pass(name string) RuleResult {
	return RuleResult{Name: name, Valid: true, Score: 100}
}

func fail(name string, score int, severity Severity, message string) RuleResult {
	return RuleResult{Name: name, Score: score, Severity: severity, Message: message}
}

// fleschScore computes Flesch reading ease. Sentences are split on
// terminal punctuation with a floor of one so short fragments still score.
func fleschScore(text string) float64 {
	words := strings.Fields(text)
	if len(words) == 0 {
		return 0
	}

	syllables := 0
	for _, w := range words {
		syllables += countSyllables(w)
	}

	wordCount := float64(len(words))
	return 206.835 - 1.015*(wordCount/float64(countSentences(text))) - 84.6*(float64(syllables)/wordCount)
}

func countSentences(text string) int {
	n := 0
	for _, seg := range strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	}) {
		if strings.TrimSpace(seg) != "" {
			n++
		}
	}
	if n == 0 {
		return 1
	}
	return n
}

func countSyllables(word string) int {
	n := 0
	for _, r := range strings.ToLower(word) {
		switch r {
		case 'a', 'e', 'i', 'o', 'u':
			n++
		}
	}
	return n
}
