package autofill

import (
	"time"

	"github.com/AmanSuryavanshi-1/Aviators-Training-Centre-sub000/content"
)

// Populate fills every blank derivable field on the document in place.
// Fields the editor already set are left alone. Word count and the last
// check timestamp are always refreshed since they describe the current
// body, not an editorial choice.
func Populate(doc *content.Document, now time.Time) {
	if doc.Title == "" {
		doc.Title = "Untitled Blog Post"
	}

	text := content.PlainText(doc.Body)

	// The SEO description prefers the editor's own excerpt; a generated
	// excerpt falls through to the templated pitch instead.
	editorExcerpt := doc.Excerpt

	if doc.Slug.Current == "" {
		doc.Slug.Current = Slugify(doc.Title)
	}
	if doc.Excerpt == "" {
		doc.Excerpt = Excerpt(text, DefaultExcerptLength)
	}
	if doc.Author.Name == "" {
		doc.Author = SelectAuthor(text)
	}
	if doc.Category == "" {
		doc.Category = Categorize(doc.Title, text)
	}
	if len(doc.Tags) == 0 {
		doc.Tags = SuggestTags(doc.Title, text, 5)
	}
	if doc.FeaturedImage == "" {
		doc.FeaturedImage = "/blog/" + doc.Slug.Current + "-featured.jpg"
	}
	if doc.AltText == "" {
		doc.AltText = "Featured image for " + doc.Title
	}
	if doc.PublishedAt == "" {
		doc.PublishedAt = now.Format(time.RFC3339)
	}
	if doc.SEOTitle == "" {
		doc.SEOTitle = SEOTitle(doc.Title)
	}
	if doc.SEODescription == "" {
		doc.SEODescription = SEODescription(editorExcerpt, doc.Title)
	}
	if doc.FocusKeyword == "" {
		doc.FocusKeyword = FocusKeyword(doc.Title, text)
	}
	if len(doc.AdditionalKeywords) == 0 {
		doc.AdditionalKeywords = SuggestTags(doc.Title, text, 3)
	}
	if doc.ReadingTime == 0 {
		doc.ReadingTime = ReadingTime(text)
	}
	if doc.WorkflowStatus == "" {
		doc.WorkflowStatus = "Draft"
	}
	if doc.StructuredData == nil {
		doc.StructuredData = StructuredData(text, doc.ReadingTime)
	}

	doc.WordCount = content.CountWords(text)
	doc.LastSEOCheck = now.UTC().Format(time.RFC3339)
}
