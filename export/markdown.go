// Package export renders block documents as markdown files with YAML
// frontmatter, the format the site's static content pipeline consumes.
package export

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/AmanSuryavanshi-1/Aviators-Training-Centre-sub000/autofill"
	"github.com/AmanSuryavanshi-1/Aviators-Training-Centre-sub000/content"
)

// ErrNoSlug is returned by WriteFile for documents with no slug to name
// the file after, either because autofill has not run yet or because the
// slug sanitizes down to nothing.
var ErrNoSlug = errors.New("document has no slug")

type frontmatterAuthor struct {
	Name  string `yaml:"name"`
	Image string `yaml:"image,omitempty"`
}

type frontmatterStructuredData struct {
	ArticleType          string `yaml:"articleType"`
	LearningResourceType string `yaml:"learningResourceType"`
	EducationalLevel     string `yaml:"educationalLevel"`
	TimeRequired         string `yaml:"timeRequired"`
}

// frontmatter mirrors the field order the content pipeline expects.
type frontmatter struct {
	Title              string                     `yaml:"title"`
	Date               string                     `yaml:"date"`
	Excerpt            string                     `yaml:"excerpt"`
	Category           string                     `yaml:"category"`
	CoverImage         string                     `yaml:"coverImage"`
	Author             frontmatterAuthor          `yaml:"author"`
	Featured           bool                       `yaml:"featured"`
	Tags               []string                   `yaml:"tags"`
	SEOTitle           string                     `yaml:"seoTitle"`
	SEODescription     string                     `yaml:"seoDescription"`
	FocusKeyword       string                     `yaml:"focusKeyword"`
	AdditionalKeywords []string                   `yaml:"additionalKeywords"`
	ReadingTime        int                        `yaml:"readingTime"`
	WordCount          int                        `yaml:"wordCount"`
	WorkflowStatus     string                     `yaml:"workflowStatus"`
	StructuredData     *frontmatterStructuredData `yaml:"structuredData,omitempty"`
}

// Markdown renders the document as frontmatter plus a markdown body.
func Markdown(doc *content.Document) ([]byte, error) {
	fm := frontmatter{
		Title:              doc.Title,
		Date:               doc.PublishedAt,
		Excerpt:            doc.Excerpt,
		Category:           doc.Category,
		CoverImage:         doc.FeaturedImage,
		Author:             frontmatterAuthor{Name: doc.Author.Name, Image: doc.Author.Image},
		Featured:           doc.Featured,
		Tags:               doc.Tags,
		SEOTitle:           doc.SEOTitle,
		SEODescription:     doc.SEODescription,
		FocusKeyword:       doc.FocusKeyword,
		AdditionalKeywords: doc.AdditionalKeywords,
		ReadingTime:        doc.ReadingTime,
		WordCount:          doc.WordCount,
		WorkflowStatus:     doc.WorkflowStatus,
	}
	if sd := doc.StructuredData; sd != nil {
		fm.StructuredData = &frontmatterStructuredData{
			ArticleType:          sd.ArticleType,
			LearningResourceType: sd.LearningResourceType,
			EducationalLevel:     sd.EducationalLevel,
			TimeRequired:         sd.TimeRequired,
		}
	}

	head, err := yaml.Marshal(fm)
	if err != nil {
		return nil, fmt.Errorf("marshal frontmatter: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString("---\n")
	buf.Write(head)
	buf.WriteString("---\n\n")
	buf.WriteString(autofill.Normalize(renderBody(doc.Body)))
	buf.WriteString("\n")
	return buf.Bytes(), nil
}

// WriteFile renders the document into dir as <slug>.md, creating the
// directory if needed. The slug is flattened through autofill.Slugify
// first, so an editor-supplied slug cannot name a path outside dir. The
// write goes through a temp file and rename so a crash never leaves a
// half-written post behind.
func WriteFile(doc *content.Document, dir string) (string, error) {
	slug := autofill.Slugify(doc.Slug.Current)
	if slug == "" {
		return "", ErrNoSlug
	}

	data, err := Markdown(doc)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	path := filepath.Join(dir, slug+".md")
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return "", fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("rename temp file: %w", err)
	}
	return path, nil
}

func renderBody(body content.Body) string {
	var out []string
	number := 0

	for _, blk := range body {
		switch b := blk.(type) {
		case *content.ImageBlock:
			// Images without an asset pointer have nothing to link to.
			if b.AssetRef == "" {
				continue
			}
			number = 0
			entry := fmt.Sprintf("![%s](%s)", b.Alt, b.AssetRef)
			if b.Caption != "" {
				entry += "\n*" + b.Caption + "*"
			}
			out = append(out, entry)
		case *content.TextBlock:
			text := renderSpans(b)
			if text == "" {
				continue
			}

			if b.ListItem == "number" {
				number++
			} else {
				number = 0
			}

			switch {
			case b.ListItem == "bullet":
				out = append(out, "- "+text)
			case b.ListItem == "number":
				out = append(out, fmt.Sprintf("%d. %s", number, text))
			case strings.HasPrefix(b.Style, "h") && len(b.Style) == 2:
				level := int(b.Style[1] - '0')
				if level >= 1 && level <= 6 {
					out = append(out, strings.Repeat("#", level)+" "+text)
				} else {
					out = append(out, text)
				}
			case b.Style == "blockquote":
				out = append(out, "> "+text)
			default:
				out = append(out, text)
			}
		}
	}
	return strings.Join(out, "\n\n")
}

// renderSpans rebuilds inline markdown from span marks: links from the
// block's mark definitions, bold and italic from decorator marks.
func renderSpans(tb *content.TextBlock) string {
	links := make(map[string]string, len(tb.MarkDefs))
	for _, def := range tb.MarkDefs {
		if def.Type == "link" {
			links[def.Key] = def.Href
		}
	}

	var b strings.Builder
	for _, span := range tb.Children {
		text := span.Text
		for _, mark := range span.Marks {
			switch {
			case mark == "strong":
				text = "**" + text + "**"
			case mark == "em":
				text = "*" + text + "*"
			default:
				if href, ok := links[mark]; ok {
					text = "[" + text + "](" + href + ")"
				}
			}
		}
		b.WriteString(text)
	}
	return strings.TrimSpace(b.String())
}
