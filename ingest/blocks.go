// Package ingest converts outside content into block documents: fetched
// pages through readability extraction, raw HTML through a block builder.
package ingest

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/AmanSuryavanshi-1/Aviators-Training-Centre-sub000/content"
)

var spaceRun = regexp.MustCompile(`\s+`)

// BlocksFromHTML converts an HTML fragment into a block sequence. Headings,
// paragraphs, lists, quotes and images map to blocks; inline links become
// mark definitions so the link checks keep working on imported content.
// Unhandled block elements (nav, script, tables) are dropped; unhandled
// inline elements contribute their text.
func BlocksFromHTML(r io.Reader) (content.Body, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	var body content.Body
	walk(doc.Find("body").Contents(), &body)
	return body, nil
}

func walk(sel *goquery.Selection, body *content.Body) {
	sel.Each(func(_ int, s *goquery.Selection) {
		switch goquery.NodeName(s) {
		case "h1", "h2", "h3", "h4", "h5", "h6":
			appendTextBlock(body, goquery.NodeName(s), "", s)
		case "p":
			appendTextBlock(body, "normal", "", s)
		case "blockquote":
			appendTextBlock(body, "blockquote", "", s)
		case "ul":
			s.ChildrenFiltered("li").Each(func(_ int, li *goquery.Selection) {
				appendTextBlock(body, "normal", "bullet", li)
			})
		case "ol":
			s.ChildrenFiltered("li").Each(func(_ int, li *goquery.Selection) {
				appendTextBlock(body, "normal", "number", li)
			})
		case "img":
			appendImage(body, s)
		case "figure":
			img := s.Find("img").First()
			if img.Length() == 0 {
				return
			}
			block := &content.ImageBlock{
				Alt:      strings.TrimSpace(img.AttrOr("alt", "")),
				Caption:  squeeze(s.Find("figcaption").Text()),
				AssetRef: strings.TrimSpace(img.AttrOr("src", "")),
			}
			*body = append(*body, block)
		case "div", "article", "section", "main", "header", "footer", "aside", "span":
			walk(s.Contents(), body)
		case "#text":
			// Stray text outside paragraphs becomes its own block.
			if text := squeeze(s.Text()); text != "" {
				*body = append(*body, &content.TextBlock{
					Style:    "normal",
					Children: []content.Span{{Text: text}},
				})
			}
		}
	})
}

func appendImage(body *content.Body, s *goquery.Selection) {
	*body = append(*body, &content.ImageBlock{
		Alt:      strings.TrimSpace(s.AttrOr("alt", "")),
		Caption:  strings.TrimSpace(s.AttrOr("title", "")),
		AssetRef: strings.TrimSpace(s.AttrOr("src", "")),
	})
}

// appendTextBlock flattens the selection's inline content into spans. Links
// become marks referencing a per-block mark definition; bold and italic
// become decorator marks.
func appendTextBlock(body *content.Body, style, listItem string, s *goquery.Selection) {
	block := &content.TextBlock{Style: style, ListItem: listItem}

	s.Contents().Each(func(_ int, c *goquery.Selection) {
		switch goquery.NodeName(c) {
		case "#text":
			addSpan(block, c.Text(), nil)
		case "a":
			href := strings.TrimSpace(c.AttrOr("href", ""))
			if href == "" {
				addSpan(block, c.Text(), nil)
				return
			}
			key := fmt.Sprintf("link%d", len(block.MarkDefs))
			block.MarkDefs = append(block.MarkDefs, content.MarkDef{
				Key:  key,
				Type: "link",
				Href: href,
			})
			addSpan(block, c.Text(), []string{key})
		case "strong", "b":
			addSpan(block, c.Text(), []string{"strong"})
		case "em", "i":
			addSpan(block, c.Text(), []string{"em"})
		case "br":
			addSpan(block, " ", nil)
		default:
			addSpan(block, c.Text(), nil)
		}
	})

	trimBlock(block)
	if len(block.Children) > 0 {
		*body = append(*body, block)
	}
}

func addSpan(block *content.TextBlock, text string, marks []string) {
	collapsed := spaceRun.ReplaceAllString(text, " ")
	if collapsed == "" {
		return
	}
	block.Children = append(block.Children, content.Span{Text: collapsed, Marks: marks})
}

// trimBlock strips the leading and trailing whitespace the HTML source
// carried, then drops spans that emptied out.
func trimBlock(block *content.TextBlock) {
	if len(block.Children) == 0 {
		return
	}
	block.Children[0].Text = strings.TrimLeft(block.Children[0].Text, " ")
	last := len(block.Children) - 1
	block.Children[last].Text = strings.TrimRight(block.Children[last].Text, " ")

	kept := block.Children[:0]
	for _, span := range block.Children {
		if span.Text != "" {
			kept = append(kept, span)
		}
	}
	block.Children = kept
}

func squeeze(s string) string {
	return strings.TrimSpace(spaceRun.ReplaceAllString(s, " "))
}
