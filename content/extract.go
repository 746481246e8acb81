package content

import (
	"strconv"
	"strings"
)

// PlainText flattens a block sequence into the plain text a reader would see.
// Span texts are concatenated within a block, blocks are joined by a single
// space and the result is trimmed. Nil input, image blocks, unknown blocks
// and blocks without children all contribute nothing.
func PlainText(blocks Body) string {
	if len(blocks) == 0 {
		return ""
	}

	segments := make([]string, 0, len(blocks))
	for _, blk := range blocks {
		tb, ok := blk.(*TextBlock)
		if !ok {
			continue
		}
		if text := tb.Text(); text != "" {
			segments = append(segments, text)
		}
	}
	return strings.TrimSpace(strings.Join(segments, " "))
}

// CountWords counts whitespace-separated words.
func CountWords(text string) int {
	return len(strings.Fields(text))
}

// Heading is a text block styled h1..h6.
type Heading struct {
	Level int
	Text  string
}

// Headings lists the document's headings in order.
func Headings(blocks Body) []Heading {
	var out []Heading
	for _, blk := range blocks {
		tb, ok := blk.(*TextBlock)
		if !ok {
			continue
		}
		level := headingLevel(tb.Style)
		if level == 0 {
			continue
		}
		out = append(out, Heading{Level: level, Text: tb.Text()})
	}
	return out
}

func headingLevel(style string) int {
	if len(style) != 2 || style[0] != 'h' {
		return 0
	}
	n, err := strconv.Atoi(style[1:])
	if err != nil || n < 1 || n > 6 {
		return 0
	}
	return n
}

// Images collects the inline image blocks.
func Images(blocks Body) []*ImageBlock {
	var out []*ImageBlock
	for _, blk := range blocks {
		if ib, ok := blk.(*ImageBlock); ok {
			out = append(out, ib)
		}
	}
	return out
}

// LinkHrefs collects the href of every link annotation in document order.
func LinkHrefs(blocks Body) []string {
	var out []string
	for _, blk := range blocks {
		tb, ok := blk.(*TextBlock)
		if !ok {
			continue
		}
		for _, def := range tb.MarkDefs {
			if def.Type == "link" && def.Href != "" {
				out = append(out, def.Href)
			}
		}
	}
	return out
}
