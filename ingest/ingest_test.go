package ingest

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/AmanSuryavanshi-1/Aviators-Training-Centre-sub000/content"
)

func TestBlocksFromHTML(t *testing.T) {
	html := `
	<h1>Title</h1>
	<p>Hello <a href="/courses">courses</a> and <strong>bold</strong> text.</p>
	<ul><li>One</li><li>Two</li></ul>
	<img src="x.jpg" alt="runway">
	<blockquote>Quoted</blockquote>`

	body, err := BlocksFromHTML(strings.NewReader(html))
	if err != nil {
		t.Fatalf("BlocksFromHTML: %v", err)
	}
	if len(body) != 6 {
		t.Fatalf("got %d blocks, want 6: %#v", len(body), body)
	}

	h1, ok := body[0].(*content.TextBlock)
	if !ok || h1.Style != "h1" || h1.Text() != "Title" {
		t.Errorf("block 0 = %#v", body[0])
	}

	p, ok := body[1].(*content.TextBlock)
	if !ok || p.Style != "normal" {
		t.Fatalf("block 1 = %#v", body[1])
	}
	if got := p.Text(); got != "Hello courses and bold text." {
		t.Errorf("paragraph text = %q", got)
	}
	if len(p.MarkDefs) != 1 || p.MarkDefs[0].Href != "/courses" || p.MarkDefs[0].Type != "link" {
		t.Errorf("markDefs = %+v", p.MarkDefs)
	}
	var linked, bold bool
	for _, span := range p.Children {
		for _, m := range span.Marks {
			if m == p.MarkDefs[0].Key && span.Text == "courses" {
				linked = true
			}
			if m == "strong" && span.Text == "bold" {
				bold = true
			}
		}
	}
	if !linked || !bold {
		t.Errorf("inline marks lost: %+v", p.Children)
	}

	for i, want := range []string{"One", "Two"} {
		li, ok := body[2+i].(*content.TextBlock)
		if !ok || li.ListItem != "bullet" || li.Text() != want {
			t.Errorf("block %d = %#v", 2+i, body[2+i])
		}
	}

	img, ok := body[4].(*content.ImageBlock)
	if !ok || img.Alt != "runway" || img.AssetRef != "x.jpg" {
		t.Errorf("block 4 = %#v", body[4])
	}

	quote, ok := body[5].(*content.TextBlock)
	if !ok || quote.Style != "blockquote" || quote.Text() != "Quoted" {
		t.Errorf("block 5 = %#v", body[5])
	}
}

func TestBlocksFromHTMLUnwrapsContainers(t *testing.T) {
	html := `<div><article><section><p>Inner text</p></section></article></div>`
	body, err := BlocksFromHTML(strings.NewReader(html))
	if err != nil {
		t.Fatalf("BlocksFromHTML: %v", err)
	}
	if len(body) != 1 {
		t.Fatalf("got %d blocks, want 1", len(body))
	}
	if got := content.PlainText(body); got != "Inner text" {
		t.Errorf("text = %q", got)
	}
}

func TestBlocksFromHTMLSkipsEmpty(t *testing.T) {
	body, err := BlocksFromHTML(strings.NewReader(`<p>   </p><p></p><h2>Kept</h2>`))
	if err != nil {
		t.Fatalf("BlocksFromHTML: %v", err)
	}
	if len(body) != 1 {
		t.Fatalf("got %d blocks, want 1: %#v", len(body), body)
	}
}

func TestBlocksFromHTMLFigure(t *testing.T) {
	html := `<figure><img src="c.jpg" alt="cockpit"><figcaption>The cockpit</figcaption></figure>`
	body, err := BlocksFromHTML(strings.NewReader(html))
	if err != nil {
		t.Fatalf("BlocksFromHTML: %v", err)
	}
	if len(body) != 1 {
		t.Fatalf("got %d blocks, want 1", len(body))
	}
	img, ok := body[0].(*content.ImageBlock)
	if !ok || img.Alt != "cockpit" || img.Caption != "The cockpit" || img.AssetRef != "c.jpg" {
		t.Errorf("got %#v", body[0])
	}
}

func articlePage() string {
	para := strings.Repeat("Ground school lessons build the base for every checkride and exam. ", 12)
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><title>DGCA Exam Guide</title></head>
<body>
<article>
<h1>DGCA Exam Guide</h1>
<p>%s</p>
<p>%s</p>
<p>%s</p>
</article>
</body>
</html>`, para, para, para)
}

func TestImporterFromURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, articlePage())
	}))
	defer srv.Close()

	im := NewImporter(WithTimeout(5 * time.Second))
	doc, err := im.FromURL(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("FromURL: %v", err)
	}

	if doc.Title != "DGCA Exam Guide" {
		t.Errorf("title = %q", doc.Title)
	}
	if len(doc.Body) == 0 {
		t.Fatal("no blocks extracted")
	}
	if text := content.PlainText(doc.Body); !strings.Contains(text, "Ground school lessons") {
		t.Errorf("body text lost content: %q", text)
	}
}

func TestImporterFromURLErrors(t *testing.T) {
	t.Run("bad status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.NotFound(w, r)
		}))
		defer srv.Close()

		if _, err := NewImporter().FromURL(context.Background(), srv.URL); err == nil {
			t.Error("want error for 404")
		}
	})

	t.Run("invalid URL", func(t *testing.T) {
		if _, err := NewImporter().FromURL(context.Background(), "not-a-url"); err == nil {
			t.Error("want error for invalid URL")
		}
	})
}
