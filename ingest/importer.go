package ingest

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	readability "github.com/go-shiori/go-readability"

	"github.com/AmanSuryavanshi-1/Aviators-Training-Centre-sub000/content"
)

const maxFetchBytes = 10 << 20

// Importer fetches a published page and rebuilds it as a block document,
// ready for autofill and auditing.
type Importer struct {
	client *http.Client
}

// Option configures an Importer.
type Option func(*Importer)

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) Option {
	return func(im *Importer) {
		im.client.Timeout = d
	}
}

// WithHTTPClient replaces the HTTP client entirely.
func WithHTTPClient(c *http.Client) Option {
	return func(im *Importer) {
		im.client = c
	}
}

// NewImporter creates a page importer.
func NewImporter(opts ...Option) *Importer {
	im := &Importer{
		client: &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(im)
	}
	return im
}

// FromURL fetches the page and extracts its readable article into a
// document. Readability strips navigation and boilerplate; when it cannot
// find an article body the whole page is converted instead.
func (im *Importer) FromURL(ctx context.Context, rawURL string) (*content.Document, error) {
	parsedURL, err := url.Parse(rawURL)
	if err != nil || parsedURL.Scheme == "" || parsedURL.Host == "" {
		return nil, fmt.Errorf("invalid URL: %s", rawURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "ATC-SEO/1.0")

	resp, err := im.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	page, err := io.ReadAll(io.LimitReader(resp.Body, maxFetchBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	article, err := readability.FromReader(bytes.NewReader(page), parsedURL)
	if err != nil {
		return nil, fmt.Errorf("extract article: %w", err)
	}

	body, err := BlocksFromHTML(strings.NewReader(article.Content))
	if err != nil {
		return nil, err
	}
	if len(body) == 0 {
		if body, err = BlocksFromHTML(bytes.NewReader(page)); err != nil {
			return nil, err
		}
	}

	doc := &content.Document{
		Title:         strings.TrimSpace(article.Title),
		Excerpt:       strings.TrimSpace(article.Excerpt),
		FeaturedImage: article.Image,
		Body:          body,
	}
	if article.Byline != "" {
		doc.Author = content.Author{Name: strings.TrimSpace(article.Byline)}
	}
	if article.PublishedTime != nil {
		doc.PublishedAt = article.PublishedTime.Format(time.RFC3339)
	}
	return doc, nil
}
