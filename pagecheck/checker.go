// Package pagecheck verifies published pages against the same SEO
// thresholds the draft rules use. It fetches the rendered HTML and
// inspects what actually ships: head tags, heading outline, alt
// coverage, and link health.
package pagecheck

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"github.com/AmanSuryavanshi-1/Aviators-Training-Centre-sub000/analyzer"
	"github.com/AmanSuryavanshi-1/Aviators-Training-Centre-sub000/stats"
)

const (
	maxFetchBytes = 10 << 20
	userAgent     = "ATC-SEO/1.0"

	checkTimeout     = 30 * time.Second
	linkBatchTimeout = 15 * time.Second
	linkProbeTimeout = 5 * time.Second
	maxProbes        = 10
)

var bufferPool = sync.Pool{
	New: func() interface{} {
		return new(bytes.Buffer)
	},
}

type pageEntry struct {
	result *Result
	at     time.Time
}

type linkEntry struct {
	ok bool
	at time.Time
}

// Checker fetches and verifies live pages. Results and link probes are
// cached with independent TTLs; a background goroutine expires entries
// and enforces the size caps.
type Checker struct {
	cfg    analyzer.Config
	client *http.Client
	stats  *stats.Storage

	pageMu   sync.RWMutex
	pages    map[string]pageEntry
	pageTTL  time.Duration
	maxPages int

	linkMu   sync.RWMutex
	links    map[string]linkEntry
	linkTTL  time.Duration
	maxLinks int

	done chan struct{}
}

// New creates a Checker using cfg for thresholds. Cache and probe
// counters are recorded on st.
func New(cfg analyzer.Config, st *stats.Storage) *Checker {
	transport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}

	c := &Checker{
		cfg: cfg,
		client: &http.Client{
			Timeout:   15 * time.Second,
			Transport: transport,
		},
		stats:    st,
		pages:    make(map[string]pageEntry),
		pageTTL:  30 * time.Minute,
		maxPages: 1000,
		links:    make(map[string]linkEntry),
		linkTTL:  10 * time.Minute,
		maxLinks: 10000,
		done:     make(chan struct{}),
	}

	go c.periodicCleanup()

	return c
}

// Close stops the cache cleanup goroutine
func (c *Checker) Close() {
	close(c.done)
}

// SetPageTTL sets how long page results stay cached
func (c *Checker) SetPageTTL(ttl time.Duration) {
	c.pageMu.Lock()
	defer c.pageMu.Unlock()
	c.pageTTL = ttl
}

// SetLinkTTL sets how long link probe outcomes stay cached
func (c *Checker) SetLinkTTL(ttl time.Duration) {
	c.linkMu.Lock()
	defer c.linkMu.Unlock()
	c.linkTTL = ttl
}

// ClearCache drops all cached page results
func (c *Checker) ClearCache() {
	c.pageMu.Lock()
	defer c.pageMu.Unlock()
	c.pages = make(map[string]pageEntry)
}

// IsCached reports whether a fresh result for pageURL is cached
func (c *Checker) IsCached(pageURL string) bool {
	key := cacheKey(pageURL)

	c.pageMu.RLock()
	defer c.pageMu.RUnlock()

	entry, found := c.pages[key]
	return found && time.Since(entry.at) < c.pageTTL
}

// CacheStats returns the current cache sizes and TTLs
func (c *Checker) CacheStats() CacheStats {
	c.pageMu.RLock()
	pageEntries := len(c.pages)
	pageTTL := c.pageTTL
	c.pageMu.RUnlock()

	c.linkMu.RLock()
	linkEntries := len(c.links)
	linkTTL := c.linkTTL
	c.linkMu.RUnlock()

	return CacheStats{
		PageEntries: pageEntries,
		LinkEntries: linkEntries,
		PageTTL:     pageTTL,
		LinkTTL:     linkTTL,
	}
}

func cacheKey(pageURL string) string {
	hash := md5.Sum([]byte(pageURL))
	return hex.EncodeToString(hash[:])
}

// Check verifies the page at pageURL, serving from cache when a fresh
// result exists.
func (c *Checker) Check(ctx context.Context, pageURL string) (*Result, error) {
	key := cacheKey(pageURL)

	c.pageMu.RLock()
	if entry, found := c.pages[key]; found && time.Since(entry.at) < c.pageTTL {
		c.pageMu.RUnlock()
		c.stats.AddCacheEvents(1, 0, 0, 0)
		return entry.result, nil
	}
	c.pageMu.RUnlock()
	c.stats.AddCacheEvents(0, 1, 0, 0)

	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	result, err := c.check(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	c.pageMu.Lock()
	c.pages[key] = pageEntry{result: result, at: time.Now()}
	c.pageMu.Unlock()

	c.stats.RecordPageCheck()

	return result, nil
}

func (c *Checker) check(ctx context.Context, pageURL string) (*Result, error) {
	base, err := url.Parse(pageURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid page url %q", pageURL)
	}

	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("page returned status %d", resp.StatusCode)
	}

	buf := bufferPool.Get().(*bytes.Buffer)
	buf.Reset()
	defer bufferPool.Put(buf)

	if _, err := io.Copy(buf, io.LimitReader(resp.Body, maxFetchBytes)); err != nil {
		return nil, fmt.Errorf("failed to read page: %w", err)
	}

	loadTime := time.Since(start)

	pageSize := buf.Len()
	if cl := resp.Header.Get("Content-Length"); cl != "" {
		if size, err := strconv.Atoi(cl); err == nil && size > 0 {
			pageSize = size
		}
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		return nil, fmt.Errorf("failed to parse page: %w", err)
	}

	// Script and style text would pollute the word count
	doc.Find("script, style, noscript").Remove()

	result := &Result{
		URL:        pageURL,
		FetchedAt:  start.UTC(),
		StatusCode: resp.StatusCode,
		PageSize:   pageSize,
		LoadTimeMs: loadTime.Milliseconds(),
		Title:      c.checkTitle(doc),
		Meta:       c.checkMeta(doc),
		Headings:   c.checkHeadings(doc),
		Content:    c.checkContent(doc),
	}
	result.Links = c.checkLinks(ctx, doc, base)
	result.Score = overallScore(result)
	result.Recommendations = c.recommendations(result)

	return result, nil
}

func (c *Checker) checkTitle(doc *goquery.Document) TitleCheck {
	title := strings.TrimSpace(doc.Find("title").First().Text())
	length := utf8.RuneCountInString(title)

	score := 0
	switch {
	case length == 0:
	case length >= c.cfg.TitleMin && length <= c.cfg.TitleMax:
		score = 100
	case length < c.cfg.TitleMin:
		score = 50
	default:
		score = 70
	}

	return TitleCheck{Text: title, Length: length, Score: score}
}

func (c *Checker) checkMeta(doc *goquery.Document) MetaCheck {
	meta := MetaCheck{}

	meta.Description, _ = doc.Find("meta[name='description']").Attr("content")
	meta.Description = strings.TrimSpace(meta.Description)
	meta.DescriptionLen = utf8.RuneCountInString(meta.Description)

	meta.Canonical, _ = doc.Find("link[rel='canonical']").Attr("href")
	meta.Robots, _ = doc.Find("meta[name='robots']").Attr("content")
	meta.NoIndex = strings.Contains(strings.ToLower(meta.Robots), "noindex")

	if viewport, ok := doc.Find("meta[name='viewport']").Attr("content"); ok {
		meta.HasViewport = strings.Contains(strings.ToLower(viewport), "width=device-width")
	}

	score := 0
	if meta.DescriptionLen > 0 {
		if meta.DescriptionLen >= c.cfg.DescriptionMin && meta.DescriptionLen <= c.cfg.DescriptionMax {
			score += 40
		} else {
			score += 20
		}
	}
	if meta.Canonical != "" {
		score += 20
	}
	if meta.HasViewport {
		score += 20
	}
	if !meta.NoIndex {
		score += 20
	}

	meta.Score = score
	return meta
}

func (c *Checker) checkHeadings(doc *goquery.Document) HeadingCheck {
	h := HeadingCheck{
		H1Count: doc.Find("h1").Length(),
		H2Count: doc.Find("h2").Length(),
		H3Count: doc.Find("h3").Length(),
	}

	doc.Find("h1").Each(func(_ int, s *goquery.Selection) {
		h.H1Text = append(h.H1Text, strings.TrimSpace(s.Text()))
	})

	score := 0
	switch {
	case h.H1Count == 1:
		score += 40
	case h.H1Count > 1:
		score += 20
	}
	if h.H2Count > 0 {
		score += 30
	}
	if h.H3Count > 0 {
		score += 30
	}

	h.Score = score
	return h
}

func (c *Checker) checkContent(doc *goquery.Document) ContentCheck {
	content := ContentCheck{}

	content.WordCount = len(strings.Fields(doc.Find("body").Text()))

	images := doc.Find("img")
	content.TotalImages = images.Length()
	images.Each(func(_ int, s *goquery.Selection) {
		if alt, exists := s.Attr("alt"); exists && strings.TrimSpace(alt) != "" {
			content.ImagesWithAlt++
		}
	})

	score := 0
	if content.WordCount >= c.cfg.WordCountMin {
		score += 50
	}
	if content.TotalImages == 0 {
		score += 50
	} else {
		score += 50 * content.ImagesWithAlt / content.TotalImages
	}

	content.Score = score
	return content
}

// checkLinks classifies every anchor on the page and probes each unique
// target with a bounded number of concurrent HEAD requests.
func (c *Checker) checkLinks(ctx context.Context, doc *goquery.Document, base *url.URL) LinkCheck {
	links := LinkCheck{}
	seen := make(map[string]bool)
	var targets []string

	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href := strings.TrimSpace(s.AttrOr("href", ""))
		if href == "" || strings.HasPrefix(href, "#") {
			return
		}

		u, err := base.Parse(href)
		if err != nil {
			return
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return
		}

		abs := u.String()
		if seen[abs] {
			return
		}
		seen[abs] = true

		if strings.EqualFold(u.Host, base.Host) {
			links.Internal++
		} else {
			links.External++
		}
		targets = append(targets, abs)
	})

	probeCtx, cancel := context.WithTimeout(ctx, linkBatchTimeout)
	defer cancel()

	var (
		mu     sync.Mutex
		broken int
		hits   int
		misses int
	)

	var wg sync.WaitGroup
	semaphore := make(chan struct{}, maxProbes)
	for _, target := range targets {
		wg.Add(1)
		go func(target string) {
			defer wg.Done()

			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			ok, cached := c.linkAccessible(probeCtx, target)
			mu.Lock()
			if !ok {
				broken++
			}
			if cached {
				hits++
			} else {
				misses++
			}
			mu.Unlock()
		}(target)
	}

	finished := make(chan struct{})
	go func() {
		wg.Wait()
		close(finished)
	}()

	select {
	case <-finished:
	case <-ctx.Done():
		// Report what was counted before the deadline
	}

	mu.Lock()
	links.Broken = broken
	c.stats.AddCacheEvents(0, 0, hits, misses)
	c.stats.RecordLinkChecks(misses)
	mu.Unlock()

	score := 100
	switch {
	case links.Internal == 0:
		score -= 40
	case links.Internal < c.cfg.MinInternalLinks:
		score -= 20
	}
	if links.External == 0 {
		score -= 20
	}
	if links.Broken > 0 {
		penalty := 10 * links.Broken
		if penalty > 40 {
			penalty = 40
		}
		score -= penalty
	}
	if score < 0 {
		score = 0
	}

	links.Score = score
	return links
}

// linkAccessible reports whether target answers a HEAD request with a
// non-error status. The second return value is true when the outcome
// came from cache.
func (c *Checker) linkAccessible(ctx context.Context, target string) (bool, bool) {
	key := cacheKey(target)

	c.linkMu.RLock()
	if entry, found := c.links[key]; found && time.Since(entry.at) < c.linkTTL {
		c.linkMu.RUnlock()
		return entry.ok, true
	}
	c.linkMu.RUnlock()

	ok := c.probe(ctx, target)

	c.linkMu.Lock()
	c.links[key] = linkEntry{ok: ok, at: time.Now()}
	c.linkMu.Unlock()

	return ok, false
}

func (c *Checker) probe(ctx context.Context, target string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, target, nil)
	if err != nil {
		return false
	}
	req.Header.Set("User-Agent", userAgent)

	client := &http.Client{
		Timeout:   linkProbeTimeout,
		Transport: c.client.Transport,
	}

	resp, err := client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode >= 200 && resp.StatusCode < 400
}

func overallScore(r *Result) int {
	weighted := 0.25*float64(r.Title.Score) +
		0.25*float64(r.Meta.Score) +
		0.15*float64(r.Headings.Score) +
		0.20*float64(r.Content.Score) +
		0.15*float64(r.Links.Score)
	return int(math.Round(weighted))
}

func (c *Checker) recommendations(r *Result) []string {
	var recs []string

	switch {
	case r.Title.Length == 0:
		recs = append(recs, "Add a title tag")
	case r.Title.Length < c.cfg.TitleMin:
		recs = append(recs, fmt.Sprintf("Lengthen the title tag (%d characters, aim for %d-%d)",
			r.Title.Length, c.cfg.TitleMin, c.cfg.TitleMax))
	case r.Title.Length > c.cfg.TitleMax:
		recs = append(recs, fmt.Sprintf("Shorten the title tag (%d characters, aim for %d-%d)",
			r.Title.Length, c.cfg.TitleMin, c.cfg.TitleMax))
	}

	switch {
	case r.Meta.DescriptionLen == 0:
		recs = append(recs, "Add a meta description")
	case r.Meta.DescriptionLen < c.cfg.DescriptionMin || r.Meta.DescriptionLen > c.cfg.DescriptionMax:
		recs = append(recs, fmt.Sprintf("Rewrite the meta description to %d-%d characters (currently %d)",
			c.cfg.DescriptionMin, c.cfg.DescriptionMax, r.Meta.DescriptionLen))
	}
	if r.Meta.Canonical == "" {
		recs = append(recs, "Add a canonical link tag")
	}
	if r.Meta.NoIndex {
		recs = append(recs, "Remove the noindex directive or the page will stay out of search results")
	}
	if !r.Meta.HasViewport {
		recs = append(recs, "Add a viewport meta tag for mobile rendering")
	}

	switch {
	case r.Headings.H1Count == 0:
		recs = append(recs, "Add an H1 heading")
	case r.Headings.H1Count > 1:
		recs = append(recs, fmt.Sprintf("Use a single H1 heading (found %d)", r.Headings.H1Count))
	}
	if r.Headings.H2Count == 0 {
		recs = append(recs, "Add H2 subheadings to structure the page")
	}

	if r.Content.WordCount < c.cfg.WordCountMin {
		recs = append(recs, fmt.Sprintf("Page body is thin (%d words, aim for at least %d)",
			r.Content.WordCount, c.cfg.WordCountMin))
	}
	if missing := r.Content.TotalImages - r.Content.ImagesWithAlt; missing > 0 {
		recs = append(recs, fmt.Sprintf("Add alt text to %d of %d images",
			missing, r.Content.TotalImages))
	}

	switch {
	case r.Links.Internal == 0:
		recs = append(recs, "Add internal links to related pages")
	case r.Links.Internal < c.cfg.MinInternalLinks:
		recs = append(recs, fmt.Sprintf("Add more internal links (found %d, aim for at least %d)",
			r.Links.Internal, c.cfg.MinInternalLinks))
	}
	if r.Links.External == 0 {
		recs = append(recs, "Link to at least one authoritative external source")
	}
	if r.Links.Broken > 0 {
		recs = append(recs, fmt.Sprintf("Fix %d broken link(s)", r.Links.Broken))
	}

	return recs
}

// periodicCleanup expires cache entries and enforces the size caps
func (c *Checker) periodicCleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.cleanup()
		case <-c.done:
			return
		}
	}
}

func (c *Checker) cleanup() {
	now := time.Now()

	c.pageMu.Lock()
	stamps := make([]stamped, 0, len(c.pages))
	for key, entry := range c.pages {
		if now.Sub(entry.at) > c.pageTTL {
			delete(c.pages, key)
			continue
		}
		stamps = append(stamps, stamped{key: key, at: entry.at})
	}
	for _, key := range oldestKeys(stamps, c.maxPages) {
		delete(c.pages, key)
	}
	c.pageMu.Unlock()

	c.linkMu.Lock()
	stamps = make([]stamped, 0, len(c.links))
	for key, entry := range c.links {
		if now.Sub(entry.at) > c.linkTTL {
			delete(c.links, key)
			continue
		}
		stamps = append(stamps, stamped{key: key, at: entry.at})
	}
	for _, key := range oldestKeys(stamps, c.maxLinks) {
		delete(c.links, key)
	}
	c.linkMu.Unlock()
}

type stamped struct {
	key string
	at  time.Time
}

// oldestKeys returns the keys to evict so at most max entries remain
func oldestKeys(stamps []stamped, max int) []string {
	if len(stamps) <= max {
		return nil
	}
	sort.Slice(stamps, func(i, j int) bool {
		return stamps[i].at.Before(stamps[j].at)
	})
	keys := make([]string, 0, len(stamps)-max)
	for _, s := range stamps[:len(stamps)-max] {
		keys = append(keys, s.key)
	}
	return keys
}
