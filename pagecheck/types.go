package pagecheck

import "time"

// Result is the complete verification of a published page
type Result struct {
	URL             string       `json:"url"`
	FetchedAt       time.Time    `json:"fetchedAt"`
	StatusCode      int          `json:"statusCode"`
	PageSize        int          `json:"pageSize"`
	LoadTimeMs      int64        `json:"loadTimeMs"`
	Title           TitleCheck   `json:"title"`
	Meta            MetaCheck    `json:"meta"`
	Headings        HeadingCheck `json:"headings"`
	Content         ContentCheck `json:"content"`
	Links           LinkCheck    `json:"links"`
	Score           int          `json:"score"`
	Recommendations []string     `json:"recommendations"`
}

type TitleCheck struct {
	Text   string `json:"text"`
	Length int    `json:"length"`
	Score  int    `json:"score"`
}

type MetaCheck struct {
	Description    string `json:"description"`
	DescriptionLen int    `json:"descriptionLength"`
	Canonical      string `json:"canonical"`
	Robots         string `json:"robots"`
	NoIndex        bool   `json:"noindex"`
	HasViewport    bool   `json:"hasViewport"`
	Score          int    `json:"score"`
}

type HeadingCheck struct {
	H1Count int      `json:"h1Count"`
	H2Count int      `json:"h2Count"`
	H3Count int      `json:"h3Count"`
	H1Text  []string `json:"h1Text"`
	Score   int      `json:"score"`
}

type ContentCheck struct {
	WordCount     int `json:"wordCount"`
	TotalImages   int `json:"totalImages"`
	ImagesWithAlt int `json:"imagesWithAlt"`
	Score         int `json:"score"`
}

type LinkCheck struct {
	Internal int `json:"internal"`
	External int `json:"external"`
	Broken   int `json:"broken"`
	Score    int `json:"score"`
}

// CacheStats reports the current size and TTL of the checker's caches
type CacheStats struct {
	PageEntries int           `json:"pageEntries"`
	LinkEntries int           `json:"linkEntries"`
	PageTTL     time.Duration `json:"pageTTL"`
	LinkTTL     time.Duration `json:"linkTTL"`
}
