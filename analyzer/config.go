package analyzer

// Config holds the rule thresholds. The zero value is not usable; start from
// DefaultConfig and override selectively, e.g. from a rules file.
type Config struct {
	// Character windows for the title tag and meta description.
	TitleMin       int `yaml:"title_min" json:"titleMin"`
	TitleMax       int `yaml:"title_max" json:"titleMax"`
	DescriptionMin int `yaml:"description_min" json:"descriptionMin"`
	DescriptionMax int `yaml:"description_max" json:"descriptionMax"`

	// Focus keyword density window, in percent of total words.
	KeywordDensityMin float64 `yaml:"keyword_density_min" json:"keywordDensityMin"`
	KeywordDensityMax float64 `yaml:"keyword_density_max" json:"keywordDensityMax"`

	// Content length window and the minimum Flesch reading ease score.
	WordCountMin int     `yaml:"word_count_min" json:"wordCountMin"`
	WordCountMax int     `yaml:"word_count_max" json:"wordCountMax"`
	FleschTarget float64 `yaml:"flesch_target" json:"fleschTarget"`

	// Internal linking. Links are internal when relative or when their host
	// matches SiteURL.
	MinInternalLinks int    `yaml:"min_internal_links" json:"minInternalLinks"`
	SiteURL          string `yaml:"site_url" json:"siteUrl"`
}

// DefaultConfig returns the thresholds the site publishes against.
func DefaultConfig() Config {
	return Config{
		TitleMin:          30,
		TitleMax:          60,
		DescriptionMin:    120,
		DescriptionMax:    160,
		KeywordDensityMin: 0.5,
		KeywordDensityMax: 3.0,
		WordCountMin:      300,
		WordCountMax:      3000,
		FleschTarget:      60,
		MinInternalLinks:  2,
		SiteURL:           "https://www.aviatorstrainingcentre.in",
	}
}
