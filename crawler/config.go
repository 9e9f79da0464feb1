package crawler

import (
	"time"
)

const (
	ExtractorHeuristic   = "heuristic"
	ExtractorReadability = "readability"
	ExtractorTrafilatura = "trafilatura"
)

type CrawlerConfig struct {
	RequestTimeout      time.Duration `yaml:"request_timeout"`
	UserAgent           string        `yaml:"user_agent"`
	ExtractorMode       string        `yaml:"extractor_mode"`
	StripTags           []string      `yaml:"strip_tags"`
	ContentSelectors    []string      `yaml:"content_selectors"`
	TextElements        string        `yaml:"text_elements"`
	ContentElementLimit int           `yaml:"content_element_limit"`
	ParagraphLimit      int           `yaml:"paragraph_limit"`
	MinTextLength       int           `yaml:"min_text_length"`
	MaxChars            int           `yaml:"max_chars"`
}

// DefaultConfig returns a default crawler configuration
func DefaultConfig() *CrawlerConfig {
	return &CrawlerConfig{
		RequestTimeout: 10 * time.Second,
		UserAgent:      "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/121.0.0.0 Safari/537.36",
		ExtractorMode:  ExtractorHeuristic,
		StripTags:      []string{"script", "style", "nav", "header", "footer", "aside"},
		ContentSelectors: []string{
			"main",
			"article",
			".content",
			".main-content",
			"#content",
			"#main",
			".post-content",
			".entry-content",
			".article-body",
			".page-content",
		},
		TextElements:        "p, h1, h2, h3, h4, h5, h6, li",
		ContentElementLimit: 25,
		ParagraphLimit:      20,
		MinTextLength:       20,
		MaxChars:            5000,
	}
}

func (c *CrawlerConfig) withDefaults() *CrawlerConfig {
	d := DefaultConfig()
	if c == nil {
		return d
	}
	out := *c
	if out.RequestTimeout <= 0 {
		out.RequestTimeout = d.RequestTimeout
	}
	if out.UserAgent == "" {
		out.UserAgent = d.UserAgent
	}
	if out.ExtractorMode == "" {
		out.ExtractorMode = d.ExtractorMode
	}
	if len(out.StripTags) == 0 {
		out.StripTags = d.StripTags
	}
	if len(out.ContentSelectors) == 0 {
		out.ContentSelectors = d.ContentSelectors
	}
	if out.TextElements == "" {
		out.TextElements = d.TextElements
	}
	if out.ContentElementLimit <= 0 {
		out.ContentElementLimit = d.ContentElementLimit
	}
	if out.ParagraphLimit <= 0 {
		out.ParagraphLimit = d.ParagraphLimit
	}
	if out.MinTextLength < 0 {
		out.MinTextLength = d.MinTextLength
	}
	if out.MaxChars <= 0 {
		out.MaxChars = d.MaxChars
	}
	return &out
}
