package search

// Config tunes the results-page request and the candidate selection.
// The selector lists and multipliers track DuckDuckGo's current HTML markup.
type Config struct {
	Endpoint          string   `yaml:"endpoint"`
	Locale            string   `yaml:"locale"`
	UserAgent         string   `yaml:"user_agent"`
	DefaultMaxResults int      `yaml:"default_max_results"`
	MaxResultsLimit   int      `yaml:"max_results_limit"`
	MaxBodySize       int64    `yaml:"max_body_size"`
	OrganicMultiplier int      `yaml:"organic_multiplier"`
	PoolMultiplier    int      `yaml:"pool_multiplier"`
	OrganicSelector   string   `yaml:"organic_selector"`
	FallbackSelectors []string `yaml:"fallback_selectors"`
	LinkSelectors     []string `yaml:"link_selectors"`
	SnippetSelectors  []string `yaml:"snippet_selectors"`
	AdMarkers         []string `yaml:"ad_markers"`
}

// DefaultConfig returns the configuration for html.duckduckgo.com
func DefaultConfig() *Config {
	return &Config{
		Endpoint:          "https://html.duckduckgo.com/html/",
		Locale:            "us-en",
		UserAgent:         "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/121.0.0.0 Safari/537.36",
		DefaultMaxResults: 5,
		MaxResultsLimit:   20,
		MaxBodySize:       2 << 20,
		OrganicMultiplier: 2,
		PoolMultiplier:    3,
		OrganicSelector:   "div.web-result",
		FallbackSelectors: []string{
			"div.result__body",
			"div.result",
			"article",
		},
		LinkSelectors: []string{
			"a.result__a",
			"a.result__url",
			"h2 a",
			"a",
		},
		SnippetSelectors: []string{
			".result__snippet",
			".snippet",
			".description",
			"p",
		},
		AdMarkers: []string{
			"duckduckgo.com/y.js",
			"ad_domain=",
		},
	}
}

// withDefaults fills zero fields from DefaultConfig so a partially
// specified YAML section still yields a working extractor.
func (c *Config) withDefaults() *Config {
	d := DefaultConfig()
	if c == nil {
		return d
	}
	out := *c
	if out.Endpoint == "" {
		out.Endpoint = d.Endpoint
	}
	if out.Locale == "" {
		out.Locale = d.Locale
	}
	if out.UserAgent == "" {
		out.UserAgent = d.UserAgent
	}
	if out.DefaultMaxResults <= 0 {
		out.DefaultMaxResults = d.DefaultMaxResults
	}
	if out.MaxResultsLimit <= 0 {
		out.MaxResultsLimit = d.MaxResultsLimit
	}
	if out.DefaultMaxResults > out.MaxResultsLimit {
		out.DefaultMaxResults = out.MaxResultsLimit
	}
	if out.MaxBodySize <= 0 {
		out.MaxBodySize = d.MaxBodySize
	}
	if out.OrganicMultiplier <= 0 {
		out.OrganicMultiplier = d.OrganicMultiplier
	}
	if out.PoolMultiplier <= 0 {
		out.PoolMultiplier = d.PoolMultiplier
	}
	if out.OrganicSelector == "" {
		out.OrganicSelector = d.OrganicSelector
	}
	if len(out.FallbackSelectors) == 0 {
		out.FallbackSelectors = d.FallbackSelectors
	}
	if len(out.LinkSelectors) == 0 {
		out.LinkSelectors = d.LinkSelectors
	}
	if len(out.SnippetSelectors) == 0 {
		out.SnippetSelectors = d.SnippetSelectors
	}
	if len(out.AdMarkers) == 0 {
		out.AdMarkers = d.AdMarkers
	}
	return &out
}

// clampResults maps a requested result count into [1, MaxResultsLimit],
// using DefaultMaxResults for non-positive requests.
func (c *Config) clampResults(requested int) int {
	switch {
	case requested <= 0:
		return c.DefaultMaxResults
	case requested > c.MaxResultsLimit:
		return c.MaxResultsLimit
	}
	return requested
}
