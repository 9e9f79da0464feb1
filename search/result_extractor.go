package search

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// ExtractResults parses a results page and returns at most maxResults
// organic hits in the order they appear on the page. maxResults is capped
// at cfg.MaxResultsLimit.
func ExtractResults(pageHTML string, maxResults int, cfg *Config) ([]SearchResult, error) {
	cfg = cfg.withDefaults()
	maxResults = cfg.clampResults(maxResults)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(pageHTML))
	if err != nil {
		return nil, fmt.Errorf("failed to parse results page: %w", err)
	}

	results := make([]SearchResult, 0, maxResults)
	for _, container := range collectContainers(doc, maxResults, cfg) {
		result, ok := extractResult(container, cfg)
		if !ok {
			continue
		}
		results = append(results, result)
		if len(results) >= maxResults {
			break
		}
	}
	return results, nil
}

// collectContainers prefers organic containers and tops the pool up from
// the first broader marker that matches anything.
func collectContainers(doc *goquery.Document, maxResults int, cfg *Config) []*goquery.Selection {
	var containers []*goquery.Selection
	var nodes []*html.Node

	doc.Find(cfg.OrganicSelector).Each(func(_ int, s *goquery.Selection) {
		containers = append(containers, s)
		nodes = append(nodes, s.Get(0))
	})

	if len(containers) >= maxResults*cfg.OrganicMultiplier {
		return containers
	}

	var broader *goquery.Selection
	for _, selector := range cfg.FallbackSelectors {
		if found := doc.Find(selector); found.Length() > 0 {
			broader = found
			break
		}
	}
	if broader == nil {
		return containers
	}

	pool := maxResults * cfg.PoolMultiplier
	broader.EachWithBreak(func(_ int, s *goquery.Selection) bool {
		n := s.Get(0)
		if overlapsAny(n, nodes) {
			return true
		}
		containers = append(containers, s)
		nodes = append(nodes, n)
		return len(containers) < pool
	})
	return containers
}

// overlapsAny reports whether n is, contains, or is contained by one of
// the already collected container nodes.
func overlapsAny(n *html.Node, collected []*html.Node) bool {
	for _, c := range collected {
		if n == c || isAncestor(c, n) || isAncestor(n, c) {
			return true
		}
	}
	return false
}

func isAncestor(ancestor, n *html.Node) bool {
	for p := n.Parent; p != nil; p = p.Parent {
		if p == ancestor {
			return true
		}
	}
	return false
}

func extractResult(container *goquery.Selection, cfg *Config) (SearchResult, bool) {
	link := firstMatch(container, cfg.LinkSelectors)
	if link == nil {
		return SearchResult{}, false
	}
	href, ok := link.Attr("href")
	if !ok || href == "" {
		return SearchResult{}, false
	}

	resolved, ok := ResolveResultURL(href, cfg.AdMarkers)
	if !ok {
		return SearchResult{}, false
	}

	title := strings.TrimSpace(link.Text())
	if resolved == "" || title == "" {
		return SearchResult{}, false
	}

	var snippet string
	if s := firstMatch(container, cfg.SnippetSelectors); s != nil {
		snippet = strings.TrimSpace(s.Text())
	}

	return SearchResult{
		URL:     resolved,
		Title:   title,
		Snippet: snippet,
	}, true
}

func firstMatch(container *goquery.Selection, selectors []string) *goquery.Selection {
	for _, selector := range selectors {
		if found := container.Find(selector).First(); found.Length() > 0 {
			return found
		}
	}
	return nil
}
