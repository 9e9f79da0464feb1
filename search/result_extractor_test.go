package search

import (
	"fmt"
	"strings"
	"testing"
)

func organicResult(i int) string {
	return fmt.Sprintf(`
<div class="result results_links results_links_deep web-result">
  <div class="links_main links_deep result__body">
    <h2 class="result__title">
      <a rel="nofollow" class="result__a" href="//duckduckgo.com/l/?uddg=https%%3A%%2F%%2Fexample.com%%2Fpage%d&amp;rut=abc%d">Organic Title %d</a>
    </h2>
    <a class="result__snippet" href="//duckduckgo.com/l/?uddg=https%%3A%%2F%%2Fexample.com%%2Fpage%d">  Snippet number %d  </a>
  </div>
</div>`, i, i, i, i, i)
}

func adResults() string {
	return `
<div class="result results_links results_links_deep result--ad">
  <div class="links_main links_deep result__body">
    <h2 class="result__title">
      <a rel="nofollow" class="result__a" href="https://duckduckgo.com/y.js?ad_domain=shop.example&amp;ad_provider=bing&amp;u3=https%3A%2F%2Fshop.example">Buy Now</a>
    </h2>
    <a class="result__snippet" href="https://duckduckgo.com/y.js?ad_domain=shop.example">Sponsored</a>
  </div>
</div>
<div class="result results_links results_links_deep result--ad">
  <div class="links_main links_deep result__body">
    <h2 class="result__title">
      <a rel="nofollow" class="result__a" href="//duckduckgo.com/l/?uddg=https%3A%2F%2Fduckduckgo.com%2Fy.js%3Fad_domain%3Dcourses.example">Learn Spanish Fast</a>
    </h2>
  </div>
</div>`
}

func resultsPage(organic int, withAds bool) string {
	var b strings.Builder
	b.WriteString(`<html><head><title>python at DuckDuckGo</title></head><body><div id="links" class="results">`)
	if withAds {
		b.WriteString(adResults())
	}
	for i := 1; i <= organic; i++ {
		b.WriteString(organicResult(i))
	}
	b.WriteString(`</div></body></html>`)
	return b.String()
}

func TestExtractResults_FiltersAds(t *testing.T) {
	results, err := ExtractResults(resultsPage(5, true), 5, DefaultConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 5 {
		t.Fatalf("expected 5 results, got %d: %+v", len(results), results)
	}
	for i, r := range results {
		want := fmt.Sprintf("https://example.com/page%d", i+1)
		if r.URL != want {
			t.Errorf("result %d: expected url %q, got %q", i, want, r.URL)
		}
		if strings.Contains(r.URL, "y.js") || strings.Contains(r.URL, "ad_domain=") {
			t.Errorf("ad leaked into results: %q", r.URL)
		}
		if r.Title != fmt.Sprintf("Organic Title %d", i+1) {
			t.Errorf("result %d: unexpected title %q", i, r.Title)
		}
		if r.Snippet != fmt.Sprintf("Snippet number %d", i+1) {
			t.Errorf("result %d: unexpected snippet %q", i, r.Snippet)
		}
	}
}

func TestExtractResults_Bounds(t *testing.T) {
	testCases := []struct {
		name     string
		organic  int
		max      int
		expected int
	}{
		{"MoreThanMax", 5, 2, 2},
		{"ExactlyMax", 5, 5, 5},
		{"FewerThanMax", 3, 5, 3},
		{"EmptyPage", 0, 5, 0},
		{"DefaultMax", 8, 0, 5},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			results, err := ExtractResults(resultsPage(tc.organic, true), tc.max, nil)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(results) != tc.expected {
				t.Errorf("expected %d results, got %d", tc.expected, len(results))
			}
		})
	}
}

func TestExtractResults_FallbackContainers(t *testing.T) {
	page := `<html><body>
<div class="result">
  <h2><a href="www.no-scheme.example/a">No Scheme</a></h2>
  <p>first snippet</p>
</div>
<div class="result">
  <a href="//protocol-relative.example/b">Protocol Relative</a>
</div>
<div class="result">
  <a>Missing href</a>
</div>
<div class="result">
  <a href="https://empty-title.example/"></a>
</div>
<div class="result">
  <a href="http://plain.example/c">Plain</a>
</div>
</body></html>`

	results, err := ExtractResults(page, 5, DefaultConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := []SearchResult{
		{URL: "https://www.no-scheme.example/a", Title: "No Scheme", Snippet: "first snippet"},
		{URL: "https://protocol-relative.example/b", Title: "Protocol Relative"},
		{URL: "http://plain.example/c", Title: "Plain"},
	}
	if len(results) != len(expected) {
		t.Fatalf("expected %d results, got %d: %+v", len(expected), len(results), results)
	}
	for i := range expected {
		if results[i] != expected[i] {
			t.Errorf("result %d: expected %+v, got %+v", i, expected[i], results[i])
		}
	}
}

func TestExtractResults_AllURLsAreHTTP(t *testing.T) {
	results, err := ExtractResults(resultsPage(10, true), 10, DefaultConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, r := range results {
		if !strings.HasPrefix(r.URL, "http://") && !strings.HasPrefix(r.URL, "https://") {
			t.Errorf("url without http(s) scheme: %q", r.URL)
		}
	}
}

func TestExtractResults_NoDuplicateNestedContainers(t *testing.T) {
	// Three organic hits for max 5 forces the result__body supplement, whose
	// elements sit inside the web-result containers already collected.
	results, err := ExtractResults(resultsPage(3, false), 5, DefaultConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d: %+v", len(results), results)
	}
	seen := make(map[string]bool)
	for _, r := range results {
		if seen[r.URL] {
			t.Errorf("duplicate result %q", r.URL)
		}
		seen[r.URL] = true
	}
}

func TestExtractResults_HugeMaxIsCapped(t *testing.T) {
	for _, max := range []int{int(float64(1e18)), 1 << 40, int(^uint(0) >> 1)} {
		results, err := ExtractResults(resultsPage(25, true), max, nil)
		if err != nil {
			t.Fatalf("max %d: unexpected error: %v", max, err)
		}
		if len(results) != 20 {
			t.Errorf("max %d: expected results capped at 20, got %d", max, len(results))
		}
	}

	cfg := DefaultConfig()
	cfg.MaxResultsLimit = 3
	results, err := ExtractResults(resultsPage(10, false), 8, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 3 {
		t.Errorf("expected configured cap of 3, got %d", len(results))
	}
}
