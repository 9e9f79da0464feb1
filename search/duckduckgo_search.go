package search

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
)

// DuckDuckGoSearchEngine scrapes the JavaScript-free DuckDuckGo results page.
type DuckDuckGoSearchEngine struct {
	client *http.Client
	config *Config
	logger *zap.Logger
}

func NewDuckDuckGoSearchEngine(client *http.Client, cfg *Config, logger *zap.Logger) *DuckDuckGoSearchEngine {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DuckDuckGoSearchEngine{
		client: client,
		config: cfg.withDefaults(),
		logger: logger,
	}
}

func (d *DuckDuckGoSearchEngine) Search(ctx context.Context, req *SearchRequest) ([]SearchResult, error) {
	maxResults := d.config.clampResults(req.MaxResults)

	params := url.Values{}
	params.Set("q", req.Query)
	params.Set("kl", d.config.Locale)

	searchURL := d.config.Endpoint + "?" + params.Encode()
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	d.setBrowserHeaders(httpReq)

	resp, err := d.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, fmt.Errorf("search endpoint returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, d.config.MaxBodySize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	results, err := ExtractResults(string(body), maxResults, d.config)
	if err != nil {
		return nil, err
	}

	d.logger.Info("search_results",
		zap.String("query", req.Query),
		zap.Int("status", resp.StatusCode),
		zap.Int("page_bytes", len(body)),
		zap.Int("results", len(results)))

	return results, nil
}

// setBrowserHeaders mimics a desktop Chrome navigation. Accept-Encoding is
// left to the transport so compressed bodies are decoded for us.
func (d *DuckDuckGoSearchEngine) setBrowserHeaders(req *http.Request) {
	req.Header.Set("User-Agent", d.config.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,image/apng,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("DNT", "1")
	req.Header.Set("Upgrade-Insecure-Requests", "1")
	req.Header.Set("Sec-Fetch-Dest", "document")
	req.Header.Set("Sec-Fetch-Mode", "navigate")
	req.Header.Set("Sec-Fetch-Site", "none")
	req.Header.Set("Sec-Fetch-User", "?1")
	req.Header.Set("Cache-Control", "max-age=0")
}
