package pipeline

import (
	"context"
	"fmt"
	"time"

	"lingotutor/crawler"
	"lingotutor/search"
	"lingotutor/summarize"

	"go.uber.org/zap"
)

// NoResults is returned when the search produced nothing to summarize.
const NoResults = "No results found."

type Fetcher interface {
	FetchAll(ctx context.Context, results []search.SearchResult) []crawler.FetchedDocument
}

// SearchPipeline answers a query with a summary of the pages it finds.
type SearchPipeline struct {
	engine     search.SearchEngine
	fetcher    Fetcher
	summarizer summarize.Summarizer
	metrics    *Metrics
	logger     *zap.Logger
}

func NewSearchPipeline(engine search.SearchEngine, fetcher Fetcher, summarizer summarize.Summarizer,
	metrics *Metrics, logger *zap.Logger) *SearchPipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SearchPipeline{
		engine:     engine,
		fetcher:    fetcher,
		summarizer: summarizer,
		metrics:    metrics,
		logger:     logger,
	}
}

// Run searches, fetches every hit and summarizes the pages. Only a failing
// search or summarization call is returned as an error.
func (p *SearchPipeline) Run(ctx context.Context, query string, maxResults int) (string, error) {
	start := time.Now()

	hits, err := p.engine.Search(ctx, &search.SearchRequest{
		Query:      query,
		MaxResults: maxResults,
	})
	p.metrics.observeSearch(err)
	if err != nil {
		p.metrics.observeRun("error", time.Since(start).Seconds())
		p.logger.Error("web search failed", zap.String("query", query), zap.Error(err))
		return "", fmt.Errorf("web search failed: %w", err)
	}

	docs := p.fetcher.FetchAll(ctx, hits)
	for _, d := range docs {
		p.metrics.observeDocument(d.Err != nil)
	}

	if len(docs) == 0 {
		p.metrics.observeRun("empty", time.Since(start).Seconds())
		p.logger.Info("no search results", zap.String("query", query))
		return NoResults, nil
	}

	summary, err := p.summarizer.Summarize(ctx, docs)
	if err != nil {
		p.metrics.observeRun("error", time.Since(start).Seconds())
		p.logger.Error("summarization failed", zap.String("query", query), zap.Error(err))
		return "", err
	}

	p.metrics.observeRun("ok", time.Since(start).Seconds())
	p.logger.Info("web_search_summary",
		zap.String("query", query),
		zap.Int("results", len(hits)),
		zap.Int("documents", len(docs)),
		zap.Duration("elapsed", time.Since(start)))

	return summary, nil
}
