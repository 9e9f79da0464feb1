package crawler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"lingotutor/search"

	"github.com/gocolly/colly/v2"
	"go.uber.org/zap"
)

const indexKey = "result_index"

var errNoResponse = errors.New("no response received")

// FetchedDocument is the text taken from one search result's page. Fetch
// failures are kept as a placeholder text, with Err holding the cause.
type FetchedDocument struct {
	SourceURL string `json:"source_url"`
	Text      string `json:"text"`
	Err       error  `json:"-"`
}

type DocumentFetcher struct {
	config    *CrawlerConfig
	extractor *ContentExtractor
	transport http.RoundTripper
	logger    *zap.Logger
}

// NewDocumentFetcher builds a fetcher. A nil transport uses colly's default.
func NewDocumentFetcher(cfg *CrawlerConfig, transport http.RoundTripper, logger *zap.Logger) *DocumentFetcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	cfg = cfg.withDefaults()
	return &DocumentFetcher{
		config:    cfg,
		extractor: NewContentExtractor(cfg, logger),
		transport: transport,
		logger:    logger,
	}
}

// FetchAll fetches every result concurrently and returns one document per
// result, in input order, once all of them have resolved. Any 2xx response
// is extracted; other statuses become error placeholders.
func (f *DocumentFetcher) FetchAll(ctx context.Context, results []search.SearchResult) []FetchedDocument {
	if len(results) == 0 {
		return []FetchedDocument{}
	}

	docs := make([]FetchedDocument, len(results))
	resolved := make([]bool, len(results))

	if err := ctx.Err(); err != nil {
		for i, r := range results {
			docs[i] = errorDocument(r.URL, err)
		}
		return docs
	}

	start := time.Now()
	c := f.newCollector()

	c.OnResponse(func(r *colly.Response) {
		i := r.Ctx.GetAny(indexKey).(int)
		pageURL := results[i].URL
		if r.StatusCode < http.StatusOK || r.StatusCode >= http.StatusMultipleChoices {
			err := fmt.Errorf("unexpected status %d %s", r.StatusCode, http.StatusText(r.StatusCode))
			docs[i] = errorDocument(pageURL, err)
			resolved[i] = true

			f.logger.Warn("document_fetch_failed",
				zap.String("url", pageURL),
				zap.Int("status", r.StatusCode),
				zap.Error(err))
			return
		}
		docs[i] = FetchedDocument{
			SourceURL: pageURL,
			Text:      f.extractor.ExtractText(r.Body, pageURL),
		}
		resolved[i] = true

		f.logger.Info("document_fetched",
			zap.String("url", pageURL),
			zap.Int("status", r.StatusCode),
			zap.Int("body_bytes", len(r.Body)),
			zap.Int("text_length", len(docs[i].Text)))
	})

	c.OnError(func(r *colly.Response, err error) {
		i := r.Ctx.GetAny(indexKey).(int)
		docs[i] = errorDocument(results[i].URL, err)
		resolved[i] = true

		f.logger.Warn("document_fetch_failed",
			zap.String("url", results[i].URL),
			zap.Int("status", r.StatusCode),
			zap.Error(err))
	})

	for i, r := range results {
		reqCtx := colly.NewContext()
		reqCtx.Put(indexKey, i)
		if err := c.Request(http.MethodGet, r.URL, nil, reqCtx, nil); err != nil {
			docs[i] = errorDocument(r.URL, err)
			resolved[i] = true
		}
	}

	c.Wait()

	for i, r := range results {
		if !resolved[i] {
			docs[i] = errorDocument(r.URL, errNoResponse)
		}
	}

	f.logger.Info("documents_fetched",
		zap.Int("count", len(docs)),
		zap.Duration("elapsed", time.Since(start)))

	return docs
}

func (f *DocumentFetcher) newCollector() *colly.Collector {
	c := colly.NewCollector(
		colly.UserAgent(f.config.UserAgent),
		colly.Async(true),
		colly.AllowURLRevisit(),
		colly.ParseHTTPErrorResponse(),
	)
	if f.transport != nil {
		c.WithTransport(f.transport)
	}
	c.SetRequestTimeout(f.config.RequestTimeout)
	return c
}

func errorDocument(pageURL string, err error) FetchedDocument {
	return FetchedDocument{
		SourceURL: pageURL,
		Text:      fmt.Sprintf("[Error loading %s: %v]", pageURL, err),
		Err:       err,
	}
}
