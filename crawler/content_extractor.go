package crawler

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"
	"github.com/markusmobius/go-trafilatura"
	"go.uber.org/zap"
	"golang.org/x/net/html"
)

const (
	noContentPlaceholder = "[No meaningful content found]"
	truncationMarker     = "..."
)

// ContentExtractor turns a fetched page into a bounded plain-text excerpt
// biased toward the main article over navigation and boilerplate.
type ContentExtractor struct {
	config *CrawlerConfig
	logger *zap.Logger
}

func NewContentExtractor(cfg *CrawlerConfig, logger *zap.Logger) *ContentExtractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ContentExtractor{
		config: cfg.withDefaults(),
		logger: logger,
	}
}

// ExtractText never returns an empty string.
func (ce *ContentExtractor) ExtractText(body []byte, pageURL string) string {
	switch ce.config.ExtractorMode {
	case ExtractorReadability:
		if text, err := ce.extractWithReadability(body, pageURL); err == nil && text != "" {
			return ce.truncate(text)
		} else if err != nil {
			ce.logger.Debug("readability: falling back to heuristic", zap.String("url", pageURL), zap.Error(err))
		}
	case ExtractorTrafilatura:
		if text, err := ce.extractWithTrafilatura(body, pageURL); err == nil && text != "" {
			return ce.truncate(text)
		} else if err != nil {
			ce.logger.Debug("trafilatura: falling back to heuristic", zap.String("url", pageURL), zap.Error(err))
		}
	}
	return ce.extractHeuristic(body, pageURL)
}

func (ce *ContentExtractor) extractHeuristic(body []byte, pageURL string) string {
	root, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		ce.logger.Warn("failed to parse page", zap.String("url", pageURL), zap.Error(err))
		return noContentPlaceholder
	}
	doc := goquery.NewDocumentFromNode(root)

	doc.Find(strings.Join(ce.config.StripTags, ", ")).Remove()

	for _, selector := range ce.config.ContentSelectors {
		area := doc.Find(selector).First()
		if area.Length() == 0 {
			continue
		}
		if text := ce.joinSubstantial(area.Find(ce.config.TextElements), ce.config.ContentElementLimit); text != "" {
			return ce.truncate(text)
		}
	}

	if text := ce.joinSubstantial(doc.Find("p"), ce.config.ParagraphLimit); text != "" {
		return ce.truncate(text)
	}

	title := strings.TrimSpace(doc.Find("title").First().Text())
	description, _ := doc.Find(`meta[name="description"]`).First().Attr("content")
	if title != "" || description != "" {
		return strings.TrimSpace(fmt.Sprintf("%s. %s", title, description))
	}

	return noContentPlaceholder
}

// joinSubstantial keeps the texts of the first limit elements that are
// longer than MinTextLength characters.
func (ce *ContentExtractor) joinSubstantial(elements *goquery.Selection, limit int) string {
	var texts []string
	elements.EachWithBreak(func(i int, s *goquery.Selection) bool {
		if i >= limit {
			return false
		}
		text := strings.TrimSpace(s.Text())
		if utf8.RuneCountInString(text) > ce.config.MinTextLength {
			texts = append(texts, text)
		}
		return true
	})
	return strings.Join(texts, " ")
}

func (ce *ContentExtractor) truncate(text string) string {
	if utf8.RuneCountInString(text) <= ce.config.MaxChars {
		return text
	}
	runes := []rune(text)
	return string(runes[:ce.config.MaxChars]) + truncationMarker
}

func (ce *ContentExtractor) extractWithReadability(body []byte, pageURL string) (string, error) {
	parsedURL, err := url.Parse(pageURL)
	if err != nil {
		return "", err
	}

	article, err := readability.FromReader(bytes.NewReader(body), parsedURL)
	if err != nil {
		return "", fmt.Errorf("readability error: %w", err)
	}
	return strings.Join(strings.Fields(article.TextContent), " "), nil
}

func (ce *ContentExtractor) extractWithTrafilatura(body []byte, pageURL string) (string, error) {
	parsedURL, err := url.Parse(pageURL)
	if err != nil {
		return "", err
	}

	result, err := trafilatura.Extract(bytes.NewReader(body), trafilatura.Options{
		OriginalURL: parsedURL,
	})
	if err != nil {
		return "", fmt.Errorf("trafilatura error: %w", err)
	}
	return strings.Join(strings.Fields(result.ContentText), " "), nil
}
