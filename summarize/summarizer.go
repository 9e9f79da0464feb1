package summarize

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"lingotutor/crawler"

	"github.com/tmc/langchaingo/chains"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/tmc/langchaingo/schema"
	"go.uber.org/zap"
)

var ErrNoDocuments = errors.New("no documents to summarize")

type Summarizer interface {
	Summarize(ctx context.Context, docs []crawler.FetchedDocument) (string, error)
}

// LLMConfig holds the hosted model settings used for summarization.
type LLMConfig struct {
	APIKey      string  `yaml:"-"`
	Model       string  `yaml:"model"`
	BaseURL     string  `yaml:"base_url"`
	Temperature float64 `yaml:"temperature"`
}

// NewOpenAIModel builds the langchaingo model for an OpenAI-compatible endpoint.
func NewOpenAIModel(cfg LLMConfig) (llms.Model, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("llm api key missing")
	}
	opts := []openai.Option{openai.WithToken(cfg.APIKey)}
	if cfg.Model != "" {
		opts = append(opts, openai.WithModel(cfg.Model))
	}
	if cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
	}
	model, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create openai model: %w", err)
	}
	return model, nil
}

// MapReduceSummarizer condenses each document on its own and then combines
// the condensed pieces into one answer.
type MapReduceSummarizer struct {
	chain       chains.MapReduceDocuments
	temperature float64
	logger      *zap.Logger
}

func NewMapReduceSummarizer(model llms.Model, temperature float64, logger *zap.Logger) *MapReduceSummarizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MapReduceSummarizer{
		chain:       chains.LoadMapReduceSummarization(model),
		temperature: temperature,
		logger:      logger,
	}
}

func (s *MapReduceSummarizer) Summarize(ctx context.Context, docs []crawler.FetchedDocument) (string, error) {
	if len(docs) == 0 {
		return "", ErrNoDocuments
	}

	inputs := make([]schema.Document, 0, len(docs))
	for _, d := range docs {
		inputs = append(inputs, schema.Document{
			PageContent: d.Text,
			Metadata:    map[string]any{"source": d.SourceURL},
		})
	}

	start := time.Now()
	out, err := chains.Call(ctx, s.chain, map[string]any{
		"input_documents": inputs,
	}, chains.WithTemperature(s.temperature))
	if err != nil {
		return "", fmt.Errorf("failed to summarize documents: %w", err)
	}

	text, ok := out["text"].(string)
	if !ok {
		return "", fmt.Errorf("summarization chain returned no text output")
	}

	s.logger.Info("documents_summarized",
		zap.Int("documents", len(docs)),
		zap.Int("summary_length", len(text)),
		zap.Duration("elapsed", time.Since(start)))

	return strings.TrimSpace(text), nil
}
