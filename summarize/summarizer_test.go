package summarize

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"lingotutor/crawler"

	"github.com/tmc/langchaingo/llms"
	"go.uber.org/zap/zaptest"
)

// fakeModel answers every prompt with the same text and records the prompts.
type fakeModel struct {
	mu      sync.Mutex
	answer  string
	err     error
	prompts []string
}

func (m *fakeModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var prompt strings.Builder
	for _, msg := range messages {
		for _, part := range msg.Parts {
			if text, ok := part.(llms.TextContent); ok {
				prompt.WriteString(text.Text)
			}
		}
	}
	m.prompts = append(m.prompts, prompt.String())

	if m.err != nil {
		return nil, m.err
	}
	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: m.answer}},
	}, nil
}

func (m *fakeModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, m, prompt, options...)
}

func TestMapReduceSummarizer_Summarize(t *testing.T) {
	model := &fakeModel{answer: "  La Ciudad de México es la capital.  "}
	s := NewMapReduceSummarizer(model, 0, zaptest.NewLogger(t))

	docs := []crawler.FetchedDocument{
		{SourceURL: "https://a.example", Text: "Mexico City is the capital of Mexico."},
		{SourceURL: "https://b.example", Text: "[Error loading https://b.example: Not Found]"},
		{SourceURL: "https://c.example", Text: "CDMX has over nine million residents."},
	}

	summary, err := s.Summarize(context.Background(), docs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary != "La Ciudad de México es la capital." {
		t.Errorf("unexpected summary %q", summary)
	}

	model.mu.Lock()
	defer model.mu.Unlock()
	if len(model.prompts) <= len(docs) {
		t.Fatalf("expected one map call per document plus a reduce call, got %d calls", len(model.prompts))
	}
	for _, d := range docs {
		found := false
		for _, p := range model.prompts {
			if strings.Contains(p, d.Text) {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("document %q never reached the model", d.SourceURL)
		}
	}
}

func TestMapReduceSummarizer_Errors(t *testing.T) {
	t.Run("NoDocuments", func(t *testing.T) {
		s := NewMapReduceSummarizer(&fakeModel{}, 0, nil)
		if _, err := s.Summarize(context.Background(), nil); !errors.Is(err, ErrNoDocuments) {
			t.Errorf("expected ErrNoDocuments, got %v", err)
		}
	})

	t.Run("ModelFailure", func(t *testing.T) {
		modelErr := errors.New("rate limited")
		s := NewMapReduceSummarizer(&fakeModel{err: modelErr}, 0, nil)
		_, err := s.Summarize(context.Background(), []crawler.FetchedDocument{{SourceURL: "https://a.example", Text: "text"}})
		if err == nil {
			t.Fatal("expected error from failing model")
		}
	})
}

func TestNewOpenAIModel_RequiresKey(t *testing.T) {
	if _, err := NewOpenAIModel(LLMConfig{Model: "gpt-4o-mini"}); err == nil {
		t.Fatal("expected error without api key")
	}
	if _, err := NewOpenAIModel(LLMConfig{APIKey: "sk-test", Model: "gpt-4o-mini", BaseURL: "http://localhost:1"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
