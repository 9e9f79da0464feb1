package tools

import (
	"context"
	"fmt"
	"strings"
)

// Runner turns a query into a summary of live web results.
type Runner interface {
	Run(ctx context.Context, query string, maxResults int) (string, error)
}

// WebSearchTool lets the tutor look up facts it does not know.
type WebSearchTool struct {
	runner       Runner
	defaultLimit int
	maxLimit     int
}

// NewWebSearchTool builds the tool. Requested result counts above maxLimit
// are lowered to maxLimit.
func NewWebSearchTool(runner Runner, defaultLimit, maxLimit int) *WebSearchTool {
	if maxLimit <= 0 {
		maxLimit = 20
	}
	if defaultLimit <= 0 {
		defaultLimit = 5
	}
	if defaultLimit > maxLimit {
		defaultLimit = maxLimit
	}
	return &WebSearchTool{
		runner:       runner,
		defaultLimit: defaultLimit,
		maxLimit:     maxLimit,
	}
}

func (t *WebSearchTool) Name() string {
	return "web_search"
}

func (t *WebSearchTool) Description() string {
	return "Search the web and return a short summary answering the query. Use it for facts, news or culture questions you cannot answer from memory."
}

func (t *WebSearchTool) Parameters() []ParameterDef {
	return []ParameterDef{
		{
			Name:        "query",
			Type:        "string",
			Description: "Search query",
			Required:    true,
		},
		{
			Name:        "max_results",
			Type:        "number",
			Description: "Number of search results to read (default from config)",
			Required:    false,
		},
	}
}

func (t *WebSearchTool) Execute(ctx context.Context, args map[string]any) (string, error) {
	query, ok := args["query"].(string)
	if !ok || strings.TrimSpace(query) == "" {
		return "", fmt.Errorf("%w: missing required parameter: query", ErrInvalidArguments)
	}

	limit := t.defaultLimit
	if val, ok := args["max_results"].(float64); ok && val >= 1 {
		limit = t.maxLimit
		if val < float64(t.maxLimit) {
			limit = int(val)
		}
	}

	return t.runner.Run(ctx, strings.TrimSpace(query), limit)
}
