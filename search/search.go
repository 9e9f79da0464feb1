package search

import "context"

// SearchResult is one organic hit taken from a results page.
type SearchResult struct {
	URL     string `json:"url"`
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
}

type SearchRequest struct {
	Query      string `json:"query"`
	MaxResults int    `json:"max_results,omitempty"`
}

type SearchEngine interface {
	Search(ctx context.Context, req *SearchRequest) ([]SearchResult, error)
}
