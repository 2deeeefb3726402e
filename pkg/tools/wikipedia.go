package tools

import (
	"context"
	"fmt"
	"strings"
)

// Lookup is the knowledge-lookup capability behind the wikipedia tool.
type Lookup interface {
	// Search returns candidate page titles for a free-text term.
	Search(ctx context.Context, term string) ([]string, error)
	// Summary returns the lead-section summary of an exactly titled page.
	Summary(ctx context.Context, exactTitle string) (string, error)
}

// NewWikipediaTool builds the knowledge-lookup tool. Exactly one of
// "search" or "exact_title" must be supplied per call.
func NewWikipediaTool(client Lookup) *Tool {
	return &Tool{
		Name: "wikipedia",
		Description: "Query Wikipedia for a search term or exact title. If you include a search term, " +
			"the response will be a list of possible titles. If you include an exact title, " +
			"the response will be the summary of the page. Only use one or the other. After " +
			"running a search to get a list of pages, *do* run the function again with an " +
			"exact title to get a summary. A list of page titles is not sufficient to deduce " +
			"an answer.",
		Parameters: []Parameter{
			{Name: "search", Type: "string", Description: "Keywords to search for"},
			{Name: "exact_title", Type: "string", Description: "The page title to search for. Must be exact"},
		},
		ExactlyOneOf: [][]string{{"search", "exact_title"}},
		Handler: func(ctx context.Context, args map[string]any) (any, error) {
			if raw, ok := args["search"]; ok && raw != nil {
				term, ok := raw.(string)
				if !ok {
					return nil, &ArgumentError{Tool: "wikipedia", Reason: "search must be a string"}
				}
				titles, err := client.Search(ctx, term)
				if err != nil {
					return nil, &ExecutionError{Tool: "wikipedia", Kind: "LookupError", Err: err}
				}
				return strings.Join(titles, ", "), nil
			}

			title, ok := args["exact_title"].(string)
			if !ok {
				return nil, &ArgumentError{Tool: "wikipedia", Reason: "exact_title must be a string"}
			}
			summary, err := client.Summary(ctx, title)
			if err != nil {
				return nil, &ExecutionError{Tool: "wikipedia", Kind: "PageError", Err: fmt.Errorf("%q: %w", title, err)}
			}
			return summary, nil
		},
	}
}
