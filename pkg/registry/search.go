package registry

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aretw0/careerpath/pkg/domain"
	"github.com/aretw0/careerpath/pkg/ports"
	"github.com/mitchellh/mapstructure"
)

// SearchToolName is the capability name advertised for web search.
const SearchToolName = "web_search"

const (
	defaultMaxResults = 5
	maxMaxResults     = 10
)

// ErrInvalidArguments is returned when tool arguments cannot be decoded.
var ErrInvalidArguments = errors.New("invalid tool arguments")

type searchArgs struct {
	Query      string `mapstructure:"query"`
	MaxResults int    `mapstructure:"max_results"`
}

// SearchDefinition describes the web search tool to the oracle.
func SearchDefinition() domain.Tool {
	return domain.Tool{
		Name:        SearchToolName,
		Description: "Search the web for current courses, certifications, books, communities and other learning resources.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"query": map[string]any{
					"type":        "string",
					"description": "Search query, e.g. \"best Kubernetes certification 2025\"",
				},
				"max_results": map[string]any{
					"type":        "integer",
					"description": "Maximum number of results to return",
				},
			},
			"required": []string{"query"},
		},
	}
}

// NewSearchTool adapts a Searcher into a ToolFunction.
func NewSearchTool(searcher ports.Searcher) ToolFunction {
	return func(ctx context.Context, raw map[string]any) (any, error) {
		var args searchArgs
		dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			WeaklyTypedInput: true,
			Result:           &args,
		})
		if err != nil {
			return nil, err
		}
		if err := dec.Decode(raw); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidArguments, err)
		}

		args.Query = strings.TrimSpace(args.Query)
		if args.Query == "" {
			return nil, fmt.Errorf("%w: query is required", ErrInvalidArguments)
		}
		if args.MaxResults <= 0 {
			args.MaxResults = defaultMaxResults
		}
		if args.MaxResults > maxMaxResults {
			args.MaxResults = maxMaxResults
		}

		results, err := searcher.Search(ctx, args.Query, args.MaxResults)
		if err != nil {
			return nil, err
		}
		return map[string]any{
			"query":   args.Query,
			"results": results,
		}, nil
	}
}

// RegisterSearch wires the search tool into r. A nil searcher leaves the
// registry untouched so tool calling stays disabled.
func RegisterSearch(r *Registry, searcher ports.Searcher) {
	if searcher == nil {
		return
	}
	r.Register(SearchDefinition(), NewSearchTool(searcher))
}
