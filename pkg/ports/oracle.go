package ports

import (
	"context"

	"github.com/aretw0/careerpath/pkg/domain"
)

// Oracle is the reasoning service consulted by the supervisor and agents.
// Implementations must be safe for concurrent use by independent runs.
type Oracle interface {
	// Invoke sends the system instructions and turns, and returns either
	// textual content or a list of tool calls. An empty Tools slice disables
	// tool calling for this round.
	Invoke(ctx context.Context, req domain.OracleRequest) (domain.OracleResponse, error)
}

// Searcher performs live web searches for the resources agent.
type Searcher interface {
	Search(ctx context.Context, query string, maxResults int) ([]domain.SearchResult, error)
}
