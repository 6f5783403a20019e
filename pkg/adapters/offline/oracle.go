// Package offline provides an Oracle that never reaches a language model.
// Every step therefore produces its documented fallback, which makes the
// pipeline usable for demos and smoke tests without credentials.
package offline

import (
	"context"

	"github.com/aretw0/careerpath/pkg/domain"
)

// Reply is the content returned for every request.
const Reply = "Offline mode: no reasoning service is configured."

// Oracle implements ports.Oracle without network access.
type Oracle struct{}

// New returns an offline oracle.
func New() *Oracle { return &Oracle{} }

// Invoke returns Reply, or the context error when ctx is already done.
func (Oracle) Invoke(ctx context.Context, _ domain.OracleRequest) (domain.OracleResponse, error) {
	if err := ctx.Err(); err != nil {
		return domain.OracleResponse{}, err
	}
	return domain.OracleResponse{Content: Reply}, nil
}
