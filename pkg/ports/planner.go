package ports

import (
	"context"

	"github.com/aretw0/careerpath/pkg/domain"
)

// Planner runs one career-planning request end to end.
// careerpath.Engine implements it; transports and decorators depend on this
// interface instead of the concrete engine.
type Planner interface {
	Plan(ctx context.Context, req domain.PlanRequest) (*domain.PlanResult, error)
}
