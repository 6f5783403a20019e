package agents

import (
	"context"
	"log/slog"
	"time"

	"github.com/aretw0/careerpath/internal/logging"
	"github.com/aretw0/careerpath/pkg/domain"
	"github.com/aretw0/careerpath/pkg/ports"
	"github.com/aretw0/careerpath/pkg/registry"
)

// Agent is one step of the planning pipeline. Run reads upstream fields of
// the shared state and writes exactly the field the agent owns. A returned
// error is fatal for the run; malformed oracle output is never an error.
type Agent interface {
	Name() domain.AgentName
	Run(ctx context.Context, st *domain.SharedState) error
}

// Deps carries the collaborators shared by every agent.
type Deps struct {
	Oracle ports.Oracle
	Tools  *registry.Registry
	Logger *slog.Logger
	Hooks  domain.LifecycleHooks

	// OracleTimeout bounds each oracle round trip. Zero means no extra bound.
	OracleTimeout time.Duration
	// ToolTimeout bounds each tool execution. Zero means no extra bound.
	ToolTimeout time.Duration
}

func (d Deps) logger() *slog.Logger {
	if d.Logger == nil {
		return logging.NewNop()
	}
	return d.Logger
}

// Invoker performs oracle round trips on behalf of a pipeline step, applying
// the per-call timeout, emitting hooks and tagging failures with the step.
type Invoker struct {
	oracle  ports.Oracle
	hooks   domain.LifecycleHooks
	timeout time.Duration
}

// NewInvoker creates an Invoker from shared dependencies.
func NewInvoker(d Deps) *Invoker {
	return &Invoker{oracle: d.Oracle, hooks: d.Hooks, timeout: d.OracleTimeout}
}

// Invoke sends one request to the oracle. Every error is an *domain.OracleError.
func (i *Invoker) Invoke(ctx context.Context, runID string, step domain.AgentName, req domain.OracleRequest) (domain.OracleResponse, error) {
	callCtx := ctx
	if i.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, i.timeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := i.oracle.Invoke(callCtx, req)
	if i.hooks.OnOracleCall != nil {
		i.hooks.OnOracleCall(ctx, &domain.OracleEvent{
			EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventOracleCall, RunID: runID},
			Step:      step,
			Duration:  time.Since(start),
			ToolCalls: len(resp.ToolCalls),
			Err:       err,
		})
	}
	if err != nil {
		return domain.OracleResponse{}, &domain.OracleError{Step: step, Err: err}
	}
	return resp, nil
}

// Pipeline returns the four pipeline agents keyed by name.
func Pipeline(d Deps) map[domain.AgentName]Agent {
	inv := NewInvoker(d)
	loop := NewToolLoop(d, inv)
	return map[domain.AgentName]Agent{
		domain.SkillsAgent:    &SkillsAgent{deps: d, inv: inv},
		domain.IndustryAgent:  &IndustryAgent{deps: d, inv: inv},
		domain.LearningAgent:  &LearningAgent{deps: d, inv: inv},
		domain.ResourcesAgent: &ResourcesAgent{deps: d, loop: loop},
	}
}
