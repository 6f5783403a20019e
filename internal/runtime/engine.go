package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/careerpath/internal/agents"
	"github.com/aretw0/careerpath/internal/logging"
	"github.com/aretw0/careerpath/pkg/domain"
)

// Engine runs the planning pipeline: one supervisor decision followed by the
// static chain from the chosen entry agent to the end.
type Engine struct {
	agents     map[domain.AgentName]agents.Agent
	supervisor *Supervisor
	hooks      domain.LifecycleHooks
	logger     *slog.Logger
}

// EngineOption configures the Engine.
type EngineOption func(*Engine)

// WithAgents replaces pipeline agents by name. Intended for tests and for
// hosts that customize a single step.
func WithAgents(overrides map[domain.AgentName]agents.Agent) EngineOption {
	return func(e *Engine) {
		for name, a := range overrides {
			e.agents[name] = a
		}
	}
}

// NewEngine creates an engine over the shared agent dependencies.
func NewEngine(d agents.Deps, opts ...EngineOption) *Engine {
	if d.Logger == nil {
		d.Logger = logging.NewNop()
	}
	e := &Engine{
		agents:     agents.Pipeline(d),
		supervisor: NewSupervisor(agents.NewInvoker(d), d.Hooks, d.Logger),
		hooks:      d.Hooks,
		logger:     d.Logger,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run executes one orchestration run. On any error no state is returned.
func (e *Engine) Run(ctx context.Context, runID string, req domain.PlanRequest) (*domain.SharedState, error) {
	st := domain.NewSharedState(runID, req)
	log := e.logger.With(slog.String("run_id", runID))

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entry, err := e.supervisor.Route(ctx, st)
	if err != nil {
		return nil, err
	}
	log.Debug("Routed", slog.String("entry", entry.String()), slog.Bool("follow_up", st.IsFollowUp))

	// Bounded by the chain length so a malformed table can never loop.
	for cur, steps := entry, 0; cur != domain.End; cur, steps = Next(cur), steps+1 {
		if steps > len(transitions) {
			return nil, fmt.Errorf("pipeline did not terminate after %d steps", steps)
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		agent, ok := e.agents[cur]
		if !ok {
			return nil, fmt.Errorf("no agent registered for %s", cur)
		}

		e.emitAgent(ctx, domain.EventAgentEnter, runID, cur)
		start := time.Now()
		if err := agent.Run(ctx, st); err != nil {
			log.Error("Agent failed", slog.String("agent", cur.String()), slog.Any("error", err))
			return nil, err
		}
		st.Visited = append(st.Visited, cur)
		e.emitAgent(ctx, domain.EventAgentLeave, runID, cur)
		log.Debug("Agent completed", slog.String("agent", cur.String()), slog.Duration("took", time.Since(start)))
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return st, nil
}

func (e *Engine) emitAgent(ctx context.Context, typ domain.EventType, runID string, name domain.AgentName) {
	hook := e.hooks.OnAgentEnter
	if typ == domain.EventAgentLeave {
		hook = e.hooks.OnAgentLeave
	}
	if hook == nil {
		return
	}
	hook(ctx, &domain.AgentEvent{
		EventBase: domain.EventBase{Timestamp: time.Now(), Type: typ, RunID: runID},
		Agent:     name,
	})
}
