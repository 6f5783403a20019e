package careerpath

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aretw0/careerpath/internal/agents"
	"github.com/aretw0/careerpath/internal/logging"
	"github.com/aretw0/careerpath/internal/presentation/summary"
	"github.com/aretw0/careerpath/internal/runtime"
	"github.com/aretw0/careerpath/pkg/domain"
	"github.com/aretw0/careerpath/pkg/ports"
	"github.com/aretw0/careerpath/pkg/registry"
	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"
)

// ErrEmptyMessage is returned by Plan when the request carries no user message.
var ErrEmptyMessage = domain.ErrEmptyMessage

// Engine is the high-level entry point for the careerpath library.
// It wraps the internal runtime and provides a simplified API for consumers.
type Engine struct {
	runtime *runtime.Engine
	oracle  ports.Oracle
	tools   *registry.Registry
	sem     *semaphore.Weighted

	searcher      ports.Searcher
	hooks         domain.LifecycleHooks
	logger        *slog.Logger
	oracleTimeout time.Duration
	searchTimeout time.Duration
	maxRuns       int64
	runtimeOpts   []runtime.EngineOption
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithSearcher enables the web search tool for the resources agent.
func WithSearcher(s ports.Searcher) Option {
	return func(e *Engine) {
		e.searcher = s
	}
}

// WithRegistry supplies the tool registry. Search is registered into it when
// a searcher is configured.
func WithRegistry(r *registry.Registry) Option {
	return func(e *Engine) {
		e.tools = r
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = e.hooks.Merge(hooks)
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithOracleTimeout bounds every oracle round trip.
func WithOracleTimeout(d time.Duration) Option {
	return func(e *Engine) {
		e.oracleTimeout = d
	}
}

// WithSearchTimeout bounds every tool execution, including web searches.
func WithSearchTimeout(d time.Duration) Option {
	return func(e *Engine) {
		e.searchTimeout = d
	}
}

// WithMaxConcurrentRuns limits how many runs execute at once. Callers beyond
// the limit wait until a slot frees or their context ends. Zero means no limit.
func WithMaxConcurrentRuns(n int) Option {
	return func(e *Engine) {
		e.maxRuns = int64(n)
	}
}

// WithAgent replaces a single pipeline step.
func WithAgent(a agents.Agent) Option {
	return func(e *Engine) {
		e.runtimeOpts = append(e.runtimeOpts, runtime.WithAgents(map[domain.AgentName]agents.Agent{a.Name(): a}))
	}
}

// New initializes a planning engine backed by the given oracle.
func New(oracle ports.Oracle, opts ...Option) (*Engine, error) {
	if oracle == nil {
		return nil, fmt.Errorf("oracle is required")
	}
	eng := &Engine{oracle: oracle}
	for _, opt := range opts {
		opt(eng)
	}

	if eng.logger == nil {
		eng.logger = logging.NewNop()
	}
	if eng.tools == nil {
		eng.tools = registry.NewRegistry()
	}
	registry.RegisterSearch(eng.tools, eng.searcher)
	if eng.maxRuns > 0 {
		eng.sem = semaphore.NewWeighted(eng.maxRuns)
	}

	eng.runtime = runtime.NewEngine(agents.Deps{
		Oracle:        eng.oracle,
		Tools:         eng.tools,
		Logger:        eng.logger,
		Hooks:         eng.hooks,
		OracleTimeout: eng.oracleTimeout,
		ToolTimeout:   eng.searchTimeout,
	}, eng.runtimeOpts...)

	return eng, nil
}

// Plan runs the full pipeline for one request and renders the result.
// It returns an error, and no result, when the oracle fails or ctx ends.
func (e *Engine) Plan(ctx context.Context, req domain.PlanRequest) (*domain.PlanResult, error) {
	if strings.TrimSpace(req.Message) == "" {
		return nil, ErrEmptyMessage
	}

	if e.sem != nil {
		if err := e.sem.Acquire(ctx, 1); err != nil {
			return nil, err
		}
		defer e.sem.Release(1)
	}

	runID := uuid.NewString()
	start := time.Now()
	st, err := e.runtime.Run(ctx, runID, req)
	if err != nil {
		e.logger.Error("Plan failed", slog.String("run_id", runID), slog.Any("error", err))
		return nil, err
	}

	e.logger.Info("Plan completed",
		slog.String("run_id", runID),
		slog.String("entry", st.NextAgent.String()),
		slog.Bool("follow_up", st.IsFollowUp),
		slog.Duration("took", time.Since(start)),
	)
	return summary.Result(st), nil
}

// Transitions returns the pipeline edges for visualization tools.
func (e *Engine) Transitions() []domain.Transition {
	return runtime.Transitions()
}

// Tools returns the tool definitions advertised to the oracle.
func (e *Engine) Tools() []domain.Tool {
	return e.tools.Definitions()
}

// SearchEnabled reports whether any tool is available to the resources agent.
func (e *Engine) SearchEnabled() bool {
	return e.tools.Len() > 0
}
