package observability

import (
	"context"

	"github.com/aretw0/careerpath/pkg/domain"
	"github.com/aretw0/careerpath/pkg/ports"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "careerpath"

// Metrics holds the collectors fed by engine lifecycle events.
type Metrics struct {
	RouteDecisions *prometheus.CounterVec
	AgentRuns      *prometheus.CounterVec
	Fallbacks      *prometheus.CounterVec
	ToolCalls      *prometheus.CounterVec
	OracleDuration *prometheus.HistogramVec
	PlanRuns       *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them on reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RouteDecisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "route_decisions_total",
			Help:      "Supervisor routing decisions by entry agent and decision source.",
		}, []string{"agent", "source"}),
		AgentRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "agent_runs_total",
			Help:      "Agent steps executed.",
		}, []string{"agent"}),
		Fallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fallbacks_total",
			Help:      "Agent outputs replaced by their fallback value.",
		}, []string{"agent"}),
		ToolCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tool_calls_total",
			Help:      "Tool invocations by tool and outcome.",
		}, []string{"tool", "outcome"}),
		OracleDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "oracle_duration_seconds",
			Help:      "Oracle round trip latency by pipeline step.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 20, 40},
		}, []string{"step"}),
		PlanRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "plan_runs_total",
			Help:      "Completed plan runs by outcome.",
		}, []string{"outcome"}),
	}
	if reg != nil {
		reg.MustRegister(
			m.RouteDecisions,
			m.AgentRuns,
			m.Fallbacks,
			m.ToolCalls,
			m.OracleDuration,
			m.PlanRuns,
		)
	}
	return m
}

// Hooks returns lifecycle hooks that record into m.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnRoute: func(_ context.Context, e *domain.RouteEvent) {
			m.RouteDecisions.WithLabelValues(string(e.Agent), string(e.Source)).Inc()
		},
		OnAgentEnter: func(_ context.Context, e *domain.AgentEvent) {
			m.AgentRuns.WithLabelValues(string(e.Agent)).Inc()
		},
		OnFallback: func(_ context.Context, e *domain.FallbackEvent) {
			m.Fallbacks.WithLabelValues(string(e.Agent)).Inc()
		},
		OnToolReturn: func(_ context.Context, e *domain.ToolEvent) {
			outcome := "ok"
			if e.IsError {
				outcome = "error"
			}
			m.ToolCalls.WithLabelValues(e.ToolName, outcome).Inc()
		},
		OnOracleCall: func(_ context.Context, e *domain.OracleEvent) {
			m.OracleDuration.WithLabelValues(string(e.Step)).Observe(e.Duration.Seconds())
		},
	}
}

type instrumentedPlanner struct {
	next    ports.Planner
	metrics *Metrics
}

// InstrumentPlanner counts plan runs by outcome (ok, error, canceled).
func InstrumentPlanner(next ports.Planner, m *Metrics) ports.Planner {
	return &instrumentedPlanner{next: next, metrics: m}
}

func (p *instrumentedPlanner) Plan(ctx context.Context, req domain.PlanRequest) (*domain.PlanResult, error) {
	res, err := p.next.Plan(ctx, req)
	p.metrics.PlanRuns.WithLabelValues(outcome(ctx, err)).Inc()
	return res, err
}

func outcome(ctx context.Context, err error) string {
	switch {
	case err == nil:
		return "ok"
	case ctx.Err() != nil:
		return "canceled"
	default:
		return "error"
	}
}
