package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/careerpath/pkg/domain"
)

// LoggingHooks returns hooks that emit one log line per lifecycle event.
// Routine events log at debug; fallbacks log at warn.
func LoggingHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnRoute: func(ctx context.Context, e *domain.RouteEvent) {
			logger.InfoContext(ctx, "route",
				"run_id", e.RunID,
				"agent", e.Agent,
				"source", e.Source,
			)
		},
		OnAgentEnter: func(ctx context.Context, e *domain.AgentEvent) {
			logger.DebugContext(ctx, "agent_enter", "run_id", e.RunID, "agent", e.Agent)
		},
		OnAgentLeave: func(ctx context.Context, e *domain.AgentEvent) {
			logger.DebugContext(ctx, "agent_leave", "run_id", e.RunID, "agent", e.Agent)
		},
		OnFallback: func(ctx context.Context, e *domain.FallbackEvent) {
			logger.WarnContext(ctx, "fallback",
				"run_id", e.RunID,
				"agent", e.Agent,
				"err", e.Reason,
			)
		},
		OnToolCall: func(ctx context.Context, e *domain.ToolEvent) {
			logger.DebugContext(ctx, "tool_call",
				"run_id", e.RunID,
				"agent", e.Agent,
				"tool_name", e.ToolName,
				"call_id", e.CallID,
			)
		},
		OnToolReturn: func(ctx context.Context, e *domain.ToolEvent) {
			logger.DebugContext(ctx, "tool_return",
				"run_id", e.RunID,
				"tool_name", e.ToolName,
				"is_error", e.IsError,
			)
		},
		OnOracleCall: func(ctx context.Context, e *domain.OracleEvent) {
			attrs := []any{
				"run_id", e.RunID,
				"step", e.Step,
				"duration", e.Duration,
				"tool_calls", e.ToolCalls,
			}
			if e.Err != nil {
				logger.WarnContext(ctx, "oracle_call", append(attrs, "err", e.Err)...)
				return
			}
			logger.DebugContext(ctx, "oracle_call", attrs...)
		},
	}
}
