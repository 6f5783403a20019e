package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventRoute      EventType = "route"
	EventAgentEnter EventType = "agent_enter"
	EventAgentLeave EventType = "agent_leave"
	EventFallback   EventType = "fallback"
	EventToolCall   EventType = "tool_call"
	EventToolReturn EventType = "tool_return"
	EventOracleCall EventType = "oracle_call"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	RunID     string    `json:"run_id"`
}

// RouteEvent reports the supervisor's entry decision.
type RouteEvent struct {
	EventBase
	Agent  AgentName   `json:"agent"`
	Source RouteSource `json:"source"`
}

// AgentEvent represents entry or exit from an agent step.
type AgentEvent struct {
	EventBase
	Agent AgentName `json:"agent"`
}

// FallbackEvent reports that an agent substituted its fallback value.
type FallbackEvent struct {
	EventBase
	Agent  AgentName `json:"agent"`
	Reason error     `json:"-"`
}

// ToolEvent represents a tool execution.
type ToolEvent struct {
	EventBase
	Agent    AgentName `json:"agent"`
	CallID   string    `json:"call_id"`
	ToolName string    `json:"tool_name"`
	Input    any       `json:"input,omitempty"`
	Output   any       `json:"output,omitempty"`
	IsError  bool      `json:"is_error,omitempty"`
}

// OracleEvent is emitted after each oracle round trip.
type OracleEvent struct {
	EventBase
	Step      AgentName     `json:"step"`
	Duration  time.Duration `json:"duration"`
	ToolCalls int           `json:"tool_calls"`
	Err       error         `json:"-"`
}

// LifecycleHooks defines callbacks for engine observability.
// Nil callbacks are skipped.
type LifecycleHooks struct {
	OnRoute      func(context.Context, *RouteEvent)
	OnAgentEnter func(context.Context, *AgentEvent)
	OnAgentLeave func(context.Context, *AgentEvent)
	OnFallback   func(context.Context, *FallbackEvent)
	OnToolCall   func(context.Context, *ToolEvent)
	OnToolReturn func(context.Context, *ToolEvent)
	OnOracleCall func(context.Context, *OracleEvent)
}

// Merge returns hooks that invoke h first and then other.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnRoute:      chain(h.OnRoute, other.OnRoute),
		OnAgentEnter: chain(h.OnAgentEnter, other.OnAgentEnter),
		OnAgentLeave: chain(h.OnAgentLeave, other.OnAgentLeave),
		OnFallback:   chain(h.OnFallback, other.OnFallback),
		OnToolCall:   chain(h.OnToolCall, other.OnToolCall),
		OnToolReturn: chain(h.OnToolReturn, other.OnToolReturn),
		OnOracleCall: chain(h.OnOracleCall, other.OnOracleCall),
	}
}

func chain[E any](a, b func(context.Context, E)) func(context.Context, E) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, e E) {
		a(ctx, e)
		b(ctx, e)
	}
}
