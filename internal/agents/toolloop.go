package agents

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/careerpath/pkg/domain"
	"github.com/aretw0/careerpath/pkg/registry"
	"github.com/google/uuid"
)

// ToolLoop lets a step augment its answer with tool results. It performs at
// most two oracle rounds: the first with tools enabled, and, only if the
// oracle asked for tools, a second one with tools disabled.
type ToolLoop struct {
	inv         *Invoker
	tools       *registry.Registry
	hooks       domain.LifecycleHooks
	logger      *slog.Logger
	toolTimeout time.Duration
}

// NewToolLoop creates a ToolLoop over the registry in d.
func NewToolLoop(d Deps, inv *Invoker) *ToolLoop {
	return &ToolLoop{
		inv:         inv,
		tools:       d.Tools,
		hooks:       d.Hooks,
		logger:      d.logger(),
		toolTimeout: d.ToolTimeout,
	}
}

// Run executes the loop and returns the oracle's final response.
func (l *ToolLoop) Run(ctx context.Context, runID string, step domain.AgentName, system string, turns []domain.Message) (domain.OracleResponse, error) {
	defs := l.tools.Definitions()

	first, err := l.inv.Invoke(ctx, runID, step, domain.OracleRequest{System: system, Turns: turns, Tools: defs})
	if err != nil {
		return domain.OracleResponse{}, err
	}
	if len(first.ToolCalls) == 0 || len(defs) == 0 {
		return first, nil
	}

	calls := make([]domain.ToolCall, len(first.ToolCalls))
	copy(calls, first.ToolCalls)
	for i := range calls {
		if calls[i].ID == "" {
			calls[i].ID = uuid.NewString()
		}
	}

	conv := make([]domain.Message, 0, len(turns)+len(calls)+2)
	conv = append(conv, turns...)
	conv = append(conv, domain.Message{Role: domain.RoleAssistant, Content: first.Content, ToolCalls: calls})

	for _, call := range calls {
		if err := ctx.Err(); err != nil {
			return domain.OracleResponse{}, err
		}
		res := l.execute(ctx, runID, step, call)
		conv = append(conv, domain.Message{
			Role:       domain.RoleTool,
			Name:       call.Name,
			ToolCallID: call.ID,
			Content:    encodeToolResult(res),
		})
	}

	conv = append(conv, domain.Message{Role: domain.RoleUser, Content: FinalAnswerInstruction})
	return l.inv.Invoke(ctx, runID, step, domain.OracleRequest{System: system, Turns: conv})
}

// execute runs one call. Failures become error-tagged results, never errors.
func (l *ToolLoop) execute(ctx context.Context, runID string, step domain.AgentName, call domain.ToolCall) domain.ToolResult {
	res := domain.ToolResult{ID: call.ID, Name: call.Name}

	args := call.Args
	if args == nil && call.RawArgs != "" {
		if err := json.Unmarshal([]byte(call.RawArgs), &args); err != nil {
			res.IsError = true
			res.Error = fmt.Sprintf("Tool execution failed: invalid arguments: %v", err)
			l.emitReturn(ctx, runID, step, call, res)
			return res
		}
	}

	if l.hooks.OnToolCall != nil {
		l.hooks.OnToolCall(ctx, &domain.ToolEvent{
			EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventToolCall, RunID: runID},
			Agent:     step,
			CallID:    call.ID,
			ToolName:  call.Name,
			Input:     args,
		})
	}

	toolCtx := ctx
	if l.toolTimeout > 0 {
		var cancel context.CancelFunc
		toolCtx, cancel = context.WithTimeout(ctx, l.toolTimeout)
		defer cancel()
	}

	out, err := l.tools.Execute(toolCtx, call.Name, args)
	switch {
	case errors.Is(err, registry.ErrToolNotFound):
		res.IsError = true
		res.Error = "Unknown tool: " + call.Name
	case err != nil:
		res.IsError = true
		res.Error = fmt.Sprintf("Tool execution failed: %v", err)
	default:
		res.Result = out
	}

	if res.IsError {
		l.logger.Warn("Tool call failed",
			slog.String("run_id", runID),
			slog.String("tool", call.Name),
			slog.String("call_id", call.ID),
			slog.String("error", res.Error),
		)
	}
	l.emitReturn(ctx, runID, step, call, res)
	return res
}

func (l *ToolLoop) emitReturn(ctx context.Context, runID string, step domain.AgentName, call domain.ToolCall, res domain.ToolResult) {
	if l.hooks.OnToolReturn == nil {
		return
	}
	ev := &domain.ToolEvent{
		EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventToolReturn, RunID: runID},
		Agent:     step,
		CallID:    call.ID,
		ToolName:  call.Name,
		Output:    res.Result,
		IsError:   res.IsError,
	}
	if res.IsError {
		ev.Output = res.Error
	}
	l.hooks.OnToolReturn(ctx, ev)
}

func encodeToolResult(res domain.ToolResult) string {
	var payload any = res.Result
	if res.IsError {
		payload = map[string]string{"error": res.Error}
	}
	b, err := json.Marshal(payload)
	if err != nil {
		b, _ = json.Marshal(map[string]string{"error": fmt.Sprintf("Tool execution failed: %v", err)})
	}
	return string(b)
}
