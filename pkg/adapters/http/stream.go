package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/aretw0/careerpath/pkg/domain"
)

type sessionKey struct{}

// WithSessionID tags ctx so lifecycle events of the run reach the session's
// event subscribers.
func WithSessionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, sessionKey{}, id)
}

// SessionIDFrom returns the session tagged on ctx, if any.
func SessionIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(sessionKey{}).(string)
	return id
}

// StreamManager handles active SSE connections.
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan<- string]struct{} // SessionID -> Set of Channels
	logger      *slog.Logger
}

func NewStreamManager(logger *slog.Logger) *StreamManager {
	if logger == nil {
		logger = slog.Default()
	}
	return &StreamManager{
		subscribers: make(map[string]map[chan<- string]struct{}),
		logger:      logger,
	}
}

func (sm *StreamManager) Subscribe(sessionID string) (chan string, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan string, 32)
	if _, ok := sm.subscribers[sessionID]; !ok {
		sm.subscribers[sessionID] = make(map[chan<- string]struct{})
	}
	sm.subscribers[sessionID][ch] = struct{}{}

	return ch, func() {
		sm.mu.Lock()
		defer sm.mu.Unlock()
		if subs, ok := sm.subscribers[sessionID]; ok {
			delete(subs, ch)
			close(ch)
			if len(subs) == 0 {
				delete(sm.subscribers, sessionID)
			}
		}
	}
}

func (sm *StreamManager) Broadcast(sessionID string, msg string) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	for ch := range sm.subscribers[sessionID] {
		select {
		case ch <- msg:
		default:
			// Drop message if channel is full (slow client)
			sm.logger.Warn("SSE: Client buffer full, dropping message", "session_id", sessionID)
		}
	}
}

// streamEvent is the SSE payload.
type streamEvent struct {
	Type  domain.EventType `json:"type"`
	RunID string           `json:"run_id"`
	Agent domain.AgentName `json:"agent,omitempty"`
	Tool  string           `json:"tool,omitempty"`
	Error bool             `json:"error,omitempty"`
}

// Hooks returns lifecycle hooks that forward events of session-tagged runs
// to subscribers. Untagged runs are ignored.
func (sm *StreamManager) Hooks() domain.LifecycleHooks {
	send := func(ctx context.Context, ev streamEvent) {
		id := SessionIDFrom(ctx)
		if id == "" {
			return
		}
		b, err := json.Marshal(ev)
		if err != nil {
			return
		}
		sm.Broadcast(id, string(b))
	}
	return domain.LifecycleHooks{
		OnRoute: func(ctx context.Context, e *domain.RouteEvent) {
			send(ctx, streamEvent{Type: e.Type, RunID: e.RunID, Agent: e.Agent})
		},
		OnAgentEnter: func(ctx context.Context, e *domain.AgentEvent) {
			send(ctx, streamEvent{Type: e.Type, RunID: e.RunID, Agent: e.Agent})
		},
		OnAgentLeave: func(ctx context.Context, e *domain.AgentEvent) {
			send(ctx, streamEvent{Type: e.Type, RunID: e.RunID, Agent: e.Agent})
		},
		OnFallback: func(ctx context.Context, e *domain.FallbackEvent) {
			send(ctx, streamEvent{Type: e.Type, RunID: e.RunID, Agent: e.Agent, Error: true})
		},
		OnToolReturn: func(ctx context.Context, e *domain.ToolEvent) {
			send(ctx, streamEvent{Type: e.Type, RunID: e.RunID, Agent: e.Agent, Tool: e.ToolName, Error: e.IsError})
		},
	}
}
