// Package mcp exposes the planner as a Model Context Protocol server so that
// assistants can request career plans as a tool.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/careerpath"
	"github.com/aretw0/careerpath/internal/presentation/graph"
	"github.com/aretw0/careerpath/pkg/domain"
	"github.com/aretw0/careerpath/pkg/ports"
	"github.com/aretw0/careerpath/pkg/sanitize"
	"github.com/aretw0/careerpath/pkg/session"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// GraphURI is the resource holding the pipeline transitions.
const GraphURI = "careerpath://graph"

// PlanArgs are the arguments of the plan_career tool. Structured inputs
// travel as JSON strings.
type PlanArgs struct {
	Message              string `json:"message"`
	CurrentRole          string `json:"current_role,omitempty"`
	TargetRole           string `json:"target_role,omitempty"`
	IsFollowUp           *bool  `json:"is_follow_up,omitempty"`
	ExistingLearningPath string `json:"existing_learning_path,omitempty"`
	ConversationHistory  string `json:"conversation_history,omitempty"`
	SessionID            string `json:"session_id,omitempty"`
}

// PlanResponse is the structured output of plan_career.
type PlanResponse struct {
	SessionID string             `json:"session_id,omitempty" jsonschema_description:"Session the turn was recorded in"`
	Plan      *domain.PlanResult `json:"plan" jsonschema_description:"Rendered summary and the structured agent outputs"`
}

// Server wraps a planner and exposes it as an MCP Server.
type Server struct {
	planner     ports.Planner
	sessions    *session.Manager
	transitions []domain.Transition
	logger      *slog.Logger
	mcpServer   *server.MCPServer
}

// Option configures the Server.
type Option func(*Server)

// WithSessions lets plan_career continue stored conversations.
func WithSessions(m *session.Manager) Option {
	return func(s *Server) {
		s.sessions = m
	}
}

// WithTransitions sets the pipeline exposed by get_graph and GraphURI.
func WithTransitions(ts []domain.Transition) Option {
	return func(s *Server) {
		s.transitions = ts
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(planner ports.Planner, opts ...Option) *Server {
	s := &Server{
		planner:   planner,
		logger:    slog.Default(),
		mcpServer: server.NewMCPServer("careerpath-mcp", strings.TrimSpace(careerpath.Version)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE and stops it when
// ctx ends.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("Shutdown signal received, stopping MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	planTool := mcp.NewTool("plan_career",
		mcp.WithDescription("Build or refine a career transition plan: skills gaps, industry outlook, a phased learning path and resources."),
		mcp.WithString("message", mcp.Required(), mcp.Description("The user's request in natural language")),
		mcp.WithString("current_role", mcp.Description("Role the user holds today")),
		mcp.WithString("target_role", mcp.Description("Role the user wants to reach")),
		mcp.WithBoolean("is_follow_up", mcp.Description("Refine the existing learning path. With a session, false starts a new plan")),
		mcp.WithString("existing_learning_path", mcp.Description("JSON object of a previously returned learning_path")),
		mcp.WithString("conversation_history", mcp.Description("JSON array of {role, content} turns")),
		mcp.WithString("session_id", mcp.Description("Continue a stored conversation (server must have sessions enabled)")),
		mcp.WithOutputSchema[PlanResponse](),
	)
	s.mcpServer.AddTool(planTool, mcp.NewStructuredToolHandler(s.handlePlanCareer))

	s.mcpServer.AddTool(mcp.NewTool("get_graph",
		mcp.WithDescription("Get the agent pipeline as a Mermaid flowchart."),
	), s.handleGetGraph)
}

func (s *Server) handlePlanCareer(ctx context.Context, _ mcp.CallToolRequest, args PlanArgs) (PlanResponse, error) {
	clean, err := sanitize.Input(args.Message)
	if err != nil {
		s.logger.Warn("MCP plan_career: Input rejected", "err", err, "size", len(args.Message))
		return PlanResponse{}, fmt.Errorf("input rejected: %w", err)
	}

	req := domain.PlanRequest{
		Message:     clean,
		CurrentRole: args.CurrentRole,
		TargetRole:  args.TargetRole,
	}
	req.FollowUpFlag(args.IsFollowUp)
	if args.ExistingLearningPath != "" {
		if err := json.Unmarshal([]byte(args.ExistingLearningPath), &req.ExistingLearningPath); err != nil {
			return PlanResponse{}, fmt.Errorf("invalid existing_learning_path: %w", err)
		}
	}
	if args.ConversationHistory != "" {
		if err := json.Unmarshal([]byte(args.ConversationHistory), &req.ConversationHistory); err != nil {
			return PlanResponse{}, fmt.Errorf("invalid conversation_history: %w", err)
		}
	}

	if args.SessionID != "" {
		if s.sessions == nil {
			return PlanResponse{}, errors.New("sessions are not enabled on this server")
		}
		out, err := s.sessions.Continue(ctx, s.planner, args.SessionID, req)
		if err != nil {
			return PlanResponse{}, fmt.Errorf("plan failed: %w", err)
		}
		return PlanResponse{SessionID: out.SessionID, Plan: out.Result}, nil
	}

	res, err := s.planner.Plan(ctx, req)
	if err != nil {
		return PlanResponse{}, fmt.Errorf("plan failed: %w", err)
	}
	return PlanResponse{Plan: res}, nil
}

func (s *Server) handleGetGraph(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if len(s.transitions) == 0 {
		return mcp.NewToolResultError("graph not available"), nil
	}
	return mcp.NewToolResultText(graph.GenerateMermaid(s.transitions, nil)), nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(GraphURI, "Agent Pipeline",
		mcp.WithResourceDescription("Supervisor routes and the static agent chain"),
		mcp.WithMIMEType("application/json"),
	), s.readGraph)
}

func (s *Server) readGraph(ctx context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	b, err := json.Marshal(s.transitions)
	if err != nil {
		return nil, fmt.Errorf("failed to encode graph: %w", err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      GraphURI,
			MIMEType: "application/json",
			Text:     string(b),
		},
	}, nil
}
