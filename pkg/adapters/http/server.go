package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"github.com/aretw0/careerpath/internal/presentation/graph"
	"github.com/aretw0/careerpath/pkg/domain"
	"github.com/aretw0/careerpath/pkg/ports"
	"github.com/aretw0/careerpath/pkg/sanitize"
	"github.com/aretw0/careerpath/pkg/session"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/oapi-codegen/runtime"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Health reports what the server can reach, surfaced by the health routes.
type Health struct {
	OracleConfigured bool
	SearchEnabled    bool
}

// Server serves the planning API.
type Server struct {
	planner     ports.Planner
	sessions    *session.Manager
	streams     *StreamManager
	transitions []domain.Transition
	gatherer    prometheus.Gatherer
	origins     []string
	maxInput    int
	health      Health
	logger      *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithSessions enables session-aware chat and the /api/sessions routes.
func WithSessions(m *session.Manager) Option {
	return func(s *Server) {
		s.sessions = m
	}
}

// WithStreams publishes run events of session-bound chats. The same manager's
// Hooks must be registered on the engine.
func WithStreams(sm *StreamManager) Option {
	return func(s *Server) {
		s.streams = sm
	}
}

// WithTransitions sets the pipeline served by /api/graph.
func WithTransitions(ts []domain.Transition) Option {
	return func(s *Server) {
		s.transitions = ts
	}
}

// WithMetrics exposes g on /metrics.
func WithMetrics(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

// WithAllowedOrigins restricts CORS. "*" allows any origin.
func WithAllowedOrigins(origins ...string) Option {
	return func(s *Server) {
		s.origins = origins
	}
}

// WithMaxInputSize bounds message size. Zero disables the limit.
func WithMaxInputSize(n int) Option {
	return func(s *Server) {
		s.maxInput = n
	}
}

func WithHealth(h Health) Option {
	return func(s *Server) {
		s.health = h
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewHandler creates the HTTP handler for the planner.
func NewHandler(planner ports.Planner, opts ...Option) http.Handler {
	s := &Server{
		planner:  planner,
		maxInput: sanitize.DefaultMaxInputSize,
		origins:  []string{"*"},
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.cors)

	r.Get("/", s.GetRoot)
	r.Get("/api/health", s.GetHealth)
	r.Post("/api/chat", s.Chat)
	r.Post("/api/career-plan", s.CreateCareerPlan)
	r.Get("/api/graph", s.GetGraph)
	if s.sessions != nil {
		r.Get("/api/sessions/{id}", s.GetSession)
		r.Delete("/api/sessions/{id}", s.DeleteSession)
	}
	if s.streams != nil {
		r.Get("/api/sessions/{id}/events", s.SubscribeEvents)
	}
	if s.gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		if _, err := GetSwagger(); err != nil {
			http.Error(w, "Failed to load spec", http.StatusInternalServerError)
			s.logger.Error("Failed to load OpenAPI spec", "err", err)
			return
		}
		w.Header().Set("Content-Type", "text/yaml")
		w.Write(rawSpec)
	})
	r.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(swaggerHTML))
	})

	return r
}

func (s *Server) cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if origin := r.Header.Get("Origin"); origin != "" && s.allowed(origin) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			w.Header().Add("Vary", "Origin")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) allowed(origin string) bool {
	return slices.Contains(s.origins, "*") || slices.Contains(s.origins, origin)
}

const swaggerHTML = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>CareerPath API Documentation</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui.css" />
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui-bundle.js" crossorigin></script>
<script>
    window.onload = () => {
    window.ui = SwaggerUIBundle({
        url: '/openapi.yaml',
        dom_id: '#swagger-ui',
    });
    };
</script>
</body>
</html>
`

// ChatRequest is the body of POST /api/chat.
type ChatRequest struct {
	Message             string               `json:"message"`
	ConversationHistory []domain.Turn        `json:"conversation_history,omitempty"`
	CurrentLearningPath *domain.LearningPath `json:"current_learning_path,omitempty"`
	IsFollowUp          *bool                `json:"is_follow_up,omitempty"`
	SessionID           string               `json:"session_id,omitempty"`
	CurrentRole         string               `json:"current_role,omitempty"`
	TargetRole          string               `json:"target_role,omitempty"`
}

// ChatResponse is the body returned by POST /api/chat.
type ChatResponse struct {
	Response     string             `json:"response"`
	MermaidChart *string            `json:"mermaid_chart"`
	Data         *domain.PlanResult `json:"data"`
	SessionID    string             `json:"session_id,omitempty"`
}

// CareerPlanRequest is the body of POST /api/career-plan.
type CareerPlanRequest struct {
	Message     string `json:"message"`
	CurrentRole string `json:"current_role,omitempty"`
	TargetRole  string `json:"target_role,omitempty"`
}

// GetRoot handles GET /.
func (s *Server) GetRoot(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"message":          "CareerPath backend is running!",
		"status":           "healthy",
		"agents_available": s.planner != nil,
	})
}

// GetHealth handles GET /api/health.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	agents := make(map[string]bool, len(domain.EntryAgents)+1)
	agents[string(domain.Supervisor)] = s.planner != nil
	for _, a := range domain.EntryAgents {
		agents[string(a)] = s.planner != nil
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":            "healthy",
		"agents":            agents,
		"openai_configured": s.health.OracleConfigured,
		"search_enabled":    s.health.SearchEnabled,
	})
}

// Chat handles POST /api/chat. Planning failures are reported in the
// response text with status 200 so chat clients can display them.
func (s *Server) Chat(w http.ResponseWriter, r *http.Request) {
	var body ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn("Chat: Invalid request body", "err", err)
		return
	}
	msg, ok := s.sanitize(w, body.Message)
	if !ok {
		return
	}

	req := domain.PlanRequest{
		Message:              msg,
		CurrentRole:          body.CurrentRole,
		TargetRole:           body.TargetRole,
		ConversationHistory:  body.ConversationHistory,
		ExistingLearningPath: body.CurrentLearningPath,
	}
	req.FollowUpFlag(body.IsFollowUp)

	var (
		res       *domain.PlanResult
		sessionID string
		err       error
	)
	if s.sessions != nil && body.SessionID != "" {
		ctx := WithSessionID(r.Context(), body.SessionID)
		var out *session.Outcome
		out, err = s.sessions.Continue(ctx, s.planner, body.SessionID, req)
		if err == nil {
			res, sessionID = out.Result, out.SessionID
		}
	} else {
		res, err = s.planner.Plan(r.Context(), req)
	}

	if errors.Is(err, domain.ErrEmptyMessage) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err != nil {
		s.logger.Error("Chat failed",
			"request_id", middleware.GetReqID(r.Context()),
			"session_id", body.SessionID,
			"err", err,
		)
		s.writeJSON(w, http.StatusOK, ChatResponse{
			Response: fmt.Sprintf("I encountered an error while processing your request: %v", err),
		})
		return
	}

	s.writeJSON(w, http.StatusOK, ChatResponse{
		Response:     res.Summary,
		MermaidChart: &res.MermaidChart,
		Data:         res,
		SessionID:    sessionID,
	})
}

// CreateCareerPlan handles POST /api/career-plan.
func (s *Server) CreateCareerPlan(w http.ResponseWriter, r *http.Request) {
	var body CareerPlanRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn("CareerPlan: Invalid request body", "err", err)
		return
	}
	msg, ok := s.sanitize(w, body.Message)
	if !ok {
		return
	}

	res, err := s.planner.Plan(r.Context(), domain.PlanRequest{
		Message:     msg,
		CurrentRole: body.CurrentRole,
		TargetRole:  body.TargetRole,
	})
	if errors.Is(err, domain.ErrEmptyMessage) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err != nil {
		s.logger.Error("CareerPlan failed", "request_id", middleware.GetReqID(r.Context()), "err", err)
		s.writeJSON(w, http.StatusInternalServerError, map[string]string{
			"detail": fmt.Sprintf("Failed to generate career plan: %v", err),
		})
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": res})
}

// GetGraph handles GET /api/graph.
func (s *Server) GetGraph(w http.ResponseWriter, r *http.Request) {
	var param *string
	if err := runtime.BindQueryParameter("form", true, false, "format", r.URL.Query(), &param); err != nil {
		http.Error(w, fmt.Sprintf("Invalid format parameter: %v", err), http.StatusBadRequest)
		return
	}
	format := "mermaid"
	if param != nil {
		format = *param
	}

	switch format {
	case "mermaid":
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		fmt.Fprint(w, graph.GenerateMermaid(s.transitions, nil))
	case "json":
		s.writeJSON(w, http.StatusOK, s.transitions)
	default:
		http.Error(w, fmt.Sprintf("Unknown format %q", format), http.StatusBadRequest)
	}
}

// GetSession handles GET /api/sessions/{id}.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	conv, err := s.sessions.Load(r.Context(), id)
	if errors.Is(err, domain.ErrSessionNotFound) {
		http.Error(w, "Session not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "Failed to load session", http.StatusInternalServerError)
		s.logger.Error("GetSession failed", "session_id", id, "err", err)
		return
	}
	s.writeJSON(w, http.StatusOK, conv)
}

// DeleteSession handles DELETE /api/sessions/{id}.
func (s *Server) DeleteSession(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.sessions.Delete(r.Context(), id); err != nil {
		http.Error(w, "Failed to delete session", http.StatusInternalServerError)
		s.logger.Error("DeleteSession failed", "session_id", id, "err", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SubscribeEvents handles GET /api/sessions/{id}/events (SSE). The optional
// types parameter filters by event type.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var param *[]string
	if err := runtime.BindQueryParameter("form", false, false, "types", r.URL.Query(), &param); err != nil {
		http.Error(w, fmt.Sprintf("Invalid types parameter: %v", err), http.StatusBadRequest)
		return
	}
	var types []string
	if param != nil {
		types = *param
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		s.logger.Error("SubscribeEvents: Streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch, cancel := s.streams.Subscribe(id)
	defer cancel()
	s.logger.Info("SSE: Subscribing to session events", "session_id", id)

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			s.logger.Info("SSE Client Disconnected", "session_id", id)
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			if len(types) > 0 && !matchesType(msg, types) {
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

func matchesType(msg string, types []string) bool {
	var ev streamEvent
	if err := json.Unmarshal([]byte(msg), &ev); err != nil {
		return true
	}
	for _, t := range types {
		if strings.TrimSpace(t) == string(ev.Type) {
			return true
		}
	}
	return false
}

func pathID(w http.ResponseWriter, r *http.Request) (string, bool) {
	var id string
	err := runtime.BindStyledParameterWithOptions("simple", "id", chi.URLParam(r, "id"), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		http.Error(w, fmt.Sprintf("Invalid format for parameter id: %v", err), http.StatusBadRequest)
		return "", false
	}
	return id, true
}

func (s *Server) sanitize(w http.ResponseWriter, msg string) (string, bool) {
	clean, err := sanitize.InputWithLimit(msg, s.maxInput)
	if err != nil {
		http.Error(w, fmt.Sprintf("Invalid input: %v", err), http.StatusBadRequest)
		s.logger.Warn("Input rejected", "err", err, "size", len(msg))
		return "", false
	}
	return clean, true
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Response encode failed", "err", err)
	}
}
