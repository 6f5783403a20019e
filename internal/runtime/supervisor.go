package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aretw0/careerpath/internal/agents"
	"github.com/aretw0/careerpath/pkg/domain"
)

const supervisorSystemPrompt = `You are the Career Supervisor Agent, the orchestrator of a multi-agent career planning system.

Decide which agent should handle the request first:
- skills_agent: new plans, or questions about skills, gaps and abilities
- industry_agent: questions about the industry, market, salary or demand
- learning_agent: questions about the timeline, phases or roadmap
- resources_agent: questions about courses, books, certifications or other resources

For follow-up questions, pick the earliest agent whose output needs updating; later agents always run after it.

Respond with ONLY the agent name: skills_agent, industry_agent, learning_agent, or resources_agent.`

// keywordRoutes is checked in order; the first group with a match wins.
var keywordRoutes = []struct {
	agent    domain.AgentName
	keywords []string
}{
	{domain.SkillsAgent, []string{"skill", "gap", "learn", "ability"}},
	{domain.IndustryAgent, []string{"industry", "market", "salary", "demand"}},
	{domain.LearningAgent, []string{"timeline", "phase", "roadmap", "path", "step"}},
	{domain.ResourcesAgent, []string{"course", "resource", "book", "certification"}},
}

// RouteByKeywords is the deterministic routing used when the oracle's answer
// is not a valid agent name.
func RouteByKeywords(message string) domain.AgentName {
	msg := strings.ToLower(message)
	for _, r := range keywordRoutes {
		for _, kw := range r.keywords {
			if strings.Contains(msg, kw) {
				return r.agent
			}
		}
	}
	return domain.SkillsAgent
}

// SummarizeExistingPlan renders the short plan description shown to the
// supervisor: the timeline and at most three phase names.
func SummarizeExistingPlan(p *domain.LearningPath) string {
	if p == nil {
		return "None"
	}
	if len(p.LearningPhases) == 0 {
		return "Basic plan without specific phases"
	}
	n := len(p.LearningPhases)
	if n > 3 {
		n = 3
	}
	names := make([]string, n)
	for i := 0; i < n; i++ {
		names[i] = p.LearningPhases[i].Phase
		if names[i] == "" {
			names[i] = "Unnamed"
		}
	}
	timeline := p.Timeline
	if timeline == "" {
		timeline = "No timeline specified"
	}
	return fmt.Sprintf("Timeline: %s, Phases: %s", timeline, strings.Join(names, ", "))
}

// Supervisor chooses the entry agent for a run.
type Supervisor struct {
	inv    *agents.Invoker
	hooks  domain.LifecycleHooks
	logger *slog.Logger
}

// NewSupervisor creates a Supervisor sharing the agents' oracle settings.
func NewSupervisor(inv *agents.Invoker, hooks domain.LifecycleHooks, logger *slog.Logger) *Supervisor {
	return &Supervisor{inv: inv, hooks: hooks, logger: logger}
}

// Route asks the oracle for the entry agent, falling back to keyword routing
// when the answer is not an entry agent name. It records the decision in
// st.NextAgent. Only oracle failures are returned as errors.
func (s *Supervisor) Route(ctx context.Context, st *domain.SharedState) (domain.AgentName, error) {
	resp, err := s.inv.Invoke(ctx, st.RunID, domain.Supervisor, domain.OracleRequest{
		System: supervisorSystemPrompt,
		Turns:  []domain.Message{{Role: domain.RoleUser, Content: routingContext(st)}},
	})
	if err != nil {
		return "", err
	}

	source := domain.RouteFromOracle
	next, perr := domain.ParseEntryAgent(resp.Content)
	if perr != nil {
		next = RouteByKeywords(st.LatestUserMessage())
		source = domain.RouteFromHeuristic
		s.logger.Debug("Routing answer rejected, using keywords",
			slog.String("run_id", st.RunID),
			slog.String("answer", resp.Content),
			slog.String("agent", next.String()),
		)
	}

	if err := st.SetNextAgent(next); err != nil {
		return "", err
	}
	if s.hooks.OnRoute != nil {
		s.hooks.OnRoute(ctx, &domain.RouteEvent{
			EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventRoute, RunID: st.RunID},
			Agent:     next,
			Source:    source,
		})
	}
	return next, nil
}

func routingContext(st *domain.SharedState) string {
	orNA := func(s string) string {
		if s == "" {
			return "Not specified"
		}
		return s
	}
	existing := "None"
	if st.ExistingLearningPath != nil {
		existing = SummarizeExistingPlan(st.ExistingLearningPath)
	}

	var b strings.Builder
	b.WriteString("CONTEXT:\n")
	fmt.Fprintf(&b, "- Is Follow-up: %t\n", st.IsFollowUp)
	fmt.Fprintf(&b, "- Has Existing Plan: %t\n", st.ExistingLearningPath != nil)
	fmt.Fprintf(&b, "- Conversation History Length: %d\n", len(st.ConversationHistory))
	fmt.Fprintf(&b, "- Current Role: %s\n", orNA(st.CurrentRole))
	fmt.Fprintf(&b, "- Target Role: %s\n", orNA(st.TargetRole))
	fmt.Fprintf(&b, "\nUSER REQUEST: %s\n", st.LatestUserMessage())
	fmt.Fprintf(&b, "\nEXISTING PLAN SUMMARY: %s\n", existing)
	b.WriteString("\nWhich agent should handle this request first?")
	return b.String()
}
