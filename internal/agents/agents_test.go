package agents_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/aretw0/careerpath/internal/agents"
	"github.com/aretw0/careerpath/pkg/domain"
	"github.com/aretw0/careerpath/pkg/registry"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedOracle replays responses in order and records every request.
type scriptedOracle struct {
	mu        sync.Mutex
	responses []domain.OracleResponse
	err       error
	requests  []domain.OracleRequest
}

func (o *scriptedOracle) Invoke(_ context.Context, req domain.OracleRequest) (domain.OracleResponse, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.requests = append(o.requests, req)
	if o.err != nil {
		return domain.OracleResponse{}, o.err
	}
	if len(o.responses) == 0 {
		return domain.OracleResponse{Content: "no more scripted responses"}, nil
	}
	r := o.responses[0]
	o.responses = o.responses[1:]
	return r, nil
}

func text(s string) domain.OracleResponse { return domain.OracleResponse{Content: s} }

func newState(req domain.PlanRequest) *domain.SharedState {
	return domain.NewSharedState("run-test", req)
}

func run(t *testing.T, d agents.Deps, name domain.AgentName, st *domain.SharedState) error {
	t.Helper()
	a, ok := agents.Pipeline(d)[name]
	require.True(t, ok)
	return a.Run(context.Background(), st)
}

func TestSkillsAgent_ParsesValidOutput(t *testing.T) {
	oracle := &scriptedOracle{responses: []domain.OracleResponse{text("```json\n" + `{
		"currentSkills": ["SQL"],
		"requiredSkills": ["SQL", "Python", "Statistics"],
		"skillGaps": ["Python", "Statistics"],
		"strengths": ["Reporting"],
		"prioritySkills": ["Python"]
	}` + "\n```")}}
	st := newState(domain.PlanRequest{Message: "Data analyst to data scientist", CurrentRole: "Data Analyst", TargetRole: "Data Scientist"})

	require.NoError(t, run(t, agents.Deps{Oracle: oracle}, domain.SkillsAgent, st))

	want := &domain.SkillsAssessment{
		CurrentSkills:  []string{"SQL"},
		RequiredSkills: []string{"SQL", "Python", "Statistics"},
		SkillGaps:      []string{"Python", "Statistics"},
		Strengths:      []string{"Reporting"},
		PrioritySkills: []string{"Python"},
	}
	if diff := cmp.Diff(want, st.SkillsAssessment); diff != "" {
		t.Errorf("skills assessment mismatch (-want +got):\n%s", diff)
	}
	require.Len(t, oracle.requests, 1)
	assert.Empty(t, oracle.requests[0].Tools)
	assert.Contains(t, oracle.requests[0].Turns[0].Content, "Data Scientist")

	last := st.Messages[len(st.Messages)-1]
	assert.Equal(t, domain.RoleAssistant, last.Role)
	assert.Equal(t, "skills_agent", last.Name)
}

func TestSkillsAgent_Fallback(t *testing.T) {
	var fallbacks []domain.AgentName
	d := agents.Deps{
		Oracle: &scriptedOracle{responses: []domain.OracleResponse{text("Sure! You should learn leadership.")}},
		Hooks: domain.LifecycleHooks{
			OnFallback: func(_ context.Context, e *domain.FallbackEvent) { fallbacks = append(fallbacks, e.Agent) },
		},
	}
	st := newState(domain.PlanRequest{Message: "help"})

	require.NoError(t, run(t, d, domain.SkillsAgent, st))

	want := agents.FallbackSkills()
	if diff := cmp.Diff(&want, st.SkillsAssessment); diff != "" {
		t.Errorf("fallback mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []string{"Leadership", "Data analysis", "Project management"}, st.SkillsAssessment.PrioritySkills)
	assert.Equal(t, []domain.AgentName{domain.SkillsAgent}, fallbacks)
}

func TestIndustryAgent_FallbackOnMissingField(t *testing.T) {
	oracle := &scriptedOracle{responses: []domain.OracleResponse{text(`{"industryOverview": "Booming"}`)}}
	st := newState(domain.PlanRequest{Message: "what about salary?"})

	require.NoError(t, run(t, agents.Deps{Oracle: oracle}, domain.IndustryAgent, st))

	want := domain.IndustryInsights{
		IndustryOverview: "Growing technology sector with high demand for skilled professionals",
		MarketDemand:     "High - Strong demand with projected growth",
		SalaryRange:      domain.SalaryRange{Min: 70000, Max: 130000, Currency: "USD"},
		GrowthProjection: "15% annually",
		KeyCompanies:     []string{"Google", "Microsoft", "Amazon", "Meta", "Apple"},
		EmergingTrends:   []string{"AI/ML adoption", "Remote work", "Cloud computing"},
		JobOpportunities: []string{"Senior roles", "Leadership positions", "Specialized consulting"},
	}
	if diff := cmp.Diff(&want, st.IndustryInsights); diff != "" {
		t.Errorf("fallback mismatch (-want +got):\n%s", diff)
	}
}

func TestIndustryAgent_FallbackOnOverflowingSalary(t *testing.T) {
	oracle := &scriptedOracle{responses: []domain.OracleResponse{text(`{
		"industryOverview": "Booming", "marketDemand": "High",
		"salaryRange": {"min": 1e20, "max": -5e19, "currency": "USD"},
		"growthProjection": "5%", "keyCompanies": ["Acme"], "emergingTrends": [], "jobOpportunities": []
	}`)}}
	st := newState(domain.PlanRequest{Message: "salary outlook"})

	require.NoError(t, run(t, agents.Deps{Oracle: oracle}, domain.IndustryAgent, st))

	assert.Equal(t, domain.SalaryRange{Min: 70000, Max: 130000, Currency: "USD"}, st.IndustryInsights.SalaryRange)
	assert.Equal(t, "Growing technology sector with high demand for skilled professionals", st.IndustryInsights.IndustryOverview)
}

func TestIndustryAgent_SeesSkillsAssessment(t *testing.T) {
	oracle := &scriptedOracle{}
	st := newState(domain.PlanRequest{Message: "plan"})
	fb := agents.FallbackSkills()
	require.NoError(t, st.SetSkillsAssessment(&fb))

	require.NoError(t, run(t, agents.Deps{Oracle: oracle}, domain.IndustryAgent, st))
	require.Len(t, oracle.requests, 1)
	assert.Contains(t, oracle.requests[0].Turns[0].Content, "Project management")
}

func TestLearningAgent_CreateFallback(t *testing.T) {
	oracle := &scriptedOracle{responses: []domain.OracleResponse{text("not json")}}
	st := newState(domain.PlanRequest{Message: "make me a roadmap"})

	require.NoError(t, run(t, agents.Deps{Oracle: oracle}, domain.LearningAgent, st))

	want := agents.FallbackLearningPath()
	if diff := cmp.Diff(&want, st.LearningPath); diff != "" {
		t.Errorf("fallback mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "6-8 months total", st.LearningPath.Timeline)
	assert.Len(t, st.LearningPath.LearningPhases, 3)
}

func TestLearningAgent_RefineFallbackKeepsExistingPlan(t *testing.T) {
	existing := &domain.LearningPath{
		LearningPhases: []domain.LearningPhase{{Phase: "Basics", Duration: "1mo"}},
		Timeline:       "3mo",
	}
	oracle := &scriptedOracle{responses: []domain.OracleResponse{text("I changed things, trust me")}}
	st := newState(domain.PlanRequest{
		Message:              "Make it faster",
		IsFollowUp:           true,
		ExistingLearningPath: existing,
	})

	require.NoError(t, run(t, agents.Deps{Oracle: oracle}, domain.LearningAgent, st))

	require.NotNil(t, st.LearningPath)
	assert.Equal(t, "3mo", st.LearningPath.Timeline)
	assert.Equal(t, agents.RefineMarker, st.LearningPath.ChangesMade)
	assert.Equal(t, existing.LearningPhases, st.LearningPath.LearningPhases)

	// The caller's snapshot is untouched.
	assert.Empty(t, existing.ChangesMade)
	st.LearningPath.LearningPhases[0].Phase = "mutated"
	assert.Equal(t, "Basics", existing.LearningPhases[0].Phase)

	assert.Contains(t, oracle.requests[0].Turns[0].Content, "EXISTING LEARNING PATH TO MODIFY")
}

func TestLearningAgent_RefineRequiresChangesMade(t *testing.T) {
	existing := &domain.LearningPath{
		LearningPhases: []domain.LearningPhase{{Phase: "Basics", Duration: "1mo"}},
		Timeline:       "3mo",
	}
	// Valid create-mode output but missing changesMade.
	oracle := &scriptedOracle{responses: []domain.OracleResponse{text(`{"learningPhases": [{"phase": "Fast", "duration": "2w"}], "timeline": "2mo"}`)}}
	st := newState(domain.PlanRequest{Message: "faster", IsFollowUp: true, ExistingLearningPath: existing})

	require.NoError(t, run(t, agents.Deps{Oracle: oracle}, domain.LearningAgent, st))
	assert.Equal(t, "3mo", st.LearningPath.Timeline)
	assert.Equal(t, agents.RefineMarker, st.LearningPath.ChangesMade)
}

func TestLearningAgent_FollowUpWithoutPlanCreates(t *testing.T) {
	oracle := &scriptedOracle{responses: []domain.OracleResponse{text(`{"learningPhases": [{"phase": "Fast", "duration": "2w"}], "timeline": "2mo"}`)}}
	st := newState(domain.PlanRequest{Message: "faster", IsFollowUp: true})

	require.NoError(t, run(t, agents.Deps{Oracle: oracle}, domain.LearningAgent, st))
	assert.Equal(t, "2mo", st.LearningPath.Timeline)
	assert.Empty(t, st.LearningPath.ChangesMade)
}

func TestAgent_OracleErrorIsFatal(t *testing.T) {
	boom := errors.New("401 unauthorized")
	st := newState(domain.PlanRequest{Message: "plan"})

	err := run(t, agents.Deps{Oracle: &scriptedOracle{err: boom}}, domain.SkillsAgent, st)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)

	var oe *domain.OracleError
	require.True(t, errors.As(err, &oe))
	assert.Equal(t, domain.SkillsAgent, oe.Step)
	assert.Nil(t, st.SkillsAssessment)
}

const resourcesJSON = `{
  "courses": [{"title": "Kubernetes Fundamentals", "provider": "CNCF", "url": "https://example.com/k8s", "level": "Beginner"}],
  "certifications": [{"title": "CKA", "provider": "Linux Foundation", "cost": "$395"}],
  "books": ["Kubernetes Up & Running"],
  "practicePlatforms": ["Killercoda"],
  "communities": ["CNCF Slack"],
  "freeResources": ["kubernetes.io docs"]
}`

type countingSearcher struct {
	mu      sync.Mutex
	queries []string
}

func (s *countingSearcher) Search(_ context.Context, query string, _ int) ([]domain.SearchResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queries = append(s.queries, query)
	return []domain.SearchResult{{Title: "Result for " + query, URL: "https://example.com"}}, nil
}

func searchRegistry(s *countingSearcher) *registry.Registry {
	r := registry.NewRegistry()
	registry.RegisterSearch(r, s)
	return r
}

func TestResourcesAgent_NoToolCalls(t *testing.T) {
	oracle := &scriptedOracle{responses: []domain.OracleResponse{text(resourcesJSON)}}
	st := newState(domain.PlanRequest{Message: "resources", TargetRole: "Platform Engineer"})

	require.NoError(t, run(t, agents.Deps{Oracle: oracle, Tools: searchRegistry(&countingSearcher{})}, domain.ResourcesAgent, st))

	require.Len(t, oracle.requests, 1)
	assert.Len(t, oracle.requests[0].Tools, 1)
	assert.Equal(t, "Kubernetes Fundamentals", st.Resources.Courses[0].Title)
	assert.True(t, st.Resources.SearchEnabled, "stamped even without a search")
	assert.Equal(t, agents.ResourcesStamp, st.Resources.LastUpdated)
}

func TestResourcesAgent_ParsesFenceAfterProse(t *testing.T) {
	reply := "Based on the search results, here are my recommendations:\n```json\n" + resourcesJSON + "\n```"
	oracle := &scriptedOracle{responses: []domain.OracleResponse{text(reply)}}
	st := newState(domain.PlanRequest{Message: "resources"})

	require.NoError(t, run(t, agents.Deps{Oracle: oracle, Tools: searchRegistry(&countingSearcher{})}, domain.ResourcesAgent, st))

	require.Len(t, st.Resources.Courses, 1)
	assert.Equal(t, "Kubernetes Fundamentals", st.Resources.Courses[0].Title)
	assert.Equal(t, "CNCF", st.Resources.Courses[0].Provider)
}

func TestResourcesAgent_OneToolCall(t *testing.T) {
	searcher := &countingSearcher{}
	oracle := &scriptedOracle{responses: []domain.OracleResponse{
		{ToolCalls: []domain.ToolCall{{ID: "call_1", Name: registry.SearchToolName, Args: map[string]any{"query": "CKA certification"}}}},
		text(resourcesJSON),
	}}
	st := newState(domain.PlanRequest{Message: "resources"})

	require.NoError(t, run(t, agents.Deps{Oracle: oracle, Tools: searchRegistry(searcher)}, domain.ResourcesAgent, st))

	require.Len(t, oracle.requests, 2)
	assert.Equal(t, []string{"CKA certification"}, searcher.queries)

	second := oracle.requests[1]
	assert.Empty(t, second.Tools, "tools disabled on the final round")
	turns := second.Turns
	require.Len(t, turns, 4)
	assert.Equal(t, domain.RoleAssistant, turns[1].Role)
	assert.Equal(t, domain.RoleTool, turns[2].Role)
	assert.Equal(t, "call_1", turns[2].ToolCallID)
	assert.Contains(t, turns[2].Content, "Result for CKA certification")
	assert.Equal(t, agents.FinalAnswerInstruction, turns[3].Content)
	assert.Equal(t, "CKA", st.Resources.Certifications[0].Title)
}

func TestResourcesAgent_ManyToolCallsStillTwoRounds(t *testing.T) {
	searcher := &countingSearcher{}
	oracle := &scriptedOracle{responses: []domain.OracleResponse{
		{ToolCalls: []domain.ToolCall{
			{ID: "a", Name: registry.SearchToolName, Args: map[string]any{"query": "q1"}},
			{ID: "b", Name: "calculator", Args: map[string]any{"x": 1}},
			{ID: "c", Name: registry.SearchToolName, RawArgs: `{"query": "q3", "max_results": 2}`},
			{ID: "d", Name: registry.SearchToolName, RawArgs: `{not json`},
			{ID: "e", Name: registry.SearchToolName, Args: map[string]any{}},
		}},
		// Even if the oracle asks for more tools, the loop stops here.
		{ToolCalls: []domain.ToolCall{{ID: "f", Name: registry.SearchToolName, Args: map[string]any{"query": "q6"}}}},
	}}
	st := newState(domain.PlanRequest{Message: "resources"})

	require.NoError(t, run(t, agents.Deps{Oracle: oracle, Tools: searchRegistry(searcher)}, domain.ResourcesAgent, st))

	require.Len(t, oracle.requests, 2)
	assert.Equal(t, []string{"q1", "q3"}, searcher.queries)

	toolTurns := map[string]string{}
	for _, m := range oracle.requests[1].Turns {
		if m.Role == domain.RoleTool {
			toolTurns[m.ToolCallID] = m.Content
		}
	}
	require.Len(t, toolTurns, 5)

	var unknown map[string]string
	require.NoError(t, json.Unmarshal([]byte(toolTurns["b"]), &unknown))
	assert.Equal(t, "Unknown tool: calculator", unknown["error"])
	assert.Contains(t, toolTurns["d"], "Tool execution failed")
	assert.Contains(t, toolTurns["e"], "Tool execution failed")
	assert.NotContains(t, toolTurns["a"], "error")

	// Second round returned no content, so the catalog is used.
	want := agents.FallbackResources()
	want.SearchEnabled = true
	want.LastUpdated = agents.ResourcesStamp
	if diff := cmp.Diff(&want, st.Resources); diff != "" {
		t.Errorf("fallback mismatch (-want +got):\n%s", diff)
	}
}

func TestResourcesAgent_EmptyRegistryDisablesTools(t *testing.T) {
	oracle := &scriptedOracle{responses: []domain.OracleResponse{
		{Content: resourcesJSON, ToolCalls: []domain.ToolCall{{ID: "x", Name: registry.SearchToolName}}},
	}}
	st := newState(domain.PlanRequest{Message: "resources"})

	require.NoError(t, run(t, agents.Deps{Oracle: oracle}, domain.ResourcesAgent, st))
	require.Len(t, oracle.requests, 1)
	assert.Empty(t, oracle.requests[0].Tools)
	assert.Equal(t, "CNCF", st.Resources.Courses[0].Provider)
}

func TestResourcesAgent_MissingCallIDIsAssigned(t *testing.T) {
	var returned []string
	d := agents.Deps{
		Oracle: &scriptedOracle{responses: []domain.OracleResponse{
			{ToolCalls: []domain.ToolCall{{Name: registry.SearchToolName, Args: map[string]any{"query": "go"}}}},
			text(resourcesJSON),
		}},
		Tools: searchRegistry(&countingSearcher{}),
		Hooks: domain.LifecycleHooks{
			OnToolReturn: func(_ context.Context, e *domain.ToolEvent) { returned = append(returned, e.CallID) },
		},
	}
	st := newState(domain.PlanRequest{Message: "resources"})

	require.NoError(t, run(t, d, domain.ResourcesAgent, st))
	require.Len(t, returned, 1)
	assert.NotEmpty(t, returned[0])
}

func TestResourcesAgent_SecondRoundOracleError(t *testing.T) {
	oracle := &failSecond{first: domain.OracleResponse{
		ToolCalls: []domain.ToolCall{{ID: "a", Name: registry.SearchToolName, Args: map[string]any{"query": "q"}}},
	}}
	st := newState(domain.PlanRequest{Message: "resources"})

	err := run(t, agents.Deps{Oracle: oracle, Tools: searchRegistry(&countingSearcher{})}, domain.ResourcesAgent, st)
	assert.True(t, domain.IsOracleError(err))
	assert.Nil(t, st.Resources)
}

type failSecond struct {
	first domain.OracleResponse
	calls int
}

func (f *failSecond) Invoke(context.Context, domain.OracleRequest) (domain.OracleResponse, error) {
	f.calls++
	if f.calls == 1 {
		return f.first, nil
	}
	return domain.OracleResponse{}, errors.New("connection reset")
}
