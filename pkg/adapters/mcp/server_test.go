package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/aretw0/careerpath"
	"github.com/aretw0/careerpath/internal/logging"
	"github.com/aretw0/careerpath/pkg/adapters/memory"
	"github.com/aretw0/careerpath/pkg/adapters/offline"
	"github.com/aretw0/careerpath/pkg/domain"
	"github.com/aretw0/careerpath/pkg/session"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPlanner struct {
	got domain.PlanRequest
}

func (p *recordingPlanner) Plan(_ context.Context, req domain.PlanRequest) (*domain.PlanResult, error) {
	p.got = req
	return &domain.PlanResult{Summary: "ok", TargetRole: req.TargetRole, LearningPath: req.ExistingLearningPath}, nil
}

func ptr[T any](v T) *T { return &v }

func TestPlanCareer_DecodesStructuredArgs(t *testing.T) {
	p := &recordingPlanner{}
	s := NewServer(p, WithLogger(logging.NewNop()))

	out, err := s.handlePlanCareer(context.Background(), mcp.CallToolRequest{}, PlanArgs{
		Message:              "shorten it",
		TargetRole:           "SRE",
		IsFollowUp:           ptr(true),
		ExistingLearningPath: `{"learningPhases":[{"phase":"Linux","duration":"1 month"}],"timeline":"6 months"}`,
		ConversationHistory:  `[{"role":"user","content":"hi"},{"role":"assistant","content":"hello"}]`,
	})
	require.NoError(t, err)

	assert.Equal(t, "ok", out.Plan.Summary)
	assert.Empty(t, out.SessionID)
	assert.True(t, p.got.IsFollowUp)
	require.NotNil(t, p.got.ExistingLearningPath)
	assert.Equal(t, "Linux", p.got.ExistingLearningPath.LearningPhases[0].Phase)
	assert.Len(t, p.got.ConversationHistory, 2)
}

func TestPlanCareer_RejectsMalformedJSON(t *testing.T) {
	s := NewServer(&recordingPlanner{}, WithLogger(logging.NewNop()))

	_, err := s.handlePlanCareer(context.Background(), mcp.CallToolRequest{}, PlanArgs{
		Message:             "x",
		ConversationHistory: "not json",
	})
	assert.ErrorContains(t, err, "conversation_history")
}

func TestPlanCareer_SessionRequiresManager(t *testing.T) {
	s := NewServer(&recordingPlanner{}, WithLogger(logging.NewNop()))

	_, err := s.handlePlanCareer(context.Background(), mcp.CallToolRequest{}, PlanArgs{Message: "x", SessionID: "s"})
	assert.Error(t, err)
}

func TestPlanCareer_SessionContinues(t *testing.T) {
	eng, err := careerpath.New(offline.New())
	require.NoError(t, err)
	mgr := session.NewManager(memory.NewStore())
	s := NewServer(eng, WithSessions(mgr), WithLogger(logging.NewNop()))

	first, err := s.handlePlanCareer(context.Background(), mcp.CallToolRequest{}, PlanArgs{
		Message:     "Plan my move",
		CurrentRole: "Chef",
		TargetRole:  "Product Manager",
		SessionID:   "mcp-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "mcp-1", first.SessionID)
	assert.False(t, first.Plan.IsFollowUp)

	second, err := s.handlePlanCareer(context.Background(), mcp.CallToolRequest{}, PlanArgs{Message: "Add more projects", SessionID: "mcp-1"})
	require.NoError(t, err)
	assert.True(t, second.Plan.IsFollowUp)
	assert.Equal(t, "Product Manager", second.Plan.TargetRole)

	third, err := s.handlePlanCareer(context.Background(), mcp.CallToolRequest{}, PlanArgs{
		Message:    "Plan a move into data analysis instead",
		TargetRole: "Data Analyst",
		IsFollowUp: ptr(false),
		SessionID:  "mcp-1",
	})
	require.NoError(t, err)
	assert.False(t, third.Plan.IsFollowUp)
	assert.Equal(t, "Data Analyst", third.Plan.TargetRole)
}

func TestGraphToolAndResource(t *testing.T) {
	eng, err := careerpath.New(offline.New())
	require.NoError(t, err)
	s := NewServer(eng, WithTransitions(eng.Transitions()), WithLogger(logging.NewNop()))

	res, err := s.handleGetGraph(context.Background(), mcp.CallToolRequest{})
	require.NoError(t, err)
	assert.False(t, res.IsError)
	require.Len(t, res.Content, 1)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	assert.Contains(t, text.Text, "graph TD")

	contents, err := s.readGraph(context.Background(), mcp.ReadResourceRequest{})
	require.NoError(t, err)
	require.Len(t, contents, 1)
	tc, ok := contents[0].(mcp.TextResourceContents)
	require.True(t, ok)
	var ts []domain.Transition
	require.NoError(t, json.Unmarshal([]byte(tc.Text), &ts))
	assert.Len(t, ts, 8)
}

func TestGraphTool_Unavailable(t *testing.T) {
	s := NewServer(&recordingPlanner{}, WithLogger(logging.NewNop()))
	res, err := s.handleGetGraph(context.Background(), mcp.CallToolRequest{})
	require.NoError(t, err)
	assert.True(t, res.IsError)
}
