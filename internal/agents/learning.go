package agents

import (
	"context"

	"github.com/aretw0/careerpath/pkg/domain"
	"github.com/aretw0/careerpath/pkg/schema"
)

// LearningAgent creates a phased roadmap, or refines the caller's existing
// one when the request is a follow-up.
type LearningAgent struct {
	deps Deps
	inv  *Invoker
}

func (a *LearningAgent) Name() domain.AgentName { return domain.LearningAgent }

func (a *LearningAgent) Run(ctx context.Context, st *domain.SharedState) error {
	refine := st.RefineMode()

	resp, err := a.inv.Invoke(ctx, st.RunID, a.Name(), domain.OracleRequest{
		System: learningSystemPrompt,
		Turns:  []domain.Message{{Role: domain.RoleUser, Content: learningPrompt(st)}},
	})
	if err != nil {
		return err
	}

	fallback := FallbackLearningPath
	if refine {
		existing := st.ExistingLearningPath
		fallback = func() domain.LearningPath { return FallbackRefinement(existing) }
	}

	v := decodeOr(ctx, a.deps, st, a.Name(), resp.Content, schema.LearningContract(refine), fallback)
	if err := st.SetLearningPath(&v); err != nil {
		return err
	}
	st.Append(domain.Message{Role: domain.RoleAssistant, Name: a.Name().String(), Content: resp.Content})
	return nil
}
