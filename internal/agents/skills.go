package agents

import (
	"context"

	"github.com/aretw0/careerpath/pkg/domain"
	"github.com/aretw0/careerpath/pkg/schema"
)

// SkillsAgent assesses current skills against the target role.
type SkillsAgent struct {
	deps Deps
	inv  *Invoker
}

func (a *SkillsAgent) Name() domain.AgentName { return domain.SkillsAgent }

func (a *SkillsAgent) Run(ctx context.Context, st *domain.SharedState) error {
	resp, err := a.inv.Invoke(ctx, st.RunID, a.Name(), domain.OracleRequest{
		System: skillsSystemPrompt,
		Turns:  []domain.Message{{Role: domain.RoleUser, Content: skillsPrompt(st)}},
	})
	if err != nil {
		return err
	}

	v := decodeOr(ctx, a.deps, st, a.Name(), resp.Content, schema.SkillsContract(), FallbackSkills)
	if err := st.SetSkillsAssessment(&v); err != nil {
		return err
	}
	st.Append(domain.Message{Role: domain.RoleAssistant, Name: a.Name().String(), Content: resp.Content})
	return nil
}
