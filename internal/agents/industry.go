package agents

import (
	"context"

	"github.com/aretw0/careerpath/pkg/domain"
	"github.com/aretw0/careerpath/pkg/schema"
)

// IndustryAgent researches market demand and compensation for the target role.
type IndustryAgent struct {
	deps Deps
	inv  *Invoker
}

func (a *IndustryAgent) Name() domain.AgentName { return domain.IndustryAgent }

func (a *IndustryAgent) Run(ctx context.Context, st *domain.SharedState) error {
	resp, err := a.inv.Invoke(ctx, st.RunID, a.Name(), domain.OracleRequest{
		System: industrySystemPrompt,
		Turns:  []domain.Message{{Role: domain.RoleUser, Content: industryPrompt(st)}},
	})
	if err != nil {
		return err
	}

	v := decodeOr(ctx, a.deps, st, a.Name(), resp.Content, schema.IndustryContract(), FallbackIndustry)
	if err := st.SetIndustryInsights(&v); err != nil {
		return err
	}
	st.Append(domain.Message{Role: domain.RoleAssistant, Name: a.Name().String(), Content: resp.Content})
	return nil
}
