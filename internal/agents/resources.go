package agents

import (
	"context"

	"github.com/aretw0/careerpath/pkg/domain"
	"github.com/aretw0/careerpath/pkg/schema"
)

// ResourcesAgent recommends courses, certifications and communities, using
// live search through the tool loop when tools are registered.
type ResourcesAgent struct {
	deps Deps
	loop *ToolLoop
}

func (a *ResourcesAgent) Name() domain.AgentName { return domain.ResourcesAgent }

func (a *ResourcesAgent) Run(ctx context.Context, st *domain.SharedState) error {
	resp, err := a.loop.Run(ctx, st.RunID, a.Name(), resourcesSystemPrompt,
		[]domain.Message{{Role: domain.RoleUser, Content: resourcesPrompt(st)}})
	if err != nil {
		return err
	}

	v := decodeOr(ctx, a.deps, st, a.Name(), resp.Content, schema.ResourcesContract(), FallbackResources)
	// Stamped whether or not a search actually ran.
	v.SearchEnabled = true
	v.LastUpdated = ResourcesStamp

	if err := st.SetResources(&v); err != nil {
		return err
	}
	st.Append(domain.Message{Role: domain.RoleAssistant, Name: a.Name().String(), Content: resp.Content})
	return nil
}
