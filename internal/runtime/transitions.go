package runtime

import "github.com/aretw0/careerpath/pkg/domain"

// transitions is the static pipeline. The supervisor's entry decision is the
// only hop not listed here.
var transitions = map[domain.AgentName]domain.AgentName{
	domain.SkillsAgent:    domain.IndustryAgent,
	domain.IndustryAgent:  domain.LearningAgent,
	domain.LearningAgent:  domain.ResourcesAgent,
	domain.ResourcesAgent: domain.End,
}

// Next returns the step that follows from. Unknown steps end the run.
func Next(from domain.AgentName) domain.AgentName {
	if to, ok := transitions[from]; ok {
		return to
	}
	return domain.End
}

// Transitions lists every edge of the pipeline: the dynamic supervisor edges
// first, then the static chain in execution order.
func Transitions() []domain.Transition {
	out := make([]domain.Transition, 0, 2*len(domain.EntryAgents))
	for _, entry := range domain.EntryAgents {
		out = append(out, domain.Transition{From: domain.Supervisor, To: entry, Dynamic: true})
	}
	for _, from := range domain.EntryAgents {
		out = append(out, domain.Transition{From: from, To: Next(from)})
	}
	return out
}

// Path returns the steps executed when the run enters at entry.
func Path(entry domain.AgentName) []domain.AgentName {
	var path []domain.AgentName
	for cur := entry; cur != domain.End && len(path) <= len(transitions); cur = Next(cur) {
		path = append(path, cur)
	}
	return path
}
