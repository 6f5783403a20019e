package domain

import (
	"fmt"
	"strings"
)

// AgentName identifies a pipeline step. Only the constants below are valid.
type AgentName string

const (
	Supervisor     AgentName = "supervisor"
	SkillsAgent    AgentName = "skills_agent"
	IndustryAgent  AgentName = "industry_agent"
	LearningAgent  AgentName = "learning_agent"
	ResourcesAgent AgentName = "resources_agent"
	End            AgentName = "__end__"
)

// EntryAgents are the agents the supervisor may route to, in pipeline order.
var EntryAgents = []AgentName{SkillsAgent, IndustryAgent, LearningAgent, ResourcesAgent}

// IsEntry reports whether n is a valid supervisor routing target.
func (n AgentName) IsEntry() bool {
	for _, e := range EntryAgents {
		if n == e {
			return true
		}
	}
	return false
}

func (n AgentName) String() string { return string(n) }

// ParseEntryAgent validates a routing answer. Matching is case-insensitive
// and ignores surrounding whitespace; anything else is ErrInvalidRoute.
func ParseEntryAgent(s string) (AgentName, error) {
	candidate := AgentName(strings.ToLower(strings.TrimSpace(s)))
	if candidate.IsEntry() {
		return candidate, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidRoute, s)
}
