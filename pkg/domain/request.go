package domain

// PlanRequest is the boundary input for one orchestration run.
type PlanRequest struct {
	Message              string        `json:"message"`
	CurrentRole          string        `json:"current_role,omitempty"`
	TargetRole           string        `json:"target_role,omitempty"`
	ConversationHistory  []Turn        `json:"conversation_history,omitempty"`
	ExistingLearningPath *LearningPath `json:"existing_learning_path,omitempty"`
	IsFollowUp           bool          `json:"is_follow_up,omitempty"`

	// StartOver tells session-aware callers to build a new plan instead of
	// refining the one stored for the session.
	StartOver bool `json:"start_over,omitempty"`
}

// FollowUpFlag maps an optional is_follow_up value onto a request. Nil leaves
// the decision to the session, false starts over.
func (r *PlanRequest) FollowUpFlag(v *bool) {
	if v == nil {
		return
	}
	r.IsFollowUp = *v
	r.StartOver = !*v
}

// PlanResult is the boundary output of a completed run.
type PlanResult struct {
	Summary          string            `json:"message"`
	MermaidChart     string            `json:"mermaid_chart"`
	SkillsAssessment *SkillsAssessment `json:"skills_assessment"`
	IndustryInsights *IndustryInsights `json:"industry_insights"`
	LearningPath     *LearningPath     `json:"learning_path"`
	Resources        *Resources        `json:"resources"`
	CurrentRole      string            `json:"current_role,omitempty"`
	TargetRole       string            `json:"target_role,omitempty"`
	IsFollowUp       bool              `json:"is_follow_up"`

	// Route is the entry agent chosen by the supervisor.
	Route AgentName `json:"route,omitempty"`
}
