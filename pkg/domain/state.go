package domain

// SharedState is the record threaded through one orchestration run.
// It is created at run start, written by the agent owning each output field,
// read by every downstream agent and the summary assembler, and discarded
// when the run ends.
type SharedState struct {
	// RunID correlates log lines and hook events for a single run.
	RunID string `json:"run_id"`

	// Messages is append-only. Each step appends the turns it produced.
	Messages []Message `json:"messages"`

	CurrentRole string `json:"current_role,omitempty"`
	TargetRole  string `json:"target_role,omitempty"`

	// ConversationHistory and ExistingLearningPath are caller inputs and are
	// never mutated during the run.
	ConversationHistory  []Turn        `json:"conversation_history,omitempty"`
	ExistingLearningPath *LearningPath `json:"existing_learning_path,omitempty"`
	IsFollowUp           bool          `json:"is_follow_up"`

	SkillsAssessment *SkillsAssessment `json:"skills_assessment,omitempty"`
	IndustryInsights *IndustryInsights `json:"industry_insights,omitempty"`
	LearningPath     *LearningPath     `json:"learning_path,omitempty"`
	Resources        *Resources        `json:"resources,omitempty"`

	// MermaidChart is carried in the response shape but no agent fills it.
	MermaidChart string `json:"mermaid_chart,omitempty"`

	NextAgent AgentName `json:"next_agent,omitempty"`

	// Visited lists the agents executed so far, in order.
	Visited []AgentName `json:"visited,omitempty"`
}

// NewSharedState builds the initial state for a run from a caller request.
func NewSharedState(runID string, req PlanRequest) *SharedState {
	return &SharedState{
		RunID:                runID,
		Messages:             []Message{{Role: RoleUser, Content: req.Message}},
		CurrentRole:          req.CurrentRole,
		TargetRole:           req.TargetRole,
		ConversationHistory:  req.ConversationHistory,
		ExistingLearningPath: req.ExistingLearningPath,
		IsFollowUp:           req.IsFollowUp,
	}
}

// LatestUserMessage returns the content of the most recent user turn.
func (s *SharedState) LatestUserMessage() string {
	for i := len(s.Messages) - 1; i >= 0; i-- {
		if s.Messages[i].Role == RoleUser {
			return s.Messages[i].Content
		}
	}
	return ""
}

// Append records turns produced by the step that just ran.
func (s *SharedState) Append(msgs ...Message) {
	s.Messages = append(s.Messages, msgs...)
}

// RefineMode reports whether the learning path should be refined instead of
// produced from scratch.
func (s *SharedState) RefineMode() bool {
	return s.IsFollowUp && s.ExistingLearningPath != nil
}

// SetNextAgent records the supervisor's routing decision.
func (s *SharedState) SetNextAgent(name AgentName) error {
	if s.NextAgent != "" {
		return &FieldWrittenError{Field: "next_agent"}
	}
	s.NextAgent = name
	return nil
}

// SetSkillsAssessment writes the skills agent output.
func (s *SharedState) SetSkillsAssessment(v *SkillsAssessment) error {
	if s.SkillsAssessment != nil {
		return &FieldWrittenError{Field: "skills_assessment"}
	}
	s.SkillsAssessment = v
	return nil
}

// SetIndustryInsights writes the industry agent output.
func (s *SharedState) SetIndustryInsights(v *IndustryInsights) error {
	if s.IndustryInsights != nil {
		return &FieldWrittenError{Field: "industry_insights"}
	}
	s.IndustryInsights = v
	return nil
}

// SetLearningPath writes the learning agent output.
func (s *SharedState) SetLearningPath(v *LearningPath) error {
	if s.LearningPath != nil {
		return &FieldWrittenError{Field: "learning_path"}
	}
	s.LearningPath = v
	return nil
}

// SetResources writes the resources agent output.
func (s *SharedState) SetResources(v *Resources) error {
	if s.Resources != nil {
		return &FieldWrittenError{Field: "resources"}
	}
	s.Resources = v
	return nil
}

// PrioritySkills returns the skills the resources agent should search for.
func (s *SharedState) PrioritySkills() []string {
	if s.SkillsAssessment == nil {
		return nil
	}
	return s.SkillsAssessment.PrioritySkills
}
