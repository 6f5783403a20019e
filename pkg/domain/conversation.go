package domain

import "time"

// Conversation is the per-session context kept by transport adapters between
// turns. The orchestration core never reads or writes it directly.
type Conversation struct {
	ID           string        `json:"id"`
	CurrentRole  string        `json:"current_role,omitempty"`
	TargetRole   string        `json:"target_role,omitempty"`
	History      []Turn        `json:"history,omitempty"`
	LearningPath *LearningPath `json:"learning_path,omitempty"`
	UpdatedAt    time.Time     `json:"updated_at"`

	// Sealed carries the encrypted conversation when a store seals it. The
	// remaining fields are then empty except ID and UpdatedAt.
	Sealed []byte `json:"sealed,omitempty"`
}

// NewConversation creates an empty conversation.
func NewConversation(id string) *Conversation {
	return &Conversation{ID: id, UpdatedAt: time.Now()}
}

// Clone returns a deep copy, used by stores to isolate callers from storage.
func (c *Conversation) Clone() *Conversation {
	if c == nil {
		return nil
	}
	out := *c
	if c.History != nil {
		out.History = make([]Turn, len(c.History))
		copy(out.History, c.History)
	}
	out.LearningPath = c.LearningPath.Clone()
	if c.Sealed != nil {
		out.Sealed = append([]byte(nil), c.Sealed...)
	}
	return &out
}

// HasPlan reports whether a learning path exists to refine.
func (c *Conversation) HasPlan() bool {
	return c.LearningPath != nil
}
