package ports

import (
	"context"

	"github.com/aretw0/careerpath/pkg/domain"
)

// SessionStore defines the interface for persisting conversation context
// between turns. The orchestration core never touches it; transport
// adapters load a conversation, run the planner and save it back.
type SessionStore interface {
	// Save persists the conversation for a given session ID.
	Save(ctx context.Context, sessionID string, conv *domain.Conversation) error

	// Load retrieves the conversation for a given session ID.
	// Returns domain.ErrSessionNotFound if the session does not exist.
	Load(ctx context.Context, sessionID string) (*domain.Conversation, error)

	// Delete removes the conversation for a given session ID.
	Delete(ctx context.Context, sessionID string) error

	// List returns all active session IDs.
	List(ctx context.Context) ([]string, error)
}
