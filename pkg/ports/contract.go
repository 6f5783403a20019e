package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/careerpath/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunSessionStoreContract runs a suite of tests to verify that a SessionStore
// implementation adheres to the defined interface contract.
func RunSessionStoreContract(t *testing.T, store SessionStore) {
	ctx := context.Background()
	sessionID := "contract-test-session-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		conv := domain.NewConversation(sessionID)
		conv.CurrentRole = "Junior Developer"
		conv.TargetRole = "Senior Developer"
		conv.History = []domain.Turn{
			{Role: "user", Content: "I want to grow"},
			{Role: "assistant", Content: "Here is your plan"},
		}
		conv.LearningPath = &domain.LearningPath{
			LearningPhases: []domain.LearningPhase{{Phase: "Basics", Duration: "1mo"}},
			Timeline:       "3mo",
		}

		err := store.Save(ctx, sessionID, conv)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, conv.CurrentRole, loaded.CurrentRole)
		assert.Equal(t, conv.TargetRole, loaded.TargetRole)
		assert.Equal(t, conv.History, loaded.History)
		require.NotNil(t, loaded.LearningPath)
		assert.Equal(t, "3mo", loaded.LearningPath.Timeline)
		assert.Equal(t, "Basics", loaded.LearningPath.LearningPhases[0].Phase)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Save(ctx, sessionID, domain.NewConversation(sessionID))
		require.NoError(t, err)

		err = store.Delete(ctx, sessionID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound, "Load after Delete should return ErrSessionNotFound")
	})

	t.Run("List", func(t *testing.T) {
		id1 := sessionID + "-1"
		id2 := sessionID + "-2"
		_ = store.Save(ctx, id1, domain.NewConversation(id1))
		_ = store.Save(ctx, id2, domain.NewConversation(id2))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		sessions, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, sessions, id1)
		assert.Contains(t, sessions, id2)
	})
}
