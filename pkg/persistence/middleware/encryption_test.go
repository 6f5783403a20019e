package middleware_test

import (
	"context"
	"crypto/rand"
	"io"
	"testing"

	"github.com/aretw0/careerpath/pkg/domain"
	"github.com/aretw0/careerpath/pkg/persistence/middleware"
	"github.com/aretw0/careerpath/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func generateKey(t *testing.T) []byte {
	k := make([]byte, 32)
	if _, err := io.ReadFull(rand.Reader, k); err != nil {
		t.Fatal(err)
	}
	return k
}

func sampleConversation(id string) *domain.Conversation {
	conv := domain.NewConversation(id)
	conv.CurrentRole = "Accountant"
	conv.TargetRole = "Data Analyst"
	conv.History = []domain.Turn{{Role: "user", Content: "my-secret-sauce"}}
	conv.LearningPath = &domain.LearningPath{Timeline: "6 months"}
	return conv
}

func TestEncryptionMiddleware_Contract(t *testing.T) {
	mw := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)})
	ports.RunSessionStoreContract(t, mw(NewMockStore()))
}

func TestEncryptionMiddleware_Roundtrip(t *testing.T) {
	underlying := NewMockStore()
	mw := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)})
	secure := mw(underlying)

	ctx := context.Background()
	sessionID := "test-session"
	require.NoError(t, secure.Save(ctx, sessionID, sampleConversation(sessionID)))

	stored, err := underlying.Load(ctx, sessionID)
	require.NoError(t, err)
	assert.Empty(t, stored.History, "history must not reach the store in clear text")
	assert.Empty(t, stored.TargetRole)
	assert.Nil(t, stored.LearningPath)
	assert.NotEmpty(t, stored.Sealed)
	assert.NotContains(t, string(stored.Sealed), "my-secret-sauce")

	loaded, err := secure.Load(ctx, sessionID)
	require.NoError(t, err)
	assert.Equal(t, "Data Analyst", loaded.TargetRole)
	assert.Equal(t, "my-secret-sauce", loaded.History[0].Content)
	assert.Equal(t, "6 months", loaded.LearningPath.Timeline)
	assert.Empty(t, loaded.Sealed)
}

func TestEncryptionMiddleware_KeyRotation(t *testing.T) {
	underlying := NewMockStore()
	oldKey := generateKey(t)
	newKey := generateKey(t)

	secureOld := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: oldKey})(underlying)

	ctx := context.Background()
	sessionID := "rotation-session"
	require.NoError(t, secureOld.Save(ctx, sessionID, sampleConversation(sessionID)))

	secureNew := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
		ActiveKey:    newKey,
		FallbackKeys: [][]byte{oldKey},
	})(underlying)

	loaded, err := secureNew.Load(ctx, sessionID)
	require.NoError(t, err, "fallback key should decrypt")
	assert.Equal(t, "Accountant", loaded.CurrentRole)

	loaded.CurrentRole = "Bookkeeper"
	require.NoError(t, secureNew.Save(ctx, sessionID, loaded))

	_, err = secureOld.Load(ctx, sessionID)
	assert.Error(t, err, "old key alone cannot read data sealed with the new key")
}

func TestEncryptionMiddleware_RejectsPlainConversation(t *testing.T) {
	underlying := NewMockStore()
	ctx := context.Background()
	require.NoError(t, underlying.Save(ctx, "plain", sampleConversation("plain")))

	secure := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)})(underlying)
	_, err := secure.Load(ctx, "plain")
	assert.ErrorIs(t, err, middleware.ErrNotSealed)
}

func TestEncryptionMiddleware_InvalidKey(t *testing.T) {
	cfg := middleware.EncryptionConfig{ActiveKey: []byte("short-key")}
	assert.Error(t, cfg.Validate())
	assert.Panics(t, func() {
		middleware.NewEncryptionMiddleware(cfg)
	})
}
