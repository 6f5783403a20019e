package cli

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/careerpath/internal/config"
	"github.com/aretw0/careerpath/internal/logging"
	"github.com/aretw0/careerpath/pkg/adapters/offline"
	"github.com/aretw0/careerpath/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func offlineConfig() config.Config {
	cfg := config.Default()
	cfg.Oracle.Offline = true
	return cfg
}

func TestBootstrap_Offline(t *testing.T) {
	app, err := Bootstrap(offlineConfig(), AppOptions{LogOutput: io.Discard})
	require.NoError(t, err)
	defer app.Close()

	assert.False(t, app.Engine.SearchEnabled())
	assert.Len(t, app.Engine.Transitions(), 8)
}

func TestCreateOracle_RequiresKeyOnline(t *testing.T) {
	_, err := createOracle(config.OracleConfig{})
	assert.Error(t, err)

	o, err := createOracle(config.OracleConfig{Offline: true})
	require.NoError(t, err)
	assert.IsType(t, &offline.Oracle{}, o)
}

func TestCreateSearcher(t *testing.T) {
	s, err := createSearcher(config.SearchConfig{})
	require.NoError(t, err)
	assert.Nil(t, s)

	cfg := config.Default().Search
	cfg.APIKey = "tvly-test"
	s, err = createSearcher(cfg)
	require.NoError(t, err)
	assert.NotNil(t, s)
}

func TestCreateSessionManager_RedisEncrypted(t *testing.T) {
	mr := miniredis.RunT(t)

	key := make([]byte, 32)
	cfg := config.Default().Sessions
	cfg.Backend = config.BackendRedis
	cfg.Redis.Addr = mr.Addr()
	cfg.MaskPII = true
	cfg.EncryptionKey = base64.StdEncoding.EncodeToString(key)

	mgr, closeFn, err := createSessionManager(cfg, logging.NewNop())
	require.NoError(t, err)
	defer closeFn()

	ctx := context.Background()
	conv := domain.NewConversation("abc")
	conv.History = []domain.Turn{{Role: "user", Content: "mail me at a@b.io"}}
	require.NoError(t, mgr.Save(ctx, "abc", conv))

	raw, err := mr.Get(cfg.Redis.Prefix + "abc")
	require.NoError(t, err)
	assert.NotContains(t, raw, "a@b.io")
	assert.NotContains(t, raw, "mail me")

	loaded, err := mgr.Load(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, "mail me at ***", loaded.History[0].Content)
}

func TestRunPlan_OfflineJSON(t *testing.T) {
	app, err := Bootstrap(offlineConfig(), AppOptions{LogOutput: io.Discard})
	require.NoError(t, err)

	var buf bytes.Buffer
	err = RunPlan(context.Background(), app, PlanOptions{
		Message:     "I want to become a data scientist",
		CurrentRole: "Accountant",
		TargetRole:  "Data Scientist",
		SessionID:   "cli-session",
		JSON:        true,
		Out:         &buf,
	})
	require.NoError(t, err)

	var out planOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, "cli-session", out.SessionID)
	require.NotNil(t, out.Result)
	assert.Contains(t, out.Result.Summary, "Career Transition Plan")
	assert.Equal(t, "Data Scientist", out.Result.TargetRole)

	conv, err := app.Sessions.Load(context.Background(), "cli-session")
	require.NoError(t, err)
	assert.Len(t, conv.History, 2)
}

func TestRunPlan_PlainText(t *testing.T) {
	app, err := Bootstrap(offlineConfig(), AppOptions{LogOutput: io.Discard})
	require.NoError(t, err)

	var buf bytes.Buffer
	err = RunPlan(context.Background(), app, PlanOptions{Message: "help me grow", Out: &buf})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "## ")
	assert.NotContains(t, buf.String(), "Session")
}

func TestRunPlan_RejectsOversizedInput(t *testing.T) {
	cfg := offlineConfig()
	cfg.Server.MaxInputSize = 8
	app, err := Bootstrap(cfg, AppOptions{LogOutput: io.Discard})
	require.NoError(t, err)

	err = RunPlan(context.Background(), app, PlanOptions{Message: "way too long for the limit", Out: io.Discard})
	assert.Error(t, err)
}

func TestNewHTTPHandler_Health(t *testing.T) {
	app, err := Bootstrap(offlineConfig(), AppOptions{LogOutput: io.Discard})
	require.NoError(t, err)
	defer app.Close()

	h := NewHTTPHandler(app)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"openai_configured":false`)

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "go_goroutines")
}

func TestServe_StopsOnCancel(t *testing.T) {
	app, err := Bootstrap(offlineConfig(), AppOptions{LogOutput: io.Discard})
	require.NoError(t, err)
	defer app.Close()
	app.Logger = logging.NewNop()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Serve(ctx, app, "127.0.0.1:0") }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestCreateSessionManager_FileBackendPersistsAcrossManagers(t *testing.T) {
	cfg := config.Default().Sessions
	cfg.Backend = config.BackendFile
	cfg.Dir = t.TempDir()

	mgr, closeFn, err := createSessionManager(cfg, logging.NewNop())
	require.NoError(t, err)
	defer closeFn()

	conv := domain.NewConversation("cli-1")
	conv.TargetRole = "Data Engineer"
	require.NoError(t, mgr.Save(context.Background(), "cli-1", conv))

	again, _, err := createSessionManager(cfg, logging.NewNop())
	require.NoError(t, err)
	loaded, err := again.Load(context.Background(), "cli-1")
	require.NoError(t, err)
	assert.Equal(t, "Data Engineer", loaded.TargetRole)
}

func TestRunChat_FollowUpRefinesSession(t *testing.T) {
	app, err := Bootstrap(offlineConfig(), AppOptions{LogOutput: io.Discard})
	require.NoError(t, err)
	defer app.Close()

	in := strings.NewReader("I want to become a product manager\n\nMake it faster\nexit\nignored\n")
	var out bytes.Buffer
	err = RunChat(context.Background(), app, ChatOptions{
		SessionID:   "chat-1",
		CurrentRole: "Engineer",
		TargetRole:  "Product Manager",
		In:          in,
		Out:         &out,
	})
	require.NoError(t, err)

	text := out.String()
	assert.Contains(t, text, "Career Transition Plan")
	assert.Contains(t, text, "Updated Career Plan")
	assert.True(t, strings.HasSuffix(text, "Bye!\n"))

	conv, err := app.Sessions.Load(context.Background(), "chat-1")
	require.NoError(t, err)
	assert.Len(t, conv.History, 4)
}

func TestRunChat_StopsOnEOF(t *testing.T) {
	app, err := Bootstrap(offlineConfig(), AppOptions{LogOutput: io.Discard})
	require.NoError(t, err)
	defer app.Close()

	var out bytes.Buffer
	err = RunChat(context.Background(), app, ChatOptions{In: strings.NewReader(""), Out: &out})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Type 'exit' to quit.")
}
