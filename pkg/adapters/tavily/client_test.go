package tavily_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aretw0/careerpath/pkg/adapters/tavily"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RequiresKey(t *testing.T) {
	_, err := tavily.New("")
	assert.ErrorIs(t, err, tavily.ErrMissingAPIKey)
}

func TestSearch(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer tvly-test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{
			"query": "go courses",
			"answer": "Try the Go tour.",
			"results": [
				{"title": "A Tour of Go", "url": "https://go.dev/tour", "content": "Interactive", "score": 0.9},
				{"title": "Effective Go", "url": "https://go.dev/doc/effective_go", "content": "Guide", "score": 0.8}
			]
		}`))
	}))
	defer srv.Close()

	c, err := tavily.New("tvly-test", tavily.WithEndpoint(srv.URL), tavily.WithSearchDepth("basic"))
	require.NoError(t, err)

	results, err := c.Search(context.Background(), "go courses", 3)
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, "Try the Go tour.", results[0].Content)
	assert.Equal(t, "https://go.dev/tour", results[1].URL)
	assert.Equal(t, 0.8, results[2].Score)

	assert.Equal(t, "go courses", got["query"])
	assert.EqualValues(t, 3, got["max_results"])
	assert.Equal(t, "basic", got["search_depth"])
}

func TestSearch_AnswerCountsTowardLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"answer": "Start with the basics.",
			"results": [
				{"title": "One", "url": "https://example.com/1"},
				{"title": "Two", "url": "https://example.com/2"}
			]
		}`))
	}))
	defer srv.Close()

	c, err := tavily.New("tvly-test", tavily.WithEndpoint(srv.URL))
	require.NoError(t, err)

	results, err := c.Search(context.Background(), "kubernetes", 2)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "Summary", results[0].Title)
	assert.Equal(t, "One", results[1].Title)
}

func TestSearch_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail": {"error": "Unauthorized: missing or invalid API key."}}`))
	}))
	defer srv.Close()

	c, err := tavily.New("bad", tavily.WithEndpoint(srv.URL))
	require.NoError(t, err)

	_, err = c.Search(context.Background(), "q", 5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
	assert.Contains(t, err.Error(), "invalid API key")
}

func TestSearch_RateLimitHonorsContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"results": []}`))
	}))
	defer srv.Close()

	c, err := tavily.New("k", tavily.WithEndpoint(srv.URL), tavily.WithRateLimit(0.1, 1))
	require.NoError(t, err)

	_, err = c.Search(context.Background(), "first", 1)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = c.Search(ctx, "second", 1)
	assert.Error(t, err)
}
