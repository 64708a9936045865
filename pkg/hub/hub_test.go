package hub

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/modelreg/pkg/errors"
	"github.com/agentstation/modelreg/pkg/logging"
)

// fakeHub serves /api/models/{org}/{name} for the known ids and a two-page
// listing at /api/models.
func fakeHub(t *testing.T, known ...string) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	set := make(map[string]bool, len(known))
	for _, id := range known {
		set[id] = true
	}

	var lookups atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/api/models/", func(w http.ResponseWriter, r *http.Request) {
		lookups.Add(1)
		id := strings.TrimPrefix(r.URL.Path, "/api/models/")
		switch {
		case id == "private/Gated":
			w.WriteHeader(http.StatusUnauthorized)
		case id == "broken/Model":
			http.Error(w, "bad request", http.StatusBadRequest)
		case set[id]:
			_ = json.NewEncoder(w).Encode(map[string]any{
				"id":           id,
				"sha":          "abc123",
				"lastModified": "2025-03-24T10:00:00.000Z",
				"siblings":     []map[string]string{{"rfilename": "config.json"}},
			})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
	mux.HandleFunc("/api/models", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "unsloth", r.URL.Query().Get("author"))
		assert.Equal(t, "Distill", r.URL.Query().Get("search"))
		if r.URL.Query().Get("cursor") == "" {
			w.Header().Set("Link", fmt.Sprintf(`<http://%s/api/models?author=unsloth&search=Distill&cursor=2>; rel="next"`, r.Host))
			_, _ = w.Write([]byte(`[{"id":"unsloth/DeepSeek-R1-Distill-Llama-8B","downloads":10}]`))
			return
		}
		_, _ = w.Write([]byte(`[{"id":"unsloth/DeepSeek-R1-Distill-Qwen-14B-GGUF","likes":3}]`))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, &lookups
}

func TestModelInfo(t *testing.T) {
	srv, _ := fakeHub(t, "unsloth/DeepSeek-R1-GGUF")
	c := New(WithBaseURL(srv.URL))

	info, err := c.ModelInfo(context.Background(), "unsloth/DeepSeek-R1-GGUF")
	require.NoError(t, err)
	assert.Equal(t, "unsloth/DeepSeek-R1-GGUF", info.ID)
	assert.Equal(t, "abc123", info.SHA)
	assert.Equal(t, time.Date(2025, 3, 24, 10, 0, 0, 0, time.UTC), info.LastModified.UTC())
	require.Len(t, info.Siblings, 1)
	assert.Equal(t, "config.json", info.Siblings[0].Filename)
}

func TestModelInfoNotFound(t *testing.T) {
	srv, _ := fakeHub(t)
	c := New(WithBaseURL(srv.URL))

	for _, id := range []string{"unsloth/DeepSeek-R2", "private/Gated"} {
		_, err := c.ModelInfo(context.Background(), id)
		require.Error(t, err, id)
		assert.True(t, errors.IsNotFound(err), id)

		ok, err := c.Exists(context.Background(), id)
		require.NoError(t, err)
		assert.False(t, ok)
	}
}

func TestModelInfoAPIError(t *testing.T) {
	srv, _ := fakeHub(t)
	c := New(WithBaseURL(srv.URL))

	_, err := c.ModelInfo(context.Background(), "broken/Model")
	require.Error(t, err)
	assert.False(t, errors.IsNotFound(err))

	var apiErr *errors.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, ServiceName, apiErr.Service)

	_, err = c.Exists(context.Background(), "broken/Model")
	assert.Error(t, err)
}

func TestModelInfoRejectsBareName(t *testing.T) {
	_, err := New().ModelInfo(context.Background(), "DeepSeek-R1")
	assert.True(t, errors.IsValidationError(err))
}

func TestModelInfoCachesHits(t *testing.T) {
	srv, lookups := fakeHub(t, "unsloth/DeepSeek-V3")
	c := New(WithBaseURL(srv.URL))

	for range 3 {
		_, err := c.ModelInfo(context.Background(), "unsloth/DeepSeek-V3")
		require.NoError(t, err)
	}
	assert.Equal(t, int32(1), lookups.Load())

	// misses are not cached
	for range 2 {
		_, _ = c.ModelInfo(context.Background(), "unsloth/Nope")
	}
	assert.Equal(t, int32(3), lookups.Load())
}

func TestModelInfoWithoutCache(t *testing.T) {
	srv, lookups := fakeHub(t, "unsloth/DeepSeek-V3")
	c := New(WithBaseURL(srv.URL), WithCacheTTL(0))

	for range 2 {
		_, err := c.ModelInfo(context.Background(), "unsloth/DeepSeek-V3")
		require.NoError(t, err)
	}
	assert.Equal(t, int32(2), lookups.Load())
}

func TestTokenIsSent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer hf_secret", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"id":"unsloth/DeepSeek-V3"}`))
	}))
	defer srv.Close()

	_, err := New(WithBaseURL(srv.URL), WithToken("hf_secret")).ModelInfo(context.Background(), "unsloth/DeepSeek-V3")
	require.NoError(t, err)
}

func TestRetriesThrottling(t *testing.T) {
	logging.DisableLoggingForTest(t)

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(`{"id":"unsloth/DeepSeek-V3"}`))
	}))
	defer srv.Close()

	c := New(WithBaseURL(srv.URL), WithRetries(2, time.Millisecond))
	_, err := c.ModelInfo(context.Background(), "unsloth/DeepSeek-V3")
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestListModelsFollowsPages(t *testing.T) {
	srv, _ := fakeHub(t)
	c := New(WithBaseURL(srv.URL))

	models, err := c.ListModels(context.Background(), "unsloth", "Distill")
	require.NoError(t, err)
	require.Len(t, models, 2)
	assert.Equal(t, "unsloth/DeepSeek-R1-Distill-Llama-8B", models[0].ID)
	assert.Equal(t, 10, models[0].Downloads)
	assert.Equal(t, "unsloth/DeepSeek-R1-Distill-Qwen-14B-GGUF", models[1].ID)
}

func TestNextLink(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{"", ""},
		{`<https://huggingface.co/api/models?cursor=abc>; rel="next"`, "https://huggingface.co/api/models?cursor=abc"},
		{`<https://a/prev>; rel="prev", <https://a/next>; rel="next"`, "https://a/next"},
		{`<https://a/prev>; rel="prev"`, ""},
		{`garbage`, ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, nextLink(tt.header), tt.header)
	}
}

func TestModelInfoRejectedTokenIsNotMissing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := New(WithBaseURL(srv.URL), WithToken("hf_expired")).ModelInfo(context.Background(), "unsloth/DeepSeek-R1")
	require.Error(t, err)
	assert.False(t, errors.IsNotFound(err))

	var apiErr *errors.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)

	// anonymous callers still see 401 as a hidden or missing repo
	_, err = New(WithBaseURL(srv.URL)).ModelInfo(context.Background(), "unsloth/DeepSeek-R1")
	assert.True(t, errors.IsNotFound(err))
}

func TestModelInfoCacheReturnsCopies(t *testing.T) {
	srv, _ := fakeHub(t, "unsloth/DeepSeek-V3")
	c := New(WithBaseURL(srv.URL))

	first, err := c.ModelInfo(context.Background(), "unsloth/DeepSeek-V3")
	require.NoError(t, err)
	first.SHA = "changed"
	first.Siblings[0].Filename = "changed.json"

	second, err := c.ModelInfo(context.Background(), "unsloth/DeepSeek-V3")
	require.NoError(t, err)
	assert.Equal(t, "abc123", second.SHA)
	assert.Equal(t, "config.json", second.Siblings[0].Filename)

	second.SHA = "again"
	third, err := c.ModelInfo(context.Background(), "unsloth/DeepSeek-V3")
	require.NoError(t, err)
	assert.Equal(t, "abc123", third.SHA)
}

func TestTransportFailureIsAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := New(WithBaseURL(url), WithRetries(0, time.Millisecond)).ModelInfo(context.Background(), "unsloth/DeepSeek-V3")
	require.Error(t, err)
	assert.False(t, errors.IsNotFound(err))

	var apiErr *errors.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, ServiceName, apiErr.Service)
	assert.Zero(t, apiErr.StatusCode)
}
