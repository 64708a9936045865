package transport

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/modelreg/pkg/errors"
	"github.com/agentstation/modelreg/pkg/logging"
)

func TestClientAppliesToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.Equal(t, "modelreg-test", r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte(`{"id":"unsloth/DeepSeek-R1"}`))
	}))
	defer srv.Close()

	c := New(&BearerAuth{}, WithToken("secret"), WithUserAgent("modelreg-test"))
	resp, err := c.Get(context.Background(), srv.URL)
	require.NoError(t, err)

	var out struct{ ID string }
	require.NoError(t, DecodeResponse(resp, "test", &out))
	assert.Equal(t, "unsloth/DeepSeek-R1", out.ID)
}

func TestClientWithoutTokenSendsNoAuth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
	}))
	defer srv.Close()

	resp, err := New(&BearerAuth{}).Get(context.Background(), srv.URL)
	require.NoError(t, err)
	require.NoError(t, DecodeResponse(resp, "test", nil))
}

func TestClientRetries(t *testing.T) {
	logging.DisableLoggingForTest(t)

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := New(nil, WithRetries(3, time.Millisecond))
	resp, err := c.Get(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, DecodeResponse(resp, "test", nil))
	assert.Equal(t, int32(3), calls.Load())
}

func TestClientGivesUpAfterRetries(t *testing.T) {
	logging.DisableLoggingForTest(t)

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := New(nil, WithRetries(2, time.Millisecond))
	resp, err := c.Get(context.Background(), srv.URL)
	require.NoError(t, err)

	err = DecodeResponse(resp, "hub", nil)
	require.Error(t, err)
	assert.True(t, errors.IsServiceUnavailable(err))
	assert.Equal(t, int32(3), calls.Load())

	var apiErr *errors.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "overloaded", apiErr.Message)
	assert.Equal(t, "hub", apiErr.Service)
}

func TestClientDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	resp, err := New(nil, WithRetries(3, time.Millisecond)).Get(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	_ = resp.Body.Close()
	assert.Equal(t, int32(1), calls.Load())
}

func TestClientRetryStopsOnCancel(t *testing.T) {
	logging.DisableLoggingForTest(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := New(nil, WithRetries(5, time.Hour)).Get(ctx, srv.URL)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestBuildURL(t *testing.T) {
	assert.Equal(t, "https://huggingface.co/api/models/unsloth/DeepSeek-R1",
		BuildURL("https://huggingface.co/", nil, "api/models", "unsloth/DeepSeek-R1"))

	q := url.Values{"author": {"unsloth"}, "search": {"Distill"}}
	assert.Equal(t, "https://huggingface.co/api/models?author=unsloth&search=Distill",
		BuildURL("https://huggingface.co", q, "api", "models"))
}
