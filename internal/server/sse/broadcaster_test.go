package sse

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/modelreg/pkg/logging"
)

func TestServeHTTPStreamsEvents(t *testing.T) {
	b := NewBroadcaster(logging.NewNopLogger())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go b.Run(ctx)

	srv := httptest.NewServer(b)
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	lines := bufio.NewScanner(resp.Body)
	next := func() string {
		require.True(t, lines.Scan())
		return lines.Text()
	}

	assert.Equal(t, "event: client.connected", next())
	assert.True(t, strings.HasPrefix(next(), "data: "))
	assert.Empty(t, next())

	require.Eventually(t, func() bool { return b.ClientCount() == 1 }, time.Second, 5*time.Millisecond)
	b.Broadcast(Event{Event: "verify.result", ID: "1", Data: map[string]string{"id": "unsloth/DeepSeek-R1"}})

	assert.Equal(t, "event: verify.result", next())
	assert.Equal(t, "id: 1", next())
	assert.Equal(t, `data: {"id":"unsloth/DeepSeek-R1"}`, next())
}

func TestRunShutdownEndsStreams(t *testing.T) {
	b := NewBroadcaster(logging.NewNopLogger())
	ctx, cancel := context.WithCancel(context.Background())
	go b.Run(ctx)

	done := make(chan struct{})
	go func() {
		b.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
		close(done)
	}()
	require.Eventually(t, func() bool { return b.ClientCount() == 1 }, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("stream did not end on shutdown")
	}
}

func TestBroadcastDropsWhenFull(t *testing.T) {
	b := NewBroadcaster(logging.NewNopLogger())
	for range 300 {
		b.Broadcast(Event{Event: "x"})
	}
	assert.Len(t, b.events, cap(b.events))
}
