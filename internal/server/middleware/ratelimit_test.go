package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/agentstation/modelreg/pkg/logging"
)

func newLimiter(t *testing.T, limit int) (*RateLimiter, *time.Time) {
	t.Helper()
	rl := NewRateLimiter(limit, logging.NewNopLogger())
	t.Cleanup(rl.Stop)
	now := time.Unix(1700000000, 0)
	rl.now = func() time.Time { return now }
	return rl, &now
}

func TestRateLimiterAllow(t *testing.T) {
	rl, now := newLimiter(t, 3)
	for range 3 {
		assert.True(t, rl.Allow("10.0.0.1"))
	}
	assert.False(t, rl.Allow("10.0.0.1"))
	assert.True(t, rl.Allow("10.0.0.2"), "limits are per IP")

	*now = now.Add(time.Minute)
	assert.True(t, rl.Allow("10.0.0.1"), "window refills")
}

func TestRateLimiterEvict(t *testing.T) {
	rl, now := newLimiter(t, 1)
	rl.Allow("10.0.0.1")
	*now = now.Add(10 * time.Minute)
	rl.Allow("10.0.0.2")

	rl.evict(2 * time.Minute)
	assert.Len(t, rl.visitors, 1)
	assert.Contains(t, rl.visitors, "10.0.0.2")
}

func TestRateLimitMiddleware(t *testing.T) {
	rl, _ := newLimiter(t, 1)
	h := RateLimit(rl)(okHandler())
	before := testutil.ToFloat64(rateLimitedTotal)

	send := func(remote, fwd string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/v1/models", nil)
		req.RemoteAddr = remote
		if fwd != "" {
			req.Header.Set("X-Forwarded-For", fwd)
		}
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusOK, send("10.0.0.1:1234", "").Code)
	w := send("10.0.0.1:5678", "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code, "port is ignored")
	assert.Equal(t, "60", w.Header().Get("Retry-After"))
	assert.Contains(t, w.Body.String(), "RATE_LIMITED")
	assert.Equal(t, before+1, testutil.ToFloat64(rateLimitedTotal))

	assert.Equal(t, http.StatusOK, send("10.0.0.1:1234", "192.0.2.7, 10.0.0.1").Code)
	assert.Equal(t, http.StatusTooManyRequests, send("10.0.0.9:1", "192.0.2.7").Code)
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "unix-socket"
	assert.Equal(t, "unix-socket", clientIP(req))
}
