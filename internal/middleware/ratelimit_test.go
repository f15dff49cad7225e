package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiterIsAllowed(t *testing.T) {
	rl := NewRateLimiter(3, time.Minute)
	ip := "192.168.1.1"

	for i := 0; i < 3; i++ {
		assert.True(t, rl.IsAllowed(ip), "attempt %d should be allowed", i+1)
	}
	assert.False(t, rl.IsAllowed(ip))
	assert.True(t, rl.IsAllowed("192.168.1.2"))
}

func TestRateLimiterWindow(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(2, time.Minute)
	rl.now = func() time.Time { return now }

	assert.True(t, rl.IsAllowed("ip"))
	assert.True(t, rl.IsAllowed("ip"))
	assert.False(t, rl.IsAllowed("ip"))

	now = now.Add(61 * time.Second)
	assert.True(t, rl.IsAllowed("ip"))

	now = now.Add(2 * time.Minute)
	rl.Cleanup()
	assert.Empty(t, rl.attempts)
}

func TestRateLimitPOST(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)
	handler := RateLimitPOST(rl)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	post := func() int {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = "10.1.1.1:5000"
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		return rr.Code
	}

	assert.Equal(t, http.StatusOK, post())
	assert.Equal(t, http.StatusTooManyRequests, post())

	rr := httptest.NewRecorder()
	get := httptest.NewRequest(http.MethodGet, "/login", nil)
	get.RemoteAddr = "10.1.1.1:5000"
	handler.ServeHTTP(rr, get)
	assert.Equal(t, http.StatusOK, rr.Code)
}
