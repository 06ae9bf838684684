package ratelimit

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAllowWithinBudget(t *testing.T) {
	rl := NewLimiter(Config{RequestsPerMinute: 3, CleanupInterval: time.Minute})
	defer rl.Stop()

	assert.True(t, rl.Allow("1.2.3.4"))
	assert.True(t, rl.Allow("1.2.3.4"))
	assert.True(t, rl.Allow("1.2.3.4"))
	assert.False(t, rl.Allow("1.2.3.4"))

	// Other clients have their own budget.
	assert.True(t, rl.Allow("5.6.7.8"))
}

func TestDefaultsApplied(t *testing.T) {
	rl := NewLimiter(Config{})
	defer rl.Stop()

	assert.Equal(t, DefaultConfig().RequestsPerMinute, rl.requestsPerMinute)
	assert.Equal(t, DefaultConfig().CleanupInterval, rl.cleanupInterval)
}

func TestActiveClients(t *testing.T) {
	rl := NewLimiter(Config{RequestsPerMinute: 10, CleanupInterval: time.Minute})
	defer rl.Stop()

	rl.Allow("a")
	rl.Allow("b")
	rl.Allow("a")
	assert.Equal(t, 2, rl.ActiveClients())
}

func TestCleanupRemovesStaleEntries(t *testing.T) {
	rl := NewLimiter(Config{RequestsPerMinute: 10, CleanupInterval: time.Minute})
	defer rl.Stop()

	rl.Allow("stale")
	rl.mu.Lock()
	rl.clients["stale"].lastRequest = time.Now().Add(-11 * time.Minute)
	rl.mu.Unlock()

	rl.cleanupStaleEntries()
	assert.Equal(t, 0, rl.ActiveClients())
}

func TestStopIsIdempotent(t *testing.T) {
	rl := NewLimiter(DefaultConfig())
	rl.Stop()
	rl.Stop()
}

func TestClientIP(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "10.0.0.1:5000"
	assert.Equal(t, "10.0.0.1:5000", ClientIP(r))

	r.Header.Set("X-Real-IP", "20.0.0.2")
	assert.Equal(t, "20.0.0.2", ClientIP(r))

	r.Header.Set("X-Forwarded-For", "30.0.0.3, 40.0.0.4")
	assert.Equal(t, "30.0.0.3", ClientIP(r))
}
