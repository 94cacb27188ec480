package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLimiter_AcceptsUpToMax(t *testing.T) {
	l := New(5, time.Minute)

	for i := 0; i < 5; i++ {
		d := l.Allow("10.0.0.1")
		assert.True(t, d.Allowed, "request %d should be accepted", i+1)
	}

	d := l.Allow("10.0.0.1")
	assert.False(t, d.Allowed, "sixth request should be rejected")
	assert.Greater(t, d.RetryAfterSecs, 0)
}

func TestLimiter_RemainingCountsDown(t *testing.T) {
	l := New(3, time.Minute)

	assert.Equal(t, 2, l.Allow("c").Remaining)
	assert.Equal(t, 1, l.Allow("c").Remaining)
	assert.Equal(t, 0, l.Allow("c").Remaining)
}

func TestLimiter_WindowSlides(t *testing.T) {
	now := time.Now()
	l := New(2, time.Minute)
	l.now = func() time.Time { return now }

	require.True(t, l.Allow("client").Allowed)
	require.True(t, l.Allow("client").Allowed)
	require.False(t, l.Allow("client").Allowed)

	// Past the window from the first call, capacity frees up again.
	now = now.Add(61 * time.Second)
	assert.True(t, l.Allow("client").Allowed)
}

func TestLimiter_RetryAfterMatchesOldestTimestamp(t *testing.T) {
	now := time.Now()
	l := New(1, time.Minute)
	l.now = func() time.Time { return now }

	require.True(t, l.Allow("client").Allowed)

	now = now.Add(20 * time.Second)
	d := l.Allow("client")
	require.False(t, d.Allowed)
	// oldest + window - now + 1 = 60 - 20 + 1
	assert.Equal(t, 41, d.RetryAfterSecs)
}

func TestLimiter_ClientsAreIndependent(t *testing.T) {
	l := New(1, time.Minute)

	assert.True(t, l.Allow("a").Allowed)
	assert.True(t, l.Allow("b").Allowed)
	assert.False(t, l.Allow("a").Allowed)
}

func TestLimiter_SweepDropsIdleClients(t *testing.T) {
	now := time.Now()
	l := New(5, time.Minute)
	l.now = func() time.Time { return now }

	l.Allow("idle")
	l.Allow("active")
	require.Equal(t, 2, l.Clients())

	now = now.Add(2 * time.Minute)
	l.Allow("active")

	swept := l.Sweep()
	assert.Equal(t, 1, swept)
	assert.Equal(t, 1, l.Clients())
}

func TestLimiter_EmptyWindowDeletedOnCheck(t *testing.T) {
	now := time.Now()
	l := New(5, time.Minute)
	l.now = func() time.Time { return now }

	l.Allow("transient")
	require.Equal(t, 1, l.Clients())

	now = now.Add(2 * time.Minute)
	l.Allow("other")

	// The transient client's stale window disappears on its next check.
	l.Allow("transient")
	assert.Equal(t, 2, l.Clients())
}
