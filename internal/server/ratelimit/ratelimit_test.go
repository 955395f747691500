package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLimiter_AllowsWithinLimit(t *testing.T) {
	l := NewLimiter(&Config{Enabled: true, Limit: 3, Window: time.Minute})
	defer l.Stop()

	for i := 0; i < 3; i++ {
		allowed, info := l.Allow("client-a")
		assert.True(t, allowed, "request %d should be allowed", i+1)
		assert.Equal(t, 3, info.Limit)
	}
}

func TestLimiter_BlocksOverLimit(t *testing.T) {
	l := NewLimiter(&Config{Enabled: true, Limit: 2, Window: time.Hour})
	defer l.Stop()

	l.Allow("client-a")
	l.Allow("client-a")
	allowed, info := l.Allow("client-a")

	assert.False(t, allowed)
	assert.False(t, info.Allowed)
	assert.Zero(t, info.Remaining)
	assert.True(t, info.ResetTime.After(time.Now()))
}

func TestLimiter_ClientsAreIndependent(t *testing.T) {
	l := NewLimiter(&Config{Enabled: true, Limit: 1, Window: time.Hour})
	defer l.Stop()

	allowed, _ := l.Allow("client-a")
	require.True(t, allowed)
	allowed, _ = l.Allow("client-a")
	require.False(t, allowed)

	allowed, _ = l.Allow("client-b")
	assert.True(t, allowed)
}

func TestLimiter_DisabledAllowsEverything(t *testing.T) {
	l := NewLimiter(&Config{Enabled: false})
	defer l.Stop()

	for i := 0; i < 100; i++ {
		allowed, _ := l.Allow("client-a")
		require.True(t, allowed)
	}
}

func TestLimiter_RefillsOverTime(t *testing.T) {
	l := NewLimiter(&Config{Enabled: true, Limit: 1, Window: 50 * time.Millisecond})
	defer l.Stop()

	allowed, _ := l.Allow("client-a")
	require.True(t, allowed)
	allowed, _ = l.Allow("client-a")
	require.False(t, allowed)

	time.Sleep(80 * time.Millisecond)

	allowed, _ = l.Allow("client-a")
	assert.True(t, allowed)
}
