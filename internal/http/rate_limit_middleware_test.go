package http

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiterStore_GetLimiter(t *testing.T) {
	store := &rateLimiterStore{rps: 1, burst: 1}

	first := store.getLimiter("198.51.100.1")
	again := store.getLimiter("198.51.100.1")
	other := store.getLimiter("198.51.100.2")

	assert.Same(t, first, again)
	assert.NotSame(t, first, other)
	assert.True(t, first.Allow())
	assert.False(t, again.Allow())
	assert.True(t, other.Allow())
}

func TestRateLimiterStore_RemoveIdle(t *testing.T) {
	store := &rateLimiterStore{rps: 1, burst: 1}
	store.getLimiter("198.51.100.1")
	store.getLimiter("198.51.100.2")

	entry, ok := store.limiters.Load("198.51.100.1")
	assert.True(t, ok)
	entry.(*rateLimiterEntry).lastAccess = time.Now().Add(-2 * time.Hour)

	store.removeIdle(time.Now().Add(-time.Hour))

	_, ok = store.limiters.Load("198.51.100.1")
	assert.False(t, ok)
	_, ok = store.limiters.Load("198.51.100.2")
	assert.True(t, ok)
}

func TestRateLimiterStore_CleanupStopsWithContext(t *testing.T) {
	store := &rateLimiterStore{rps: 1, burst: 1}
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		store.cleanupStale(ctx, time.Millisecond, time.Hour)
		close(done)
	}()

	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("cleanup did not stop after cancellation")
	}
}
