package cache

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// A nil Redis client degrades the cache to a no-op instead of crashing
func TestCodeCache_NilClient(t *testing.T) {
	c := NewCodeCache(nil, zap.NewNop())
	ctx := context.Background()

	if _, ok := c.Resolve(ctx, "ABCDEFGH12"); ok {
		t.Error("Resolve() on nil client reported a hit")
	}

	// Store and Invalidate must not panic
	c.Store(ctx, "ABCDEFGH12", uuid.New())
	c.Invalidate(ctx, "ABCDEFGH12")
}
