package cache

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	codeKeyPrefix = "board:code:"
	codeTTL       = 24 * time.Hour
)

// CodeCache is a Redis-backed join-code to board-id lookup cache. It is
// advisory only: entries can go stale after a board deletion on another
// replica, and callers must re-verify against the store under lock.
type CodeCache struct {
	client *redis.Client
	logger *zap.Logger
}

// NewCodeCache creates a new CodeCache
func NewCodeCache(client *redis.Client, logger *zap.Logger) *CodeCache {
	return &CodeCache{client: client, logger: logger}
}

// Resolve returns the board ID cached for a join code, if any
func (c *CodeCache) Resolve(ctx context.Context, code string) (uuid.UUID, bool) {
	if c.client == nil {
		return uuid.Nil, false
	}

	val, err := c.client.Get(ctx, codeKeyPrefix+code).Result()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("Join-code cache lookup failed", zap.Error(err))
		}
		return uuid.Nil, false
	}

	boardID, err := uuid.Parse(val)
	if err != nil {
		// Corrupt entry, drop it
		c.client.Del(ctx, codeKeyPrefix+code)
		return uuid.Nil, false
	}
	return boardID, true
}

// Store caches a join-code to board-id mapping
func (c *CodeCache) Store(ctx context.Context, code string, boardID uuid.UUID) {
	if c.client == nil {
		return
	}
	if err := c.client.Set(ctx, codeKeyPrefix+code, boardID.String(), codeTTL).Err(); err != nil {
		c.logger.Warn("Failed to cache join code", zap.Error(err))
	}
}

// Invalidate removes a join-code mapping after board deletion
func (c *CodeCache) Invalidate(ctx context.Context, code string) {
	if c.client == nil {
		return
	}
	if err := c.client.Del(ctx, codeKeyPrefix+code).Err(); err != nil {
		c.logger.Warn("Failed to invalidate join code", zap.Error(err))
	}
}
