package rank

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

const epochKey = "rank:epoch"

// Cache stores serialized ranking results in Redis. Invalidation bumps an
// epoch counter instead of deleting keys, so a ledger write never has to
// enumerate which (window, limit) combinations are cached; stale entries
// simply expire via their TTL.
type Cache struct {
	client *redis.Client
}

// NewCache wraps a Redis client. Returns nil when client is nil so callers
// can degrade to uncached queries.
func NewCache(client *redis.Client) *Cache {
	if client == nil {
		return nil
	}
	return &Cache{client: client}
}

func (c *Cache) key(ctx context.Context, window string, limit int) string {
	epoch, err := c.client.Get(ctx, epochKey).Int64()
	if err != nil && err != redis.Nil {
		// Treat an unreachable Redis as epoch 0; Get/Set will fail the same
		// way and the caller falls back to the database.
		epoch = 0
	}
	return fmt.Sprintf("rank:%d:%s:%d", epoch, window, limit)
}

// Get returns the cached entries for (window, limit) at the current epoch.
func (c *Cache) Get(ctx context.Context, window string, limit int) ([]Entry, bool) {
	raw, err := c.client.Get(ctx, c.key(ctx, window, limit)).Bytes()
	if err != nil {
		return nil, false
	}
	var entries []Entry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, false
	}
	return entries, true
}

// Set stores entries for (window, limit) at the current epoch.
func (c *Cache) Set(ctx context.Context, window string, limit int, entries []Entry, ttl time.Duration) {
	raw, err := json.Marshal(entries)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, c.key(ctx, window, limit), raw, ttl).Err(); err != nil {
		log.Printf("rank: cache set failed: %v", err)
	}
}

// Invalidate advances the epoch, orphaning every cached ranking.
// Satisfies the ledger's Invalidator.
func (c *Cache) Invalidate(ctx context.Context) {
	if c == nil {
		return
	}
	if err := c.client.Incr(ctx, epochKey).Err(); err != nil {
		log.Printf("rank: cache invalidate failed: %v", err)
	}
}
