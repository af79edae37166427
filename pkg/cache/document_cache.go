package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultDocumentTTL applies when NewDocumentCache is given a non-positive TTL.
const DefaultDocumentTTL = 10 * time.Minute

const documentKeyPrefix = "item"

// generationTTL bounds how long a write generation outlives the last write.
// A fill older than this would see a reset counter and still be refused.
const generationTTL = 24 * time.Hour

// fillScript writes the document only while the generation key still holds
// the value the caller read before going to storage.
// KEYS[1] document, KEYS[2] generation; ARGV: expected generation, JSON, TTL ms.
var fillScript = redis.NewScript(`
local current = redis.call('GET', KEYS[2]) or '0'
if current ~= ARGV[1] then
	return 0
end
redis.call('SET', KEYS[1], ARGV[2], 'PX', ARGV[3])
return 1
`)

// DocumentCache stores single documents of one collection as JSON blobs.
// Key format: "item:{resource}:{id}", with a write generation counter at
// "item:{resource}:{id}:gen".
//
// Every write bumps the generation before evicting, and fills are accepted
// only for the generation observed before the storage read. A fill racing
// a write therefore never lands a document older than that write.
// Stored values are the document fields without the identifier.
// A miss is reported as redis.Nil so callers can tell it apart from failures.
type DocumentCache struct {
	client   *RedisClient
	resource string
	ttl      time.Duration
}

// NewDocumentCache returns a cache for documents of the named resource.
// A nil client yields a nil cache; every method is safe on a nil receiver.
func NewDocumentCache(r *RedisClient, resource string, ttl time.Duration) *DocumentCache {
	if r == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = DefaultDocumentTTL
	}
	return &DocumentCache{client: r, resource: resource, ttl: ttl}
}

// Get returns the cached fields for id, or redis.Nil on a miss.
func (c *DocumentCache) Get(ctx context.Context, id string) (map[string]any, error) {
	if c == nil {
		return nil, redis.Nil
	}
	raw, err := c.client.Client().Get(ctx, c.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, redis.Nil
		}
		return nil, fmt.Errorf("cache get: %w", err)
	}

	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("cache decode %s: %w", id, err)
	}
	return fields, nil
}

// Generation returns the current write generation of id; zero until the
// document is first written after creation.
func (c *DocumentCache) Generation(ctx context.Context, id string) (int64, error) {
	if c == nil {
		return 0, nil
	}
	gen, err := c.client.Client().Get(ctx, c.generationKey(id)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("cache generation: %w", err)
	}
	return gen, nil
}

// Fill caches fields for id if no write happened since generation gen was
// read. It reports whether the entry was written.
func (c *DocumentCache) Fill(ctx context.Context, id string, gen int64, fields map[string]any) (bool, error) {
	if c == nil {
		return false, nil
	}
	raw, err := json.Marshal(fields)
	if err != nil {
		return false, fmt.Errorf("cache encode %s: %w", id, err)
	}
	keys := []string{c.key(id), c.generationKey(id)}
	written, err := fillScript.Run(ctx, c.client.Client(), keys,
		strconv.FormatInt(gen, 10), raw, c.ttl.Milliseconds()).Int()
	if err != nil {
		return false, fmt.Errorf("cache fill: %w", err)
	}
	return written == 1, nil
}

// Invalidate bumps the write generation of id and evicts its entry, in one
// transaction. Invalidating a missing key is not an error.
func (c *DocumentCache) Invalidate(ctx context.Context, id string) error {
	if c == nil {
		return nil
	}
	genKey := c.generationKey(id)
	_, err := c.client.Client().TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, genKey)
		pipe.Expire(ctx, genKey, generationTTL)
		pipe.Del(ctx, c.key(id))
		return nil
	})
	if err != nil {
		return fmt.Errorf("cache invalidate: %w", err)
	}
	return nil
}

// Resource returns the collection this cache is scoped to.
func (c *DocumentCache) Resource() string {
	if c == nil {
		return ""
	}
	return c.resource
}

func (c *DocumentCache) key(id string) string {
	return fmt.Sprintf("%s:%s:%s", documentKeyPrefix, c.resource, id)
}

func (c *DocumentCache) generationKey(id string) string {
	return c.key(id) + ":gen"
}
