package embedding

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"time"

	redisv9 "github.com/redis/go-redis/v9"
)

const cacheKeyPrefix = "docuquery:emb:"

// KVStore is the key-value surface the cache needs. Satisfied by the Redis
// client wrapper below and by a map in tests.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
}

// CachedGenerator caches per-text results keyed by a content hash, so
// re-ingesting identical chunk text skips the model entirely.
type CachedGenerator struct {
	inner Generator
	store KVStore
}

func NewCachedGenerator(inner Generator, store KVStore) *CachedGenerator {
	return &CachedGenerator{inner: inner, store: store}
}

func (c *CachedGenerator) Dimensions() int { return c.inner.Dimensions() }

func (c *CachedGenerator) Embed(ctx context.Context, texts []string) ([]Result, error) {
	results := make([]Result, len(texts))
	var missing []string
	var missingIdx []int

	for i, text := range texts {
		if r, ok := c.lookup(ctx, text); ok {
			results[i] = r
			continue
		}
		missing = append(missing, text)
		missingIdx = append(missingIdx, i)
	}

	if len(missing) > 0 {
		fresh, err := c.inner.Embed(ctx, missing)
		if err != nil {
			return nil, err
		}
		if len(fresh) != len(missing) {
			return nil, fmt.Errorf("embedding count mismatch: got %d for %d texts", len(fresh), len(missing))
		}
		for j, r := range fresh {
			results[missingIdx[j]] = r
			c.put(ctx, missing[j], r)
		}
	}
	return results, nil
}

func (c *CachedGenerator) lookup(ctx context.Context, text string) (Result, bool) {
	data, ok, err := c.store.Get(ctx, cacheKey(text))
	if err != nil {
		log.Printf("embedding cache get failed: %v", err)
		return Result{}, false
	}
	if !ok {
		return Result{}, false
	}
	var r Result
	if err := json.Unmarshal(data, &r); err != nil {
		log.Printf("embedding cache decode failed: %v", err)
		return Result{}, false
	}
	return r, true
}

func (c *CachedGenerator) put(ctx context.Context, text string, r Result) {
	data, err := json.Marshal(r)
	if err != nil {
		return
	}
	if err := c.store.Set(ctx, cacheKey(text), data); err != nil {
		log.Printf("embedding cache set failed: %v", err)
	}
}

func cacheKey(text string) string {
	h := sha256.Sum256([]byte(text))
	return cacheKeyPrefix + hex.EncodeToString(h[:])
}

// RedisKV adapts a Redis client to KVStore with a TTL per entry.
type RedisKV struct {
	client *redisv9.Client
	ttl    time.Duration
}

func NewRedisKV(client *redisv9.Client, ttl time.Duration) *RedisKV {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisKV{client: client, ttl: ttl}
}

func (s *RedisKV) Get(ctx context.Context, key string) ([]byte, bool, error) {
	raw, err := s.client.Get(ctx, key).Bytes()
	if err == redisv9.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}
	return raw, true, nil
}

func (s *RedisKV) Set(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(ctx, key, value, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}
