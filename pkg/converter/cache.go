package converter

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/medbridge-ai/notefhir/pkg/common/logger"
)

// Cache is a read-through store for conversion results, sound because a
// conversion is deterministic for a given note, patient and lexicon version.
// A nil *Cache disables caching; all methods are nil-safe.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	if client == nil || ttl <= 0 {
		return nil
	}
	return &Cache{client: client, ttl: ttl}
}

func CacheKey(note, patientID, lexiconVersion, rulesVersion string, threshold float64) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s|%s|%s|%s|%.4f", note, patientID, lexiconVersion, rulesVersion, threshold)))
	return "conversion:" + hex.EncodeToString(sum[:])
}

func (c *Cache) Get(ctx context.Context, key string) (*Result, bool) {
	if c == nil {
		return nil, false
	}

	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			logger.Log.WithError(err).Warn("conversion cache read failed")
		}
		return nil, false
	}

	var result Result
	if err := json.Unmarshal(raw, &result); err != nil {
		logger.Log.WithError(err).Warn("conversion cache entry corrupt")
		return nil, false
	}
	return &result, true
}

func (c *Cache) Set(ctx context.Context, key string, result *Result) {
	if c == nil || result == nil {
		return
	}

	raw, err := json.Marshal(result)
	if err != nil {
		logger.Log.WithError(err).Warn("failed to marshal conversion result for cache")
		return
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		logger.Log.WithError(err).Warn("conversion cache write failed")
	}
}
