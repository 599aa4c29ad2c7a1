package converter

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func TestCacheKeyIsRepeatable(t *testing.T) {
	a := CacheKey("Patient has diabetes.", "P1", "default-v1", "rules-a", 0.65)
	b := CacheKey("Patient has diabetes.", "P1", "default-v1", "rules-a", 0.65)
	if a != b {
		t.Fatalf("identical inputs produced different keys: %s vs %s", a, b)
	}
}

func TestCacheKeySensitivity(t *testing.T) {
	base := CacheKey("Patient has diabetes.", "P1", "default-v1", "rules-a", 0.65)

	if CacheKey("Patient has asthma.", "P1", "default-v1", "rules-a", 0.65) == base {
		t.Fatal("key must change with the note text")
	}
	if CacheKey("Patient has diabetes.", "P2", "default-v1", "rules-a", 0.65) == base {
		t.Fatal("key must change with the patient id")
	}
	if CacheKey("Patient has diabetes.", "P1", "custom-v2", "rules-a", 0.65) == base {
		t.Fatal("key must change with the lexicon version")
	}
	if CacheKey("Patient has diabetes.", "P1", "default-v1", "rules-b", 0.65) == base {
		t.Fatal("key must change with the PHI ruleset version")
	}
	if CacheKey("Patient has diabetes.", "P1", "default-v1", "rules-a", 0.5) == base {
		t.Fatal("key must change with the confidence threshold")
	}
}

func TestNewCacheDisabled(t *testing.T) {
	if c := NewCache(nil, time.Minute); c != nil {
		t.Fatal("expected nil cache for nil client")
	}
	if c := NewCache(redis.NewClient(&redis.Options{}), 0); c != nil {
		t.Fatal("expected nil cache for zero TTL")
	}
}

func TestNilCacheIsSafe(t *testing.T) {
	var c *Cache
	ctx := context.Background()

	if result, ok := c.Get(ctx, "conversion:key"); ok || result != nil {
		t.Fatalf("nil cache must miss, got %v", result)
	}
	c.Set(ctx, "conversion:key", &Result{Status: "success"})
}
