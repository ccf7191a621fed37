package orderControllers

import (
	"context"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
)

// idemCache is an optional Redis fast-path in front of the unique
// idempotency_key column: SETNX rejects a duplicate submission before it
// ever reaches the database. The DB constraint remains the backstop when
// Redis is absent or flushed.
var idemCache *redis.Client

const idemKeyTTL = 24 * time.Hour

// SetIdempotencyCache wires the optional Redis client; nil disables the
// fast path.
func SetIdempotencyCache(rdb *redis.Client) {
	idemCache = rdb
}

// reserveIdempotencyKey returns false when the key was already reserved by
// an earlier submission. Redis errors fail open: the DB constraint decides.
func reserveIdempotencyKey(ctx context.Context, key string) bool {
	if idemCache == nil || key == "" {
		return true
	}
	ok, err := idemCache.SetNX(ctx, "electrostore:idem:"+key, 1, idemKeyTTL).Result()
	if err != nil {
		log.Printf("⚠️ Idempotency cache unavailable: %v", err)
		return true
	}
	return ok
}
