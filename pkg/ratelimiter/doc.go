// Package ratelimiter throttles requests with a token bucket.
//
// A bucket holds up to Capacity tokens and regains RefillRate tokens every
// RefillInterval. Each request consumes one token; a request that finds too
// few tokens is denied and consumes nothing.
//
//	store := ratelimiter.NewMemoryStore()
//	defer store.Close()
//
//	limiter, err := ratelimiter.NewBucket(store, ratelimiter.Config{
//		Capacity:       10,
//		RefillRate:     1,
//		RefillInterval: 6 * time.Second,
//	})
//	if err != nil {
//		return err
//	}
//
//	r.With(ratelimiter.Middleware(limiter, ratelimiter.ByClientIP("auth"))).
//		Post("/auth/login", login)
//
// MemoryStore keeps buckets in process and sweeps idle ones. RedisStore keeps
// them in Redis so every replica shares the same budget; the refill and
// consume step runs as one Lua script against the server clock.
//
// The middleware sets X-RateLimit-Limit, X-RateLimit-Remaining and
// X-RateLimit-Reset, plus Retry-After on 429 responses.
package ratelimiter
