// Package redis opens go-redis/v9 clients with retry and exposes a readiness probe.
package redis
