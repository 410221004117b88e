package auth

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// RevocationStore remembers revoked session ids until their tokens expire.
type RevocationStore interface {
	Revoke(ctx context.Context, sessionID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, sessionID string) (bool, error)
}

// RedisRevocations keeps revoked session ids in Redis with a TTL.
type RedisRevocations struct {
	client redis.UniversalClient
	prefix string
}

// NewRedisRevocations stores keys as <prefix>session:revoked:<id>.
func NewRedisRevocations(client redis.UniversalClient, prefix string) *RedisRevocations {
	if client == nil {
		panic("auth: redis client cannot be nil")
	}
	return &RedisRevocations{client: client, prefix: prefix + "session:revoked:"}
}

func (r *RedisRevocations) Revoke(ctx context.Context, sessionID string, ttl time.Duration) error {
	return r.client.Set(ctx, r.prefix+sessionID, 1, ttl).Err()
}

func (r *RedisRevocations) IsRevoked(ctx context.Context, sessionID string) (bool, error) {
	n, err := r.client.Exists(ctx, r.prefix+sessionID).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return false, err
	}
	return n > 0, nil
}

// MemoryRevocations is a process-local RevocationStore.
type MemoryRevocations struct {
	mu      sync.Mutex
	revoked map[string]time.Time
	now     func() time.Time
}

// MemoryRevocationsOption configures MemoryRevocations.
type MemoryRevocationsOption func(*MemoryRevocations)

func WithRevocationClock(now func() time.Time) MemoryRevocationsOption {
	return func(m *MemoryRevocations) {
		if now != nil {
			m.now = now
		}
	}
}

func NewMemoryRevocations(opts ...MemoryRevocationsOption) *MemoryRevocations {
	m := &MemoryRevocations{revoked: make(map[string]time.Time), now: time.Now}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *MemoryRevocations) Revoke(_ context.Context, sessionID string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	for id, until := range m.revoked {
		if !until.After(now) {
			delete(m.revoked, id)
		}
	}
	m.revoked[sessionID] = now.Add(ttl)
	return nil
}

func (m *MemoryRevocations) IsRevoked(_ context.Context, sessionID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	until, ok := m.revoked[sessionID]
	if !ok {
		return false, nil
	}
	if !until.After(m.now()) {
		delete(m.revoked, sessionID)
		return false, nil
	}
	return true, nil
}
