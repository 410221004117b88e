package tenancy

import (
	"sync"
	"time"

	"github.com/dgraph-io/ristretto/v2"
	"github.com/google/uuid"
)

// RoleCache caches roles by organization and role id.
type RoleCache interface {
	Get(orgID, roleID uuid.UUID) (Role, bool)
	Set(role Role)
	Delete(orgID, roleID uuid.UUID)
}

// NoOpRoleCache disables role caching.
type NoOpRoleCache struct{}

func (NoOpRoleCache) Get(uuid.UUID, uuid.UUID) (Role, bool) { return Role{}, false }
func (NoOpRoleCache) Set(Role)                              {}
func (NoOpRoleCache) Delete(uuid.UUID, uuid.UUID)           {}

// cacheFills orders cache fills against invalidations. A fill started before
// an invalidation is dropped, so a role read before an edit is never cached
// after the edit removed the entry.
type cacheFills struct {
	mu    sync.Mutex
	epoch uint64
}

// begin returns the epoch to pass to fill. Call it before reading the store.
func (f *cacheFills) begin() uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.epoch
}

// fill runs set unless an invalidation happened since begin.
func (f *cacheFills) fill(epoch uint64, set func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.epoch == epoch {
		set()
	}
}

// invalidate starts a new epoch and runs del. Call it after the store write
// is durable.
func (f *cacheFills) invalidate(del func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.epoch++
	del()
}

// DefaultRoleCacheTTL bounds how long a cached role can outlive an edit made
// by another process.
const DefaultRoleCacheTTL = time.Minute

// CachedRoles is an in-process role cache backed by ristretto.
type CachedRoles struct {
	c   *ristretto.Cache[string, Role]
	ttl time.Duration
}

// NewCachedRoles creates a cache holding roughly maxRoles entries.
func NewCachedRoles(maxRoles int64, ttl time.Duration) (*CachedRoles, error) {
	if maxRoles <= 0 {
		maxRoles = 10_000
	}
	if ttl <= 0 {
		ttl = DefaultRoleCacheTTL
	}
	c, err := ristretto.NewCache(&ristretto.Config[string, Role]{
		NumCounters: maxRoles * 10,
		MaxCost:     maxRoles,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}
	return &CachedRoles{c: c, ttl: ttl}, nil
}

// Get returns a copy of the cached role.
func (c *CachedRoles) Get(orgID, roleID uuid.UUID) (Role, bool) {
	r, ok := c.c.Get(roleKey(orgID, roleID))
	if !ok {
		return Role{}, false
	}
	return r.Clone(), true
}

// Set stores a copy of role. The write is visible once ristretto's buffers drain.
func (c *CachedRoles) Set(role Role) {
	c.c.SetWithTTL(roleKey(role.OrganizationID, role.ID), role.Clone(), 1, c.ttl)
}

func (c *CachedRoles) Delete(orgID, roleID uuid.UUID) {
	c.c.Del(roleKey(orgID, roleID))
}

// Wait blocks until pending writes are applied.
func (c *CachedRoles) Wait() { c.c.Wait() }

func (c *CachedRoles) Close() { c.c.Close() }

func roleKey(orgID, roleID uuid.UUID) string {
	return orgID.String() + ":" + roleID.String()
}
