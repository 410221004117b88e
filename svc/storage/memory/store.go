package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/KeeganArn/TaskFlask-sub000/svc/auth"
	"github.com/KeeganArn/TaskFlask-sub000/svc/tenancy"
)

var (
	_ tenancy.Store  = (*Store)(nil)
	_ auth.UserStore = (*Store)(nil)
)

// Store keeps every entity in maps guarded by a mutex.
type Store struct {
	*data
	// undo collects compensating actions for writes made through a
	// transactional view; nil outside WithTx.
	undo *[]func()
}

type data struct {
	mu   sync.RWMutex
	txMu sync.Mutex

	orgs        map[uuid.UUID]tenancy.Organization
	roles       map[uuid.UUID]tenancy.Role
	memberships map[uuid.UUID]tenancy.Membership
	users       map[uuid.UUID]auth.User
}

func New() *Store {
	return &Store{data: &data{
		orgs:        make(map[uuid.UUID]tenancy.Organization),
		roles:       make(map[uuid.UUID]tenancy.Role),
		memberships: make(map[uuid.UUID]tenancy.Membership),
		users:       make(map[uuid.UUID]auth.User),
	}}
}

// WithTx serializes transactions. When fn fails, only the writes fn made are
// reverted; writes made outside the transaction meanwhile are kept. Called on
// a transactional view it behaves like a savepoint.
func (s *Store) WithTx(ctx context.Context, fn func(tenancy.Store) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.undo == nil {
		s.txMu.Lock()
		defer s.txMu.Unlock()
	}

	var undo []func()
	tx := &Store{data: s.data, undo: &undo}
	if err := fn(tx); err != nil {
		s.mu.Lock()
		for i := len(undo) - 1; i >= 0; i-- {
			undo[i]()
		}
		s.mu.Unlock()
		return err
	}
	if s.undo != nil {
		*s.undo = append(*s.undo, undo...)
	}
	return nil
}

// remember records a compensating action. Callers hold mu.
func (s *Store) remember(fn func()) {
	if s.undo != nil {
		*s.undo = append(*s.undo, fn)
	}
}

// put writes m[k] and remembers how to restore the previous entry.
func put[K comparable, V any](s *Store, m map[K]V, k K, v V) {
	prev, existed := m[k]
	m[k] = v
	s.remember(func() {
		if existed {
			m[k] = prev
		} else {
			delete(m, k)
		}
	})
}

// remove deletes m[k] and remembers how to restore it.
func remove[K comparable, V any](s *Store, m map[K]V, k K) {
	prev, existed := m[k]
	if !existed {
		return
	}
	delete(m, k)
	s.remember(func() { m[k] = prev })
}

// Ping satisfies readiness checks.
func (s *Store) Ping(context.Context) error { return nil }
