package tenancy

import (
	"context"
	"log/slog"
	"time"

	"github.com/KeeganArn/TaskFlask-sub000/pkg/invitecode"
	"github.com/KeeganArn/TaskFlask-sub000/pkg/logger"
)

// Inviter delivers an invite code to a prospective member.
type Inviter interface {
	SendInvitation(ctx context.Context, inv Invitation) error
}

// Service implements organization, role and membership management.
type Service struct {
	store   Store
	catalog Catalog
	codes   *invitecode.Generator
	cache   RoleCache
	fills   cacheFills
	inviter Inviter
	log     *slog.Logger
	now     func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithCatalog replaces the embedded system role catalog.
func WithCatalog(c Catalog) Option {
	return func(s *Service) { s.catalog = c }
}

// WithInviteCodes sets the invite-code generator.
func WithInviteCodes(g *invitecode.Generator) Option {
	return func(s *Service) {
		if g != nil {
			s.codes = g
		}
	}
}

// WithRoleCache puts a cache in front of role lookups.
func WithRoleCache(c RoleCache) Option {
	return func(s *Service) {
		if c != nil {
			s.cache = c
		}
	}
}

// WithInviter enables SendInvitation.
func WithInviter(i Inviter) Option {
	return func(s *Service) { s.inviter = i }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService creates a tenancy service on top of store.
func NewService(store Store, opts ...Option) *Service {
	if store == nil {
		panic("tenancy: store cannot be nil")
	}
	s := &Service{
		store:   store,
		catalog: DefaultCatalog(),
		codes:   invitecode.New(),
		cache:   NoOpRoleCache{},
		log:     logger.Discard(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With(logger.Component("tenancy"))
	return s
}

// Catalog returns the system role catalog used for new organizations.
func (s *Service) Catalog() Catalog { return s.catalog }

func (s *Service) timestamp() time.Time { return s.now().UTC() }
