package tenancy

import (
	"context"

	"github.com/google/uuid"
)

// OrganizationStore persists organizations.
// Unique violations are reported as ErrSlugTaken or ErrInviteCodeConflict.
type OrganizationStore interface {
	CreateOrganization(ctx context.Context, org Organization) error
	UpdateOrganization(ctx context.Context, org Organization) error
	GetOrganization(ctx context.Context, id uuid.UUID) (Organization, error)
	GetOrganizationBySlug(ctx context.Context, slug string) (Organization, error)
	GetOrganizationByInviteCode(ctx context.Context, code string) (Organization, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	InviteCodeExists(ctx context.Context, code string) (bool, error)
}

// RoleStore persists roles. Every lookup is scoped by organization id.
type RoleStore interface {
	CreateRole(ctx context.Context, role Role) error
	UpdateRole(ctx context.Context, role Role) error
	DeleteRole(ctx context.Context, orgID, roleID uuid.UUID) error
	GetRole(ctx context.Context, orgID, roleID uuid.UUID) (Role, error)
	GetRoleByName(ctx context.Context, orgID uuid.UUID, name string) (Role, error)
	ListRoles(ctx context.Context, orgID uuid.UUID) ([]Role, error)
}

// MembershipStore persists memberships.
// A user holds at most one membership per organization that has not been left;
// creating a second one is reported as ErrAlreadyMember.
type MembershipStore interface {
	CreateMembership(ctx context.Context, m Membership) error
	UpdateMembership(ctx context.Context, m Membership) error
	GetMembership(ctx context.Context, orgID, membershipID uuid.UUID) (Membership, error)
	GetMembershipByID(ctx context.Context, membershipID uuid.UUID) (Membership, error)
	GetMembershipByUser(ctx context.Context, orgID, userID uuid.UUID) (Membership, error)
	ListMembers(ctx context.Context, orgID uuid.UUID) ([]Member, error)
	ListUserMemberships(ctx context.Context, userID uuid.UUID) ([]Membership, error)
	CountMembers(ctx context.Context, orgID uuid.UUID, filter MemberFilter) (int, error)
}

// Store groups the tenancy ports with transaction support.
type Store interface {
	OrganizationStore
	RoleStore
	MembershipStore

	// WithTx runs fn against a transactional view of the store.
	// The transaction is rolled back when fn returns an error.
	WithTx(ctx context.Context, fn func(Store) error) error
}
