package auth

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/KeeganArn/TaskFlask-sub000/pkg/tracing"
	"github.com/KeeganArn/TaskFlask-sub000/svc/tenancy"
)

// Directory is the tenancy view the resolver reads from.
type Directory interface {
	ListUserMemberships(ctx context.Context, userID uuid.UUID) ([]tenancy.Membership, error)
	GetOrganization(ctx context.Context, id uuid.UUID) (tenancy.Organization, error)
	GetRole(ctx context.Context, orgID, roleID uuid.UUID) (tenancy.Role, error)
}

// Selector names the organization to authenticate into. The zero value
// means no explicit choice.
type Selector struct {
	OrganizationID uuid.UUID
	Slug           string
}

// ParseSelector accepts an organization id or slug. Empty input yields the zero Selector.
func ParseSelector(s string) Selector {
	s = strings.TrimSpace(s)
	if s == "" {
		return Selector{}
	}
	if id, err := uuid.Parse(s); err == nil {
		return Selector{OrganizationID: id}
	}
	return Selector{Slug: strings.ToLower(s)}
}

// IsZero reports whether no organization was chosen.
func (s Selector) IsZero() bool {
	return s.OrganizationID == uuid.Nil && s.Slug == ""
}

func (s Selector) matches(org tenancy.Organization) bool {
	if s.OrganizationID != uuid.Nil {
		return org.ID == s.OrganizationID
	}
	return org.Slug == s.Slug
}

// Candidate is an organization the user may choose to authenticate into.
type Candidate struct {
	OrganizationID   uuid.UUID `json:"organization_id"`
	OrganizationSlug string    `json:"organization_slug"`
	OrganizationName string    `json:"organization_name"`
	Role             string    `json:"role"`
	RoleDisplayName  string    `json:"role_display_name"`
}

// Resolution is the outcome of Resolve: either a Principal or, when the user
// must pick an organization, the list of candidates.
type Resolution struct {
	Principal  *Principal
	Candidates []Candidate
}

// SelectionRequired reports whether the caller has to choose an organization.
func (r Resolution) SelectionRequired() bool {
	return r.Principal == nil && len(r.Candidates) > 0
}

// Resolver maps an authenticated user onto one organization membership.
type Resolver struct {
	dir Directory
}

func NewResolver(dir Directory) *Resolver {
	if dir == nil {
		panic("auth: directory cannot be nil")
	}
	return &Resolver{dir: dir}
}

type entry struct {
	membership tenancy.Membership
	org        tenancy.Organization
}

// Resolve selects the membership userID acts within.
func (r *Resolver) Resolve(ctx context.Context, userID uuid.UUID, sel Selector) (_ Resolution, err error) {
	ctx, span := tracing.StartSpan(ctx, "auth.Resolve", attribute.String("user.id", userID.String()))
	defer func() { tracing.End(span, err) }()

	memberships, err := r.dir.ListUserMemberships(ctx, userID)
	if err != nil {
		return Resolution{}, err
	}
	active := slices.DeleteFunc(slices.Clone(memberships), func(m tenancy.Membership) bool {
		return !m.IsActive()
	})
	if len(active) == 0 {
		return Resolution{}, ErrNoMembership
	}

	entries := make([]entry, 0, len(active))
	for _, m := range active {
		org, err := r.dir.GetOrganization(ctx, m.OrganizationID)
		if err != nil {
			return Resolution{}, fmt.Errorf("load organization %s: %w", m.OrganizationID, err)
		}
		entries = append(entries, entry{membership: m, org: org})
	}

	if !sel.IsZero() {
		i := slices.IndexFunc(entries, func(e entry) bool { return sel.matches(e.org) })
		if i < 0 {
			return Resolution{}, ErrAccessDenied
		}
		return r.principal(ctx, entries[i])
	}
	if len(entries) == 1 {
		return r.principal(ctx, entries[0])
	}

	candidates := make([]Candidate, 0, len(entries))
	for _, e := range entries {
		role, err := r.dir.GetRole(ctx, e.org.ID, e.membership.RoleID)
		if err != nil {
			return Resolution{}, err
		}
		candidates = append(candidates, Candidate{
			OrganizationID:   e.org.ID,
			OrganizationSlug: e.org.Slug,
			OrganizationName: e.org.Name,
			Role:             role.Name,
			RoleDisplayName:  role.DisplayName,
		})
	}
	slices.SortFunc(candidates, func(a, b Candidate) int {
		return strings.Compare(a.OrganizationSlug, b.OrganizationSlug)
	})
	span.SetAttributes(attribute.Int("auth.candidates", len(candidates)))
	return Resolution{Candidates: candidates}, nil
}

func (r *Resolver) principal(ctx context.Context, e entry) (Resolution, error) {
	role, err := r.dir.GetRole(ctx, e.org.ID, e.membership.RoleID)
	if err != nil {
		return Resolution{}, err
	}
	return Resolution{Principal: &Principal{
		UserID:           e.membership.UserID,
		OrganizationID:   e.org.ID,
		OrganizationSlug: e.org.Slug,
		MembershipID:     e.membership.ID,
		RoleID:           role.ID,
		Role:             role.Name,
		Permissions:      slices.Clone(role.Permissions),
	}}, nil
}
