package memory

import (
	"context"
	"slices"

	"github.com/google/uuid"

	"github.com/KeeganArn/TaskFlask-sub000/svc/tenancy"
)

func (s *Store) CreateMembership(_ context.Context, m tenancy.Membership) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.orgs[m.OrganizationID]; !ok {
		return tenancy.ErrOrganizationNotFound
	}
	if r, ok := s.roles[m.RoleID]; !ok || r.OrganizationID != m.OrganizationID {
		return tenancy.ErrRoleNotFound
	}
	for _, cur := range s.memberships {
		if cur.OrganizationID == m.OrganizationID && cur.UserID == m.UserID && cur.Status != tenancy.StatusLeft {
			return tenancy.ErrAlreadyMember
		}
	}
	put(s, s.memberships, m.ID, m)
	return nil
}

func (s *Store) UpdateMembership(_ context.Context, m tenancy.Membership) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.memberships[m.ID]
	if !ok || cur.OrganizationID != m.OrganizationID {
		return tenancy.ErrMembershipNotFound
	}
	if r, ok := s.roles[m.RoleID]; !ok || r.OrganizationID != m.OrganizationID {
		return tenancy.ErrRoleNotFound
	}
	put(s, s.memberships, m.ID, m)
	return nil
}

func (s *Store) GetMembership(_ context.Context, orgID, membershipID uuid.UUID) (tenancy.Membership, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.memberships[membershipID]
	if !ok || m.OrganizationID != orgID {
		return tenancy.Membership{}, tenancy.ErrMembershipNotFound
	}
	return m, nil
}

func (s *Store) GetMembershipByID(_ context.Context, membershipID uuid.UUID) (tenancy.Membership, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.memberships[membershipID]
	if !ok {
		return tenancy.Membership{}, tenancy.ErrMembershipNotFound
	}
	return m, nil
}

// GetMembershipByUser ignores memberships that have been left.
func (s *Store) GetMembershipByUser(_ context.Context, orgID, userID uuid.UUID) (tenancy.Membership, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, m := range s.memberships {
		if m.OrganizationID == orgID && m.UserID == userID && m.Status != tenancy.StatusLeft {
			return m, nil
		}
	}
	return tenancy.Membership{}, tenancy.ErrMembershipNotFound
}

func (s *Store) ListMembers(_ context.Context, orgID uuid.UUID) ([]tenancy.Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []tenancy.Member
	for _, m := range s.memberships {
		if m.OrganizationID != orgID {
			continue
		}
		r := s.roles[m.RoleID]
		out = append(out, tenancy.Member{Membership: m, RoleName: r.Name, RoleDisplayName: r.DisplayName})
	}
	slices.SortFunc(out, func(a, b tenancy.Member) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return slices.Compare(a.ID[:], b.ID[:])
	})
	return out, nil
}

func (s *Store) ListUserMemberships(_ context.Context, userID uuid.UUID) ([]tenancy.Membership, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []tenancy.Membership
	for _, m := range s.memberships {
		if m.UserID == userID {
			out = append(out, m)
		}
	}
	slices.SortFunc(out, func(a, b tenancy.Membership) int { return a.CreatedAt.Compare(b.CreatedAt) })
	return out, nil
}

func (s *Store) CountMembers(_ context.Context, orgID uuid.UUID, filter tenancy.MemberFilter) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, m := range s.memberships {
		if m.OrganizationID == orgID && filter.Matches(m) {
			n++
		}
	}
	return n, nil
}
