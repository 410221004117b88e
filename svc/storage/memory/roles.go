package memory

import (
	"cmp"
	"context"
	"slices"

	"github.com/google/uuid"

	"github.com/KeeganArn/TaskFlask-sub000/svc/tenancy"
)

func (s *Store) CreateRole(_ context.Context, role tenancy.Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.orgs[role.OrganizationID]; !ok {
		return tenancy.ErrOrganizationNotFound
	}
	if err := s.checkRoleUnique(role); err != nil {
		return err
	}
	put(s, s.roles, role.ID, role.Clone())
	return nil
}

func (s *Store) UpdateRole(_ context.Context, role tenancy.Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.roles[role.ID]
	if !ok || cur.OrganizationID != role.OrganizationID {
		return tenancy.ErrRoleNotFound
	}
	if err := s.checkRoleUnique(role); err != nil {
		return err
	}
	put(s, s.roles, role.ID, role.Clone())
	return nil
}

func (s *Store) checkRoleUnique(role tenancy.Role) error {
	for id, r := range s.roles {
		if id != role.ID && r.OrganizationID == role.OrganizationID && r.Name == role.Name {
			return tenancy.ErrRoleNameTaken
		}
	}
	return nil
}

func (s *Store) DeleteRole(_ context.Context, orgID, roleID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.roles[roleID]
	if !ok || r.OrganizationID != orgID {
		return tenancy.ErrRoleNotFound
	}
	for _, m := range s.memberships {
		if m.RoleID == roleID {
			return tenancy.ErrRoleInUse
		}
	}
	remove(s, s.roles, roleID)
	return nil
}

func (s *Store) GetRole(_ context.Context, orgID, roleID uuid.UUID) (tenancy.Role, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.roles[roleID]
	if !ok || r.OrganizationID != orgID {
		return tenancy.Role{}, tenancy.ErrRoleNotFound
	}
	return r.Clone(), nil
}

func (s *Store) GetRoleByName(_ context.Context, orgID uuid.UUID, name string) (tenancy.Role, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.roles {
		if r.OrganizationID == orgID && r.Name == name {
			return r.Clone(), nil
		}
	}
	return tenancy.Role{}, tenancy.ErrRoleNotFound
}

// ListRoles returns system roles first, then custom roles, each sorted by name.
func (s *Store) ListRoles(_ context.Context, orgID uuid.UUID) ([]tenancy.Role, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []tenancy.Role
	for _, r := range s.roles {
		if r.OrganizationID == orgID {
			out = append(out, r.Clone())
		}
	}
	slices.SortFunc(out, func(a, b tenancy.Role) int {
		if a.IsSystem != b.IsSystem {
			if a.IsSystem {
				return -1
			}
			return 1
		}
		return cmp.Compare(a.Name, b.Name)
	})
	return out, nil
}
