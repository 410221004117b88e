package tenancy

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/KeeganArn/TaskFlask-sub000/pkg/logger"
	"github.com/KeeganArn/TaskFlask-sub000/pkg/permission"
	"github.com/KeeganArn/TaskFlask-sub000/pkg/sanitizer"
)

const maxDisplayNameLength = 64

// ListRoles returns the organization's system and custom roles.
func (s *Service) ListRoles(ctx context.Context, orgID uuid.UUID) ([]Role, error) {
	return s.store.ListRoles(ctx, orgID)
}

// GetRole returns a role owned by orgID. A role from another organization is
// reported as ErrRoleNotFound.
func (s *Service) GetRole(ctx context.Context, orgID, roleID uuid.UUID) (Role, error) {
	if r, ok := s.cache.Get(orgID, roleID); ok {
		return r, nil
	}
	epoch := s.fills.begin()
	r, err := s.store.GetRole(ctx, orgID, roleID)
	if err != nil {
		return Role{}, err
	}
	if r.OrganizationID != orgID {
		return Role{}, ErrRoleNotFound
	}
	s.fills.fill(epoch, func() { s.cache.Set(r) })
	return r.Clone(), nil
}

// CreateRoleParams describes a custom role.
type CreateRoleParams struct {
	Name        string
	DisplayName string
	Permissions []string
}

// CreateRole adds a custom role to the organization.
func (s *Service) CreateRole(ctx context.Context, orgID uuid.UUID, p CreateRoleParams) (Role, error) {
	name := strings.TrimSpace(p.Name)
	if !ValidRoleName(name) {
		return Role{}, ErrInvalidRoleName
	}
	if _, ok := s.catalog.Template(name); ok {
		return Role{}, ErrRoleNameTaken
	}
	display, err := displayName(p.DisplayName, name)
	if err != nil {
		return Role{}, err
	}
	perms, err := permission.ValidateAll(p.Permissions)
	if err != nil {
		return Role{}, errors.Join(ErrInvalidPermissions, err)
	}
	if _, err := s.store.GetOrganization(ctx, orgID); err != nil {
		return Role{}, err
	}

	now := s.timestamp()
	r := Role{
		ID:             uuid.New(),
		OrganizationID: orgID,
		Name:           name,
		DisplayName:    display,
		Permissions:    perms,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.store.CreateRole(ctx, r); err != nil {
		return Role{}, err
	}
	s.log.InfoContext(ctx, "role created",
		logger.OrganizationID(orgID),
		logger.RoleID(r.ID),
		logger.Role(r.Name),
		logger.Permissions(r.Permissions),
	)
	return r, nil
}

// UpdateRoleParams holds optional changes. Nil fields are left as is.
type UpdateRoleParams struct {
	DisplayName *string
	Permissions *[]string
}

// UpdateRole edits a custom role. Principals already issued keep their
// snapshot until they are re-issued.
func (s *Service) UpdateRole(ctx context.Context, orgID, roleID uuid.UUID, p UpdateRoleParams) (Role, error) {
	r, err := s.store.GetRole(ctx, orgID, roleID)
	if err != nil {
		return Role{}, err
	}
	if r.IsSystem {
		return Role{}, ErrSystemRoleImmutable
	}
	if p.DisplayName != nil {
		if r.DisplayName, err = displayName(*p.DisplayName, r.Name); err != nil {
			return Role{}, err
		}
	}
	if p.Permissions != nil {
		perms, err := permission.ValidateAll(*p.Permissions)
		if err != nil {
			return Role{}, errors.Join(ErrInvalidPermissions, err)
		}
		r.Permissions = perms
	}
	r.UpdatedAt = s.timestamp()
	if err := s.store.UpdateRole(ctx, r); err != nil {
		return Role{}, err
	}
	s.invalidateRole(orgID, roleID)
	s.log.InfoContext(ctx, "role updated",
		logger.OrganizationID(orgID),
		logger.RoleID(r.ID),
		logger.Permissions(r.Permissions),
	)
	return r, nil
}

// DeleteRole removes a custom role that no membership references.
func (s *Service) DeleteRole(ctx context.Context, orgID, roleID uuid.UUID) error {
	err := s.store.WithTx(ctx, func(tx Store) error {
		r, err := tx.GetRole(ctx, orgID, roleID)
		if err != nil {
			return err
		}
		if r.IsSystem {
			return ErrSystemRoleImmutable
		}
		// Left memberships keep their role reference for history.
		n, err := tx.CountMembers(ctx, orgID, MemberFilter{RoleID: roleID})
		if err != nil {
			return err
		}
		if n > 0 {
			return ErrRoleInUse
		}
		return tx.DeleteRole(ctx, orgID, roleID)
	})
	if err != nil {
		return err
	}
	s.invalidateRole(orgID, roleID)
	s.log.InfoContext(ctx, "role deleted", logger.OrganizationID(orgID), logger.RoleID(roleID))
	return nil
}

func (s *Service) invalidateRole(orgID, roleID uuid.UUID) {
	s.fills.invalidate(func() { s.cache.Delete(orgID, roleID) })
}

func displayName(v, fallback string) (string, error) {
	v = sanitizer.DisplayName(v)
	if v == "" {
		return fallback, nil
	}
	if utf8.RuneCountInString(v) > maxDisplayNameLength {
		return "", ErrInvalidName
	}
	return v, nil
}
