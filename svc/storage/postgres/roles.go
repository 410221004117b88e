package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/KeeganArn/TaskFlask-sub000/svc/tenancy"
)

const roleColumns = `id, organization_id, name, display_name, permissions, is_system, created_at, updated_at`

func scanRole(row scannable) (tenancy.Role, error) {
	var r tenancy.Role
	err := row.Scan(&r.ID, &r.OrganizationID, &r.Name, &r.DisplayName, &r.Permissions,
		&r.IsSystem, &r.CreatedAt, &r.UpdatedAt)
	return r, err
}

func (s *Store) CreateRole(ctx context.Context, r tenancy.Role) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO roles (`+roleColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		r.ID, r.OrganizationID, r.Name, r.DisplayName, orEmpty(r.Permissions), r.IsSystem, r.CreatedAt, r.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create role: %w", translate(err, tenancy.ErrOrganizationNotFound))
	}
	return nil
}

func (s *Store) UpdateRole(ctx context.Context, r tenancy.Role) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE roles SET display_name = $3, permissions = $4, updated_at = $5
		 WHERE organization_id = $1 AND id = $2`,
		r.OrganizationID, r.ID, r.DisplayName, orEmpty(r.Permissions), r.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update role %s: %w", r.ID, translate(err, nil))
	}
	if tag.RowsAffected() == 0 {
		return tenancy.ErrRoleNotFound
	}
	return nil
}

func (s *Store) DeleteRole(ctx context.Context, orgID, roleID uuid.UUID) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM roles WHERE organization_id = $1 AND id = $2`, orgID, roleID)
	if err != nil {
		return fmt.Errorf("delete role %s: %w", roleID, translate(err, tenancy.ErrRoleInUse))
	}
	if tag.RowsAffected() == 0 {
		return tenancy.ErrRoleNotFound
	}
	return nil
}

func (s *Store) GetRole(ctx context.Context, orgID, roleID uuid.UUID) (tenancy.Role, error) {
	r, err := scanRole(s.db.QueryRow(ctx,
		`SELECT `+roleColumns+` FROM roles WHERE organization_id = $1 AND id = $2`, orgID, roleID))
	if err != nil {
		return tenancy.Role{}, notFound(err, tenancy.ErrRoleNotFound)
	}
	return r, nil
}

func (s *Store) GetRoleByName(ctx context.Context, orgID uuid.UUID, name string) (tenancy.Role, error) {
	r, err := scanRole(s.db.QueryRow(ctx,
		`SELECT `+roleColumns+` FROM roles WHERE organization_id = $1 AND name = $2`, orgID, name))
	if err != nil {
		return tenancy.Role{}, notFound(err, tenancy.ErrRoleNotFound)
	}
	return r, nil
}

func (s *Store) ListRoles(ctx context.Context, orgID uuid.UUID) ([]tenancy.Role, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+roleColumns+` FROM roles WHERE organization_id = $1
		 ORDER BY is_system DESC, name ASC`, orgID)
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	defer rows.Close()

	var roles []tenancy.Role
	for rows.Next() {
		r, err := scanRole(rows)
		if err != nil {
			return nil, fmt.Errorf("scan role: %w", err)
		}
		roles = append(roles, r)
	}
	return roles, rows.Err()
}
