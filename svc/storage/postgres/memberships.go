package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/KeeganArn/TaskFlask-sub000/svc/tenancy"
)

const membershipColumns = `id, user_id, organization_id, role_id, status, created_at, updated_at`

func scanMembership(row scannable, extra ...any) (tenancy.Membership, error) {
	var (
		m      tenancy.Membership
		status string
	)
	dest := append([]any{&m.ID, &m.UserID, &m.OrganizationID, &m.RoleID, &status, &m.CreatedAt, &m.UpdatedAt}, extra...)
	err := row.Scan(dest...)
	m.Status = tenancy.Status(status)
	return m, err
}

func (s *Store) CreateMembership(ctx context.Context, m tenancy.Membership) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO memberships (`+membershipColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		m.ID, m.UserID, m.OrganizationID, m.RoleID, string(m.Status), m.CreatedAt, m.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create membership: %w", translate(err, tenancy.ErrRoleNotFound))
	}
	return nil
}

func (s *Store) UpdateMembership(ctx context.Context, m tenancy.Membership) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE memberships SET role_id = $3, status = $4, updated_at = $5
		 WHERE organization_id = $1 AND id = $2`,
		m.OrganizationID, m.ID, m.RoleID, string(m.Status), m.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update membership %s: %w", m.ID, translate(err, tenancy.ErrRoleNotFound))
	}
	if tag.RowsAffected() == 0 {
		return tenancy.ErrMembershipNotFound
	}
	return nil
}

func (s *Store) GetMembership(ctx context.Context, orgID, membershipID uuid.UUID) (tenancy.Membership, error) {
	return s.getMembership(ctx, `organization_id = $1 AND id = $2`, orgID, membershipID)
}

func (s *Store) GetMembershipByID(ctx context.Context, membershipID uuid.UUID) (tenancy.Membership, error) {
	return s.getMembership(ctx, `id = $1`, membershipID)
}

func (s *Store) GetMembershipByUser(ctx context.Context, orgID, userID uuid.UUID) (tenancy.Membership, error) {
	return s.getMembership(ctx, `organization_id = $1 AND user_id = $2 AND status <> 'left'`, orgID, userID)
}

// getMembership locks the row when called inside a transaction.
func (s *Store) getMembership(ctx context.Context, where string, args ...any) (tenancy.Membership, error) {
	m, err := scanMembership(s.db.QueryRow(ctx,
		`SELECT `+membershipColumns+` FROM memberships WHERE `+where+` FOR UPDATE`, args...))
	if err != nil {
		return tenancy.Membership{}, notFound(err, tenancy.ErrMembershipNotFound)
	}
	return m, nil
}

func (s *Store) ListMembers(ctx context.Context, orgID uuid.UUID) ([]tenancy.Member, error) {
	rows, err := s.db.Query(ctx,
		`SELECT m.id, m.user_id, m.organization_id, m.role_id, m.status, m.created_at, m.updated_at,
		        r.name, r.display_name
		 FROM memberships m
		 JOIN roles r ON r.organization_id = m.organization_id AND r.id = m.role_id
		 WHERE m.organization_id = $1
		 ORDER BY m.created_at ASC, m.id ASC`, orgID)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	defer rows.Close()

	var members []tenancy.Member
	for rows.Next() {
		var mem tenancy.Member
		m, err := scanMembership(rows, &mem.RoleName, &mem.RoleDisplayName)
		if err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		mem.Membership = m
		members = append(members, mem)
	}
	return members, rows.Err()
}

func (s *Store) ListUserMemberships(ctx context.Context, userID uuid.UUID) ([]tenancy.Membership, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+membershipColumns+` FROM memberships WHERE user_id = $1 ORDER BY created_at ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list user memberships: %w", err)
	}
	defer rows.Close()

	var out []tenancy.Membership
	for rows.Next() {
		m, err := scanMembership(rows)
		if err != nil {
			return nil, fmt.Errorf("scan membership: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (s *Store) CountMembers(ctx context.Context, orgID uuid.UUID, f tenancy.MemberFilter) (int, error) {
	statuses := make([]string, 0, len(f.Statuses))
	for _, st := range f.Statuses {
		statuses = append(statuses, string(st))
	}
	var roleID *uuid.UUID
	if f.RoleID != uuid.Nil {
		roleID = &f.RoleID
	}
	var n int
	err := s.db.QueryRow(ctx,
		`SELECT count(*) FROM memberships
		 WHERE organization_id = $1
		   AND ($2::uuid IS NULL OR role_id = $2)
		   AND (cardinality($3::text[]) = 0 OR status = ANY($3))`,
		orgID, roleID, statuses).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count members: %w", err)
	}
	return n, nil
}
