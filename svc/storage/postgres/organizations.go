package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/KeeganArn/TaskFlask-sub000/svc/tenancy"
)

const organizationColumns = `id, slug, name, invite_code, plan, max_users, max_projects, created_at, updated_at`

func scanOrganization(row scannable) (tenancy.Organization, error) {
	var (
		o    tenancy.Organization
		plan string
	)
	err := row.Scan(&o.ID, &o.Slug, &o.Name, &o.InviteCode, &plan,
		&o.Limits.MaxUsers, &o.Limits.MaxProjects, &o.CreatedAt, &o.UpdatedAt)
	o.Plan = tenancy.Plan(plan)
	return o, err
}

func (s *Store) CreateOrganization(ctx context.Context, o tenancy.Organization) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO organizations (`+organizationColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		o.ID, o.Slug, o.Name, o.InviteCode, string(o.Plan),
		o.Limits.MaxUsers, o.Limits.MaxProjects, o.CreatedAt, o.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create organization: %w", translate(err, nil))
	}
	return nil
}

func (s *Store) UpdateOrganization(ctx context.Context, o tenancy.Organization) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE organizations
		 SET name = $2, invite_code = $3, plan = $4, max_users = $5, max_projects = $6, updated_at = $7
		 WHERE id = $1`,
		o.ID, o.Name, o.InviteCode, string(o.Plan), o.Limits.MaxUsers, o.Limits.MaxProjects, o.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update organization %s: %w", o.ID, translate(err, nil))
	}
	if tag.RowsAffected() == 0 {
		return tenancy.ErrOrganizationNotFound
	}
	return nil
}

func (s *Store) GetOrganization(ctx context.Context, id uuid.UUID) (tenancy.Organization, error) {
	return s.getOrganization(ctx, `id = $1`, id)
}

func (s *Store) GetOrganizationBySlug(ctx context.Context, slug string) (tenancy.Organization, error) {
	return s.getOrganization(ctx, `slug = $1`, slug)
}

func (s *Store) GetOrganizationByInviteCode(ctx context.Context, code string) (tenancy.Organization, error) {
	return s.getOrganization(ctx, `invite_code = $1`, code)
}

func (s *Store) getOrganization(ctx context.Context, where string, arg any) (tenancy.Organization, error) {
	o, err := scanOrganization(s.db.QueryRow(ctx,
		`SELECT `+organizationColumns+` FROM organizations WHERE `+where, arg))
	if err != nil {
		return tenancy.Organization{}, notFound(err, tenancy.ErrOrganizationNotFound)
	}
	return o, nil
}

func (s *Store) SlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := s.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM organizations WHERE slug = $1)`, slug).Scan(&exists)
	return exists, err
}

func (s *Store) InviteCodeExists(ctx context.Context, code string) (bool, error) {
	var exists bool
	err := s.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM organizations WHERE invite_code = $1)`, code).Scan(&exists)
	return exists, err
}
