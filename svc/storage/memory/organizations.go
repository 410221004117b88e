package memory

import (
	"context"

	"github.com/google/uuid"

	"github.com/KeeganArn/TaskFlask-sub000/svc/tenancy"
)

func (s *Store) CreateOrganization(_ context.Context, org tenancy.Organization) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkOrgUnique(org); err != nil {
		return err
	}
	put(s, s.orgs, org.ID, org)
	return nil
}

func (s *Store) UpdateOrganization(_ context.Context, org tenancy.Organization) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.orgs[org.ID]; !ok {
		return tenancy.ErrOrganizationNotFound
	}
	if err := s.checkOrgUnique(org); err != nil {
		return err
	}
	put(s, s.orgs, org.ID, org)
	return nil
}

func (s *Store) checkOrgUnique(org tenancy.Organization) error {
	for id, o := range s.orgs {
		if id == org.ID {
			continue
		}
		if o.Slug == org.Slug {
			return tenancy.ErrSlugTaken
		}
		if o.InviteCode == org.InviteCode {
			return tenancy.ErrInviteCodeConflict
		}
	}
	return nil
}

func (s *Store) GetOrganization(_ context.Context, id uuid.UUID) (tenancy.Organization, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	org, ok := s.orgs[id]
	if !ok {
		return tenancy.Organization{}, tenancy.ErrOrganizationNotFound
	}
	return org, nil
}

func (s *Store) GetOrganizationBySlug(_ context.Context, slug string) (tenancy.Organization, error) {
	return s.findOrg(func(o tenancy.Organization) bool { return o.Slug == slug })
}

func (s *Store) GetOrganizationByInviteCode(_ context.Context, code string) (tenancy.Organization, error) {
	return s.findOrg(func(o tenancy.Organization) bool { return o.InviteCode == code })
}

func (s *Store) SlugExists(ctx context.Context, slug string) (bool, error) {
	_, err := s.GetOrganizationBySlug(ctx, slug)
	return err == nil, nil
}

func (s *Store) InviteCodeExists(ctx context.Context, code string) (bool, error) {
	_, err := s.GetOrganizationByInviteCode(ctx, code)
	return err == nil, nil
}

func (s *Store) findOrg(match func(tenancy.Organization) bool) (tenancy.Organization, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, o := range s.orgs {
		if match(o) {
			return o, nil
		}
	}
	return tenancy.Organization{}, tenancy.ErrOrganizationNotFound
}
