package tenancy

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"go.opentelemetry.io/otel/attribute"

	"github.com/KeeganArn/TaskFlask-sub000/pkg/invitecode"
	"github.com/KeeganArn/TaskFlask-sub000/pkg/logger"
	"github.com/KeeganArn/TaskFlask-sub000/pkg/sanitizer"
	"github.com/KeeganArn/TaskFlask-sub000/pkg/tracing"
)

const (
	maxNameLength      = 120
	maxSlugLength      = 63
	createAttempts     = 3
	slugSuffixBytes    = 3
	fallbackSlugPrefix = "org"
)

// CreateOrganizationParams describes a new organization.
type CreateOrganizationParams struct {
	Name    string
	Slug    string // derived from Name when empty
	Plan    Plan   // PlanFree when empty
	OwnerID uuid.UUID
}

// Setup is the result of creating an organization.
type Setup struct {
	Organization Organization
	Roles        []Role
	Owner        Membership
}

// CreateOrganization creates an organization, seeds its system roles and
// makes the owner an active member, all in one transaction.
func (s *Service) CreateOrganization(ctx context.Context, p CreateOrganizationParams) (_ Setup, err error) {
	ctx, span := tracing.StartSpan(ctx, "tenancy.CreateOrganization",
		attribute.String("user.id", p.OwnerID.String()))
	defer func() { tracing.End(span, err) }()

	name := sanitizer.DisplayName(p.Name)
	if name == "" || utf8.RuneCountInString(name) > maxNameLength {
		return Setup{}, ErrInvalidName
	}
	if p.Plan == "" {
		p.Plan = PlanFree
	}
	if !p.Plan.Valid() {
		return Setup{}, ErrInvalidPlan
	}
	if p.OwnerID == uuid.Nil {
		return Setup{}, ErrOwnerRequired
	}

	explicit := p.Slug != ""
	base := p.Slug
	if explicit {
		if !validSlug(base) {
			return Setup{}, ErrInvalidSlug
		}
	} else {
		base = deriveSlug(name)
	}

	var (
		setup       Setup
		forceSuffix bool
	)
	for attempt := 1; attempt <= createAttempts; attempt++ {
		candidate := base
		if !explicit {
			if candidate, err = s.availableSlug(ctx, base, forceSuffix); err != nil {
				return Setup{}, err
			}
		}

		setup, err = s.createOrganization(ctx, name, candidate, p)
		switch {
		case err == nil:
			s.log.InfoContext(ctx, "organization created",
				logger.OrganizationID(setup.Organization.ID),
				logger.UserID(p.OwnerID),
				slog.String("slug", setup.Organization.Slug),
			)
			return setup, nil
		case errors.Is(err, ErrInviteCodeConflict):
			s.log.WarnContext(ctx, "invite code conflict, retrying", slog.Int("attempt", attempt))
			continue
		case errors.Is(err, ErrSlugTaken) && !explicit:
			forceSuffix = true
			continue
		default:
			return Setup{}, err
		}
	}
	return Setup{}, err
}

func (s *Service) createOrganization(ctx context.Context, name, orgSlug string, p CreateOrganizationParams) (Setup, error) {
	code, err := s.codes.Generate(ctx, s.store.InviteCodeExists)
	if err != nil {
		return Setup{}, err
	}

	now := s.timestamp()
	org := Organization{
		ID:         uuid.New(),
		Slug:       orgSlug,
		Name:       name,
		InviteCode: code,
		Plan:       p.Plan,
		Limits:     DefaultLimits(p.Plan),
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	var setup Setup
	err = s.store.WithTx(ctx, func(tx Store) error {
		if err := tx.CreateOrganization(ctx, org); err != nil {
			return err
		}
		roles := make([]Role, 0, len(s.catalog.Roles))
		var owner Role
		for _, t := range s.catalog.Roles {
			r := Role{
				ID:             uuid.New(),
				OrganizationID: org.ID,
				Name:           t.Name,
				DisplayName:    t.DisplayName,
				Permissions:    append([]string(nil), t.Permissions...),
				IsSystem:       true,
				CreatedAt:      now,
				UpdatedAt:      now,
			}
			if err := tx.CreateRole(ctx, r); err != nil {
				return err
			}
			if r.Name == RoleOwner {
				owner = r
			}
			roles = append(roles, r)
		}
		m := Membership{
			ID:             uuid.New(),
			UserID:         p.OwnerID,
			OrganizationID: org.ID,
			RoleID:         owner.ID,
			Status:         StatusActive,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if err := tx.CreateMembership(ctx, m); err != nil {
			return err
		}
		setup = Setup{Organization: org, Roles: roles, Owner: m}
		return nil
	})
	return setup, err
}

// availableSlug returns base, or base with a random suffix when base is taken
// or force is set.
func (s *Service) availableSlug(ctx context.Context, base string, force bool) (string, error) {
	if !force {
		taken, err := s.store.SlugExists(ctx, base)
		if err != nil {
			return "", err
		}
		if !taken {
			return base, nil
		}
	}
	suffix, err := randomSuffix()
	if err != nil {
		return "", err
	}
	if len(base)+1+len(suffix) > maxSlugLength {
		base = strings.TrimRight(base[:maxSlugLength-1-len(suffix)], "-")
	}
	return base + "-" + suffix, nil
}

// GetOrganization returns the organization with the given id.
func (s *Service) GetOrganization(ctx context.Context, id uuid.UUID) (Organization, error) {
	return s.store.GetOrganization(ctx, id)
}

// GetOrganizationBySlug returns the organization with the given slug.
func (s *Service) GetOrganizationBySlug(ctx context.Context, orgSlug string) (Organization, error) {
	return s.store.GetOrganizationBySlug(ctx, sanitizer.TrimToLower(orgSlug))
}

// UpdateOrganizationParams holds optional changes. Nil fields are left as is.
type UpdateOrganizationParams struct {
	Name *string
	Plan *Plan
}

// UpdateOrganization renames an organization or changes its plan.
// A plan change resets the limits to the plan defaults.
func (s *Service) UpdateOrganization(ctx context.Context, orgID uuid.UUID, p UpdateOrganizationParams) (Organization, error) {
	org, err := s.store.GetOrganization(ctx, orgID)
	if err != nil {
		return Organization{}, err
	}
	if p.Name != nil {
		name := sanitizer.DisplayName(*p.Name)
		if name == "" || utf8.RuneCountInString(name) > maxNameLength {
			return Organization{}, ErrInvalidName
		}
		org.Name = name
	}
	if p.Plan != nil {
		if !p.Plan.Valid() {
			return Organization{}, ErrInvalidPlan
		}
		org.Plan = *p.Plan
		org.Limits = DefaultLimits(*p.Plan)
	}
	org.UpdatedAt = s.timestamp()
	if err := s.store.UpdateOrganization(ctx, org); err != nil {
		return Organization{}, err
	}
	return org, nil
}

// RegenerateInviteCode replaces the organization's invite code.
func (s *Service) RegenerateInviteCode(ctx context.Context, orgID uuid.UUID) (Organization, error) {
	org, err := s.store.GetOrganization(ctx, orgID)
	if err != nil {
		return Organization{}, err
	}
	for attempt := 1; ; attempt++ {
		code, err := s.codes.Generate(ctx, s.store.InviteCodeExists)
		if err != nil {
			return Organization{}, err
		}
		org.InviteCode = code
		org.UpdatedAt = s.timestamp()
		err = s.store.UpdateOrganization(ctx, org)
		if err == nil {
			s.log.InfoContext(ctx, "invite code regenerated", logger.OrganizationID(org.ID))
			return org, nil
		}
		if !errors.Is(err, ErrInviteCodeConflict) || attempt == createAttempts {
			return Organization{}, err
		}
	}
}

func validSlug(s string) bool {
	return len(s) <= maxSlugLength && slug.IsSlug(s)
}

func deriveSlug(name string) string {
	s := slug.Make(name)
	if len(s) > maxSlugLength {
		s = strings.TrimRight(s[:maxSlugLength], "-")
	}
	if s == "" {
		return fallbackSlugPrefix
	}
	return s
}

func randomSuffix() (string, error) {
	b := make([]byte, slugSuffixBytes)
	if _, err := rand.Read(b); err != nil {
		return "", errors.Join(invitecode.ErrRandomSource, err)
	}
	return hex.EncodeToString(b), nil
}
