package tenancy

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/KeeganArn/TaskFlask-sub000/pkg/invitecode"
	"github.com/KeeganArn/TaskFlask-sub000/pkg/logger"
	"github.com/KeeganArn/TaskFlask-sub000/pkg/sanitizer"
	"github.com/KeeganArn/TaskFlask-sub000/pkg/tracing"
	"github.com/KeeganArn/TaskFlask-sub000/pkg/validator"
)

// Statuses that occupy a seat for plan limits. Only left memberships free one.
var seatStatuses = []Status{StatusPending, StatusActive, StatusSuspended}

// ListMembers returns every membership of the organization with its role.
func (s *Service) ListMembers(ctx context.Context, orgID uuid.UUID) ([]Member, error) {
	return s.store.ListMembers(ctx, orgID)
}

// ListUserMemberships returns every membership held by the user across organizations.
func (s *Service) ListUserMemberships(ctx context.Context, userID uuid.UUID) ([]Membership, error) {
	return s.store.ListUserMemberships(ctx, userID)
}

// JoinByInviteCode makes the user an active member of the organization owning
// code, with the catalog's default role. A pending membership is activated.
func (s *Service) JoinByInviteCode(ctx context.Context, userID uuid.UUID, code string) (_ Membership, err error) {
	ctx, span := tracing.StartSpan(ctx, "tenancy.JoinByInviteCode",
		attribute.String("user.id", userID.String()))
	defer func() { tracing.End(span, err) }()

	code = sanitizer.TrimToUpper(code)
	if !invitecode.Valid(code) {
		return Membership{}, ErrInvalidInviteCode
	}
	org, err := s.store.GetOrganizationByInviteCode(ctx, code)
	if errors.Is(err, ErrOrganizationNotFound) {
		return Membership{}, ErrInvalidInviteCode
	}
	if err != nil {
		return Membership{}, err
	}

	var m Membership
	err = s.store.WithTx(ctx, func(tx Store) error {
		existing, err := tx.GetMembershipByUser(ctx, org.ID, userID)
		switch {
		case err == nil && existing.Status == StatusPending:
			if err := existing.Transition(StatusActive, s.timestamp()); err != nil {
				return err
			}
			m = existing
			return tx.UpdateMembership(ctx, existing)
		case err == nil:
			return ErrAlreadyMember
		case !errors.Is(err, ErrMembershipNotFound):
			return err
		}

		if err := s.checkSeats(ctx, tx, org); err != nil {
			return err
		}
		role, err := tx.GetRoleByName(ctx, org.ID, s.catalog.DefaultRole)
		if err != nil {
			return err
		}
		now := s.timestamp()
		m = Membership{
			ID:             uuid.New(),
			UserID:         userID,
			OrganizationID: org.ID,
			RoleID:         role.ID,
			Status:         StatusActive,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		return tx.CreateMembership(ctx, m)
	})
	if err != nil {
		return Membership{}, err
	}
	s.log.InfoContext(ctx, "member joined by invite code",
		logger.OrganizationID(org.ID),
		logger.UserID(userID),
		logger.MembershipID(m.ID),
	)
	return m, nil
}

// SendInvitation emails the organization's invite code to address.
func (s *Service) SendInvitation(ctx context.Context, orgID uuid.UUID, address, invitedBy string) error {
	if s.inviter == nil {
		return ErrInvitationsDisabled
	}
	addr := sanitizer.NormalizeEmail(address)
	if validator.Apply(validator.ValidEmail("email", addr)) != nil {
		return ErrInvalidEmail
	}
	org, err := s.store.GetOrganization(ctx, orgID)
	if err != nil {
		return err
	}
	inv := Invitation{
		Email:            addr,
		OrganizationName: org.Name,
		OrganizationSlug: org.Slug,
		InviteCode:       org.InviteCode,
		InvitedBy:        invitedBy,
	}
	if err := s.inviter.SendInvitation(ctx, inv); err != nil {
		s.log.ErrorContext(ctx, "failed to send invitation",
			logger.OrganizationID(orgID),
			logger.Error(err),
		)
		return err
	}
	s.log.InfoContext(ctx, "invitation sent", logger.OrganizationID(orgID))
	return nil
}

// AddMember creates a pending membership for userID with the given role.
func (s *Service) AddMember(ctx context.Context, orgID, userID, roleID uuid.UUID) (Membership, error) {
	var m Membership
	err := s.store.WithTx(ctx, func(tx Store) error {
		org, err := tx.GetOrganization(ctx, orgID)
		if err != nil {
			return err
		}
		if _, err := tx.GetRole(ctx, orgID, roleID); err != nil {
			return err
		}
		if err := s.checkSeats(ctx, tx, org); err != nil {
			return err
		}
		now := s.timestamp()
		m = Membership{
			ID:             uuid.New(),
			UserID:         userID,
			OrganizationID: orgID,
			RoleID:         roleID,
			Status:         StatusPending,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		return tx.CreateMembership(ctx, m)
	})
	if err != nil {
		return Membership{}, err
	}
	s.log.InfoContext(ctx, "member added",
		logger.OrganizationID(orgID),
		logger.UserID(userID),
		logger.RoleID(roleID),
	)
	return m, nil
}

// AcceptMembership activates a pending membership owned by userID.
func (s *Service) AcceptMembership(ctx context.Context, userID, membershipID uuid.UUID) (Membership, error) {
	var m Membership
	err := s.store.WithTx(ctx, func(tx Store) error {
		var err error
		m, err = tx.GetMembershipByID(ctx, membershipID)
		if err != nil {
			return err
		}
		if m.UserID != userID {
			return ErrMembershipNotFound
		}
		if m.Status != StatusPending {
			return ErrInvalidTransition
		}
		if err := m.Transition(StatusActive, s.timestamp()); err != nil {
			return err
		}
		return tx.UpdateMembership(ctx, m)
	})
	if err != nil {
		return Membership{}, err
	}
	s.log.InfoContext(ctx, "membership accepted",
		logger.OrganizationID(m.OrganizationID),
		logger.MembershipID(m.ID),
	)
	return m, nil
}

// SuspendMember suspends an active membership.
func (s *Service) SuspendMember(ctx context.Context, orgID, membershipID uuid.UUID) (Membership, error) {
	return s.transition(ctx, orgID, membershipID, "", StatusSuspended, "member suspended")
}

// ReinstateMember reactivates a suspended membership. Pending memberships
// are activated only by their user through AcceptMembership.
func (s *Service) ReinstateMember(ctx context.Context, orgID, membershipID uuid.UUID) (Membership, error) {
	return s.transition(ctx, orgID, membershipID, StatusSuspended, StatusActive, "member reinstated")
}

// RemoveMember marks a membership as left on behalf of an administrator.
func (s *Service) RemoveMember(ctx context.Context, orgID, membershipID uuid.UUID) (Membership, error) {
	return s.transition(ctx, orgID, membershipID, "", StatusLeft, "member removed")
}

// LeaveOrganization ends the user's own membership.
func (s *Service) LeaveOrganization(ctx context.Context, orgID, userID uuid.UUID) (Membership, error) {
	m, err := s.store.GetMembershipByUser(ctx, orgID, userID)
	if err != nil {
		return Membership{}, err
	}
	return s.transition(ctx, orgID, m.ID, "", StatusLeft, "member left")
}

// transition moves a membership to next. A non-empty from restricts the
// starting status beyond what the state machine allows.
func (s *Service) transition(ctx context.Context, orgID, membershipID uuid.UUID, from, next Status, event string) (Membership, error) {
	var m Membership
	err := s.store.WithTx(ctx, func(tx Store) error {
		var err error
		m, err = tx.GetMembership(ctx, orgID, membershipID)
		if err != nil {
			return err
		}
		if from != "" && m.Status != from {
			return ErrInvalidTransition
		}
		if next != StatusActive {
			if err := s.ensureNotLastOwner(ctx, tx, m); err != nil {
				return err
			}
		}
		if err := m.Transition(next, s.timestamp()); err != nil {
			return err
		}
		return tx.UpdateMembership(ctx, m)
	})
	if err != nil {
		return Membership{}, err
	}
	s.log.InfoContext(ctx, event,
		logger.OrganizationID(orgID),
		logger.MembershipID(m.ID),
		logger.UserID(m.UserID),
	)
	return m, nil
}

// ChangeMemberRole assigns another role of the same organization.
func (s *Service) ChangeMemberRole(ctx context.Context, orgID, membershipID, roleID uuid.UUID) (Membership, error) {
	var m Membership
	err := s.store.WithTx(ctx, func(tx Store) error {
		var err error
		m, err = tx.GetMembership(ctx, orgID, membershipID)
		if err != nil {
			return err
		}
		if m.Status == StatusLeft {
			return ErrInvalidTransition
		}
		next, err := tx.GetRole(ctx, orgID, roleID)
		if err != nil {
			return err
		}
		if m.RoleID == next.ID {
			return nil
		}
		if !next.IsOwner() {
			if err := s.ensureNotLastOwner(ctx, tx, m); err != nil {
				return err
			}
		}
		m.RoleID = next.ID
		m.UpdatedAt = s.timestamp()
		return tx.UpdateMembership(ctx, m)
	})
	if err != nil {
		return Membership{}, err
	}
	s.log.InfoContext(ctx, "member role changed",
		logger.OrganizationID(orgID),
		logger.MembershipID(m.ID),
		logger.RoleID(m.RoleID),
	)
	return m, nil
}

// ensureNotLastOwner fails when m is the organization's only active owner.
func (s *Service) ensureNotLastOwner(ctx context.Context, tx Store, m Membership) error {
	if !m.IsActive() {
		return nil
	}
	role, err := tx.GetRole(ctx, m.OrganizationID, m.RoleID)
	if err != nil {
		return err
	}
	if !role.IsOwner() {
		return nil
	}
	n, err := tx.CountMembers(ctx, m.OrganizationID, MemberFilter{
		RoleID:   role.ID,
		Statuses: []Status{StatusActive},
	})
	if err != nil {
		return err
	}
	if n <= 1 {
		return ErrLastOwner
	}
	return nil
}

func (s *Service) checkSeats(ctx context.Context, tx Store, org Organization) error {
	if org.Limits.Unlimited() {
		return nil
	}
	n, err := tx.CountMembers(ctx, org.ID, MemberFilter{Statuses: seatStatuses})
	if err != nil {
		return err
	}
	if n >= org.Limits.MaxUsers {
		return ErrMemberLimitReached
	}
	return nil
}
