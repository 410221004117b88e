package tenancy

import (
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of a membership.
type Status string

const (
	StatusPending   Status = "pending"
	StatusActive    Status = "active"
	StatusSuspended Status = "suspended"
	StatusLeft      Status = "left"
)

var transitions = map[Status][]Status{
	StatusPending:   {StatusActive, StatusLeft},
	StatusActive:    {StatusSuspended, StatusLeft},
	StatusSuspended: {StatusActive, StatusLeft},
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusActive, StatusSuspended, StatusLeft:
		return true
	}
	return false
}

// CanTransitionTo reports whether a membership in state s may move to next.
func (s Status) CanTransitionTo(next Status) bool {
	return slices.Contains(transitions[s], next)
}

// Membership binds one user to one role in one organization.
type Membership struct {
	ID             uuid.UUID `json:"id"`
	UserID         uuid.UUID `json:"user_id"`
	OrganizationID uuid.UUID `json:"organization_id"`
	RoleID         uuid.UUID `json:"role_id"`
	Status         Status    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// IsActive reports whether the membership can be used to authenticate.
func (m Membership) IsActive() bool { return m.Status == StatusActive }

// Transition moves m to next or returns ErrInvalidTransition.
func (m *Membership) Transition(next Status, at time.Time) error {
	if !m.Status.CanTransitionTo(next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, m.Status, next)
	}
	m.Status = next
	m.UpdatedAt = at
	return nil
}

// Member is a membership joined with its role for listings.
type Member struct {
	Membership
	RoleName        string `json:"role_name"`
	RoleDisplayName string `json:"role_display_name"`
}

// MemberFilter narrows membership counts. Zero values match everything.
type MemberFilter struct {
	RoleID   uuid.UUID
	Statuses []Status
}

// Matches reports whether m passes the filter.
func (f MemberFilter) Matches(m Membership) bool {
	if f.RoleID != uuid.Nil && m.RoleID != f.RoleID {
		return false
	}
	if len(f.Statuses) > 0 && !slices.Contains(f.Statuses, m.Status) {
		return false
	}
	return true
}
