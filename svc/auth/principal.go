package auth

import (
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/KeeganArn/TaskFlask-sub000/pkg/permission"
)

// Principal is the resolved (user, organization, role, permissions) tuple a
// session acts as.
type Principal struct {
	UserID           uuid.UUID `json:"user_id"`
	OrganizationID   uuid.UUID `json:"organization_id"`
	OrganizationSlug string    `json:"organization_slug"`
	MembershipID     uuid.UUID `json:"membership_id,omitempty"`
	RoleID           uuid.UUID `json:"role_id"`
	Role             string    `json:"role"`
	Permissions      []string  `json:"permissions"`

	// Set by the issuer.
	SessionID string    `json:"session_id,omitempty"`
	ExpiresAt time.Time `json:"expires_at,omitzero"`
}

// PermissionSet parses the principal's permissions.
func (p Principal) PermissionSet() permission.Set {
	return permission.NewSet(p.Permissions...)
}

// Can reports whether the principal holds required.
func (p Principal) Can(required string) bool {
	return permission.Has(p.Permissions, required)
}

// IsAdmin reports whether the principal holds an administrative permission.
func (p Principal) IsAdmin() bool {
	return permission.IsAdmin(p.Permissions)
}

func (p Principal) clone() Principal {
	p.Permissions = slices.Clone(p.Permissions)
	return p
}
