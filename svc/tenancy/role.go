package tenancy

import (
	"regexp"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/KeeganArn/TaskFlask-sub000/pkg/permission"
)

// System role names. Every organization owns its own copy of each.
const (
	RoleOwner  = "owner"
	RoleAdmin  = "admin"
	RoleMember = "member"
	RoleViewer = "viewer"
)

var roleNamePattern = regexp.MustCompile(`^[a-z][a-z0-9_]{1,31}$`)

// ValidRoleName reports whether name can be used as a role key.
func ValidRoleName(name string) bool {
	return roleNamePattern.MatchString(name)
}

// Role is a named permission set owned by one organization.
type Role struct {
	ID             uuid.UUID `json:"id"`
	OrganizationID uuid.UUID `json:"organization_id"`
	Name           string    `json:"name"`
	DisplayName    string    `json:"display_name"`
	Permissions    []string  `json:"permissions"`
	IsSystem       bool      `json:"is_system"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// IsOwner reports whether r is the organization's owner role.
func (r Role) IsOwner() bool {
	return r.IsSystem && r.Name == RoleOwner
}

// GrantableBy reports whether a holder of granted may assign r: every
// permission of the role must already be covered by granted.
func (r Role) GrantableBy(granted permission.Set) bool {
	return granted.HasAll(r.Permissions...)
}

// Clone returns a copy of r that shares no memory with it.
func (r Role) Clone() Role {
	r.Permissions = slices.Clone(r.Permissions)
	return r
}
