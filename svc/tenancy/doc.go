// Package tenancy owns organizations, their roles and their memberships.
//
// An organization is the tenant boundary. Every organization carries its own
// copy of the system roles (owner, admin, member, viewer) seeded from an
// embedded YAML catalog, plus any custom roles its administrators create.
// A membership binds one user to one role in one organization and moves
// through pending, active, suspended and left:
//
//	pending   -> active | left
//	active    -> suspended | left
//	suspended -> active | left
//
// Every lookup is scoped by organization id, so a role or membership id from
// another tenant is reported as not found. System roles are immutable, custom
// roles can be deleted only when no membership references them, and an
// organization always keeps at least one active owner.
//
// Service holds the business rules and talks to storage through the Store
// interface (Postgres and in-memory implementations live under svc/storage).
package tenancy
