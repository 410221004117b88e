// Package auth authenticates users into exactly one organization at a time.
//
// After the credential check the Resolver looks at the user's active
// memberships:
//
//   - none: ErrNoMembership;
//   - exactly one: it is used directly;
//   - several and no explicit choice: a Resolution listing the candidates is
//     returned so the client can pick one (this is not an error);
//   - an explicit organization (id or slug): it must match an active
//     membership, otherwise ErrAccessDenied.
//
// The resolved Principal carries a copy of the role's permission set. The
// Issuer turns it into a signed HS256 token and back, and revokes sessions
// through a RevocationStore (Redis or in-memory). A principal is a snapshot:
// role edits reach it only when it is re-issued.
package auth
