// Package rbac enforces permission checks for a request whose principal has
// already been resolved. The principal's granted permissions are placed into
// the request context once with WithPermissions, and every check reads them
// from there:
//
//	ctx = rbac.WithPermissions(ctx, principal.Permissions)
//
//	if err := rbac.Can(ctx, "tasks.edit"); err != nil {
//	    return err // wraps ErrPermissionDenied
//	}
//
// The Require* middlewares perform the same checks for HTTP routes and answer
// denied requests with 403 after logging the denial:
//
//	r.With(rbac.Require("roles.create")).Post("/roles", createRole)
//	r.With(rbac.RequireAdmin()).Patch("/organization", updateOrg)
//
// A context without permissions is treated as an empty set: every check fails
// with ErrPermissionDenied joined with ErrNoPermissionsInContext.
package rbac
