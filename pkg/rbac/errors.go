package rbac

import "errors"

var (
	// ErrPermissionDenied is returned when the granted permissions do not satisfy a check.
	ErrPermissionDenied = errors.New("rbac.permission_denied")

	// ErrNoPermissionsInContext is returned when no permission set was stored in the context.
	ErrNoPermissionsInContext = errors.New("rbac.no_permissions_in_context")
)
