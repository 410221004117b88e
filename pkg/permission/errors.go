package permission

import "errors"

var (
	// ErrInvalidPermission is returned when a grant string is malformed.
	ErrInvalidPermission = errors.New("permission.invalid")
	// ErrUnknownNamespace is returned when a grant refers to a namespace outside the catalog.
	ErrUnknownNamespace = errors.New("permission.unknown_namespace")
)
