package auth

import "errors"

var (
	// ErrNoMembership means the user has no active membership to authenticate into.
	ErrNoMembership = errors.New("auth.no_membership")
	// ErrAccessDenied means the requested organization is not one the user belongs to.
	ErrAccessDenied = errors.New("auth.access_denied")

	ErrInvalidCredentials = errors.New("auth.invalid_credentials")
	ErrEmailTaken         = errors.New("auth.email_taken")
	ErrUserNotFound       = errors.New("auth.user_not_found")

	ErrInvalidSession = errors.New("auth.invalid_session")
	ErrSessionExpired = errors.New("auth.session_expired")
	ErrSessionRevoked = errors.New("auth.session_revoked")
)
