package api

import (
	"errors"
	"net/http"

	"github.com/KeeganArn/TaskFlask-sub000/pkg/handler"
	"github.com/KeeganArn/TaskFlask-sub000/pkg/jwt"
	"github.com/KeeganArn/TaskFlask-sub000/pkg/rbac"
	"github.com/KeeganArn/TaskFlask-sub000/svc/auth"
	"github.com/KeeganArn/TaskFlask-sub000/svc/tenancy"
)

type errorMapping struct {
	targets []error
	status  handler.HTTPError
}

var errorMappings = []errorMapping{
	{[]error{auth.ErrInvalidCredentials}, handler.NewHTTPError(http.StatusUnauthorized, "invalid_credentials")},
	{[]error{jwt.ErrMissingToken}, handler.NewHTTPError(http.StatusUnauthorized, "missing_token")},
	{[]error{auth.ErrSessionExpired}, handler.NewHTTPError(http.StatusUnauthorized, "session_expired")},
	{[]error{auth.ErrSessionRevoked}, handler.NewHTTPError(http.StatusUnauthorized, "session_revoked")},
	{[]error{auth.ErrInvalidSession}, handler.NewHTTPError(http.StatusUnauthorized, "invalid_session")},

	{[]error{auth.ErrNoMembership}, handler.NewHTTPError(http.StatusForbidden, "no_organization")},
	{[]error{auth.ErrAccessDenied}, handler.NewHTTPError(http.StatusForbidden, "access_denied")},
	{[]error{rbac.ErrPermissionDenied, rbac.ErrNoPermissionsInContext}, handler.NewHTTPError(http.StatusForbidden, "permission_denied")},

	{[]error{auth.ErrUserNotFound}, handler.NewHTTPError(http.StatusNotFound, "user_not_found")},
	{[]error{tenancy.ErrOrganizationNotFound}, handler.NewHTTPError(http.StatusNotFound, "organization_not_found")},
	{[]error{tenancy.ErrRoleNotFound}, handler.NewHTTPError(http.StatusNotFound, "role_not_found")},
	{[]error{tenancy.ErrMembershipNotFound}, handler.NewHTTPError(http.StatusNotFound, "membership_not_found")},

	{[]error{tenancy.ErrSystemRoleImmutable}, handler.NewHTTPError(http.StatusConflict, "system_role_immutable")},
	{[]error{tenancy.ErrRoleInUse}, handler.NewHTTPError(http.StatusConflict, "role_in_use")},
	{[]error{tenancy.ErrRoleNameTaken}, handler.NewHTTPError(http.StatusConflict, "role_name_taken")},
	{[]error{tenancy.ErrAlreadyMember}, handler.NewHTTPError(http.StatusConflict, "already_member")},
	{[]error{tenancy.ErrSlugTaken}, handler.NewHTTPError(http.StatusConflict, "slug_taken")},
	{[]error{auth.ErrEmailTaken}, handler.NewHTTPError(http.StatusConflict, "email_taken")},
	{[]error{tenancy.ErrLastOwner}, handler.NewHTTPError(http.StatusConflict, "last_owner")},
	{[]error{tenancy.ErrInvalidTransition}, handler.NewHTTPError(http.StatusConflict, "invalid_transition")},

	{[]error{tenancy.ErrMemberLimitReached}, handler.NewHTTPError(http.StatusPaymentRequired, "member_limit_reached")},

	{[]error{tenancy.ErrInvalidName}, handler.NewHTTPError(http.StatusUnprocessableEntity, "invalid_name")},
	{[]error{tenancy.ErrInvalidSlug}, handler.NewHTTPError(http.StatusUnprocessableEntity, "invalid_slug")},
	{[]error{tenancy.ErrInvalidPlan}, handler.NewHTTPError(http.StatusUnprocessableEntity, "invalid_plan")},
	{[]error{tenancy.ErrInvalidRoleName}, handler.NewHTTPError(http.StatusUnprocessableEntity, "invalid_role_name")},
	{[]error{tenancy.ErrInvalidPermissions}, handler.NewHTTPError(http.StatusUnprocessableEntity, "invalid_permissions")},
	{[]error{tenancy.ErrInvalidInviteCode}, handler.NewHTTPError(http.StatusUnprocessableEntity, "invalid_invite_code")},
	{[]error{tenancy.ErrInvalidEmail}, handler.NewHTTPError(http.StatusUnprocessableEntity, "invalid_email")},

	{[]error{tenancy.ErrInvitationsDisabled}, handler.NewHTTPError(http.StatusServiceUnavailable, "invitations_disabled")},
}

// MapError translates auth, tenancy, rbac and token errors into HTTP errors.
// Errors it does not know are left to the 500 fallback.
func MapError(err error) (handler.HTTPError, bool) {
	for _, m := range errorMappings {
		for _, target := range m.targets {
			if errors.Is(err, target) {
				return m.status, true
			}
		}
	}
	return handler.HTTPError{}, false
}
