package api_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/KeeganArn/TaskFlask-sub000/pkg/handler"
	"github.com/KeeganArn/TaskFlask-sub000/pkg/jwt"
	"github.com/KeeganArn/TaskFlask-sub000/pkg/rbac"
	"github.com/KeeganArn/TaskFlask-sub000/pkg/validator"
	"github.com/KeeganArn/TaskFlask-sub000/svc/api"
	"github.com/KeeganArn/TaskFlask-sub000/svc/auth"
	"github.com/KeeganArn/TaskFlask-sub000/svc/tenancy"
)

func TestMapError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err    error
		status int
		key    string
	}{
		{auth.ErrInvalidCredentials, http.StatusUnauthorized, "invalid_credentials"},
		{jwt.ErrMissingToken, http.StatusUnauthorized, "missing_token"},
		{errors.Join(auth.ErrSessionExpired, jwt.ErrExpiredToken), http.StatusUnauthorized, "session_expired"},
		{auth.ErrSessionRevoked, http.StatusUnauthorized, "session_revoked"},
		{fmt.Errorf("%w: subject", auth.ErrInvalidSession), http.StatusUnauthorized, "invalid_session"},
		{auth.ErrNoMembership, http.StatusForbidden, "no_organization"},
		{auth.ErrAccessDenied, http.StatusForbidden, "access_denied"},
		{rbac.ErrPermissionDenied, http.StatusForbidden, "permission_denied"},
		{tenancy.ErrRoleNotFound, http.StatusNotFound, "role_not_found"},
		{tenancy.ErrMembershipNotFound, http.StatusNotFound, "membership_not_found"},
		{tenancy.ErrOrganizationNotFound, http.StatusNotFound, "organization_not_found"},
		{tenancy.ErrSystemRoleImmutable, http.StatusConflict, "system_role_immutable"},
		{tenancy.ErrRoleInUse, http.StatusConflict, "role_in_use"},
		{tenancy.ErrRoleNameTaken, http.StatusConflict, "role_name_taken"},
		{tenancy.ErrAlreadyMember, http.StatusConflict, "already_member"},
		{tenancy.ErrSlugTaken, http.StatusConflict, "slug_taken"},
		{auth.ErrEmailTaken, http.StatusConflict, "email_taken"},
		{tenancy.ErrLastOwner, http.StatusConflict, "last_owner"},
		{fmt.Errorf("%w: left -> active", tenancy.ErrInvalidTransition), http.StatusConflict, "invalid_transition"},
		{tenancy.ErrMemberLimitReached, http.StatusPaymentRequired, "member_limit_reached"},
		{errors.Join(tenancy.ErrInvalidPermissions, errors.New("bad grant")), http.StatusUnprocessableEntity, "invalid_permissions"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, ok := api.MapError(tt.err)
			assert.True(t, ok)
			assert.Equal(t, tt.status, got.Code)
			assert.Equal(t, tt.key, got.Key)
		})
	}

	_, ok := api.MapError(errors.New("connection reset"))
	assert.False(t, ok)
}

func TestClassifyWithMapError(t *testing.T) {
	t.Parallel()

	info := handler.Classify(errors.New("connection reset"), api.MapError)
	assert.Equal(t, http.StatusInternalServerError, info.Status)

	info = handler.Classify(validator.ValidationErrors{{Field: "email", Message: "invalid"}}, api.MapError)
	assert.Equal(t, http.StatusUnprocessableEntity, info.Status)
	assert.Equal(t, []string{"invalid"}, info.Detail.Details["email"])

	info = handler.Classify(tenancy.ErrLastOwner, api.MapError)
	assert.Equal(t, http.StatusConflict, info.Status)
	assert.Equal(t, "last_owner", info.Detail.Code)
}
