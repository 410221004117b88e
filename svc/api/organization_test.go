package api_test

import (
	"bytes"
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/KeeganArn/TaskFlask-sub000/pkg/invitecode"
	"github.com/KeeganArn/TaskFlask-sub000/svc/api"
	"github.com/KeeganArn/TaskFlask-sub000/svc/tenancy"
)

type mockInviter struct {
	mock.Mock
}

func (m *mockInviter) SendInvitation(ctx context.Context, inv tenancy.Invitation) error {
	args := m.Called(ctx, inv)
	return args.Error(0)
}

func TestOrganization(t *testing.T) {
	t.Parallel()
	a := newTestAPI(t)
	owner := a.register("owner@example.com", "Acme")
	member := a.join(owner, "member@example.com")

	t.Run("get", func(t *testing.T) {
		res := a.do(http.MethodGet, "/organization", member.token(), nil)
		require.Equal(t, http.StatusOK, res.Code)
		var org tenancy.Organization
		res.into(t, &org)
		assert.Equal(t, "acme", org.Slug)
		assert.True(t, invitecode.Valid(org.InviteCode))
	})

	t.Run("update requires org.edit", func(t *testing.T) {
		res := a.do(http.MethodPatch, "/organization", member.token(), map[string]string{"name": "Renamed"})
		assert.Equal(t, http.StatusForbidden, res.Code)
		assert.Equal(t, "permission_denied", res.errorCode())
	})

	t.Run("update", func(t *testing.T) {
		res := a.do(http.MethodPatch, "/organization", owner.token(), map[string]string{"name": "Acme Holdings"})
		require.Equal(t, http.StatusOK, res.Code, res.Body.String())
		var org tenancy.Organization
		res.into(t, &org)
		assert.Equal(t, "Acme Holdings", org.Name)
		assert.Equal(t, "acme", org.Slug, "slug is stable")
	})

	t.Run("invalid plan", func(t *testing.T) {
		res := a.do(http.MethodPatch, "/organization", owner.token(), map[string]string{"plan": "platinum"})
		assert.Equal(t, http.StatusUnprocessableEntity, res.Code)
		assert.Equal(t, "invalid_plan", res.errorCode())
	})
}

func TestInviteCode(t *testing.T) {
	t.Parallel()
	a := newTestAPI(t, withServerOptions(api.WithJoinURL("https://app.example.com/join")))
	owner := a.register("owner@example.com", "Acme")
	member := a.join(owner, "member@example.com")

	before, err := a.tenancy.GetOrganization(context.Background(), owner.session.Principal.OrganizationID)
	require.NoError(t, err)

	t.Run("regenerate", func(t *testing.T) {
		res := a.do(http.MethodPost, "/organization/invite-code", member.token(), nil)
		assert.Equal(t, http.StatusForbidden, res.Code)

		res = a.do(http.MethodPost, "/organization/invite-code", owner.token(), nil)
		require.Equal(t, http.StatusOK, res.Code, res.Body.String())
		var org tenancy.Organization
		res.into(t, &org)
		assert.True(t, invitecode.Valid(org.InviteCode))
		assert.NotEqual(t, before.InviteCode, org.InviteCode)

		res = a.do(http.MethodPost, "/auth/register", "", map[string]string{
			"email": "late@example.com", "name": "Late", "password": testPassword, "invite_code": before.InviteCode,
		})
		assert.Equal(t, http.StatusUnprocessableEntity, res.Code, "the old code no longer works")
	})

	t.Run("qr image", func(t *testing.T) {
		res := a.do(http.MethodGet, "/organization/invite-code.png?size=128", owner.token(), nil)
		require.Equal(t, http.StatusOK, res.Code, res.Body.String())
		assert.Equal(t, "image/png", res.Header().Get("Content-Type"))
		assert.True(t, bytes.HasPrefix(res.Body.Bytes(), []byte("\x89PNG\r\n\x1a\n")))

		res = a.do(http.MethodGet, "/organization/invite-code.png", member.token(), nil)
		assert.Equal(t, http.StatusForbidden, res.Code, "members cannot invite")

		res = a.do(http.MethodGet, "/organization/invite-code.png?size=big", owner.token(), nil)
		assert.Equal(t, http.StatusBadRequest, res.Code)
	})
}

func TestInvitations(t *testing.T) {
	t.Parallel()

	t.Run("delivered", func(t *testing.T) {
		t.Parallel()
		inviter := new(mockInviter)
		inviter.On("SendInvitation", mock.Anything, mock.MatchedBy(func(inv tenancy.Invitation) bool {
			return inv.Email == "friend@example.com" && inv.OrganizationSlug == "acme" && inv.InvitedBy == "Test User"
		})).Return(nil).Once()

		a := newTestAPI(t, withTenancyOptions(tenancy.WithInviter(inviter)))
		owner := a.register("owner@example.com", "Acme")

		res := a.do(http.MethodPost, "/organization/invitations", owner.token(), map[string]string{"email": "friend@example.com"})
		assert.Equal(t, http.StatusAccepted, res.Code, res.Body.String())
		inviter.AssertExpectations(t)

		res = a.do(http.MethodPost, "/organization/invitations", owner.token(), map[string]string{"email": "nope"})
		assert.Equal(t, http.StatusUnprocessableEntity, res.Code)
		assert.Equal(t, "invalid_email", res.errorCode())
	})

	t.Run("disabled", func(t *testing.T) {
		t.Parallel()
		a := newTestAPI(t)
		owner := a.register("owner@example.com", "Acme")

		res := a.do(http.MethodPost, "/organization/invitations", owner.token(), map[string]string{"email": "friend@example.com"})
		assert.Equal(t, http.StatusServiceUnavailable, res.Code)
		assert.Equal(t, "invitations_disabled", res.errorCode())
	})
}

func TestJoinAndLeave(t *testing.T) {
	t.Parallel()
	a := newTestAPI(t)
	owner := a.register("owner@example.com", "Acme")
	other := a.register("other@example.com", "Globex")

	org, err := a.tenancy.GetOrganization(context.Background(), owner.session.Principal.OrganizationID)
	require.NoError(t, err)

	res := a.do(http.MethodPost, "/organizations/join", other.token(), map[string]string{"invite_code": org.InviteCode})
	require.Equal(t, http.StatusCreated, res.Code, res.Body.String())
	var m tenancy.Membership
	res.into(t, &m)
	assert.Equal(t, tenancy.StatusActive, m.Status)

	res = a.do(http.MethodPost, "/organizations/join", other.token(), map[string]string{"invite_code": org.InviteCode})
	assert.Equal(t, http.StatusConflict, res.Code)
	assert.Equal(t, "already_member", res.errorCode())

	t.Run("last owner cannot leave", func(t *testing.T) {
		res := a.do(http.MethodPost, "/organization/leave", owner.token(), nil)
		assert.Equal(t, http.StatusConflict, res.Code)
		assert.Equal(t, "last_owner", res.errorCode())
	})

	t.Run("member leaves", func(t *testing.T) {
		res := a.do(http.MethodPost, "/auth/switch", other.token(), map[string]string{"organization": "acme"})
		require.Equal(t, http.StatusOK, res.Code, res.Body.String())
		var session struct {
			Token string `json:"token"`
		}
		res.into(t, &session)

		res = a.do(http.MethodPost, "/organization/leave", session.Token, nil)
		require.Equal(t, http.StatusOK, res.Code, res.Body.String())
		var left tenancy.Membership
		res.into(t, &left)
		assert.Equal(t, tenancy.StatusLeft, left.Status)

		res = a.do(http.MethodGet, "/organization", session.Token, nil)
		assert.Equal(t, http.StatusUnauthorized, res.Code, "leaving ends the session")

		res = a.do(http.MethodPost, "/auth/login", "", map[string]string{
			"email": "other@example.com", "password": testPassword, "organization": "acme",
		})
		assert.Equal(t, http.StatusForbidden, res.Code)
		assert.Equal(t, "access_denied", res.errorCode())
	})
}
