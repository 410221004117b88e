package tenancy_test

import (
	"context"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KeeganArn/TaskFlask-sub000/pkg/permission"
	"github.com/KeeganArn/TaskFlask-sub000/svc/storage/memory"
	"github.com/KeeganArn/TaskFlask-sub000/svc/tenancy"
)

func TestCustomRoles(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, _ := newService(t)
	setup := createOrg(t, svc, "Acme")
	orgID := setup.Organization.ID

	role, err := svc.CreateRole(ctx, orgID, tenancy.CreateRoleParams{
		Name:        "support_lead",
		DisplayName: "  Support   Lead ",
		Permissions: []string{"tickets.*", "crm.view", "tickets.*"},
	})
	require.NoError(t, err)
	assert.False(t, role.IsSystem)
	assert.Equal(t, "Support Lead", role.DisplayName)
	assert.Equal(t, []string{"crm.view", "tickets.*"}, role.Permissions)

	_, err = svc.CreateRole(ctx, orgID, tenancy.CreateRoleParams{Name: "support_lead"})
	assert.ErrorIs(t, err, tenancy.ErrRoleNameTaken)
	_, err = svc.CreateRole(ctx, orgID, tenancy.CreateRoleParams{Name: tenancy.RoleAdmin})
	assert.ErrorIs(t, err, tenancy.ErrRoleNameTaken)

	perms := []string{"tickets.view"}
	updated, err := svc.UpdateRole(ctx, orgID, role.ID, tenancy.UpdateRoleParams{Permissions: &perms})
	require.NoError(t, err)
	assert.Equal(t, []string{"tickets.view"}, updated.Permissions)
	assert.Equal(t, "Support Lead", updated.DisplayName)

	got, err := svc.GetRole(ctx, orgID, role.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"tickets.view"}, got.Permissions)

	roles, err := svc.ListRoles(ctx, orgID)
	require.NoError(t, err)
	assert.Len(t, roles, 5)
	assert.Equal(t, "support_lead", roles[len(roles)-1].Name)

	m, err := svc.AddMember(ctx, orgID, uuid.New(), role.ID)
	require.NoError(t, err)
	assert.ErrorIs(t, svc.DeleteRole(ctx, orgID, role.ID), tenancy.ErrRoleInUse)

	viewer := roleByName(t, setup.Roles, tenancy.RoleViewer)
	_, err = svc.ChangeMemberRole(ctx, orgID, m.ID, viewer.ID)
	require.NoError(t, err)
	require.NoError(t, svc.DeleteRole(ctx, orgID, role.ID))

	_, err = svc.GetRole(ctx, orgID, role.ID)
	assert.ErrorIs(t, err, tenancy.ErrRoleNotFound)
}

func TestCreateRoleValidation(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, _ := newService(t)
	orgID := createOrg(t, svc, "Acme").Organization.ID

	tests := []struct {
		name   string
		params tenancy.CreateRoleParams
		want   error
	}{
		{"uppercase name", tenancy.CreateRoleParams{Name: "Lead"}, tenancy.ErrInvalidRoleName},
		{"one letter", tenancy.CreateRoleParams{Name: "a"}, tenancy.ErrInvalidRoleName},
		{"unknown namespace", tenancy.CreateRoleParams{Name: "pilot", Permissions: []string{"spaceships.fly"}}, tenancy.ErrInvalidPermissions},
		{"malformed permission", tenancy.CreateRoleParams{Name: "pilot", Permissions: []string{"tasks"}}, tenancy.ErrInvalidPermissions},
		{"long display name", tenancy.CreateRoleParams{Name: "pilot", DisplayName: strings.Repeat("x", 65)}, tenancy.ErrInvalidName},
	}
	for _, tt := range tests {
		_, err := svc.CreateRole(ctx, orgID, tt.params)
		assert.ErrorIs(t, err, tt.want, tt.name)
	}

	_, err := svc.CreateRole(ctx, uuid.New(), tenancy.CreateRoleParams{Name: "pilot"})
	assert.ErrorIs(t, err, tenancy.ErrOrganizationNotFound)
}

func TestSystemRolesAreImmutable(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, _ := newService(t)
	setup := createOrg(t, svc, "Acme")

	for _, r := range setup.Roles {
		name := "Renamed"
		_, err := svc.UpdateRole(ctx, setup.Organization.ID, r.ID, tenancy.UpdateRoleParams{DisplayName: &name})
		assert.ErrorIs(t, err, tenancy.ErrSystemRoleImmutable, r.Name)
		assert.ErrorIs(t, svc.DeleteRole(ctx, setup.Organization.ID, r.ID), tenancy.ErrSystemRoleImmutable, r.Name)
	}
}

func TestGetRoleReturnsCopies(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, _ := newService(t)
	setup := createOrg(t, svc, "Acme")
	admin := roleByName(t, setup.Roles, tenancy.RoleAdmin)

	r, err := svc.GetRole(ctx, setup.Organization.ID, admin.ID)
	require.NoError(t, err)
	r.Permissions[0] = "*"

	again, err := svc.GetRole(ctx, setup.Organization.ID, admin.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "*", again.Permissions[0])
}

func TestCachedRoles(t *testing.T) {
	t.Parallel()

	cache, err := tenancy.NewCachedRoles(100, time.Minute)
	require.NoError(t, err)
	t.Cleanup(cache.Close)

	role := tenancy.Role{ID: uuid.New(), OrganizationID: uuid.New(), Name: "lead", Permissions: []string{"tasks.*"}}
	_, ok := cache.Get(role.OrganizationID, role.ID)
	assert.False(t, ok)

	cache.Set(role)
	cache.Wait()

	got, ok := cache.Get(role.OrganizationID, role.ID)
	require.True(t, ok)
	assert.Equal(t, role, got)

	got.Permissions[0] = "*"
	again, _ := cache.Get(role.OrganizationID, role.ID)
	assert.Equal(t, []string{"tasks.*"}, again.Permissions)

	_, ok = cache.Get(uuid.New(), role.ID)
	assert.False(t, ok, "keys are scoped by organization")

	cache.Delete(role.OrganizationID, role.ID)
	_, ok = cache.Get(role.OrganizationID, role.ID)
	assert.False(t, ok)
}

func TestServiceInvalidatesRoleCache(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	cache, err := tenancy.NewCachedRoles(100, time.Minute)
	require.NoError(t, err)
	t.Cleanup(cache.Close)

	svc, _ := newService(t, tenancy.WithRoleCache(cache))
	orgID := createOrg(t, svc, "Acme").Organization.ID

	role, err := svc.CreateRole(ctx, orgID, tenancy.CreateRoleParams{Name: "lead", Permissions: []string{"tasks.view"}})
	require.NoError(t, err)
	_, err = svc.GetRole(ctx, orgID, role.ID)
	require.NoError(t, err)
	cache.Wait()

	perms := []string{"tasks.edit"}
	_, err = svc.UpdateRole(ctx, orgID, role.ID, tenancy.UpdateRoleParams{Permissions: &perms})
	require.NoError(t, err)

	got, err := svc.GetRole(ctx, orgID, role.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"tasks.edit"}, got.Permissions)
}

// slowRoleStore holds the next GetRole after it has read the row until
// release is closed.
type slowRoleStore struct {
	tenancy.Store
	armed   atomic.Bool
	read    chan struct{}
	release chan struct{}
}

func (s *slowRoleStore) GetRole(ctx context.Context, orgID, roleID uuid.UUID) (tenancy.Role, error) {
	r, err := s.Store.GetRole(ctx, orgID, roleID)
	if s.armed.CompareAndSwap(true, false) {
		close(s.read)
		<-s.release
	}
	return r, err
}

func TestRoleCacheDropsFillRacingAnEdit(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	cache, err := tenancy.NewCachedRoles(100, time.Minute)
	require.NoError(t, err)
	t.Cleanup(cache.Close)

	store := &slowRoleStore{
		Store:   memory.New(),
		read:    make(chan struct{}),
		release: make(chan struct{}),
	}
	svc := tenancy.NewService(store,
		tenancy.WithClock(func() time.Time { return fixedNow }),
		tenancy.WithRoleCache(cache),
	)
	orgID := createOrg(t, svc, "Acme").Organization.ID
	role, err := svc.CreateRole(ctx, orgID, tenancy.CreateRoleParams{Name: "lead", Permissions: []string{"tasks.view"}})
	require.NoError(t, err)

	store.armed.Store(true)
	stale := make(chan tenancy.Role, 1)
	go func() {
		r, err := svc.GetRole(ctx, orgID, role.ID)
		assert.NoError(t, err)
		stale <- r
	}()
	<-store.read

	perms := []string{"tasks.edit"}
	_, err = svc.UpdateRole(ctx, orgID, role.ID, tenancy.UpdateRoleParams{Permissions: &perms})
	require.NoError(t, err)

	close(store.release)
	assert.Equal(t, []string{"tasks.view"}, (<-stale).Permissions, "the read started before the edit")
	cache.Wait()

	got, err := svc.GetRole(ctx, orgID, role.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"tasks.edit"}, got.Permissions)
}

func TestDeleteRoleEvictsCachedRole(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	cache, err := tenancy.NewCachedRoles(100, time.Minute)
	require.NoError(t, err)
	t.Cleanup(cache.Close)

	svc, _ := newService(t, tenancy.WithRoleCache(cache))
	orgID := createOrg(t, svc, "Acme").Organization.ID
	role, err := svc.CreateRole(ctx, orgID, tenancy.CreateRoleParams{Name: "temp", Permissions: []string{"tasks.view"}})
	require.NoError(t, err)
	_, err = svc.GetRole(ctx, orgID, role.ID)
	require.NoError(t, err)
	cache.Wait()

	require.NoError(t, svc.DeleteRole(ctx, orgID, role.ID))
	cache.Wait()

	_, err = svc.GetRole(ctx, orgID, role.ID)
	assert.ErrorIs(t, err, tenancy.ErrRoleNotFound)
}

func TestRoleGrantableBy(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		role    []string
		granted []string
		want    bool
	}{
		{name: "owner needs the global wildcard", role: []string{"*"}, granted: []string{"org.*", "users.*"}, want: false},
		{name: "wildcard covers owner", role: []string{"*"}, granted: []string{"*"}, want: true},
		{name: "namespace covers namespace", role: []string{"tasks.*"}, granted: []string{"tasks.*"}, want: true},
		{name: "exact does not cover namespace", role: []string{"tasks.*"}, granted: []string{"tasks.edit"}, want: false},
		{name: "namespace covers exact", role: []string{"tasks.view", "users.view"}, granted: []string{"tasks.*", "users.*"}, want: true},
		{name: "missing one permission", role: []string{"tasks.view", "billing.edit"}, granted: []string{"tasks.*"}, want: false},
		{name: "empty role", role: nil, granted: nil, want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r := tenancy.Role{Permissions: tt.role}
			assert.Equal(t, tt.want, r.GrantableBy(permission.NewSet(tt.granted...)))
		})
	}
}
