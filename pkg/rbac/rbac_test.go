package rbac_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KeeganArn/TaskFlask-sub000/pkg/rbac"
)

func TestPermissionsContext(t *testing.T) {
	t.Parallel()

	t.Run("set and get", func(t *testing.T) {
		ctx := rbac.WithPermissions(context.Background(), []string{"tasks.view", "org.*"})
		set, ok := rbac.PermissionsFromContext(ctx)
		require.True(t, ok)
		assert.Equal(t, []string{"org.*", "tasks.view"}, set.Strings())
	})

	t.Run("empty context", func(t *testing.T) {
		_, ok := rbac.PermissionsFromContext(context.Background())
		assert.False(t, ok)
	})

	t.Run("override", func(t *testing.T) {
		ctx := rbac.WithPermissions(context.Background(), []string{"*"})
		ctx = rbac.WithPermissions(ctx, []string{"tasks.view"})
		set, ok := rbac.PermissionsFromContext(ctx)
		require.True(t, ok)
		assert.False(t, set.Has("org.delete"))
	})
}

func TestCan(t *testing.T) {
	t.Parallel()
	ctx := rbac.WithPermissions(context.Background(), []string{"tasks.edit", "org.*"})

	assert.NoError(t, rbac.Can(ctx, "org.delete"))
	assert.NoError(t, rbac.Can(ctx, "tasks.edit"))

	err := rbac.Can(ctx, "billing.manage")
	assert.ErrorIs(t, err, rbac.ErrPermissionDenied)
	assert.Contains(t, err.Error(), "billing.manage")
}

func TestCanWithoutPermissions(t *testing.T) {
	t.Parallel()
	err := rbac.Can(context.Background(), "tasks.view")
	assert.ErrorIs(t, err, rbac.ErrPermissionDenied)
	assert.ErrorIs(t, err, rbac.ErrNoPermissionsInContext)
}

func TestCanEmptySet(t *testing.T) {
	t.Parallel()
	ctx := rbac.WithPermissions(context.Background(), nil)
	err := rbac.Can(ctx, "tasks.view")
	assert.ErrorIs(t, err, rbac.ErrPermissionDenied)
	assert.NotErrorIs(t, err, rbac.ErrNoPermissionsInContext)
	assert.ErrorIs(t, rbac.IsAdmin(ctx), rbac.ErrPermissionDenied)
}

func TestCanAllAndAny(t *testing.T) {
	t.Parallel()
	ctx := rbac.WithPermissions(context.Background(), []string{"tasks.*", "projects.view"})

	tests := []struct {
		name    string
		check   func() error
		allowed bool
	}{
		{name: "all satisfied", check: func() error { return rbac.CanAll(ctx, "tasks.edit", "projects.view") }, allowed: true},
		{name: "all missing one", check: func() error { return rbac.CanAll(ctx, "tasks.edit", "projects.edit") }, allowed: false},
		{name: "all empty", check: func() error { return rbac.CanAll(ctx) }, allowed: true},
		{name: "any satisfied", check: func() error { return rbac.CanAny(ctx, "crm.view", "tasks.delete") }, allowed: true},
		{name: "any missing", check: func() error { return rbac.CanAny(ctx, "crm.view", "org.edit") }, allowed: false},
		{name: "any empty", check: func() error { return rbac.CanAny(ctx) }, allowed: false},
		{name: "not admin", check: func() error { return rbac.IsAdmin(ctx) }, allowed: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.check()
			if tt.allowed {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, rbac.ErrPermissionDenied)
		})
	}
}

func TestIsAdmin(t *testing.T) {
	t.Parallel()
	for _, granted := range [][]string{{"org.edit"}, {"users.invite"}, {"org.*"}, {"*"}} {
		ctx := rbac.WithPermissions(context.Background(), granted)
		assert.NoError(t, rbac.IsAdmin(ctx), granted)
	}
}
