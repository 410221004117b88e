package rbac

import (
	"context"

	"github.com/KeeganArn/TaskFlask-sub000/pkg/permission"
)

type permissionsCtxKey struct{}

// WithPermissions stores the parsed granted permissions in the context.
func WithPermissions(ctx context.Context, granted []string) context.Context {
	return WithSet(ctx, permission.NewSet(granted...))
}

// WithSet stores an already parsed permission set in the context.
func WithSet(ctx context.Context, set permission.Set) context.Context {
	return context.WithValue(ctx, permissionsCtxKey{}, set)
}

// PermissionsFromContext returns the permission set stored in the context.
func PermissionsFromContext(ctx context.Context) (permission.Set, bool) {
	set, ok := ctx.Value(permissionsCtxKey{}).(permission.Set)
	return set, ok
}
