package rbac

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/KeeganArn/TaskFlask-sub000/pkg/permission"
)

// Can returns nil when the context's permissions satisfy perm.
func Can(ctx context.Context, perm string) error {
	return check(ctx, func(s permission.Set) bool { return s.Has(perm) }, perm)
}

// CanAll returns nil when every permission is satisfied. No permissions is allowed.
func CanAll(ctx context.Context, perms ...string) error {
	if len(perms) == 0 {
		return nil
	}
	return check(ctx, func(s permission.Set) bool { return s.HasAll(perms...) }, perms...)
}

// CanAny returns nil when at least one permission is satisfied. No permissions is denied.
func CanAny(ctx context.Context, perms ...string) error {
	return check(ctx, func(s permission.Set) bool { return s.HasAny(perms...) }, perms...)
}

// IsAdmin returns nil when the context's permissions hold an administrative capability.
func IsAdmin(ctx context.Context) error {
	return check(ctx, permission.Set.IsAdmin, permission.AdminPermissions...)
}

func check(ctx context.Context, allowed func(permission.Set) bool, perms ...string) error {
	set, ok := PermissionsFromContext(ctx)
	if !ok {
		return errors.Join(ErrPermissionDenied, ErrNoPermissionsInContext)
	}
	if !allowed(set) {
		return fmt.Errorf("%w: requires %s", ErrPermissionDenied, strings.Join(perms, ", "))
	}
	return nil
}
