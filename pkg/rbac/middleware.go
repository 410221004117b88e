package rbac

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/KeeganArn/TaskFlask-sub000/pkg/logger"
	"github.com/KeeganArn/TaskFlask-sub000/pkg/permission"
)

// DenyHandlerFunc answers a request that failed a permission check.
type DenyHandlerFunc func(w http.ResponseWriter, r *http.Request, err error)

// MiddlewareOption configures the Require* middlewares.
type MiddlewareOption func(*middlewareConfig)

type middlewareConfig struct {
	logger *slog.Logger
	deny   DenyHandlerFunc
}

// WithLogger sets the logger used for denial records.
func WithLogger(l *slog.Logger) MiddlewareOption {
	return func(c *middlewareConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithDenyHandler replaces the default JSON 403 response.
func WithDenyHandler(h DenyHandlerFunc) MiddlewareOption {
	return func(c *middlewareConfig) {
		if h != nil {
			c.deny = h
		}
	}
}

// Require allows the request only when perm is granted.
func Require(perm string, opts ...MiddlewareOption) func(http.Handler) http.Handler {
	return guard(func(ctx context.Context) error { return Can(ctx, perm) }, []string{perm}, opts)
}

// RequireAll allows the request only when every permission is granted.
func RequireAll(perms []string, opts ...MiddlewareOption) func(http.Handler) http.Handler {
	return guard(func(ctx context.Context) error { return CanAll(ctx, perms...) }, perms, opts)
}

// RequireAny allows the request when at least one permission is granted.
func RequireAny(perms []string, opts ...MiddlewareOption) func(http.Handler) http.Handler {
	return guard(func(ctx context.Context) error { return CanAny(ctx, perms...) }, perms, opts)
}

// RequireAdmin allows the request only for organization administrators.
func RequireAdmin(opts ...MiddlewareOption) func(http.Handler) http.Handler {
	return guard(IsAdmin, permission.AdminPermissions, opts)
}

func guard(check func(context.Context) error, perms []string, opts []MiddlewareOption) func(http.Handler) http.Handler {
	cfg := middlewareConfig{
		logger: slog.Default(),
		deny:   DefaultDenyHandler,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := check(r.Context()); err != nil {
				cfg.logger.LogAttrs(r.Context(), slog.LevelWarn, "permission denied",
					logger.Permissions(perms),
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
					logger.Error(err),
					logger.Component("rbac"),
				)
				cfg.deny(w, r, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

type denyBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// DefaultDenyHandler writes a JSON 403 body with the "permission_denied" code.
func DefaultDenyHandler(w http.ResponseWriter, _ *http.Request, _ error) {
	var body denyBody
	body.Error.Code = "permission_denied"
	body.Error.Message = http.StatusText(http.StatusForbidden)

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusForbidden)
	_ = json.NewEncoder(w).Encode(body)
}
