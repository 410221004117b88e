package auth

import (
	"context"
	"log/slog"

	"github.com/KeeganArn/TaskFlask-sub000/pkg/logger"
)

type principalContextKey struct{}

// WithPrincipal stores the authenticated principal in ctx.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalContextKey{}, p)
}

// PrincipalFromContext returns the principal stored by WithPrincipal.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalContextKey{}).(Principal)
	return p, ok
}

// LoggerExtractors enrich log records with the principal's user and organization ids.
func LoggerExtractors() []logger.ContextExtractor {
	return []logger.ContextExtractor{
		func(ctx context.Context) (slog.Attr, bool) {
			p, ok := PrincipalFromContext(ctx)
			if !ok {
				return slog.Attr{}, false
			}
			return logger.UserID(p.UserID), true
		},
		func(ctx context.Context) (slog.Attr, bool) {
			p, ok := PrincipalFromContext(ctx)
			if !ok {
				return slog.Attr{}, false
			}
			return logger.OrganizationID(p.OrganizationID), true
		},
	}
}
