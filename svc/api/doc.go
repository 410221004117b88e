// Package api exposes the authentication, organization, role and membership
// operations over HTTP.
//
// Every response body is the JSON envelope from pkg/handler:
//
//	{"data": ..., "meta": ..., "error": {"code": "...", "message": "..."}}
//
// Requests outside /auth/register, /auth/login and the health endpoints must
// carry "Authorization: Bearer <token>". The token's principal is placed in
// the request context together with its permission set, and each route is
// guarded with rbac.Require for the permission it needs.
//
// # Usage
//
//	srv := api.New(authSvc, tenancySvc,
//	    api.WithLogger(log),
//	    api.WithMetrics(metrics),
//	    api.WithAuthLimiter(bucket),
//	    api.WithReadinessChecks(httpserver.Check{Name: "postgres", Probe: pg.Healthcheck(pool)}),
//	)
//	httpserver.New(cfg.HTTP, srv.Handler(), log).Run(ctx)
//
// # Errors
//
// Domain errors are translated by MapError. Organization selection is not an
// error: login and register answer 200 with "selection_required": true and
// the candidate organizations, and the client retries with an organization.
package api
