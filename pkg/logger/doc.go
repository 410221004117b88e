// Package logger builds *slog.Logger instances for the service and provides
// attribute helpers so log keys stay consistent across packages.
//
// New takes functional options selecting the output format, level and static
// attributes. WithEnvironment applies presets: development logs text at debug
// level, staging and production log JSON at info level.
//
// Request-scoped values are injected by ContextExtractor callbacks that run on
// every record, so a logger created once at startup still reports the request
// id, user id and organization id of the request it is logging for:
//
//	log := logger.New(
//	    logger.WithEnvironment(cfg.Env, "taskflask"),
//	    logger.WithContextExtractors(requestid.LoggerExtractor()),
//	)
//	log.InfoContext(ctx, "role updated", logger.RoleID(role.ID), logger.Permissions(role.Permissions))
package logger
