// Package pg connects to PostgreSQL through a pgx/v5 pool, applies goose
// migrations from an embedded filesystem, and classifies Postgres errors.
//
//	pool, err := pg.Connect(ctx, cfg.PG)
//	if err != nil { ... }
//	defer pool.Close()
//
//	if err := pg.Migrate(ctx, pool, migrations.FS, cfg.PG, log); err != nil { ... }
//
//	if pg.IsDuplicateKeyError(err) && pg.ConstraintName(err) == "organizations_invite_code_key" { ... }
package pg
