package postgres

import (
	"context"
	"embed"
	"io/fs"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/KeeganArn/TaskFlask-sub000/pkg/pg"
	"github.com/KeeganArn/TaskFlask-sub000/svc/auth"
	"github.com/KeeganArn/TaskFlask-sub000/svc/tenancy"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Migrations returns the schema migrations rooted at the migration directory.
func Migrations() fs.FS {
	sub, err := fs.Sub(migrations, "migrations")
	if err != nil {
		panic(err)
	}
	return sub
}

var (
	_ tenancy.Store  = (*Store)(nil)
	_ auth.UserStore = (*Store)(nil)
)

// DB is satisfied by *pgxpool.Pool and pgx.Tx.
type DB interface {
	pg.Beginner
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store implements tenancy.Store and auth.UserStore.
type Store struct {
	db DB
}

func New(db DB) *Store {
	return &Store{db: db}
}

// WithTx runs fn in a transaction. Inside a transaction it opens a savepoint.
func (s *Store) WithTx(ctx context.Context, fn func(tenancy.Store) error) error {
	return pg.WithTx(ctx, s.db, func(tx pgx.Tx) error {
		return fn(&Store{db: tx})
	})
}

type scannable interface {
	Scan(dest ...any) error
}

// Constraint names from the migrations mapped to domain errors.
var uniqueViolations = map[string]error{
	"organizations_slug_key":        tenancy.ErrSlugTaken,
	"organizations_invite_code_key": tenancy.ErrInviteCodeConflict,
	"roles_organization_name_key":   tenancy.ErrRoleNameTaken,
	"memberships_user_org_key":      tenancy.ErrAlreadyMember,
	"users_email_key":               auth.ErrEmailTaken,
}

// translate maps constraint violations to domain errors. fkErr is returned for
// foreign key violations.
func translate(err, fkErr error) error {
	switch {
	case err == nil:
		return nil
	case pg.IsDuplicateKeyError(err):
		if mapped, ok := uniqueViolations[pg.ConstraintName(err)]; ok {
			return mapped
		}
	case pg.IsForeignKeyViolationError(err) && fkErr != nil:
		return fkErr
	}
	return err
}

// notFound maps pgx.ErrNoRows to target.
func notFound(err, target error) error {
	if pg.IsNotFoundError(err) {
		return target
	}
	return err
}

func orEmpty[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
