// Package postgres implements the tenancy and user stores on PostgreSQL
// through pgx. The schema ships as embedded goose migrations; unique and
// foreign key violations are translated into the domain's sentinel errors.
package postgres
