// Package memory is an in-process implementation of the tenancy and user
// stores. It enforces the same uniqueness and ownership rules as the
// Postgres store and is used by tests and single-process development runs.
package memory
