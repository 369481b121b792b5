// Package postgres provides the PostgreSQL implementation of the task store
// defined in the internal/store package. It owns the SQL for the tasks table,
// maps driver errors to store errors, and embeds the goose migrations that
// create the schema.
package postgres
