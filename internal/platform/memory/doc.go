// Package memory provides an in-process implementation of the task store.
// It backs the server when database.driver is "memory" and is used by
// service and router tests that should not depend on PostgreSQL.
// Data does not survive a restart.
package memory
