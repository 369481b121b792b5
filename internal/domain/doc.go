// Package domain contains the core business entities of the task list: the
// Task itself and the rules for session identifiers that partition tasks
// between pseudo-tenants. It is independent of any storage or transport.
package domain
