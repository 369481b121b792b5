// Package store declares the persistence contract for tasks: the TaskStore
// operations, the transactor used for read-check-write sequences and the
// sentinel errors every implementation returns.
package store
