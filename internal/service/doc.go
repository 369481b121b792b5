// Package service contains the task list use cases. It sits between the HTTP
// handlers in internal/api and the persistence interfaces in internal/store.
//
// Every operation is scoped to a session identifier supplied by the caller.
// Mutations look the task up, check that the calling session owns it and
// apply the change inside a single store transaction, so the ownership guard
// always runs before the write it protects.
//
// Error handling:
//   - Expected conditions are returned as sentinel errors (ErrTaskNotFound,
//     ErrTaskNotOwned) or as domain validation errors.
//   - Unexpected failures are wrapped in *TaskServiceError, which unwraps to
//     the underlying cause.
//   - The API layer maps these to HTTP status codes.
package service
