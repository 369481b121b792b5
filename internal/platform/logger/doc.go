// Package logger configures the process-wide slog JSON logger and moves
// request-scoped loggers through context.Context.
package logger
