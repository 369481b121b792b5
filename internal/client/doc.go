// Package client is the HTTP client the console uses to talk to the task
// service. Every request carries the console's session identifier and is
// retried under a RetryPolicy. Failures are reported as *Error values whose
// message is safe to show to a user; the underlying cause is kept for logs.
package client
