// Package api implements the HTTP handlers of the task service.
//
// Handlers decode and validate requests, call the service layer and map its
// errors to status codes with MapErrorToStatusCode and GetSafeErrorMessage.
// Response bodies never include raw error text; details are logged through
// the redacting helpers in the shared package.
package api
