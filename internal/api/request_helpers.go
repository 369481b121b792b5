package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/task-manager/internal/api/shared"
	"github.com/phrazzld/task-manager/internal/domain"
	"github.com/phrazzld/task-manager/internal/service"
)

// TaskIDParam is the chi URL parameter holding the task ID.
const TaskIDParam = "id"

// sessionFromRequest returns the session identifier placed in the context by
// middleware.RequireSession.
func sessionFromRequest(r *http.Request) (string, error) {
	sessionID, ok := shared.GetSessionID(r.Context())
	if !ok {
		return "", domain.NewValidationError("session_id", "is required", domain.ErrEmptyContent)
	}
	return sessionID, nil
}

// taskIDFromPath parses the task ID path parameter. Anything that is not a
// UUID cannot name an existing task, so it is reported as not found.
func taskIDFromPath(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, TaskIDParam))
	if err != nil {
		return uuid.Nil, service.ErrTaskNotFound
	}
	return id, nil
}

// handleSessionAndTaskID extracts both values, writing an error response and
// returning false if either is missing or invalid.
func handleSessionAndTaskID(w http.ResponseWriter, r *http.Request) (string, uuid.UUID, bool) {
	sessionID, err := sessionFromRequest(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return "", uuid.Nil, false
	}

	taskID, err := taskIDFromPath(r)
	if err != nil {
		requestLogger(r).Debug("malformed task id", "value", chi.URLParam(r, TaskIDParam))
		HandleAPIError(w, r, err, "")
		return "", uuid.Nil, false
	}

	return sessionID, taskID, true
}
