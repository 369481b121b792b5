package api

import (
	"time"

	"github.com/phrazzld/task-manager/internal/domain"
)

// CreateTaskRequest is the body of POST /api/tasks.
type CreateTaskRequest struct {
	Title string `json:"title" validate:"required"`
}

// UpdateTaskStatusRequest is the body of PUT /api/tasks/{id}. Completed is a
// pointer so an absent field can be told apart from false.
type UpdateTaskStatusRequest struct {
	Completed *bool `json:"completed" validate:"required"`
}

// TaskResponse is the JSON representation of a task.
type TaskResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Completed bool      `json:"completed"`
	SessionID string    `json:"sessionId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// MessageResponse carries a short confirmation message.
type MessageResponse struct {
	Message string `json:"message"`
}

func taskToResponse(task *domain.Task) TaskResponse {
	return TaskResponse{
		ID:        task.ID.String(),
		Title:     task.Title,
		Completed: task.Completed,
		SessionID: task.SessionID,
		CreatedAt: task.CreatedAt,
		UpdatedAt: task.UpdatedAt,
	}
}

func tasksToResponse(tasks []*domain.Task) []TaskResponse {
	out := make([]TaskResponse, 0, len(tasks))
	for _, task := range tasks {
		out = append(out, taskToResponse(task))
	}
	return out
}
