package task

import domain "github.com/example/syncboard/domain/task"

// Service names registered on the service container. The framework
// prefixes them, so "create" is addressable as "services.task.create".
const (
	ServiceCreate       = "create"
	ServiceGet          = "get"
	ServiceList         = "list"
	ServiceUpdateStatus = "updateStatus"
	ServiceDelete       = "delete"
)

// CreateTaskRequest is the request for creating a task. Status is not
// accepted: every task starts in TODO.
type CreateTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// GetTaskRequest is the request for fetching a single task.
type GetTaskRequest struct {
	ID string `json:"id"`
}

// ListTasksRequest is the request for listing all live tasks.
type ListTasksRequest struct{}

// UpdateTaskStatusRequest is the request for moving a task between columns.
type UpdateTaskStatusRequest struct {
	ID     string        `json:"id"`
	Status domain.Status `json:"status"`
}

// DeleteTaskRequest is the request for deleting a task.
type DeleteTaskRequest struct {
	ID string `json:"id"`
}

// TaskReply carries a single task snapshot, or an error code when the
// operation failed. Error codes survive the serialization boundary where
// sentinel errors do not.
type TaskReply struct {
	Task    *domain.Task `json:"task,omitempty"`
	Error   string       `json:"error,omitempty"`
	Message string       `json:"message,omitempty"`
}

// ListTasksReply carries all live tasks ordered createdAt descending.
type ListTasksReply struct {
	Tasks   []domain.Task `json:"tasks"`
	Error   string        `json:"error,omitempty"`
	Message string        `json:"message,omitempty"`
}

// DeleteTaskReply reports the outcome of a delete. Deleted is false when
// the id was already gone; that case is still a success.
type DeleteTaskReply struct {
	Deleted bool   `json:"deleted"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}
