package api

// CreateTaskRequest is the API request to create a task. Status is not
// accepted here: new tasks always start in the TODO column.
type CreateTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// UpdateTaskRequest is the API request to move a task to another column.
type UpdateTaskRequest struct {
	Status string `json:"status"`
}

// DeleteResponse is the API response for a successful delete.
type DeleteResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is the API error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthResponse is the API health check response.
type HealthResponse struct {
	Status  string         `json:"status"`
	Details map[string]any `json:"details,omitempty"`
}
