package api

import (
	"errors"
	"log"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	domain "github.com/example/syncboard/domain/task"
	"github.com/example/syncboard/modules/fanout"
)

// setupRoutes configures all HTTP routes.
func (m *APIModule) setupRoutes() {
	// Health check
	m.app.Get("/health", m.healthHandler)

	// WebSocket endpoint
	m.app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	m.app.Get("/ws", websocket.New(m.handleWebSocket))

	// Task REST API
	m.app.Get("/tasks", m.listTasks)
	m.app.Post("/tasks", m.createTask)
	m.app.Get("/tasks/:id", m.getTask)
	m.app.Put("/tasks/:id", m.updateTask)
	m.app.Delete("/tasks/:id", m.deleteTask)
}

// healthHandler handles GET /health.
func (m *APIModule) healthHandler(c *fiber.Ctx) error {
	return c.JSON(HealthResponse{
		Status: "healthy",
		Details: map[string]any{
			"module":            "api",
			"connected_clients": m.hub.ClientCount(),
		},
	})
}

// listTasks handles GET /tasks.
func (m *APIModule) listTasks(c *fiber.Ctx) error {
	tasks, err := m.tasks.List(c.UserContext())
	if err != nil {
		return m.taskError(c, err)
	}
	return c.JSON(tasks)
}

// getTask handles GET /tasks/:id.
func (m *APIModule) getTask(c *fiber.Ctx) error {
	t, err := m.tasks.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return m.taskError(c, err)
	}
	return c.JSON(t)
}

// createTask handles POST /tasks.
func (m *APIModule) createTask(c *fiber.Ctx) error {
	var req CreateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: "Invalid request body",
		})
	}

	t, err := m.tasks.Create(c.UserContext(), req.Title, req.Description)
	if err != nil {
		return m.taskError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(t)
}

// updateTask handles PUT /tasks/:id.
func (m *APIModule) updateTask(c *fiber.Ctx) error {
	var req UpdateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: "Invalid request body",
		})
	}

	t, err := m.tasks.UpdateStatus(c.UserContext(), c.Params("id"), domain.Status(req.Status))
	if err != nil {
		return m.taskError(c, err)
	}
	return c.JSON(t)
}

// deleteTask handles DELETE /tasks/:id.
func (m *APIModule) deleteTask(c *fiber.Ctx) error {
	if err := m.tasks.Delete(c.UserContext(), c.Params("id")); err != nil {
		return m.taskError(c, err)
	}
	return c.JSON(DeleteResponse{Message: "Deleted"})
}

// taskError maps domain errors to HTTP status codes.
func (m *APIModule) taskError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Error: err.Error()})
	default:
		log.Printf("[api] %s %s failed: %v", c.Method(), c.Path(), err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "Internal Server Error"})
	}
}

// handleWebSocket handles WebSocket connections at /ws. The stream is
// push-only: viewers receive board events and send nothing back, so the
// read loop exists only to detect the close.
func (m *APIModule) handleWebSocket(c *websocket.Conn) {
	clientID := uuid.New().String()

	client := &fanout.Client{
		ID:   clientID,
		Conn: c,
	}

	m.hub.Register(client)
	defer func() {
		m.hub.Unregister(client)
		log.Printf("[api] WebSocket client disconnected: %s", clientID)
	}()

	log.Printf("[api] WebSocket client connected: %s", clientID)

	for {
		if _, _, err := c.ReadMessage(); err != nil {
			if websocket.IsCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[api] Client %s closed connection", clientID)
			}
			return
		}
	}
}
