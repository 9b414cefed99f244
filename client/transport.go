package client

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/fasthttp/websocket"
	"github.com/gofiber/fiber/v2"

	"github.com/example/syncboard/domain/task"
	"github.com/example/syncboard/events"
)

const defaultRequestTimeout = 10 * time.Second

// HTTPClient implements TaskAPI against a running server.
type HTTPClient struct {
	baseURL string
}

var _ TaskAPI = (*HTTPClient)(nil)

// NewHTTPClient creates a client for the given base URL, e.g.
// "http://localhost:5000".
func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{baseURL: baseURL}
}

type createTaskBody struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type updateTaskBody struct {
	Status task.Status `json:"status"`
}

type errorBody struct {
	Error string `json:"error"`
}

// CreateTask posts a new task and returns the server's snapshot.
func (c *HTTPClient) CreateTask(ctx context.Context, title, description string) (*task.Task, error) {
	agent := fiber.Post(c.baseURL + "/tasks")
	agent.JSON(createTaskBody{Title: title, Description: description})
	body, err := c.do(ctx, agent, fiber.StatusCreated)
	if err != nil {
		return nil, err
	}
	var t task.Task
	if err := json.Unmarshal(body, &t); err != nil {
		return nil, fmt.Errorf("failed to decode task: %w", err)
	}
	return &t, nil
}

// ListTasks fetches the full live task set, newest first.
func (c *HTTPClient) ListTasks(ctx context.Context) ([]task.Task, error) {
	agent := fiber.Get(c.baseURL + "/tasks")
	body, err := c.do(ctx, agent, fiber.StatusOK)
	if err != nil {
		return nil, err
	}
	var tasks []task.Task
	if err := json.Unmarshal(body, &tasks); err != nil {
		return nil, fmt.Errorf("failed to decode task list: %w", err)
	}
	return tasks, nil
}

// UpdateTaskStatus moves a task to another column.
func (c *HTTPClient) UpdateTaskStatus(ctx context.Context, id string, status task.Status) (*task.Task, error) {
	agent := fiber.Put(c.baseURL + "/tasks/" + id)
	agent.JSON(updateTaskBody{Status: status})
	body, err := c.do(ctx, agent, fiber.StatusOK)
	if err != nil {
		return nil, err
	}
	var t task.Task
	if err := json.Unmarshal(body, &t); err != nil {
		return nil, fmt.Errorf("failed to decode task: %w", err)
	}
	return &t, nil
}

// DeleteTask removes a task.
func (c *HTTPClient) DeleteTask(ctx context.Context, id string) error {
	agent := fiber.Delete(c.baseURL + "/tasks/" + id)
	_, err := c.do(ctx, agent, fiber.StatusOK)
	return err
}

// do runs the request and returns the body, mapping non-2xx responses to
// domain errors by status code.
func (c *HTTPClient) do(ctx context.Context, agent *fiber.Agent, want int) ([]byte, error) {
	timeout := defaultRequestTimeout
	if dl, ok := ctx.Deadline(); ok {
		timeout = time.Until(dl)
	}
	agent.Timeout(timeout)

	code, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return nil, fmt.Errorf("request failed: %w", errs[0])
	}
	if code == want {
		return body, nil
	}

	var eb errorBody
	_ = json.Unmarshal(body, &eb)
	msg := eb.Error
	if msg == "" {
		msg = fmt.Sprintf("unexpected status %d", code)
	}
	switch code {
	case fiber.StatusBadRequest:
		return nil, task.FromCode(task.CodeValidation, msg)
	case fiber.StatusNotFound:
		return nil, task.FromCode(task.CodeNotFound, msg)
	default:
		return nil, task.FromCode(task.CodeStore, msg)
	}
}

// WSStream implements EventStream over the server's /ws endpoint.
type WSStream struct {
	conn *websocket.Conn
}

var _ EventStream = (*WSStream)(nil)

// DialStream connects to the fanout websocket, e.g.
// "ws://localhost:5000/ws".
func DialStream(url string) (*WSStream, error) {
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to dial %s: %w", url, err)
	}
	return &WSStream{conn: conn}, nil
}

// Next blocks until the next frame arrives. A ctx deadline bounds the
// read.
func (s *WSStream) Next(ctx context.Context) (events.Frame, error) {
	var deadline time.Time
	if dl, ok := ctx.Deadline(); ok {
		deadline = dl
	}
	if err := s.conn.SetReadDeadline(deadline); err != nil {
		return events.Frame{}, err
	}

	var f events.Frame
	if err := s.conn.ReadJSON(&f); err != nil {
		return events.Frame{}, err
	}
	return f, nil
}

// Close closes the underlying connection.
func (s *WSStream) Close() error {
	return s.conn.Close()
}
