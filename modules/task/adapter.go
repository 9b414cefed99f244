package task

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"

	domain "github.com/example/syncboard/domain/task"
)

// TaskPort defines the interface driving adapters use to reach the
// mutation service. Viewer sessions never touch the store directly; every
// write goes through these operations.
type TaskPort interface {
	Create(ctx context.Context, title, description string) (*domain.Task, error)
	Get(ctx context.Context, id string) (*domain.Task, error)
	List(ctx context.Context) ([]domain.Task, error)
	UpdateStatus(ctx context.Context, id string, status domain.Status) (*domain.Task, error)
	Delete(ctx context.Context, id string) error
}

// TaskAdapter implements TaskPort using the service container.
type TaskAdapter struct {
	container mono.ServiceContainer
}

// NewTaskAdapter creates a new TaskAdapter.
func NewTaskAdapter(container mono.ServiceContainer) TaskPort {
	if container == nil {
		panic("task: ServiceContainer is nil")
	}
	return &TaskAdapter{container: container}
}

// Create creates a new task. The returned snapshot is identical to the one
// published on the fanout channel.
func (a *TaskAdapter) Create(ctx context.Context, title, description string) (*domain.Task, error) {
	req := CreateTaskRequest{Title: title, Description: description}
	var resp TaskReply
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		ServiceCreate,
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	if resp.Error != "" {
		return nil, domain.FromCode(resp.Error, resp.Message)
	}
	return resp.Task, nil
}

// Get retrieves a single live task.
func (a *TaskAdapter) Get(ctx context.Context, id string) (*domain.Task, error) {
	req := GetTaskRequest{ID: id}
	var resp TaskReply
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		ServiceGet,
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	if resp.Error != "" {
		return nil, domain.FromCode(resp.Error, resp.Message)
	}
	return resp.Task, nil
}

// List returns all live tasks ordered createdAt descending.
func (a *TaskAdapter) List(ctx context.Context) ([]domain.Task, error) {
	req := ListTasksRequest{}
	var resp ListTasksReply
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		ServiceList,
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	if resp.Error != "" {
		return nil, domain.FromCode(resp.Error, resp.Message)
	}
	return resp.Tasks, nil
}

// UpdateStatus moves a task to another column and returns the post-update
// snapshot.
func (a *TaskAdapter) UpdateStatus(ctx context.Context, id string, status domain.Status) (*domain.Task, error) {
	req := UpdateTaskStatusRequest{ID: id, Status: status}
	var resp TaskReply
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		ServiceUpdateStatus,
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("failed to update task status: %w", err)
	}
	if resp.Error != "" {
		return nil, domain.FromCode(resp.Error, resp.Message)
	}
	return resp.Task, nil
}

// Delete removes a task. Deleting an id that is already gone succeeds.
func (a *TaskAdapter) Delete(ctx context.Context, id string) error {
	req := DeleteTaskRequest{ID: id}
	var resp DeleteTaskReply
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		ServiceDelete,
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if resp.Error != "" {
		return domain.FromCode(resp.Error, resp.Message)
	}
	return nil
}
