package task

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/go-monolith/mono"

	domain "github.com/example/syncboard/domain/task"
)

// createTask handles the task.create service request. The new task always
// starts in TODO; the caller cannot pick a status.
func (m *TaskModule) createTask(_ context.Context, req CreateTaskRequest, _ *mono.Msg) (TaskReply, error) {
	t, err := domain.New(req.Title, req.Description)
	if err != nil {
		return TaskReply{Error: domain.Code(err), Message: replyMessage(err)}, nil
	}

	if err := m.repo.Create(t); err != nil {
		return TaskReply{Error: domain.Code(err), Message: replyMessage(err)}, nil
	}

	// Publish-after-commit: the event carries exactly the snapshot returned
	// to the caller.
	m.publishAdded(*t)

	return TaskReply{Task: t}, nil
}

// getTask handles the task.get service request.
func (m *TaskModule) getTask(_ context.Context, req GetTaskRequest, _ *mono.Msg) (TaskReply, error) {
	if req.ID == "" {
		err := fmt.Errorf("%w: id is required", domain.ErrValidation)
		return TaskReply{Error: domain.Code(err), Message: replyMessage(err)}, nil
	}

	t, err := m.repo.FindByID(req.ID)
	if err != nil {
		return TaskReply{Error: domain.Code(err), Message: replyMessage(err)}, nil
	}

	return TaskReply{Task: t}, nil
}

// listTasks handles the task.list service request. Read-only, no publish.
func (m *TaskModule) listTasks(_ context.Context, _ ListTasksRequest, _ *mono.Msg) (ListTasksReply, error) {
	tasks, err := m.repo.FindAll()
	if err != nil {
		return ListTasksReply{Error: domain.Code(err), Message: replyMessage(err)}, nil
	}

	return ListTasksReply{Tasks: tasks}, nil
}

// updateTaskStatus handles the task.updateStatus service request.
func (m *TaskModule) updateTaskStatus(_ context.Context, req UpdateTaskStatusRequest, _ *mono.Msg) (TaskReply, error) {
	if !req.Status.IsValid() {
		err := fmt.Errorf("%w: status must be one of TODO, IN_PROGRESS, DONE", domain.ErrValidation)
		return TaskReply{Error: domain.Code(err), Message: replyMessage(err)}, nil
	}

	t, err := m.repo.UpdateStatus(req.ID, req.Status)
	if err != nil {
		return TaskReply{Error: domain.Code(err), Message: replyMessage(err)}, nil
	}

	m.publishUpdated(*t)

	return TaskReply{Task: t}, nil
}

// deleteTask handles the task.delete service request. Deleting an unknown
// or already-deleted id succeeds as a no-op and publishes nothing.
func (m *TaskModule) deleteTask(_ context.Context, req DeleteTaskRequest, _ *mono.Msg) (DeleteTaskReply, error) {
	err := m.repo.Delete(req.ID)
	if errors.Is(err, domain.ErrNotFound) {
		return DeleteTaskReply{Deleted: false}, nil
	}
	if err != nil {
		return DeleteTaskReply{Error: domain.Code(err), Message: replyMessage(err)}, nil
	}

	m.publishDeleted(req.ID)

	return DeleteTaskReply{Deleted: true}, nil
}

// Publish helpers. Fanout is fire-and-forget: a failed publish is logged
// and the mutation still succeeds; viewers recover by re-seeding.

func (m *TaskModule) publishAdded(t domain.Task) {
	if m.publisher == nil {
		return
	}
	if err := m.publisher.TaskAdded(t); err != nil {
		log.Printf("[task] Warning: failed to publish TaskAdded for task %s: %v", t.ID, err)
	}
}

func (m *TaskModule) publishUpdated(t domain.Task) {
	if m.publisher == nil {
		return
	}
	if err := m.publisher.TaskUpdated(t); err != nil {
		log.Printf("[task] Warning: failed to publish TaskUpdated for task %s: %v", t.ID, err)
	}
}

func (m *TaskModule) publishDeleted(id string) {
	if m.publisher == nil {
		return
	}
	if err := m.publisher.TaskDeleted(id); err != nil {
		log.Printf("[task] Warning: failed to publish TaskDeleted for task %s: %v", id, err)
	}
}

// replyMessage strips the sentinel prefix from an error so the reply code
// and message do not repeat each other.
func replyMessage(err error) string {
	msg := err.Error()
	for _, sentinel := range []error{domain.ErrValidation, domain.ErrNotFound, domain.ErrStore} {
		if prefix := sentinel.Error() + ": "; strings.HasPrefix(msg, prefix) {
			return strings.TrimPrefix(msg, prefix)
		}
	}
	return msg
}
