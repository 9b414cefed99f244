// Package events defines the typed events published after every committed
// task mutation, and the wire frame fanned out to connected viewers.
package events

import (
	"github.com/go-monolith/mono/pkg/helper"

	"github.com/example/syncboard/domain/task"
)

// TaskAddedEvent is emitted after a task is created and persisted.
// It carries the full canonical snapshot returned to the creating caller.
type TaskAddedEvent struct {
	Task task.Task `json:"task"`
}

// TaskUpdatedEvent is emitted after a task's status change is persisted.
type TaskUpdatedEvent struct {
	Task task.Task `json:"task"`
}

// TaskDeletedEvent is emitted after a task is removed. Only the id is
// carried; the record no longer exists.
type TaskDeletedEvent struct {
	TaskID string `json:"taskId"`
}

// Event definitions for the task domain.
var (
	TaskAddedV1 = helper.EventDefinition[TaskAddedEvent](
		"task",
		"TaskAdded",
		"v1",
	)

	TaskUpdatedV1 = helper.EventDefinition[TaskUpdatedEvent](
		"task",
		"TaskUpdated",
		"v1",
	)

	TaskDeletedV1 = helper.EventDefinition[TaskDeletedEvent](
		"task",
		"TaskDeleted",
		"v1",
	)
)
