// Package task provides the domain types for board tasks.
package task

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Status represents a task's position on the board.
type Status string

const (
	// StatusTodo is the initial status of every task.
	StatusTodo Status = "TODO"
	// StatusInProgress indicates the task has been started.
	StatusInProgress Status = "IN_PROGRESS"
	// StatusDone indicates the task is finished.
	StatusDone Status = "DONE"
)

// IsValid returns true if the status is one of the three board columns.
func (s Status) IsValid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusDone:
		return true
	default:
		return false
	}
}

// MaxTitleLength bounds a task title.
const MaxTitleLength = 200

// Task is the unit of work tracked by the board.
//
// IDs are assigned at creation and never reused: deletes are soft, so a
// deleted id stays tombstoned for the store's lifetime. Status is the only
// field a mutation may change after creation.
type Task struct {
	ID          string         `gorm:"primarykey;size:36" json:"id"`
	Title       string         `gorm:"size:200;not null" json:"title"`
	Description string         `gorm:"size:2000" json:"description,omitempty"`
	Status      Status         `gorm:"size:20;not null;default:TODO" json:"status"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName returns the table name for the Task model.
func (Task) TableName() string {
	return "tasks"
}

// New creates a task ready for persistence. The status is always TODO;
// client-supplied statuses at creation are deliberately not accepted.
func New(title, description string) (*Task, error) {
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrValidation)
	}
	if len(title) > MaxTitleLength {
		return nil, fmt.Errorf("%w: title exceeds %d characters", ErrValidation, MaxTitleLength)
	}

	now := time.Now()
	return &Task{
		ID:          uuid.New().String(),
		Title:       title,
		Description: description,
		Status:      StatusTodo,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}
