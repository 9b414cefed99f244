package events

import "github.com/example/syncboard/domain/task"

// Frame types pushed to connected viewers.
const (
	FrameTaskAdded   = "taskAdded"
	FrameTaskUpdated = "taskUpdated"
	FrameTaskDeleted = "taskDeleted"
)

// Frame is the self-contained JSON frame broadcast to every connected
// viewer session. Added and updated frames carry the full snapshot;
// deleted frames carry only the id. Because each frame is self-contained,
// per-frame ordering across different tasks does not matter for
// convergence.
type Frame struct {
	Type string     `json:"type"`
	Task *task.Task `json:"task,omitempty"`
	ID   string     `json:"id,omitempty"`
}

// AddedFrame builds the fanout frame for a created task.
func AddedFrame(t task.Task) Frame {
	return Frame{Type: FrameTaskAdded, Task: &t}
}

// UpdatedFrame builds the fanout frame for an updated task.
func UpdatedFrame(t task.Task) Frame {
	return Frame{Type: FrameTaskUpdated, Task: &t}
}

// DeletedFrame builds the fanout frame for a deleted task id.
func DeletedFrame(id string) Frame {
	return Frame{Type: FrameTaskDeleted, ID: id}
}
