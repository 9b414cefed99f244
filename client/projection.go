// Package client implements the viewer side of the board: an HTTP/websocket
// transport, a local projection of the task set, and a session layer that
// applies optimistic moves and reconciles them against fanout frames.
package client

import (
	"sort"
	"sync"

	"github.com/example/syncboard/domain/task"
)

// Projection is a viewer's local replica of the live task set. It is built
// from an initial list fetch and kept current by applying fanout frames.
// Deleted ids are tombstoned so a duplicate or late frame for a removed
// task can never resurrect it.
type Projection struct {
	mu      sync.RWMutex
	tasks   map[string]task.Task
	deleted map[string]struct{}
}

// NewProjection creates an empty projection.
func NewProjection() *Projection {
	return &Projection{
		tasks:   make(map[string]task.Task),
		deleted: make(map[string]struct{}),
	}
}

// Seed resets the projection to the given authoritative task set,
// clearing all tombstones.
func (p *Projection) Seed(tasks []task.Task) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.tasks = make(map[string]task.Task, len(tasks))
	p.deleted = make(map[string]struct{})
	for _, t := range tasks {
		p.tasks[t.ID] = t
	}
}

// ApplyAdded upserts the snapshot of a created task. Re-delivery of the
// same frame is a no-op, and a tombstoned id stays absent.
func (p *Projection) ApplyAdded(t task.Task) bool {
	return p.upsert(t)
}

// ApplyUpdated upserts the snapshot of an updated task. An update for an
// id the viewer has never seen inserts it: the frame carries the full
// snapshot, so there is nothing to wait for.
func (p *Projection) ApplyUpdated(t task.Task) bool {
	return p.upsert(t)
}

func (p *Projection) upsert(t task.Task) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, gone := p.deleted[t.ID]; gone {
		return false
	}
	p.tasks[t.ID] = t
	return true
}

// ApplyDeleted removes the task and tombstones its id. Applying the same
// delete twice is a no-op.
func (p *Projection) ApplyDeleted(id string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, existed := p.tasks[id]
	delete(p.tasks, id)
	p.deleted[id] = struct{}{}
	return existed
}

// SetStatus rewrites the status of a local task and returns the previous
// status. It reports false when the id is absent or tombstoned.
func (p *Projection) SetStatus(id string, status task.Status) (task.Status, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	t, ok := p.tasks[id]
	if !ok {
		return "", false
	}
	prev := t.Status
	t.Status = status
	p.tasks[id] = t
	return prev, true
}

// Get returns the local copy of a task.
func (p *Projection) Get(id string) (task.Task, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	t, ok := p.tasks[id]
	return t, ok
}

// Len returns the number of live tasks in the projection.
func (p *Projection) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.tasks)
}

// Snapshot returns the live tasks ordered newest first, matching the
// server's list order.
func (p *Projection) Snapshot() []task.Task {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]task.Task, 0, len(p.tasks))
	for _, t := range p.tasks {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out
}
