package client

import (
	"context"
	"log"
	"sync"

	"github.com/example/syncboard/domain/task"
	"github.com/example/syncboard/events"
)

// TaskAPI is the mutation surface a session drives. The HTTP transport
// implements it against a running server; tests substitute a fake.
type TaskAPI interface {
	CreateTask(ctx context.Context, title, description string) (*task.Task, error)
	ListTasks(ctx context.Context) ([]task.Task, error)
	UpdateTaskStatus(ctx context.Context, id string, status task.Status) (*task.Task, error)
	DeleteTask(ctx context.Context, id string) error
}

// EventStream delivers fanout frames to a session.
type EventStream interface {
	Next(ctx context.Context) (events.Frame, error)
	Close() error
}

// SyncState describes how a viewer's local copy of a task relates to the
// server's authoritative state.
type SyncState int

const (
	// StateAuthoritative means the local copy came from the server as-is.
	StateAuthoritative SyncState = iota
	// StatePendingOptimistic means a local move was applied ahead of the
	// server's confirmation.
	StatePendingOptimistic
	// StateReconciled means the server echo confirmed the optimistic move.
	StateReconciled
)

func (s SyncState) String() string {
	switch s {
	case StatePendingOptimistic:
		return "pending"
	case StateReconciled:
		return "reconciled"
	default:
		return "authoritative"
	}
}

// pendingMove records an optimistic status change awaiting its server
// echo. prev tracks the latest authoritative status seen for the task, so
// a failed move rolls back to what the server currently holds rather than
// to a value that may have gone stale while the request was in flight.
type pendingMove struct {
	prev   task.Status
	target task.Status
}

// Session ties a projection to the mutation API. Moves are optimistic:
// the local projection changes immediately, the authoritative request runs
// after, and a failure rolls the local change back. All other mutations
// wait for the server.
type Session struct {
	api  TaskAPI
	proj *Projection

	mu    sync.Mutex
	moves map[string]pendingMove
	state map[string]SyncState
}

// NewSession creates a session over the given API with an empty projection.
func NewSession(api TaskAPI) *Session {
	return &Session{
		api:   api,
		proj:  NewProjection(),
		moves: make(map[string]pendingMove),
		state: make(map[string]SyncState),
	}
}

// Projection exposes the session's local replica.
func (s *Session) Projection() *Projection {
	return s.proj
}

// Load fetches the authoritative task set and resets the projection to it.
func (s *Session) Load(ctx context.Context) error {
	tasks, err := s.api.ListTasks(ctx)
	if err != nil {
		return err
	}
	s.proj.Seed(tasks)
	s.mu.Lock()
	s.moves = make(map[string]pendingMove)
	s.state = make(map[string]SyncState)
	s.mu.Unlock()
	return nil
}

// CreateTask creates a task through the server and applies the returned
// snapshot locally. The later fanout echo is an idempotent no-op.
func (s *Session) CreateTask(ctx context.Context, title, description string) (*task.Task, error) {
	t, err := s.api.CreateTask(ctx, title, description)
	if err != nil {
		return nil, err
	}
	s.proj.ApplyAdded(*t)
	return t, nil
}

// DeleteTask deletes a task through the server. Deletion is not
// optimistic: the card disappears only once the server confirms.
func (s *Session) DeleteTask(ctx context.Context, id string) error {
	if err := s.api.DeleteTask(ctx, id); err != nil {
		return err
	}
	s.mu.Lock()
	s.proj.ApplyDeleted(id)
	delete(s.moves, id)
	delete(s.state, id)
	s.mu.Unlock()
	return nil
}

// MoveTask optimistically moves a task to another column, then issues the
// authoritative request. On failure the local status rolls back to the
// latest authoritative value seen for the task.
func (s *Session) MoveTask(ctx context.Context, id string, target task.Status) error {
	if !target.IsValid() {
		return task.ErrValidation
	}

	s.mu.Lock()
	prev, ok := s.proj.SetStatus(id, target)
	if !ok {
		s.mu.Unlock()
		return task.ErrNotFound
	}
	s.moves[id] = pendingMove{prev: prev, target: target}
	delete(s.state, id)
	s.mu.Unlock()

	if _, err := s.api.UpdateTaskStatus(ctx, id, target); err != nil {
		// Roll back under the same lock that Apply takes, so a frame can
		// never land between clearing the pending move and restoring the
		// status. prev may have been advanced by a foreign update while
		// the request was in flight.
		s.mu.Lock()
		if mv, pending := s.moves[id]; pending && mv.target == target {
			delete(s.moves, id)
			s.proj.SetStatus(id, mv.prev)
		}
		s.mu.Unlock()
		return err
	}
	return nil
}

// State reports how the local copy of a task relates to the server.
func (s *Session) State(id string) SyncState {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.moves[id]; ok {
		return StatePendingOptimistic
	}
	if st, ok := s.state[id]; ok {
		return st
	}
	return StateAuthoritative
}

// Apply merges a fanout frame into the projection. An update echo that
// matches a pending move's target reconciles it; any other update for a
// pending task keeps the optimistic status on top of the incoming
// snapshot so the viewer's move stays visible until its own echo lands.
func (s *Session) Apply(f events.Frame) {
	switch f.Type {
	case events.FrameTaskAdded:
		if f.Task == nil {
			return
		}
		s.proj.ApplyAdded(*f.Task)
	case events.FrameTaskUpdated:
		if f.Task == nil {
			return
		}
		t := *f.Task
		s.mu.Lock()
		if mv, ok := s.moves[t.ID]; ok {
			if t.Status == mv.target {
				delete(s.moves, t.ID)
				s.state[t.ID] = StateReconciled
			} else {
				// A foreign update while our move is in flight: remember
				// its status as the rollback point and keep the
				// optimistic status visible.
				mv.prev = t.Status
				s.moves[t.ID] = mv
				t.Status = mv.target
			}
		}
		s.proj.ApplyUpdated(t)
		s.mu.Unlock()
	case events.FrameTaskDeleted:
		s.mu.Lock()
		s.proj.ApplyDeleted(f.ID)
		delete(s.moves, f.ID)
		delete(s.state, f.ID)
		s.mu.Unlock()
	default:
		log.Printf("[client] ignoring unknown frame type %q", f.Type)
	}
}

// Run consumes frames from the stream until it fails or ctx is cancelled.
func (s *Session) Run(ctx context.Context, stream EventStream) error {
	for {
		f, err := stream.Next(ctx)
		if err != nil {
			return err
		}
		s.Apply(f)
	}
}
