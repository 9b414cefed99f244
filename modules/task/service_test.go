package task

import (
	"context"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	domain "github.com/example/syncboard/domain/task"
)

// capturePublisher records published events so tests can assert the
// publish-exactly-once and publish-after-commit properties.
type capturePublisher struct {
	added   []domain.Task
	updated []domain.Task
	deleted []string
}

func (p *capturePublisher) TaskAdded(t domain.Task) error {
	p.added = append(p.added, t)
	return nil
}

func (p *capturePublisher) TaskUpdated(t domain.Task) error {
	p.updated = append(p.updated, t)
	return nil
}

func (p *capturePublisher) TaskDeleted(id string) error {
	p.deleted = append(p.deleted, id)
	return nil
}

func (p *capturePublisher) total() int {
	return len(p.added) + len(p.updated) + len(p.deleted)
}

// newTestModule builds a TaskModule against an in-memory database with a
// capturing publisher instead of the event bus.
func newTestModule(t *testing.T) (*TaskModule, *capturePublisher) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(&domain.Task{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	pub := &capturePublisher{}
	m := &TaskModule{
		db:        db,
		repo:      NewRepository(db),
		publisher: pub,
	}
	return m, pub
}

func TestCreateTask(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		title     string
		wantError string
	}{
		{
			name:  "valid task",
			title: "Write docs",
		},
		{
			name:      "empty title",
			title:     "",
			wantError: domain.CodeValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, pub := newTestModule(t)

			reply, err := m.createTask(ctx, CreateTaskRequest{Title: tt.title}, nil)
			if err != nil {
				t.Fatalf("createTask() unexpected transport error: %v", err)
			}

			if tt.wantError != "" {
				if reply.Error != tt.wantError {
					t.Errorf("expected error code %q, got %q", tt.wantError, reply.Error)
				}
				if pub.total() != 0 {
					t.Errorf("failed mutation must not publish, got %d events", pub.total())
				}
				return
			}

			if reply.Error != "" {
				t.Fatalf("createTask() error reply: %s %s", reply.Error, reply.Message)
			}
			if reply.Task.ID == "" {
				t.Error("expected a store-assigned id")
			}
			if reply.Task.Title != tt.title {
				t.Errorf("expected title %q, got %q", tt.title, reply.Task.Title)
			}
			if reply.Task.Status != domain.StatusTodo {
				t.Errorf("expected status TODO, got %q", reply.Task.Status)
			}
			if reply.Task.UpdatedAt.Before(reply.Task.CreatedAt) {
				t.Error("expected updatedAt >= createdAt at creation")
			}

			// Exactly one event, carrying the same snapshot that was
			// returned to the caller.
			if len(pub.added) != 1 || pub.total() != 1 {
				t.Fatalf("expected exactly one TaskAdded event, got %d events", pub.total())
			}
			if pub.added[0].ID != reply.Task.ID || pub.added[0].Status != reply.Task.Status {
				t.Errorf("published snapshot differs from returned snapshot")
			}
		})
	}
}

func TestCreateTask_IgnoresClientStatus(t *testing.T) {
	// CreateTaskRequest has no status field at all, so a client posting a
	// status can never influence the created record. This pins the strict
	// variant: every task starts in TODO.
	m, _ := newTestModule(t)

	reply, err := m.createTask(context.Background(), CreateTaskRequest{Title: "x"}, nil)
	if err != nil || reply.Error != "" {
		t.Fatalf("createTask() failed: %v %s", err, reply.Error)
	}
	if reply.Task.Status != domain.StatusTodo {
		t.Errorf("expected forced TODO status, got %q", reply.Task.Status)
	}
}

func TestUpdateTaskStatus(t *testing.T) {
	ctx := context.Background()
	m, pub := newTestModule(t)

	created, err := m.createTask(ctx, CreateTaskRequest{Title: "Move me"}, nil)
	if err != nil || created.Error != "" {
		t.Fatalf("setup create failed: %v %s", err, created.Error)
	}

	tests := []struct {
		name      string
		id        string
		status    domain.Status
		wantError string
	}{
		{
			name:   "to in progress",
			id:     created.Task.ID,
			status: domain.StatusInProgress,
		},
		{
			name:   "to done",
			id:     created.Task.ID,
			status: domain.StatusDone,
		},
		{
			name:      "invalid status",
			id:        created.Task.ID,
			status:    domain.Status("SHIPPED"),
			wantError: domain.CodeValidation,
		},
		{
			name:      "unknown id",
			id:        "non-existent-id",
			status:    domain.StatusDone,
			wantError: domain.CodeNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := pub.total()

			reply, err := m.updateTaskStatus(ctx, UpdateTaskStatusRequest{ID: tt.id, Status: tt.status}, nil)
			if err != nil {
				t.Fatalf("updateTaskStatus() unexpected transport error: %v", err)
			}

			if tt.wantError != "" {
				if reply.Error != tt.wantError {
					t.Errorf("expected error code %q, got %q", tt.wantError, reply.Error)
				}
				if pub.total() != before {
					t.Errorf("failed mutation must not publish")
				}
				return
			}

			if reply.Error != "" {
				t.Fatalf("updateTaskStatus() error reply: %s %s", reply.Error, reply.Message)
			}
			if reply.Task.ID != tt.id {
				t.Errorf("expected id %q, got %q", tt.id, reply.Task.ID)
			}
			if reply.Task.Status != tt.status {
				t.Errorf("expected status %q, got %q", tt.status, reply.Task.Status)
			}
			if reply.Task.UpdatedAt.Before(reply.Task.CreatedAt) {
				t.Error("expected updatedAt >= createdAt after update")
			}

			if pub.total() != before+1 {
				t.Fatalf("expected exactly one new event, got %d", pub.total()-before)
			}
			last := pub.updated[len(pub.updated)-1]
			if last.ID != reply.Task.ID || last.Status != reply.Task.Status {
				t.Errorf("published snapshot differs from returned snapshot")
			}
		})
	}
}

func TestDeleteTask_Idempotent(t *testing.T) {
	ctx := context.Background()
	m, pub := newTestModule(t)

	created, err := m.createTask(ctx, CreateTaskRequest{Title: "Delete me"}, nil)
	if err != nil || created.Error != "" {
		t.Fatalf("setup create failed: %v %s", err, created.Error)
	}
	id := created.Task.ID

	first, err := m.deleteTask(ctx, DeleteTaskRequest{ID: id}, nil)
	if err != nil || first.Error != "" {
		t.Fatalf("first delete failed: %v %s", err, first.Error)
	}
	if !first.Deleted {
		t.Error("expected first delete to remove the record")
	}
	if len(pub.deleted) != 1 || pub.deleted[0] != id {
		t.Fatalf("expected one TaskDeleted event for %s, got %v", id, pub.deleted)
	}

	// Second delete: same success, no record removed, no event.
	second, err := m.deleteTask(ctx, DeleteTaskRequest{ID: id}, nil)
	if err != nil || second.Error != "" {
		t.Fatalf("second delete failed: %v %s", err, second.Error)
	}
	if second.Deleted {
		t.Error("expected second delete to be a no-op")
	}
	if len(pub.deleted) != 1 {
		t.Errorf("no-op delete must not publish, got %d delete events", len(pub.deleted))
	}

	list, err := m.listTasks(ctx, ListTasksRequest{}, nil)
	if err != nil || list.Error != "" {
		t.Fatalf("list failed: %v %s", err, list.Error)
	}
	for _, item := range list.Tasks {
		if item.ID == id {
			t.Errorf("deleted id still present in list")
		}
	}
}

func TestListTasks_DoesNotPublish(t *testing.T) {
	ctx := context.Background()
	m, pub := newTestModule(t)

	for _, title := range []string{"one", "two", "three"} {
		if reply, err := m.createTask(ctx, CreateTaskRequest{Title: title}, nil); err != nil || reply.Error != "" {
			t.Fatalf("setup create failed: %v", err)
		}
	}
	before := pub.total()

	reply, err := m.listTasks(ctx, ListTasksRequest{}, nil)
	if err != nil || reply.Error != "" {
		t.Fatalf("listTasks() failed: %v %s", err, reply.Error)
	}
	if len(reply.Tasks) != 3 {
		t.Errorf("expected 3 tasks, got %d", len(reply.Tasks))
	}
	if pub.total() != before {
		t.Errorf("list is read-only and must not publish")
	}
}

func TestScenario_CreateUpdateDelete(t *testing.T) {
	ctx := context.Background()
	m, pub := newTestModule(t)

	created, err := m.createTask(ctx, CreateTaskRequest{Title: "Write docs"}, nil)
	if err != nil || created.Error != "" {
		t.Fatalf("create failed: %v %s", err, created.Error)
	}
	if created.Task.Title != "Write docs" || created.Task.Status != domain.StatusTodo {
		t.Fatalf("unexpected created task: %+v", created.Task)
	}
	if created.Task.Description != "" {
		t.Errorf("expected empty description, got %q", created.Task.Description)
	}

	updated, err := m.updateTaskStatus(ctx, UpdateTaskStatusRequest{ID: created.Task.ID, Status: domain.StatusDone}, nil)
	if err != nil || updated.Error != "" {
		t.Fatalf("update failed: %v %s", err, updated.Error)
	}
	if updated.Task.Status != domain.StatusDone {
		t.Errorf("expected DONE, got %q", updated.Task.Status)
	}

	deleted, err := m.deleteTask(ctx, DeleteTaskRequest{ID: created.Task.ID}, nil)
	if err != nil || deleted.Error != "" {
		t.Fatalf("delete failed: %v %s", err, deleted.Error)
	}

	list, err := m.listTasks(ctx, ListTasksRequest{}, nil)
	if err != nil || list.Error != "" {
		t.Fatalf("list failed: %v %s", err, list.Error)
	}
	if len(list.Tasks) != 0 {
		t.Errorf("expected empty board, got %d tasks", len(list.Tasks))
	}

	if len(pub.added) != 1 || len(pub.updated) != 1 || len(pub.deleted) != 1 {
		t.Errorf("expected one event per mutation, got %d/%d/%d",
			len(pub.added), len(pub.updated), len(pub.deleted))
	}
}
