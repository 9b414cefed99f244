package task

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	domain "github.com/example/syncboard/domain/task"
)

// Repository provides access to the task store. The store serializes
// conflicting writes to the same row, which is what gives updates to a
// single task their commit ordering; writes to different tasks proceed
// independently.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new task repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a new task.
func (r *Repository) Create(t *domain.Task) error {
	if err := r.db.Create(t).Error; err != nil {
		return fmt.Errorf("%w: failed to create task: %v", domain.ErrStore, err)
	}
	return nil
}

// FindByID retrieves a live task by its id. Deleted ids never resolve.
func (r *Repository) FindByID(id string) (*domain.Task, error) {
	var t domain.Task
	if err := r.db.First(&t, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("%w: failed to find task: %v", domain.ErrStore, err)
	}
	return &t, nil
}

// FindAll retrieves all live tasks ordered by creation time, newest first.
func (r *Repository) FindAll() ([]domain.Task, error) {
	var tasks []domain.Task
	if err := r.db.Order("created_at DESC, id DESC").Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("%w: failed to list tasks: %v", domain.ErrStore, err)
	}
	return tasks, nil
}

// UpdateStatus sets a task's status and refreshes its updatedAt inside a
// single transaction, and returns the post-update snapshot.
func (r *Repository) UpdateStatus(id string, status domain.Status) (*domain.Task, error) {
	var updated domain.Task
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var t domain.Task
		if err := tx.First(&t, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNotFound
			}
			return fmt.Errorf("%w: failed to find task: %v", domain.ErrStore, err)
		}

		t.Status = status
		t.UpdatedAt = time.Now()
		if err := tx.Save(&t).Error; err != nil {
			return fmt.Errorf("%w: failed to update task: %v", domain.ErrStore, err)
		}

		updated = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete tombstones a task by id. Returns domain.ErrNotFound when the id does
// not resolve to a live record; the caller decides whether that is an error.
func (r *Repository) Delete(id string) error {
	result := r.db.Delete(&domain.Task{}, "id = ?", id)
	if err := result.Error; err != nil {
		return fmt.Errorf("%w: failed to delete task: %v", domain.ErrStore, err)
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
