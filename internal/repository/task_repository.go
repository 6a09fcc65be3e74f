package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/Tomlord1122/get-it-done/internal/domain"
)

// ErrNotFound is returned when no task has the requested id.
var ErrNotFound = errors.New("task not found")

// TaskRepository defines the storage operations on tasks.
type TaskRepository interface {
	Create(ctx context.Context, task *domain.Task) error
	FindByID(ctx context.Context, id uint) (*domain.Task, error)
	ListByStatus(ctx context.Context, completed bool) ([]domain.Task, error)
	Save(ctx context.Context, task *domain.Task) error
}

// gormTaskRepository implements TaskRepository using GORM
type gormTaskRepository struct {
	db *gorm.DB
}

// NewGormTaskRepository creates a new GORM task repository
func NewGormTaskRepository(db *gorm.DB) TaskRepository {
	return &gormTaskRepository{db: db}
}

var taskColumns = []string{domain.TaskColumnID, domain.TaskColumnName, domain.TaskColumnCompleted}

// Create inserts a pending task and sets its ID. The insert is committed
// before Create returns, or rolled back on failure.
func (r *gormTaskRepository) Create(ctx context.Context, task *domain.Task) error {
	task.Completed = false
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Select(domain.TaskColumnName, domain.TaskColumnCompleted).Create(task)
		if result.Error != nil {
			return fmt.Errorf("insert task: %w", result.Error)
		}
		return nil
	})
}

// FindByID retrieves a task by its primary key.
func (r *gormTaskRepository) FindByID(ctx context.Context, id uint) (*domain.Task, error) {
	var task domain.Task
	result := r.db.WithContext(ctx).
		Select(taskColumns).
		Where(domain.TaskColumnID+" = ?", id).
		Take(&task)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("task %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("find task %d: %w", id, result.Error)
	}
	return &task, nil
}

// ListByStatus returns every task whose completed flag matches, in id order.
func (r *gormTaskRepository) ListByStatus(ctx context.Context, completed bool) ([]domain.Task, error) {
	tasks := []domain.Task{}
	result := r.db.WithContext(ctx).
		Select(taskColumns).
		Where(domain.TaskColumnCompleted+" = ?", completed).
		Order(domain.TaskColumnID).
		Find(&tasks)
	if result.Error != nil {
		return nil, fmt.Errorf("list tasks (completed=%t): %w", completed, result.Error)
	}
	return tasks, nil
}

// Save writes name and completed of an existing task inside its own
// transaction.
func (r *gormTaskRepository) Save(ctx context.Context, task *domain.Task) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&domain.Task{}).
			Where(domain.TaskColumnID+" = ?", task.ID).
			Updates(map[string]any{
				domain.TaskColumnName:      task.Name,
				domain.TaskColumnCompleted: task.Completed,
			})
		if result.Error != nil {
			return fmt.Errorf("update task %d: %w", task.ID, result.Error)
		}
		// MySQL reports zero affected rows when the values are unchanged,
		// so confirm the row exists before calling it missing.
		if result.RowsAffected == 0 {
			var count int64
			if err := tx.Model(&domain.Task{}).Where(domain.TaskColumnID+" = ?", task.ID).Count(&count).Error; err != nil {
				return fmt.Errorf("check task %d: %w", task.ID, err)
			}
			if count == 0 {
				return fmt.Errorf("task %d: %w", task.ID, ErrNotFound)
			}
		}
		return nil
	})
}
