package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"taskpad/internal/model"
)

// ErrNotFound reports that no task matches the given identifier.
var ErrNotFound = errors.New("task not found")

// TaskRepository handles CRUD for tasks.
type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	if err := r.db.WithContext(ctx).Create(task).Error; err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

// List returns every stored task, newest first.
func (r *TaskRepository) List(ctx context.Context) ([]model.Task, error) {
	tasks := make([]model.Task, 0)
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

func (r *TaskRepository) FindByID(ctx context.Context, id string) (*model.Task, error) {
	var task model.Task
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&task).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find task: %w", err)
	}
	return &task, nil
}

// Update replaces all mutable fields of an existing task.
func (r *TaskRepository) Update(ctx context.Context, task *model.Task) error {
	if err := r.db.WithContext(ctx).Save(task).Error; err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	return nil
}

// SetCompleted flips only the completion flag.
func (r *TaskRepository) SetCompleted(ctx context.Context, id string, completed bool) (*model.Task, error) {
	task, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	task.IsCompleted = completed
	if err := r.db.WithContext(ctx).Save(task).Error; err != nil {
		return nil, fmt.Errorf("set completed: %w", err)
	}
	return task, nil
}

// Delete removes a task and returns its prior state. A missing id is a plain
// error rather than ErrNotFound; delete keeps the store's generic failure
// contract.
func (r *TaskRepository) Delete(ctx context.Context, id string) (*model.Task, error) {
	var task model.Task
	db := r.db.WithContext(ctx)
	if err := db.Where("id = ?", id).First(&task).Error; err != nil {
		return nil, fmt.Errorf("delete task: %w", err)
	}
	if err := db.Delete(&task).Error; err != nil {
		return nil, fmt.Errorf("delete task: %w", err)
	}
	return &task, nil
}
