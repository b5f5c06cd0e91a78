package service

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"taskpad/internal/model"
	"taskpad/internal/repository"
)

var (
	taskOpsCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "taskpad_task_operations_total",
			Help: "Total task operations by kind and status",
		},
		[]string{"op", "status"},
	)

	taskOpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "taskpad_task_operation_duration_seconds",
			Help:    "Duration of task operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"op"},
	)
)

// ErrInvalidInput marks business-rule violations that must never reach the store.
var ErrInvalidInput = errors.New("invalid input")

// TaskInput represents the mutable fields of a task as sent by a caller.
type TaskInput struct {
	Title       string
	Description string
	Date        string
	IsCompleted bool
	IsImportant bool
}

// TaskService wraps task-related business logic.
type TaskService struct {
	repo *repository.TaskRepository
}

func NewTaskService(repo *repository.TaskRepository) *TaskService {
	return &TaskService{repo: repo}
}

// CreateTask validates the input and stores a new task owned by userID.
func (s *TaskService) CreateTask(ctx context.Context, userID string, input TaskInput) (*model.Task, error) {
	start := time.Now()
	defer func() {
		taskOpDuration.WithLabelValues("create").Observe(time.Since(start).Seconds())
	}()

	if err := validateInput(input); err != nil {
		taskOpsCount.WithLabelValues("create", "error").Inc()
		return nil, err
	}

	task := model.Task{
		UserID:      userID,
		Title:       input.Title,
		Description: input.Description,
		Date:        input.Date,
		IsCompleted: input.IsCompleted,
		IsImportant: input.IsImportant,
	}

	if err := s.repo.Create(ctx, &task); err != nil {
		taskOpsCount.WithLabelValues("create", "error").Inc()
		return nil, err
	}

	taskOpsCount.WithLabelValues("create", "success").Inc()
	return &task, nil
}

// ListTasks returns every stored task, newest first. Ownership filtering is
// deliberately absent to match the observed API contract.
func (s *TaskService) ListTasks(ctx context.Context) ([]model.Task, error) {
	return s.repo.List(ctx)
}

func (s *TaskService) GetTask(ctx context.Context, id string) (*model.Task, error) {
	return s.repo.FindByID(ctx, id)
}

// UpdateTask replaces all mutable fields of the task with the given id.
func (s *TaskService) UpdateTask(ctx context.Context, userID, id string, input TaskInput) (*model.Task, error) {
	start := time.Now()
	defer func() {
		taskOpDuration.WithLabelValues("update").Observe(time.Since(start).Seconds())
	}()

	if err := validateInput(input); err != nil {
		taskOpsCount.WithLabelValues("update", "error").Inc()
		return nil, err
	}

	task, err := s.repo.FindByID(ctx, id)
	if err != nil {
		taskOpsCount.WithLabelValues("update", "error").Inc()
		return nil, err
	}

	task.Title = input.Title
	task.Description = input.Description
	task.Date = input.Date
	task.IsCompleted = input.IsCompleted
	task.IsImportant = input.IsImportant
	task.UserID = userID

	if err := s.repo.Update(ctx, task); err != nil {
		taskOpsCount.WithLabelValues("update", "error").Inc()
		return nil, err
	}

	taskOpsCount.WithLabelValues("update", "success").Inc()
	return task, nil
}

// SetCompleted flips only the completion flag of the task with the given id.
func (s *TaskService) SetCompleted(ctx context.Context, id string, completed bool) (*model.Task, error) {
	task, err := s.repo.SetCompleted(ctx, id, completed)
	if err != nil {
		taskOpsCount.WithLabelValues("toggle", "error").Inc()
		return nil, err
	}
	taskOpsCount.WithLabelValues("toggle", "success").Inc()
	return task, nil
}

// DeleteTask removes a task and returns its prior state.
func (s *TaskService) DeleteTask(ctx context.Context, id string) (*model.Task, error) {
	task, err := s.repo.Delete(ctx, id)
	if err != nil {
		taskOpsCount.WithLabelValues("delete", "error").Inc()
		return nil, err
	}
	taskOpsCount.WithLabelValues("delete", "success").Inc()
	return task, nil
}

func validateInput(input TaskInput) error {
	titleLen := utf8.RuneCountInString(input.Title)
	if titleLen < 1 || titleLen > 50 {
		return fmt.Errorf("%w: title must be 1-50 characters", ErrInvalidInput)
	}
	descLen := utf8.RuneCountInString(input.Description)
	if descLen < 10 || descLen > 200 {
		return fmt.Errorf("%w: description must be 10-200 characters", ErrInvalidInput)
	}
	if _, err := model.ParseDate(input.Date); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return nil
}
