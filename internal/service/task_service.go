package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"unicode/utf8"

	"github.com/Tomlord1122/get-it-done/internal/domain"
	"github.com/Tomlord1122/get-it-done/internal/repository"
)

// Error kinds surfaced to the HTTP layer.
var (
	ErrInvalidInput   = errors.New("invalid input")
	ErrNotFound       = errors.New("not found")
	ErrStorageFailure = errors.New("storage failure")
)

// CreateTaskRequest holds the data needed to create a new task.
type CreateTaskRequest struct {
	Name string
}

// TaskBoard is the state shown on the index page.
type TaskBoard struct {
	Pending   []domain.Task
	Completed []domain.Task
}

// TaskService defines the operations for managing tasks.
type TaskService interface {
	// CreateTask validates the name and stores a new pending task.
	CreateTask(ctx context.Context, req CreateTaskRequest) (*domain.Task, error)

	// CompleteTask marks the task with the given id completed. Completing
	// an already completed task is a no-op.
	CompleteTask(ctx context.Context, id uint) (*domain.Task, error)

	// GetBoard returns pending and completed tasks.
	GetBoard(ctx context.Context) (*TaskBoard, error)
}

type taskService struct {
	repo repository.TaskRepository
}

// NewTaskService creates a TaskService backed by repo.
func NewTaskService(repo repository.TaskRepository) TaskService {
	return &taskService{repo: repo}
}

// ValidateTaskName trims the name and checks it fits the name column.
func ValidateTaskName(name string) (string, error) {
	if !utf8.ValidString(name) {
		return "", fmt.Errorf("%w: task name is not valid UTF-8", ErrInvalidInput)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: task name cannot be empty", ErrInvalidInput)
	}
	if n := utf8.RuneCountInString(name); n > domain.NameMaxLength {
		return "", fmt.Errorf("%w: task name is %d characters, the limit is %d", ErrInvalidInput, n, domain.NameMaxLength)
	}
	return name, nil
}

func (s *taskService) CreateTask(ctx context.Context, req CreateTaskRequest) (*domain.Task, error) {
	name, err := ValidateTaskName(req.Name)
	if err != nil {
		return nil, err
	}

	task := domain.NewTask(name)
	if err := s.repo.Create(ctx, task); err != nil {
		log.Printf("Error creating task in repository: %v", err)
		return nil, fmt.Errorf("%w: create task", ErrStorageFailure)
	}
	return task, nil
}

func (s *taskService) CompleteTask(ctx context.Context, id uint) (*domain.Task, error) {
	if id == 0 {
		return nil, fmt.Errorf("%w: task id must be positive", ErrInvalidInput)
	}

	task, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: no task with ID %d", ErrNotFound, id)
		}
		log.Printf("Error fetching task %d from repository: %v", id, err)
		return nil, fmt.Errorf("%w: retrieve task %d", ErrStorageFailure, id)
	}

	if task.Completed {
		return task, nil
	}

	task.Complete()
	if err := s.repo.Save(ctx, task); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: no task with ID %d", ErrNotFound, id)
		}
		log.Printf("Error saving task %d in repository: %v", id, err)
		return nil, fmt.Errorf("%w: save task %d", ErrStorageFailure, id)
	}
	return task, nil
}

func (s *taskService) GetBoard(ctx context.Context) (*TaskBoard, error) {
	pending, err := s.repo.ListByStatus(ctx, false)
	if err != nil {
		log.Printf("Error listing pending tasks: %v", err)
		return nil, fmt.Errorf("%w: list pending tasks", ErrStorageFailure)
	}
	completed, err := s.repo.ListByStatus(ctx, true)
	if err != nil {
		log.Printf("Error listing completed tasks: %v", err)
		return nil, fmt.Errorf("%w: list completed tasks", ErrStorageFailure)
	}
	return &TaskBoard{Pending: pending, Completed: completed}, nil
}
