// Package repotest provides an in-memory TaskRepository for tests.
package repotest

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/Tomlord1122/get-it-done/internal/domain"
	"github.com/Tomlord1122/get-it-done/internal/repository"
)

// Memory is a TaskRepository backed by a map. Setting Err makes every
// call fail with it.
type Memory struct {
	mu     sync.Mutex
	tasks  map[uint]domain.Task
	nextID uint

	Err error
}

var _ repository.TaskRepository = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{tasks: make(map[uint]domain.Task), nextID: 1}
}

func (m *Memory) Create(_ context.Context, task *domain.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	task.ID = m.nextID
	task.Completed = false
	m.nextID++
	m.tasks[task.ID] = *task
	return nil
}

func (m *Memory) FindByID(_ context.Context, id uint) (*domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	t, ok := m.tasks[id]
	if !ok {
		return nil, fmt.Errorf("task %d: %w", id, repository.ErrNotFound)
	}
	return &t, nil
}

func (m *Memory) ListByStatus(_ context.Context, completed bool) ([]domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	out := []domain.Task{}
	for _, t := range m.tasks {
		if t.Completed == completed {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *Memory) Save(_ context.Context, task *domain.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	if _, ok := m.tasks[task.ID]; !ok {
		return fmt.Errorf("task %d: %w", task.ID, repository.ErrNotFound)
	}
	m.tasks[task.ID] = *task
	return nil
}
