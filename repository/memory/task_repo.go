package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/fastygo/tasktimer/domain"
	"github.com/fastygo/tasktimer/repository"
)

// TaskRepository keeps tasks in process memory. It is the fallback used when
// no durable store can be opened; nothing survives a restart.
type TaskRepository struct {
	mu    sync.RWMutex
	tasks map[string]domain.Task
}

func NewTaskRepository() *TaskRepository {
	return &TaskRepository{tasks: make(map[string]domain.Task)}
}

func (r *TaskRepository) Add(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	if task == nil {
		return nil, domain.ErrInvalidPayload
	}
	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tasks[task.ID]; ok {
		return nil, domain.ErrTaskExists
	}
	r.tasks[task.ID] = task.Clone()
	return task, nil
}

func (r *TaskRepository) List(ctx context.Context) ([]domain.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tasks := make([]domain.Task, 0, len(r.tasks))
	for _, task := range r.tasks {
		tasks = append(tasks, task.Clone())
	}
	return tasks, nil
}

func (r *TaskRepository) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	task, ok := r.tasks[id]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	out := task.Clone()
	return &out, nil
}

func (r *TaskRepository) Update(ctx context.Context, id string, task *domain.Task) error {
	if task == nil {
		return domain.ErrInvalidPayload
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tasks[id]; !ok {
		return domain.ErrTaskNotFound
	}
	record := task.Clone()
	record.ID = id
	r.tasks[id] = record
	return nil
}

func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	delete(r.tasks, id)
	r.mu.Unlock()
	return nil
}

func (r *TaskRepository) Ping(ctx context.Context) error {
	return nil
}

var _ repository.TaskRepository = (*TaskRepository)(nil)
