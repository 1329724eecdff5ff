package task

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fastygo/tasktimer/domain"
	"github.com/fastygo/tasktimer/pkg/clock"
	"github.com/fastygo/tasktimer/repository"
)

// MaxTags caps the number of tags per task.
const MaxTags = 8

type AddTaskInput struct {
	Name        string   `json:"name" validate:"required"`
	Description string   `json:"description" validate:"required"`
	Tags        []string `json:"tags" validate:"max=8,unique,dive,required,max=32"`
	DailyTime   int      `json:"daily_time" validate:"min=1,max=24"`
}

// EditTaskInput patches the descriptive fields of a task.
type EditTaskInput struct {
	ID          string   `json:"id" validate:"required"`
	Name        string   `json:"name" validate:"required"`
	Description string   `json:"description" validate:"required"`
	Tags        []string `json:"tags" validate:"max=8,unique,dive,required,max=32"`
	DailyTime   int      `json:"daily_time" validate:"min=1,max=24"`
}

// UpdateTaskInput is the full state write issued by the session controller.
type UpdateTaskInput struct {
	ID          string
	Name        string
	Description string
	Status      domain.TaskStatus
	ElapsedTime int64
	DailyTime   int
	Tags        []string
	DailyTasks  []domain.DailyTask
}

type UseCase struct {
	tasks    repository.TaskRepository
	clock    clock.Clock
	validate *validator.Validate
	logger   *zap.Logger
}

func New(tasks repository.TaskRepository, clk clock.Clock, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	if clk == nil {
		clk = clock.System
	}
	return &UseCase{
		tasks:    tasks,
		clock:    clk,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   logger,
	}
}

// Add creates a pending task with no recorded time.
func (uc *UseCase) Add(ctx context.Context, input AddTaskInput) (*TaskView, error) {
	if err := uc.validate.Struct(input); err != nil {
		return nil, domain.WrapError(domain.ErrCodeInvalid, "invalid task", err)
	}
	now := uc.clock.Now()
	created, err := uc.tasks.Add(ctx, &domain.Task{
		ID:          uuid.NewString(),
		Name:        input.Name,
		Description: input.Description,
		Status:      domain.StatusPending,
		ElapsedTime: 0,
		StartedAt:   0,
		DailyTime:   input.DailyTime,
		Tags:        copyTags(input.Tags),
		DailyTasks:  []domain.DailyTask{},
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return nil, fmt.Errorf("add task: %w", err)
	}
	uc.logger.Debug("task created", zap.String("task_id", created.ID))
	return NewView(created, now), nil
}

// List returns every task, most recently updated first.
func (uc *UseCase) List(ctx context.Context) ([]TaskView, error) {
	tasks, err := uc.tasks.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].UpdatedAt.After(tasks[j].UpdatedAt)
	})
	now := uc.clock.Now()
	views := make([]TaskView, 0, len(tasks))
	for i := range tasks {
		views = append(views, *NewView(&tasks[i], now))
	}
	return views, nil
}

func (uc *UseCase) Get(ctx context.Context, id string) (*TaskView, error) {
	task, err := uc.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return NewView(task, uc.clock.Now()), nil
}

// Update writes the session state of a task. StartedAt is re-anchored to now
// whenever the written status is InProgress, because ElapsedTime already
// covers everything up to now; it is cleared for every other status.
func (uc *UseCase) Update(ctx context.Context, input UpdateTaskInput) (*TaskView, error) {
	if !input.Status.Valid() {
		return nil, domain.WrapError(domain.ErrCodeInvalid, "invalid status", fmt.Errorf("%q", input.Status))
	}
	current, err := uc.tasks.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	now := uc.clock.Now()
	var startedAt int64
	if input.Status == domain.StatusInProgress {
		startedAt = clock.Millis(now)
	}
	dailyTasks := input.DailyTasks
	if dailyTasks == nil {
		dailyTasks = []domain.DailyTask{}
	}

	next := &domain.Task{
		ID:          input.ID,
		Name:        input.Name,
		Description: input.Description,
		Status:      input.Status,
		ElapsedTime: input.ElapsedTime,
		StartedAt:   startedAt,
		DailyTime:   input.DailyTime,
		Tags:        copyTags(input.Tags),
		DailyTasks:  dailyTasks,
		CreatedAt:   current.CreatedAt,
		UpdatedAt:   now,
	}
	if err := uc.tasks.Update(ctx, input.ID, next); err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}
	return NewView(next, now), nil
}

// Edit patches name, description, tags and daily time. Time accounting
// fields are carried over untouched; only UpdatedAt is refreshed.
func (uc *UseCase) Edit(ctx context.Context, input EditTaskInput) (*TaskView, error) {
	if err := uc.validate.Struct(input); err != nil {
		return nil, domain.WrapError(domain.ErrCodeInvalid, "invalid task", err)
	}
	current, err := uc.tasks.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	now := uc.clock.Now()
	next := current.Clone()
	next.Name = input.Name
	next.Description = input.Description
	next.Tags = copyTags(input.Tags)
	next.DailyTime = input.DailyTime
	next.UpdatedAt = now

	if err := uc.tasks.Update(ctx, input.ID, &next); err != nil {
		return nil, fmt.Errorf("edit task: %w", err)
	}
	return NewView(&next, now), nil
}

// Delete removes a task; unknown ids are not an error.
func (uc *UseCase) Delete(ctx context.Context, id string) error {
	if err := uc.tasks.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}

// Entity loads the raw persisted record.
func (uc *UseCase) Entity(ctx context.Context, id string) (*domain.Task, error) {
	return uc.tasks.GetByID(ctx, id)
}

// Entities returns every raw persisted record, most recently updated first.
func (uc *UseCase) Entities(ctx context.Context) ([]domain.Task, error) {
	tasks, err := uc.tasks.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].UpdatedAt.After(tasks[j].UpdatedAt)
	})
	return tasks, nil
}

// Now exposes the use case clock to collaborators sharing it.
func (uc *UseCase) Now() time.Time {
	return uc.clock.Now()
}

func copyTags(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return append([]string(nil), tags...)
}
