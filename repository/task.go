package repository

import (
	"context"

	"github.com/fastygo/tasktimer/domain"
)

// TaskRepository is the task record store. Implementations return
// domain.ErrTaskNotFound from GetByID/Update for unknown ids, return
// domain.ErrTaskExists from Add on duplicates, and treat Delete of an unknown
// id as success. List order is unspecified.
type TaskRepository interface {
	Add(ctx context.Context, task *domain.Task) (*domain.Task, error)
	List(ctx context.Context) ([]domain.Task, error)
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	Update(ctx context.Context, id string, task *domain.Task) error
	Delete(ctx context.Context, id string) error
	Ping(ctx context.Context) error
}
