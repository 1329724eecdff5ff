package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fastygo/tasktimer/domain"
	"github.com/fastygo/tasktimer/repository"
)

const uniqueViolation = "23505"

type taskRepository struct {
	pool *pgxpool.Pool
}

// NewTaskRepository returns a Postgres-backed implementation of TaskRepository.
func NewTaskRepository(pool *pgxpool.Pool) repository.TaskRepository {
	return &taskRepository{pool: pool}
}

const taskColumns = `id, name, description, status, elapsed_time, started_at, daily_time, tags, daily_tasks, created_at, updated_at`

func (r *taskRepository) Add(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	if task == nil {
		return nil, domain.ErrInvalidPayload
	}
	if task.ID == "" {
		task.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO tasks (` + taskColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	tags, dailyTasks, err := marshalCollections(task)
	if err != nil {
		return nil, err
	}

	if _, err := r.pool.Exec(ctx, query,
		task.ID,
		task.Name,
		task.Description,
		string(task.Status),
		task.ElapsedTime,
		task.StartedAt,
		task.DailyTime,
		tags,
		dailyTasks,
		task.CreatedAt,
		task.UpdatedAt,
	); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, domain.ErrTaskExists
		}
		return nil, err
	}
	return task, nil
}

func (r *taskRepository) List(ctx context.Context) ([]domain.Task, error) {
	const query = `SELECT ` + taskColumns + ` FROM tasks`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := []domain.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}
	return tasks, rows.Err()
}

func (r *taskRepository) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	const query = `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`
	return scanTask(r.pool.QueryRow(ctx, query, id))
}

func (r *taskRepository) Update(ctx context.Context, id string, task *domain.Task) error {
	if task == nil {
		return domain.ErrInvalidPayload
	}

	const query = `
	UPDATE tasks
	SET name = $2,
		description = $3,
		status = $4,
		elapsed_time = $5,
		started_at = $6,
		daily_time = $7,
		tags = $8,
		daily_tasks = $9,
		created_at = $10,
		updated_at = $11
	WHERE id = $1
	`
	tags, dailyTasks, err := marshalCollections(task)
	if err != nil {
		return err
	}

	tag, err := r.pool.Exec(ctx, query,
		id,
		task.Name,
		task.Description,
		string(task.Status),
		task.ElapsedTime,
		task.StartedAt,
		task.DailyTime,
		tags,
		dailyTasks,
		task.CreatedAt,
		task.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func (r *taskRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM tasks WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, id)
	return err
}

func (r *taskRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

func scanTask(row pgx.Row) (*domain.Task, error) {
	var (
		task       domain.Task
		status     string
		tags       []byte
		dailyTasks []byte
	)

	if err := row.Scan(
		&task.ID,
		&task.Name,
		&task.Description,
		&status,
		&task.ElapsedTime,
		&task.StartedAt,
		&task.DailyTime,
		&tags,
		&dailyTasks,
		&task.CreatedAt,
		&task.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, err
	}

	task.Status = domain.TaskStatus(status)
	if err := unmarshalCollections(&task, tags, dailyTasks); err != nil {
		return nil, err
	}
	return &task, nil
}
