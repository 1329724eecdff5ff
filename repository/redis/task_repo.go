package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	redislib "github.com/redis/go-redis/v9"

	"github.com/fastygo/tasktimer/domain"
	"github.com/fastygo/tasktimer/repository"
)

type taskRepository struct {
	client *redislib.Client
	prefix string
}

// NewTaskRepository creates a Redis-backed task repository. Each task is a
// JSON string under <prefix>task:<id>; ids are indexed in the <prefix>tasks set.
func NewTaskRepository(client *redislib.Client, prefix string) repository.TaskRepository {
	if prefix == "" {
		prefix = "tasktimer:"
	}
	return &taskRepository{
		client: client,
		prefix: prefix,
	}
}

func (r *taskRepository) Add(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	if task == nil {
		return nil, domain.ErrInvalidPayload
	}
	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	payload, err := json.Marshal(task)
	if err != nil {
		return nil, err
	}

	ok, err := r.client.SetNX(ctx, r.key(task.ID), payload, 0).Result()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrTaskExists
	}
	if err := r.client.SAdd(ctx, r.indexKey(), task.ID).Err(); err != nil {
		return nil, err
	}
	return task, nil
}

func (r *taskRepository) List(ctx context.Context) ([]domain.Task, error) {
	ids, err := r.client.SMembers(ctx, r.indexKey()).Result()
	if err != nil {
		return nil, err
	}
	tasks := make([]domain.Task, 0, len(ids))
	if len(ids) == 0 {
		return tasks, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = r.key(id)
	}
	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}
	for _, v := range values {
		raw, ok := v.(string)
		if !ok {
			// index entry without a record; skip it
			continue
		}
		var task domain.Task
		if err := json.Unmarshal([]byte(raw), &task); err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}

func (r *taskRepository) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	result, err := r.client.Get(ctx, r.key(id)).Result()
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, err
	}

	var task domain.Task
	if err := json.Unmarshal([]byte(result), &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *taskRepository) Update(ctx context.Context, id string, task *domain.Task) error {
	if task == nil {
		return domain.ErrInvalidPayload
	}
	record := *task
	record.ID = id
	payload, err := json.Marshal(record)
	if err != nil {
		return err
	}

	ok, err := r.client.SetXX(ctx, r.key(id), payload, 0).Result()
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrTaskNotFound
	}
	return nil
}

func (r *taskRepository) Delete(ctx context.Context, id string) error {
	_, err := r.client.TxPipelined(ctx, func(pipe redislib.Pipeliner) error {
		pipe.Del(ctx, r.key(id))
		pipe.SRem(ctx, r.indexKey(), id)
		return nil
	})
	return err
}

func (r *taskRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *taskRepository) key(id string) string {
	return fmt.Sprintf("%stask:%s", r.prefix, id)
}

func (r *taskRepository) indexKey() string {
	return r.prefix + "tasks"
}
