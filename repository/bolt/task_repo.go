package bolt

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"

	"github.com/fastygo/tasktimer/domain"
	"github.com/fastygo/tasktimer/repository"
)

// TaskRepository persists tasks as JSON values in a single BoltDB bucket keyed by id.
type TaskRepository struct {
	db     *bolt.DB
	bucket []byte
}

// Open initializes the BoltDB file and ensures the bucket exists.
func Open(path string, bucket string) (*TaskRepository, error) {
	if bucket == "" {
		bucket = "tasks"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}

	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucket))
		return err
	}); err != nil {
		db.Close()
		return nil, err
	}

	return &TaskRepository{
		db:     db,
		bucket: []byte(bucket),
	}, nil
}

func (r *TaskRepository) Add(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	if task == nil {
		return nil, domain.ErrInvalidPayload
	}
	if r == nil || r.db == nil {
		return nil, bolt.ErrDatabaseNotOpen
	}
	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	payload, err := json.Marshal(task)
	if err != nil {
		return nil, err
	}

	err = r.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(r.bucket)
		if b.Get([]byte(task.ID)) != nil {
			return domain.ErrTaskExists
		}
		return b.Put([]byte(task.ID), payload)
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

func (r *TaskRepository) List(ctx context.Context) ([]domain.Task, error) {
	if r == nil || r.db == nil {
		return nil, bolt.ErrDatabaseNotOpen
	}
	tasks := []domain.Task{}
	err := r.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(r.bucket).ForEach(func(_, v []byte) error {
			var task domain.Task
			if err := json.Unmarshal(v, &task); err != nil {
				return err
			}
			tasks = append(tasks, task)
			return nil
		})
	})
	return tasks, err
}

func (r *TaskRepository) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	if r == nil || r.db == nil {
		return nil, bolt.ErrDatabaseNotOpen
	}
	var task *domain.Task
	err := r.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(r.bucket).Get([]byte(id))
		if v == nil {
			return domain.ErrTaskNotFound
		}
		task = &domain.Task{}
		return json.Unmarshal(v, task)
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

// Update replaces the record stored under id.
func (r *TaskRepository) Update(ctx context.Context, id string, task *domain.Task) error {
	if task == nil {
		return domain.ErrInvalidPayload
	}
	if r == nil || r.db == nil {
		return bolt.ErrDatabaseNotOpen
	}
	record := *task
	record.ID = id
	payload, err := json.Marshal(record)
	if err != nil {
		return err
	}
	return r.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(r.bucket)
		if b.Get([]byte(id)) == nil {
			return domain.ErrTaskNotFound
		}
		return b.Put([]byte(id), payload)
	})
}

func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	if r == nil || r.db == nil {
		return bolt.ErrDatabaseNotOpen
	}
	return r.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(r.bucket).Delete([]byte(id))
	})
}

// Ping verifies the bucket is still readable.
func (r *TaskRepository) Ping(ctx context.Context) error {
	if r == nil || r.db == nil {
		return bolt.ErrDatabaseNotOpen
	}
	return r.db.View(func(tx *bolt.Tx) error {
		if tx.Bucket(r.bucket) == nil {
			return bolt.ErrBucketNotFound
		}
		return nil
	})
}

// Close closes the Bolt database.
func (r *TaskRepository) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

// Stats exposes Bolt statistics for the health endpoint.
func (r *TaskRepository) Stats() bolt.Stats {
	if r == nil || r.db == nil {
		return bolt.Stats{}
	}
	return r.db.Stats()
}

var _ repository.TaskRepository = (*TaskRepository)(nil)
