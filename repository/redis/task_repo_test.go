package redis

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	redislib "github.com/redis/go-redis/v9"

	"github.com/fastygo/tasktimer/repository"
	"github.com/fastygo/tasktimer/repository/repotest"
)

func setupTestRedis(t *testing.T) *redislib.Client {
	mr := miniredis.RunT(t)
	client := redislib.NewClient(&redislib.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() { client.Close() })
	return client
}

func TestTaskRepository_Contract(t *testing.T) {
	repotest.RunContract(t, func(t *testing.T) repository.TaskRepository {
		return NewTaskRepository(setupTestRedis(t), "test:")
	})
}

func TestTaskRepository_KeyLayout(t *testing.T) {
	client := setupTestRedis(t)
	repo := NewTaskRepository(client, "")

	repo.Delete(t.Context(), "missing")
	if n, err := client.Exists(t.Context(), "tasktimer:task:missing").Result(); err != nil || n != 0 {
		t.Errorf("Exists() = %d, %v", n, err)
	}
	if err := client.SAdd(t.Context(), "tasktimer:tasks", "orphan").Err(); err != nil {
		t.Fatalf("SAdd() error = %v", err)
	}
	tasks, err := repo.List(t.Context())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(tasks) != 0 {
		t.Errorf("List() = %d tasks, want orphan index entries skipped", len(tasks))
	}
}
