package memory

import (
	"testing"

	"github.com/fastygo/tasktimer/repository"
	"github.com/fastygo/tasktimer/repository/repotest"
)

func TestTaskRepository_Contract(t *testing.T) {
	repotest.RunContract(t, func(t *testing.T) repository.TaskRepository {
		return NewTaskRepository()
	})
}
