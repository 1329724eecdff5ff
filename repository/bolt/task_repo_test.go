package bolt

import (
	"path/filepath"
	"testing"

	"github.com/fastygo/tasktimer/domain"
	"github.com/fastygo/tasktimer/repository"
	"github.com/fastygo/tasktimer/repository/repotest"
)

func TestTaskRepository_Contract(t *testing.T) {
	repotest.RunContract(t, func(t *testing.T) repository.TaskRepository {
		repo, err := Open(filepath.Join(t.TempDir(), "data", "tasks.db"), "")
		if err != nil {
			t.Fatalf("Open() error = %v", err)
		}
		t.Cleanup(func() { repo.Close() })
		return repo
	})
}

func TestTaskRepository_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.db")

	repo, err := Open(path, "tasks")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if _, err := repo.Add(t.Context(), &domain.Task{ID: "kept", Name: "n", Description: "d"}); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if err := repo.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	reopened, err := Open(path, "tasks")
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer reopened.Close()

	if _, err := reopened.GetByID(t.Context(), "kept"); err != nil {
		t.Errorf("GetByID() after reopen error = %v", err)
	}
}
