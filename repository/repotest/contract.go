// Package repotest holds the behaviour every repository.TaskRepository must share.
package repotest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fastygo/tasktimer/domain"
	"github.com/fastygo/tasktimer/repository"
)

func sampleTask(id string) *domain.Task {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	return &domain.Task{
		ID:          id,
		Name:        "Write report",
		Description: "quarterly numbers",
		Status:      domain.StatusPending,
		DailyTime:   2,
		Tags:        []string{"work"},
		DailyTasks:  []domain.DailyTask{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// RunContract exercises repo against the TaskRepository contract.
func RunContract(t *testing.T, newRepo func(t *testing.T) repository.TaskRepository) {
	t.Helper()
	ctx := context.Background()

	t.Run("add and get", func(t *testing.T) {
		repo := newRepo(t)
		if _, err := repo.Add(ctx, sampleTask("a")); err != nil {
			t.Fatalf("Add() error = %v", err)
		}
		got, err := repo.GetByID(ctx, "a")
		if err != nil {
			t.Fatalf("GetByID() error = %v", err)
		}
		if got.Name != "Write report" || got.DailyTime != 2 || len(got.Tags) != 1 || got.Tags[0] != "work" {
			t.Errorf("GetByID() = %+v", got)
		}
		if !got.UpdatedAt.Equal(sampleTask("a").UpdatedAt) {
			t.Errorf("UpdatedAt = %v, want %v", got.UpdatedAt, sampleTask("a").UpdatedAt)
		}
	})

	t.Run("add assigns id", func(t *testing.T) {
		repo := newRepo(t)
		task, err := repo.Add(ctx, sampleTask(""))
		if err != nil {
			t.Fatalf("Add() error = %v", err)
		}
		if task.ID == "" {
			t.Error("expected generated id")
		}
	})

	t.Run("duplicate add fails", func(t *testing.T) {
		repo := newRepo(t)
		if _, err := repo.Add(ctx, sampleTask("dup")); err != nil {
			t.Fatalf("Add() error = %v", err)
		}
		if _, err := repo.Add(ctx, sampleTask("dup")); !errors.Is(err, domain.ErrTaskExists) {
			t.Errorf("second Add() error = %v, want ErrTaskExists", err)
		}
	})

	t.Run("get missing", func(t *testing.T) {
		repo := newRepo(t)
		if _, err := repo.GetByID(ctx, "missing"); !errors.Is(err, domain.ErrTaskNotFound) {
			t.Errorf("GetByID() error = %v, want ErrTaskNotFound", err)
		}
	})

	t.Run("update replaces record", func(t *testing.T) {
		repo := newRepo(t)
		if _, err := repo.Add(ctx, sampleTask("u")); err != nil {
			t.Fatalf("Add() error = %v", err)
		}
		next := sampleTask("ignored")
		next.Status = domain.StatusPaused
		next.ElapsedTime = 4200
		next.DailyTasks = []domain.DailyTask{{TaskDate: next.CreatedAt, ElapsedTime: 100}}
		if err := repo.Update(ctx, "u", next); err != nil {
			t.Fatalf("Update() error = %v", err)
		}
		got, err := repo.GetByID(ctx, "u")
		if err != nil {
			t.Fatalf("GetByID() error = %v", err)
		}
		if got.ID != "u" || got.Status != domain.StatusPaused || got.ElapsedTime != 4200 || len(got.DailyTasks) != 1 {
			t.Errorf("GetByID() after update = %+v", got)
		}
	})

	t.Run("update missing", func(t *testing.T) {
		repo := newRepo(t)
		if err := repo.Update(ctx, "nope", sampleTask("nope")); !errors.Is(err, domain.ErrTaskNotFound) {
			t.Errorf("Update() error = %v, want ErrTaskNotFound", err)
		}
	})

	t.Run("list and delete", func(t *testing.T) {
		repo := newRepo(t)
		for _, id := range []string{"x", "y", "z"} {
			if _, err := repo.Add(ctx, sampleTask(id)); err != nil {
				t.Fatalf("Add(%s) error = %v", id, err)
			}
		}
		if err := repo.Delete(ctx, "y"); err != nil {
			t.Fatalf("Delete() error = %v", err)
		}
		if err := repo.Delete(ctx, "never-existed"); err != nil {
			t.Errorf("Delete() of unknown id error = %v", err)
		}
		tasks, err := repo.List(ctx)
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(tasks) != 2 {
			t.Fatalf("len(List()) = %d, want 2", len(tasks))
		}
		for _, task := range tasks {
			if task.ID == "y" {
				t.Error("deleted task still listed")
			}
		}
	})

	t.Run("ping", func(t *testing.T) {
		if err := newRepo(t).Ping(ctx); err != nil {
			t.Errorf("Ping() error = %v", err)
		}
	})
}
