package task

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/fastygo/tasktimer/domain"
	"github.com/fastygo/tasktimer/pkg/clock"
	"github.com/fastygo/tasktimer/repository/memory"
)

func newTestUseCase() (*UseCase, *clock.Manual) {
	c := clock.NewManual(time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC))
	return New(memory.NewTaskRepository(), c, nil), c
}

func validInput() AddTaskInput {
	return AddTaskInput{Name: "Write report", Description: "Q1 numbers", Tags: []string{"work"}, DailyTime: 2}
}

func TestUseCase_Add(t *testing.T) {
	uc, c := newTestUseCase()
	ctx := context.Background()

	view, err := uc.Add(ctx, validInput())
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if view.ID == "" {
		t.Error("expected an id")
	}
	if view.Status != domain.StatusPending || view.ElapsedTimeInMilliseconds != 0 || view.StartedTimeInMilliseconds != 0 {
		t.Errorf("unexpected initial state: %+v", view)
	}
	if len(view.DailyTasks) != 0 {
		t.Errorf("DailyTasks = %v, want empty", view.DailyTasks)
	}
	if view.ElapsedTime != "00:00:00" {
		t.Errorf("ElapsedTime = %q", view.ElapsedTime)
	}
	if view.CreatedAt != "10/03/2025 09:00" {
		t.Errorf("CreatedAt = %q", view.CreatedAt)
	}
	if !view.UpdatedAtDate.Equal(c.Now()) {
		t.Errorf("UpdatedAtDate = %v, want %v", view.UpdatedAtDate, c.Now())
	}
}

func TestUseCase_AddValidation(t *testing.T) {
	tooMany := make([]string, MaxTags+1)
	for i := range tooMany {
		tooMany[i] = strings.Repeat("t", i+1)
	}

	tests := []struct {
		name   string
		mutate func(*AddTaskInput)
	}{
		{name: "empty name", mutate: func(in *AddTaskInput) { in.Name = "" }},
		{name: "empty description", mutate: func(in *AddTaskInput) { in.Description = "" }},
		{name: "daily time zero", mutate: func(in *AddTaskInput) { in.DailyTime = 0 }},
		{name: "daily time above 24", mutate: func(in *AddTaskInput) { in.DailyTime = 25 }},
		{name: "too many tags", mutate: func(in *AddTaskInput) { in.Tags = tooMany }},
		{name: "duplicate tags", mutate: func(in *AddTaskInput) { in.Tags = []string{"a", "a"} }},
		{name: "empty tag", mutate: func(in *AddTaskInput) { in.Tags = []string{""} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, _ := newTestUseCase()
			in := validInput()
			tt.mutate(&in)
			_, err := uc.Add(context.Background(), in)
			if !domain.IsDomainError(err, domain.ErrCodeInvalid) {
				t.Fatalf("Add() error = %v, want INVALID", err)
			}
			list, _ := uc.List(context.Background())
			if len(list) != 0 {
				t.Error("validation failure must not persist anything")
			}
		})
	}
}

func TestUseCase_ListSortsByUpdatedAtDesc(t *testing.T) {
	uc, c := newTestUseCase()
	ctx := context.Background()

	var ids []string
	for _, name := range []string{"first", "second", "third"} {
		in := validInput()
		in.Name = name
		v, err := uc.Add(ctx, in)
		if err != nil {
			t.Fatalf("Add() error = %v", err)
		}
		ids = append(ids, v.ID)
		c.Advance(time.Minute)
	}

	// touching the first task moves it to the top
	if _, err := uc.Edit(ctx, EditTaskInput{ID: ids[0], Name: "first!", Description: "d", DailyTime: 1}); err != nil {
		t.Fatalf("Edit() error = %v", err)
	}

	list, err := uc.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	got := []string{list[0].ID, list[1].ID, list[2].ID}
	want := []string{ids[0], ids[2], ids[1]}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestUseCase_UpdateAnchorsStartedAt(t *testing.T) {
	uc, c := newTestUseCase()
	ctx := context.Background()
	v, _ := uc.Add(ctx, validInput())

	c.Advance(time.Minute)
	started, err := uc.Update(ctx, UpdateTaskInput{
		ID: v.ID, Name: v.Name, Description: v.Description,
		Status: domain.StatusInProgress, ElapsedTime: 0, DailyTime: 2, Tags: v.Tags,
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if started.StartedTimeInMilliseconds != clock.Millis(c.Now()) {
		t.Errorf("StartedTimeInMilliseconds = %d, want %d", started.StartedTimeInMilliseconds, clock.Millis(c.Now()))
	}

	c.Advance(time.Minute)
	paused, err := uc.Update(ctx, UpdateTaskInput{
		ID: v.ID, Name: v.Name, Description: v.Description,
		Status: domain.StatusPaused, ElapsedTime: 60000, DailyTime: 2, Tags: v.Tags,
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if paused.StartedTimeInMilliseconds != 0 {
		t.Errorf("paused StartedTimeInMilliseconds = %d, want 0", paused.StartedTimeInMilliseconds)
	}
	if paused.ElapsedTimeInMilliseconds != 60000 {
		t.Errorf("ElapsedTimeInMilliseconds = %d", paused.ElapsedTimeInMilliseconds)
	}

	entity, _ := uc.Entity(ctx, v.ID)
	if !entity.CreatedAt.Equal(time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)) {
		t.Errorf("CreatedAt changed to %v", entity.CreatedAt)
	}
}

func TestUseCase_UpdateMissingIsHardError(t *testing.T) {
	uc, _ := newTestUseCase()
	_, err := uc.Update(context.Background(), UpdateTaskInput{ID: "ghost", Status: domain.StatusPaused})
	if !errors.Is(err, domain.ErrTaskNotFound) {
		t.Errorf("Update() error = %v, want ErrTaskNotFound", err)
	}
}

func TestUseCase_EditLeavesTimeAccountingAlone(t *testing.T) {
	uc, c := newTestUseCase()
	ctx := context.Background()
	v, _ := uc.Add(ctx, validInput())

	bucket := domain.DailyTask{TaskDate: time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC), ElapsedTime: 1000}
	if _, err := uc.Update(ctx, UpdateTaskInput{
		ID: v.ID, Name: v.Name, Description: v.Description, Status: domain.StatusInProgress,
		ElapsedTime: 4321, DailyTime: 2, Tags: v.Tags, DailyTasks: []domain.DailyTask{bucket},
	}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	before, _ := uc.Entity(ctx, v.ID)

	c.Advance(time.Hour)
	edited, err := uc.Edit(ctx, EditTaskInput{ID: v.ID, Name: "Renamed", Description: "new", Tags: []string{"home"}, DailyTime: 4})
	if err != nil {
		t.Fatalf("Edit() error = %v", err)
	}
	after, _ := uc.Entity(ctx, v.ID)

	if edited.Name != "Renamed" || after.DailyTime != 4 || after.Tags[0] != "home" {
		t.Errorf("edit not applied: %+v", after)
	}
	if after.ElapsedTime != before.ElapsedTime || after.StartedAt != before.StartedAt ||
		after.Status != before.Status || len(after.DailyTasks) != 1 {
		t.Errorf("time accounting changed: before=%+v after=%+v", before, after)
	}
	if !after.UpdatedAt.Equal(c.Now()) {
		t.Errorf("UpdatedAt = %v, want %v", after.UpdatedAt, c.Now())
	}
}

func TestUseCase_DeleteUnknownIsNotAnError(t *testing.T) {
	uc, _ := newTestUseCase()
	if err := uc.Delete(context.Background(), "nobody"); err != nil {
		t.Errorf("Delete() error = %v", err)
	}
}

func TestRelative(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		ago  time.Duration
		want string
	}{
		{10 * time.Second, "a few seconds ago"},
		{time.Minute, "a minute ago"},
		{10 * time.Minute, "10 minutes ago"},
		{time.Hour, "an hour ago"},
		{5 * time.Hour, "5 hours ago"},
		{24 * time.Hour, "a day ago"},
		{3 * 24 * time.Hour, "3 days ago"},
	}
	for _, tt := range tests {
		if got := relative(now, now.Add(-tt.ago)); got != tt.want {
			t.Errorf("relative(-%v) = %q, want %q", tt.ago, got, tt.want)
		}
	}
}
