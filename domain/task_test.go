package domain

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestTaskStatus_CanTransition(t *testing.T) {
	tests := []struct {
		from TaskStatus
		to   TaskStatus
		want bool
	}{
		{StatusPending, StatusInProgress, true},
		{StatusPending, StatusPaused, false},
		{StatusPending, StatusCompleted, false},
		{StatusInProgress, StatusPaused, true},
		{StatusInProgress, StatusCompleted, true},
		{StatusInProgress, StatusInProgress, true},
		{StatusPaused, StatusInProgress, true},
		{StatusPaused, StatusCompleted, true},
		{StatusPaused, StatusPaused, false},
		{StatusCompleted, StatusInProgress, false},
		{StatusCompleted, StatusPaused, false},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s->%s", tt.from, tt.to), func(t *testing.T) {
			if got := tt.from.CanTransition(tt.to); got != tt.want {
				t.Errorf("CanTransition() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTask_LifetimeElapsed(t *testing.T) {
	task := &Task{
		ElapsedTime: 500,
		DailyTasks: []DailyTask{
			{ElapsedTime: 1000},
			{ElapsedTime: 2500},
		},
	}
	if got := task.LifetimeElapsed(); got != 4000 {
		t.Errorf("LifetimeElapsed() = %d, want 4000", got)
	}
}

func TestCloseBucketIfDayChanged(t *testing.T) {
	loc := time.UTC
	yesterday := time.Date(2025, 3, 9, 17, 30, 0, 0, loc)
	base := Task{ID: "t1", ElapsedTime: 5000, UpdatedAt: yesterday}

	t.Run("later day closes bucket", func(t *testing.T) {
		now := time.Date(2025, 3, 10, 8, 0, 0, 0, loc)
		r := CloseBucketIfDayChanged(base, 5000, 1200, now, loc)
		if !r.Closed() {
			t.Fatal("expected bucket to be closed")
		}
		want := DailyTask{TaskDate: time.Date(2025, 3, 9, 0, 0, 0, 0, loc), ElapsedTime: 3800}
		if !r.Bucket.TaskDate.Equal(want.TaskDate) || r.Bucket.ElapsedTime != want.ElapsedTime {
			t.Errorf("bucket = %+v, want %+v", *r.Bucket, want)
		}
		if len(r.Task.DailyTasks) != 1 {
			t.Errorf("len(DailyTasks) = %d, want 1", len(r.Task.DailyTasks))
		}
		if len(base.DailyTasks) != 0 {
			t.Error("input task must not be mutated")
		}
	})

	t.Run("same day keeps tasks", func(t *testing.T) {
		now := time.Date(2025, 3, 9, 23, 59, 0, 0, loc)
		r := CloseBucketIfDayChanged(base, 5000, 0, now, loc)
		if r.Closed() || len(r.Task.DailyTasks) != 0 {
			t.Errorf("unexpected bucket %+v", r.Bucket)
		}
	})

	t.Run("calendar day not rolling window", func(t *testing.T) {
		late := base
		late.UpdatedAt = time.Date(2025, 3, 9, 23, 59, 0, 0, loc)
		now := time.Date(2025, 3, 10, 0, 1, 0, 0, loc)
		if r := CloseBucketIfDayChanged(late, 10, 0, now, loc); !r.Closed() {
			t.Error("expected midnight crossing to close the bucket")
		}
	})

	t.Run("uses location for day boundary", func(t *testing.T) {
		tz := time.FixedZone("UTC-5", -5*3600)
		// 03:00 UTC on the 10th is still the 9th in UTC-5.
		updated := time.Date(2025, 3, 9, 20, 0, 0, 0, time.UTC)
		now := time.Date(2025, 3, 10, 3, 0, 0, 0, time.UTC)
		task := base
		task.UpdatedAt = updated
		if r := CloseBucketIfDayChanged(task, 10, 0, now, tz); r.Closed() {
			t.Error("expected same local day in UTC-5")
		}
		if r := CloseBucketIfDayChanged(task, 10, 0, now, time.UTC); !r.Closed() {
			t.Error("expected a new day in UTC")
		}
	})
}

func TestErrorIs(t *testing.T) {
	wrapped := fmt.Errorf("load: %w", ErrTaskNotFound)
	if !errors.Is(wrapped, ErrTaskNotFound) {
		t.Error("errors.Is should match the wrapped sentinel")
	}
	if !IsDomainError(wrapped, ErrCodeNotFound) {
		t.Error("IsDomainError should report NOT_FOUND")
	}
	if errors.Is(wrapped, ErrTaskExists) {
		t.Error("unexpected match against a different sentinel")
	}
}
