package postgres

import (
	"testing"
	"time"

	"github.com/fastygo/tasktimer/domain"
)

func TestCollectionsRoundTrip(t *testing.T) {
	day := time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC)
	in := &domain.Task{
		Tags:       []string{"work", "q1"},
		DailyTasks: []domain.DailyTask{{TaskDate: day, ElapsedTime: 3600000}},
	}

	tags, daily, err := marshalCollections(in)
	if err != nil {
		t.Fatalf("marshalCollections() error = %v", err)
	}

	var out domain.Task
	if err := unmarshalCollections(&out, tags, daily); err != nil {
		t.Fatalf("unmarshalCollections() error = %v", err)
	}
	if len(out.Tags) != 2 || out.Tags[1] != "q1" {
		t.Errorf("Tags = %v", out.Tags)
	}
	if len(out.DailyTasks) != 1 || !out.DailyTasks[0].TaskDate.Equal(day) || out.DailyTasks[0].ElapsedTime != 3600000 {
		t.Errorf("DailyTasks = %+v", out.DailyTasks)
	}
}

func TestMarshalCollections_NilBecomesEmptyArray(t *testing.T) {
	tags, daily, err := marshalCollections(&domain.Task{})
	if err != nil {
		t.Fatalf("marshalCollections() error = %v", err)
	}
	if string(tags) != "[]" || string(daily) != "[]" {
		t.Errorf("got tags=%s daily=%s, want [] and []", tags, daily)
	}
}
