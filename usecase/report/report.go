package report

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/fastygo/tasktimer/domain"
	"github.com/fastygo/tasktimer/pkg/clock"
)

const hourMillis = int64(time.Hour / time.Millisecond)

// Tasks is the read side the report is built from.
type Tasks interface {
	Entities(ctx context.Context) ([]domain.Task, error)
}

// Entry is the time one task received on one day.
type Entry struct {
	TaskID    string  `json:"task_id" yaml:"task_id"`
	Name      string  `json:"name" yaml:"name"`
	ElapsedMs int64   `json:"elapsed_ms" yaml:"elapsed_ms"`
	BudgetMs  int64   `json:"budget_ms" yaml:"budget_ms"`
	Ratio     float64 `json:"ratio" yaml:"ratio"`
	Open      bool    `json:"open,omitempty" yaml:"open,omitempty"`
}

type Day struct {
	Date      time.Time `json:"date" yaml:"date"`
	ElapsedMs int64     `json:"elapsed_ms" yaml:"elapsed_ms"`
	Entries   []Entry   `json:"entries" yaml:"entries"`
}

type TaskTotal struct {
	TaskID     string            `json:"task_id" yaml:"task_id"`
	Name       string            `json:"name" yaml:"name"`
	Status     domain.TaskStatus `json:"status" yaml:"status"`
	DailyTime  int               `json:"daily_time" yaml:"daily_time"`
	LifetimeMs int64             `json:"lifetime_ms" yaml:"lifetime_ms"`
	Days       int               `json:"days" yaml:"days"`
}

// Report summarises tracked time per calendar day and per task.
type Report struct {
	GeneratedAt time.Time   `json:"generated_at" yaml:"generated_at"`
	Timezone    string      `json:"timezone" yaml:"timezone"`
	Days        []Day       `json:"days" yaml:"days"`
	Tasks       []TaskTotal `json:"tasks" yaml:"tasks"`
	TotalMs     int64       `json:"total_ms" yaml:"total_ms"`
}

type UseCase struct {
	tasks  Tasks
	clock  clock.Clock
	loc    *time.Location
	logger *zap.Logger
}

func New(tasks Tasks, clk clock.Clock, loc *time.Location, logger *zap.Logger) *UseCase {
	if clk == nil {
		clk = clock.System
	}
	if loc == nil {
		loc = time.Local
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{tasks: tasks, clock: clk, loc: loc, logger: logger}
}

// Daily builds the report over every stored task. Closed buckets land on
// their own date; the open ElapsedTime counts toward the day of UpdatedAt.
func (uc *UseCase) Daily(ctx context.Context) (*Report, error) {
	tasks, err := uc.tasks.Entities(ctx)
	if err != nil {
		return nil, fmt.Errorf("daily report: %w", err)
	}
	r := Build(tasks, uc.clock.Now(), uc.loc)
	uc.logger.Debug("daily report built",
		zap.Int("tasks", len(r.Tasks)),
		zap.Int("days", len(r.Days)),
		zap.Int64("total_ms", r.TotalMs))
	return r, nil
}

// Build aggregates tasks into a report. Days are sorted ascending; tasks by
// lifetime descending, then name.
func Build(tasks []domain.Task, now time.Time, loc *time.Location) *Report {
	if loc == nil {
		loc = time.Local
	}
	days := make(map[int64]*Day)
	dayFor := func(t time.Time) *Day {
		start := clock.StartOfDay(t, loc)
		key := start.Unix()
		d, ok := days[key]
		if !ok {
			d = &Day{Date: start}
			days[key] = d
		}
		return d
	}

	r := &Report{
		GeneratedAt: now,
		Timezone:    loc.String(),
		Days:        []Day{},
		Tasks:       make([]TaskTotal, 0, len(tasks)),
	}
	for i := range tasks {
		t := &tasks[i]
		budget := int64(t.DailyTime) * hourMillis
		seen := make(map[int64]struct{})

		add := func(date time.Time, elapsed int64, open bool) {
			d := dayFor(date)
			seen[d.Date.Unix()] = struct{}{}
			d.ElapsedMs += elapsed
			d.Entries = append(d.Entries, Entry{
				TaskID:    t.ID,
				Name:      t.Name,
				ElapsedMs: elapsed,
				BudgetMs:  budget,
				Ratio:     ratio(elapsed, budget),
				Open:      open,
			})
		}
		for _, bucket := range t.DailyTasks {
			add(bucket.TaskDate, bucket.ElapsedTime, false)
		}
		if t.ElapsedTime != 0 {
			add(t.UpdatedAt, t.ElapsedTime, true)
		}

		lifetime := t.LifetimeElapsed()
		r.TotalMs += lifetime
		r.Tasks = append(r.Tasks, TaskTotal{
			TaskID:     t.ID,
			Name:       t.Name,
			Status:     t.Status,
			DailyTime:  t.DailyTime,
			LifetimeMs: lifetime,
			Days:       len(seen),
		})
	}

	for _, d := range days {
		r.Days = append(r.Days, *d)
	}
	sort.Slice(r.Days, func(i, j int) bool {
		return r.Days[i].Date.Before(r.Days[j].Date)
	})
	sort.SliceStable(r.Tasks, func(i, j int) bool {
		if r.Tasks[i].LifetimeMs != r.Tasks[j].LifetimeMs {
			return r.Tasks[i].LifetimeMs > r.Tasks[j].LifetimeMs
		}
		return r.Tasks[i].Name < r.Tasks[j].Name
	})
	return r
}

func ratio(elapsed, budget int64) float64 {
	if budget <= 0 {
		return 0
	}
	return float64(elapsed) / float64(budget)
}
