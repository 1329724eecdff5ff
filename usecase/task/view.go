package task

import (
	"fmt"
	"time"

	"github.com/fastygo/tasktimer/domain"
	"github.com/fastygo/tasktimer/pkg/stopwatch"
)

const createdAtLayout = "02/01/2006 15:04"

// TaskView is the presentation-ready form of a task.
type TaskView struct {
	ID                        string             `json:"id"`
	Name                      string             `json:"name"`
	Description               string             `json:"description"`
	CreatedAt                 string             `json:"created_at"`
	UpdatedAt                 string             `json:"updated_at"`
	UpdatedAtDate             time.Time          `json:"updated_at_date"`
	ElapsedTime               string             `json:"elapsed_time"`
	ElapsedTimeInMilliseconds int64              `json:"elapsed_time_ms"`
	StartedTimeInMilliseconds int64              `json:"started_time_ms"`
	LifetimeInMilliseconds    int64              `json:"lifetime_ms"`
	Status                    domain.TaskStatus  `json:"status"`
	Tags                      []string           `json:"tags"`
	DailyTime                 int                `json:"daily_time"`
	DailyTasks                []domain.DailyTask `json:"daily_tasks"`
}

func NewView(t *domain.Task, now time.Time) *TaskView {
	dailyTasks := t.DailyTasks
	if dailyTasks == nil {
		dailyTasks = []domain.DailyTask{}
	}
	tags := t.Tags
	if tags == nil {
		tags = []string{}
	}
	return &TaskView{
		ID:                        t.ID,
		Name:                      t.Name,
		Description:               t.Description,
		CreatedAt:                 t.CreatedAt.Format(createdAtLayout),
		UpdatedAt:                 relative(now, t.UpdatedAt),
		UpdatedAtDate:             t.UpdatedAt,
		ElapsedTime:               stopwatch.FormatClock(t.ElapsedTime),
		ElapsedTimeInMilliseconds: t.ElapsedTime,
		StartedTimeInMilliseconds: t.StartedAt,
		LifetimeInMilliseconds:    t.LifetimeElapsed(),
		Status:                    t.Status,
		Tags:                      tags,
		DailyTime:                 t.DailyTime,
		DailyTasks:                dailyTasks,
	}
}

// relative renders t as a coarse "N units ago" string relative to now.
func relative(now, t time.Time) string {
	d := now.Sub(t)
	if d < 0 {
		d = -d
		return "in " + span(d)
	}
	if d < 45*time.Second {
		return "a few seconds ago"
	}
	return span(d) + " ago"
}

func span(d time.Duration) string {
	switch {
	case d < 90*time.Second:
		return "a minute"
	case d < 45*time.Minute:
		return fmt.Sprintf("%d minutes", int(d.Round(time.Minute)/time.Minute))
	case d < 90*time.Minute:
		return "an hour"
	case d < 22*time.Hour:
		return fmt.Sprintf("%d hours", int(d.Round(time.Hour)/time.Hour))
	case d < 36*time.Hour:
		return "a day"
	case d < 26*24*time.Hour:
		return fmt.Sprintf("%d days", int((d+12*time.Hour)/(24*time.Hour)))
	case d < 45*24*time.Hour:
		return "a month"
	case d < 320*24*time.Hour:
		return fmt.Sprintf("%d months", int((d+15*24*time.Hour)/(30*24*time.Hour)))
	default:
		return fmt.Sprintf("%d years", max(1, int(d/(365*24*time.Hour))))
	}
}
