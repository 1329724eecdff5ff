package domain

import "time"

// TaskStatus is the lifecycle state of a task.
type TaskStatus string

const (
	StatusPending    TaskStatus = "pending"
	StatusInProgress TaskStatus = "in_progress"
	StatusPaused     TaskStatus = "paused"
	StatusCompleted  TaskStatus = "completed"
)

var transitions = map[TaskStatus][]TaskStatus{
	StatusPending:    {StatusInProgress},
	StatusInProgress: {StatusInProgress, StatusPaused, StatusCompleted},
	StatusPaused:     {StatusInProgress, StatusCompleted},
}

func (s TaskStatus) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusPaused, StatusCompleted:
		return true
	}
	return false
}

// CanTransition reports whether a task in s may move to next.
// InProgress -> InProgress is the resume-after-reload path.
func (s TaskStatus) CanTransition(next TaskStatus) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// DailyTask is a closed bucket of time worked on one calendar day.
type DailyTask struct {
	TaskDate    time.Time `json:"task_date" yaml:"task_date"`
	ElapsedTime int64     `json:"elapsed_time" yaml:"elapsed_time"`
}

// Task is the persisted time-tracking entity.
//
// ElapsedTime covers the current, not yet bucketed day only; StartedAt is a
// Unix millisecond anchor that is nonzero only while the task is in progress.
type Task struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Status      TaskStatus  `json:"status"`
	ElapsedTime int64       `json:"elapsed_time"`
	StartedAt   int64       `json:"started_at"`
	DailyTime   int         `json:"daily_time"`
	Tags        []string    `json:"tags"`
	DailyTasks  []DailyTask `json:"daily_tasks"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

func (t *Task) IsCompleted() bool {
	return t != nil && t.Status == StatusCompleted
}

func (t *Task) IsRunning() bool {
	return t != nil && t.Status == StatusInProgress
}

// LifetimeElapsed sums every closed bucket plus the open one.
func (t *Task) LifetimeElapsed() int64 {
	if t == nil {
		return 0
	}
	total := t.ElapsedTime
	for _, d := range t.DailyTasks {
		total += d.ElapsedTime
	}
	return total
}

// Clone returns a deep copy so callers can build a replacement record
// without aliasing the slices of the loaded one.
func (t Task) Clone() Task {
	out := t
	if t.Tags != nil {
		out.Tags = append([]string(nil), t.Tags...)
	}
	out.DailyTasks = append([]DailyTask{}, t.DailyTasks...)
	return out
}
