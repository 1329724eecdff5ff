package domain

import (
	"time"

	"github.com/fastygo/tasktimer/pkg/clock"
)

// Rollover is the outcome of a day-boundary check.
type Rollover struct {
	Task   Task
	Bucket *DailyTask
}

// Closed reports whether a bucket was appended.
func (r Rollover) Closed() bool {
	return r.Bucket != nil
}

// CloseBucketIfDayChanged closes the previous day's bucket when now falls on a
// later calendar day (in loc) than task.UpdatedAt. The bucket is dated at the
// start of UpdatedAt's day and holds accumulated - started.
//
// The returned task is a copy; task itself is never mutated.
func CloseBucketIfDayChanged(task Task, accumulated, started int64, now time.Time, loc *time.Location) Rollover {
	if !clock.IsLaterDay(now, task.UpdatedAt, loc) {
		return Rollover{Task: task.Clone()}
	}
	return CloseBucket(task, clock.StartOfDay(task.UpdatedAt, loc), accumulated-started)
}

// CloseBucket appends {date, elapsed} unconditionally.
func CloseBucket(task Task, date time.Time, elapsed int64) Rollover {
	out := task.Clone()
	bucket := DailyTask{TaskDate: date, ElapsedTime: elapsed}
	out.DailyTasks = append(out.DailyTasks, bucket)
	return Rollover{Task: out, Bucket: &bucket}
}
