package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Ticker runs a display-refresh callback for at most one session at a time.
// It never touches storage.
type Ticker struct {
	interval time.Duration
	fn       func(taskID string)
	logger   *zap.Logger

	mu      sync.Mutex
	cron    *cron.Cron
	started bool
	entry   cron.EntryID
	taskID  string
}

func NewTicker(interval time.Duration, fn func(taskID string), logger *zap.Logger) *Ticker {
	if interval < time.Second {
		interval = time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Ticker{
		interval: interval,
		fn:       fn,
		logger:   logger,
		cron:     cron.New(cron.WithSeconds()),
	}
}

// Start schedules ticks for taskID, replacing any schedule for another task.
// Starting the same task twice keeps the existing schedule.
func (t *Ticker) Start(taskID string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.entry != 0 {
		if t.taskID == taskID {
			return nil
		}
		t.cron.Remove(t.entry)
		t.entry = 0
	}

	spec := fmt.Sprintf("@every %s", t.interval)
	id, err := t.cron.AddFunc(spec, func() {
		if t.fn != nil {
			t.fn(taskID)
		}
	})
	if err != nil {
		return err
	}
	t.entry = id
	t.taskID = taskID

	if !t.started {
		t.cron.Start()
		t.started = true
	}
	t.logger.Debug("session ticker started", zap.String("task_id", taskID))
	return nil
}

// Stop cancels the current schedule, if any.
func (t *Ticker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.entry == 0 {
		return
	}
	t.cron.Remove(t.entry)
	t.logger.Debug("session ticker stopped", zap.String("task_id", t.taskID))
	t.entry = 0
	t.taskID = ""
}

// Active returns the task currently ticking, or "".
func (t *Ticker) Active() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.taskID
}

// Entries reports how many schedules are registered.
func (t *Ticker) Entries() int {
	return len(t.cron.Entries())
}

// Close stops the scheduler and waits for a running tick, bounded by ctx.
func (t *Ticker) Close(ctx context.Context) {
	t.Stop()
	t.mu.Lock()
	started := t.started
	t.started = false
	t.mu.Unlock()
	if !started {
		return
	}
	stopCtx := t.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
	}
}
