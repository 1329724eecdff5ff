package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/fastygo/tasktimer/domain"
	"github.com/fastygo/tasktimer/pkg/clock"
	applog "github.com/fastygo/tasktimer/pkg/logger"
	"github.com/fastygo/tasktimer/pkg/stopwatch"
	"github.com/fastygo/tasktimer/usecase"
	taskUC "github.com/fastygo/tasktimer/usecase/task"
)

const notifyTimeout = 5 * time.Second

// Tasks is the slice of the task use case the controller depends on.
type Tasks interface {
	Entity(ctx context.Context, id string) (*domain.Task, error)
	Entities(ctx context.Context) ([]domain.Task, error)
	Update(ctx context.Context, input taskUC.UpdateTaskInput) (*taskUC.TaskView, error)
	Edit(ctx context.Context, input taskUC.EditTaskInput) (*taskUC.TaskView, error)
	Delete(ctx context.Context, id string) error
}

// Snapshot is the live display value of the active session.
type Snapshot struct {
	TaskID      string `json:"task_id"`
	ClockTime   string `json:"clock_time"`
	ElapsedTime int64  `json:"elapsed_time_ms"`
	Running     bool   `json:"running"`
}

type Config struct {
	TickInterval time.Duration
	// Location decides calendar-day boundaries; time.Local when nil.
	Location *time.Location
	// OnTick receives a snapshot on every tick of the active session.
	OnTick func(Snapshot)
}

// Controller drives the start/pause/complete lifecycle of tasks against a
// single stopwatch. Operations are serialised; at most one task runs.
type Controller struct {
	tasks     Tasks
	clock     clock.Clock
	notifier  usecase.Notifier
	logger    *zap.Logger
	loc       *time.Location
	onTick    func(Snapshot)
	stopwatch *stopwatch.Stopwatch
	ticker    *Ticker

	opMu sync.Mutex

	stateMu  sync.RWMutex
	activeID string
}

func New(tasks Tasks, clk clock.Clock, notifier usecase.Notifier, logger *zap.Logger, cfg Config) *Controller {
	if clk == nil {
		clk = clock.System
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	loc := cfg.Location
	if loc == nil {
		loc = time.Local
	}
	c := &Controller{
		tasks:     tasks,
		clock:     clk,
		notifier:  notifier,
		logger:    logger,
		loc:       loc,
		onTick:    cfg.OnTick,
		stopwatch: stopwatch.New(clk),
	}
	c.ticker = NewTicker(cfg.TickInterval, c.tick, logger)
	return c
}

// Start begins (or resumes) the session for id.
func (c *Controller) Start(ctx context.Context, id string) (*taskUC.TaskView, error) {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	log := applog.FromContext(applog.ContextWithTaskID(ctx, id), c.logger)
	task, err := c.load(ctx, id, log, "start")
	if err != nil {
		return nil, err
	}

	active := c.Active()
	if active != "" && active != id {
		return nil, domain.ErrSessionActive
	}
	if !task.Status.CanTransition(domain.StatusInProgress) {
		return nil, domain.ErrInvalidTransition
	}

	now := c.clock.Now()
	accumulated := task.ElapsedTime
	started := task.StartedAt
	if task.Status == domain.StatusInProgress && started > 0 {
		accumulated += clock.Millis(now) - started
	}

	roll := domain.CloseBucketIfDayChanged(*task, accumulated, started, now, c.loc)
	if roll.Closed() {
		log.Info("daily bucket closed",
			zap.Time("task_date", roll.Bucket.TaskDate),
			zap.Int64("elapsed_ms", roll.Bucket.ElapsedTime))
		accumulated, started = 0, 0
	}

	c.stopwatch.SetInitialTime(started, accumulated)
	c.stopwatch.Start()
	c.notify(log, "Time started", fmt.Sprintf("Task %s has been started!", task.Name))

	updated, err := c.tasks.Update(ctx, taskUC.UpdateTaskInput{
		ID:          task.ID,
		Name:        task.Name,
		Description: task.Description,
		Status:      domain.StatusInProgress,
		ElapsedTime: c.stopwatch.ElapsedMilliseconds(),
		DailyTime:   task.DailyTime,
		Tags:        task.Tags,
		DailyTasks:  roll.Task.DailyTasks,
	})
	if err != nil {
		if active != id {
			c.stopwatch.Reset()
		}
		log.Error("start: persist failed", zap.Error(err))
		return nil, err
	}

	c.setActive(id)
	if err := c.ticker.Start(id); err != nil {
		log.Warn("start: ticker not scheduled", zap.Error(err))
	}
	log.Info("session started", zap.Int64("elapsed_ms", updated.ElapsedTimeInMilliseconds))
	return updated, nil
}

// Pause stops the session for id and persists the accumulated time.
func (c *Controller) Pause(ctx context.Context, id string) (*taskUC.TaskView, error) {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	log := applog.FromContext(applog.ContextWithTaskID(ctx, id), c.logger)
	task, err := c.load(ctx, id, log, "pause")
	if err != nil {
		return nil, err
	}
	if !task.Status.CanTransition(domain.StatusPaused) {
		return nil, domain.ErrInvalidTransition
	}

	now := c.clock.Now()
	sw := c.stopwatch
	if c.Active() != id {
		// left in progress by an earlier process; rebuild the run from storage
		sw = stopwatch.New(c.clock)
		accumulated := task.ElapsedTime
		if task.StartedAt > 0 {
			accumulated += clock.Millis(now) - task.StartedAt
		}
		sw.SetInitialTime(task.StartedAt, accumulated)
	}
	sw.Pause()

	roll := domain.CloseBucketIfDayChanged(*task, task.ElapsedTime, task.StartedAt, now, c.loc)
	if roll.Closed() {
		log.Info("daily bucket closed",
			zap.Time("task_date", roll.Bucket.TaskDate),
			zap.Int64("elapsed_ms", roll.Bucket.ElapsedTime))
		sw.Reset()
	}
	elapsed := sw.ElapsedMilliseconds()

	c.notify(log, "Time paused", fmt.Sprintf("Task %s has been paused!", task.Name))
	if c.Active() == id {
		c.ticker.Stop()
		c.setActive("")
	}

	updated, err := c.tasks.Update(ctx, taskUC.UpdateTaskInput{
		ID:          task.ID,
		Name:        task.Name,
		Description: task.Description,
		Status:      domain.StatusPaused,
		ElapsedTime: elapsed,
		DailyTime:   task.DailyTime,
		Tags:        task.Tags,
		DailyTasks:  roll.Task.DailyTasks,
	})
	if err != nil {
		log.Error("pause: persist failed", zap.Error(err))
		return nil, err
	}
	log.Info("session paused", zap.Int64("elapsed_ms", elapsed))
	return updated, nil
}

// Complete closes the open bucket into today's entry and marks id completed.
func (c *Controller) Complete(ctx context.Context, id string) (*taskUC.TaskView, error) {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	log := applog.FromContext(applog.ContextWithTaskID(ctx, id), c.logger)
	task, err := c.load(ctx, id, log, "complete")
	if err != nil {
		return nil, err
	}
	if task.IsCompleted() {
		return nil, domain.ErrInvalidTransition
	}

	now := c.clock.Now()
	isActive := c.Active() == id
	accumulated := task.ElapsedTime
	switch {
	case isActive:
		accumulated = c.stopwatch.ElapsedMilliseconds()
	case task.IsRunning() && task.StartedAt > 0:
		accumulated += clock.Millis(now) - task.StartedAt
	}
	if accumulated == 0 {
		return nil, domain.ErrNothingToComplete
	}
	if !task.Status.CanTransition(domain.StatusCompleted) {
		return nil, domain.ErrInvalidTransition
	}

	roll := domain.CloseBucket(*task, clock.StartOfDay(now, c.loc), accumulated)

	if isActive {
		c.ticker.Stop()
		c.stopwatch.Reset()
		c.setActive("")
	}
	c.notify(log, "Task completed", fmt.Sprintf("Task %s has been completed!", task.Name))

	updated, err := c.tasks.Update(ctx, taskUC.UpdateTaskInput{
		ID:          task.ID,
		Name:        task.Name,
		Description: task.Description,
		Status:      domain.StatusCompleted,
		ElapsedTime: 0,
		DailyTime:   task.DailyTime,
		Tags:        task.Tags,
		DailyTasks:  roll.Task.DailyTasks,
	})
	if err != nil {
		log.Error("complete: persist failed", zap.Error(err))
		return nil, err
	}
	log.Info("task completed", zap.Int64("bucket_ms", accumulated))
	return updated, nil
}

// Edit patches the details of id. A task in progress is locked: its
// UpdatedAt marks the day the open run belongs to.
func (c *Controller) Edit(ctx context.Context, input taskUC.EditTaskInput) (*taskUC.TaskView, error) {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	log := applog.FromContext(applog.ContextWithTaskID(ctx, input.ID), c.logger)
	task, err := c.load(ctx, input.ID, log, "edit")
	if err != nil {
		return nil, err
	}
	if c.Active() == input.ID || task.IsRunning() {
		log.Debug("edit: rejected while running")
		return nil, domain.ErrTaskRunning
	}
	return c.tasks.Edit(ctx, input)
}

// Resume restarts the session of the most recently updated in-progress task,
// if there is one. It is meant to run once when the application loads.
func (c *Controller) Resume(ctx context.Context) (*taskUC.TaskView, error) {
	tasks, err := c.tasks.Entities(ctx)
	if err != nil {
		c.logger.Error("resume: list tasks failed", zap.Error(err))
		return nil, err
	}
	for _, t := range tasks {
		if t.IsRunning() {
			c.logger.Info("resuming session", zap.String("task_id", t.ID))
			return c.Start(ctx, t.ID)
		}
	}
	return nil, nil
}

// Delete drops the session for id, if active, and removes the task.
func (c *Controller) Delete(ctx context.Context, id string) error {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	if c.Active() == id {
		c.ticker.Stop()
		c.stopwatch.Reset()
		c.setActive("")
	}
	return c.tasks.Delete(ctx, id)
}

// Active returns the id of the task whose session is live, or "".
func (c *Controller) Active() string {
	c.stateMu.RLock()
	defer c.stateMu.RUnlock()
	return c.activeID
}

func (c *Controller) Snapshot() Snapshot {
	id := c.Active()
	if id == "" {
		return Snapshot{ClockTime: stopwatch.FormatClock(0)}
	}
	return Snapshot{
		TaskID:      id,
		ClockTime:   c.stopwatch.ClockTime(),
		ElapsedTime: c.stopwatch.ElapsedMilliseconds(),
		Running:     c.stopwatch.Running(),
	}
}

// Ticking returns the task id the display ticker is scheduled for.
func (c *Controller) Ticking() string {
	return c.ticker.Active()
}

// Close stops the display ticker. The live task stays in progress in
// storage and is picked up again by Resume on the next load.
func (c *Controller) Close(ctx context.Context) error {
	c.opMu.Lock()
	defer c.opMu.Unlock()
	c.ticker.Close(ctx)
	return nil
}

func (c *Controller) load(ctx context.Context, id string, log *zap.Logger, op string) (*domain.Task, error) {
	task, err := c.tasks.Entity(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrTaskNotFound) {
			log.Warn(op + ": task not found")
			return nil, err
		}
		log.Error(op+": load failed", zap.Error(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return task, nil
}

func (c *Controller) setActive(id string) {
	c.stateMu.Lock()
	c.activeID = id
	c.stateMu.Unlock()
}

func (c *Controller) tick(taskID string) {
	if c.onTick == nil {
		return
	}
	snap := c.Snapshot()
	if snap.TaskID != taskID {
		return
	}
	c.onTick(snap)
}

func (c *Controller) notify(log *zap.Logger, title, body string) {
	if c.notifier == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()
		if err := c.notifier.Notify(ctx, title, body); err != nil {
			log.Debug("notification not delivered", zap.Error(err))
		}
	}()
}
