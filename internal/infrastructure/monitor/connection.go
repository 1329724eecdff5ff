package monitor

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/fastygo/tasktimer/pkg/clock"
)

// Pinger is satisfied by every task record store.
type Pinger interface {
	Ping(ctx context.Context) error
}

// SessionSource reports the task whose session is live.
type SessionSource interface {
	Active() string
}

type Options struct {
	Driver   string
	Durable  bool
	Interval time.Duration
	Clock    clock.Clock
}

// Monitor periodically pings the task store and records the session state.
type Monitor struct {
	store   Pinger
	session SessionSource
	opts    Options
	logger  *zap.Logger

	mu     sync.RWMutex
	status Status

	stopOnce sync.Once
	stopCh   chan struct{}
	done     chan struct{}
}

func New(store Pinger, session SessionSource, opts Options, logger *zap.Logger) *Monitor {
	if opts.Interval <= 0 {
		opts.Interval = 10 * time.Second
	}
	if opts.Clock == nil {
		opts.Clock = clock.System
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Monitor{
		store:   store,
		session: session,
		opts:    opts,
		logger:  logger,
		status:  Status{Store: opts.Driver, Durable: opts.Durable},
		stopCh:  make(chan struct{}),
		done:    make(chan struct{}),
	}
}

func (m *Monitor) Start() {
	go m.loop()
}

// Stop ends the loop and waits for it, bounded by ctx.
func (m *Monitor) Stop(ctx context.Context) error {
	m.stopOnce.Do(func() { close(m.stopCh) })
	select {
	case <-m.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *Monitor) IsOnline() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status.StoreOK
}

func (m *Monitor) GetStatus() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

func (m *Monitor) loop() {
	defer close(m.done)
	ticker := time.NewTicker(m.opts.Interval)
	defer ticker.Stop()

	m.Refresh(context.Background())
	for {
		select {
		case <-ticker.C:
			m.Refresh(context.Background())
		case <-m.stopCh:
			return
		}
	}
}

// Refresh runs one check immediately.
func (m *Monitor) Refresh(ctx context.Context) Status {
	ok, latency := m.checkStore(ctx)
	var active string
	if m.session != nil {
		active = m.session.Active()
	}

	m.mu.Lock()
	prev := m.status
	next := Status{
		Store:        m.opts.Driver,
		StoreOK:      ok,
		Durable:      m.opts.Durable,
		StoreLatency: latency,
		ActiveTask:   active,
		LastCheck:    m.opts.Clock.Now(),
	}
	if !ok {
		next.ConsecutiveFailures = prev.ConsecutiveFailures + 1
	}
	m.status = next
	m.mu.Unlock()

	if ok && prev.ConsecutiveFailures > 0 {
		m.logger.Info("task store reachable again", zap.String("store", m.opts.Driver))
	}
	return next
}

func (m *Monitor) checkStore(ctx context.Context) (bool, time.Duration) {
	if m.store == nil {
		return false, 0
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	start := time.Now()
	err := m.store.Ping(ctx)
	latency := time.Since(start)
	if err != nil {
		m.logger.Warn("task store ping failed", zap.String("store", m.opts.Driver), zap.Error(err))
		return false, latency
	}
	return true, latency
}
