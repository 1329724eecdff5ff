package stopwatch

import (
	"fmt"
	"sync"

	"github.com/fastygo/tasktimer/pkg/clock"
)

// Stopwatch accumulates active time across start/pause cycles. All values are
// milliseconds; startTime is a Unix millisecond timestamp.
type Stopwatch struct {
	clock clock.Clock

	mu          sync.RWMutex
	startTime   int64
	accumulated int64
	running     bool
}

func New(c clock.Clock) *Stopwatch {
	if c == nil {
		c = clock.System
	}
	return &Stopwatch{clock: c}
}

// SetInitialTime configures the stopwatch without starting it.
func (s *Stopwatch) SetInitialTime(startedAt, accumulated int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.startTime = startedAt
	s.accumulated = accumulated
	s.running = false
}

// Start is a no-op while running. It never resets the accumulator.
func (s *Stopwatch) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.startTime = s.now()
	s.running = true
}

// Pause folds the current run into the accumulator.
func (s *Stopwatch) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	s.accumulated += s.now() - s.startTime
	s.running = false
}

func (s *Stopwatch) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.startTime = 0
	s.accumulated = 0
	s.running = false
}

func (s *Stopwatch) Running() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// ElapsedMilliseconds returns the accumulated time plus the current run, if any.
func (s *Stopwatch) ElapsedMilliseconds() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.running {
		return s.accumulated + (s.now() - s.startTime)
	}
	return s.accumulated
}

// ClockTime renders the elapsed time as HH:MM:SS.
func (s *Stopwatch) ClockTime() string {
	return FormatClock(s.ElapsedMilliseconds())
}

func (s *Stopwatch) now() int64 {
	return clock.Millis(s.clock.Now())
}

// FormatClock renders ms as HH:MM:SS with hours wrapped modulo 24.
// Negative values render as 00:00:00.
func FormatClock(ms int64) string {
	if ms < 0 {
		ms = 0
	}
	total := ms / 1000
	hours := (total / 3600) % 24
	minutes := (total / 60) % 60
	seconds := total % 60
	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
}
