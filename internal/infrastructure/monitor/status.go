package monitor

import "time"

// Status is the last health snapshot of the task store and session.
type Status struct {
	Store         string        `json:"store"`
	StoreOK       bool          `json:"store_ok"`
	Durable       bool          `json:"durable"`
	StoreLatency  time.Duration `json:"store_latency_ns"`
	ActiveTask    string        `json:"active_task,omitempty"`
	ConsecutiveFailures int           `json:"consecutive_failures"`
	LastCheck     time.Time     `json:"last_check"`
}
