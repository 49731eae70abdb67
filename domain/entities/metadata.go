package entities

import (
	"time"
)

// RunMetadata describes one run of a root wire.
type RunMetadata struct {
	// StartTime is when warmup finished.
	StartTime time.Time `json:"start_time"`

	// EndTime is when the wire was cleaned up. Zero while running.
	EndTime time.Time `json:"end_time"`

	// Wire is the name of the root wire.
	Wire string `json:"wire"`

	// RunID identifies the run in logs.
	RunID string `json:"run_id,omitempty"`

	// Ticks counts the activations that completed without error.
	Ticks uint64 `json:"ticks"`

	// Failures counts the ticks that returned an error.
	Failures uint64 `json:"failures"`

	// Duration is EndTime minus StartTime.
	Duration time.Duration `json:"duration_ns"`
}

// NewRunMetadata creates the metadata of a run of wire started at start.
func NewRunMetadata(wire string, start time.Time) *RunMetadata {
	return &RunMetadata{Wire: wire, StartTime: start}
}

// WithRunID sets the run id.
func (m *RunMetadata) WithRunID(id string) *RunMetadata {
	m.RunID = id
	return m
}

// Finish records the end of the run. Later calls are ignored.
func (m *RunMetadata) Finish(end time.Time) {
	if !m.EndTime.IsZero() {
		return
	}
	m.EndTime = end
	m.Duration = end.Sub(m.StartTime)
}
