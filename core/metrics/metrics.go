package metrics

import (
	"time"

	"github.com/kilianp07/teamday/core/events"
)

// SolveResult describes one compute call.
type SolveResult struct {
	PlanID      string
	Outcome     events.Outcome
	Requests    int
	Assignments int
	Iterations  int
	EndUnit     int
	Duration    time.Duration
	Time        time.Time
}

// FromEvent converts a bus event into a SolveResult.
func FromEvent(ev events.SolveEvent) SolveResult {
	return SolveResult{
		PlanID:      ev.PlanID,
		Outcome:     ev.Outcome,
		Requests:    ev.Requests,
		Assignments: ev.Assignments,
		Iterations:  ev.Iterations,
		EndUnit:     ev.EndUnit,
		Duration:    ev.Duration,
		Time:        ev.Time,
	}
}

// MetricsSink records planner results.
type MetricsSink interface {
	RecordSolve(res SolveResult) error
}

// PublishRecorder is implemented by sinks tracking plan distribution.
type PublishRecorder interface {
	RecordPublish(planID string, ok bool) error
}

// NopSink implements MetricsSink with no-op methods.
type NopSink struct{}

func (NopSink) RecordSolve(SolveResult) error    { return nil }
func (NopSink) RecordPublish(string, bool) error { return nil }
