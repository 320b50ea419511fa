package events

import "time"

// Outcome labels the result of one compute call.
type Outcome string

const (
	OutcomeOK         Outcome = "ok"
	OutcomeValidation Outcome = "validation"
	OutcomeEmpty      Outcome = "empty"
	OutcomeInfeasible Outcome = "infeasible"
	OutcomeBudget     Outcome = "budget"
	OutcomeError      Outcome = "error"
)

// SolveEvent is published after every compute call, successful or not.
type SolveEvent struct {
	PlanID      string
	Outcome     Outcome
	Requests    int
	Assignments int
	Iterations  int
	EndUnit     int
	Duration    time.Duration
	Time        time.Time
}
