package scheduler

import (
	"errors"
	"fmt"

	"github.com/kilianp07/teamday/core/events"
)

var (
	// ErrEmptyInput is returned when no row yields a request.
	ErrEmptyInput = errors.New("no valid wishes entered")
	// ErrInfeasible is returned when the search exhausts every placement.
	ErrInfeasible = errors.New("wishes do not fit into the planning horizon")
	// ErrSearchBudgetExceeded is returned when the search is aborted by its
	// iteration cap, timeout or context.
	ErrSearchBudgetExceeded = errors.New("search budget exceeded")

	ErrRequesterIsPartner = errors.New("requester must not also be a partner")
	ErrPartnerCount       = errors.New("a meeting needs one or two partners")
	ErrTooManyPartners    = errors.New("more than 3 partners given")
	ErrDuration           = errors.New("unsupported duration")
)

// ValidationError reports a malformed wish. Row is 1-based.
type ValidationError struct {
	Row       int
	Requester string
	Reason    error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Row, e.Reason)
}

func (e *ValidationError) Unwrap() error { return e.Reason }

// Classify maps a compute error to its outcome label.
func Classify(err error) events.Outcome {
	var verr *ValidationError
	switch {
	case err == nil:
		return events.OutcomeOK
	case errors.As(err, &verr):
		return events.OutcomeValidation
	case errors.Is(err, ErrEmptyInput):
		return events.OutcomeEmpty
	case errors.Is(err, ErrInfeasible):
		return events.OutcomeInfeasible
	case errors.Is(err, ErrSearchBudgetExceeded):
		return events.OutcomeBudget
	default:
		return events.OutcomeError
	}
}
