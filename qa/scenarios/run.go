package scenarios

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kilianp07/teamday/core/events"
	"github.com/kilianp07/teamday/core/scheduler"
	"github.com/kilianp07/teamday/infra/logger"
	"github.com/kilianp07/teamday/infra/metrics"
	"github.com/kilianp07/teamday/internal/eventbus"
)

func RunScenario(t *testing.T, sc *Scenario) {
	reg := prometheus.NewRegistry()
	sink, err := metrics.NewPromSinkWithRegistry(reg)
	if err != nil {
		t.Fatalf("prom sink: %v", err)
	}
	bus := eventbus.New[events.SolveEvent]()
	ctx, cancel := context.WithCancel(context.Background())
	done := metrics.StartEventCollector(ctx, bus, sink, logger.NopLogger{})
	defer func() {
		cancel()
		<-done
	}()

	planner, err := scheduler.NewPlanner(sc.Scheduler, logger.NopLogger{}, bus)
	if err != nil {
		t.Fatalf("planner: %v", err)
	}
	plan, err := planner.Compute(context.Background(), sc.Wishes)

	want := sc.Expected.outcome()
	if got := scheduler.Classify(err); got != want {
		t.Fatalf("scenario %s expected outcome %s, got %s (err=%v)", sc.Name, want, got, err)
	}
	if err := waitForOutcome(reg, want, time.Second); err != nil {
		t.Errorf("scenario %s: %v", sc.Name, err)
	}
	if err != nil {
		if plan != nil {
			t.Errorf("scenario %s returned a plan alongside %v", sc.Name, err)
		}
		var verr *scheduler.ValidationError
		if sc.Expected.Row > 0 && (!errors.As(err, &verr) || verr.Row != sc.Expected.Row) {
			t.Errorf("scenario %s expected failure on row %d, got %v", sc.Name, sc.Expected.Row, err)
		}
		return
	}

	if !equalStrings(plan.Lines(), sc.Expected.Lines) {
		t.Errorf("scenario %s lines:\n got %q\nwant %q", sc.Name, plan.Lines(), sc.Expected.Lines)
	}
	if !equalStrings(plan.Warnings, sc.Expected.Warnings) {
		t.Errorf("scenario %s warnings: got %q want %q", sc.Name, plan.Warnings, sc.Expected.Warnings)
	}
	for name, lines := range sc.Expected.Agenda {
		got, ok := plan.Agenda(name)
		if !ok || !equalStrings(got, lines) {
			t.Errorf("scenario %s agenda of %s: got %q want %q", sc.Name, name, got, lines)
		}
	}
	if sc.Expected.EndTime != "" {
		if got := sc.Scheduler.Clock().UnitToTime(plan.EndUnit); got != sc.Expected.EndTime {
			t.Errorf("scenario %s ends at %s, want %s", sc.Name, got, sc.Expected.EndTime)
		}
	}
}

// waitForOutcome polls the registry until the solve counter for outcome is
// one. Events reach the sink asynchronously.
func waitForOutcome(reg *prometheus.Registry, outcome events.Outcome, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for {
		if solveCount(reg, outcome) == 1 {
			return nil
		}
		if time.Now().After(deadline) {
			return errors.New("solve event for outcome " + string(outcome) + " not recorded")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func solveCount(reg *prometheus.Registry, outcome events.Outcome) float64 {
	families, err := reg.Gather()
	if err != nil {
		return -1
	}
	for _, mf := range families {
		if mf.GetName() != "teamday_solves_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, l := range m.GetLabel() {
				if l.GetName() == "outcome" && l.GetValue() == string(outcome) {
					return m.GetCounter().GetValue()
				}
			}
		}
	}
	return 0
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
