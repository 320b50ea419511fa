package metrics

import (
	"context"

	"github.com/kilianp07/teamday/core/events"
	"github.com/kilianp07/teamday/core/logger"
	coremetrics "github.com/kilianp07/teamday/core/metrics"
	"github.com/kilianp07/teamday/internal/eventbus"
)

// StartEventCollector subscribes to the bus and records every solve event.
// The returned channel is closed once the collector has stopped, which
// happens when ctx is canceled or the bus is closed.
func StartEventCollector(ctx context.Context, bus *eventbus.Bus[events.SolveEvent], sink coremetrics.MetricsSink, log logger.Logger) <-chan struct{} {
	done := make(chan struct{})
	if bus == nil || sink == nil {
		close(done)
		return done
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	sub := bus.Subscribe()
	go func() {
		defer close(done)
		defer bus.Unsubscribe(sub)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-sub:
				if !ok {
					return
				}
				if err := sink.RecordSolve(coremetrics.FromEvent(ev)); err != nil {
					log.Errorf("record solve %s: %v", ev.PlanID, err)
				}
			}
		}
	}()
	return done
}
