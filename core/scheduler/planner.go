package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/language"

	"github.com/kilianp07/teamday/core/events"
	"github.com/kilianp07/teamday/core/logger"
	"github.com/kilianp07/teamday/core/model"
	"github.com/kilianp07/teamday/internal/eventbus"
)

// Planner computes plans from wishes. Each Compute call owns its own
// timeline, so a Planner may be shared between goroutines.
type Planner struct {
	cfg        Config
	projection Projection
	log        logger.Logger
	bus        *eventbus.Bus[events.SolveEvent]
	now        func() time.Time
}

// NewPlanner validates cfg and returns a Planner. log and bus may be nil.
func NewPlanner(cfg Config, log logger.Logger, bus *eventbus.Bus[events.SolveEvent]) (*Planner, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("scheduler config: %w", err)
	}
	tag, err := language.Parse(cfg.Locale)
	if err != nil {
		return nil, fmt.Errorf("scheduler locale %q: %w", cfg.Locale, err)
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Planner{
		cfg:        cfg,
		projection: Projection{Clock: cfg.Clock(), SoftHorizon: cfg.SoftHorizonUnits, Locale: tag},
		log:        log,
		bus:        bus,
		now:        time.Now,
	}, nil
}

// Config returns the effective configuration.
func (p *Planner) Config() Config { return p.cfg }

// Compute normalizes wishes, searches a conflict free placement against the
// hard horizon and projects it. Any error means no plan: there is no
// partial result.
func (p *Planner) Compute(ctx context.Context, wishes []model.Wish) (*model.Plan, error) {
	started := p.now()
	ev := events.SolveEvent{PlanID: uuid.NewString(), Time: started}

	plan, err := p.compute(ctx, wishes, &ev)
	ev.Outcome = Classify(err)
	ev.Duration = p.now().Sub(started)
	if p.bus != nil {
		p.bus.Publish(ev)
	}

	fields := map[string]any{
		"plan_id":    ev.PlanID,
		"outcome":    string(ev.Outcome),
		"requests":   ev.Requests,
		"iterations": ev.Iterations,
		"duration":   ev.Duration.String(),
	}
	if err != nil {
		fields["error"] = err.Error()
		p.log.Debugw("compute failed", fields)
		p.log.Warnf("plan %s rejected: %v", ev.PlanID, err)
		return nil, err
	}
	p.log.Debugw("compute finished", fields)
	p.log.Infof("plan %s: %d meetings, ends at %s", plan.ID, len(plan.Entries), p.projection.Clock.UnitToTime(plan.EndUnit))
	for _, w := range plan.Warnings {
		p.log.Warnf("plan %s: %s", plan.ID, w)
	}
	return plan, nil
}

func (p *Planner) compute(ctx context.Context, wishes []model.Wish, ev *events.SolveEvent) (*model.Plan, error) {
	reqs, err := Normalize(wishes, p.cfg)
	if err != nil {
		return nil, err
	}
	ev.Requests = len(reqs)
	p.log.Debugf("normalized %d of %d rows into requests", len(reqs), len(wishes))

	if p.cfg.TimeoutMS > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(p.cfg.TimeoutMS)*time.Millisecond)
		defer cancel()
	}
	res, err := Search(ctx, reqs, p.cfg.HardHorizonUnits, p.cfg.MaxIterations)
	ev.Iterations = res.Iterations
	if err != nil {
		return nil, err
	}

	sorted := SortAssignments(res.Assignments)
	entries := p.projection.Entries(sorted)
	end := EndUnit(sorted)
	ev.Assignments = len(sorted)
	ev.EndUnit = end
	return &model.Plan{
		ID:          ev.PlanID,
		Entries:     entries,
		Overview:    p.projection.Overview(entries),
		Warnings:    p.projection.Warnings(end),
		EndUnit:     end,
		Iterations:  res.Iterations,
		Assignments: sorted,
	}, nil
}
