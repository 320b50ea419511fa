package metrics

import (
	"errors"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/kilianp07/teamday/core/metrics"
)

// PromSink records planner results in Prometheus metrics.
type PromSink struct {
	solves     *prometheus.CounterVec
	iterations prometheus.Histogram
	duration   prometheus.Histogram
	endUnit    prometheus.Gauge
	publishes  *prometheus.CounterVec
}

// NewPromSink registers planner metrics on the default Prometheus registerer.
func NewPromSink() (*PromSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	s := &PromSink{
		solves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "teamday_solves_total",
			Help: "Compute calls by outcome",
		}, []string{"outcome"}),
		iterations: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "teamday_search_iterations",
			Help:    "Candidate placements tried per search",
			Buckets: prometheus.ExponentialBuckets(1, 4, 10),
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "teamday_solve_duration_seconds",
			Help:    "Wall time of a compute call",
			Buckets: prometheus.DefBuckets,
		}),
		endUnit: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "teamday_plan_end_unit",
			Help: "End unit of the last successful plan",
		}),
		publishes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "teamday_plan_publish_total",
			Help: "Plans handed to the MQTT publisher by result",
		}, []string{"ok"}),
	}
	var err error
	if s.solves, err = register(reg, s.solves); err != nil {
		return nil, err
	}
	if s.iterations, err = register(reg, s.iterations); err != nil {
		return nil, err
	}
	if s.duration, err = register(reg, s.duration); err != nil {
		return nil, err
	}
	if s.endUnit, err = register(reg, s.endUnit); err != nil {
		return nil, err
	}
	if s.publishes, err = register(reg, s.publishes); err != nil {
		return nil, err
	}
	return s, nil
}

// register adds c to reg, reusing an identical collector registered earlier.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// RecordSolve counts the outcome and observes search effort.
func (s *PromSink) RecordSolve(res coremetrics.SolveResult) error {
	s.solves.WithLabelValues(string(res.Outcome)).Inc()
	s.duration.Observe(res.Duration.Seconds())
	if res.Iterations > 0 {
		s.iterations.Observe(float64(res.Iterations))
	}
	if res.Assignments > 0 {
		s.endUnit.Set(float64(res.EndUnit))
	}
	return nil
}

// RecordPublish counts plan distribution attempts.
func (s *PromSink) RecordPublish(_ string, ok bool) error {
	s.publishes.WithLabelValues(strconv.FormatBool(ok)).Inc()
	return nil
}
