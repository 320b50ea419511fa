package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	planapi "github.com/kilianp07/teamday/api/plan"
	"github.com/kilianp07/teamday/config"
	"github.com/kilianp07/teamday/core/events"
	coremetrics "github.com/kilianp07/teamday/core/metrics"
	coremon "github.com/kilianp07/teamday/core/monitoring"
	coremqtt "github.com/kilianp07/teamday/core/mqtt"
	"github.com/kilianp07/teamday/core/model"
	"github.com/kilianp07/teamday/core/scheduler"
	"github.com/kilianp07/teamday/infra/logger"
	"github.com/kilianp07/teamday/infra/metrics"
	"github.com/kilianp07/teamday/infra/monitoring"
	"github.com/kilianp07/teamday/infra/mqtt"
	"github.com/kilianp07/teamday/internal/eventbus"
)

// publishTimeout bounds the hand-off of one plan to the broker.
const publishTimeout = 5 * time.Second

// Service wires the planner to its metrics sinks, the plan publisher and
// the HTTP API.
type Service struct {
	Planner   *scheduler.Planner
	cfg       *config.Config
	bus       *eventbus.Bus[events.SolveEvent]
	sink      coremetrics.MetricsSink
	publisher coremqtt.PlanPublisher
	monitor   coremon.Monitor
	log       logger.Logger
	logFile   io.Closer
	ready     chan net.Addr
}

// Option customizes a Service.
type Option func(*Service)

// WithPublisher replaces the publisher built from the MQTT configuration.
func WithPublisher(p coremqtt.PlanPublisher) Option {
	return func(s *Service) { s.publisher = p }
}

// WithSink replaces the sinks built from the metrics configuration.
func WithSink(sink coremetrics.MetricsSink) Option {
	return func(s *Service) { s.sink = sink }
}

// WithMonitor replaces the Sentry monitor built from the configuration.
func WithMonitor(m coremon.Monitor) Option {
	return func(s *Service) { s.monitor = m }
}

// WithLogger replaces the component logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) { s.log = l }
}

// New creates a Service from the configuration. On error the log output is
// restored and any opened log file is closed.
func New(cfg *config.Config, opts ...Option) (_ *Service, err error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := logger.SetLevel(cfg.Logging.Level); err != nil {
		return nil, err
	}
	s := &Service{cfg: cfg, bus: eventbus.New[events.SolveEvent](), ready: make(chan net.Addr, 1)}
	for _, o := range opts {
		o(s)
	}
	if cfg.Logging.File != "" {
		w, ferr := logger.NewRotatingFile(logger.RotateConfig{
			Path:       cfg.Logging.File,
			MaxSizeMB:  cfg.Logging.MaxSizeMB,
			MaxBackups: cfg.Logging.MaxBackups,
			MaxAgeDays: cfg.Logging.MaxAgeDays,
		})
		if ferr != nil {
			return nil, fmt.Errorf("log file: %w", ferr)
		}
		logger.SetOutput(w)
		s.logFile = w
		defer func() {
			if err != nil {
				logger.SetOutput(nil)
				_ = w.Close()
			}
		}()
	}
	if s.log == nil {
		s.log = logger.New("service")
	}
	if s.monitor == nil {
		mon, err := monitoring.NewSentryMonitor(cfg.Sentry)
		if err != nil {
			return nil, fmt.Errorf("sentry: %w", err)
		}
		s.monitor = mon
	}
	if s.sink == nil {
		sink, err := coremetrics.NewMetricsSink(cfg.Metrics.Sinks)
		if err != nil {
			return nil, fmt.Errorf("metrics sink: %w", err)
		}
		s.sink = sink
	}
	if s.publisher == nil {
		pub, err := newPublisher(cfg.MQTT, s.sink)
		if err != nil {
			return nil, fmt.Errorf("mqtt publisher: %w", err)
		}
		s.publisher = pub
	}

	planner, err := scheduler.NewPlanner(cfg.Scheduler, logger.New("planner"), s.bus)
	if err != nil {
		return nil, err
	}
	s.Planner = planner
	return s, nil
}

func newPublisher(cfg mqtt.Config, sink coremetrics.MetricsSink) (coremqtt.PlanPublisher, error) {
	if !cfg.Enabled {
		return coremqtt.NopPublisher{}, nil
	}
	rec, _ := sink.(coremetrics.PublishRecorder)
	return mqtt.NewPahoPublisher(cfg, rec)
}

// Compute plans the wishes and hands a successful plan to the publisher.
// A failed publish is logged and does not fail the call.
func (s *Service) Compute(ctx context.Context, wishes []model.Wish) (*model.Plan, error) {
	plan, err := s.Planner.Compute(ctx, wishes)
	if err != nil {
		if scheduler.Classify(err) == events.OutcomeError {
			s.monitor.CaptureException(err, map[string]string{"module": "scheduler"})
		}
		return nil, err
	}
	pubCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()
	if err := s.publisher.PublishPlan(pubCtx, plan); err != nil {
		s.log.Errorf("plan %s not published: %v", plan.ID, err)
		s.monitor.CaptureException(err, map[string]string{"module": "mqtt", "plan_id": plan.ID})
	}
	return plan, nil
}

// Handler returns the HTTP routes served by Run.
func (s *Service) Handler() http.Handler { return planapi.Routes(s) }

// Ready yields the bound API address once Run is listening.
func (s *Service) Ready() <-chan net.Addr { return s.ready }

// Run starts the metrics collector, the optional Prometheus endpoint and the
// HTTP API. It blocks until the context is cancelled.
func (s *Service) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	collected := metrics.StartEventCollector(ctx, s.bus, s.sink, logger.New("metrics"))
	defer func() {
		cancel()
		<-collected
	}()

	if addr := s.cfg.Metrics.PrometheusAddr; addr != "" {
		go func() {
			defer s.monitor.Recover()
			if err := metrics.StartPromServer(ctx, addr); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}

	ln, err := net.Listen("tcp", s.cfg.HTTP.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.cfg.HTTP.Addr, err)
	}
	srv := &http.Server{Handler: s.Handler(), ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	s.log.Infof("planning API listening on %s", ln.Addr())
	select {
	case s.ready <- ln.Addr():
	default:
	}
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	s.bus.Close()
	s.publisher.Close()
	if c, ok := s.sink.(interface{ Close() }); ok {
		c.Close()
	}
	s.monitor.Flush(2 * time.Second)
	if s.logFile != nil {
		logger.SetOutput(nil)
		return s.logFile.Close()
	}
	return nil
}
