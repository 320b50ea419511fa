package metrics

import "errors"

// MultiSink fans results out to multiple sinks.
type MultiSink struct {
	Sinks []MetricsSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...MetricsSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordSolve forwards the result to every sink and joins their errors.
func (m *MultiSink) RecordSolve(res SolveResult) error {
	var errs []error
	for _, s := range m.Sinks {
		if err := s.RecordSolve(res); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// RecordPublish forwards to sinks implementing PublishRecorder.
func (m *MultiSink) RecordPublish(planID string, ok bool) error {
	var errs []error
	for _, s := range m.Sinks {
		if rec, isRec := s.(PublishRecorder); isRec {
			if err := rec.RecordPublish(planID, ok); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}
