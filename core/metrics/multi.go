package metrics

import "errors"

// MultiSink fans records out to multiple sinks.
type MultiSink struct {
	Sinks []MetricsSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...MetricsSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordGeneration forwards the record to all sinks. Every sink is tried;
// errors are joined.
func (m *MultiSink) RecordGeneration(rec GenerationRecord) error {
	var errs []error
	for _, s := range m.Sinks {
		if err := s.RecordGeneration(rec); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// RecordRosterImport forwards roster imports to sinks supporting them.
func (m *MultiSink) RecordRosterImport(ev RosterImport) error {
	var errs []error
	for _, s := range m.Sinks {
		if rec, ok := s.(RosterRecorder); ok {
			if err := rec.RecordRosterImport(ev); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}
