package metrics

import (
	"fmt"

	"github.com/kilianp07/teamgen/core/factory"
)

var sinkRegistry = factory.NewRegistry[MetricsSink]()

// RegisterMetricsSink adds a sink factory identified by name.
func RegisterMetricsSink(name string, f factory.Factory[MetricsSink]) error {
	return sinkRegistry.Register(name, f)
}

// NewMetricsSink builds the sinks listed in cfg. No sinks yields a NopSink
// and a single sink is returned unwrapped.
func NewMetricsSink(cfg Config) (MetricsSink, error) {
	switch len(cfg.Sinks) {
	case 0:
		return NopSink{}, nil
	case 1:
		return createSink(cfg.Sinks[0])
	}
	sinks := make([]MetricsSink, 0, len(cfg.Sinks))
	for _, c := range cfg.Sinks {
		s, err := createSink(c)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, s)
	}
	return NewMultiSink(sinks...), nil
}

func createSink(c factory.ModuleConfig) (MetricsSink, error) {
	s, err := sinkRegistry.Create(c)
	if err != nil {
		return nil, fmt.Errorf("metrics sink %q: %w", c.Type, err)
	}
	return s, nil
}
