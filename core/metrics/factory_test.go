package metrics_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/teamgen/core/factory"
	metrics "github.com/kilianp07/teamgen/core/metrics"
	_ "github.com/kilianp07/teamgen/infra/metrics"
)

/*
TestMetricsFactory_Builtins verifies registration via infra/metrics/factory.go.

	Cases:
	- instantiate builtin nop sink
	- unknown type returns error
*/
func TestMetricsFactory_Builtins(t *testing.T) {
	s, err := metrics.NewMetricsSink(metrics.Config{Sinks: []factory.ModuleConfig{{Type: "nop"}}})
	require.NoError(t, err)
	assert.NotNil(t, s)

	_, err = metrics.NewMetricsSink(metrics.Config{Sinks: []factory.ModuleConfig{{Type: "missing"}}})
	assert.Error(t, err)
}

func TestNewMetricsSink_Multi(t *testing.T) {
	s, err := metrics.NewMetricsSink(metrics.Config{})
	require.NoError(t, err)
	assert.IsType(t, metrics.NopSink{}, s)

	s, err = metrics.NewMetricsSink(metrics.Config{Sinks: []factory.ModuleConfig{{Type: "nop"}, {Type: "nop"}}})
	require.NoError(t, err)
	m, ok := s.(*metrics.MultiSink)
	require.True(t, ok, "expected MultiSink, got %T", s)
	assert.Len(t, m.Sinks, 2)
}

func TestConfigValidate(t *testing.T) {
	assert.NoError(t, metrics.Config{Sinks: []factory.ModuleConfig{{Type: "nop"}}}.Validate())
	assert.Error(t, metrics.Config{Sinks: []factory.ModuleConfig{{}}}.Validate())
}
