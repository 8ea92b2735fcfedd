// Package metrics defines the sinks that record generation attempts and
// roster imports. Implementations such as the Prometheus and InfluxDB sinks
// live in infra/metrics and register themselves with RegisterMetricsSink;
// NewMetricsSink returns a MultiSink when several sinks are configured.
package metrics
