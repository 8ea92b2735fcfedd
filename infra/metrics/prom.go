package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/kilianp07/teamgen/core/metrics"
)

// PromSink records generation attempts in Prometheus metrics.
type PromSink struct {
	generations *prometheus.CounterVec
	delta       prometheus.Histogram
	players     prometheus.Gauge
	rosters     *prometheus.CounterVec
	skipped     prometheus.Counter
}

// NewPromSink registers generation metrics on the default Prometheus registerer.
// The Prometheus server should be started separately using cfg.PrometheusPort.
func NewPromSink(cfg coremetrics.Config) (*PromSink, error) {
	return NewPromSinkWithRegistry(cfg, prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer. Collectors
// already registered by an earlier sink are reused.
func NewPromSinkWithRegistry(_ coremetrics.Config, reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	s := &PromSink{
		generations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "team_generations_total",
			Help: "Total number of team generation attempts",
		}, []string{"outcome"}),
		delta: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "team_generation_rating_delta",
			Help:    "Rating difference between the accepted teams",
			Buckets: prometheus.LinearBuckets(0, 0.25, 12),
		}),
		players: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "team_generation_players",
			Help: "Roster size of the last generation attempt",
		}),
		rosters: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "roster_imports_total",
			Help: "Total number of roster imports",
		}, []string{"source"}),
		skipped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "roster_rows_skipped_total",
			Help: "Malformed roster rows skipped during import",
		}),
	}

	var err error
	if s.generations, err = register(reg, s.generations); err != nil {
		return nil, err
	}
	if s.delta, err = register(reg, s.delta); err != nil {
		return nil, err
	}
	if s.players, err = register(reg, s.players); err != nil {
		return nil, err
	}
	if s.rosters, err = register(reg, s.rosters); err != nil {
		return nil, err
	}
	if s.skipped, err = register(reg, s.skipped); err != nil {
		return nil, err
	}
	return s, nil
}

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

// RecordGeneration counts the attempt by outcome. The delta is observed only
// for accepted generations.
func (s *PromSink) RecordGeneration(rec coremetrics.GenerationRecord) error {
	s.generations.WithLabelValues(rec.Outcome).Inc()
	s.players.Set(float64(rec.Players))
	if rec.Outcome == outcomeAccepted {
		s.delta.Observe(rec.Delta)
	}
	return nil
}

// RecordRosterImport counts imports per source kind and skipped rows.
func (s *PromSink) RecordRosterImport(ev coremetrics.RosterImport) error {
	s.rosters.WithLabelValues(sourceKind(ev.Source)).Inc()
	s.skipped.Add(float64(ev.Skipped))
	return nil
}
