package balance

import (
	"errors"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// collectorsMu guards swapping the collectors in ResetMetrics against
	// concurrent searches.
	collectorsMu   sync.RWMutex
	searchTrials   prometheus.Histogram
	searchDuration prometheus.Histogram
	searchOutcomes *prometheus.CounterVec
)

const (
	OutcomeAccepted      = "accepted"
	OutcomeUnsatisfiable = "unsatisfiable"
	OutcomeConfiguration = "configuration_error"
	OutcomeCancelled     = "cancelled"
)

// newCollectors creates new metric collectors.
func newCollectors() (prometheus.Histogram, prometheus.Histogram, *prometheus.CounterVec) {
	trials := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "balance_search_trials",
		Help:    "Number of candidate splits drawn per search",
		Buckets: prometheus.ExponentialBuckets(1, 4, 10),
	})
	dur := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "balance_search_duration_seconds",
		Help:    "Wall time spent in a balance search",
		Buckets: prometheus.DefBuckets,
	})
	outcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "balance_searches_total",
		Help: "Number of balance searches by outcome",
	}, []string{"outcome"})
	return trials, dur, outcomes
}

func init() {
	searchTrials, searchDuration, searchOutcomes = newCollectors()
	MustRegisterMetrics(nil)
}

// MustRegisterMetrics registers search metrics on the provided registry.
// If reg is nil, prometheus.DefaultRegisterer is used.
func MustRegisterMetrics(reg prometheus.Registerer) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	collectorsMu.RLock()
	defer collectorsMu.RUnlock()
	reg.MustRegister(searchTrials, searchDuration, searchOutcomes)
}

// ResetMetrics reinitializes metrics collectors for testing purposes and
// registers them on the provided registry if not nil. Searches running
// concurrently report to either the old or the new collectors.
func ResetMetrics(reg prometheus.Registerer) {
	trials, dur, outcomes := newCollectors()
	collectorsMu.Lock()
	searchTrials, searchDuration, searchOutcomes = trials, dur, outcomes
	collectorsMu.Unlock()
	if reg != nil {
		reg.MustRegister(trials, dur, outcomes)
	}
}

// Outcome classifies a search error for metrics and events.
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeAccepted
	case errors.Is(err, ErrUnsatisfiable):
		return OutcomeUnsatisfiable
	case errors.Is(err, ErrConfiguration):
		return OutcomeConfiguration
	default:
		return OutcomeCancelled
	}
}

func observeSearch(trials int, err error, d time.Duration) {
	collectorsMu.RLock()
	defer collectorsMu.RUnlock()
	searchOutcomes.WithLabelValues(Outcome(err)).Inc()
	searchDuration.Observe(d.Seconds())
	if trials > 0 {
		searchTrials.Observe(float64(trials))
	}
}
