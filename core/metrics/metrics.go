package metrics

import (
	"time"

	"github.com/google/uuid"
)

// GenerationRecord describes one generation attempt to be recorded.
type GenerationRecord struct {
	ID       uuid.UUID
	Time     time.Time
	Players  int
	RatingA  float64
	RatingB  float64
	Delta    float64
	MaxDelta float64
	Trials   int
	// Outcome is one of the balance.Outcome* values.
	Outcome  string
	Duration time.Duration
	HalfName string
}

// MetricsSink records generation attempts for observability purposes.
type MetricsSink interface {
	RecordGeneration(rec GenerationRecord) error
}

// RosterImport captures the result of parsing a roster source.
type RosterImport struct {
	Source    string
	Attending int
	Skipped   int
	Time      time.Time
}

// RosterRecorder records roster imports.
type RosterRecorder interface {
	RecordRosterImport(ev RosterImport) error
}

// NopSink implements MetricsSink with no-op methods.
type NopSink struct{}

func (NopSink) RecordGeneration(GenerationRecord) error { return nil }
func (NopSink) RecordRosterImport(RosterImport) error   { return nil }
