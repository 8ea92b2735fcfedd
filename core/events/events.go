package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/kilianp07/teamgen/core/model"
)

// Event is implemented by every payload published on the bus.
type Event interface {
	Kind() string
}

// GenerationEvent is published after each generation attempt. Teams is
// empty when Err is set.
type GenerationEvent struct {
	ID          uuid.UUID
	Time        time.Time
	Players     int
	Constraints model.Constraints
	SideA       []model.Player
	SideB       []model.Player
	RatingA     float64
	RatingB     float64
	Trials      int
	Outcome     string
	Err         error
}

func (GenerationEvent) Kind() string { return "generation" }

// RosterEvent is published when a roster source has been parsed.
type RosterEvent struct {
	Source    string
	Attending int
	Skipped   int
	Time      time.Time
}

func (RosterEvent) Kind() string { return "roster" }
