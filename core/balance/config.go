package balance

import (
	"fmt"
	"maps"

	"github.com/kilianp07/teamgen/core/model"
)

// Config defines balancing settings.
type Config struct {
	MaxRatingDelta    float64        `json:"max_rating_delta"`
	MaxTrials         int            `json:"max_trials"`
	MinPositionCounts map[string]int `json:"min_position_counts"`
	// SortByName orders each team alphabetically after generation.
	SortByName bool `json:"sort_by_name"`
	// ScoreOffset is subtracted per displayed player when computing the
	// presentation score. It never affects balancing.
	ScoreOffset *float64 `json:"score_offset"`
}

// DefaultScoreOffset is the per-player offset of the presentation score.
const DefaultScoreOffset = 5.0

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.MaxRatingDelta == 0 {
		c.MaxRatingDelta = 1.0
	}
	if c.MaxTrials <= 0 {
		c.MaxTrials = DefaultMaxTrials
	}
	if c.ScoreOffset == nil {
		off := DefaultScoreOffset
		c.ScoreOffset = &off
	}
}

// Validate checks the configured values.
func (c Config) Validate() error {
	if err := c.Constraints().Validate(); err != nil {
		return fmt.Errorf("balance: %w", err)
	}
	if c.MaxTrials < 0 {
		return fmt.Errorf("balance: max_trials must be >= 0")
	}
	return nil
}

// Constraints returns the acceptance settings as a model value.
func (c Config) Constraints() model.Constraints {
	return model.Constraints{
		MaxRatingDelta:    c.MaxRatingDelta,
		MinPositionCounts: maps.Clone(c.MinPositionCounts),
	}
}

// Offset returns the configured score offset or the default.
func (c Config) Offset() float64 {
	if c.ScoreOffset == nil {
		return DefaultScoreOffset
	}
	return *c.ScoreOffset
}
