package balance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigDefaults(t *testing.T) {
	var c Config
	c.SetDefaults()
	assert.Equal(t, 1.0, c.MaxRatingDelta)
	assert.Equal(t, DefaultMaxTrials, c.MaxTrials)
	assert.Equal(t, DefaultScoreOffset, c.Offset())
	require.NoError(t, c.Validate())

	zero := 0.0
	c = Config{ScoreOffset: &zero}
	c.SetDefaults()
	assert.Equal(t, 0.0, c.Offset())
}

func TestConfigValidate(t *testing.T) {
	c := Config{MaxRatingDelta: -1}
	assert.Error(t, c.Validate())

	c = Config{MaxRatingDelta: 1, MinPositionCounts: map[string]int{"gk": -1}}
	assert.Error(t, c.Validate())
}

func TestConfigConstraintsIsCopy(t *testing.T) {
	c := Config{MaxRatingDelta: 2, MinPositionCounts: map[string]int{"gk": 1}}
	cons := c.Constraints()
	cons.MinPositionCounts["gk"] = 3
	assert.Equal(t, 1, c.MinPositionCounts["gk"])
	assert.Equal(t, 2.0, cons.MaxRatingDelta)
}
