package balance

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/teamgen/core/model"
)

func countTag(ps []model.Player, tag string) int {
	n := 0
	for _, p := range ps {
		if p.HasPosition(tag) {
			n++
		}
	}
	return n
}

func TestSearchBalancedEvenRoster(t *testing.T) {
	roster := makeRoster(3, 4, 5, 5, 6, 6, 7, 8, 8, 10)
	for seed := uint64(0); seed < 25; seed++ {
		res, err := Search(roster, model.Constraints{MaxRatingDelta: 1}, 0, NewSeededSource(seed))
		require.NoError(t, err)
		assert.Len(t, res.SideA, 5)
		assert.Len(t, res.SideB, 5)
		assert.Empty(t, res.HalfName)
		assert.Less(t, math.Abs(res.RatingA-res.RatingB), 1.0)
		assert.GreaterOrEqual(t, res.Trials, 1)
	}
}

func TestSearchOddRosterDuplicatesHalf(t *testing.T) {
	roster := makeRoster(5, 6, 7, 5, 6)
	res, err := Search(roster, model.Constraints{MaxRatingDelta: 1.5}, 0, NewSeededSource(11))
	require.NoError(t, err)
	require.Len(t, res.SideA, 3)
	require.Len(t, res.SideB, 3)
	require.NotEmpty(t, res.HalfName)

	first := res.SideA[2]
	second := res.SideB[2]
	assert.Equal(t, res.HalfName+" (1st half)", first.Name)
	assert.Equal(t, res.HalfName+" (2nd half)", second.Name)
	assert.Equal(t, first.Rating, second.Rating)

	var a, b float64
	for _, p := range res.SideA {
		a += p.Rating
	}
	for _, p := range res.SideB {
		b += p.Rating
	}
	assert.InDelta(t, a, res.RatingA, 1e-9)
	assert.InDelta(t, b, res.RatingB, 1e-9)
	assert.Less(t, res.Delta(), 1.5)
}

func TestSearchSinglePlayer(t *testing.T) {
	res, err := Search(makeRoster(7), model.Constraints{MaxRatingDelta: 1}, 0, NewSeededSource(1))
	require.NoError(t, err)
	assert.Equal(t, []string{"P00 (1st half)"}, names(res.SideA))
	assert.Equal(t, []string{"P00 (2nd half)"}, names(res.SideB))
	assert.Equal(t, 1, res.Trials)
}

func TestSearchFixedSides(t *testing.T) {
	roster := makeRoster(9, 8, 7, 6, 5, 4, 3, 2)
	roster[0] = pin(roster[0], model.SideA)
	roster[1] = pin(roster[1], model.SideB)
	res, err := Search(roster, model.Constraints{MaxRatingDelta: 2}, 0, NewSeededSource(5))
	require.NoError(t, err)
	assert.Contains(t, names(res.SideA), "P00")
	assert.Contains(t, names(res.SideB), "P01")
}

func TestSearchPositionQuorum(t *testing.T) {
	roster := makeRoster(5, 5, 5, 5, 5, 5, 5, 5, 5, 5)
	roster[0] = tag(roster[0], "gk")
	roster[1] = tag(roster[1], "gk")
	roster[2] = tag(roster[2], "df")
	roster[3] = tag(roster[3], "df", "mid")
	roster[4] = tag(roster[4], "df")
	roster[5] = tag(roster[5], "df")
	mins := map[string]int{"gk": 1, "df": 2, "fw": 0}
	for seed := uint64(0); seed < 20; seed++ {
		res, err := Search(roster, model.Constraints{MaxRatingDelta: 1, MinPositionCounts: mins}, 0, NewSeededSource(seed))
		require.NoError(t, err)
		assert.Equal(t, 1, countTag(res.SideA, "gk"))
		assert.Equal(t, 1, countTag(res.SideB, "gk"))
		assert.Equal(t, 2, countTag(res.SideA, "df"))
		assert.Equal(t, 2, countTag(res.SideB, "df"))
	}
}

func TestSearchHalfMemberIgnoredForQuorum(t *testing.T) {
	roster := makeRoster(5, 5, 5)
	roster[0] = tag(roster[0], "gk")
	roster[1] = tag(roster[1], "gk")
	res, err := Search(roster, model.Constraints{MaxRatingDelta: 1, MinPositionCounts: map[string]int{"gk": 1}}, 0, NewSeededSource(2))
	require.NoError(t, err)
	assert.Equal(t, "P02", res.HalfName)
	assert.Equal(t, 1, countTag(res.Members(model.SideA), "gk"))
	assert.Equal(t, 1, countTag(res.Members(model.SideB), "gk"))
}

func TestSearchImpossibleQuorum(t *testing.T) {
	roster := makeRoster(5, 5, 5, 5)
	roster[0] = tag(roster[0], "gk")
	_, err := Search(roster, model.Constraints{MaxRatingDelta: 10, MinPositionCounts: map[string]int{"gk": 1}}, 0, NewSeededSource(1))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsatisfiable))
	assert.Contains(t, err.Error(), "loosen the max rating delta or the min position counts")
}

func TestSearchQuorumBlockedByPins(t *testing.T) {
	roster := makeRoster(5, 5, 5, 5)
	roster[0] = pin(tag(roster[0], "gk"), model.SideA)
	roster[1] = pin(tag(roster[1], "gk"), model.SideA)
	_, err := Search(roster, model.Constraints{MaxRatingDelta: 10, MinPositionCounts: map[string]int{"gk": 1}}, 0, nil)
	assert.ErrorIs(t, err, ErrUnsatisfiable)
}

func TestSearchExhaustsBudget(t *testing.T) {
	_, err := Search(makeRoster(0, 10), model.Constraints{MaxRatingDelta: 1}, 50, NewSeededSource(1))
	require.Error(t, err)
	var uerr *UnsatisfiableError
	require.ErrorAs(t, err, &uerr)
	assert.Equal(t, 50, uerr.Trials)
	assert.Equal(t, "no balanced teams found after 50 trials; loosen the max rating delta or the min position counts", err.Error())
}

func TestSearchDeltaIsStrict(t *testing.T) {
	_, err := Search(makeRoster(5, 6), model.Constraints{MaxRatingDelta: 1}, 100, NewSeededSource(1))
	assert.ErrorIs(t, err, ErrUnsatisfiable)

	res, err := Search(makeRoster(5, 6), model.Constraints{MaxRatingDelta: 1.01}, 100, NewSeededSource(1))
	require.NoError(t, err)
	assert.Equal(t, 1, res.Trials)
}

func TestSearchZeroDelta(t *testing.T) {
	_, err := Search(makeRoster(5, 5), model.Constraints{MaxRatingDelta: 0}, 0, nil)
	assert.ErrorIs(t, err, ErrUnsatisfiable)
}

func TestSearchConfigurationErrors(t *testing.T) {
	_, err := Search(nil, model.Constraints{MaxRatingDelta: 1}, 0, nil)
	assert.ErrorIs(t, err, ErrConfiguration)

	_, err = Search(makeRoster(5, 5), model.Constraints{MaxRatingDelta: -1}, 0, nil)
	assert.ErrorIs(t, err, ErrConfiguration)

	bad := makeRoster(5, 5)
	bad[0].Positions = []string{"GK"}
	_, err = Search(bad, model.Constraints{MaxRatingDelta: 1}, 0, nil)
	assert.ErrorIs(t, err, ErrConfiguration)

	pinned := makeRoster(5, 5)
	pinned[0] = pin(pinned[0], model.SideA)
	pinned[1] = pin(pinned[1], model.SideA)
	_, err = Search(pinned, model.Constraints{MaxRatingDelta: 1}, 0, nil)
	assert.ErrorIs(t, err, ErrConfiguration)
	assert.NotErrorIs(t, err, ErrUnsatisfiable)
}

func TestSearchCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := SearchContext(ctx, makeRoster(0, 10), model.Constraints{MaxRatingDelta: 1}, 0, NewSeededSource(1))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, res.Trials)
}

func TestSearchDeterministic(t *testing.T) {
	roster := makeRoster(2, 3, 4, 5, 6, 7, 8, 9, 4.5)
	c := model.Constraints{MaxRatingDelta: 0.75}
	a, err := Search(roster, c, 0, NewSeededSource(99))
	require.NoError(t, err)
	b, err := Search(roster, c, 0, NewSeededSource(99))
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestSearchLeavesRosterUntouched(t *testing.T) {
	roster := makeRoster(5, 6, 7)
	roster[0] = tag(roster[0], "gk")
	before := make([]model.Player, len(roster))
	for i, p := range roster {
		before[i] = p.Clone()
	}
	_, err := Search(roster, model.Constraints{MaxRatingDelta: 5}, 0, NewSeededSource(1))
	require.NoError(t, err)
	assert.Equal(t, before, roster)
}

func TestGenerateTeams(t *testing.T) {
	roster := makeRoster(6, 6, 6, 6)
	a, b, err := GenerateTeams(roster, 1, nil)
	require.NoError(t, err)
	assert.Len(t, a, 2)
	assert.Len(t, b, 2)

	_, _, err = GenerateTeams(makeRoster(0, 10), 1, nil)
	assert.ErrorIs(t, err, ErrUnsatisfiable)
}
