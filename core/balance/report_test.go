package balance

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kilianp07/teamgen/core/model"
)

func TestNewReport(t *testing.T) {
	roster := []model.Player{
		{Name: "Alex", Rating: 6, Positions: []string{"mid"}},
		{Name: "Sam", Rating: 8, Female: true},
		{Name: "Kim", Rating: 7, Positions: []string{"gk"}},
		{Name: "Lou", Rating: 7, Positions: []string{"mid", "fw"}},
	}
	res := Materialize(roster, Partition{SideA: []int{0, 1}, SideB: []int{2, 3}, Half: NoHalf})
	r := NewReport(res, DefaultScoreOffset)

	assert.Equal(t, 2, r.A.Size)
	assert.Equal(t, 14.0, r.A.RatingSum)
	assert.Equal(t, 4.0, r.A.Score)
	assert.Equal(t, 7.0, r.A.Mean)
	assert.InDelta(t, math.Sqrt2, r.A.StdDev, 1e-9)
	assert.Equal(t, 1, r.A.Female)
	assert.Equal(t, map[string]int{"mid": 1}, r.A.Positions)

	assert.Equal(t, 0.0, r.B.StdDev)
	assert.Equal(t, map[string]int{"gk": 1, "mid": 1, "fw": 1}, r.B.Positions)
	assert.Equal(t, 0.0, r.Delta)
}

func TestNewReportHalfCountsInScoreOnly(t *testing.T) {
	roster := []model.Player{
		{Name: "Alex", Rating: 6},
		{Name: "Sam", Rating: 8},
		{Name: "Kim", Rating: 5, Positions: []string{"gk"}, Female: true},
	}
	res := Materialize(roster, Partition{SideA: []int{0}, SideB: []int{1}, Half: 2})
	r := NewReport(res, 5)
	assert.Equal(t, 2, r.A.Size)
	assert.Equal(t, 11.0, r.A.RatingSum)
	assert.Equal(t, 1.0, r.A.Score)
	assert.Equal(t, 0, r.A.Female)
	assert.Empty(t, r.A.Positions)
	assert.Equal(t, 2.0, r.Delta)
}

func TestNewReportSingleMember(t *testing.T) {
	res := Materialize([]model.Player{{Name: "A", Rating: 4}, {Name: "B", Rating: 4}}, Partition{SideA: []int{0}, SideB: []int{1}, Half: NoHalf})
	r := NewReport(res, 0)
	assert.Equal(t, 0.0, r.A.StdDev)
	assert.Equal(t, 4.0, r.A.Score)
}
