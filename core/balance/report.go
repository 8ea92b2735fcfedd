package balance

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/kilianp07/teamgen/core/model"
)

// TeamSummary describes one generated team.
type TeamSummary struct {
	Size      int            `json:"size"`
	RatingSum float64        `json:"rating_sum"`
	Mean      float64        `json:"mean"`
	StdDev    float64        `json:"std_dev"`
	Score     float64        `json:"score"`
	Female    int            `json:"female"`
	Positions map[string]int `json:"positions"`
}

// Report summarizes a Result for presentation.
type Report struct {
	A     TeamSummary `json:"a"`
	B     TeamSummary `json:"b"`
	Delta float64     `json:"delta"`
}

// NewReport computes team summaries. RatingSum matches the totals compared
// by the search; Score subtracts offset for every displayed entry, half
// copies included. Position counts exclude half copies.
func NewReport(r Result, offset float64) Report {
	a := summarize(r.SideA, r.Members(model.SideA), offset)
	b := summarize(r.SideB, r.Members(model.SideB), offset)
	return Report{A: a, B: b, Delta: math.Abs(a.RatingSum - b.RatingSum)}
}

func summarize(displayed, members []model.Player, offset float64) TeamSummary {
	ratings := make([]float64, len(displayed))
	for i, p := range displayed {
		ratings[i] = p.Rating
	}
	s := TeamSummary{Size: len(displayed), Positions: make(map[string]int)}
	if len(ratings) == 0 {
		return s
	}
	s.RatingSum = floats.Sum(ratings)
	s.Mean, s.StdDev = stat.MeanStdDev(ratings, nil)
	if math.IsNaN(s.StdDev) {
		s.StdDev = 0
	}
	s.Score = s.RatingSum - offset*float64(len(ratings))
	for _, p := range members {
		if p.Female {
			s.Female++
		}
		for _, tag := range p.Positions {
			s.Positions[tag]++
		}
	}
	return s
}
