package balance

import (
	"sort"

	"github.com/kilianp07/teamgen/core/model"
)

const (
	FirstHalfLabel  = "1st half"
	SecondHalfLabel = "2nd half"
)

// Result holds two independent team lists. When the roster had an odd size
// the shared player is appended last to each side, renamed with
// FirstHalfLabel on side A and SecondHalfLabel on side B.
type Result struct {
	SideA   []model.Player `json:"side_a"`
	SideB   []model.Player `json:"side_b"`
	RatingA float64        `json:"rating_a"`
	RatingB float64        `json:"rating_b"`
	// Trials is the number of candidates drawn before acceptance.
	Trials int `json:"trials"`
	// HalfName is the original name of the shared player, if any.
	HalfName string `json:"half_name,omitempty"`
}

// Delta returns the absolute rating difference between the sides.
func (r Result) Delta() float64 {
	if r.RatingA > r.RatingB {
		return r.RatingA - r.RatingB
	}
	return r.RatingB - r.RatingA
}

// Members returns the players of side s, excluding the half copy.
func (r Result) Members(s model.Side) []model.Player {
	side := r.SideA
	if s == model.SideB {
		side = r.SideB
	}
	if r.HalfName != "" && len(side) > 0 {
		return side[:len(side)-1]
	}
	return side
}

// SortByName orders the members of both sides alphabetically. Half copies
// stay last.
func (r *Result) SortByName() {
	for _, s := range []model.Side{model.SideA, model.SideB} {
		ps := r.Members(s)
		sort.SliceStable(ps, func(i, j int) bool { return ps[i].Name < ps[j].Name })
	}
}

// Materialize copies an accepted partition into owned team lists.
func Materialize(roster []model.Player, p Partition) Result {
	res := Result{
		SideA: make([]model.Player, 0, len(p.SideA)+1),
		SideB: make([]model.Player, 0, len(p.SideB)+1),
	}
	for _, i := range p.SideA {
		res.SideA = append(res.SideA, roster[i].Clone())
		res.RatingA += roster[i].Rating
	}
	for _, i := range p.SideB {
		res.SideB = append(res.SideB, roster[i].Clone())
		res.RatingB += roster[i].Rating
	}
	if p.HasHalf() {
		half := roster[p.Half]
		res.HalfName = half.Name
		res.SideA = append(res.SideA, half.HalfCopy(FirstHalfLabel))
		res.SideB = append(res.SideB, half.HalfCopy(SecondHalfLabel))
		res.RatingA += half.Rating
		res.RatingB += half.Rating
	}
	return res
}
