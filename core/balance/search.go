package balance

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/kilianp07/teamgen/core/model"
)

// DefaultMaxTrials is the trial budget used when none is configured.
const DefaultMaxTrials = 100_000

// cancelCheckInterval is the number of trials between context checks.
const cancelCheckInterval = 1024

// quorum is one minimum-count requirement with the roster indices able to
// satisfy it precomputed.
type quorum struct {
	tag     string
	min     int
	holders []bool
}

func newQuorums(roster []model.Player, mins map[string]int) []quorum {
	tags := make([]string, 0, len(mins))
	for tag, n := range mins {
		if n > 0 {
			tags = append(tags, tag)
		}
	}
	sort.Strings(tags)
	qs := make([]quorum, 0, len(tags))
	for _, tag := range tags {
		q := quorum{tag: tag, min: mins[tag], holders: make([]bool, len(roster))}
		for i, p := range roster {
			q.holders[i] = p.HasPosition(tag)
		}
		qs = append(qs, q)
	}
	return qs
}

func (q quorum) met(side []int) bool {
	n := 0
	for _, i := range side {
		if q.holders[i] {
			n++
			if n >= q.min {
				return true
			}
		}
	}
	return false
}

// precheck detects requirements no split can meet: a tag needs at least
// 2*min holders, since the half member never counts.
func precheck(roster []model.Player, l layout, qs []quorum) error {
	for _, q := range qs {
		total, onA, onB := 0, 0, 0
		for i, ok := range q.holders {
			if !ok {
				continue
			}
			total++
			switch {
			case roster[i].PinnedTo(model.SideA):
				onA++
			case roster[i].PinnedTo(model.SideB):
				onB++
			}
		}
		if total < 2*q.min {
			return &UnsatisfiableError{Detail: fmt.Sprintf("position %q needs %d players per team but only %d players carry it", q.tag, q.min, total)}
		}
		free := total - onA - onB
		needA := max(q.min-onA, 0)
		needB := max(q.min-onB, 0)
		if needA+needB > free || needA > l.target-len(l.fixedA) || needB > l.target-len(l.fixedB) {
			return &UnsatisfiableError{Detail: fmt.Sprintf("position %q cannot reach %d players on both teams with the current team locks", q.tag, q.min)}
		}
	}
	return nil
}

// scorer evaluates candidates against the acceptance test.
type scorer struct {
	ratings  []float64
	maxDelta float64
	quorums  []quorum
}

func (s *scorer) totals(p *Partition) (float64, float64) {
	var a, b float64
	for _, i := range p.SideA {
		a += s.ratings[i]
	}
	for _, i := range p.SideB {
		b += s.ratings[i]
	}
	if p.HasHalf() {
		a += s.ratings[p.Half]
		b += s.ratings[p.Half]
	}
	return a, b
}

func (s *scorer) accept(p *Partition) bool {
	a, b := s.totals(p)
	if !(math.Abs(a-b) < s.maxDelta) {
		return false
	}
	for _, q := range s.quorums {
		if !q.met(p.SideA) || !q.met(p.SideB) {
			return false
		}
	}
	return true
}

func validateInput(roster []model.Player, c model.Constraints) error {
	if len(roster) == 0 {
		return invalidInput("roster is empty")
	}
	if err := c.Validate(); err != nil {
		return invalidInput("%v", err)
	}
	for _, p := range roster {
		if err := p.Validate(); err != nil {
			return invalidInput("%v", err)
		}
	}
	return nil
}

// Search returns the first random split that satisfies c within maxTrials
// attempts. A maxTrials <= 0 uses DefaultMaxTrials and a nil src uses
// DefaultSource.
func Search(roster []model.Player, c model.Constraints, maxTrials int, src RandomSource) (Result, error) {
	return SearchContext(context.Background(), roster, c, maxTrials, src)
}

// SearchContext is Search with cancellation. The context is checked every
// 1024 trials; on cancellation the context error is returned.
func SearchContext(ctx context.Context, roster []model.Player, c model.Constraints, maxTrials int, src RandomSource) (Result, error) {
	start := time.Now()
	res, err := search(ctx, roster, c, maxTrials, src)
	observeSearch(res.Trials, err, time.Since(start))
	return res, err
}

func search(ctx context.Context, roster []model.Player, c model.Constraints, maxTrials int, src RandomSource) (Result, error) {
	if maxTrials <= 0 {
		maxTrials = DefaultMaxTrials
	}
	if src == nil {
		src = DefaultSource()
	}
	if err := validateInput(roster, c); err != nil {
		return Result{}, err
	}
	l, err := newLayout(roster)
	if err != nil {
		return Result{}, err
	}
	if c.MaxRatingDelta == 0 {
		return Result{}, &UnsatisfiableError{Detail: "a max rating delta of 0 can never be met"}
	}
	qs := newQuorums(roster, c.MinPositionCounts)
	if err := precheck(roster, l, qs); err != nil {
		return Result{}, err
	}

	s := scorer{ratings: make([]float64, len(roster)), maxDelta: c.MaxRatingDelta, quorums: qs}
	for i, p := range roster {
		s.ratings[i] = p.Rating
	}

	pool := make([]int, 0, len(l.free))
	cand := Partition{SideA: make([]int, 0, l.target), SideB: make([]int, 0, l.target)}
	for trial := 1; trial <= maxTrials; trial++ {
		if (trial-1)%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return Result{Trials: trial - 1}, err
			}
		}
		if err := l.draw(src, pool, &cand); err != nil {
			return Result{}, err
		}
		if s.accept(&cand) {
			res := Materialize(roster, cand)
			res.Trials = trial
			return res, nil
		}
	}
	return Result{Trials: maxTrials}, &UnsatisfiableError{Trials: maxTrials}
}

// GenerateTeams splits roster into two balanced teams using the default
// random source and trial budget.
func GenerateTeams(roster []model.Player, maxRatingDelta float64, minPositionCounts map[string]int) ([]model.Player, []model.Player, error) {
	res, err := Search(roster, model.Constraints{MaxRatingDelta: maxRatingDelta, MinPositionCounts: minPositionCounts}, DefaultMaxTrials, nil)
	if err != nil {
		return nil, nil, err
	}
	return res.SideA, res.SideB, nil
}
