package balance

import "github.com/kilianp07/teamgen/core/model"

// NoHalf marks a Partition without a shared player.
const NoHalf = -1

// Partition is one candidate split expressed as indices into the roster.
// Every roster index appears exactly once across SideA, SideB and Half.
type Partition struct {
	SideA []int
	SideB []int
	// Half is the index of the player counted on both sides, or NoHalf.
	Half int
}

// HasHalf reports whether the partition shares a player between the sides.
func (p Partition) HasHalf() bool { return p.Half != NoHalf }

// layout groups roster indices by fixed side. It is computed once per roster
// and reused for every draw.
type layout struct {
	fixedA []int
	fixedB []int
	free   []int
	target int
}

// ValidateRoster checks that the fixed-side assignments fit in two teams of
// n/2 members each.
func ValidateRoster(roster []model.Player) error {
	_, err := newLayout(roster)
	return err
}

func newLayout(roster []model.Player) (layout, error) {
	l := layout{target: len(roster) / 2}
	for i, p := range roster {
		switch {
		case p.PinnedTo(model.SideA):
			l.fixedA = append(l.fixedA, i)
		case p.PinnedTo(model.SideB):
			l.fixedB = append(l.fixedB, i)
		default:
			l.free = append(l.free, i)
		}
	}
	if len(l.fixedA) > l.target {
		return layout{}, tooManyFixed(model.SideA, len(l.fixedA), l.target)
	}
	if len(l.fixedB) > l.target {
		return layout{}, tooManyFixed(model.SideB, len(l.fixedB), l.target)
	}
	return l, nil
}

// draw fills dst with one random candidate. pool is scratch space reset from
// l.free on every call so that consecutive draws only depend on src.
func (l *layout) draw(src RandomSource, pool []int, dst *Partition) error {
	pool = append(pool[:0], l.free...)
	src.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })

	dst.SideA = append(dst.SideA[:0], l.fixedA...)
	for len(dst.SideA) < l.target {
		last := len(pool) - 1
		dst.SideA = append(dst.SideA, pool[last])
		pool = pool[:last]
	}
	dst.SideB = append(dst.SideB[:0], l.fixedB...)
	for len(dst.SideB) < l.target {
		last := len(pool) - 1
		dst.SideB = append(dst.SideB, pool[last])
		pool = pool[:last]
	}

	switch len(pool) {
	case 0:
		dst.Half = NoHalf
	case 1:
		dst.Half = pool[0]
	default:
		return invalidInput("%d players left unplaced after filling both teams", len(pool))
	}
	return nil
}

// Partitioner produces random two-way splits of a roster.
type Partitioner struct {
	src RandomSource
}

// NewPartitioner returns a Partitioner drawing from src. A nil src uses
// DefaultSource.
func NewPartitioner(src RandomSource) *Partitioner {
	if src == nil {
		src = DefaultSource()
	}
	return &Partitioner{src: src}
}

// Partition draws one candidate split. Players pinned to a side always land
// on it; the remaining places are filled from a uniform shuffle of the free
// players, and on an odd roster the single leftover becomes the half member.
func (p *Partitioner) Partition(roster []model.Player) (Partition, error) {
	l, err := newLayout(roster)
	if err != nil {
		return Partition{}, err
	}
	var out Partition
	if err := l.draw(p.src, make([]int, 0, len(l.free)), &out); err != nil {
		return Partition{}, err
	}
	return out, nil
}
