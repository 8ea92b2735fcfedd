package model

import (
	"fmt"
	"math"
	"slices"
	"strings"
)

// Side identifies one of the two generated teams.
type Side int

const (
	SideA Side = iota
	SideB
)

func (s Side) String() string {
	switch s {
	case SideA:
		return "A"
	case SideB:
		return "B"
	default:
		return "unknown"
	}
}

// MarshalText encodes s as "A" or "B".
func (s Side) MarshalText() ([]byte, error) {
	if s != SideA && s != SideB {
		return nil, fmt.Errorf("invalid side %d", int(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText accepts "A" or "B", case-insensitively.
func (s *Side) UnmarshalText(b []byte) error {
	side := SideFromToken(strings.ToUpper(strings.TrimSpace(string(b))))
	if side == nil {
		return fmt.Errorf("invalid side %q", b)
	}
	*s = *side
	return nil
}

// SideFromToken maps an ingestion token to a side. Only "A" and "B" pin a
// player; anything else leaves the player unassigned.
func SideFromToken(tok string) *Side {
	switch tok {
	case "A":
		s := SideA
		return &s
	case "B":
		s := SideB
		return &s
	default:
		return nil
	}
}

// Player represents one rated attendee of a session.
type Player struct {
	Name   string  `json:"name"`
	Rating float64 `json:"rating"`
	// Female is display-only and never used by the balancer.
	Female bool `json:"female"`
	// FixedSide pins the player to a team before randomization. Nil means
	// the balancer is free to place the player.
	FixedSide *Side `json:"fixed_side,omitempty"`
	// Positions holds lowercase role tags such as "gk", "df", "mid", "fw".
	Positions []string `json:"positions,omitempty"`
}

// Validate checks that the player record is usable by the balancer.
func (p Player) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("player name is required")
	}
	if math.IsNaN(p.Rating) || math.IsInf(p.Rating, 0) {
		return fmt.Errorf("player %q: rating must be finite", p.Name)
	}
	if p.FixedSide != nil && *p.FixedSide != SideA && *p.FixedSide != SideB {
		return fmt.Errorf("player %q: invalid fixed side %d", p.Name, *p.FixedSide)
	}
	for _, tag := range p.Positions {
		if tag == "" || tag != strings.ToLower(tag) {
			return fmt.Errorf("player %q: position tag %q must be lowercase and non-empty", p.Name, tag)
		}
	}
	return nil
}

// HasPosition reports whether the player carries the given role tag.
func (p Player) HasPosition(tag string) bool {
	return slices.Contains(p.Positions, tag)
}

// PinnedTo reports whether the player is fixed to side s.
func (p Player) PinnedTo(s Side) bool {
	return p.FixedSide != nil && *p.FixedSide == s
}

// Clone returns an independent copy of the player.
func (p Player) Clone() Player {
	cp := p
	if p.FixedSide != nil {
		s := *p.FixedSide
		cp.FixedSide = &s
	}
	if p.Positions != nil {
		cp.Positions = slices.Clone(p.Positions)
	}
	return cp
}

// HalfCopy returns an independent copy renamed "{name} ({label})".
func (p Player) HalfCopy(label string) Player {
	cp := p.Clone()
	cp.Name = fmt.Sprintf("%s (%s)", p.Name, label)
	return cp
}

// Constraints configures the acceptance test of a generated split.
type Constraints struct {
	// MaxRatingDelta is compared with a strict less-than against the
	// absolute difference of the two rating totals.
	MaxRatingDelta float64 `json:"max_rating_delta"`
	// MinPositionCounts maps a role tag to the minimum number of players
	// carrying it on each side. Missing tags impose no requirement.
	MinPositionCounts map[string]int `json:"min_position_counts,omitempty"`
}

// Validate checks the constraint values.
func (c Constraints) Validate() error {
	if math.IsNaN(c.MaxRatingDelta) || math.IsInf(c.MaxRatingDelta, 0) || c.MaxRatingDelta < 0 {
		return fmt.Errorf("max rating delta must be a non-negative number, got %v", c.MaxRatingDelta)
	}
	for tag, n := range c.MinPositionCounts {
		if n < 0 {
			return fmt.Errorf("min count for position %q must be >= 0, got %d", tag, n)
		}
	}
	return nil
}
