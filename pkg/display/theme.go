package display

import (
	"fmt"

	"github.com/kilianp07/teamgen/core/model"
)

// Theme names and colors the two teams.
type Theme struct {
	NameA  string `json:"team_a_name"`
	NameB  string `json:"team_b_name"`
	ColorA string `json:"team_a_color"`
	ColorB string `json:"team_b_color"`
}

// SetDefaults applies sane defaults.
func (t *Theme) SetDefaults() {
	if t.NameA == "" {
		t.NameA = "Team A"
	}
	if t.NameB == "" {
		t.NameB = "Team B"
	}
	if t.ColorA == "" {
		t.ColorA = DefaultColorA.CSS()
	}
	if t.ColorB == "" {
		t.ColorB = DefaultColorB.CSS()
	}
}

// Validate checks both colors parse.
func (t Theme) Validate() error {
	if _, err := ParseRGB(t.ColorA); err != nil {
		return fmt.Errorf("display.team_a_color: %w", err)
	}
	if _, err := ParseRGB(t.ColorB); err != nil {
		return fmt.Errorf("display.team_b_color: %w", err)
	}
	return nil
}

// Name returns the display name of side s.
func (t Theme) Name(s model.Side) string {
	if s == model.SideB {
		return t.NameB
	}
	return t.NameA
}

// Color returns the parsed color of side s, falling back to the default.
func (t Theme) Color(s model.Side) RGB {
	raw, def := t.ColorA, DefaultColorA
	if s == model.SideB {
		raw, def = t.ColorB, DefaultColorB
	}
	c, err := ParseRGB(raw)
	if err != nil {
		return def
	}
	return c
}
