// Package export writes generated teams in machine readable formats.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/kilianp07/teamgen/core/balance"
	"github.com/kilianp07/teamgen/core/model"
	"github.com/kilianp07/teamgen/pkg/display"
)

// Formats accepted by Write.
const (
	FormatCSV   = "csv"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
	FormatChart = "html"
)

// Team is the serialized form of one side.
type Team struct {
	Name    string         `json:"name" yaml:"name"`
	Color   string         `json:"color,omitempty" yaml:"color,omitempty"`
	Rating  float64        `json:"rating" yaml:"rating"`
	Score   float64        `json:"score" yaml:"score"`
	Players []model.Player `json:"players" yaml:"players"`
}

// Teams is the serialized form of a generation.
type Teams struct {
	ID     string  `json:"id,omitempty" yaml:"id,omitempty"`
	A      Team    `json:"team_a" yaml:"team_a"`
	B      Team    `json:"team_b" yaml:"team_b"`
	Delta  float64 `json:"delta" yaml:"delta"`
	Trials int     `json:"trials" yaml:"trials"`
}

// FromGeneration builds the exported view of gen named and colored by theme.
func FromGeneration(gen balance.Generation, theme display.Theme) Teams {
	team := func(s model.Side, players []model.Player, sum balance.TeamSummary) Team {
		return Team{
			Name:    theme.Name(s),
			Color:   theme.Color(s).Hex(),
			Rating:  sum.RatingSum,
			Score:   sum.Score,
			Players: players,
		}
	}
	out := Teams{
		A:      team(model.SideA, gen.Result.SideA, gen.Report.A),
		B:      team(model.SideB, gen.Result.SideB, gen.Report.B),
		Delta:  gen.Report.Delta,
		Trials: gen.Result.Trials,
	}
	if gen.ID != uuid.Nil {
		out.ID = gen.ID.String()
	}
	return out
}

// Write encodes t in format.
func Write(w io.Writer, format string, t Teams) error {
	switch strings.ToLower(format) {
	case FormatCSV:
		return WriteCSV(w, t)
	case FormatJSON:
		return WriteJSON(w, t)
	case FormatYAML, "yml":
		return WriteYAML(w, t)
	case FormatChart:
		return WriteChart(w, t)
	default:
		return fmt.Errorf("unsupported export format %q", format)
	}
}

// WriteJSON writes t as indented JSON.
func WriteJSON(w io.Writer, t Teams) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(t)
}

// WriteYAML writes t as YAML.
func WriteYAML(w io.Writer, t Teams) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(t); err != nil {
		return err
	}
	return enc.Close()
}

// WriteCSV writes one row per player in the order they are displayed.
func WriteCSV(w io.Writer, t Teams) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"team", "position", "name", "rating", "female", "positions"}); err != nil {
		return err
	}
	for _, team := range []Team{t.A, t.B} {
		for i, p := range team.Players {
			rec := []string{
				team.Name,
				strconv.Itoa(i + 1),
				p.Name,
				strconv.FormatFloat(p.Rating, 'f', -1, 64),
				strconv.FormatBool(p.Female),
				strings.Join(p.Positions, "/"),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}
