package balance

import (
	"fmt"

	"github.com/kilianp07/teamgen/core/model"
)

func makeRoster(ratings ...float64) []model.Player {
	out := make([]model.Player, len(ratings))
	for i, r := range ratings {
		out[i] = model.Player{Name: fmt.Sprintf("P%02d", i), Rating: r}
	}
	return out
}

func pin(p model.Player, s model.Side) model.Player {
	p.FixedSide = &s
	return p
}

func tag(p model.Player, tags ...string) model.Player {
	p.Positions = tags
	return p
}

func names(ps []model.Player) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.Name
	}
	return out
}
