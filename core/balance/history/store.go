// Package history persists generated teams so past sessions can be listed
// and audited.
package history

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/kilianp07/teamgen/core/model"
)

// Record captures one generation attempt and, when it succeeded, the teams.
type Record struct {
	ID          string            `json:"id"`
	Timestamp   time.Time         `json:"timestamp"`
	Players     int               `json:"players"`
	Constraints model.Constraints `json:"constraints"`
	SideA       []model.Player    `json:"side_a,omitempty"`
	SideB       []model.Player    `json:"side_b,omitempty"`
	RatingA     float64           `json:"rating_a"`
	RatingB     float64           `json:"rating_b"`
	Trials      int               `json:"trials"`
	Outcome     string            `json:"outcome"`
	Error       string            `json:"error,omitempty"`
}

// Query defines filters for retrieving records. Zero values match all.
type Query struct {
	Start time.Time
	End   time.Time
	// Player matches records where a team contains this player, including
	// as a half copy.
	Player  string
	Outcome string
	// Limit keeps only the most recent records when positive.
	Limit int
}

// Store persists Records and supports querying. Records are returned in
// chronological order.
type Store interface {
	Append(ctx context.Context, rec Record) error
	Query(ctx context.Context, q Query) ([]Record, error)
	Close() error
}

func (q Query) matches(r Record) bool {
	if !q.Start.IsZero() && r.Timestamp.Before(q.Start) {
		return false
	}
	if !q.End.IsZero() && r.Timestamp.After(q.End) {
		return false
	}
	if q.Outcome != "" && r.Outcome != q.Outcome {
		return false
	}
	if q.Player != "" && !hasPlayer(r.SideA, q.Player) && !hasPlayer(r.SideB, q.Player) {
		return false
	}
	return true
}

func hasPlayer(team []model.Player, name string) bool {
	return slices.ContainsFunc(team, func(p model.Player) bool {
		return p.Name == name || strings.HasPrefix(p.Name, name+" (")
	})
}

// finish sorts by timestamp and applies the limit.
func (q Query) finish(res []Record) []Record {
	slices.SortStableFunc(res, func(a, b Record) int { return a.Timestamp.Compare(b.Timestamp) })
	if q.Limit > 0 && len(res) > q.Limit {
		res = res[len(res)-q.Limit:]
	}
	return res
}
