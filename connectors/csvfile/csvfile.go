// Package csvfile reads rosters from CSV files on disk.
package csvfile

import (
	"context"

	"github.com/kilianp07/teamgen/core/roster"
)

// Source reads the file at Path on every fetch.
type Source struct {
	Path string
}

func (s *Source) Name() string { return "file" }

func (s *Source) Fetch(ctx context.Context) (roster.Roster, error) {
	if err := ctx.Err(); err != nil {
		return roster.Roster{}, err
	}
	return roster.ParseFile(s.Path)
}
