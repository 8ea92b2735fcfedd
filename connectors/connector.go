// Package connectors defines the roster sources teamgen can read from.
package connectors

import (
	"context"

	"github.com/kilianp07/teamgen/core/roster"
)

// ErrIncompatibleOption is the format of errors returned when an option is
// applied to a source that does not support it.
const ErrIncompatibleOption = "option %s is not compatible with source %s"

// Source loads a roster.
type Source interface {
	// Name identifies the source in logs and events.
	Name() string
	Fetch(ctx context.Context) (roster.Roster, error)
}

// Option configures a Source.
type Option func(Source) error
