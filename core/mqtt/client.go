package mqtt

import (
	"context"

	"github.com/kilianp07/teamgen/core/events"
)

// Publisher announces generation attempts to remote subscribers.
type Publisher interface {
	// PublishGeneration sends ev and returns the identifier of the message
	// carrying it.
	PublishGeneration(ctx context.Context, ev events.GenerationEvent) (messageID string, err error)
}
