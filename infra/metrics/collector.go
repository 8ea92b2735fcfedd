package metrics

import (
	"context"
	"strings"

	"github.com/kilianp07/teamgen/core/events"
	coremetrics "github.com/kilianp07/teamgen/core/metrics"
	"github.com/kilianp07/teamgen/internal/eventbus"
)

// outcomeAccepted mirrors balance.OutcomeAccepted without importing the core.
const outcomeAccepted = "accepted"

// StartEventCollector subscribes to the event bus and records metrics for
// roster events. Generation attempts are recorded by the generator itself.
// It stops when the context is canceled or the bus is closed.
func StartEventCollector(ctx context.Context, bus *eventbus.TypedBus[events.Event], sink coremetrics.MetricsSink) {
	if bus == nil || sink == nil {
		return
	}
	rec, ok := sink.(coremetrics.RosterRecorder)
	if !ok {
		return
	}
	sub := bus.Subscribe()
	go func() {
		defer bus.Unsubscribe(sub)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-sub:
				if !ok {
					return
				}
				if e, ok := ev.(events.RosterEvent); ok {
					_ = rec.RecordRosterImport(coremetrics.RosterImport{
						Source:    e.Source,
						Attending: e.Attending,
						Skipped:   e.Skipped,
						Time:      e.Time,
					})
				}
			}
		}
	}()
}

// sourceKind reduces a roster reference to a low-cardinality label.
func sourceKind(src string) string {
	switch {
	case src == "":
		return "unknown"
	case strings.Contains(src, "docs.google.com"):
		return "sheet"
	case strings.HasPrefix(src, "http://"), strings.HasPrefix(src, "https://"):
		return "http"
	case src == "-", src == "request":
		return src
	default:
		return "file"
	}
}
