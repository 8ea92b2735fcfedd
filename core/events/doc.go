// Package events defines the events emitted on the event bus.
//
// Available event types:
//   - GenerationEvent: a team generation finished, successfully or not
//   - RosterEvent: a roster was loaded from a file, a sheet or a request body
package events
