package mqtt

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/kilianp07/teamgen/core/events"
	coremqtt "github.com/kilianp07/teamgen/core/mqtt"
	"github.com/kilianp07/teamgen/infra/logger"
	"github.com/kilianp07/teamgen/internal/eventbus"
)

// TeamMessage is one side in a published result.
type TeamMessage struct {
	Players []string `json:"players"`
	Rating  float64  `json:"rating"`
}

// ResultMessage is the JSON payload published for every generation attempt.
type ResultMessage struct {
	MessageID    string       `json:"message_id"`
	GenerationID string       `json:"generation_id"`
	Timestamp    int64        `json:"timestamp"`
	Outcome      string       `json:"outcome"`
	Players      int          `json:"players"`
	Trials       int          `json:"trials"`
	TeamA        *TeamMessage `json:"team_a,omitempty"`
	TeamB        *TeamMessage `json:"team_b,omitempty"`
	Error        string       `json:"error,omitempty"`
}

type publishClient interface {
	Publish(ctx context.Context, topic string, qos byte, retain bool, payload []byte) error
}

// ResultPublisher implements core/mqtt.Publisher on top of a PahoClient.
type ResultPublisher struct {
	cli    publishClient
	topic  string
	qos    byte
	retain bool
}

var _ coremqtt.Publisher = (*ResultPublisher)(nil)

// NewResultPublisher publishes on cfg.ResultsTopic through cli.
func NewResultPublisher(cli *PahoClient, cfg Config) *ResultPublisher {
	cfg.SetDefaults()
	return &ResultPublisher{cli: cli, topic: cfg.ResultsTopic, qos: cfg.QoS, retain: cfg.Retain}
}

// NewMessage converts a generation event into its wire form.
func NewMessage(ev events.GenerationEvent) ResultMessage {
	msg := ResultMessage{
		MessageID:    uuid.NewString(),
		GenerationID: ev.ID.String(),
		Timestamp:    ev.Time.UnixMilli(),
		Outcome:      ev.Outcome,
		Players:      ev.Players,
		Trials:       ev.Trials,
	}
	if ev.Err != nil {
		msg.Error = ev.Err.Error()
		return msg
	}
	msg.TeamA = &TeamMessage{Rating: ev.RatingA}
	for _, p := range ev.SideA {
		msg.TeamA.Players = append(msg.TeamA.Players, p.Name)
	}
	msg.TeamB = &TeamMessage{Rating: ev.RatingB}
	for _, p := range ev.SideB {
		msg.TeamB.Players = append(msg.TeamB.Players, p.Name)
	}
	return msg
}

// PublishGeneration sends ev as a ResultMessage.
func (p *ResultPublisher) PublishGeneration(ctx context.Context, ev events.GenerationEvent) (string, error) {
	msg := NewMessage(ev)
	payload, err := json.Marshal(msg)
	if err != nil {
		return "", err
	}
	if err := p.cli.Publish(ctx, p.topic, p.qos, p.retain, payload); err != nil {
		return "", err
	}
	return msg.MessageID, nil
}

// Notifier forwards generation events from a bus to a Publisher.
type Notifier struct {
	bus *eventbus.TypedBus[events.Event]
	sub <-chan events.Event
	pub coremqtt.Publisher
	log logger.Logger
}

// NewNotifier subscribes to bus right away so no event published after it
// returns is missed.
func NewNotifier(bus *eventbus.TypedBus[events.Event], pub coremqtt.Publisher) (*Notifier, error) {
	if bus == nil || pub == nil {
		return nil, errors.New("mqtt notifier: bus and publisher are required")
	}
	return &Notifier{bus: bus, sub: bus.Subscribe(), pub: pub, log: logger.New("mqtt_notifier")}, nil
}

// Run forwards events until ctx is canceled or the bus is closed. Events
// already buffered when the bus closes are still delivered.
func (n *Notifier) Run(ctx context.Context) {
	defer n.bus.Unsubscribe(n.sub)
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-n.sub:
			if !ok {
				return
			}
			if ge, ok := ev.(events.GenerationEvent); ok {
				n.forward(ctx, ge)
			}
		}
	}
}

func (n *Notifier) forward(ctx context.Context, ge events.GenerationEvent) {
	pctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	id, err := n.pub.PublishGeneration(pctx, ge)
	if err != nil {
		n.log.Errorf("publish generation %s: %v", ge.ID, err)
		return
	}
	n.log.Debugf("published generation %s as %s", ge.ID, id)
}
