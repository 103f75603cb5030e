package result

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"freightengine/internal/domain"
	"freightengine/internal/eventbus"
)

// EventVersion is the current schema version stamped on every published
// result event.
const EventVersion = "1.0"

// ProducerName identifies this engine as the producer field of every event
// it publishes (spec §4.H).
const ProducerName = "freightengine"

// eventTypeFor maps a completed job's kind to the outbound event type,
// per spec §4.H's routing table.
func eventTypeFor(kind domain.JobKind) string {
	switch kind {
	case domain.JobSmartHubIdentification:
		return "SMART_HUB_IDENTIFIED"
	case domain.JobRelayPlanning:
		return "RELAY_PLAN_CREATED"
	default:
		// LOAD_MATCHING, NETWORK_OPTIMIZATION, DEMAND_PREDICTION
		return "OPTIMIZATION_COMPLETED"
	}
}

// Publisher announces completed results on the optimization-results topic.
type Publisher struct {
	bus   eventbus.Publisher
	topic string
}

// NewPublisher constructs a Publisher writing to topic via bus.
func NewPublisher(bus eventbus.Publisher, topic string) *Publisher {
	return &Publisher{bus: bus, topic: topic}
}

// resultEvent is the wire envelope: metadata plus the full result payload.
type resultEvent struct {
	eventbus.EventMetadata
	Payload domain.OptimizationResult `json:"payload"`
}

// Publish emits the event corresponding to r.Kind, keyed by r.JobID so all
// events for one job land on the same partition.
func (p *Publisher) Publish(ctx context.Context, r domain.OptimizationResult) error {
	evt := resultEvent{
		EventMetadata: eventbus.EventMetadata{
			EventID:       uuid.NewString(),
			EventType:     eventTypeFor(r.Kind),
			EventVersion:  EventVersion,
			EventTime:     time.Now(),
			Producer:      ProducerName,
			CorrelationID: r.JobID,
			Category:      eventbus.CategoryOptimization,
		},
		Payload: r,
	}

	data, err := json.Marshal(evt)
	if err != nil {
		return err
	}

	return p.bus.Publish(ctx, eventbus.Message{
		Topic: p.topic,
		Key:   r.JobID,
		Value: data,
		Headers: map[string]string{
			"event-type": evt.EventType,
		},
	})
}
