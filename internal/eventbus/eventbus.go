// Package eventbus publishes and consumes the engine's three event topics
// (positions, load events, optimization results) over Kafka, grounded on the
// segmentio/kafka-go writer/reader pattern used for order events in the
// logistics examples. Callers depend on the Publisher/Subscriber interfaces;
// production wiring uses the Kafka adapter, tests use the in-memory bus.
package eventbus

import (
	"context"
	"time"
)

// Message is one envelope moving through the bus. Key is used for Kafka
// partition affinity (e.g. driver id, load id); Value is the JSON-encoded
// payload.
type Message struct {
	Topic   string
	Key     string
	Value   []byte
	Headers map[string]string
}

// Publisher writes messages to a topic.
type Publisher interface {
	Publish(ctx context.Context, msg Message) error
	Close() error
}

// Handler processes one consumed message; a non-nil error leaves the message
// uncommitted so it is redelivered.
type Handler func(ctx context.Context, msg Message) error

// Subscriber drains a topic, invoking handler for each message until ctx is
// done or Close is called.
type Subscriber interface {
	Subscribe(ctx context.Context, topic string, handler Handler) error
	Close() error
}

// EventMetadata is the envelope every outbound domain event carries, per
// spec §4.H: event identity, provenance, and the correlation id tying the
// event back to the job that produced it.
type EventMetadata struct {
	EventID       string    `json:"event_id"`
	EventType     string    `json:"event_type"`
	EventVersion  string    `json:"event_version"`
	EventTime     time.Time `json:"event_time"`
	Producer      string    `json:"producer"`
	CorrelationID string    `json:"correlation_id"`
	Category      string    `json:"category"`
}

// CategoryOptimization is the only category result events carry today
// (spec §4.H).
const CategoryOptimization = "OPTIMIZATION"
