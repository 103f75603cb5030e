package ingress

import "time"

// PositionUpdate is the positions-topic payload (spec §6).
type PositionUpdate struct {
	EntityType string    `json:"entity_type"`
	EntityID   string    `json:"entity_id"`
	Lat        float64   `json:"lat"`
	Lon        float64   `json:"lon"`
	Heading    float64   `json:"heading"`
	Speed      float64   `json:"speed"`
	Accuracy   float64   `json:"accuracy"`
	Timestamp  time.Time `json:"timestamp"`
	Source     string    `json:"source"`
}

// LoadEventMetadata carries the event_type discriminator of a load-events
// message (spec §6); ingress acts only on LOAD_STATUS_CHANGED.
type LoadEventMetadata struct {
	EventType string `json:"event_type"`
}

// LoadEventPayload is the body of a LOAD_STATUS_CHANGED message.
type LoadEventPayload struct {
	LoadID           string    `json:"load_id"`
	PreviousStatus   string    `json:"previous_status"`
	NewStatus        string    `json:"new_status"`
	PickupLat        float64   `json:"pickup_lat"`
	PickupLon        float64   `json:"pickup_lon"`
	DeliveryLat      float64   `json:"delivery_lat"`
	DeliveryLon      float64   `json:"delivery_lon"`
	PickupEarliest   time.Time `json:"pickup_earliest"`
	PickupLatest     time.Time `json:"pickup_latest"`
}

// LoadEvent is the full load-events topic payload.
type LoadEvent struct {
	Metadata LoadEventMetadata `json:"metadata"`
	Payload  LoadEventPayload  `json:"payload"`
}

const loadEventTypeStatusChanged = "LOAD_STATUS_CHANGED"
