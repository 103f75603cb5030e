package ingress

import (
	"encoding/json"

	"freightengine/internal/domain"
)

// DecodePosition parses a positions-topic message body into a domain.Position.
func DecodePosition(raw []byte) (domain.Position, error) {
	var wire PositionUpdate
	if err := json.Unmarshal(raw, &wire); err != nil {
		return domain.Position{}, err
	}
	return domain.Position{
		EntityType: domain.EntityType(wire.EntityType),
		EntityID:   wire.EntityID,
		Lat:        wire.Lat,
		Lon:        wire.Lon,
		Heading:    wire.Heading,
		Speed:      wire.Speed,
		Accuracy:   wire.Accuracy,
		Timestamp:  wire.Timestamp,
		Source:     wire.Source,
	}, nil
}

// DecodeLoadEvent parses a load-events-topic message body into a LoadEvent.
func DecodeLoadEvent(raw []byte) (LoadEvent, error) {
	var evt LoadEvent
	err := json.Unmarshal(raw, &evt)
	return evt, err
}
