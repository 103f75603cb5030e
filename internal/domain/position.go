// Package domain defines the core record types of the freight optimization
// engine: positions, drivers, loads, hubs, optimization jobs and results,
// and relay plans. Types here are plain structs with no persistence or
// transport coupling; repositories and the algorithmic components depend
// only on these shapes.
package domain

import "time"

// EntityType distinguishes the kind of entity a Position belongs to.
type EntityType string

const (
	EntityDriver EntityType = "DRIVER"
	EntityAsset  EntityType = "ASSET"
)

// Position is an immutable snapshot of an entity's location, produced by
// ingress from the position-updates topic.
type Position struct {
	EntityType EntityType
	EntityID   string
	Lat        float64
	Lon        float64
	Heading    float64
	Speed      float64
	Accuracy   float64
	Timestamp  time.Time
	Source     string
}
