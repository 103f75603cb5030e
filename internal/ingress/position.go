// Package ingress subscribes to the positions and load-events topics and
// translates them into optimization jobs, applying the debounce and
// backpressure rules of spec §4.I/§5. Grounded on internal/job's store+queue
// for job creation; BackpressureGate combines a hand-rolled queue-depth
// hysteresis with an optional pkg/ratelimit.Limiter for per-driver throttling.
package ingress

import (
	"context"
	"sync"
	"time"

	"freightengine/internal/domain"
	"freightengine/internal/geo"
	"freightengine/internal/job"
	"freightengine/pkg/logger"
	"freightengine/pkg/metrics"
)

// trigger records the last position/time a driver caused an optimization
// job to fire, for the debounce check.
type trigger struct {
	position geo.Point
	time     time.Time
}

// PositionParams tunes the trigger thresholds (spec §6 EngineConfig).
type PositionParams struct {
	ThresholdMiles float64
	Cooldown       time.Duration
}

// DefaultPositionParams mirrors EngineConfig's documented defaults: 5 km
// (≈3.107 mi) and 5 minutes.
func DefaultPositionParams() PositionParams {
	return PositionParams{ThresholdMiles: 3.107, Cooldown: 5 * time.Minute}
}

// PositionHandler consumes PositionUpdate events, debouncing per driver and
// enqueueing NETWORK_OPTIMIZATION jobs when the driver has moved far enough,
// long enough since its last trigger.
type PositionHandler struct {
	params PositionParams
	store  job.Store
	queue  *job.Queue
	gate   *BackpressureGate

	mu       sync.Mutex
	triggers map[string]trigger

	// RefreshPredictions is a best-effort hook invoked after every accepted
	// position update to refresh supply/driver-behavior predictions; failures
	// are logged only (spec §4.I).
	RefreshPredictions func(ctx context.Context, pos domain.Position)
}

// NewPositionHandler constructs a handler with the given trigger params.
func NewPositionHandler(store job.Store, queue *job.Queue, gate *BackpressureGate, params PositionParams) *PositionHandler {
	return &PositionHandler{
		params:   params,
		store:    store,
		queue:    queue,
		gate:     gate,
		triggers: make(map[string]trigger),
	}
}

// Handle processes one position update. Non-driver entities are ignored.
func (h *PositionHandler) Handle(ctx context.Context, pos domain.Position) error {
	if pos.EntityType != domain.EntityDriver {
		return nil
	}
	metrics.Get().RecordEventIngested("position_update")

	shouldTrigger, current := h.checkAndUpdate(pos)

	if h.RefreshPredictions != nil {
		h.RefreshPredictions(ctx, pos)
	}

	if !shouldTrigger {
		return nil
	}

	if h.gate != nil && !h.gate.AllowOptimizationTrigger(ctx, pos.EntityID) {
		metrics.Get().RecordEventDropped("position_update", "backpressure")
		logger.Log.Debug("position-triggered optimization suppressed by backpressure", "driver_id", pos.EntityID)
		return nil
	}

	j := domain.OptimizationJob{
		ID:   newJobID(),
		Kind: domain.JobNetworkOptimization,
		Parameters: domain.JobParameters{
			DriverPoolIDs: []string{pos.EntityID},
		},
		Priority:  5,
		Status:    domain.JobPending,
		CreatedAt: time.Now(),
	}
	if err := h.store.Create(ctx, j); err != nil {
		return err
	}
	h.queue.Enqueue(j.ID, j.Priority, j.CreatedAt)
	_ = current
	return nil
}

// checkAndUpdate performs the atomic (read, decide, update) sequence for
// pos.EntityID required by spec §5: no other update for the same driver may
// be interleaved between the distance/cooldown check and the trigger-state
// write.
func (h *PositionHandler) checkAndUpdate(pos domain.Position) (bool, geo.Point) {
	p := geo.Point{Lat: pos.Lat, Lon: pos.Lon}

	h.mu.Lock()
	defer h.mu.Unlock()

	last, ok := h.triggers[pos.EntityID]
	if !ok {
		h.triggers[pos.EntityID] = trigger{position: p, time: pos.Timestamp}
		return true, p
	}

	distanceMiles := geo.Distance(last.position, p, geo.Miles)
	elapsed := pos.Timestamp.Sub(last.time)

	if distanceMiles <= h.params.ThresholdMiles || elapsed <= h.params.Cooldown {
		return false, p
	}

	h.triggers[pos.EntityID] = trigger{position: p, time: pos.Timestamp}
	return true, p
}
