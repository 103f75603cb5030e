package ingress

import (
	"context"
	"time"

	"freightengine/internal/domain"
	"freightengine/internal/geo"
	"freightengine/internal/job"
	"freightengine/pkg/metrics"
)

// LoadStatusHandler consumes LOAD_STATUS_CHANGED events and enqueues jobs
// per the transition table in spec §4.I. Load-event-driven enqueues are
// never suppressed by backpressure — they represent state commitments, not
// opportunistic re-optimization (spec §5).
type LoadStatusHandler struct {
	store job.Store
	queue *job.Queue
}

// NewLoadStatusHandler constructs a handler.
func NewLoadStatusHandler(store job.Store, queue *job.Queue) *LoadStatusHandler {
	return &LoadStatusHandler{store: store, queue: queue}
}

// Handle processes one load-events message. Messages with an event_type
// other than LOAD_STATUS_CHANGED are ignored (spec §6).
func (h *LoadStatusHandler) Handle(ctx context.Context, evt LoadEvent) error {
	if evt.Metadata.EventType != loadEventTypeStatusChanged {
		return nil
	}
	metrics.Get().RecordEventIngested("load_status_changed")

	p := evt.Payload
	for _, kind := range h.jobsFor(p) {
		if err := h.enqueue(ctx, kind, p); err != nil {
			return err
		}
	}
	return nil
}

// jobsFor maps a status transition (plus the long-haul pickup check) to the
// set of job kinds spec §4.I requires; more than one may apply to the same
// transition (e.g. a long-haul AVAILABLE->ASSIGNED also plans a relay).
func (h *LoadStatusHandler) jobsFor(p LoadEventPayload) []domain.JobKind {
	var kinds []domain.JobKind

	switch {
	case p.PreviousStatus == string(domain.LoadPending) && p.NewStatus == string(domain.LoadAvailable):
		kinds = append(kinds, domain.JobNetworkOptimization)
	case p.PreviousStatus == string(domain.LoadAvailable) && p.NewStatus == string(domain.LoadAssigned):
		kinds = append(kinds, domain.JobNetworkOptimization)
	case p.PreviousStatus == string(domain.LoadDelivered) && p.NewStatus == string(domain.LoadCompleted):
		kinds = append(kinds, domain.JobSmartHubIdentification)
	}

	if h.isLongHaulPickup(p) {
		kinds = append(kinds, domain.JobRelayPlanning)
	}
	return kinds
}

// isLongHaulPickup reports whether p's pickup-to-delivery distance clears
// the long-haul threshold and the pickup window is still ahead of us, per
// spec §4.I's "any long-haul pickup" trigger row.
func (h *LoadStatusHandler) isLongHaulPickup(p LoadEventPayload) bool {
	if p.PickupLat == 0 && p.PickupLon == 0 {
		return false
	}
	distanceMi := geo.Distance(
		geo.Point{Lat: p.PickupLat, Lon: p.PickupLon},
		geo.Point{Lat: p.DeliveryLat, Lon: p.DeliveryLon},
		geo.Miles,
	)
	if distanceMi <= domain.LongHaulThresholdMiles {
		return false
	}
	return p.PickupLatest.IsZero() || p.PickupLatest.After(time.Now())
}

func (h *LoadStatusHandler) enqueue(ctx context.Context, kind domain.JobKind, p LoadEventPayload) error {
	j := domain.OptimizationJob{
		ID:   newJobID(),
		Kind: kind,
		Parameters: domain.JobParameters{
			LoadID: p.LoadID,
		},
		Priority:  5,
		Status:    domain.JobPending,
		CreatedAt: time.Now(),
	}
	if err := h.store.Create(ctx, j); err != nil {
		return err
	}
	h.queue.Enqueue(j.ID, j.Priority, j.CreatedAt)
	return nil
}
