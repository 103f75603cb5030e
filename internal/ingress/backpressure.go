package ingress

import (
	"context"
	"sync"

	"freightengine/internal/job"
	"freightengine/pkg/logger"
	"freightengine/pkg/ratelimit"
)

// BackpressureGate suppresses position-driven optimization triggers once the
// job queue reaches its high-water mark, re-enabling them only once the
// queue has drained below the low-water mark (spec §5: load-event-driven
// enqueues are never suppressed, only position-driven ones). A pkg/ratelimit
// Limiter, when configured, additionally caps how often any single driver
// can trip a trigger, independent of the shared queue-depth mark.
type BackpressureGate struct {
	queue         *job.Queue
	highWaterMark int
	lowWaterMark  int
	limiter       ratelimit.Limiter

	mu         sync.Mutex
	suppressed bool
}

// NewBackpressureGate constructs a gate watching queue's depth. limiter may
// be nil, in which case only the queue-depth hysteresis applies.
func NewBackpressureGate(queue *job.Queue, highWaterMark, lowWaterMark int, limiter ratelimit.Limiter) *BackpressureGate {
	return &BackpressureGate{queue: queue, highWaterMark: highWaterMark, lowWaterMark: lowWaterMark, limiter: limiter}
}

// AllowOptimizationTrigger reports whether a new position-driven
// optimization job may be enqueued right now for the given driver key,
// applying queue-depth hysteresis so the gate doesn't flap around the
// high-water mark, then the per-driver rate limit if one is configured.
func (g *BackpressureGate) AllowOptimizationTrigger(ctx context.Context, key string) bool {
	if !g.allowByQueueDepth() {
		return false
	}

	if g.limiter == nil {
		return true
	}

	allowed, err := g.limiter.Allow(ctx, key)
	if err != nil {
		logger.Log.Warn("rate limiter check failed, allowing trigger", "driver_id", key, "error", err)
		return true
	}
	return allowed
}

func (g *BackpressureGate) allowByQueueDepth() bool {
	depth := g.queue.Len()

	g.mu.Lock()
	defer g.mu.Unlock()

	if g.suppressed {
		if depth < g.lowWaterMark {
			g.suppressed = false
		}
		return !g.suppressed
	}
	if depth >= g.highWaterMark {
		g.suppressed = true
		return false
	}
	return true
}
