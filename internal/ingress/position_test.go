package ingress

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"freightengine/internal/domain"
	"freightengine/internal/job"
	"freightengine/pkg/ratelimit"
)

func TestPositionHandler_FirstUpdateAlwaysTriggers(t *testing.T) {
	store := job.NewMemoryStore()
	queue := job.NewQueue()
	h := NewPositionHandler(store, queue, nil, DefaultPositionParams())

	err := h.Handle(context.Background(), domain.Position{
		EntityType: domain.EntityDriver, EntityID: "d1", Lat: 41.8, Lon: -87.6, Timestamp: time.Now(),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, queue.Len())
}

func TestPositionHandler_IgnoresNonDriverEntities(t *testing.T) {
	store := job.NewMemoryStore()
	queue := job.NewQueue()
	h := NewPositionHandler(store, queue, nil, DefaultPositionParams())

	err := h.Handle(context.Background(), domain.Position{EntityType: domain.EntityAsset, EntityID: "a1", Timestamp: time.Now()})
	require.NoError(t, err)
	assert.Equal(t, 0, queue.Len(), "non-driver entity should not enqueue")
}

func TestPositionHandler_SuppressesWithinCooldownOrDistance(t *testing.T) {
	store := job.NewMemoryStore()
	queue := job.NewQueue()
	h := NewPositionHandler(store, queue, nil, DefaultPositionParams())
	now := time.Now()

	require.NoError(t, h.Handle(context.Background(), domain.Position{EntityType: domain.EntityDriver, EntityID: "d1", Lat: 41.8, Lon: -87.6, Timestamp: now}))
	queue.Dequeue(context.Background())

	// Same position, long after: distance unmet.
	require.NoError(t, h.Handle(context.Background(), domain.Position{EntityType: domain.EntityDriver, EntityID: "d1", Lat: 41.8, Lon: -87.6, Timestamp: now.Add(time.Hour)}))
	assert.Equal(t, 0, queue.Len(), "distance threshold unmet")

	// Far away, but immediately after: cooldown unmet.
	require.NoError(t, h.Handle(context.Background(), domain.Position{EntityType: domain.EntityDriver, EntityID: "d1", Lat: 45.0, Lon: -93.0, Timestamp: now.Add(time.Second)}))
	assert.Equal(t, 0, queue.Len(), "cooldown unmet")

	// Far away AND after cooldown: triggers.
	require.NoError(t, h.Handle(context.Background(), domain.Position{EntityType: domain.EntityDriver, EntityID: "d1", Lat: 45.0, Lon: -93.0, Timestamp: now.Add(time.Hour)}))
	assert.Equal(t, 1, queue.Len(), "both thresholds cleared")
}

func TestBackpressureGate_SuppressesAtHighWaterAndResumesAtLowWater(t *testing.T) {
	queue := job.NewQueue()
	gate := NewBackpressureGate(queue, 2, 1, nil)
	ctx := context.Background()

	assert.True(t, gate.AllowOptimizationTrigger(ctx, "d1"), "expected allow below high-water mark")
	queue.Enqueue("a", 1, time.Now())
	queue.Enqueue("b", 1, time.Now())
	assert.False(t, gate.AllowOptimizationTrigger(ctx, "d1"), "expected suppression at high-water mark")
	queue.Dequeue(ctx)
	assert.False(t, gate.AllowOptimizationTrigger(ctx, "d1"), "expected continued suppression above low-water mark")
	queue.Dequeue(ctx)
	assert.True(t, gate.AllowOptimizationTrigger(ctx, "d1"), "expected resumption below low-water mark")
}

func TestBackpressureGate_LimiterDenialSuppressesEvenBelowHighWater(t *testing.T) {
	queue := job.NewQueue()
	gate := NewBackpressureGate(queue, 100, 50, denyingLimiter{})
	assert.False(t, gate.AllowOptimizationTrigger(context.Background(), "d1"))
}

// denyingLimiter is a ratelimit.Limiter stub that always denies.
type denyingLimiter struct{}

func (denyingLimiter) Allow(ctx context.Context, key string) (bool, error) { return false, nil }
func (denyingLimiter) AllowN(ctx context.Context, key string, n int) (bool, error) {
	return false, nil
}
func (denyingLimiter) Wait(ctx context.Context, key string) error  { return nil }
func (denyingLimiter) Reset(ctx context.Context, key string) error { return nil }
func (denyingLimiter) GetInfo(ctx context.Context, key string) (*ratelimit.LimitInfo, error) {
	return nil, nil
}
func (denyingLimiter) Close() error { return nil }
