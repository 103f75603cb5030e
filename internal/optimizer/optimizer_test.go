package optimizer

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"freightengine/internal/domain"
)

func TestOptimize_SimpleMatch(t *testing.T) {
	now := time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)

	drivers := []domain.Driver{
		{
			ID:                      "driver-1",
			Equipment:               domain.EquipmentReefer,
			CurrentPosition:         domain.Position{Lat: 41.85, Lon: -87.65},
			RemainingDrivingMinutes: 600,
		},
	}
	loads := []domain.Load{
		{
			ID:                "load-1",
			RequiredEquipment: domain.EquipmentReefer,
			Status:            domain.LoadAvailable,
			PickupLocation:    domain.Position{Lat: 41.88, Lon: -87.63},
			DeliveryLocation:  domain.Position{Lat: 39.10, Lon: -94.58},
			PickupWindow:      domain.TimeWindow{Latest: now.Add(24 * time.Hour)},
			DeliveryWindow:    domain.TimeWindow{Latest: now.Add(48 * time.Hour)},
		},
	}

	out, err := Optimize(context.Background(), drivers, loads, domain.JobParameters{}, now)
	require.NoError(t, err)
	require.False(t, out.Infeasible, "expected a feasible match, got infeasible: %s", out.Reason)
	require.Len(t, out.Matches, 1)
	m := out.Matches[0]
	assert.Equal(t, "driver-1", m.DriverID)
	assert.Equal(t, "load-1", m.LoadID)
	assert.Equal(t, 1, out.Metrics.MatchedLoads)
	assert.Equal(t, 1, out.Metrics.MatchedDrivers)
}

func TestOptimize_RejectsEquipmentMismatch(t *testing.T) {
	now := time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)

	drivers := []domain.Driver{
		{
			ID:                      "driver-1",
			Equipment:               domain.EquipmentFlatbed,
			CurrentPosition:         domain.Position{Lat: 41.85, Lon: -87.65},
			RemainingDrivingMinutes: 600,
		},
	}
	loads := []domain.Load{
		{
			ID:                "load-1",
			RequiredEquipment: domain.EquipmentReefer,
			Status:            domain.LoadAvailable,
			PickupLocation:    domain.Position{Lat: 41.88, Lon: -87.63},
			DeliveryLocation:  domain.Position{Lat: 39.10, Lon: -94.58},
		},
	}

	out, err := Optimize(context.Background(), drivers, loads, domain.JobParameters{}, now)
	require.NoError(t, err)
	require.True(t, out.Infeasible, "expected infeasible result for equipment mismatch, got %d matches", len(out.Matches))
	assert.Empty(t, out.Matches)
}

func TestOptimize_RejectsInsufficientHOS(t *testing.T) {
	now := time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)

	drivers := []domain.Driver{
		{
			ID:                      "driver-1",
			Equipment:               domain.EquipmentReefer,
			CurrentPosition:         domain.Position{Lat: 41.85, Lon: -87.65},
			RemainingDrivingMinutes: 5,
		},
	}
	loads := []domain.Load{
		{
			ID:                "load-1",
			RequiredEquipment: domain.EquipmentReefer,
			Status:            domain.LoadAvailable,
			PickupLocation:    domain.Position{Lat: 41.88, Lon: -87.63},
			DeliveryLocation:  domain.Position{Lat: 39.10, Lon: -94.58},
		},
	}

	out, err := Optimize(context.Background(), drivers, loads, domain.JobParameters{}, now)
	require.NoError(t, err)
	assert.True(t, out.Infeasible, "expected infeasible result for insufficient hours, got %d matches", len(out.Matches))
}

func TestOptimize_PrefersHigherScoringPairOnConflict(t *testing.T) {
	now := time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)

	near := domain.Position{Lat: 41.86, Lon: -87.64}
	far := domain.Position{Lat: 42.5, Lon: -88.5}

	drivers := []domain.Driver{
		{ID: "driver-near", Equipment: domain.EquipmentReefer, CurrentPosition: near, RemainingDrivingMinutes: 600},
		{ID: "driver-far", Equipment: domain.EquipmentReefer, CurrentPosition: far, RemainingDrivingMinutes: 600},
	}
	loads := []domain.Load{
		{
			ID: "load-1", RequiredEquipment: domain.EquipmentReefer, Status: domain.LoadAvailable,
			PickupLocation: domain.Position{Lat: 41.88, Lon: -87.63}, DeliveryLocation: domain.Position{Lat: 39.10, Lon: -94.58},
		},
	}

	out, err := Optimize(context.Background(), drivers, loads, domain.JobParameters{}, now)
	require.NoError(t, err)
	require.Len(t, out.Matches, 1)
	assert.Equal(t, "driver-near", out.Matches[0].DriverID, "expected nearer driver to win the single load")
}

func TestApplyHardConstraints_FiltersByEquipment(t *testing.T) {
	drivers := []domain.Driver{
		{ID: "d1", Equipment: domain.EquipmentReefer},
		{ID: "d2", Equipment: domain.EquipmentFlatbed},
	}
	filtered, _ := applyHardConstraints(drivers, nil, []domain.OptimizationConstraint{
		{Kind: domain.ConstraintEquipmentType, Value: string(domain.EquipmentReefer), Hard: true},
	})
	require.Len(t, filtered, 1)
	assert.Equal(t, "d1", filtered[0].ID)
}
