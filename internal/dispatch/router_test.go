package dispatch

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"freightengine/internal/demand"
	"freightengine/internal/domain"
	"freightengine/internal/geo"
	"freightengine/internal/hub"
	"freightengine/internal/predictor"
	"freightengine/internal/relay"
)

type fakeDemandModel struct{ volume float64 }

func (m *fakeDemandModel) Kind() domain.ModelKind { return domain.ModelDemand }
func (m *fakeDemandModel) Version() string        { return "v1" }
func (m *fakeDemandModel) Predict(ctx context.Context, input domain.PredictInput) (domain.PredictOutput, error) {
	return domain.PredictOutput{Kind: domain.ModelDemand, Demand: &domain.DemandOutput{PredictedVolume: m.volume}}, nil
}

func newRouter(t *testing.T, fleet FleetRepository) *EngineRouter {
	t.Helper()
	hubRepo := hub.NewMemoryRepository()
	planner := relay.NewPlanner(hubRepo)
	selector := hub.NewSelector(hubRepo)
	facade := predictor.New([]predictor.Model{&fakeDemandModel{volume: 60}}, nil, false, 0)
	pred := demand.New(facade, nil, 0)
	return NewEngineRouter(fleet, planner, selector, pred)
}

func TestEngineRouter_RunNetworkOptimization(t *testing.T) {
	now := time.Now()
	drivers := []domain.Driver{{
		ID: "d1", Equipment: domain.EquipmentReefer, RemainingDrivingMinutes: 600,
		CurrentPosition: domain.Position{Lat: 41.88, Lon: -87.63}, HomeBase: domain.Position{Lat: 41.88, Lon: -87.63},
	}}
	loads := []domain.Load{{
		ID: "l1", RequiredEquipment: domain.EquipmentReefer, Status: domain.LoadAvailable,
		PickupLocation:   domain.Position{Lat: 41.9, Lon: -87.65},
		PickupWindow:     domain.TimeWindow{Earliest: now.Add(-time.Hour), Latest: now.Add(6 * time.Hour)},
		DeliveryLocation: domain.Position{Lat: 42.0, Lon: -87.9},
		DeliveryWindow:   domain.TimeWindow{Earliest: now, Latest: now.Add(12 * time.Hour)},
	}}
	fleet := NewMemoryFleetRepository(drivers, loads, nil)
	router := newRouter(t, fleet)

	res, err := router.RunNetworkOptimization(context.Background(), domain.OptimizationJob{Kind: domain.JobNetworkOptimization})
	require.NoError(t, err)
	require.Len(t, res.LoadMatches, 1)
	assert.Equal(t, 1, res.NetworkMetrics.MatchedLoads)
}

func TestEngineRouter_RunDemandPrediction(t *testing.T) {
	fleet := NewMemoryFleetRepository(nil, nil, nil)
	router := newRouter(t, fleet)

	res, err := router.RunDemandPrediction(context.Background(), domain.OptimizationJob{
		Parameters: domain.JobParameters{Region: "midwest"},
	})
	require.NoError(t, err)
	require.Len(t, res.DemandForecasts, 1, "want one forecast with volume 60")
	assert.Equal(t, 60.0, res.DemandForecasts[0].PredictedVolume)
}

func TestEngineRouter_RunSmartHubIdentification_EmptyRoutePoints(t *testing.T) {
	fleet := NewMemoryFleetRepository(nil, nil, []geo.Point{})
	router := newRouter(t, fleet)

	res, err := router.RunSmartHubIdentification(context.Background(), domain.OptimizationJob{})
	require.NoError(t, err)
	assert.Empty(t, res.HubRecommendations, "want none from empty input")
}
