package dispatch

import (
	"context"
	"time"

	"freightengine/internal/demand"
	"freightengine/internal/domain"
	"freightengine/internal/hub"
	"freightengine/internal/optimizer"
	"freightengine/internal/relay"
)

// EngineRouter is the concrete Router implementation, wiring each job kind
// to the component that actually performs the work (spec §4.J step 2).
type EngineRouter struct {
	fleet     FleetRepository
	planner   *relay.Planner
	selector  *hub.Selector
	predictor *demand.Predictor

	relayParams     relay.Params
	discoveryParams hub.DiscoveryParams
}

// NewEngineRouter constructs a Router over the engine's components.
func NewEngineRouter(fleet FleetRepository, planner *relay.Planner, selector *hub.Selector, predictor *demand.Predictor) *EngineRouter {
	return &EngineRouter{
		fleet:           fleet,
		planner:         planner,
		selector:        selector,
		predictor:       predictor,
		relayParams:     relay.DefaultParams(),
		discoveryParams: hub.DefaultDiscoveryParams(),
	}
}

// RunLoadMatching and RunNetworkOptimization both resolve to the same
// network optimizer (spec §4.H's routing table treats them identically),
// differing only in which pool of drivers/loads the job parameters scope.
func (r *EngineRouter) RunLoadMatching(ctx context.Context, j domain.OptimizationJob) (domain.OptimizationResult, error) {
	return r.runOptimizer(ctx, j)
}

func (r *EngineRouter) RunNetworkOptimization(ctx context.Context, j domain.OptimizationJob) (domain.OptimizationResult, error) {
	return r.runOptimizer(ctx, j)
}

func (r *EngineRouter) runOptimizer(ctx context.Context, j domain.OptimizationJob) (domain.OptimizationResult, error) {
	drivers, err := r.fleet.DriversInRegion(ctx, j.Parameters.Region, j.Parameters.DriverPoolIDs)
	if err != nil {
		return domain.OptimizationResult{}, err
	}
	loads, err := r.fleet.LoadsInRegion(ctx, j.Parameters.Region)
	if err != nil {
		return domain.OptimizationResult{}, err
	}

	out, err := optimizer.Optimize(ctx, drivers, loads, j.Parameters, time.Now())
	if err != nil {
		return domain.OptimizationResult{}, err
	}

	return domain.OptimizationResult{
		LoadMatches:    out.Matches,
		NetworkMetrics: out.Metrics,
	}, nil
}

func (r *EngineRouter) RunRelayPlanning(ctx context.Context, j domain.OptimizationJob) (domain.OptimizationResult, error) {
	load, err := r.fleet.Load(ctx, j.Parameters.LoadID)
	if err != nil {
		return domain.OptimizationResult{}, err
	}
	drivers, err := r.fleet.DriversInRegion(ctx, j.Parameters.Region, j.Parameters.DriverPoolIDs)
	if err != nil {
		return domain.OptimizationResult{}, err
	}

	plan, err := r.planner.Plan(ctx, load, drivers, r.relayParams, time.Now())
	if err != nil {
		return domain.OptimizationResult{}, err
	}

	return domain.OptimizationResult{RelayPlans: []domain.RelayPlan{plan}}, nil
}

func (r *EngineRouter) RunDemandPrediction(ctx context.Context, j domain.OptimizationJob) (domain.OptimizationResult, error) {
	forecast, err := r.predictor.Regional(ctx, j.Parameters.Region, "24h", time.Now())
	if err != nil {
		return domain.OptimizationResult{}, err
	}
	return domain.OptimizationResult{DemandForecasts: []domain.DemandForecast{forecast}}, nil
}

func (r *EngineRouter) RunSmartHubIdentification(ctx context.Context, j domain.OptimizationJob) (domain.OptimizationResult, error) {
	points, err := r.fleet.RecentRoutePoints(ctx, j.Parameters.Region)
	if err != nil {
		return domain.OptimizationResult{}, err
	}

	recs, err := r.selector.Discover(ctx, points, r.discoveryParams)
	if err != nil {
		return domain.OptimizationResult{}, err
	}

	return domain.OptimizationResult{HubRecommendations: recs}, nil
}
