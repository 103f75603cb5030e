package dispatch

import (
	"context"

	"freightengine/internal/domain"
	"freightengine/internal/geo"
	"freightengine/pkg/apperror"
)

var errLoadNotFound = apperror.New(apperror.CodeLoadNotFound, "load not found")

// FleetRepository sources the drivers and loads a job's parameters scope
// over, and the historical route points smart-hub discovery clusters
// against. Driver/load persistence is an external collaborator per spec
// (§1 Non-goals); this interface is the seam the dispatcher depends on
// instead of a concrete store.
type FleetRepository interface {
	DriversInRegion(ctx context.Context, region string, poolIDs []string) ([]domain.Driver, error)
	LoadsInRegion(ctx context.Context, region string) ([]domain.Load, error)
	Load(ctx context.Context, loadID string) (domain.Load, error)
	RecentRoutePoints(ctx context.Context, region string) ([]geo.Point, error)
}

// MemoryFleetRepository is an in-memory FleetRepository for tests and local
// runs, seeded directly rather than through ingress.
type MemoryFleetRepository struct {
	Drivers     []domain.Driver
	Loads       []domain.Load
	RoutePoints []geo.Point
}

// NewMemoryFleetRepository constructs a repository over the given slices.
func NewMemoryFleetRepository(drivers []domain.Driver, loads []domain.Load, routePoints []geo.Point) *MemoryFleetRepository {
	return &MemoryFleetRepository{Drivers: drivers, Loads: loads, RoutePoints: routePoints}
}

func (r *MemoryFleetRepository) DriversInRegion(ctx context.Context, region string, poolIDs []string) ([]domain.Driver, error) {
	if len(poolIDs) > 0 {
		want := make(map[string]bool, len(poolIDs))
		for _, id := range poolIDs {
			want[id] = true
		}
		var out []domain.Driver
		for _, d := range r.Drivers {
			if want[d.ID] {
				out = append(out, d)
			}
		}
		return out, nil
	}
	if region == "" {
		return r.Drivers, nil
	}
	var out []domain.Driver
	for _, d := range r.Drivers {
		if d.PrefersRegion(region) {
			out = append(out, d)
		}
	}
	return out, nil
}

func (r *MemoryFleetRepository) LoadsInRegion(ctx context.Context, region string) ([]domain.Load, error) {
	return r.Loads, nil
}

func (r *MemoryFleetRepository) Load(ctx context.Context, loadID string) (domain.Load, error) {
	for _, l := range r.Loads {
		if l.ID == loadID {
			return l, nil
		}
	}
	var zero domain.Load
	return zero, errLoadNotFound
}

func (r *MemoryFleetRepository) RecentRoutePoints(ctx context.Context, region string) ([]geo.Point, error) {
	return r.RoutePoints, nil
}
