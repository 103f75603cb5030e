// Package hub implements the Smart Hub catalogue: a repository with a 2D
// spatial index for nearest-neighbor queries, DBSCAN-driven discovery of
// new hub candidates, scoring against network state, and selection of
// exchange points between two driver routes.
package hub

import (
	"context"
	"sync"

	"freightengine/internal/domain"
	"freightengine/internal/geo"
	"freightengine/pkg/apperror"
)

// Filters narrows a nearest-neighbor query.
type Filters struct {
	Facility       *domain.FacilityType
	RequireActive  bool
	MinCapacity    int
}

// Repository is the hub catalogue contract: create, retrieve, patch,
// soft-delete, and a 2D-indexed nearest-neighbor query.
type Repository interface {
	Create(ctx context.Context, h domain.Hub) error
	Get(ctx context.Context, id string) (domain.Hub, error)
	Patch(ctx context.Context, id string, fn func(*domain.Hub)) error
	SoftDelete(ctx context.Context, id string) error
	Nearest(ctx context.Context, center geo.Point, radiusMi float64, filters Filters) ([]domain.Hub, error)
	All(ctx context.Context) ([]domain.Hub, error)
}

// MemoryRepository is an in-memory Repository backed by a grid index, the
// default when no database is configured. pkg/database.PostgresHubRepository
// satisfies the same interface against a bounding-box-indexed table
// (cmd/engine picks between them on cfg.Database.Enabled).
type MemoryRepository struct {
	mu    sync.RWMutex
	hubs  map[string]domain.Hub
	index *GridIndex
}

// NewMemoryRepository constructs an empty repository with a grid index
// sized for continental-US hub density (cellSizeMi ~ 25mi, matching the
// default DBSCAN epsilon).
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		hubs:  make(map[string]domain.Hub),
		index: NewGridIndex(25.0),
	}
}

func (r *MemoryRepository) Create(ctx context.Context, h domain.Hub) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hubs[h.ID] = h
	r.index.Insert(h)
	return nil
}

func (r *MemoryRepository) Get(ctx context.Context, id string) (domain.Hub, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.hubs[id]
	if !ok {
		return domain.Hub{}, apperror.ErrHubNotFound
	}
	return h, nil
}

func (r *MemoryRepository) Patch(ctx context.Context, id string, fn func(*domain.Hub)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	h, ok := r.hubs[id]
	if !ok {
		return apperror.ErrHubNotFound
	}
	fn(&h)
	r.hubs[id] = h
	r.index.Rebuild(r.hubs)
	return nil
}

func (r *MemoryRepository) SoftDelete(ctx context.Context, id string) error {
	return r.Patch(ctx, id, func(h *domain.Hub) { h.Active = false })
}

func (r *MemoryRepository) Nearest(ctx context.Context, center geo.Point, radiusMi float64, filters Filters) ([]domain.Hub, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	candidates := r.index.Query(center, radiusMi)
	result := make([]domain.Hub, 0, len(candidates))
	for _, h := range candidates {
		if filters.RequireActive && !h.Active {
			continue
		}
		if filters.Facility != nil && h.Facility != *filters.Facility {
			continue
		}
		if h.Capacity < filters.MinCapacity {
			continue
		}
		result = append(result, h)
	}
	sortByDistance(center, result)
	return result, nil
}

func (r *MemoryRepository) All(ctx context.Context) ([]domain.Hub, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	all := make([]domain.Hub, 0, len(r.hubs))
	for _, h := range r.hubs {
		all = append(all, h)
	}
	return all, nil
}

func sortByDistance(center geo.Point, hubs []domain.Hub) {
	for i := 1; i < len(hubs); i++ {
		for j := i; j > 0; j-- {
			di := geo.Distance(center, geo.Point{Lat: hubs[j].Location.Lat, Lon: hubs[j].Location.Lon}, geo.Miles)
			dj := geo.Distance(center, geo.Point{Lat: hubs[j-1].Location.Lat, Lon: hubs[j-1].Location.Lon}, geo.Miles)
			if di < dj {
				hubs[j], hubs[j-1] = hubs[j-1], hubs[j]
			} else {
				break
			}
		}
	}
}
