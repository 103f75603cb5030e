package hub

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"freightengine/internal/domain"
	"freightengine/internal/geo"
	"freightengine/pkg/apperror"
)

func TestMemoryRepository_CreateGet(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	h := domain.Hub{ID: "hub-1", Active: true, Location: domain.Position{Lat: 41.88, Lon: -87.63}}
	require.NoError(t, repo.Create(ctx, h))

	got, err := repo.Get(ctx, "hub-1")
	require.NoError(t, err)
	assert.Equal(t, "hub-1", got.ID)
}

func TestMemoryRepository_GetNotFound(t *testing.T) {
	repo := NewMemoryRepository()
	_, err := repo.Get(context.Background(), "missing")
	assert.True(t, apperror.Is(err, apperror.CodeHubNotFound), "expected CodeHubNotFound, got %v", err)
}

func TestMemoryRepository_SoftDelete(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	repo.Create(ctx, domain.Hub{ID: "hub-1", Active: true, Location: domain.Position{Lat: 41.88, Lon: -87.63}})

	require.NoError(t, repo.SoftDelete(ctx, "hub-1"))
	got, _ := repo.Get(ctx, "hub-1")
	assert.False(t, got.Active, "expected hub to be inactive after soft delete")
}

func TestMemoryRepository_Nearest(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	chicago := domain.Position{Lat: 41.88, Lon: -87.63}
	repo.Create(ctx, domain.Hub{ID: "near", Active: true, Location: chicago})
	repo.Create(ctx, domain.Hub{ID: "far", Active: true, Location: domain.Position{Lat: 34.05, Lon: -118.24}})

	results, err := repo.Nearest(ctx, geo.Point{Lat: 41.88, Lon: -87.63}, 50, Filters{RequireActive: true})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "near", results[0].ID)
}

func TestMemoryRepository_NearestExcludesInactiveWhenFiltered(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	repo.Create(ctx, domain.Hub{ID: "inactive", Active: false, Location: domain.Position{Lat: 41.88, Lon: -87.63}})

	results, _ := repo.Nearest(ctx, geo.Point{Lat: 41.88, Lon: -87.63}, 10, Filters{RequireActive: true})
	assert.Empty(t, results, "expected inactive hub excluded")
}
