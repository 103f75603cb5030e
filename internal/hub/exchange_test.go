package hub

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"freightengine/internal/domain"
	"freightengine/internal/geo"
)

func TestSelectExchangePoint_ReturnsRankedCandidates(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	// Denver-ish, roughly midway between Chicago and LA.
	repo.Create(ctx, domain.Hub{
		ID: "denver", Active: true, Capacity: 40,
		Location:  domain.Position{Lat: 39.74, Lon: -104.99},
		Amenities: map[domain.Amenity]bool{domain.AmenityFuel: true, domain.AmenityParking: true},
	})

	selector := NewSelector(repo)
	o1 := geo.Point{Lat: 41.88, Lon: -87.63} // Chicago
	d1 := geo.Point{Lat: 34.05, Lon: -118.24} // LA
	o2 := geo.Point{Lat: 41.30, Lon: -87.0}
	d2 := geo.Point{Lat: 34.5, Lon: -118.5}

	candidates, err := selector.SelectExchangePoint(ctx, o1, d1, o2, d2, DefaultExchangeParams())
	require.NoError(t, err)
	require.NotEmpty(t, candidates)
	assert.Equal(t, "denver", candidates[0].Hub.ID)
}

func TestSelectExchangePoint_NoneFound(t *testing.T) {
	repo := NewMemoryRepository()
	selector := NewSelector(repo)

	o1 := geo.Point{Lat: 41.88, Lon: -87.63}
	d1 := geo.Point{Lat: 34.05, Lon: -118.24}

	_, err := selector.SelectExchangePoint(context.Background(), o1, d1, o1, d1, DefaultExchangeParams())
	assert.Error(t, err, "expected error when no hubs exist")
}

func TestScore_RewardsAmenities(t *testing.T) {
	fullAmenities := domain.Hub{
		Amenities: map[domain.Amenity]bool{
			domain.AmenityParking: true, domain.AmenityFuel: true, domain.AmenityFood: true,
			domain.AmenityRestrooms: true, domain.AmenityMaintenance: true,
			domain.AmenityShower: true, domain.AmenityLodging: true, domain.AmenitySecurity: true,
		},
		Location: domain.Position{Lat: 0, Lon: 0},
	}
	noAmenities := domain.Hub{Location: domain.Position{Lat: 0, Lon: 0}}

	weights := DefaultScoreWeights()
	s1 := Score(ScoringInput{Hub: fullAmenities}, weights)
	s2 := Score(ScoringInput{Hub: noAmenities}, weights)

	assert.True(t, s1 > s2, "hub with full amenities should score higher: %v vs %v", s1, s2)
}
