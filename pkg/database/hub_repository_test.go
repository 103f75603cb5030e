package database

import (
	"context"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"freightengine/internal/domain"
	"freightengine/internal/geo"
	"freightengine/internal/hub"
	"freightengine/pkg/apperror"
)

func setupHubRepoMock(t *testing.T) (pgxmock.PgxPoolIface, *PostgresHubRepository) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	return mock, NewPostgresHubRepository(&pgxMockAdapter{mock: mock})
}

func TestPostgresHubRepository_Get_NotFound(t *testing.T) {
	mock, repo := setupHubRepoMock(t)
	defer mock.Close()

	mock.ExpectQuery(`SELECT .* FROM hubs WHERE id = \$1`).
		WithArgs("missing").
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "name", "facility", "lat", "lon", "amenities", "capacity", "hours",
			"efficiency_score", "active", "metrics", "counters",
		}))

	_, err := repo.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, apperror.ErrHubNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresHubRepository_Create(t *testing.T) {
	mock, repo := setupHubRepoMock(t)
	defer mock.Close()

	h := domain.Hub{
		ID:       "hub-1",
		Name:     "Midwest Terminal",
		Facility: domain.FacilityTerminal,
		Location: domain.Position{Lat: 41.8, Lon: -87.6},
		Active:   true,
	}

	mock.ExpectExec(`INSERT INTO hubs`).
		WithArgs(h.ID, h.Name, h.Facility, h.Location.Lat, h.Location.Lon, pgxmock.AnyArg(), h.Capacity,
			pgxmock.AnyArg(), h.EfficiencyScore, h.Active, pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := repo.Create(context.Background(), h)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresHubRepository_Nearest_FiltersByExactDistance(t *testing.T) {
	mock, repo := setupHubRepoMock(t)
	defer mock.Close()

	center := geo.Point{Lat: 41.8, Lon: -87.6}
	cols := []string{"id", "name", "facility", "lat", "lon", "amenities", "capacity", "hours",
		"efficiency_score", "active", "metrics", "counters"}

	rows := pgxmock.NewRows(cols).
		AddRow("near", "Near Hub", domain.FacilityTruckStop, 41.81, -87.61, []byte(`{}`), 10, []byte(`{}`), 0.0, true, []byte(`{}`), []byte(`{}`)).
		AddRow("far", "Far Hub", domain.FacilityTruckStop, 45.0, -93.0, []byte(`{}`), 10, []byte(`{}`), 0.0, true, []byte(`{}`), []byte(`{}`))

	mock.ExpectQuery(`SELECT .* FROM hubs WHERE lat BETWEEN`).WillReturnRows(rows)

	got, err := repo.Nearest(context.Background(), center, 10, hub.Filters{})
	require.NoError(t, err)
	require.Len(t, got, 1, "the far hub falls outside the exact-distance radius even though it may pass the bounding box")
	assert.Equal(t, "near", got[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
