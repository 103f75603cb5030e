package database

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"

	"freightengine/internal/domain"
	"freightengine/internal/geo"
	"freightengine/internal/hub"
	"freightengine/pkg/apperror"
)

// PostgresHubRepository is a Postgres-backed implementation of
// hub.Repository. Nearest-neighbor queries use a lat/lon bounding-box
// pre-filter in SQL (indexed on lat, lon) followed by an exact haversine
// sort in Go, mirroring MemoryRepository's grid-index-then-sort shape.
type PostgresHubRepository struct {
	db DB
}

// NewPostgresHubRepository constructs a hub repository against db.
func NewPostgresHubRepository(db DB) *PostgresHubRepository {
	return &PostgresHubRepository{db: db}
}

func (r *PostgresHubRepository) Create(ctx context.Context, h domain.Hub) error {
	amenities, hours, metrics, counters, err := marshalHubJSON(h)
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, `
		INSERT INTO hubs (
			id, name, facility, lat, lon, amenities, capacity, hours,
			efficiency_score, active, metrics, counters
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		h.ID, h.Name, h.Facility, h.Location.Lat, h.Location.Lon, amenities, h.Capacity, hours,
		h.EfficiencyScore, h.Active, metrics, counters,
	)
	if err != nil {
		return fmt.Errorf("insert hub: %w", err)
	}
	return nil
}

func (r *PostgresHubRepository) Get(ctx context.Context, id string) (domain.Hub, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, name, facility, lat, lon, amenities, capacity, hours, efficiency_score, active, metrics, counters
		FROM hubs WHERE id = $1`, id)
	return r.scanHub(row)
}

func (r *PostgresHubRepository) Patch(ctx context.Context, id string, fn func(*domain.Hub)) error {
	return WithTransaction(ctx, r.db, func(tx pgx.Tx) error {
		row := tx.QueryRow(ctx, `
			SELECT id, name, facility, lat, lon, amenities, capacity, hours, efficiency_score, active, metrics, counters
			FROM hubs WHERE id = $1 FOR UPDATE`, id)

		h, err := r.scanHubRow(row)
		if err != nil {
			if err == pgx.ErrNoRows {
				return apperror.ErrHubNotFound
			}
			return err
		}

		fn(&h)

		amenities, hours, metrics, counters, err := marshalHubJSON(h)
		if err != nil {
			return err
		}

		_, err = tx.Exec(ctx, `
			UPDATE hubs SET name=$2, facility=$3, lat=$4, lon=$5, amenities=$6, capacity=$7,
			       hours=$8, efficiency_score=$9, active=$10, metrics=$11, counters=$12
			WHERE id=$1`,
			h.ID, h.Name, h.Facility, h.Location.Lat, h.Location.Lon, amenities, h.Capacity,
			hours, h.EfficiencyScore, h.Active, metrics, counters,
		)
		if err != nil {
			return fmt.Errorf("update hub: %w", err)
		}
		return nil
	})
}

func (r *PostgresHubRepository) SoftDelete(ctx context.Context, id string) error {
	return r.Patch(ctx, id, func(h *domain.Hub) { h.Active = false })
}

func (r *PostgresHubRepository) Nearest(ctx context.Context, center geo.Point, radiusMi float64, filters hub.Filters) ([]domain.Hub, error) {
	box := geo.BoundingBox(center, radiusMi*1.60934)

	query := `
		SELECT id, name, facility, lat, lon, amenities, capacity, hours, efficiency_score, active, metrics, counters
		FROM hubs WHERE lat BETWEEN $1 AND $2 AND lon BETWEEN $3 AND $4`
	args := []any{box.MinLat, box.MaxLat, box.MinLon, box.MaxLon}

	if filters.RequireActive {
		query += " AND active = true"
	}
	if filters.Facility != nil {
		args = append(args, *filters.Facility)
		query += fmt.Sprintf(" AND facility = $%d", len(args))
	}
	if filters.MinCapacity > 0 {
		args = append(args, filters.MinCapacity)
		query += fmt.Sprintf(" AND capacity >= $%d", len(args))
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query hubs: %w", err)
	}
	defer rows.Close()

	var out []domain.Hub
	for rows.Next() {
		h, err := r.scanHubRow(rows)
		if err != nil {
			return nil, err
		}
		if geo.Distance(center, geo.Point{Lat: h.Location.Lat, Lon: h.Location.Lon}, geo.Miles) > radiusMi {
			continue
		}
		out = append(out, h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	sortHubsByDistance(center, out)
	return out, nil
}

func (r *PostgresHubRepository) All(ctx context.Context) ([]domain.Hub, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, facility, lat, lon, amenities, capacity, hours, efficiency_score, active, metrics, counters
		FROM hubs`)
	if err != nil {
		return nil, fmt.Errorf("query hubs: %w", err)
	}
	defer rows.Close()

	var out []domain.Hub
	for rows.Next() {
		h, err := r.scanHubRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

func (r *PostgresHubRepository) scanHub(row pgx.Row) (domain.Hub, error) {
	h, err := r.scanHubRow(row)
	if err == pgx.ErrNoRows {
		return domain.Hub{}, apperror.ErrHubNotFound
	}
	return h, err
}

func (r *PostgresHubRepository) scanHubRow(row rowScanner) (domain.Hub, error) {
	var h domain.Hub
	var amenities, hours, metrics, counters []byte

	err := row.Scan(
		&h.ID, &h.Name, &h.Facility, &h.Location.Lat, &h.Location.Lon, &amenities, &h.Capacity,
		&hours, &h.EfficiencyScore, &h.Active, &metrics, &counters,
	)
	if err != nil {
		return domain.Hub{}, err
	}
	h.Location.EntityType = domain.EntityAsset

	if len(amenities) > 0 {
		if err := json.Unmarshal(amenities, &h.Amenities); err != nil {
			return domain.Hub{}, fmt.Errorf("unmarshal hub amenities: %w", err)
		}
	}
	if len(hours) > 0 {
		if err := json.Unmarshal(hours, &h.Hours); err != nil {
			return domain.Hub{}, fmt.Errorf("unmarshal hub hours: %w", err)
		}
	}
	if len(metrics) > 0 {
		if err := json.Unmarshal(metrics, &h.Metrics); err != nil {
			return domain.Hub{}, fmt.Errorf("unmarshal hub metrics: %w", err)
		}
	}
	if len(counters) > 0 {
		if err := json.Unmarshal(counters, &h.Counters); err != nil {
			return domain.Hub{}, fmt.Errorf("unmarshal hub counters: %w", err)
		}
	}
	return h, nil
}

func marshalHubJSON(h domain.Hub) (amenities, hours, metrics, counters []byte, err error) {
	if amenities, err = json.Marshal(h.Amenities); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("marshal hub amenities: %w", err)
	}
	if hours, err = json.Marshal(h.Hours); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("marshal hub hours: %w", err)
	}
	if metrics, err = json.Marshal(h.Metrics); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("marshal hub metrics: %w", err)
	}
	if counters, err = json.Marshal(h.Counters); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("marshal hub counters: %w", err)
	}
	return amenities, hours, metrics, counters, nil
}

func sortHubsByDistance(center geo.Point, hubs []domain.Hub) {
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
