package hub

import (
	"math"

	"freightengine/internal/domain"
	"freightengine/internal/geo"
)

// GridIndex is a 2D spatial index over geohash-style grid buckets sized by
// cellSizeMi. It satisfies the repository's nearest-neighbor contract: for
// any query with radius r, no hub within r is omitted (the query scans
// every cell whose bounding box could contain a point within r of the
// query center, erring on the side of over-inclusion).
type GridIndex struct {
	cellSizeMi float64
	cells      map[cellKey][]domain.Hub
}

type cellKey struct {
	row, col int
}

// NewGridIndex constructs an empty grid index with the given cell size.
func NewGridIndex(cellSizeMi float64) *GridIndex {
	return &GridIndex{cellSizeMi: cellSizeMi, cells: make(map[cellKey][]domain.Hub)}
}

func (g *GridIndex) cellFor(lat, lon float64) cellKey {
	// One degree of latitude is ~69 miles; approximate degrees-per-cell and
	// round down to bucket. Longitude cells widen with cos(lat) correction
	// applied at query time rather than at bucket time, so buckets stay a
	// simple uniform grid.
	latDegPerCell := g.cellSizeMi / 69.0
	lonDegPerCell := g.cellSizeMi / 69.0
	return cellKey{
		row: int(math.Floor(lat / latDegPerCell)),
		col: int(math.Floor(lon / lonDegPerCell)),
	}
}

// Insert adds a hub to its bucket.
func (g *GridIndex) Insert(h domain.Hub) {
	key := g.cellFor(h.Location.Lat, h.Location.Lon)
	g.cells[key] = append(g.cells[key], h)
}

// Rebuild replaces the index contents wholesale; used after a Patch that
// may have moved a hub's location.
func (g *GridIndex) Rebuild(hubs map[string]domain.Hub) {
	g.cells = make(map[cellKey][]domain.Hub, len(hubs))
	for _, h := range hubs {
		g.Insert(h)
	}
}

// Query returns every hub within radiusMi of center, scanning the cells
// that could contain such a hub and filtering with an exact great-circle
// check.
func (g *GridIndex) Query(center geo.Point, radiusMi float64) []domain.Hub {
	rowSpan := int(math.Ceil(radiusMi/g.cellSizeMi)) + 1
	// A degree of longitude shrinks by cos(lat); use the highest latitude the
	// radius can reach so no column holding an in-range hub is skipped.
	maxLat := math.Min(math.Abs(center.Lat)+radiusMi/69.0, 90)
	cosLat := math.Max(math.Cos(maxLat*math.Pi/180), 1e-6)
	colSpan := int(math.Ceil(radiusMi/(g.cellSizeMi*cosLat))) + 1
	if maxCols := int(math.Ceil(360 / (g.cellSizeMi / 69.0))); colSpan > maxCols {
		colSpan = maxCols
	}
	centerCell := g.cellFor(center.Lat, center.Lon)

	var result []domain.Hub
	for dr := -rowSpan; dr <= rowSpan; dr++ {
		for dc := -colSpan; dc <= colSpan; dc++ {
			key := cellKey{row: centerCell.row + dr, col: centerCell.col + dc}
			for _, h := range g.cells[key] {
				d := geo.Distance(center, geo.Point{Lat: h.Location.Lat, Lon: h.Location.Lon}, geo.Miles)
				if d <= radiusMi {
					result = append(result, h)
				}
			}
		}
	}
	return result
}
