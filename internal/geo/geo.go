// Package geo provides pure geospatial primitives over WGS-84
// latitude/longitude in degrees: great-circle distance, bearing, midpoint,
// destination projection, point-in-polygon, point-to-segment distance,
// bounding boxes, circular polygon sampling, and polygon area/centroid/
// simplification. All functions are deterministic and allocation-light,
// grounded on the haversine approach used throughout the example fleet
// (e.g. the dispatch service's haversineDistance).
package geo

import "math"

// Unit selects the great-circle radius used by Distance and related functions.
type Unit int

const (
	Miles Unit = iota
	Kilometers
)

const (
	earthRadiusMiles      = 3958.8
	earthRadiusKilometers = 6371.0
)

func radiusFor(u Unit) float64 {
	if u == Kilometers {
		return earthRadiusKilometers
	}
	return earthRadiusMiles
}

// Point is a latitude/longitude pair in degrees.
type Point struct {
	Lat float64
	Lon float64
}

func toRad(deg float64) float64 { return deg * math.Pi / 180 }
func toDeg(rad float64) float64 { return rad * 180 / math.Pi }

// Distance returns the great-circle distance between p1 and p2 using the
// haversine formula. distance(A,B,u) == distance(B,A,u) for any A, B, u.
func Distance(p1, p2 Point, unit Unit) float64 {
	r := radiusFor(unit)

	lat1, lat2 := toRad(p1.Lat), toRad(p2.Lat)
	dLat := toRad(p2.Lat - p1.Lat)
	dLon := toRad(p2.Lon - p1.Lon)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return r * c
}

// Bearing returns the forward azimuth from p1 to p2, normalized to [0, 360).
func Bearing(p1, p2 Point) float64 {
	lat1, lat2 := toRad(p1.Lat), toRad(p2.Lat)
	dLon := toRad(p2.Lon - p1.Lon)

	y := math.Sin(dLon) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) - math.Sin(lat1)*math.Cos(lat2)*math.Cos(dLon)
	theta := math.Atan2(y, x)

	deg := math.Mod(toDeg(theta)+360, 360)
	return deg
}

// Destination returns the point reached by travelling distance (in unit)
// from p along bearing degrees, using spherical trigonometry.
func Destination(p Point, bearingDeg, distance float64, unit Unit) Point {
	r := radiusFor(unit)
	angularDistance := distance / r

	lat1 := toRad(p.Lat)
	lon1 := toRad(p.Lon)
	brng := toRad(bearingDeg)

	lat2 := math.Asin(math.Sin(lat1)*math.Cos(angularDistance) +
		math.Cos(lat1)*math.Sin(angularDistance)*math.Cos(brng))
	lon2 := lon1 + math.Atan2(
		math.Sin(brng)*math.Sin(angularDistance)*math.Cos(lat1),
		math.Cos(angularDistance)-math.Sin(lat1)*math.Sin(lat2),
	)

	return Point{Lat: toDeg(lat2), Lon: toDeg(lon2)}
}

// Midpoint returns the great-circle midpoint between p1 and p2.
func Midpoint(p1, p2 Point) Point {
	lat1, lon1 := toRad(p1.Lat), toRad(p1.Lon)
	lat2 := toRad(p2.Lat)
	dLon := toRad(p2.Lon - p1.Lon)

	bx := math.Cos(lat2) * math.Cos(dLon)
	by := math.Cos(lat2) * math.Sin(dLon)

	latM := math.Atan2(
		math.Sin(lat1)+math.Sin(lat2),
		math.Sqrt((math.Cos(lat1)+bx)*(math.Cos(lat1)+bx)+by*by),
	)
	lonM := lon1 + math.Atan2(by, math.Cos(lat1)+bx)

	return Point{Lat: toDeg(latM), Lon: toDeg(lonM)}
}

// BoundingBox returns a (minLat, minLon, maxLat, maxLon) box enclosing a
// circle of radiusKm around center, used to seed spatial pre-filters
// before an exact distance check.
type BBox struct {
	MinLat, MinLon, MaxLat, MaxLon float64
}

func BoundingBox(center Point, radiusKm float64) BBox {
	latDelta := toDeg(radiusKm / earthRadiusKilometers)
	cosLat := math.Cos(toRad(center.Lat))
	if cosLat < 1e-6 {
		cosLat = 1e-6
	}
	lonDelta := latDelta / cosLat

	return BBox{
		MinLat: center.Lat - latDelta,
		MaxLat: center.Lat + latDelta,
		MinLon: center.Lon - lonDelta,
		MaxLon: center.Lon + lonDelta,
	}
}

// Contains reports whether p falls within the box.
func (b BBox) Contains(p Point) bool {
	return p.Lat >= b.MinLat && p.Lat <= b.MaxLat && p.Lon >= b.MinLon && p.Lon <= b.MaxLon
}
