package geo

import "math"

// PointInPolygon reports whether point lies inside polygon using ray
// casting. polygon is a sequence of vertices not required to repeat the
// first; odd crossings mean inside. Edge/vertex touches are
// implementation-defined but consistent across calls.
func PointInPolygon(point Point, polygon []Point) bool {
	n := len(polygon)
	if n < 3 {
		return false
	}

	inside := false
	j := n - 1
	for i := 0; i < n; i++ {
		pi, pj := polygon[i], polygon[j]
		if (pi.Lat > point.Lat) != (pj.Lat > point.Lat) {
			lonAtCrossing := pj.Lon + (point.Lat-pj.Lat)*(pi.Lon-pj.Lon)/(pi.Lat-pj.Lat)
			if point.Lon < lonAtCrossing {
				inside = !inside
			}
		}
		j = i
	}
	return inside
}

// PointToSegmentDistance projects point onto the segment a-b in a local
// tangent plane around a (equirectangular approximation scaled by
// cos(lat)), clamps the projection parameter to [0,1], and returns the
// great-circle distance from point to the clamped foot.
func PointToSegmentDistance(point, a, b Point, unit Unit) float64 {
	cosLat := math.Cos(toRad(a.Lat))

	// Local tangent-plane coordinates (x = lon scaled by cos(lat), y = lat).
	ax, ay := 0.0, 0.0
	bx, by := (b.Lon-a.Lon)*cosLat, b.Lat-a.Lat
	px, py := (point.Lon-a.Lon)*cosLat, point.Lat-a.Lat

	abx, aby := bx-ax, by-ay
	lenSq := abx*abx + aby*aby

	var t float64
	if lenSq > 1e-18 {
		t = ((px-ax)*abx + (py-ay)*aby) / lenSq
	}
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}

	footLon := a.Lon + t*(b.Lon-a.Lon)
	footLat := a.Lat + t*(b.Lat-a.Lat)

	return Distance(point, Point{Lat: footLat, Lon: footLon}, unit)
}

// CirclePolygon samples n points uniformly around bearings [0, 360) at
// radiusKm from center, producing an approximate circular polygon.
func CirclePolygon(center Point, radiusKm float64, n int) []Point {
	if n < 3 {
		n = 3
	}
	pts := make([]Point, n)
	step := 360.0 / float64(n)
	for i := 0; i < n; i++ {
		pts[i] = Destination(center, float64(i)*step, radiusKm, Kilometers)
	}
	return pts
}

// PolygonArea returns the geodesic area (in square kilometers) of polygon
// using a spherical-excess approximation suitable for regional-scale
// polygons (hub service areas, DBSCAN cluster hulls).
func PolygonArea(polygon []Point) float64 {
	n := len(polygon)
	if n < 3 {
		return 0
	}

	const r = earthRadiusKilometers
	var total float64
	for i := 0; i < n; i++ {
		p1 := polygon[i]
		p2 := polygon[(i+1)%n]
		total += toRad(p2.Lon-p1.Lon) * (2 + math.Sin(toRad(p1.Lat)) + math.Sin(toRad(p2.Lat)))
	}
	area := math.Abs(total * r * r / 2)
	return area
}

// Centroid returns the area-weighted centroid approximated as the mean of
// vertices, adequate for the compact clusters DBSCAN produces.
func Centroid(points []Point) Point {
	if len(points) == 0 {
		return Point{}
	}
	var sumLat, sumLon float64
	for _, p := range points {
		sumLat += p.Lat
		sumLon += p.Lon
	}
	n := float64(len(points))
	return Point{Lat: sumLat / n, Lon: sumLon / n}
}

// Simplify reduces polyline using the Douglas-Peucker algorithm with the
// given tolerance (in kilometers, measured via PointToSegmentDistance).
func Simplify(polyline []Point, toleranceKm float64) []Point {
	if len(polyline) < 3 {
		return polyline
	}

	maxDist := 0.0
	maxIdx := 0
	first, last := polyline[0], polyline[len(polyline)-1]
	for i := 1; i < len(polyline)-1; i++ {
		d := PointToSegmentDistance(polyline[i], first, last, Kilometers)
		if d > maxDist {
			maxDist = d
			maxIdx = i
		}
	}

	if maxDist <= toleranceKm {
		return []Point{first, last}
	}

	left := Simplify(polyline[:maxIdx+1], toleranceKm)
	right := Simplify(polyline[maxIdx:], toleranceKm)

	result := make([]Point, 0, len(left)+len(right)-1)
	result = append(result, left[:len(left)-1]...)
	result = append(result, right...)
	return result
}
