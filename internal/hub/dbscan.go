package hub

import (
	"sort"

	"freightengine/internal/geo"
)

// DefaultClusterEpsilonMiles and DefaultClusterMinPoints are the DBSCAN
// defaults from spec §4.C / §6.
const (
	DefaultClusterEpsilonMiles = 25.0
	DefaultClusterMinPoints    = 5
)

// Cluster is one DBSCAN cluster of route points.
type Cluster struct {
	Points  []geo.Point
	Centroid geo.Point
	Density float64 // points per square mile within a 10mi radius of centroid
}

// DBSCAN clusters points using great-circle distance with neighborhood
// radius epsilonMi and core-point threshold minPoints. With minPoints == 1,
// every unique point becomes its own cluster (spec §8 boundary behavior).
func DBSCAN(points []geo.Point, epsilonMi float64, minPoints int) []Cluster {
	n := len(points)
	if n == 0 {
		return nil
	}

	const (
		unvisited = 0
		visited   = 1
	)
	state := make([]int, n)
	clusterID := make([]int, n) // 0 = noise/unassigned, >0 = cluster index
	currentCluster := 0

	neighbors := func(i int) []int {
		var ns []int
		for j := 0; j < n; j++ {
			if j == i {
				continue
			}
			if geo.Distance(points[i], points[j], geo.Miles) <= epsilonMi {
				ns = append(ns, j)
			}
		}
		return ns
	}

	for i := 0; i < n; i++ {
		if state[i] != unvisited {
			continue
		}
		state[i] = visited

		neigh := neighbors(i)
		if len(neigh)+1 < minPoints {
			continue // noise, may be claimed later by another cluster's expansion
		}

		currentCluster++
		clusterID[i] = currentCluster

		queue := append([]int{}, neigh...)
		for len(queue) > 0 {
			j := queue[0]
			queue = queue[1:]

			if state[j] == unvisited {
				state[j] = visited
				jNeigh := neighbors(j)
				if len(jNeigh)+1 >= minPoints {
					queue = append(queue, jNeigh...)
				}
			}
			if clusterID[j] == 0 {
				clusterID[j] = currentCluster
			}
		}
	}

	byCluster := make(map[int][]geo.Point)
	for i, c := range clusterID {
		if c == 0 {
			continue
		}
		byCluster[c] = append(byCluster[c], points[i])
	}

	clusters := make([]Cluster, 0, len(byCluster))
	for _, pts := range byCluster {
		centroid := geo.Centroid(pts)
		area := areaOfRadius(10.0)
		density := float64(len(pts)) / area
		clusters = append(clusters, Cluster{Points: pts, Centroid: centroid, Density: density})
	}

	sort.Slice(clusters, func(i, j int) bool { return clusters[i].Density > clusters[j].Density })
	return clusters
}

// areaOfRadius returns the area in square miles of a circle of the given
// radius, used as the density denominator (spec §4.C step 2).
func areaOfRadius(radiusMi float64) float64 {
	const pi = 3.14159265358979323846
	return pi * radiusMi * radiusMi
}
