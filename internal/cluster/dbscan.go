// Package cluster groups nearby POIs with density-based clustering so that
// commercial corridors show up as units instead of individual points.
package cluster

import (
	"sort"

	"github.com/gregorizeidler/urbansight/internal/geo"
	"github.com/gregorizeidler/urbansight/internal/model"
)

const (
	labelUnvisited = 0
	labelNoise     = -1
)

// Cluster runs DBSCAN over the POI list using haversine distance. epsM is
// the neighborhood radius in meters and minPts the smallest neighborhood,
// the point itself included, that makes a point a core point. Clusters are
// numbered from 1 in discovery order; points reachable from no core point
// come back as noise.
func Cluster(pois []model.POI, epsM float64, minPts int) ([]model.Cluster, []model.POI) {
	labels := make([]int, len(pois))
	if len(pois) < minPts {
		for i := range labels {
			labels[i] = labelNoise
		}
		return collect(pois, labels)
	}

	var clusters int
	for i := range pois {
		if labels[i] != labelUnvisited {
			continue
		}
		neighbors := neighborsOf(pois, i, epsM)
		if len(neighbors) < minPts {
			labels[i] = labelNoise
			continue
		}
		clusters++
		labels[i] = clusters
		expand(pois, labels, neighbors, clusters, epsM, minPts)
	}
	return collect(pois, labels)
}

// neighborsOf returns the indexes within epsM of point i, i included.
func neighborsOf(pois []model.POI, i int, epsM float64) []int {
	center := pois[i].Position()
	var out []int
	for j := range pois {
		if geo.Haversine(center, pois[j].Position()) <= epsM {
			out = append(out, j)
		}
	}
	return out
}

// expand grows cluster id outward from a core point's neighborhood. Points
// previously marked noise are claimed as border members; unvisited points
// join and, when they are core themselves, contribute their own neighbors
// to the frontier.
func expand(pois []model.POI, labels []int, seeds []int, id int, epsM float64, minPts int) {
	queue := append([]int(nil), seeds...)
	for k := 0; k < len(queue); k++ {
		j := queue[k]
		if labels[j] == labelNoise {
			labels[j] = id
			continue
		}
		if labels[j] != labelUnvisited {
			continue
		}
		labels[j] = id
		neighbors := neighborsOf(pois, j, epsM)
		if len(neighbors) >= minPts {
			queue = append(queue, neighbors...)
		}
	}
}

func collect(pois []model.POI, labels []int) ([]model.Cluster, []model.POI) {
	var noise []model.POI
	grouped := map[int][]model.POI{}
	for i, p := range pois {
		if labels[i] == labelNoise {
			noise = append(noise, p)
			continue
		}
		grouped[labels[i]] = append(grouped[labels[i]], p)
	}

	ids := make([]int, 0, len(grouped))
	for id := range grouped {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	clusters := make([]model.Cluster, 0, len(ids))
	for _, id := range ids {
		members := grouped[id]
		pts := make([]model.Point, len(members))
		distinct := make(map[model.Category]bool)
		for i, p := range members {
			pts[i] = p.Position()
			distinct[p.Category] = true
		}
		clusters = append(clusters, model.Cluster{
			ID:         id,
			POIs:       members,
			Centroid:   geo.Centroid(pts),
			Categories: len(distinct),
		})
	}
	return clusters, noise
}
