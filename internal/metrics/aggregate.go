package metrics

import (
	"math"

	"github.com/gregorizeidler/urbansight/internal/model"
)

// Density is the POI count normalized to the search area, per km².
func Density(count int, radiusM float64) float64 {
	area := AreaKm2(radiusM)
	if area == 0 {
		return 0
	}
	return float64(count) / area
}

// AreaKm2 is the circular search area for a radius in meters.
func AreaKm2(radiusM float64) float64 {
	rKm := radiusM / 1000
	return math.Pi * rKm * rKm
}

// CountByCategory tallies POIs per category.
func CountByCategory(pois []model.POI) map[model.Category]int {
	counts := make(map[model.Category]int)
	for _, p := range pois {
		counts[p.Category]++
	}
	return counts
}

// ClosestByCategory picks each category's nearest POI. Distance ties keep
// the POI encountered first in input order.
func ClosestByCategory(pois []model.POI) map[model.Category]model.POI {
	closest := make(map[model.Category]model.POI)
	for _, p := range pois {
		cur, ok := closest[p.Category]
		if !ok || p.Distance < cur.Distance {
			closest[p.Category] = p
		}
	}
	return closest
}
