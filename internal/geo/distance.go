// Package geo provides the spherical distance and proximity primitives the
// scoring pipeline is built on.
package geo

import (
	"math"

	"github.com/rotisserie/eris"

	"github.com/gregorizeidler/urbansight/internal/model"
)

// earthRadiusM is the mean Earth radius in meters.
const earthRadiusM = 6371 * 1000.0

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}

// Haversine returns the great-circle distance between two points in meters.
func Haversine(a, b model.Point) float64 {
	lat1 := radians(a.Lat)
	lat2 := radians(b.Lat)
	dLat := lat2 - lat1
	dLon := radians(b.Lon - a.Lon)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusM * math.Asin(math.Sqrt(h))
}

// Decay is the linear proximity falloff: 1 at the reference point, 0 at or
// beyond cutoff meters. Non-positive cutoffs yield 0.
func Decay(distanceM, cutoffM float64) float64 {
	if cutoffM <= 0 {
		return 0
	}
	return math.Max(0, 1-distanceM/cutoffM)
}

// PathLength sums the consecutive great-circle segments of a way geometry,
// in meters.
func PathLength(pts []model.Point) float64 {
	var total float64
	for i := 1; i < len(pts); i++ {
		total += Haversine(pts[i-1], pts[i])
	}
	return total
}

// ValidatePoint rejects coordinates outside the WGS84 domain.
func ValidatePoint(p model.Point) error {
	if math.IsNaN(p.Lat) || math.IsInf(p.Lat, 0) ||
		math.IsNaN(p.Lon) || math.IsInf(p.Lon, 0) {
		return eris.Errorf("geo: non-finite coordinates (%v, %v)", p.Lat, p.Lon)
	}
	if p.Lat < -90 || p.Lat > 90 {
		return eris.Errorf("geo: latitude %v out of range [-90, 90]", p.Lat)
	}
	if p.Lon < -180 || p.Lon > 180 {
		return eris.Errorf("geo: longitude %v out of range [-180, 180]", p.Lon)
	}
	return nil
}
