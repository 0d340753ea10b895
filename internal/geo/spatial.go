package geo

import "github.com/gregorizeidler/urbansight/internal/model"

// Centroid returns the arithmetic mean of a coordinate set. The zero Point
// is returned for empty input.
func Centroid(pts []model.Point) model.Point {
	if len(pts) == 0 {
		return model.Point{}
	}
	var sumLat, sumLon float64
	for _, p := range pts {
		sumLat += p.Lat
		sumLon += p.Lon
	}
	n := float64(len(pts))
	return model.Point{Lat: sumLat / n, Lon: sumLon / n}
}

// Direction labels the two half-planes a point falls into relative to a
// center: north or south, and east or west. Points exactly on the center
// line count as south and west.
func Direction(center, p model.Point) (ns, ew string) {
	ns = "south"
	if p.Lat > center.Lat {
		ns = "north"
	}
	ew = "west"
	if p.Lon > center.Lon {
		ew = "east"
	}
	return ns, ew
}
