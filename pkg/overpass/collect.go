package overpass

import (
	"context"
	"fmt"
	"sort"
	"strings"

	osm "github.com/serjvanilla/go-overpass"

	"github.com/gregorizeidler/urbansight/internal/geo"
	"github.com/gregorizeidler/urbansight/internal/model"
)

// poiTagKeys are the OSM tag keys that mark a feature as a point of
// interest worth classifying.
var poiTagKeys = []string{"amenity", "shop", "leisure", "tourism", "public_transport"}

const (
	buildingRadiusM = 50
	landuseRadiusM  = 100
)

// CollectFeatures returns raw POI candidates within radiusM of origin. Way
// features are positioned at the mean of their node coordinates.
func (c *apiClient) CollectFeatures(ctx context.Context, origin model.Point, radiusM float64) ([]model.Feature, error) {
	result, err := c.executeQuery(ctx, "pois", buildPOIQuery(origin, radiusM, c.queryTimeoutSecs))
	if err != nil {
		return nil, err
	}
	return featuresFromResult(result), nil
}

// CollectPedestrian returns walking infrastructure within radiusM of origin.
func (c *apiClient) CollectPedestrian(ctx context.Context, origin model.Point, radiusM float64) (model.PedestrianInfra, error) {
	result, err := c.executeQuery(ctx, "pedestrian", buildPedestrianQuery(origin, radiusM, c.queryTimeoutSecs))
	if err != nil {
		return model.PedestrianInfra{}, err
	}
	return infraFromResult(result, origin), nil
}

// CollectDetails returns best-effort building and landuse context at origin.
func (c *apiClient) CollectDetails(ctx context.Context, origin model.Point) (model.PropertyDetails, error) {
	result, err := c.executeQuery(ctx, "details", buildDetailsQuery(origin, c.queryTimeoutSecs))
	if err != nil {
		return model.PropertyDetails{}, err
	}
	return detailsFromResult(result), nil
}

func buildPOIQuery(origin model.Point, radiusM float64, timeoutSecs int) string {
	around := aroundClause(origin, radiusM)
	var b strings.Builder
	fmt.Fprintf(&b, "[out:json][timeout:%d];\n(\n", timeoutSecs)
	for _, key := range poiTagKeys {
		fmt.Fprintf(&b, "  node[%q]%s;\n", key, around)
	}
	for _, key := range poiTagKeys {
		fmt.Fprintf(&b, "  way[%q]%s;\n", key, around)
	}
	b.WriteString(");\nout body;\n>;\nout skel qt;")
	return b.String()
}

func buildPedestrianQuery(origin model.Point, radiusM float64, timeoutSecs int) string {
	around := aroundClause(origin, radiusM)
	clauses := []string{
		`way["footway"="sidewalk"]`,
		`way["sidewalk"]`,
		`way["highway"="pedestrian"]`,
		`way["highway"="footway"]`,
		`node["highway"="crossing"]`,
		`node["crossing"]`,
		`node["highway"="traffic_signals"]`,
		`way["highway"]["maxspeed"]`,
		`way["highway"~"^(residential|living_street|service)$"]`,
		`node["highway"="street_lamp"]`,
	}

	var b strings.Builder
	fmt.Fprintf(&b, "[out:json][timeout:%d];\n(\n", timeoutSecs)
	for _, clause := range clauses {
		fmt.Fprintf(&b, "  %s%s;\n", clause, around)
	}
	b.WriteString(");\nout body;\n>;\nout skel qt;")
	return b.String()
}

func buildDetailsQuery(origin model.Point, timeoutSecs int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[out:json][timeout:%d];\n(\n", timeoutSecs)
	fmt.Fprintf(&b, "  way[\"building\"]%s;\n", aroundClause(origin, buildingRadiusM))
	fmt.Fprintf(&b, "  way[\"landuse\"]%s;\n", aroundClause(origin, landuseRadiusM))
	b.WriteString(");\nout body;\n>;\nout skel qt;")
	return b.String()
}

func aroundClause(origin model.Point, radiusM float64) string {
	return fmt.Sprintf("(around:%.0f,%.6f,%.6f)", radiusM, origin.Lat, origin.Lon)
}

// featuresFromResult converts a query result to features in deterministic
// order: nodes by id, then ways by id. Untagged way-member nodes pulled in
// by the skeleton recursion are dropped.
func featuresFromResult(result *osm.Result) []model.Feature {
	features := make([]model.Feature, 0, len(result.Nodes)+len(result.Ways))

	for _, id := range sortedIDs(result.Nodes) {
		node := result.Nodes[id]
		if !hasPOITag(node.Tags) {
			continue
		}
		features = append(features, model.Feature{
			ID:   fmt.Sprintf("node/%d", id),
			Lat:  node.Lat,
			Lon:  node.Lon,
			Name: node.Tags["name"],
			Tags: node.Tags,
		})
	}

	for _, id := range sortedIDs(result.Ways) {
		way := result.Ways[id]
		center, ok := wayCenter(way)
		if !ok {
			continue
		}
		features = append(features, model.Feature{
			ID:   fmt.Sprintf("way/%d", id),
			Lat:  center.Lat,
			Lon:  center.Lon,
			Name: way.Tags["name"],
			Tags: way.Tags,
		})
	}

	return features
}

// infraFromResult extracts pedestrian infrastructure from a query result.
// Each list comes back sorted nearest first.
func infraFromResult(result *osm.Result, origin model.Point) model.PedestrianInfra {
	var infra model.PedestrianInfra

	for _, id := range sortedIDs(result.Ways) {
		way := result.Ways[id]
		if len(way.Nodes) < 2 {
			continue
		}
		center, _ := wayCenter(way)
		distance := geo.Haversine(origin, center)

		if isSidewalk(way.Tags) {
			infra.Sidewalks = append(infra.Sidewalks, model.Sidewalk{
				Distance:   distance,
				Length:     geo.PathLength(wayPoints(way)),
				Surface:    tagOr(way.Tags, "surface", "unknown"),
				Width:      tagOr(way.Tags, "width", "unknown"),
				Lit:        tagOr(way.Tags, "lit", "unknown"),
				Wheelchair: tagOr(way.Tags, "wheelchair", "unknown"),
			})
		}

		if class, ok := way.Tags["highway"]; ok {
			if class == "pedestrian" || class == "footway" {
				infra.PedestrianWayDists = append(infra.PedestrianWayDists, distance)
			}
			infra.Roads = append(infra.Roads, model.Road{
				Distance: distance,
				Class:    class,
				MaxSpeed: tagOr(way.Tags, "maxspeed", "unknown"),
			})
		}
	}

	for _, id := range sortedIDs(result.Nodes) {
		node := result.Nodes[id]
		distance := geo.Haversine(origin, model.Point{Lat: node.Lat, Lon: node.Lon})

		_, hasCrossing := node.Tags["crossing"]
		if hasCrossing || node.Tags["highway"] == "crossing" {
			infra.Crossings = append(infra.Crossings, model.Crossing{
				Distance:      distance,
				Type:          tagOr(node.Tags, "crossing", "unknown"),
				Signals:       tagOr(node.Tags, "crossing:signals", "no"),
				TactilePaving: tagOr(node.Tags, "tactile_paving", "unknown"),
				Wheelchair:    tagOr(node.Tags, "wheelchair", "unknown"),
			})
		}

		switch node.Tags["highway"] {
		case "traffic_signals":
			infra.SignalDistances = append(infra.SignalDistances, distance)
		case "street_lamp":
			infra.LampDistances = append(infra.LampDistances, distance)
		}
	}

	sort.SliceStable(infra.Sidewalks, func(i, j int) bool { return infra.Sidewalks[i].Distance < infra.Sidewalks[j].Distance })
	sort.SliceStable(infra.Crossings, func(i, j int) bool { return infra.Crossings[i].Distance < infra.Crossings[j].Distance })
	sort.SliceStable(infra.Roads, func(i, j int) bool { return infra.Roads[i].Distance < infra.Roads[j].Distance })
	sort.Float64s(infra.SignalDistances)
	sort.Float64s(infra.LampDistances)
	sort.Float64s(infra.PedestrianWayDists)

	return infra
}

// detailsFromResult picks the lowest-id building and landuse ways.
func detailsFromResult(result *osm.Result) model.PropertyDetails {
	var details model.PropertyDetails
	for _, id := range sortedIDs(result.Ways) {
		way := result.Ways[id]
		if details.BuildingType == "" {
			if building, ok := way.Tags["building"]; ok {
				details.BuildingType = building
				details.BuildingLevels = way.Tags["building:levels"]
			}
		}
		if details.Landuse == "" {
			details.Landuse = way.Tags["landuse"]
		}
	}
	return details
}

func hasPOITag(tags map[string]string) bool {
	for _, key := range poiTagKeys {
		if _, ok := tags[key]; ok {
			return true
		}
	}
	return false
}

// isSidewalk reports whether a way is mapped as a sidewalk, either as a
// separate footway or via a sidewalk tag on the road itself.
func isSidewalk(tags map[string]string) bool {
	if tags["footway"] == "sidewalk" {
		return true
	}
	_, ok := tags["sidewalk"]
	return ok
}

func tagOr(tags map[string]string, key, fallback string) string {
	if v, ok := tags[key]; ok && v != "" {
		return v
	}
	return fallback
}

func wayCenter(way *osm.Way) (model.Point, bool) {
	if len(way.Nodes) == 0 {
		return model.Point{}, false
	}
	var lat, lon float64
	for _, node := range way.Nodes {
		lat += node.Lat
		lon += node.Lon
	}
	n := float64(len(way.Nodes))
	return model.Point{Lat: lat / n, Lon: lon / n}, true
}

func wayPoints(way *osm.Way) []model.Point {
	pts := make([]model.Point, 0, len(way.Nodes))
	for _, node := range way.Nodes {
		pts = append(pts, model.Point{Lat: node.Lat, Lon: node.Lon})
	}
	return pts
}

func sortedIDs[T any](m map[int64]T) []int64 {
	ids := make([]int64, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
