package report

import (
	"github.com/rotisserie/eris"
	geom "github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"

	"github.com/gregorizeidler/urbansight/internal/model"
)

// GeoJSON renders an analysis as a FeatureCollection: the property point,
// every classified POI, and one centroid point per cluster. Any renderer
// that speaks GeoJSON can draw the same picture the scores were computed
// from.
func GeoJSON(result model.AnalysisResult) ([]byte, error) {
	features := make([]*geojson.Feature, 0, len(result.POIs)+len(result.Clusters)+1)

	features = append(features, &geojson.Feature{
		ID:       result.AnalysisID,
		Geometry: point(result.Property.Position()),
		Properties: map[string]interface{}{
			"type":    "property",
			"address": result.Property.Address,
		},
	})

	for _, p := range result.POIs {
		features = append(features, &geojson.Feature{
			ID:       p.ID,
			Geometry: point(p.Position()),
			Properties: map[string]interface{}{
				"type":        "poi",
				"name":        p.Name,
				"category":    string(p.Category),
				"subcategory": p.Subcategory,
				"distance_m":  p.Distance,
			},
		})
	}

	for _, c := range result.Clusters {
		features = append(features, &geojson.Feature{
			Geometry: point(c.Centroid),
			Properties: map[string]interface{}{
				"type":       "cluster",
				"cluster_id": c.ID,
				"size":       len(c.POIs),
				"categories": c.Categories,
			},
		})
	}

	fc := geojson.FeatureCollection{Features: features}
	out, err := fc.MarshalJSON()
	if err != nil {
		return nil, eris.Wrap(err, "report: marshal geojson")
	}
	return out, nil
}

// point builds a GeoJSON position; GeoJSON orders coordinates (lon, lat).
func point(p model.Point) *geom.Point {
	return geom.NewPointFlat(geom.XY, []float64{p.Lon, p.Lat})
}
