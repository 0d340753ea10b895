package report

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/gregorizeidler/urbansight/internal/model"
)

func sampleResult() model.AnalysisResult {
	return model.AnalysisResult{
		AnalysisID: "analysis_20260101_120000_deadbeef",
		Timestamp:  time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC),
		Success:    true,
		Property: model.PropertyInfo{
			Address: "350 5th Ave, New York",
			Lat:     40.7484,
			Lon:     -73.9857,
			City:    "New York",
		},
		POIs: []model.POI{
			{ID: "node/1", Name: "Corner Cafe", Category: model.CategoryFood, Subcategory: "cafe", Lat: 40.749, Lon: -73.985, Distance: 80},
			{ID: "node/2", Name: "33rd St Station", Category: model.CategoryTransport, Subcategory: "subway_entrance", Lat: 40.748, Lon: -73.988, Distance: 200},
		},
		Metrics: &model.NeighborhoodMetrics{
			WalkScore:  model.WalkScoreResult{Overall: 72.5, Grade: "B"},
			TotalScore: 68.1,
		},
		Clusters: []model.Cluster{
			{
				ID:         1,
				POIs:       []model.POI{{ID: "node/1"}, {ID: "node/2"}, {ID: "node/3"}},
				Centroid:   model.Point{Lat: 40.7485, Lon: -73.986},
				Categories: 2,
			},
		},
		Duration: 1500,
	}
}

func TestEncodeJSON_RoundTrips(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, EncodeJSON(&buf, sampleResult()))

	var decoded model.AnalysisResult
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "analysis_20260101_120000_deadbeef", decoded.AnalysisID)
	assert.True(t, decoded.Success)
	assert.Len(t, decoded.POIs, 2)
	require.NotNil(t, decoded.Metrics)
	assert.InDelta(t, 72.5, decoded.Metrics.WalkScore.Overall, 1e-9)
}

func TestWriteJSON_CreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "analysis.json")
	require.NoError(t, WriteJSON(path, sampleResult()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "350 5th Ave, New York", decoded["property"].(map[string]interface{})["address"])
}

func TestEncodeBatchJSON_IncludesSummary(t *testing.T) {
	var buf bytes.Buffer
	summary := model.BatchSummary{Requested: 2, Succeeded: 1, Failed: 1}
	require.NoError(t, EncodeBatchJSON(&buf, []model.AnalysisResult{sampleResult()}, summary))

	var decoded struct {
		Summary model.BatchSummary     `json:"summary"`
		Results []model.AnalysisResult `json:"results"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, 2, decoded.Summary.Requested)
	assert.Len(t, decoded.Results, 1)
}

func TestGeoJSON_FeatureCollection(t *testing.T) {
	out, err := GeoJSON(sampleResult())
	require.NoError(t, err)

	var fc struct {
		Type     string `json:"type"`
		Features []struct {
			Geometry struct {
				Type        string    `json:"type"`
				Coordinates []float64 `json:"coordinates"`
			} `json:"geometry"`
			Properties map[string]interface{} `json:"properties"`
		} `json:"features"`
	}
	require.NoError(t, json.Unmarshal(out, &fc))

	assert.Equal(t, "FeatureCollection", fc.Type)
	// property + 2 POIs + 1 cluster centroid
	require.Len(t, fc.Features, 4)

	property := fc.Features[0]
	assert.Equal(t, "property", property.Properties["type"])
	assert.Equal(t, "Point", property.Geometry.Type)
	// GeoJSON coordinate order is (lon, lat).
	assert.InDelta(t, -73.9857, property.Geometry.Coordinates[0], 1e-9)
	assert.InDelta(t, 40.7484, property.Geometry.Coordinates[1], 1e-9)

	poi := fc.Features[1]
	assert.Equal(t, "poi", poi.Properties["type"])
	assert.Equal(t, "food", poi.Properties["category"])
	assert.InDelta(t, 80, poi.Properties["distance_m"].(float64), 1e-9)

	centroid := fc.Features[3]
	assert.Equal(t, "cluster", centroid.Properties["type"])
	assert.InDelta(t, 3, centroid.Properties["size"].(float64), 1e-9)
}

func TestWriteBatchXLSX_OneRowPerResult(t *testing.T) {
	ok := sampleResult()
	failed := model.AnalysisResult{
		AnalysisID: "analysis_20260101_120001_cafebabe",
		Property:   model.PropertyInfo{Address: "nowhere at all"},
		Error:      "could not geocode address",
	}

	path := filepath.Join(t.TempDir(), "batch.xlsx")
	require.NoError(t, WriteBatchXLSX(path, []model.AnalysisResult{ok, failed}))

	f, err := xlsx.OpenFile(path)
	require.NoError(t, err)
	require.Len(t, f.Sheets, 1)
	sheet := f.Sheets[0]
	assert.Equal(t, "Batch Summary", sheet.Name)

	// Header + two data rows.
	require.Len(t, sheet.Rows, 3)
	assert.Equal(t, "Address", sheet.Rows[0].Cells[0].String())

	first := sheet.Rows[1]
	assert.Equal(t, "350 5th Ave, New York", first.Cells[0].String())
	grade := first.Cells[4].String()
	assert.Equal(t, "B", grade)

	second := sheet.Rows[2]
	assert.Equal(t, "nowhere at all", second.Cells[0].String())
	assert.Equal(t, "could not geocode address", second.Cells[7].String())
}
