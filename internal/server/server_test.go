package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/gregorizeidler/urbansight/internal/model"
)

type mockAnalyzer struct {
	mock.Mock
}

func (m *mockAnalyzer) Analyze(ctx context.Context, address string) model.AnalysisResult {
	args := m.Called(ctx, address)
	return args.Get(0).(model.AnalysisResult)
}

func (m *mockAnalyzer) AnalyzeBatch(ctx context.Context, addresses []string) ([]model.AnalysisResult, model.BatchSummary) {
	args := m.Called(ctx, addresses)
	return args.Get(0).([]model.AnalysisResult), args.Get(1).(model.BatchSummary)
}

func successResult(id string) model.AnalysisResult {
	return model.AnalysisResult{
		AnalysisID: id,
		Success:    true,
		Property:   model.PropertyInfo{Address: "350 5th Ave, New York", Lat: 40.7484, Lon: -73.9857},
		POIs: []model.POI{
			{ID: "node/1", Name: "Corner Cafe", Category: model.CategoryFood, Subcategory: "cafe", Lat: 40.749, Lon: -73.985, Distance: 80},
		},
		Metrics: &model.NeighborhoodMetrics{
			WalkScore:  model.WalkScoreResult{Overall: 72.5, Grade: "B"},
			TotalScore: 68.1,
		},
	}
}

func doJSON(t *testing.T, handler http.Handler, method, target string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestServer_Index(t *testing.T) {
	srv := New(new(mockAnalyzer))
	rec := doJSON(t, srv.Handler(), http.MethodGet, "/", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "UrbanSight Property Analysis API", body["service"])
	assert.NotEmpty(t, body["endpoints"])
}

func TestServer_Health(t *testing.T) {
	srv := New(new(mockAnalyzer))
	rec := doJSON(t, srv.Handler(), http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "healthy", body["status"])
	assert.NotEmpty(t, body["timestamp"])
}

func TestServer_AnalyzeFlow(t *testing.T) {
	analyzer := new(mockAnalyzer)
	analyzer.On("Analyze", mock.Anything, "350 5th Ave, New York").
		Return(successResult("a1")).Once()

	srv := New(analyzer)
	handler := srv.Handler()

	rec := doJSON(t, handler, http.MethodPost, "/analyze",
		map[string]string{"address": "350 5th Ave, New York"})
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "a1", body["analysis_id"])
	data := body["data"].(map[string]interface{})
	assert.InDelta(t, 68.1, data["total_score"].(float64), 1e-9)
	assert.InDelta(t, 72.5, data["walk_score"].(float64), 1e-9)
	assert.InDelta(t, 1, data["pois_count"].(float64), 1e-9)

	// The full report is now retrievable.
	rec = doJSON(t, handler, http.MethodGet, "/result/a1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var full model.AnalysisResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &full))
	assert.Equal(t, "a1", full.AnalysisID)
	assert.Len(t, full.POIs, 1)

	// And analytics sees it.
	rec = doJSON(t, handler, http.MethodGet, "/analytics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body = decodeBody(t, rec)
	assert.InDelta(t, 1, body["total_analyses"].(float64), 1e-9)
	assert.InDelta(t, 100, body["success_rate"].(float64), 1e-9)

	analyzer.AssertExpectations(t)
}

func TestServer_AnalyzeFailedAnalysisIsData(t *testing.T) {
	failed := model.AnalysisResult{
		AnalysisID: "a-fail",
		Property:   model.PropertyInfo{Address: "nowhere at all"},
		Error:      "could not geocode address",
	}
	analyzer := new(mockAnalyzer)
	analyzer.On("Analyze", mock.Anything, "nowhere at all").Return(failed).Once()

	srv := New(analyzer)
	rec := doJSON(t, srv.Handler(), http.MethodPost, "/analyze",
		map[string]string{"address": "nowhere at all"})

	// Failure travels as payload, not as an HTTP error.
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "could not geocode address", body["error"])
}

func TestServer_AnalyzeBadRequests(t *testing.T) {
	srv := New(new(mockAnalyzer))
	handler := srv.Handler()

	t.Run("malformed body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/analyze", bytes.NewBufferString("{nope"))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("empty address", func(t *testing.T) {
		rec := doJSON(t, handler, http.MethodPost, "/analyze", map[string]string{"address": "  "})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestServer_AnalyzeHonorsClientAnalysisID(t *testing.T) {
	analyzer := new(mockAnalyzer)
	analyzer.On("Analyze", mock.Anything, "350 5th Ave, New York").
		Return(successResult("generated")).Once()

	srv := New(analyzer)
	rec := doJSON(t, srv.Handler(), http.MethodPost, "/analyze",
		map[string]string{"address": "350 5th Ave, New York", "analysis_id": "client-chosen"})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "client-chosen", decodeBody(t, rec)["analysis_id"])
	_, ok := srv.Store().Get("client-chosen")
	assert.True(t, ok)
}

func TestServer_BatchAnalyze(t *testing.T) {
	addresses := []string{"350 5th Ave, New York", "nowhere at all"}
	results := []model.AnalysisResult{
		successResult("b1"),
		{AnalysisID: "b2", Property: model.PropertyInfo{Address: "nowhere at all"}, Error: "could not geocode address"},
	}
	summary := model.BatchSummary{Requested: 2, Succeeded: 1, Failed: 1}

	analyzer := new(mockAnalyzer)
	analyzer.On("AnalyzeBatch", mock.Anything, addresses).Return(results, summary).Once()

	srv := New(analyzer)
	rec := doJSON(t, srv.Handler(), http.MethodPost, "/batch-analyze",
		map[string][]string{"addresses": addresses})

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.InDelta(t, 2, body["total"].(float64), 1e-9)
	assert.InDelta(t, 1, body["succeeded"].(float64), 1e-9)
	assert.InDelta(t, 1, body["failed"].(float64), 1e-9)
	assert.Len(t, body["analysis_ids"], 2)
	assert.Equal(t, 2, srv.Store().Len())
}

func TestServer_BatchAnalyzeEmptyList(t *testing.T) {
	srv := New(new(mockAnalyzer))
	rec := doJSON(t, srv.Handler(), http.MethodPost, "/batch-analyze",
		map[string][]string{"addresses": {}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_ResultNotFound(t *testing.T) {
	srv := New(new(mockAnalyzer))
	rec := doJSON(t, srv.Handler(), http.MethodGet, "/result/unknown", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServer_GeoJSON(t *testing.T) {
	srv := New(new(mockAnalyzer))
	srv.Store().Put(successResult("a1"))
	srv.Store().Put(model.AnalysisResult{AnalysisID: "a-fail", Error: "could not geocode address"})
	handler := srv.Handler()

	t.Run("success", func(t *testing.T) {
		rec := doJSON(t, handler, http.MethodGet, "/geojson/a1", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/geo+json", rec.Header().Get("Content-Type"))
		body := decodeBody(t, rec)
		assert.Equal(t, "FeatureCollection", body["type"])
	})

	t.Run("unknown id", func(t *testing.T) {
		rec := doJSON(t, handler, http.MethodGet, "/geojson/unknown", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("failed analysis", func(t *testing.T) {
		rec := doJSON(t, handler, http.MethodGet, "/geojson/a-fail", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestServer_ClearCache(t *testing.T) {
	srv := New(new(mockAnalyzer))
	srv.Store().Put(successResult("a1"))
	srv.Store().Put(successResult("a2"))

	rec := doJSON(t, srv.Handler(), http.MethodDelete, "/cache", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.InDelta(t, 2, decodeBody(t, rec)["removed"].(float64), 1e-9)
	assert.Equal(t, 0, srv.Store().Len())
}
