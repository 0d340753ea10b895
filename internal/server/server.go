// Package server exposes the analysis pipeline as a JSON API with an
// in-memory result store.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/gregorizeidler/urbansight/internal/model"
	"github.com/gregorizeidler/urbansight/internal/report"
)

// Analyzer runs property analyses for the API. Satisfied by
// pipeline.Pipeline.
type Analyzer interface {
	Analyze(ctx context.Context, address string) model.AnalysisResult
	AnalyzeBatch(ctx context.Context, addresses []string) ([]model.AnalysisResult, model.BatchSummary)
}

// Server serves the analysis API over a shared result store.
type Server struct {
	analyzer Analyzer
	store    *Store
}

// New builds a Server around an analyzer with a fresh store.
func New(analyzer Analyzer) *Server {
	return &Server{analyzer: analyzer, store: NewStore()}
}

// Store exposes the result store, mainly for tests and analytics.
func (s *Server) Store() *Store {
	return s.store
}

// Handler builds the route table. CORS allows any origin: the API serves
// browser front ends on other hosts.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/", s.handleIndex)
	r.Get("/health", s.handleHealth)
	r.Post("/analyze", s.handleAnalyze)
	r.Post("/batch-analyze", s.handleBatchAnalyze)
	r.Get("/result/{analysisID}", s.handleResult)
	r.Get("/geojson/{analysisID}", s.handleGeoJSON)
	r.Get("/analytics", s.handleAnalytics)
	r.Delete("/cache", s.handleClearCache)
	return r
}

// ListenAndServe runs the API until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, port int) error {
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: s.Handler(),
	}

	go func() {
		<-ctx.Done()
		zap.L().Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	zap.L().Info("starting server", zap.Int("port", port))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return eris.Wrap(err, "server listen")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"service": "UrbanSight Property Analysis API",
		"version": "3.0",
		"endpoints": map[string]string{
			"GET /health":               "service health",
			"POST /analyze":             "analyze one address",
			"POST /batch-analyze":       "analyze a list of addresses",
			"GET /result/{analysisID}":  "full analysis report",
			"GET /geojson/{analysisID}": "analysis as a GeoJSON FeatureCollection",
			"GET /analytics":            "aggregate statistics over completed analyses",
			"DELETE /cache":             "clear the in-memory result store",
		},
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// analyzeSummary is the compact response to POST /analyze. The full report
// stays behind GET /result/{id}.
type analyzeSummary struct {
	Address    string  `json:"address"`
	TotalScore float64 `json:"total_score"`
	WalkScore  float64 `json:"walk_score"`
	POICount   int     `json:"pois_count"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Address    string `json:"address"`
		AnalysisID string `json:"analysis_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Address = strings.TrimSpace(req.Address)
	if req.Address == "" {
		writeError(w, http.StatusBadRequest, "address is required")
		return
	}

	result := s.analyzer.Analyze(r.Context(), req.Address)
	if req.AnalysisID != "" {
		result.AnalysisID = req.AnalysisID
	}
	s.store.Put(result)

	if !result.Success {
		// A failed analysis is data, not a transport error.
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success":     false,
			"analysis_id": result.AnalysisID,
			"error":       result.Error,
		})
		return
	}

	summary := analyzeSummary{Address: req.Address, POICount: len(result.POIs)}
	if result.Metrics != nil {
		summary.TotalScore = result.Metrics.TotalScore
		summary.WalkScore = result.Metrics.WalkScore.Overall
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":     true,
		"analysis_id": result.AnalysisID,
		"data":        summary,
	})
}

func (s *Server) handleBatchAnalyze(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Addresses []string `json:"addresses"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Addresses) == 0 {
		writeError(w, http.StatusBadRequest, "addresses is required")
		return
	}

	results, summary := s.analyzer.AnalyzeBatch(r.Context(), req.Addresses)
	ids := make([]string, 0, len(results))
	for _, result := range results {
		s.store.Put(result)
		ids = append(ids, result.AnalysisID)
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":      true,
		"total":        summary.Requested,
		"succeeded":    summary.Succeeded,
		"failed":       summary.Failed,
		"analysis_ids": ids,
	})
}

func (s *Server) handleResult(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "analysisID")
	result, ok := s.store.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "analysis not found")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleGeoJSON(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "analysisID")
	result, ok := s.store.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "analysis not found")
		return
	}
	if !result.Success {
		writeError(w, http.StatusBadRequest, "analysis was not successful")
		return
	}

	out, err := report.GeoJSON(result)
	if err != nil {
		zap.L().Error("geojson export failed", zap.String("analysis_id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "geojson export failed")
		return
	}
	w.Header().Set("Content-Type", "application/geo+json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out)
}

func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, ComputeAnalytics(s.store.All()))
}

func (s *Server) handleClearCache(w http.ResponseWriter, r *http.Request) {
	removed := s.store.Clear()
	zap.L().Info("result cache cleared", zap.Int("removed", removed))
	writeJSON(w, http.StatusOK, map[string]interface{}{"removed": removed})
}
