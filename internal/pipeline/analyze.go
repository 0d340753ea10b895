// Package pipeline orchestrates a property analysis end to end: geocode,
// collect, classify, score, cluster, narrate.
package pipeline

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/gregorizeidler/urbansight/internal/analyzer"
	"github.com/gregorizeidler/urbansight/internal/cluster"
	"github.com/gregorizeidler/urbansight/internal/config"
	"github.com/gregorizeidler/urbansight/internal/geo"
	"github.com/gregorizeidler/urbansight/internal/insight"
	"github.com/gregorizeidler/urbansight/internal/metrics"
	"github.com/gregorizeidler/urbansight/internal/model"
	"github.com/gregorizeidler/urbansight/internal/resilience"
	"github.com/gregorizeidler/urbansight/internal/scorer"
	"github.com/gregorizeidler/urbansight/internal/taxonomy"
	"github.com/gregorizeidler/urbansight/pkg/nominatim"
	"github.com/gregorizeidler/urbansight/pkg/overpass"
)

// Pipeline runs property analyses. Safe for concurrent use.
type Pipeline struct {
	cfg        *config.Config
	geocoder   nominatim.Client
	collector  overpass.Client
	scorer     *scorer.Scorer
	classifier *taxonomy.Classifier
	calc       *metrics.Calculator
	insights   *insight.Generator
}

// New wires the analysis pipeline from its collaborators.
func New(
	cfg *config.Config,
	geocoder nominatim.Client,
	collector overpass.Client,
	sc *scorer.Scorer,
	classifier *taxonomy.Classifier,
	insights *insight.Generator,
) *Pipeline {
	return &Pipeline{
		cfg:        cfg,
		geocoder:   geocoder,
		collector:  collector,
		scorer:     sc,
		classifier: classifier,
		calc:       metrics.NewCalculator(cfg.Scoring.SearchRadiusM),
		insights:   insights,
	}
}

// Analyze runs the full analysis for one address. An address that cannot be
// geocoded comes back as an unsuccessful result, not a Go error.
func (p *Pipeline) Analyze(ctx context.Context, address string) model.AnalysisResult {
	start := time.Now()
	log := zap.L().With(zap.String("component", "pipeline"), zap.String("address", address))
	log.Info("analysis started")

	result := model.AnalysisResult{
		AnalysisID: NewAnalysisID(),
		Timestamp:  start.UTC(),
		Property:   model.PropertyInfo{Address: address},
	}

	located, err := p.geocoder.Geocode(ctx, address)
	if err != nil || !located.Matched {
		if err != nil {
			log.Error("geocoding failed",
				zap.Error(err),
				zap.String("error_type", resilience.ClassifyError(err)))
		} else {
			log.Warn("address did not geocode")
		}
		result.Error = "could not geocode address"
		result.Duration = time.Since(start).Milliseconds()
		return result
	}

	result.Property = model.PropertyInfo{
		Address:  address,
		Lat:      located.Lat,
		Lon:      located.Lon,
		City:     located.City,
		State:    located.State,
		Country:  located.Country,
		Postcode: located.Postcode,
	}
	origin := result.Property.Position()

	// A provider failure here degrades to an empty neighborhood; the
	// analysis still completes.
	features, err := p.collector.CollectFeatures(ctx, origin, p.cfg.Scoring.SearchRadiusM)
	if err != nil {
		log.Error("poi collection failed",
			zap.Error(err),
			zap.String("error_type", resilience.ClassifyError(err)))
		features = nil
	}
	pois := p.classifyFeatures(origin, features)

	neighborhood := p.buildMetrics(pois)
	advanced := p.calc.Compute(pois)

	infra, err := p.collector.CollectPedestrian(ctx, origin, p.cfg.Scoring.PedestrianRadiusM)
	if err != nil {
		log.Warn("pedestrian collection failed, scoring defaults", zap.Error(err))
		infra = model.PedestrianInfra{}
	}
	pedestrian := analyzer.Pedestrian(infra)

	clusters, noise := cluster.Cluster(pois, p.cfg.Scoring.ClusterEpsM, p.cfg.Scoring.ClusterMinPoints)

	narrative := p.insights.Generate(ctx, result.Property, neighborhood, pois)

	details, err := p.collector.CollectDetails(ctx, origin)
	if err != nil {
		log.Warn("property details unavailable", zap.Error(err))
		details = model.PropertyDetails{}
	}

	result.Success = true
	result.Details = details
	result.POIs = pois
	result.Metrics = &neighborhood
	result.Advanced = &advanced
	result.Pedestrian = &pedestrian
	result.Clusters = clusters
	result.Noise = noise
	result.Insight = &narrative
	result.Duration = time.Since(start).Milliseconds()

	log.Info("analysis complete",
		zap.String("analysis_id", result.AnalysisID),
		zap.Int("pois", len(pois)),
		zap.Float64("total_score", neighborhood.TotalScore),
		zap.Int64("duration_ms", result.Duration),
	)
	return result
}

// classifyFeatures turns raw features into classified POIs, dropping
// anything beyond the search radius.
func (p *Pipeline) classifyFeatures(origin model.Point, features []model.Feature) []model.POI {
	pois := make([]model.POI, 0, len(features))
	for _, f := range features {
		distance := geo.Haversine(origin, model.Point{Lat: f.Lat, Lon: f.Lon})
		if distance > p.cfg.Scoring.SearchRadiusM {
			continue
		}
		pois = append(pois, p.classifier.ClassifyFeature(f, distance))
	}
	return pois
}

func (p *Pipeline) buildMetrics(pois []model.POI) model.NeighborhoodMetrics {
	walk := p.scorer.WalkScore(pois)
	domains := analyzer.Domains(pois)
	return model.NeighborhoodMetrics{
		WalkScore:      walk,
		Density:        metrics.Density(len(pois), p.cfg.Scoring.SearchRadiusM),
		CategoryCounts: metrics.CountByCategory(pois),
		ClosestPOI:     metrics.ClosestByCategory(pois),
		Domains:        domains,
		TotalScore:     p.scorer.TotalScore(walk.Overall, domains),
	}
}
