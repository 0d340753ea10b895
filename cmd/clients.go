package main

import (
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/gregorizeidler/urbansight/internal/config"
	"github.com/gregorizeidler/urbansight/internal/insight"
	"github.com/gregorizeidler/urbansight/internal/pipeline"
	"github.com/gregorizeidler/urbansight/internal/scorer"
	"github.com/gregorizeidler/urbansight/internal/taxonomy"
	anthropicpkg "github.com/gregorizeidler/urbansight/pkg/anthropic"
	"github.com/gregorizeidler/urbansight/pkg/nominatim"
	"github.com/gregorizeidler/urbansight/pkg/overpass"
)

// buildPipeline wires the analysis pipeline from the loaded configuration.
// Weight-table and taxonomy problems surface here, before any request is
// made.
func buildPipeline(cfg *config.Config) (*pipeline.Pipeline, error) {
	sc, err := scorer.New(cfg.Scoring)
	if err != nil {
		return nil, eris.Wrap(err, "build scorer")
	}

	classifier := taxonomy.NewClassifier()
	if cfg.Scoring.RulesFile != "" {
		classifier, err = taxonomy.LoadRules(cfg.Scoring.RulesFile)
		if err != nil {
			return nil, eris.Wrap(err, "load taxonomy rules")
		}
		zap.L().Info("taxonomy rules loaded", zap.String("file", cfg.Scoring.RulesFile))
	}

	geocoder := nominatim.NewClient(
		nominatim.WithBaseURL(cfg.Geocoder.BaseURL),
		nominatim.WithUserAgent(cfg.Geocoder.UserAgent),
		nominatim.WithRateLimit(cfg.Geocoder.RatePerSec),
	)

	collector := overpass.NewClient(
		overpass.WithEndpoint(cfg.Overpass.Endpoint),
		overpass.WithQueryTimeout(cfg.Overpass.QueryTimeoutSecs),
		overpass.WithTimeout(time.Duration(cfg.Overpass.TimeoutSecs)*time.Second),
	)

	// Without an API key the generator always uses the template fallback.
	var anthropicClient anthropicpkg.Client
	if cfg.Anthropic.Key != "" {
		anthropicClient = anthropicpkg.NewClient(cfg.Anthropic.Key)
	} else {
		zap.L().Info("no anthropic key configured, insights use the template fallback")
	}
	insights := insight.New(anthropicClient, cfg.Anthropic.Model, int64(cfg.Anthropic.MaxTokens))

	return pipeline.New(cfg, geocoder, collector, sc, classifier, insights), nil
}
