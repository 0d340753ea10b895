// Package scorer implements the distance-decay walk score and the composite
// property score.
package scorer

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/gregorizeidler/urbansight/internal/config"
)

// weightTolerance bounds how far a weight table may drift from 1.0.
const weightTolerance = 1e-6

// DefaultScoringConfig returns a config.ScoringConfig with the calibrated
// defaults. Both weight tables sum to 1.
func DefaultScoringConfig() config.ScoringConfig {
	return config.ScoringConfig{
		CategoryWeights: config.CategoryWeights{
			Grocery:       0.15,
			Restaurant:    0.10,
			Shopping:      0.05,
			School:        0.15,
			Park:          0.10,
			Entertainment: 0.05,
			Healthcare:    0.10,
			Transport:     0.20,
			Services:      0.10,
		},
		DomainWeights: config.DomainWeights{
			Walkability:   0.30,
			Accessibility: 0.25,
			Convenience:   0.25,
			Safety:        0.10,
			QualityOfLife: 0.10,
		},
		SearchRadiusM:     1000,
		PedestrianRadiusM: 500,
		DecayCutoffM:      800,
		TopPerCategory:    5,
		ClusterEpsM:       100,
		ClusterMinPoints:  3,
	}
}

// ValidateConfig checks that a ScoringConfig is internally consistent.
// Weight tables must sum to 1.0 within tolerance; they are never
// renormalized on the caller's behalf.
func ValidateConfig(cfg config.ScoringConfig) error {
	var errs []string

	tables := []struct {
		name    string
		weights map[string]float64
	}{
		{"category_weights", cfg.CategoryWeights.Map()},
		{"domain_weights", cfg.DomainWeights.Map()},
	}
	for _, table := range tables {
		var sum float64
		for _, name := range sortedKeys(table.weights) {
			w := table.weights[name]
			if w < 0 {
				errs = append(errs, fmt.Sprintf("%s.%s must be >= 0", table.name, name))
			}
			sum += w
		}
		if math.Abs(sum-1) > weightTolerance {
			errs = append(errs, fmt.Sprintf("%s must sum to 1.0, got %.6f", table.name, sum))
		}
	}

	if cfg.SearchRadiusM <= 0 {
		errs = append(errs, "search_radius_m must be > 0")
	}
	if cfg.PedestrianRadiusM <= 0 {
		errs = append(errs, "pedestrian_radius_m must be > 0")
	}
	if cfg.DecayCutoffM <= 0 {
		errs = append(errs, "decay_cutoff_m must be > 0")
	}
	if cfg.TopPerCategory < 1 {
		errs = append(errs, "top_per_category must be >= 1")
	}
	if cfg.ClusterEpsM <= 0 {
		errs = append(errs, "cluster_eps_m must be > 0")
	}
	if cfg.ClusterMinPoints < 1 {
		errs = append(errs, "cluster_min_points must be >= 1")
	}

	if len(errs) > 0 {
		return eris.Errorf("scorer: config validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
