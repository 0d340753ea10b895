package scorer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gregorizeidler/urbansight/internal/config"
)

func TestDefaultScoringConfig_Valid(t *testing.T) {
	t.Parallel()

	require.NoError(t, ValidateConfig(DefaultScoringConfig()))
}

func TestValidateConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(cfg *config.ScoringConfig)
		wantMsg string
	}{
		{
			"negative category weight",
			func(c *config.ScoringConfig) {
				c.CategoryWeights.Park = -0.1
				c.CategoryWeights.Grocery = 0.35
			},
			"category_weights.park must be >= 0",
		},
		{
			"category weights off by too much",
			func(c *config.ScoringConfig) { c.CategoryWeights.Grocery = 0.30 },
			"category_weights must sum to 1.0",
		},
		{
			"domain weights off by too much",
			func(c *config.ScoringConfig) { c.DomainWeights.Safety = 0 },
			"domain_weights must sum to 1.0",
		},
		{
			"zero search radius",
			func(c *config.ScoringConfig) { c.SearchRadiusM = 0 },
			"search_radius_m must be > 0",
		},
		{
			"negative pedestrian radius",
			func(c *config.ScoringConfig) { c.PedestrianRadiusM = -1 },
			"pedestrian_radius_m must be > 0",
		},
		{
			"zero decay cutoff",
			func(c *config.ScoringConfig) { c.DecayCutoffM = 0 },
			"decay_cutoff_m must be > 0",
		},
		{
			"zero top per category",
			func(c *config.ScoringConfig) { c.TopPerCategory = 0 },
			"top_per_category must be >= 1",
		},
		{
			"zero cluster eps",
			func(c *config.ScoringConfig) { c.ClusterEpsM = 0 },
			"cluster_eps_m must be > 0",
		},
		{
			"zero cluster min points",
			func(c *config.ScoringConfig) { c.ClusterMinPoints = 0 },
			"cluster_min_points must be >= 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := DefaultScoringConfig()
			tt.mutate(&cfg)
			err := ValidateConfig(cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestValidateConfig_Tolerance(t *testing.T) {
	t.Parallel()

	t.Run("tiny drift is accepted", func(t *testing.T) {
		t.Parallel()
		cfg := DefaultScoringConfig()
		cfg.CategoryWeights.Grocery += 5e-7
		assert.NoError(t, ValidateConfig(cfg))
	})

	t.Run("drift past tolerance is rejected", func(t *testing.T) {
		t.Parallel()
		cfg := DefaultScoringConfig()
		cfg.CategoryWeights.Grocery += 5e-6
		assert.Error(t, ValidateConfig(cfg))
	})
}

func TestValidateConfig_CollectsAllProblems(t *testing.T) {
	t.Parallel()

	cfg := DefaultScoringConfig()
	cfg.SearchRadiusM = 0
	cfg.ClusterMinPoints = 0
	cfg.DomainWeights.Walkability = 0.9

	err := ValidateConfig(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "search_radius_m")
	assert.Contains(t, err.Error(), "cluster_min_points")
	assert.Contains(t, err.Error(), "domain_weights")
}

func TestGrade(t *testing.T) {
	t.Parallel()

	tests := []struct {
		score float64
		want  string
	}{
		{100, "A+"},
		{90, "A+"},
		{89.99, "A"},
		{80, "A"},
		{75, "B"},
		{70, "B"},
		{60, "C"},
		{55, "D"},
		{50, "D"},
		{49.99, "F"},
		{0, "F"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Grade(tt.score))
		})
	}
}

func TestWalkDescription(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Walker's Paradise: daily errands do not require a car", WalkDescription("A+"))
	assert.Equal(t, "Car-Dependent: almost all errands require a car", WalkDescription("F"))
	assert.NotEmpty(t, WalkDescription("B"))
	assert.NotEmpty(t, WalkDescription("C"))
}
