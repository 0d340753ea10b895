package scorer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gregorizeidler/urbansight/internal/model"
)

func newTestScorer(t *testing.T) *Scorer {
	t.Helper()
	s, err := New(DefaultScoringConfig())
	require.NoError(t, err)
	return s
}

func poisAt(cat model.Category, distances ...float64) []model.POI {
	pois := make([]model.POI, len(distances))
	for i, d := range distances {
		pois[i] = model.POI{Category: cat, Distance: d}
	}
	return pois
}

func TestScorer_CategoryScore(t *testing.T) {
	t.Parallel()

	s := newTestScorer(t)

	t.Run("empty input scores zero", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, 0.0, s.CategoryScore(nil))
	})

	t.Run("three options at 100, 300 and 900 meters", func(t *testing.T) {
		t.Parallel()
		// decay: 1-100/800=0.875, 1-300/800=0.625, 0 (beyond cutoff)
		// contributions: 0.875/1 + 0.625/2 + 0 = 1.1875
		// min(100, 118.75) = 100
		score := s.CategoryScore(poisAt(model.CategoryFood, 100, 300, 900))
		assert.InDelta(t, 100, score, 1e-9)
	})

	t.Run("single option at half cutoff", func(t *testing.T) {
		t.Parallel()
		score := s.CategoryScore(poisAt(model.CategoryFood, 400))
		assert.InDelta(t, 50, score, 1e-9)
	})

	t.Run("everything beyond cutoff", func(t *testing.T) {
		t.Parallel()
		score := s.CategoryScore(poisAt(model.CategoryFood, 800, 950, 2000))
		assert.Equal(t, 0.0, score)
	})

	t.Run("only the five closest count", func(t *testing.T) {
		t.Parallel()
		// decay at 720m = 0.1; rank discounts 1, 1/2, 1/3, 1/4, 1/5
		// sum = 0.1 * (1 + 0.5 + 0.33333 + 0.25 + 0.2) = 0.2283333
		five := s.CategoryScore(poisAt(model.CategoryFood, 720, 720, 720, 720, 720))
		six := s.CategoryScore(poisAt(model.CategoryFood, 720, 720, 720, 720, 720, 720))
		assert.InDelta(t, 22.83333, five, 0.001)
		assert.Equal(t, five, six)
	})

	t.Run("closer options rank first regardless of input order", func(t *testing.T) {
		t.Parallel()
		a := s.CategoryScore(poisAt(model.CategoryFood, 600, 100))
		b := s.CategoryScore(poisAt(model.CategoryFood, 100, 600))
		assert.InDelta(t, a, b, 1e-9)
		// 0.875/1 + 0.25/2 = 1.0
		assert.InDelta(t, 100, a, 1e-9)
	})

	t.Run("input slice is not mutated", func(t *testing.T) {
		t.Parallel()
		pois := poisAt(model.CategoryFood, 600, 100, 300)
		s.CategoryScore(pois)
		assert.Equal(t, 600.0, pois[0].Distance)
		assert.Equal(t, 100.0, pois[1].Distance)
	})
}

func TestScorer_WalkScore(t *testing.T) {
	t.Parallel()

	s := newTestScorer(t)

	t.Run("empty input", func(t *testing.T) {
		t.Parallel()
		result := s.WalkScore(nil)
		assert.Equal(t, 0.0, result.Overall)
		assert.Equal(t, "F", result.Grade)
		assert.Equal(t, "Car-Dependent: almost all errands require a car", result.Description)
		assert.Len(t, result.PerCategory, 9)
		for key, score := range result.PerCategory {
			assert.Equal(t, 0.0, score, "category %s", key)
		}
	})

	t.Run("single weighted category", func(t *testing.T) {
		t.Parallel()
		// Five transport POIs at the property: category score 100,
		// transport weight 0.20, everything else absent.
		result := s.WalkScore(poisAt(model.CategoryTransport, 0, 0, 0, 0, 0))
		assert.InDelta(t, 100, result.PerCategory["transport"], 1e-9)
		assert.InDelta(t, 20, result.Overall, 1e-9)
		assert.Equal(t, "F", result.Grade)
	})

	t.Run("removing a category only lowers the overall", func(t *testing.T) {
		t.Parallel()
		full := append(poisAt(model.CategoryTransport, 100, 200),
			poisAt(model.CategoryHealthcare, 150)...)
		without := poisAt(model.CategoryTransport, 100, 200)

		withAll := s.WalkScore(full)
		withLess := s.WalkScore(without)

		assert.Equal(t, 0.0, withLess.PerCategory["healthcare"])
		assert.Less(t, withLess.Overall, withAll.Overall)
		assert.InDelta(t, withAll.PerCategory["transport"], withLess.PerCategory["transport"], 1e-9)
	})

	t.Run("overall stays within bounds", func(t *testing.T) {
		t.Parallel()
		var pois []model.POI
		for _, cat := range model.Taxonomy() {
			pois = append(pois, poisAt(cat, 0, 0, 0, 0, 0)...)
		}
		result := s.WalkScore(pois)
		assert.GreaterOrEqual(t, result.Overall, 0.0)
		assert.LessOrEqual(t, result.Overall, 100.0)
	})
}

func TestScorer_TotalScore(t *testing.T) {
	t.Parallel()

	s := newTestScorer(t)

	t.Run("weighted combination", func(t *testing.T) {
		t.Parallel()
		domains := map[string]model.DomainScore{
			"accessibility":   {Name: "accessibility", Value: 80, Status: model.ScoreOK},
			"convenience":     {Name: "convenience", Value: 60, Status: model.ScoreOK},
			"safety":          {Name: "safety", Value: 50, Status: model.ScoreDefault},
			"quality_of_life": {Name: "quality_of_life", Value: 40, Status: model.ScoreOK},
		}
		// 0.3*50 + 0.25*80 + 0.25*60 + 0.1*50 + 0.1*40 = 59
		assert.InDelta(t, 59, s.TotalScore(50, domains), 1e-9)
	})

	t.Run("missing domains contribute zero", func(t *testing.T) {
		t.Parallel()
		assert.InDelta(t, 30, s.TotalScore(100, nil), 1e-9)
	})
}

func TestCombine(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		subscores map[string]float64
		weights   map[string]float64
		want      float64
	}{
		{
			"all present",
			map[string]float64{"a": 50, "b": 100},
			map[string]float64{"a": 0.5, "b": 0.5},
			75,
		},
		{
			"missing subscore contributes zero",
			map[string]float64{"a": 80},
			map[string]float64{"a": 0.5, "b": 0.5},
			40,
		},
		{
			"empty weights",
			map[string]float64{"a": 80},
			map[string]float64{},
			0,
		},
		{
			"clamped above",
			map[string]float64{"a": 150},
			map[string]float64{"a": 1},
			100,
		},
		{
			"clamped below",
			map[string]float64{"a": -40},
			map[string]float64{"a": 1},
			0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.InDelta(t, tt.want, Combine(tt.subscores, tt.weights), 1e-9)
		})
	}
}

func TestNew_InvalidConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultScoringConfig()
	cfg.CategoryWeights.Transport = 0.5

	_, err := New(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "category_weights must sum to 1.0")
}
