package scorer

import (
	"math"
	"sort"

	"github.com/gregorizeidler/urbansight/internal/config"
	"github.com/gregorizeidler/urbansight/internal/geo"
	"github.com/gregorizeidler/urbansight/internal/model"
)

// Scorer computes the walk score and composite property score over one
// property's classified POIs. A Scorer is immutable and safe for concurrent
// use.
type Scorer struct {
	categoryWeights map[string]float64
	domainWeights   map[string]float64
	cutoffM         float64
	topN            int
}

// New builds a Scorer from a scoring configuration. Invalid weight tables or
// cutoffs are construction errors, never silently adjusted.
func New(cfg config.ScoringConfig) (*Scorer, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return &Scorer{
		categoryWeights: cfg.CategoryWeights.Map(),
		domainWeights:   cfg.DomainWeights.Map(),
		cutoffM:         cfg.DecayCutoffM,
		topN:            cfg.TopPerCategory,
	}, nil
}

// CategoryScore scores one category's POIs from the distance-decayed
// contributions of its closest members. Rank i (0-based) contributes
// decay(d)/(i+1): a second option is worth half its decay weight, a third a
// third. The sum is scaled to 0-100 and capped.
func (s *Scorer) CategoryScore(pois []model.POI) float64 {
	if len(pois) == 0 {
		return 0
	}

	sorted := make([]model.POI, len(pois))
	copy(sorted, pois)
	// Stable: equal distances keep their input order.
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Distance < sorted[j].Distance
	})

	n := len(sorted)
	if n > s.topN {
		n = s.topN
	}
	var sum float64
	for i := 0; i < n; i++ {
		sum += geo.Decay(sorted[i].Distance, s.cutoffM) / float64(i+1)
	}
	return math.Min(100, sum*100)
}

// WalkScore computes the weighted walk score over the full POI list. Every
// weight-table key gets a per-category score; keys the classifier never
// produces score zero.
func (s *Scorer) WalkScore(pois []model.POI) model.WalkScoreResult {
	byCategory := make(map[string][]model.POI)
	for _, p := range pois {
		key := string(p.Category)
		byCategory[key] = append(byCategory[key], p)
	}

	perCategory := make(map[string]float64, len(s.categoryWeights))
	var overall float64
	for key, weight := range s.categoryWeights {
		score := s.CategoryScore(byCategory[key])
		perCategory[key] = score
		overall += weight * score
	}

	grade := Grade(overall)
	return model.WalkScoreResult{
		Overall:     overall,
		PerCategory: perCategory,
		Grade:       grade,
		Description: WalkDescription(grade),
	}
}

// TotalScore combines the walk score and the domain scores into the overall
// property score. Domains that reported their neutral default participate
// with that value; domains missing entirely contribute zero.
func (s *Scorer) TotalScore(walkScore float64, domains map[string]model.DomainScore) float64 {
	subs := make(map[string]float64, len(domains)+1)
	subs["walkability"] = walkScore
	for name, d := range domains {
		subs[name] = d.Value
	}
	return Combine(subs, s.domainWeights)
}

// Combine computes the weighted sum of named sub-scores. Names missing from
// the sub-score map contribute zero. The result is clamped to [0, 100].
func Combine(subscores, weights map[string]float64) float64 {
	var total float64
	for name, w := range weights {
		total += w * subscores[name]
	}
	return math.Min(100, math.Max(0, total))
}
