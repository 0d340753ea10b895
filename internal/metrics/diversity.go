// Package metrics computes the diversity index and the secondary
// neighborhood indicators derived from a classified POI set.
package metrics

import (
	"math"

	"github.com/gregorizeidler/urbansight/internal/model"
)

// Diversity measures how evenly a POI set spreads across categories using
// normalized Shannon entropy. The index is normalized against the fixed
// taxonomy size, not the observed category count, so adding a new category
// of POIs always raises it.
//
// Empty input returns the documented neutral result: zero index, "none"
// dominant, zero balance.
func Diversity(pois []model.POI) model.DiversityResult {
	if len(pois) == 0 {
		return model.DiversityResult{Dominant: "none"}
	}

	counts := make(map[model.Category]int)
	var order []model.Category
	for _, p := range pois {
		if counts[p.Category] == 0 {
			order = append(order, p.Category)
		}
		counts[p.Category]++
	}

	total := float64(len(pois))
	var shannon float64
	for _, cat := range order {
		p := float64(counts[cat]) / total
		shannon -= p * math.Log(p)
	}

	index := 0.0
	if model.TaxonomySize > 1 {
		index = math.Min(100, shannon/math.Log(model.TaxonomySize)*100)
	}

	// Dominant is the highest count; ties go to the category seen first.
	dominant := order[0]
	for _, cat := range order[1:] {
		if counts[cat] > counts[dominant] {
			dominant = cat
		}
	}

	balance := 0.0
	if len(order) >= 2 {
		minCount, maxCount := counts[order[0]], counts[order[0]]
		for _, cat := range order[1:] {
			if counts[cat] < minCount {
				minCount = counts[cat]
			}
			if counts[cat] > maxCount {
				maxCount = counts[cat]
			}
		}
		balance = float64(minCount) / float64(maxCount) * 100
	}

	return model.DiversityResult{
		Index:         index,
		Shannon:       shannon,
		CategoryCount: len(order),
		Dominant:      string(dominant),
		Balance:       balance,
	}
}
