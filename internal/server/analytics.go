package server

import (
	"sort"

	"github.com/gregorizeidler/urbansight/internal/model"
)

// topCategoriesLimit caps the most-common-categories list.
const topCategoriesLimit = 10

// CategoryCount is one entry of the most-common-categories ranking.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// Analytics aggregates over every analysis the store has seen.
type Analytics struct {
	Message       string          `json:"message,omitempty"`
	TotalAnalyses int             `json:"total_analyses"`
	Succeeded     int             `json:"succeeded"`
	Failed        int             `json:"failed"`
	SuccessRate   float64         `json:"success_rate"`
	AvgWalkScore  float64         `json:"avg_walk_score"`
	AvgTotalScore float64         `json:"avg_total_score"`
	TopCategories []CategoryCount `json:"most_common_categories"`
}

// ComputeAnalytics summarizes the stored results. Averages are taken over
// successful analyses only; with nothing stored the no-data variant is
// returned.
func ComputeAnalytics(results []model.AnalysisResult) Analytics {
	if len(results) == 0 {
		return Analytics{Message: "no analyses yet"}
	}

	a := Analytics{TotalAnalyses: len(results)}
	counts := make(map[model.Category]int)
	var walkSum, totalSum float64
	for _, r := range results {
		if !r.Success {
			a.Failed++
			continue
		}
		a.Succeeded++
		if r.Metrics != nil {
			walkSum += r.Metrics.WalkScore.Overall
			totalSum += r.Metrics.TotalScore
		}
		for _, p := range r.POIs {
			counts[p.Category]++
		}
	}

	a.SuccessRate = float64(a.Succeeded) / float64(a.TotalAnalyses) * 100
	if a.Succeeded > 0 {
		a.AvgWalkScore = walkSum / float64(a.Succeeded)
		a.AvgTotalScore = totalSum / float64(a.Succeeded)
	}

	ranked := make([]CategoryCount, 0, len(counts))
	for cat, n := range counts {
		ranked = append(ranked, CategoryCount{Category: string(cat), Count: n})
	}
	// Ties rank alphabetically so the ordering is stable.
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].Category < ranked[j].Category
	})
	if len(ranked) > topCategoriesLimit {
		ranked = ranked[:topCategoriesLimit]
	}
	a.TopCategories = ranked
	return a
}
