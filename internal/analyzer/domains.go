// Package analyzer turns classified POI sets and pedestrian infrastructure
// into the domain scores that feed the composite property score.
package analyzer

import (
	"math"

	"github.com/gregorizeidler/urbansight/internal/model"
)

// Domain score names, matching the configured domain weight keys.
const (
	DomainAccessibility = "accessibility"
	DomainConvenience   = "convenience"
	DomainSafety        = "safety"
	DomainQualityOfLife = "quality_of_life"
)

// band grants a score to distances at or below its bound.
type band struct {
	maxM  float64
	score float64
}

var (
	accessibilityBands = []band{{200, 100}, {500, 80}, {800, 60}, {1200, 40}}
	convenienceBands   = []band{{300, 100}, {600, 80}, {1000, 60}}
	safetyBands        = []band{{500, 100}, {1000, 80}, {1500, 60}}
	proximityBands     = []band{{300, 50}, {600, 40}, {1000, 30}}
)

// bandScore maps a distance through ordered bands, falling back to beyond
// for distances past the last bound.
func bandScore(distanceM float64, bands []band, beyond float64) float64 {
	for _, b := range bands {
		if distanceM <= b.maxM {
			return b.score
		}
	}
	return beyond
}

// closestWhere returns the smallest distance among POIs the predicate
// keeps, and whether any matched.
func closestWhere(pois []model.POI, keep func(model.POI) bool) (float64, bool) {
	var best float64
	var found bool
	for _, p := range pois {
		if !keep(p) {
			continue
		}
		if !found || p.Distance < best {
			best = p.Distance
			found = true
		}
	}
	return best, found
}

// Domains computes every per-domain score from the classified POI list,
// keyed by the domain weight names.
func Domains(pois []model.POI) map[string]model.DomainScore {
	return map[string]model.DomainScore{
		DomainAccessibility: Accessibility(pois),
		DomainConvenience:   Convenience(pois),
		DomainSafety:        Safety(pois),
		DomainQualityOfLife: QualityOfLife(pois),
	}
}

// Accessibility scores how reachable public transport is.
func Accessibility(pois []model.POI) model.DomainScore {
	closest, ok := closestWhere(pois, func(p model.POI) bool {
		return p.Category == model.CategoryTransport
	})
	if !ok {
		return model.DomainScore{
			Name:   DomainAccessibility,
			Status: model.ScoreDefault,
			Reason: "no transport options found",
		}
	}
	return model.DomainScore{
		Name:   DomainAccessibility,
		Value:  bandScore(closest, accessibilityBands, 20),
		Status: model.ScoreOK,
	}
}

// Convenience averages the proximity bands of the three everyday-errand
// categories. A category with no POI contributes zero to the mean.
func Convenience(pois []model.POI) model.DomainScore {
	cats := []model.Category{
		model.CategoryShopping,
		model.CategoryHealthcare,
		model.CategoryServices,
	}

	var sum float64
	var observed int
	for _, cat := range cats {
		closest, ok := closestWhere(pois, func(p model.POI) bool {
			return p.Category == cat
		})
		if !ok {
			continue
		}
		observed++
		sum += bandScore(closest, convenienceBands, 30)
	}

	if observed == 0 {
		return model.DomainScore{
			Name:   DomainConvenience,
			Status: model.ScoreDefault,
			Reason: "no shopping, healthcare or service points found",
		}
	}
	return model.DomainScore{
		Name:   DomainConvenience,
		Value:  sum / float64(len(cats)),
		Status: model.ScoreOK,
	}
}

// Safety scores distance to the nearest police or fire station. With no
// emergency services in range it returns a neutral 50.
func Safety(pois []model.POI) model.DomainScore {
	closest, ok := closestWhere(pois, func(p model.POI) bool {
		return p.Subcategory == "police" || p.Subcategory == "fire_station"
	})
	if !ok {
		return model.DomainScore{
			Name:   DomainSafety,
			Value:  50,
			Status: model.ScoreDefault,
			Reason: "no emergency services found",
		}
	}
	return model.DomainScore{
		Name:   DomainSafety,
		Value:  bandScore(closest, safetyBands, 40),
		Status: model.ScoreOK,
	}
}

// QualityOfLife combines leisure and dining variety with proximity to the
// closest such POI.
func QualityOfLife(pois []model.POI) model.DomainScore {
	subcats := make(map[string]bool)
	var closest float64
	var found bool
	for _, p := range pois {
		if p.Category != model.CategoryLeisure && p.Category != model.CategoryFood {
			continue
		}
		subcats[p.Subcategory] = true
		if !found || p.Distance < closest {
			closest = p.Distance
			found = true
		}
	}

	if !found {
		return model.DomainScore{
			Name:   DomainQualityOfLife,
			Status: model.ScoreDefault,
			Reason: "no leisure or dining options found",
		}
	}

	variety := math.Min(float64(len(subcats))*10, 50)
	return model.DomainScore{
		Name:   DomainQualityOfLife,
		Value:  variety + bandScore(closest, proximityBands, 20),
		Status: model.ScoreOK,
	}
}
