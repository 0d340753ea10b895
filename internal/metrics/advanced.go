package metrics

import (
	"math"
	"strings"

	"github.com/gregorizeidler/urbansight/internal/geo"
	"github.com/gregorizeidler/urbansight/internal/model"
)

// walkingSpeedMPerMin approximates a 5 km/h walking pace.
const walkingSpeedMPerMin = 83.33

// fullyUrbanDensity is the total POI density (per km²) treated as maximal
// urban intensity.
const fullyUrbanDensity = 500.0

// greenNameHints mark leisure POIs that count as green space.
var greenNameHints = []string{"park", "garden", "green", "tree"}

// essentialCategories drive the completeness score.
var essentialCategories = []model.Category{
	model.CategoryHealthcare,
	model.CategoryEducation,
	model.CategoryShopping,
	model.CategoryTransport,
}

// Calculator derives the advanced indicator set for one property. The
// radius must be the one the POIs were collected with.
type Calculator struct {
	radiusM float64
}

// NewCalculator returns a Calculator normalizing densities to the given
// search radius.
func NewCalculator(radiusM float64) *Calculator {
	return &Calculator{radiusM: radiusM}
}

// Compute derives every advanced metric from the classified POI list.
func (c *Calculator) Compute(pois []model.POI) model.AdvancedMetrics {
	return model.AdvancedMetrics{
		ServiceDensity: c.serviceDensity(pois),
		Diversity:      Diversity(pois),
		Mobility:       c.mobility(pois),
		Lifestyle:      lifestyle(pois),
		GreenSpace:     greenSpace(pois),
		UrbanIntensity: c.urbanIntensity(pois),
	}
}

func (c *Calculator) serviceDensity(pois []model.POI) model.ServiceDensity {
	counts := CountByCategory(pois)

	perCat := make(map[model.Category]float64, len(counts))
	for cat, n := range counts {
		perCat[cat] = Density(n, c.radiusM)
	}

	var present int
	for _, cat := range essentialCategories {
		if counts[cat] > 0 {
			present++
		}
	}

	return model.ServiceDensity{
		PerCategory:  perCat,
		Total:        len(pois),
		Variety:      math.Min(100, float64(len(counts))/model.TaxonomySize*100),
		Completeness: float64(present) / float64(len(essentialCategories)) * 100,
	}
}

func (c *Calculator) mobility(pois []model.POI) model.Mobility {
	m := model.Mobility{
		Directions:   map[string]float64{},
		WalkingTimes: map[model.Category]float64{},
	}
	if len(pois) == 0 {
		return m
	}

	counts := CountByCategory(pois)
	m.TransportDensity = Density(counts[model.CategoryTransport], c.radiusM)

	// Directional split relative to the POI centroid. Every POI lands in
	// one north/south and one east/west bucket, so the four percentages
	// sum to 200.
	pts := make([]model.Point, len(pois))
	for i, p := range pois {
		pts[i] = p.Position()
	}
	center := geo.Centroid(pts)
	dirCounts := make(map[string]int, 4)
	for _, p := range pois {
		ns, ew := geo.Direction(center, p.Position())
		dirCounts[ns]++
		dirCounts[ew]++
	}
	total := float64(len(pois))
	for _, dir := range []string{"north", "south", "east", "west"} {
		m.Directions[dir] = float64(dirCounts[dir]) / total * 100
	}

	sums := make(map[model.Category]float64)
	for _, p := range pois {
		sums[p.Category] += p.Distance
	}
	for cat, sum := range sums {
		avg := sum / float64(counts[cat])
		m.WalkingTimes[cat] = avg / walkingSpeedMPerMin
	}

	transportSubs := make(map[string]bool)
	for _, p := range pois {
		if p.Category == model.CategoryTransport {
			transportSubs[p.Subcategory] = true
		}
	}
	m.Connectivity = math.Min(float64(len(transportSubs))*20, 100)

	return m
}

func lifestyle(pois []model.POI) model.Lifestyle {
	counts := CountByCategory(pois)
	n := func(cats ...model.Category) float64 {
		var total int
		for _, c := range cats {
			total += counts[c]
		}
		return float64(total)
	}
	return model.Lifestyle{
		DailyLife:     math.Min(n(model.CategoryShopping, model.CategoryHealthcare, model.CategoryServices)*2, 100),
		Entertainment: math.Min(n(model.CategoryFood, model.CategoryLeisure)*1.5, 100),
		Family:        math.Min(n(model.CategoryEducation, model.CategoryLeisure)*3, 100),
		Professional:  math.Min(n(model.CategoryTransport, model.CategoryServices)*2.5, 100),
	}
}

func greenSpace(pois []model.POI) float64 {
	var green []model.POI
	for _, p := range pois {
		if p.Category != model.CategoryLeisure {
			continue
		}
		name := strings.ToLower(p.Name)
		for _, hint := range greenNameHints {
			if strings.Contains(name, hint) {
				green = append(green, p)
				break
			}
		}
	}
	if len(green) == 0 {
		return 0
	}

	closest := green[0].Distance
	for _, p := range green[1:] {
		if p.Distance < closest {
			closest = p.Distance
		}
	}
	score := math.Min(float64(len(green))*10, 70) + math.Max(30-closest/100, 0)
	return math.Min(score, 100)
}

func (c *Calculator) urbanIntensity(pois []model.POI) float64 {
	if len(pois) == 0 {
		return 0
	}
	return math.Min(Density(len(pois), c.radiusM)/fullyUrbanDensity*100, 100)
}
