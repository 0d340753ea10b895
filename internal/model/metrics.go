package model

// ServiceDensity describes service coverage per square kilometer.
type ServiceDensity struct {
	PerCategory  map[Category]float64 `json:"per_category_km2"`
	Total        int                  `json:"total_services"`
	Variety      float64              `json:"variety_score"`
	Completeness float64              `json:"completeness_score"`
}

// Mobility describes how POIs distribute around the property and how long
// they take to reach on foot.
type Mobility struct {
	TransportDensity float64              `json:"transport_density_km2"`
	Directions       map[string]float64   `json:"directional_distribution"`
	WalkingTimes     map[Category]float64 `json:"avg_walking_time_min"`
	Connectivity     float64              `json:"connectivity_score"`
}

// Lifestyle scores the neighborhood for different resident profiles.
type Lifestyle struct {
	DailyLife     float64 `json:"daily_life"`
	Entertainment float64 `json:"entertainment"`
	Family        float64 `json:"family_friendliness"`
	Professional  float64 `json:"professional"`
}

// AdvancedMetrics bundles the secondary indicators computed alongside the
// walk score.
type AdvancedMetrics struct {
	ServiceDensity ServiceDensity  `json:"service_density"`
	Diversity      DiversityResult `json:"urban_diversity"`
	Mobility       Mobility        `json:"mobility"`
	Lifestyle      Lifestyle       `json:"lifestyle_scores"`
	GreenSpace     float64         `json:"green_space_score"`
	UrbanIntensity float64         `json:"urban_intensity_score"`
}
