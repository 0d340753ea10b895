package model

// ScoreStatus tells whether a score was computed from observed data or fell
// back to its documented neutral default.
type ScoreStatus string

const (
	ScoreOK      ScoreStatus = "ok"
	ScoreDefault ScoreStatus = "default"
)

// DomainScore is one domain's contribution to the total property score.
type DomainScore struct {
	Name   string      `json:"name"`
	Value  float64     `json:"value"`
	Status ScoreStatus `json:"status"`
	Reason string      `json:"reason,omitempty"`
}

// WalkScoreResult is the category-weighted proximity index for a property.
type WalkScoreResult struct {
	Overall     float64            `json:"walk_score"`
	PerCategory map[string]float64 `json:"per_category"`
	Grade       string             `json:"grade"`
	Description string             `json:"description"`
}

// DiversityResult measures how evenly POIs spread across the taxonomy.
type DiversityResult struct {
	Index         float64 `json:"diversity_score"`
	Shannon       float64 `json:"shannon_index"`
	CategoryCount int     `json:"category_count"`
	Dominant      string  `json:"dominant_category"`
	Balance       float64 `json:"balance"`
}

// Cluster is a dense group of nearby POIs found by the spatial detector.
type Cluster struct {
	ID         int   `json:"id"`
	POIs       []POI `json:"pois"`
	Centroid   Point `json:"centroid"`
	Categories int   `json:"categories"`
}

// NeighborhoodMetrics aggregates every per-property score the core pipeline
// produces.
type NeighborhoodMetrics struct {
	WalkScore      WalkScoreResult        `json:"walk_score"`
	Density        float64                `json:"poi_density_km2"`
	CategoryCounts map[Category]int       `json:"category_counts"`
	ClosestPOI     map[Category]POI       `json:"closest_poi"`
	Domains        map[string]DomainScore `json:"domains"`
	TotalScore     float64                `json:"total_score"`
}
