package model

import "time"

// PropertyInfo is a geocoded property location.
type PropertyInfo struct {
	Address  string  `json:"address"`
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
	City     string  `json:"city,omitempty"`
	State    string  `json:"state,omitempty"`
	Country  string  `json:"country,omitempty"`
	Postcode string  `json:"postcode,omitempty"`
}

// Position returns the property location as a Point.
func (p PropertyInfo) Position() Point {
	return Point{Lat: p.Lat, Lon: p.Lon}
}

// PropertyDetails carries best-effort building and landuse context around
// the property. All fields may be empty.
type PropertyDetails struct {
	BuildingType   string `json:"building_type,omitempty"`
	BuildingLevels string `json:"building_levels,omitempty"`
	Landuse        string `json:"landuse,omitempty"`
}

// InsightSource records how a narrative was produced.
type InsightSource string

const (
	InsightSourceModel    InsightSource = "model"
	InsightSourceTemplate InsightSource = "template"
)

// Insight is the narrative interpretation of an analysis.
type Insight struct {
	ExecutiveSummary        string        `json:"executive_summary"`
	NeighborhoodDescription string        `json:"neighborhood_description"`
	Strengths               []string      `json:"strengths"`
	Concerns                []string      `json:"concerns"`
	Recommendations         []string      `json:"recommendations"`
	IdealResidentProfile    string        `json:"ideal_resident_profile"`
	MarketPositioning       string        `json:"market_positioning"`
	InvestmentPotential     string        `json:"investment_potential"`
	Source                  InsightSource `json:"source"`
}

// AnalysisResult is the complete outcome of analyzing one property.
type AnalysisResult struct {
	AnalysisID string               `json:"analysis_id"`
	Timestamp  time.Time            `json:"timestamp"`
	Success    bool                 `json:"success"`
	Error      string               `json:"error,omitempty"`
	Property   PropertyInfo         `json:"property"`
	Details    PropertyDetails      `json:"property_details,omitempty"`
	POIs       []POI                `json:"pois,omitempty"`
	Metrics    *NeighborhoodMetrics `json:"metrics,omitempty"`
	Advanced   *AdvancedMetrics     `json:"advanced_metrics,omitempty"`
	Pedestrian *PedestrianScore     `json:"pedestrian_score,omitempty"`
	Clusters   []Cluster            `json:"clusters,omitempty"`
	Noise      []POI                `json:"noise,omitempty"`
	Insight    *Insight             `json:"insights,omitempty"`
	Duration   int64                `json:"duration_ms"`
}

// BatchItem is one address's outcome within a batch run.
type BatchItem struct {
	Address    string `json:"address"`
	AnalysisID string `json:"analysis_id"`
	Success    bool   `json:"success"`
	Error      string `json:"error,omitempty"`
}

// BatchSummary reports a batch run without the per-property payloads.
type BatchSummary struct {
	Requested int         `json:"requested"`
	Succeeded int         `json:"succeeded"`
	Failed    int         `json:"failed"`
	Items     []BatchItem `json:"items"`
}
