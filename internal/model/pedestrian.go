package model

// Sidewalk is a sidewalk way near the property.
type Sidewalk struct {
	Distance   float64 `json:"distance_m"`
	Length     float64 `json:"length_m"`
	Surface    string  `json:"surface"`
	Width      string  `json:"width"`
	Lit        string  `json:"lit"`
	Wheelchair string  `json:"wheelchair"`
}

// Crossing is a pedestrian crossing node.
type Crossing struct {
	Distance      float64 `json:"distance_m"`
	Type          string  `json:"type"`
	Signals       string  `json:"signals"`
	TactilePaving string  `json:"tactile_paving"`
	Wheelchair    string  `json:"wheelchair"`
}

// Road is a drivable way with its posted or class-estimated speed.
type Road struct {
	Distance float64 `json:"distance_m"`
	Class    string  `json:"class"`
	MaxSpeed string  `json:"maxspeed,omitempty"`
}

// PedestrianInfra is the raw walkability infrastructure collected around a
// point. Distances are meters from the property.
type PedestrianInfra struct {
	Sidewalks          []Sidewalk `json:"sidewalks"`
	Crossings          []Crossing `json:"crossings"`
	SignalDistances    []float64  `json:"signal_distances"`
	Roads              []Road     `json:"roads"`
	LampDistances      []float64  `json:"lamp_distances"`
	PedestrianWayDists []float64  `json:"pedestrian_way_distances"`
}

// Empty reports whether nothing at all was collected.
func (p PedestrianInfra) Empty() bool {
	return len(p.Sidewalks) == 0 && len(p.Crossings) == 0 &&
		len(p.SignalDistances) == 0 && len(p.Roads) == 0 &&
		len(p.LampDistances) == 0 && len(p.PedestrianWayDists) == 0
}

// PedestrianScore grades the walking infrastructure around a property.
type PedestrianScore struct {
	Overall       float64     `json:"overall"`
	Sidewalk      float64     `json:"sidewalk"`
	Crossing      float64     `json:"crossing"`
	Safety        float64     `json:"safety"`
	Accessibility float64     `json:"accessibility"`
	Comfort       float64     `json:"comfort"`
	Grade         string      `json:"grade"`
	Description   string      `json:"description"`
	Status        ScoreStatus `json:"status"`
}
