package model

// Category is the classification bucket a map feature falls into.
type Category string

const (
	CategoryEducation  Category = "education"
	CategoryHealthcare Category = "healthcare"
	CategoryShopping   Category = "shopping"
	CategoryTransport  Category = "transport"
	CategoryLeisure    Category = "leisure"
	CategoryServices   Category = "services"
	CategoryFood       Category = "food"
	// CategoryOther is the fallback bucket for features no rule matches.
	// It is not part of the scored taxonomy.
	CategoryOther Category = "other"
)

// Taxonomy returns the scored categories in canonical order.
func Taxonomy() []Category {
	return []Category{
		CategoryEducation,
		CategoryHealthcare,
		CategoryShopping,
		CategoryTransport,
		CategoryLeisure,
		CategoryServices,
		CategoryFood,
	}
}

// TaxonomySize is the fixed category count used to normalize diversity.
const TaxonomySize = 7

// Point is a WGS84 coordinate pair.
type Point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Feature is a raw map element as returned by a provider, before
// classification. Position of a way is its node centroid.
type Feature struct {
	ID   string            `json:"id"`
	Lat  float64           `json:"lat"`
	Lon  float64           `json:"lon"`
	Name string            `json:"name,omitempty"`
	Tags map[string]string `json:"tags,omitempty"`
}

// POI is a classified feature with its distance from the analyzed property.
type POI struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Category    Category `json:"category"`
	Subcategory string   `json:"subcategory"`
	Lat         float64  `json:"lat"`
	Lon         float64  `json:"lon"`
	Distance    float64  `json:"distance_m"`
}

// Position returns the POI location as a Point.
func (p POI) Position() Point {
	return Point{Lat: p.Lat, Lon: p.Lon}
}
