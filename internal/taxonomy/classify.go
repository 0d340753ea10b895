// Package taxonomy classifies raw map features into the scored category set.
package taxonomy

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/gregorizeidler/urbansight/internal/model"
)

// SubcategoryUnknown is the subcategory assigned when no rule matches.
const SubcategoryUnknown = "unknown"

// Classifier maps a feature's tag set to a (category, subcategory) pair.
// Classification is total and deterministic: the first priority tag key
// present in the tag map decides, and unmatched features land in
// CategoryOther rather than erroring.
type Classifier struct {
	priority []string
	amenity  map[string]model.Category
	keyCat   map[string]model.Category
}

// NewClassifier returns a classifier over the built-in rule tables.
//
// Rules, checked in priority order:
//   - amenity: value looked up in the amenity tables; unknown amenity
//     values fall back to services
//   - shop: shopping, any value
//   - leisure, tourism: leisure
//   - public_transport: transport
//
// The raw tag value becomes the subcategory.
func NewClassifier() *Classifier {
	return &Classifier{
		priority: []string{"amenity", "shop", "leisure", "tourism", "public_transport"},
		amenity:  defaultAmenityTable(),
		keyCat: map[string]model.Category{
			"shop":             model.CategoryShopping,
			"leisure":          model.CategoryLeisure,
			"tourism":          model.CategoryLeisure,
			"public_transport": model.CategoryTransport,
		},
	}
}

func defaultAmenityTable() map[string]model.Category {
	table := make(map[string]model.Category)
	add := func(cat model.Category, values ...string) {
		for _, v := range values {
			table[v] = cat
		}
	}
	add(model.CategoryEducation, "school", "university", "college", "kindergarten")
	add(model.CategoryHealthcare, "hospital", "clinic", "pharmacy", "dentist")
	add(model.CategoryFood, "restaurant", "cafe", "fast_food", "bar", "pub")
	add(model.CategoryServices, "bank", "post_office", "police", "fire_station")
	add(model.CategoryTransport, "bus_station", "subway_entrance", "train_station")
	return table
}

// Classify resolves the category and subcategory for a tag set.
func (c *Classifier) Classify(tags map[string]string) (model.Category, string) {
	for _, key := range c.priority {
		value, ok := tags[key]
		if !ok {
			continue
		}
		if key == "amenity" {
			if cat, ok := c.amenity[value]; ok {
				return cat, value
			}
			return model.CategoryServices, value
		}
		if cat, ok := c.keyCat[key]; ok {
			return cat, value
		}
	}
	return model.CategoryOther, SubcategoryUnknown
}

// ClassifyFeature builds a POI from a raw feature and its distance from the
// reference point. Unnamed features get a display name derived from the
// subcategory.
func (c *Classifier) ClassifyFeature(f model.Feature, distanceM float64) model.POI {
	cat, sub := c.Classify(f.Tags)
	name := f.Name
	if name == "" {
		name = DisplayName(sub)
	}
	return model.POI{
		ID:          f.ID,
		Name:        name,
		Category:    cat,
		Subcategory: sub,
		Lat:         f.Lat,
		Lon:         f.Lon,
		Distance:    distanceM,
	}
}

// DisplayName turns a raw subcategory like "fast_food" into "Fast Food".
func DisplayName(subcategory string) string {
	spaced := strings.ReplaceAll(subcategory, "_", " ")
	return cases.Title(language.English).String(spaced)
}
