package taxonomy

import (
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/gregorizeidler/urbansight/internal/model"
)

// Rules is the on-disk shape of a classification rule file. Categories must
// come from the scored taxonomy; the fallback bucket cannot be assigned.
type Rules struct {
	Priority []string            `yaml:"priority"`
	Amenity  map[string][]string `yaml:"amenity"`
	Keys     map[string]string   `yaml:"keys"`
}

// LoadRules reads a YAML rule file and builds a classifier from it.
func LoadRules(path string) (*Classifier, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "taxonomy: read rules file")
	}
	var r Rules
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, eris.Wrap(err, "taxonomy: parse rules file")
	}
	c, err := compile(r)
	if err != nil {
		return nil, eris.Wrap(err, "taxonomy: "+path)
	}
	return c, nil
}

func compile(r Rules) (*Classifier, error) {
	var errs []string

	if len(r.Priority) == 0 {
		errs = append(errs, "priority list is empty")
	}

	valid := make(map[string]model.Category, model.TaxonomySize)
	for _, cat := range model.Taxonomy() {
		valid[string(cat)] = cat
	}

	categories := make(map[model.Category]bool)

	amenity := make(map[string]model.Category)
	for catName, values := range r.Amenity {
		cat, ok := valid[catName]
		if !ok {
			errs = append(errs, "unknown amenity category "+catName)
			continue
		}
		categories[cat] = true
		for _, v := range values {
			if prev, dup := amenity[v]; dup && prev != cat {
				errs = append(errs, "amenity value "+v+" mapped to both "+string(prev)+" and "+catName)
				continue
			}
			amenity[v] = cat
		}
	}

	keyCat := make(map[string]model.Category)
	for key, catName := range r.Keys {
		cat, ok := valid[catName]
		if !ok {
			errs = append(errs, "unknown category "+catName+" for tag key "+key)
			continue
		}
		categories[cat] = true
		keyCat[key] = cat
	}

	for _, key := range r.Priority {
		if key == "amenity" {
			continue
		}
		if _, ok := keyCat[key]; !ok {
			errs = append(errs, "priority key "+key+" has no category mapping")
		}
	}

	if len(categories) < 2 {
		errs = append(errs, "rules cover fewer than 2 categories")
	}

	if len(errs) > 0 {
		return nil, eris.Errorf("invalid rules: %s", strings.Join(errs, "; "))
	}

	return &Classifier{priority: r.Priority, amenity: amenity, keyCat: keyCat}, nil
}
